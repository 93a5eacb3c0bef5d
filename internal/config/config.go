package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

const (
	DefaultCubeSize       = 8
	DefaultStartTemp      = 275.0
	DefaultEndTemp        = 376.0
	DefaultIncrement      = 1.0
	DefaultDelay          = 2
	DefaultMaxIterations  = 10000
	DefaultDeltaTolerance = 0.1
)

// Config mirrors the simulation's YAML document: a propagator section
// for the step loop and a heat_conductor section for the material.
type Config struct {
	Propagator    PropagatorConfig `yaml:"propagator"`
	HeatConductor ConductorConfig  `yaml:"heat_conductor"`
}

type PropagatorConfig struct {
	CubeSize       int     `yaml:"cube_size"`
	Origin         []int   `yaml:"origin"`
	AmbientTemp    float64 `yaml:"ambient_temp"`
	StartTemp      float64 `yaml:"start_temp"`
	EndTemp        float64 `yaml:"end_temp"`
	Increment      float64 `yaml:"increment"`
	Delay          int     `yaml:"delay"`
	MaxIterations  int     `yaml:"max_iterations"`
	DeltaTolerance float64 `yaml:"delta_tolerance"`
}

type ConductorConfig struct {
	K              float64 `yaml:"k"`
	Cp             float64 `yaml:"c_p"`
	Rho            float64 `yaml:"rho"`
	Area           float64 `yaml:"a"`
	DeltaX         float64 `yaml:"delta_x"`
	ConductionTime float64 `yaml:"conduction_time"`
	MinDelta       float64 `yaml:"min_delta"`
}

// DefaultConfig returns an aluminum cube heated from one corner.
func DefaultConfig() *Config {
	return &Config{
		Propagator: PropagatorConfig{
			CubeSize:       DefaultCubeSize,
			Origin:         []int{0, 0, 0},
			AmbientTemp:    0,
			StartTemp:      DefaultStartTemp,
			EndTemp:        DefaultEndTemp,
			Increment:      DefaultIncrement,
			Delay:          DefaultDelay,
			MaxIterations:  DefaultMaxIterations,
			DeltaTolerance: DefaultDeltaTolerance,
		},
		HeatConductor: ConductorConfig{
			K:              237,
			Cp:             900,
			Rho:            2700,
			Area:           1,
			DeltaX:         1,
			ConductionTime: 1,
			MinDelta:       1e-5,
		},
	}
}

// Load reads a YAML config, applying defaults for missing keys.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the propagator section into run parameters.
func (c *Config) Params() (thermal.Params, error) {
	if len(c.Propagator.Origin) != 3 {
		return thermal.Params{}, fmt.Errorf("%w: origin must have 3 coordinates, got %d",
			thermal.ErrOriginOutOfBounds, len(c.Propagator.Origin))
	}
	p := thermal.Params{
		CubeSize: c.Propagator.CubeSize,
		Origin: thermal.Coord{
			X: c.Propagator.Origin[0],
			Y: c.Propagator.Origin[1],
			Z: c.Propagator.Origin[2],
		},
		AmbientTemp:    c.Propagator.AmbientTemp,
		StartTemp:      c.Propagator.StartTemp,
		EndTemp:        c.Propagator.EndTemp,
		Increment:      c.Propagator.Increment,
		Delay:          c.Propagator.Delay,
		MaxIterations:  c.Propagator.MaxIterations,
		DeltaTolerance: c.Propagator.DeltaTolerance,
	}
	return p, p.Validate()
}

// Material converts the heat_conductor section into material parameters.
func (c *Config) Material() (thermal.Material, error) {
	m := thermal.Material{
		K:              c.HeatConductor.K,
		Cp:             c.HeatConductor.Cp,
		Rho:            c.HeatConductor.Rho,
		Area:           c.HeatConductor.Area,
		DeltaX:         c.HeatConductor.DeltaX,
		ConductionTime: c.HeatConductor.ConductionTime,
		MinDelta:       c.HeatConductor.MinDelta,
	}
	return m, m.Validate()
}

// Validate fails fast on any section error before a run is constructed.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, err := c.Material(); err != nil {
		return err
	}
	return nil
}
