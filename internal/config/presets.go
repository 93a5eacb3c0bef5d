package config

import "sort"

// Materials holds named conductor presets. Values are room-temperature
// handbook figures for a 1 m cell.
var Materials = map[string]ConductorConfig{
	"aluminum": {
		K: 237, Cp: 900, Rho: 2700,
		Area: 1, DeltaX: 1, ConductionTime: 1, MinDelta: 1e-5,
	},
	"copper": {
		K: 401, Cp: 385, Rho: 8960,
		Area: 1, DeltaX: 1, ConductionTime: 1, MinDelta: 1e-5,
	},
	"steel": {
		K: 50, Cp: 490, Rho: 7850,
		Area: 1, DeltaX: 1, ConductionTime: 1, MinDelta: 1e-5,
	},
	"glass": {
		K: 1.05, Cp: 840, Rho: 2500,
		Area: 1, DeltaX: 1, ConductionTime: 1, MinDelta: 1e-5,
	},
}

// GetMaterial returns the preset conductor section for name, or nil if
// unknown.
func GetMaterial(name string) *ConductorConfig {
	m, ok := Materials[name]
	if !ok {
		return nil
	}
	return &m
}

// ListMaterials returns the preset names in sorted order.
func ListMaterials() []string {
	names := make([]string, 0, len(Materials))
	for name := range Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
