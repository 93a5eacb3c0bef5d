package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/config"
	"github.com/hypnoseal/ThermodynamicsSimulator/internal/metrics"
	"github.com/hypnoseal/ThermodynamicsSimulator/internal/render"
	"github.com/hypnoseal/ThermodynamicsSimulator/internal/store"
	"github.com/hypnoseal/ThermodynamicsSimulator/internal/sweep"
	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
	"github.com/hypnoseal/ThermodynamicsSimulator/internal/tui"
)

var (
	dataDir    string
	configFile string
	material   string
	label      string

	cubeSize       int
	origin         []int
	ambientTemp    float64
	startTemp      float64
	endTemp        float64
	increment      float64
	delay          int
	maxIterations  int
	deltaTolerance float64

	zSlice    int
	stepIndex int
	frameRate int
	outPath   string

	sweepParam string
	sweepLo    float64
	sweepHi    float64
	sweepN     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thermosim",
		Short: "3D heat diffusion simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".thermosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&label, "label", "cube", "label for the stored run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run time series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a slice heatmap of one recorded step",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&zSlice, "z", 0, "z slice")
	showCmd.Flags().IntVar(&stepIndex, "step", -1, "step index (-1 = last)")

	playCmd := &cobra.Command{
		Use:   "play [run_id]",
		Short: "replay a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}
	playCmd.Flags().IntVar(&frameRate, "fps", 10, "frame rate")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export recorded frames as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a slice heatmap as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&zSlice, "z", 0, "z slice")
	exportSVGCmd.Flags().IntVar(&stepIndex, "step", -1, "step index (-1 = last)")
	exportSVGCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a material parameter and rank convergence speed",
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "k", "material parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepLo, "from", 50, "lowest swept value")
	sweepCmd.Flags().Float64Var(&sweepHi, "to", 400, "highest swept value")
	sweepCmd.Flags().IntVar(&sweepN, "points", 8, "number of grid points")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list material presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, showCmd, playCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&material, "material", "", "material preset (see presets)")
	cmd.Flags().IntVar(&cubeSize, "cube-size", config.DefaultCubeSize, "cube edge length in cells")
	cmd.Flags().IntSliceVar(&origin, "origin", []int{0, 0, 0}, "heat injection cell")
	cmd.Flags().Float64Var(&ambientTemp, "ambient", 0, "ambient temperature (K)")
	cmd.Flags().Float64Var(&startTemp, "start-temp", config.DefaultStartTemp, "origin temperature at step 0 (K)")
	cmd.Flags().Float64Var(&endTemp, "end-temp", config.DefaultEndTemp, "origin injection ceiling (K)")
	cmd.Flags().Float64Var(&increment, "increment", config.DefaultIncrement, "injected temperature per delay (K)")
	cmd.Flags().IntVar(&delay, "delay", config.DefaultDelay, "steps between injections")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", config.DefaultMaxIterations, "iteration budget")
	cmd.Flags().Float64Var(&deltaTolerance, "tolerance", config.DefaultDeltaTolerance, "convergence tolerance (K)")
}

// buildConfig merges defaults, config file, material preset and flag
// overrides, in that order (flags win).
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if material != "" {
		preset := config.GetMaterial(material)
		if preset == nil {
			return nil, fmt.Errorf("unknown material: %s (available: %v)", material, config.ListMaterials())
		}
		cfg.HeatConductor = *preset
	}

	if cmd.Flags().Changed("cube-size") {
		cfg.Propagator.CubeSize = cubeSize
	}
	if cmd.Flags().Changed("origin") {
		cfg.Propagator.Origin = origin
	}
	if cmd.Flags().Changed("ambient") {
		cfg.Propagator.AmbientTemp = ambientTemp
	}
	if cmd.Flags().Changed("start-temp") {
		cfg.Propagator.StartTemp = startTemp
	}
	if cmd.Flags().Changed("end-temp") {
		cfg.Propagator.EndTemp = endTemp
	}
	if cmd.Flags().Changed("increment") {
		cfg.Propagator.Increment = increment
	}
	if cmd.Flags().Changed("delay") {
		cfg.Propagator.Delay = delay
	}
	if cmd.Flags().Changed("max-iterations") {
		cfg.Propagator.MaxIterations = maxIterations
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Propagator.DeltaTolerance = deltaTolerance
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	params, err := cfg.Params()
	if err != nil {
		return err
	}
	mat, err := cfg.Material()
	if err != nil {
		return err
	}

	cond, err := thermal.NewConductor(mat)
	if err != nil {
		return err
	}
	prop, err := thermal.NewPropagator(params, cond)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		prop.AddMetric(m)
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("propagating %d³ cube...\n", params.CubeSize)
	start := time.Now()

	result, err := prop.Propagate(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(label, params, mat, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d (%s)\n", result.Steps, result.Reason)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tTIME\tCUBE\tSTEPS\tEND")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d³\t%d\t%s\n",
			run.ID,
			run.Label,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.CubeSize,
			run.Steps,
			run.Reason,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("steps: %d (%s)\n\n", meta.Steps, meta.Reason)

	fmt.Println(render.Plot(render.OriginSeries(frames, meta.Params.Origin), "origin temperature (K)"))
	fmt.Println()
	fmt.Println(render.Plot(render.MeanSeries(frames), "mean temperature (K)"))

	if deltas := render.MaxDeltaSeries(frames); len(deltas) > 0 {
		fmt.Println()
		fmt.Println(render.Plot(deltas, "max per-cell change per step (K)"))
	}

	return nil
}

func loadFrame(runID string) (*store.RunMetadata, []*thermal.Field, *thermal.Field, error) {
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no frames", runID)
	}

	idx := stepIndex
	if idx < 0 || idx >= len(frames) {
		idx = len(frames) - 1
	}
	return meta, frames, frames[idx], nil
}

// colorScale fixes the heatmap ramp for a run: ambient up to the
// hottest temperature the run ever held.
func colorScale(meta *store.RunMetadata) (float64, float64) {
	lo := meta.Params.AmbientTemp
	hi := meta.Params.EndTemp
	if peak, ok := meta.Metrics["peak_temp"]; ok && peak > hi {
		hi = peak
	}
	return lo, hi
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, _, frame, err := loadFrame(args[0])
	if err != nil {
		return err
	}

	if zSlice < 0 || zSlice >= frame.Size() {
		return fmt.Errorf("z slice %d not in [0,%d)", zSlice, frame.Size())
	}

	lo, hi := colorScale(meta)
	fmt.Println(render.Heatmap(frame, zSlice, lo, hi))
	fmt.Println(render.Legend(lo, hi))
	return nil
}

func playRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", args[0])
	}

	lo, hi := colorScale(meta)
	m := tui.NewModel(meta.Label, meta.Reason, frames, lo, hi, frameRate)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, meta, frames)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	frames, err := store.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	return store.WriteFramesCSV(os.Stdout, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, _, frame, err := loadFrame(args[0])
	if err != nil {
		return err
	}

	if zSlice < 0 || zSlice >= frame.Size() {
		return fmt.Errorf("z slice %d not in [0,%d)", zSlice, frame.Size())
	}

	lo, hi := colorScale(meta)
	svg := render.SliceSVG(frame, zSlice, lo, hi, 24)

	if outPath == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	params, err := cfg.Params()
	if err != nil {
		return err
	}
	mat, err := cfg.Material()
	if err != nil {
		return err
	}

	s, err := sweep.New(params, mat, sweepParam, sweep.Grid(sweepLo, sweepHi, sweepN))
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over [%g, %g] in %d points...\n\n", sweepParam, sweepLo, sweepHi, sweepN)

	points, err := s.Run(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tEND\n", sweepParam)
	for _, p := range points {
		fmt.Fprintf(w, "%g\t%d\t%s\n", p.Value, p.Steps, p.Reason)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	steps := make([]float64, len(points))
	for i, p := range points {
		steps[i] = float64(p.Steps)
	}
	fmt.Println()
	fmt.Println(render.Plot(steps, fmt.Sprintf("steps to termination vs %s grid index", sweepParam)))

	if best := sweep.Best(points); best != nil {
		fmt.Printf("\nfastest convergence: %s=%g in %d steps\n", sweepParam, best.Value, best.Steps)
	} else {
		fmt.Println("\nno grid point converged within the iteration budget")
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MATERIAL\tK\tC_P\tRHO")
	for _, name := range config.ListMaterials() {
		m := config.GetMaterial(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\n", name, m.K, m.Cp, m.Rho)
	}
	return w.Flush()
}
