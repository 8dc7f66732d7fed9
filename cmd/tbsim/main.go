package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/tbsim/internal/config"
	"github.com/san-kum/tbsim/internal/integrators"
	"github.com/san-kum/tbsim/internal/lattice"
	"github.com/san-kum/tbsim/internal/metrics"
	"github.com/san-kum/tbsim/internal/report"
	"github.com/san-kum/tbsim/internal/sim"
	"github.com/san-kum/tbsim/internal/viz"
	"github.com/san-kum/tbsim/internal/wave"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	verbose    bool

	sites   int
	onsite  float64
	hopping float64
	tStart  float64
	tStop   float64
	points  int
	workers int
	sweep   []int

	jsonOut   bool
	plotOut   bool
	frameRate int
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// main registers the tbsim commands and exits with status 1 if the selected
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "tbsim",
		Short:        "tight-binding wavefunction evolution",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().IntVar(&sites, "sites", config.DefaultSites, "number of lattice sites")
	rootCmd.PersistentFlags().Float64Var(&onsite, "onsite", config.DefaultOnsite, "uniform onsite energy")
	rootCmd.PersistentFlags().Float64Var(&hopping, "hopping", config.DefaultHopping, "uniform hopping amplitude")
	rootCmd.PersistentFlags().Float64Var(&tStart, "t-start", config.DefaultStart, "first sample time")
	rootCmd.PersistentFlags().Float64Var(&tStop, "t-stop", config.DefaultStop, "last sample time")
	rootCmd.PersistentFlags().IntVar(&points, "points", config.DefaultPoints, "number of sample times")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one evolution",
		Args:  cobra.NoArgs,
		RunE:  runEvolution,
	}
	runCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "operator worker count")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write the run as JSON to stdout")
	runCmd.Flags().BoolVar(&plotOut, "plot", false, "plot the last recorded distribution")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the evolution across worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchWorkers,
	}
	benchCmd.Flags().IntSliceVar(&sweep, "workers", nil, "worker counts to time (default from config)")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "play back the evolution in the terminal",
		Args:  cobra.NoArgs,
		RunE:  watchEvolution,
	}
	watchCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "operator worker count")
	watchCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s %s\n", name, dimStyle.Render(fmt.Sprintf("sites=%d onsite=%g hopping=%g t=[%g, %g] points=%d",
					p.Sites, p.Onsite, p.Hopping, p.Time.Start, p.Time.Stop, p.Time.Points)))
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, benchCmd, watchCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// resolveConfig layers the config file or preset, then any explicitly set
// flags, over the defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	flags := cmd.Flags()
	if flags.Changed("sites") {
		cfg.Sites = sites
		cfg.OnsiteValues, cfg.HoppingValues = nil, nil
	}
	if flags.Changed("onsite") {
		cfg.Onsite = onsite
		cfg.OnsiteValues = nil
	}
	if flags.Changed("hopping") {
		cfg.Hopping = hopping
		cfg.HoppingValues = nil
	}
	if flags.Changed("t-start") {
		cfg.Time.Start = tStart
	}
	if flags.Changed("t-stop") {
		cfg.Time.Stop = tStop
	}
	if flags.Changed("points") {
		cfg.Time.Points = points
	}
	if flags.Changed("workers") {
		if cmd.Name() == "bench" {
			cfg.BenchWorkers = sweep
		} else {
			cfg.Workers = workers
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type progressLogger struct {
	every int
}

func (p progressLogger) OnStep(step int, t float64, psi wave.State) {
	if step%p.every == 0 {
		slog.Debug("step", "step", step, "t", t, "norm2", psi.Norm2())
	}
}

func evolve(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	hopping, onsite := cfg.HoppingAmplitudes(), cfg.OnsiteEnergies()
	h, err := lattice.NewHamiltonian(hopping, onsite)
	if err != nil {
		return nil, err
	}

	simCfg := sim.Config{Workers: cfg.Workers, ValidateState: cfg.ValidateState}
	s := sim.New(simCfg, integrators.NewRK4())
	s.AddMetric(metrics.NewEnergyDrift(h))
	s.AddMetric(metrics.NewSpread())
	s.AddObserver(progressLogger{every: max(cfg.Time.Points/10, 1)})

	slog.Debug("starting evolution", "sites", cfg.Sites, "workers", cfg.Workers, "points", cfg.Time.Points)
	return s.Run(ctx, hopping, onsite, cfg.Times())
}

func runEvolution(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := evolve(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if jsonOut {
		return report.WriteJSON(os.Stdout, cfg.Workers, result)
	}

	fmt.Println(headerStyle.Render("evolution complete"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "sites\t%d\n", cfg.Sites)
	fmt.Fprintf(w, "workers\t%d\n", cfg.Workers)
	fmt.Fprintf(w, "dt\t%.6f\n", result.Dt)
	fmt.Fprintf(w, "steps\t%d\n", result.StepsTaken)
	fmt.Fprintf(w, "norm drift\t%.3e\n", result.NormDrift)
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, result.Metrics[name])
	}
	fmt.Fprintf(w, "elapsed\t%v\n", elapsed)
	if err := w.Flush(); err != nil {
		return err
	}

	if plotOut {
		last := len(result.Distributions) - 1
		fmt.Println()
		fmt.Println(report.PlotDistribution(result.Distributions[last], result.Times[last]))
	}
	return nil
}

func benchWorkers(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateBench(); err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("benchmarking %d sites, %d time points", cfg.Sites, cfg.Time.Points)))
	fmt.Println()

	results, err := sim.Benchmark(cmd.Context(), cfg.HoppingAmplitudes(), cfg.OnsiteEnergies(), cfg.Times(), cfg.BenchSweep())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tSTEPS\tTIME\tSTEPS/SEC")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4fs\t%.0f\n", r.Workers, r.Steps, r.Elapsed.Seconds(), float64(r.Steps)/r.Elapsed.Seconds())
	}
	return w.Flush()
}

func watchEvolution(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	result, err := evolve(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return viz.Run(result, frameRate)
}
