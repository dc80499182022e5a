package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/san-kum/gapdash/internal/config"
	"github.com/san-kum/gapdash/internal/gapminder"
	"github.com/san-kum/gapdash/internal/logger"
	"github.com/san-kum/gapdash/internal/metrics"
	"github.com/san-kum/gapdash/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	profile    string
	dataSource string
	logLevel   string
	logFormat  string

	host  string
	port  int
	debug bool

	theme string

	continent string

	year      int
	chartName string
	format    string
	outPath   string
	snapshot  bool
	exportDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gapdash",
		Short:         "gapminder life expectancy dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&profile, "profile", "", "named config profile")
	pf.StringVar(&dataSource, "data", "", "dataset url or csv path")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	pf.StringVar(&logFormat, "log-format", config.DefaultLogFormat, "text or json")
	pf.StringVar(&exportDir, "export-dir", config.DefaultExportDir, "snapshot directory")

	serveFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&host, "host", config.DefaultHost, "listen host")
		cmd.Flags().IntVar(&port, "port", config.DefaultPort, "listen port")
		cmd.Flags().BoolVar(&debug, "debug", false, "debug logging with source locations")
	}
	serveFlags(rootCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the web dashboard",
		RunE:  runServe,
	}
	serveFlags(serveCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal dashboard",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "default", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	yearsCmd := &cobra.Command{
		Use:   "years",
		Short: "list the years in the dataset",
		RunE:  listYears,
	}

	trendCmd := &cobra.Command{
		Use:   "trend",
		Short: "plot weighted life expectancy over time",
		RunE:  plotTrend,
	}
	trendCmd.Flags().StringVar(&continent, "continent", "", "restrict to one continent")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "render a chart to a file",
		RunE:  runExport,
	}
	exportCmd.Flags().IntVar(&year, "year", 0, "year (default: earliest)")
	exportCmd.Flags().StringVar(&continent, "continent", "", "selected continent")
	exportCmd.Flags().StringVar(&chartName, "chart", "scatter", "scatter or sunburst")
	exportCmd.Flags().StringVar(&format, "format", "svg", "json, svg, png or csv")
	exportCmd.Flags().StringVar(&outPath, "out", "-", "output file, - for stdout")
	exportCmd.Flags().BoolVar(&snapshot, "snapshot", false, "write every format to a snapshot directory")

	snapshotsCmd := &cobra.Command{
		Use:   "snapshots",
		Short: "list saved snapshots",
		RunE:  listSnapshots,
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list config profiles",
		RunE:  listProfiles,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "config file helpers",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved config to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	})

	rootCmd.AddCommand(serveCmd, tuiCmd, yearsCmd, trendCmd, exportCmd, snapshotsCmd, profilesCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveConfig layers profile, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if profile != "" {
		cfg = config.GetProfile(profile)
		if cfg == nil {
			return nil, fmt.Errorf("unknown profile: %s (available: %v)", profile, config.ListProfiles())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Dataset.Source = dataSource
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("export-dir") {
		cfg.Export.Dir = exportDir
	}
	if flags.Changed("host") {
		cfg.Server.Host = host
	}
	if flags.Changed("port") {
		cfg.Server.Port = port
	}
	if flags.Changed("debug") {
		cfg.Server.Debug = debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves the config, installs the logger and loads the dataset. A
// dataset that cannot be loaded is fatal for every command that needs it.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, *gapminder.Dataset, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Debug:  cfg.Server.Debug,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	ds, err := gapminder.Load(cmd.Context(), cfg.Dataset.Source, gapminder.WithTimeout(cfg.Dataset.Timeout))
	if err != nil {
		log.Error("dataset unavailable", "source", cfg.Dataset.Source, "error", err)
		return nil, nil, nil, err
	}
	metrics.DatasetLoaded(ds.Len())
	log.Debug("dataset loaded", "source", cfg.Dataset.Source, "records", ds.Len(), "years", len(ds.DistinctYears()))

	return cfg, log, ds, nil
}
