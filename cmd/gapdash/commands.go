package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gapdash/internal/chart"
	"github.com/san-kum/gapdash/internal/config"
	"github.com/san-kum/gapdash/internal/dashboard"
	"github.com/san-kum/gapdash/internal/export"
	"github.com/san-kum/gapdash/internal/gapminder"
	"github.com/san-kum/gapdash/internal/server"
	"github.com/san-kum/gapdash/internal/tui"
	"github.com/san-kum/gapdash/internal/viz"
	"github.com/spf13/cobra"
)

// registry renders every chart the server, export and snapshot commands
// write.
var registry = export.NewRegistry()

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, ds, err := setup(cmd)
	if err != nil {
		return err
	}

	srv := server.New(ds,
		server.WithAddr(cfg.Addr()),
		server.WithChartOptions(cfg.ChartOptions()),
		server.WithSessionTTL(cfg.Server.SessionTTL),
		server.WithLogger(log),
		server.WithRegistry(registry),
		server.WithHeaders(server.FramingHeaders(cfg.Server.FrameAncestors...)),
	)
	return srv.Run(cmd.Context())
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, _, ds, err := setup(cmd)
	if err != nil {
		return err
	}

	ctrl := dashboard.New(ds, dashboard.WithChartOptions(cfg.ChartOptions()))
	return tui.Run(ds, ctrl, viz.GetTheme(theme))
}

func listYears(cmd *cobra.Command, args []string) error {
	_, _, ds, err := setup(cmd)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tCOUNTRIES\tMIDPOINT")
	for _, y := range ds.DistinctYears() {
		records := ds.RecordsForYear(y)
		fmt.Fprintf(w, "%d\t%d\t%.2f\n", y, len(records), chart.Midpoint(records))
	}
	return w.Flush()
}

func plotTrend(cmd *cobra.Command, args []string) error {
	_, _, ds, err := setup(cmd)
	if err != nil {
		return err
	}

	points := chart.Trend(ds, continent)
	if len(points) == 0 {
		return fmt.Errorf("no records for continent %q (available: %v)", continent, ds.Continents())
	}

	caption := "population-weighted life expectancy"
	if continent != "" {
		caption += " (" + continent + ")"
	}
	if len(points) > 1 {
		graph := asciigraph.Plot(chart.TrendValues(points),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Precision(1),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tLIFE_EXP\tPOP")
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%.2f\t%d\n", p.Year, p.LifeExp, p.Pop)
	}
	return w.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, log, ds, err := setup(cmd)
	if err != nil {
		return err
	}

	sel := dashboard.Selection{Year: ds.MinYear(), Continent: continent}
	if cmd.Flags().Changed("year") {
		if !ds.HasYear(year) {
			return fmt.Errorf("%w: %d (available: %v)", gapminder.ErrUnknownYear, year, ds.DistinctYears())
		}
		sel.Year = year
	}
	v := dashboard.New(ds,
		dashboard.WithChartOptions(cfg.ChartOptions()),
		dashboard.WithSelection(sel),
	).View()

	if snapshot {
		st := export.NewStore(cfg.Export.Dir, registry)
		if err := st.Init(); err != nil {
			return err
		}
		snap, err := st.Save(cmd.Context(), v, ds.RecordsForYear(sel.Year))
		if err != nil {
			return err
		}
		log.Info("snapshot saved", "id", snap.ID, "files", len(snap.Files))
		fmt.Println(snap.ID)
		return nil
	}

	render, _, err := registry.Get(chartName, format)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := render(out, v); err != nil {
		return err
	}
	if outPath != "-" {
		log.Info("exported", "chart", chartName, "format", format, "selection", sel.String(), "path", outPath)
	}
	return nil
}

func listSnapshots(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	snaps, err := export.NewStore(cfg.Export.Dir, registry).List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tYEAR\tCONTINENT\tRECORDS\tMIDPOINT")
	for _, s := range snaps {
		cont := s.Continent
		if cont == "" {
			cont = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%.2f\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Year,
			cont,
			s.Records,
			s.Midpoint,
		)
	}
	return w.Flush()
}

func listProfiles(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROFILE\tADDR\tSESSION_TTL\tLOG")
	for _, name := range config.ListProfiles() {
		cfg := config.GetProfile(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s/%s\n", name, cfg.Addr(), cfg.Server.SessionTTL, cfg.Log.Level, cfg.Log.Format)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Println("wrote", args[0])
	return nil
}
