package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"hub-dashboard/internal/calculator"
	cfgpkg "hub-dashboard/internal/config"
	"hub-dashboard/internal/geomap"
	"hub-dashboard/internal/loader"
	"hub-dashboard/internal/logging"
	"hub-dashboard/internal/metrics"
	"hub-dashboard/internal/server"
	"hub-dashboard/internal/view"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const headRows = 5

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the tables and serve the dashboard (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("config loaded",
		zap.String("customers", cfg.CustomersPath),
		zap.String("hubs", cfg.HubsPath),
		zap.String("addr", cfg.Addr))

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	page, err := buildPage(cfg, m, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(page, server.Options{Addr: cfg.Addr, Debug: cfg.Debug, Metrics: m}, log)
	return srv.Run(ctx)
}

// buildPage loads both tables and assembles the page once. A table that
// cannot be loaded aborts startup.
func buildPage(c *cfgpkg.Config, m *metrics.Metrics, log *zap.Logger) (*view.Page, error) {
	opts := loader.Options{Delimiter: c.DelimiterRune(), Sheet: c.Sheet}

	customers, err := loadTable("customers", c.CustomersPath, opts, m, log)
	if err != nil {
		return nil, err
	}
	hubs, err := loadTable("hubs", c.HubsPath, opts, m, log)
	if err != nil {
		return nil, err
	}

	comp, ok := geomap.Compose(customers, hubs)
	if ok {
		log.Info("map composed", zap.Int("points", comp.Len()))
		if m != nil {
			m.MapPoints.Set(float64(comp.Len()))
		}
	} else {
		log.Info("map skipped: coordinate columns missing or a table is empty")
	}

	return view.Build(view.Input{
		Title:      c.Title,
		Customers:  calculator.NewAggregator(customers),
		Map:        comp,
		MapOptions: view.MapOptions{Zoom: c.Map.Zoom, TileURL: c.Map.TileURL},
	}, log), nil
}

func loadTable(name, path string, opts loader.Options, m *metrics.Metrics, log *zap.Logger) (dataframe.DataFrame, error) {
	df, err := loader.Load(path, opts)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s table: %w", name, err)
	}
	log.Info("table loaded",
		zap.String("table", name),
		zap.String("path", path),
		zap.Int("rows", df.Nrow()),
		zap.Int("columns", df.Ncol()))
	if ce := log.Check(zap.DebugLevel, "table head"); ce != nil {
		ce.Write(zap.String("table", name), zap.Strings("columns", df.Names()), zap.Any("head", loader.Head(df, headRows)))
	}
	if m != nil {
		m.TableRows.WithLabelValues(name).Set(float64(df.Nrow()))
	}
	return df, nil
}
