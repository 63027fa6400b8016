package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/fnplot/internal/config"
	"github.com/zephyrtronium/fnplot/internal/logging"
	"github.com/zephyrtronium/fnplot/internal/metrics"
	"github.com/zephyrtronium/fnplot/internal/server"
)

var serveFlags struct {
	listen string
	dryRun bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the plot API",
	Long: `Serve plots over HTTP until interrupted.

Endpoints:
  GET /api/plot     PNG plot of expr over [xmin, xmax]
  GET /api/plot.py  same as /api/plot
  GET /api/sample   the sampled series as JSON
  GET /healthz      liveness
  GET /metrics      Prometheus metrics, if enabled

If a config file is given, changes to its log level apply without a
restart.

Examples:
  fnplot serve
  fnplot serve --config /etc/fnplot.yaml
  fnplot serve --listen 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listen, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listen != "" {
		cfg.Server.Addr = serveFlags.listen
	}
	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if serveFlags.dryRun {
		log.WithField("config", cfg.File()).Info("config is valid")
		return nil
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}
	srv := server.New(cfg, log, m)
	if cfg.Watch(reloader(log)) {
		log.WithField("config", cfg.File()).Info("watching config file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// reloader returns a config watch callback that applies log level changes.
// Other settings take effect on restart.
func reloader(log *logrus.Logger) func(*config.Config, error) {
	return func(next *config.Config, err error) {
		if err != nil {
			log.WithError(err).Warn("ignoring invalid config change")
			return
		}
		if err := logging.SetLevel(log, next.Log.Level); err != nil {
			log.WithError(err).Warn("ignoring invalid log level")
			return
		}
		log.WithField("level", next.Log.Level).Info("config reloaded")
	}
}
