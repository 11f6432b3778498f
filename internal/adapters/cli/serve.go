package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/avelasquez/quadrant-go/internal/adapters/metrics"
	"github.com/avelasquez/quadrant-go/internal/application/common"
	"github.com/avelasquez/quadrant-go/internal/infrastructure/config"
)

// NewServeCommand creates the serve command: the long-running daemon with
// the deadline sweeper and the optional metrics endpoint.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoadConfig(configPath)

			rt, err := NewRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = common.WithLogger(ctx, &common.StdLogger{})

			if cfg.Metrics.Enabled && metrics.IsEnabled() {
				go serveMetrics(ctx, &cfg.Metrics)
			}

			log.Printf("daemon: sweeping deadlines every %s", cfg.Daemon.SweepInterval)
			rt.Sweeper.Run(ctx)

			log.Println("daemon: shutting down")
			return nil
		},
	}
}

func serveMetrics(ctx context.Context, cfg *config.MetricsConfig) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	log.Printf("daemon: metrics on http://%s%s", server.Addr, cfg.Path)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("daemon: metrics server error: %v", err)
	}
}
