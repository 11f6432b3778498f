package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/avelasquez/quadrant-go/internal/application/common"
	"github.com/avelasquez/quadrant-go/internal/infrastructure/config"
)

// NewSweepCommand creates the sweep command: one pass over expired round
// deadlines, for cron-style deployments and debugging.
func NewSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Resolve all encounters with expired round deadlines once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoadConfig(configPath)

			rt, err := NewRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := common.WithLogger(context.Background(), &common.StdLogger{})
			return rt.Sweeper.Sweep(ctx)
		},
	}
}
