package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avelasquez/quadrant-go/internal/infrastructure/config"
)

// NewSectorCommand creates the sector command: print a sector's canonical
// snapshot payload as JSON.
func NewSectorCommand() *cobra.Command {
	var sectorID int

	cmd := &cobra.Command{
		Use:   "sector",
		Short: "Print the canonical snapshot of a sector",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoadConfig(configPath)

			rt, err := NewRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			snapshot, err := rt.Snapshots.Build(context.Background(), sectorID)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&sectorID, "id", 0, "Sector id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
