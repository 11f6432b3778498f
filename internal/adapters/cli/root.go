package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// NewRootCommand creates the root command for the daemon CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quadrant-daemon",
		Short: "Quadrant daemon - combat and sector state engine",
		Long: `Quadrant daemon runs the server-side combat engine: encounter
lifecycle, round resolution, garrison automation, salvage and the
per-character event feed.

Examples:
  quadrant-daemon serve
  quadrant-daemon sweep
  quadrant-daemon sector --id 42`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/quadrant)")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewSweepCommand())
	rootCmd.AddCommand(NewSectorCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
