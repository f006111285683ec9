package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath  string
	catalogPath string
	configPath  string
	actorID     string
	noColor     bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "slotworks",
		Short: "Slotworks CLI - Inspect catalogs, simulate stages and drive the engine daemon",
		Long: `Slotworks CLI works with batch processing stations and timing minigames.

Offline commands (catalog, simulate, minigame, store) run against a local
catalog and database. Unit and station commands talk to a running daemon
over its Unix socket.

Examples:
  slotworks catalog list
  slotworks catalog tree fresh_tobacco_leaf
  slotworks simulate --stage tobacco.drying --kind fresh_tobacco_leaf --amount 6 --ticks 1200
  slotworks minigame zones crack.cooker
  slotworks unit place tobacco.drying
  slotworks unit show <unit-id>
  slotworks station start <minigame-id> --actor <uuid>
  slotworks daemon status`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "",
		"Catalog file for offline commands (default: user default, then built-in)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.yaml (default: search ./, ./configs, /etc/slotworks)")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor", "",
		"Actor UUID recorded on timing minigames")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewMinigameCommand())
	rootCmd.AddCommand(NewStoreCommand())
	rootCmd.AddCommand(NewUnitCommand())
	rootCmd.AddCommand(NewStationCommand())
	rootCmd.AddCommand(NewDaemonCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("SLOTWORKS_SOCKET"); path != "" {
		return path
	}
	return "/tmp/slotworks-daemon.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
