package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/slotworks-go/internal/adapters/catalog"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
)

// newUserConfigHandler is swapped in tests to keep them out of $HOME
var newUserConfigHandler = config.NewUserConfigHandler

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Slotworks configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (SW_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (default catalog and seed) are stored in ~/.slotworks/config.json

Examples:
  slotworks config show
  slotworks config set-catalog ./catalogs/custom.yaml
  slotworks config set-seed 42
  slotworks config clear`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCatalogCommand())
	cmd.AddCommand(newConfigSetSeedCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the current configuration settings.

Shows both system configuration and user preferences.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Load system config
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				warnColor.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			// Load user config
			handler, err := newUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := handler.Load()
			if err != nil {
				warnColor.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			titleColor.Fprintln(out, "Slotworks Configuration")
			fmt.Fprintln(out, "=======================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", handler.GetConfigPath())
			fmt.Fprintf(out, "  Default Catalog:  %s\n", orUnset(userCfg.DefaultCatalog))
			if userCfg.DefaultSeed != nil {
				fmt.Fprintf(out, "  Default Seed:     %d\n", *userCfg.DefaultSeed)
			} else {
				fmt.Fprintln(out, "  Default Seed:     (not set)")
			}

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == config.DatabasePostgres:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
			default:
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			}
			fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Fprintln(out, "\nEngine:")
			fmt.Fprintf(out, "  Catalog:          %s\n", orUnset(cfg.Engine.CatalogPath))
			fmt.Fprintf(out, "  Tick Interval:    %s\n", cfg.Engine.TickInterval)
			fmt.Fprintf(out, "  Tick Divisor:     %d\n", cfg.Engine.TickDivisor)
			fmt.Fprintf(out, "  Upgrade Chance:   %.2f\n", *cfg.Engine.UpgradeChance)
			fmt.Fprintf(out, "  Consume Every:    %d ticks\n", cfg.Engine.ConsumeEvery)
			fmt.Fprintf(out, "  Report Interval:  %d ticks\n", *cfg.Engine.ChangeReportInterval)

			fmt.Fprintln(out, "\nPersistence:")
			fmt.Fprintf(out, "  Flush Interval:   %s\n", cfg.Persistence.FlushInterval)
			fmt.Fprintf(out, "  Write Limit:      %.0f/s (burst: %d)\n",
				cfg.Persistence.MaxWritesPerSecond, cfg.Persistence.Burst)
			if cfg.Persistence.BreakerFailures > 0 {
				fmt.Fprintf(out, "  Breaker:          %d failures, %s cooldown\n",
					cfg.Persistence.BreakerFailures, cfg.Persistence.BreakerCooldown)
			} else {
				fmt.Fprintln(out, "  Breaker:          disabled")
			}

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(out, "  Shutdown Timeout: %s\n", cfg.Daemon.ShutdownTimeout)

			fmt.Fprintln(out, "\nMetrics:")
			if cfg.Metrics.Enabled {
				fmt.Fprintf(out, "  Endpoint:         http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			} else {
				fmt.Fprintln(out, "  Endpoint:         (disabled)")
			}

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

// newConfigSetCatalogCommand creates the config set-catalog subcommand
func newConfigSetCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-catalog <path>",
		Short: "Set the default catalog for offline commands",
		Long: `Set the catalog file used when --catalog is not given.

The file is loaded and validated before it is saved.

Example:
  slotworks config set-catalog ./catalogs/custom.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := catalog.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("catalog rejected: %w", err)
			}

			handler, err := newUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetDefaultCatalog(args[0]); err != nil {
				return fmt.Errorf("failed to set default catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			successColor.Fprintln(out, "✓ Default catalog set")
			fmt.Fprintf(out, "  Path:    %s\n", args[0])
			fmt.Fprintf(out, "  Stages:  %d\n", def.Stages.Len())
			fmt.Fprintf(out, "  Recipes: %d\n", len(def.Recipes.Recipes()))
			return nil
		},
	}

	return cmd
}

// newConfigSetSeedCommand creates the config set-seed subcommand
func newConfigSetSeedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-seed <seed>",
		Short: "Set the default random seed for simulate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid seed %q: %w", args[0], err)
			}

			handler, err := newUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetDefaultSeed(seed); err != nil {
				return fmt.Errorf("failed to set default seed: %w", err)
			}

			successColor.Fprintf(cmd.OutOrStdout(), "✓ Default seed set to %d\n", seed)
			return nil
		},
	}

	return cmd
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear user preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := newUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.Clear(); err != nil {
				return fmt.Errorf("failed to clear user config: %w", err)
			}

			successColor.Fprintln(cmd.OutOrStdout(), "✓ User preferences cleared")
			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "****")
	return u.String()
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
