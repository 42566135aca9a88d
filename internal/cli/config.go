package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/config"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/emissions"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}

// NewConfigInitCmd creates the config init command. It writes a
// starter configuration file populated with the default values.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file with default values",
		Long: `Creates $HOME/.carboncalc/config.yaml populated with the defaults
for every section. Edit values in place: a section present in the file
replaces the built-in section wholesale.`,
		Example: `  # Create the configuration file
  carboncalc config init

  # Overwrite an existing configuration
  carboncalc config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

func executeConfigInit(cmd *cobra.Command, force bool) error {
	path := config.DefaultPath()
	if path == "" {
		return errors.New("cannot determine home directory for configuration")
	}

	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	if err := config.New().WriteFile(path); err != nil {
		return err
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long: `Validates the effective configuration: file syntax, required
values, and the emission factor table override when one is configured.`,
		Example: `  # Validate the current configuration
  carboncalc config validate

  # Validate an explicit file and show the effective values
  carboncalc config validate --config ./carboncalc.yaml --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the effective configuration values")

	return cmd
}

func executeConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := configFrom(cmd.Context())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	// A configured factor table override must itself load and validate.
	if cfg.Factors.File != "" {
		table, err := emissions.LoadTable(cfg.Factors.File)
		if err != nil {
			return err
		}
		cmd.Printf("Factor table %s loads (version %s)\n", cfg.Factors.File, table.Version)
	}

	cmd.Println("Configuration is valid")

	if verbose {
		printConfigDetails(cmd, cfg)
	}
	return nil
}

// printConfigDetails prints the effective configuration values.
func printConfigDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Logging format: %s\n", cfg.Logging.Format)
	cmd.Printf("  Geocode primary: %s\n", cfg.Geocode.PrimaryURL)
	cmd.Printf("  Geocode timeout: %ds\n", cfg.Geocode.TimeoutSeconds)
	if cfg.Geocode.CacheDir != "" {
		cmd.Printf("  Geocode cache: %s (TTL %dh)\n", cfg.Geocode.CacheDir, cfg.Geocode.CacheTTLHours)
	} else {
		cmd.Println("  Geocode cache: in-memory")
	}
	if cfg.Enrich.Enabled {
		cmd.Printf("  Enrichment: %s\n", cfg.Enrich.Model)
	} else {
		cmd.Println("  Enrichment: disabled")
	}
	cmd.Printf("  Server address: %s\n", cfg.Server.Addr)
	if cfg.Factors.File != "" {
		cmd.Printf("  Factor table: %s\n", cfg.Factors.File)
	} else {
		cmd.Println("  Factor table: built-in defaults")
	}
}
