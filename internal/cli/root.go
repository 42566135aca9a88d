// Package cli implements the carboncalc command tree: parse,
// calculate, factors, config, and serve.
package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/config"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/emissions"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/enrich"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/geo"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// constError is a sentinel error type usable in const declarations.
type constError string

func (e constError) Error() string { return string(e) }

const (
	// errConflictingInputs rejects combining text and workbook inputs.
	errConflictingInputs = constError("cannot combine --input and --excel")
	// errMissingAPIKey rejects enrichment without credentials.
	errMissingAPIKey = constError("address enrichment requires an API key (set ANTHROPIC_API_KEY)")
)

// configKey carries the loaded configuration on the command context.
type configKey struct{}

// configFrom returns the configuration stored by the root command's
// PersistentPreRunE, or defaults when a subcommand runs in isolation.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.New()
}

// NewRootCmd creates the root Cobra command for the carboncalc CLI.
// It wires up configuration loading, logging, and the parse,
// calculate, factors, config, and serve subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.Result

	cmd := &cobra.Command{
		Use:     "carboncalc",
		Short:   "Logistics manifest CO2e calculator",
		Long:    "Carboncalc: parse logistics manifests, resolve routes, and calculate Scope 1 CO2e emissions",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			result := setupLogging(cmd, cfg)
			logResult = &result

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().
		String("config", "", "config file path (default $HOME/.carboncalc/config.yaml)")
	cmd.AddCommand(NewParseCmd(), NewCalculateCmd(), NewFactorsCmd(), newConfigCmd(), NewServeCmd())

	return cmd
}

const rootCmdExample = `  # Parse a manifest into structured shipments
  carboncalc parse --input manifest.txt

  # Parse and resolve leg distances
  carboncalc parse --input manifest.txt --resolve

  # Calculate emissions for a 2.5 tonne shipment
  carboncalc calculate --input manifest.txt --weight-kg 2500

  # Calculate with freighter air factors, JSON output
  carboncalc calculate --input manifest.txt --air-subtype freighter --output json

  # Browse results interactively
  carboncalc calculate --input manifest.txt --tui

  # Ingest an Excel manifest workbook
  carboncalc parse --excel manifest.xlsx --sheet "Sheet1"

  # Print the emission factor table
  carboncalc factors

  # Run the HTTP API
  carboncalc serve --addr :8000`

// buildResolver constructs the tiered location resolver from
// configuration: static facility table, keyword extraction, then the
// throttled external geocoder chain.
func buildResolver(cfg *config.Config) *geo.Resolver {
	timeout := time.Duration(cfg.Geocode.TimeoutSeconds) * time.Second
	interval := time.Duration(cfg.Geocode.MinIntervalMS) * time.Millisecond

	chain := geo.NewChain(timeout, interval,
		&geo.NominatimClient{BaseURL: cfg.Geocode.PrimaryURL, UserAgent: cfg.Geocode.UserAgent},
		&geo.GoogleClient{BaseURL: cfg.Geocode.SecondaryURL, APIKey: cfg.Geocode.SecondaryAPIKey},
	)

	return geo.NewResolver(buildGeocodeCache(cfg), geo.DefaultStrategies(geo.DefaultFacilities(), chain)...)
}

// buildGeocodeCache returns the disk-backed cache when one is
// configured, falling back to the in-memory cache when the directory
// is unset or unusable.
func buildGeocodeCache(cfg *config.Config) geo.Cache {
	if cfg.Geocode.CacheDir == "" {
		return geo.NewMemoryCache()
	}

	ttl := time.Duration(cfg.Geocode.CacheTTLHours) * time.Hour
	fc, err := geo.NewFileCache(cfg.Geocode.CacheDir, ttl)
	if err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Geocode.CacheDir).
			Msg("Geocode cache directory unusable, falling back to in-memory cache")
		return geo.NewMemoryCache()
	}
	return fc
}

// buildNormalizer returns the configured address normalizer, or nil
// when enrichment is disabled.
func buildNormalizer(cfg *config.Config, enabled bool) (enrich.Normalizer, error) {
	if !enabled {
		return nil, nil
	}
	if cfg.Enrich.APIKey == "" {
		return nil, errMissingAPIKey
	}
	return enrich.NewAnthropicNormalizer(cfg.Enrich.APIKey, cfg.Enrich.Model, int64(cfg.Enrich.MaxTokens)), nil
}

// loadFactorTable loads the factor table from the explicit path, the
// configured override, or the built-in defaults, in that order.
func loadFactorTable(cfg *config.Config, path string) (*emissions.Table, error) {
	if path == "" {
		path = cfg.Factors.File
	}
	if path == "" {
		return emissions.DefaultTable(), nil
	}
	return emissions.LoadTable(path)
}
