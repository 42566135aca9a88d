// Package config loads carboncalc configuration from an optional YAML
// file, applies environment overrides, and supplies defaults for every
// section so callers never observe a zero value.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
)

// Defaults applied by New.
const (
	// DefaultGeocodeTimeoutSeconds bounds each external geocoding call.
	DefaultGeocodeTimeoutSeconds = 10
	// DefaultGeocodeMinIntervalMS is the minimum delay between calls to
	// the public geocoding endpoint, per its usage policy.
	DefaultGeocodeMinIntervalMS = 333
	// DefaultGeocodeUserAgent identifies this service to the primary
	// geocoding provider.
	DefaultGeocodeUserAgent = "logistics-parser/1.0"
	// DefaultGeocodeCacheTTLHours keeps disk-cached coordinates for
	// thirty days. Coordinates for a fixed address rarely move.
	DefaultGeocodeCacheTTLHours = 720
	// DefaultServerAddr is the HTTP API listen address.
	DefaultServerAddr = ":8000"
	// DefaultEnrichModel is the model used for location normalization.
	DefaultEnrichModel = "claude-3-5-haiku-latest"
	// DefaultEnrichMaxTokens caps the normalization response size.
	DefaultEnrichMaxTokens = 1024
)

// Config is the root configuration for every carboncalc surface.
type Config struct {
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Geocode GeocodeConfig `yaml:"geocode" json:"geocode"`
	Enrich  EnrichConfig  `yaml:"enrich"  json:"enrich"`
	Server  ServerConfig  `yaml:"server"  json:"server"`
	Factors FactorsConfig `yaml:"factors" json:"factors"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is a zerolog level name. Defaults to "info".
	Level string `yaml:"level,omitempty" json:"level,omitempty"`
	// Format is "console" or "json". Defaults to "console".
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	// File, when set, duplicates log output to this path.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// ToLoggingConfig bridges the YAML-facing logging section to the
// logging package's Config.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		File:   lc.File,
	}
}

// GeocodeConfig controls the external geocoding providers used by the
// location resolver.
type GeocodeConfig struct {
	// PrimaryURL is the primary provider's search endpoint.
	PrimaryURL string `yaml:"primary_url,omitempty" json:"primary_url,omitempty"`
	// SecondaryURL is the fallback provider's geocode endpoint.
	SecondaryURL string `yaml:"secondary_url,omitempty" json:"secondary_url,omitempty"`
	// SecondaryAPIKey authenticates against the fallback provider. The
	// GOOGLE_GEOCODING_API_KEY environment variable overrides it.
	SecondaryAPIKey string `yaml:"secondary_api_key,omitempty" json:"-"`
	// TimeoutSeconds bounds each provider call.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
	// MinIntervalMS is the minimum spacing between provider calls.
	MinIntervalMS int `yaml:"min_interval_ms,omitempty" json:"min_interval_ms,omitempty"`
	// UserAgent is sent on primary-provider requests.
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	// CacheDir, when set, persists resolved coordinates as JSON files
	// under this directory so repeated runs skip provider calls. Empty
	// keeps the cache in memory only.
	CacheDir string `yaml:"cache_dir,omitempty" json:"cache_dir,omitempty"`
	// CacheTTLHours bounds how long a persisted coordinate stays
	// usable. Zero or negative falls back to the default TTL.
	CacheTTLHours int `yaml:"cache_ttl_hours,omitempty" json:"cache_ttl_hours,omitempty"`
}

// EnrichConfig controls the optional LLM location normalizer.
type EnrichConfig struct {
	// Enabled turns pre-resolution address normalization on.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Model is the model identifier used for normalization calls.
	Model string `yaml:"model,omitempty" json:"model,omitempty"`
	// APIKey authenticates the normalization calls. The
	// ANTHROPIC_API_KEY environment variable overrides it.
	APIKey string `yaml:"api_key,omitempty" json:"-"`
	// MaxTokens caps the normalization response.
	MaxTokens int `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`
}

// FactorsConfig points at an optional emission-factor table override.
type FactorsConfig struct {
	// File is a YAML factor-table path. Empty means built-in factors.
	File string `yaml:"file,omitempty" json:"file,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
		Geocode: GeocodeConfig{
			PrimaryURL:     "https://nominatim.openstreetmap.org/search",
			SecondaryURL:   "https://maps.googleapis.com/maps/api/geocode/json",
			TimeoutSeconds: DefaultGeocodeTimeoutSeconds,
			MinIntervalMS:  DefaultGeocodeMinIntervalMS,
			UserAgent:      DefaultGeocodeUserAgent,
			CacheTTLHours:  DefaultGeocodeCacheTTLHours,
		},
		Enrich: EnrichConfig{
			Model:     DefaultEnrichModel,
			MaxTokens: DefaultEnrichMaxTokens,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// DefaultPath returns the per-user config file location,
// $HOME/.carboncalc/config.yaml. The empty string means no home
// directory could be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".carboncalc", "config.yaml")
}

// Load builds the effective configuration: defaults, overlaid with the
// YAML file at path (or DefaultPath when path is empty), overlaid with
// environment variables. A missing default-path file is not an error;
// an explicitly given path must exist.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		err := shallowMergeYAML(cfg, path)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, os.ErrNotExist):
			// No user config file; defaults apply.
		default:
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteFile marshals c to YAML at path, creating the parent directory
// as needed. The file carries every section in full, which matches
// Load's whole-section overlay semantics: users edit values in place
// instead of writing partial sections.
func (c *Config) WriteFile(path string) error {
	if path == "" {
		return errors.New("config path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations the resolver or server could not run
// with.
func (c *Config) Validate() error {
	if c.Geocode.TimeoutSeconds <= 0 {
		return fmt.Errorf("geocode.timeout_seconds must be positive, got %d", c.Geocode.TimeoutSeconds)
	}
	if c.Geocode.MinIntervalMS < 0 {
		return fmt.Errorf("geocode.min_interval_ms must not be negative, got %d", c.Geocode.MinIntervalMS)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	return nil
}

// Environment variable names recognized by applyEnv.
const (
	envLogLevel        = "CARBONCALC_LOG_LEVEL"
	envLogFormat       = "CARBONCALC_LOG_FORMAT"
	envLogFile         = "CARBONCALC_LOG_FILE"
	envServerAddr      = "CARBONCALC_ADDR"
	envFactorsFile     = "CARBONCALC_FACTORS_FILE"
	envEnrichEnabled   = "CARBONCALC_ENRICH"
	envGeocodeTimeout  = "CARBONCALC_GEOCODE_TIMEOUT_SECONDS"
	envGeocodeCacheDir = "CARBONCALC_GEOCODE_CACHE_DIR"
	envGoogleAPIKey    = "GOOGLE_GEOCODING_API_KEY"
	envAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// applyEnv overlays recognized environment variables onto c.
func (c *Config) applyEnv() {
	if v := os.Getenv(envLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(envLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(envServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(envFactorsFile); v != "" {
		c.Factors.File = v
	}
	if v := os.Getenv(envEnrichEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enrich.Enabled = enabled
		}
	}
	if v := os.Getenv(envGeocodeTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.Geocode.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv(envGeocodeCacheDir); v != "" {
		c.Geocode.CacheDir = v
	}
	if v := os.Getenv(envGoogleAPIKey); v != "" {
		c.Geocode.SecondaryAPIKey = v
	}
	if v := os.Getenv(envAnthropicAPIKey); v != "" {
		c.Enrich.APIKey = v
	}
}

// Top-level YAML config key names used for shallow merge.
const (
	keyLogging = "logging"
	keyGeocode = "geocode"
	keyEnrich  = "enrich"
	keyServer  = "server"
	keyFactors = "factors"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported
// Config fields. Keys not in this list are silently ignored.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyLogging: true,
	keyGeocode: true,
	keyEnrich:  true,
	keyServer:  true,
	keyFactors: true,
}

// shallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. Keys present in the overlay replace entire sections; keys
// absent in the overlay leave the target section unchanged.
func shallowMergeYAML(target *Config, overlayPath string) error {
	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		// Re-marshal the single section so we can unmarshal it onto the
		// strongly-typed target field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling config section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying config section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection unmarshals raw YAML bytes into the correct field of
// target. Each section lands in a fresh zero value so a present overlay
// section fully replaces the default section.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyLogging:
		var v LoggingConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Logging = v
		return nil
	case keyGeocode:
		var v GeocodeConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Geocode = v
		return nil
	case keyEnrich:
		var v EnrichConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Enrich = v
		return nil
	case keyServer:
		var v ServerConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Server = v
		return nil
	case keyFactors:
		var v FactorsConfig
		if err := yaml.Unmarshal(data, &v); err != nil {
			return err
		}
		target.Factors = v
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
