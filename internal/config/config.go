// Package config handles configuration loading for compounder.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "COMPOUNDER"

// Config represents the complete application configuration.
type Config struct {
	Valuation ValuationConfig `mapstructure:"valuation" yaml:"valuation"`
	Screener  ScreenerConfig  `mapstructure:"screener"  yaml:"screener"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ValuationConfig holds the DCF assumptions. Rates are percentages.
type ValuationConfig struct {
	CostOfCapital      float64 `mapstructure:"cost_of_capital"      yaml:"cost_of_capital"      json:"cost_of_capital"`
	ROCE               float64 `mapstructure:"roce"                 yaml:"roce"                 json:"roce"` // informational
	GrowthRate         float64 `mapstructure:"growth_rate"          yaml:"growth_rate"          json:"growth_rate"`
	HighGrowthPeriod   int     `mapstructure:"high_growth_period"   yaml:"high_growth_period"   json:"high_growth_period"` // years
	FadePeriod         int     `mapstructure:"fade_period"          yaml:"fade_period"          json:"fade_period"`        // years
	TerminalGrowthRate float64 `mapstructure:"terminal_growth_rate" yaml:"terminal_growth_rate" json:"terminal_growth_rate"`
	EPSPeriod          string  `mapstructure:"eps_period"           yaml:"eps_period"           json:"eps_period"` // "latest" or e.g. "Mar 2024"
	TaxRate            float64 `mapstructure:"tax_rate"             yaml:"tax_rate"             json:"tax_rate"`   // fraction, 0.25 = 25%
	LocatorOffset      int     `mapstructure:"locator_offset"       yaml:"locator_offset"       json:"locator_offset"`
}

// ScreenerConfig holds the company page fetcher settings.
type ScreenerConfig struct {
	BaseURL        string  `mapstructure:"base_url"         yaml:"base_url"         json:"base_url"`
	TimeoutSec     int     `mapstructure:"timeout_sec"      yaml:"timeout_sec"      json:"timeout_sec"`
	RequestsPerSec float64 `mapstructure:"requests_per_sec" yaml:"requests_per_sec" json:"requests_per_sec"`
	CacheTTL       int     `mapstructure:"cache_ttl"        yaml:"cache_ttl"        json:"cache_ttl"` // seconds
	Consolidated   bool    `mapstructure:"consolidated"     yaml:"consolidated"     json:"consolidated"`
	SessionID      string  `mapstructure:"session_id"       yaml:"session_id"       json:"-"` // optional login cookie
}

// Timeout returns TimeoutSec as a duration.
func (s ScreenerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// CacheDuration returns CacheTTL as a duration.
func (s ScreenerConfig) CacheDuration() time.Duration {
	return time.Duration(s.CacheTTL) * time.Second
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Supported values of the discrete valuation assumptions.
var (
	FadePeriods           = []int{5, 10, 15, 20}
	TerminalGrowthRates   = []float64{0, 1, 2, 3, 4, 5, 6, 7, 7.5}
	costOfCapitalRange    = [2]float64{8, 16}
	roceRange             = [2]float64{10, 100}
	growthRateRange       = [2]float64{8, 20}
	highGrowthPeriodRange = [2]int{10, 25}
)

// Validate checks the valuation assumptions against the supported input
// surface. The DCF engine itself only rejects inputs it cannot value.
func (v ValuationConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	within := func(x float64, r [2]float64) bool { return x >= r[0] && x <= r[1] }

	check(within(v.CostOfCapital, costOfCapitalRange),
		"cost_of_capital must be within %g-%g, got %g", costOfCapitalRange[0], costOfCapitalRange[1], v.CostOfCapital)
	check(within(v.ROCE, roceRange),
		"roce must be within %g-%g, got %g", roceRange[0], roceRange[1], v.ROCE)
	check(within(v.GrowthRate, growthRateRange),
		"growth_rate must be within %g-%g, got %g", growthRateRange[0], growthRateRange[1], v.GrowthRate)
	check(v.HighGrowthPeriod >= highGrowthPeriodRange[0] && v.HighGrowthPeriod <= highGrowthPeriodRange[1],
		"high_growth_period must be within %d-%d years, got %d",
		highGrowthPeriodRange[0], highGrowthPeriodRange[1], v.HighGrowthPeriod)
	check(slices.Contains(FadePeriods, v.FadePeriod),
		"fade_period must be one of %v, got %d", FadePeriods, v.FadePeriod)
	check(slices.Contains(TerminalGrowthRates, v.TerminalGrowthRate),
		"terminal_growth_rate must be one of %v, got %g", TerminalGrowthRates, v.TerminalGrowthRate)
	check(v.CostOfCapital > v.TerminalGrowthRate,
		"cost_of_capital (%g) must exceed terminal_growth_rate (%g)", v.CostOfCapital, v.TerminalGrowthRate)
	check(v.TaxRate >= 0 && v.TaxRate < 1, "tax_rate must be in [0, 1), got %g", v.TaxRate)
	check(v.LocatorOffset >= 1, "locator_offset must be at least 1, got %d", v.LocatorOffset)
	check(strings.TrimSpace(v.EPSPeriod) != "", "eps_period must not be empty")

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.compounder/config.yaml (home directory)
//  3. /etc/compounder/config.yaml (system)
//
// Environment variables override config file values.
// Format: COMPOUNDER_<SECTION>_<KEY>, e.g., COMPOUNDER_VALUATION_GROWTH_RATE
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".compounder"))
	v.AddConfigPath("/etc/compounder")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// Default returns the built-in configuration, ignoring files and the
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, _ := decode(v)
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Valuation defaults
	v.SetDefault("valuation.cost_of_capital", 12.0)
	v.SetDefault("valuation.roce", 50.0)
	v.SetDefault("valuation.growth_rate", 12.0)
	v.SetDefault("valuation.high_growth_period", 14)
	v.SetDefault("valuation.fade_period", 10)
	v.SetDefault("valuation.terminal_growth_rate", 5.0)
	v.SetDefault("valuation.eps_period", "latest")
	v.SetDefault("valuation.tax_rate", 0.25)
	v.SetDefault("valuation.locator_offset", 5)

	// Screener defaults
	v.SetDefault("screener.base_url", "https://www.screener.in")
	v.SetDefault("screener.timeout_sec", 30)
	v.SetDefault("screener.requests_per_sec", 1.0)
	v.SetDefault("screener.cache_ttl", 1800) // 30 minutes
	v.SetDefault("screener.consolidated", true)
	v.SetDefault("screener.session_id", "")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if id := os.Getenv(EnvScreenerSessionID); id != "" {
		cfg.Screener.SessionID = id
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
