// Package config loads tourdesk settings from defaults, an optional YAML
// file, TOURDESK_* environment variables and command-line flags, in
// increasing order of precedence. Variables may also be kept in
// ~/.tourdesk/.env; the real environment wins over that file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/geocode"
	"github.com/alexanderramin/tourdesk/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "TOURDESK"

type Config struct {
	DBPath  string        `mapstructure:"db_path"`
	User    string        `mapstructure:"user"`
	Role    string        `mapstructure:"role"`
	Geocode GeocodeConfig `mapstructure:"geocode"`
	Search  SearchConfig  `mapstructure:"search"`
	Budget  BudgetConfig  `mapstructure:"budget"`
	Wizard  WizardConfig  `mapstructure:"wizard"`
	Log     LogConfig     `mapstructure:"log"`
	Trace   TraceConfig   `mapstructure:"trace"`
}

type GeocodeConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	UserAgent string `mapstructure:"user_agent"`
	Limit     int    `mapstructure:"limit"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
	// RatePerSecond caps requests to the geocoding endpoint; 0 disables it.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
}

type SearchConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"`
	MinLength  int `mapstructure:"min_length"`
}

type BudgetConfig struct {
	WarningRatio float64 `mapstructure:"warning_ratio"`
}

type WizardConfig struct {
	StepGate bool `mapstructure:"step_gate"`
}

// TraceConfig points span export at an OTLP/gRPC collector. Export is off
// while Endpoint is empty.
type TraceConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	Insecure   bool    `mapstructure:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

type LogConfig struct {
	UseCases     bool `mapstructure:"use_cases"`
	GeocodeCalls bool `mapstructure:"geocode_calls"`
}

// DefaultDir is ~/.tourdesk, or the working directory when the home
// directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tourdesk"
	}
	return filepath.Join(home, ".tourdesk")
}

func setDefaults(v *viper.Viper) {
	geo := geocode.DefaultConfig()
	v.SetDefault("db_path", filepath.Join(DefaultDir(), "tourdesk.db"))
	v.SetDefault("user", "")
	v.SetDefault("role", "")
	v.SetDefault("geocode.endpoint", geo.Endpoint)
	v.SetDefault("geocode.user_agent", geo.UserAgent)
	v.SetDefault("geocode.limit", geo.Limit)
	v.SetDefault("geocode.timeout_ms", geo.TimeoutMs)
	v.SetDefault("geocode.rate_per_second", geo.RatePerSecond)
	v.SetDefault("search.debounce_ms", 300)
	v.SetDefault("search.min_length", 2)
	v.SetDefault("budget.warning_ratio", 0.8)
	v.SetDefault("wizard.step_gate", true)
	v.SetDefault("log.use_cases", false)
	v.SetDefault("log.geocode_calls", false)
	v.SetDefault("trace.endpoint", "")
	v.SetDefault("trace.insecure", false)
	v.SetDefault("trace.sample_rate", 1.0)
}

// Load builds the configuration. An empty path reads ~/.tourdesk/config.yaml
// if it exists; an explicit path must exist. Flags in fs named like a key
// ("user", "role", "db") override everything else.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(filepath.Join(DefaultDir(), ".env")); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigFile(filepath.Join(DefaultDir(), "config.yaml"))
		if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if fs != nil {
		for key, name := range map[string]string{"user": "user", "role": "role", "db_path": "db"} {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv exports the variables in path that are not already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if c.Role != "" && !domain.ValidRoles[domain.Role(c.Role)] {
		errs = append(errs, fmt.Errorf("unknown role %q", c.Role))
	}
	if c.Geocode.Endpoint == "" {
		errs = append(errs, errors.New("geocode.endpoint is required"))
	}
	if c.Geocode.TimeoutMs <= 0 {
		errs = append(errs, errors.New("geocode.timeout_ms must be positive"))
	}
	if c.Geocode.RatePerSecond < 0 {
		errs = append(errs, errors.New("geocode.rate_per_second must not be negative"))
	}
	if c.Search.DebounceMs < 0 {
		errs = append(errs, errors.New("search.debounce_ms must not be negative"))
	}
	if c.Search.MinLength < 1 {
		errs = append(errs, errors.New("search.min_length must be at least 1"))
	}
	if c.Budget.WarningRatio <= 0 || c.Budget.WarningRatio > 1 {
		errs = append(errs, fmt.Errorf("budget.warning_ratio must be in (0, 1], got %v", c.Budget.WarningRatio))
	}
	if c.Trace.SampleRate < 0 || c.Trace.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("trace.sample_rate must be in [0, 1], got %v", c.Trace.SampleRate))
	}
	return errors.Join(errs...)
}

func (c *Config) GeocodeClientConfig() geocode.Config {
	return geocode.Config{
		Endpoint:      c.Geocode.Endpoint,
		UserAgent:     c.Geocode.UserAgent,
		Limit:         c.Geocode.Limit,
		TimeoutMs:     c.Geocode.TimeoutMs,
		RatePerSecond: c.Geocode.RatePerSecond,
		LogCalls:      c.Log.GeocodeCalls,
	}
}

func (c *Config) TelemetryConfig(version string) telemetry.Config {
	return telemetry.Config{
		Endpoint:   c.Trace.Endpoint,
		Insecure:   c.Trace.Insecure,
		SampleRate: c.Trace.SampleRate,
		Version:    version,
	}
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

func (c *Config) WarningRatio() decimal.Decimal {
	return decimal.NewFromFloat(c.Budget.WarningRatio)
}

func (c *Config) Principal() domain.Principal {
	return domain.Principal{UserID: c.User, Role: domain.Role(c.Role)}
}
