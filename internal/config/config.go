package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultDBPath       = "./tradeflow.db"
	defaultPort         = "8080"
	defaultEnv          = "dev"
	defaultRateURL      = "https://api.bluelytics.com.ar/v2/latest"
	defaultRateRefresh  = 5 * time.Minute
	defaultRateTimeout  = 10 * time.Second
	defaultFallbackRate = 350.00
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
)

// Config holds application configuration sourced from a .env file, an
// optional YAML file and environment variables, in that order of precedence
// from lowest to highest.
type Config struct {
	Env           string `yaml:"env"`
	Port          string `yaml:"port"`
	DBPath        string `yaml:"db_path"`
	SessionSecret string `yaml:"session_secret"`

	RateURL      string        `yaml:"rate_url"`
	RateRefresh  time.Duration `yaml:"rate_refresh"`
	RateTimeout  time.Duration `yaml:"rate_timeout"`
	FallbackRate float64       `yaml:"fallback_rate"`

	// TotalIncludesNationalTaxes adds VAT and withholdings to the grand total.
	TotalIncludesNationalTaxes bool `yaml:"total_includes_national_taxes"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Env:          defaultEnv,
		Port:         defaultPort,
		DBPath:       defaultDBPath,
		RateURL:      defaultRateURL,
		RateRefresh:  defaultRateRefresh,
		RateTimeout:  defaultRateTimeout,
		FallbackRate: defaultFallbackRate,
		LogLevel:     defaultLogLevel,
		LogFormat:    defaultLogFormat,
	}
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "dev" || c.Env == "development"
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var out []string
	if c.SessionSecret == "" {
		out = append(out, "SESSION_SECRET is not set; sessions will not survive a restart")
	}
	return out
}

// Load reads .env, then CONFIG_FILE if set, then environment variables.
func Load() (Config, error) {
	if _, err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, cfg.validate()
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.Port, "PORT")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.SessionSecret, "SESSION_SECRET")
	setString(&cfg.RateURL, "RATE_URL")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("RATE_REFRESH"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse RATE_REFRESH: %w", err)
		}
		cfg.RateRefresh = d
	}
	if v := os.Getenv("RATE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse RATE_TIMEOUT: %w", err)
		}
		cfg.RateTimeout = d
	}
	if v := os.Getenv("FALLBACK_RATE"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("parse FALLBACK_RATE: %w", err)
		}
		cfg.FallbackRate = f
	}
	if v := os.Getenv("TOTAL_INCLUDES_NATIONAL_TAXES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse TOTAL_INCLUDES_NATIONAL_TAXES: %w", err)
		}
		cfg.TotalIncludesNationalTaxes = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) validate() error {
	var errs []error
	if c.RateRefresh <= 0 {
		errs = append(errs, errors.New("rate refresh must be positive"))
	}
	if c.RateTimeout <= 0 {
		errs = append(errs, errors.New("rate timeout must be positive"))
	}
	if c.FallbackRate <= 0 {
		errs = append(errs, errors.New("fallback rate must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
