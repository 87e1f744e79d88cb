package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	PayPal struct {
		Env          string `mapstructure:"env" yaml:"env"`
		ClientID     string `mapstructure:"client_id" yaml:"-"`
		ClientSecret string `mapstructure:"client_secret" yaml:"-"`
		// BaseURL overrides the sandbox/live resolution when set.
		BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	} `mapstructure:"paypal" yaml:"paypal"`

	Sync struct {
		WindowDays           int  `mapstructure:"window_days" yaml:"window_days"`
		PageSize             int  `mapstructure:"page_size" yaml:"page_size"`
		BalanceAffectingOnly bool `mapstructure:"balance_affecting_only" yaml:"balance_affecting_only"`
	} `mapstructure:"sync" yaml:"sync"`

	Store struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"store" yaml:"store"`

	Export struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"export" yaml:"export"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Columns struct {
		// SynonymsFile points at an optional YAML file overriding the
		// built-in column synonym lists.
		SynonymsFile string `mapstructure:"synonyms_file" yaml:"synonyms_file"`
	} `mapstructure:"columns" yaml:"columns"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.paypal-sync")
	v.AddConfigPath(".paypal-sync")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("PPSYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. Credentials and environment always come from the conventional
	// unprefixed variables as well.
	for key, env := range map[string]string{
		"paypal.client_id":     "CLIENT_ID",
		"paypal.client_secret": "CLIENT_SECRET",
		"paypal.env":           "PAYPAL_ENV",
	} {
		if err := v.BindEnv(key, env); err != nil {
			fmt.Printf("Warning: failed to bind %s environment variable: %v\n", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// PayPal defaults
	v.SetDefault("paypal.env", "sandbox")
	v.SetDefault("paypal.base_url", "")

	// Sync defaults: 90-day rolling window, maximum page size
	v.SetDefault("sync.window_days", 90)
	v.SetDefault("sync.page_size", 500)
	v.SetDefault("sync.balance_affecting_only", true)

	// Output defaults
	v.SetDefault("store.path", "out/paypal_txn_last90d.db")
	v.SetDefault("export.path", "out/txns_last90d.csv")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Column resolution defaults
	v.SetDefault("columns.synonyms_file", "")
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	env := strings.ToLower(config.PayPal.Env)
	if env != "sandbox" && env != "live" {
		return fmt.Errorf("invalid paypal env: %s (must be 'sandbox' or 'live')", config.PayPal.Env)
	}

	if config.Sync.WindowDays < 1 {
		return fmt.Errorf("sync.window_days must be at least 1, got: %d", config.Sync.WindowDays)
	}

	// The transaction listing endpoint caps page size at 500
	if config.Sync.PageSize < 1 || config.Sync.PageSize > 500 {
		return fmt.Errorf("sync.page_size must be between 1 and 500, got: %d", config.Sync.PageSize)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
