package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/bassista/go_library/internal/catalog"
	"github.com/bassista/go_library/internal/logger"
)

// EnvPrefix namespaces environment overrides, e.g. LIBRARY_DATA_FILE_PATH.
const EnvPrefix = "LIBRARY"

type Config struct {
	Data DataConfig `mapstructure:"data"`
	Loan LoanConfig `mapstructure:"loan"`
	Misc MiscConfig `mapstructure:"misc"`
}

type DataConfig struct {
	FilePath string `mapstructure:"file_path"`
	// Format is "json", "yaml" or empty to infer from FilePath's extension.
	Format string `mapstructure:"format"`
}

type LoanConfig struct {
	PeriodDays int    `mapstructure:"period_days"`
	FinePerDay int64  `mapstructure:"fine_per_day"`
	Currency   string `mapstructure:"currency"`
}

type MiscConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// Policy converts the loan settings into catalog rules.
func (c LoanConfig) Policy() catalog.Policy {
	return catalog.Policy{LoanPeriodDays: c.PeriodDays, FinePerDay: c.FinePerDay}
}

// LoadConfig reads configuration from defaults, an optional config file,
// an optional .env file and LIBRARY_* environment variables, in increasing
// order of precedence. An empty configFile searches ./config.yaml.
func LoadConfig(configFile string) (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment variables like LIBRARY_LOAN_FINE_PER_DAY override loan.fine_per_day
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logger.WithComponent("config").Debug("no config file found, using defaults and env vars")
		} else {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	} else {
		logger.WithComponent("config").Debugf("using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.file_path", "./library.json")
	v.SetDefault("data.format", "")
	v.SetDefault("loan.period_days", catalog.LoanPeriodDays)
	v.SetDefault("loan.fine_per_day", catalog.FinePerDay)
	v.SetDefault("loan.currency", "₹")
	v.SetDefault("misc.log_level", "info")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Data.FilePath) == "" {
		return errors.New("data.file_path is required")
	}
	switch strings.ToLower(c.Data.Format) {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("data.format must be json or yaml, got %q", c.Data.Format)
	}
	if c.Loan.PeriodDays <= 0 {
		return fmt.Errorf("loan.period_days must be positive, got %d", c.Loan.PeriodDays)
	}
	if c.Loan.FinePerDay < 0 {
		return fmt.Errorf("loan.fine_per_day must not be negative, got %d", c.Loan.FinePerDay)
	}
	return nil
}
