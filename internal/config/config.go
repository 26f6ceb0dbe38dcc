package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// CredentialOverride binds alternate credentials to endpoints whose
// identifier matches a glob or substring pattern.
type CredentialOverride struct {
	Match    string `mapstructure:"match"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Config holds the fleet report configuration.
type Config struct {
	Endpoints []string `mapstructure:"endpoints"`

	Username            string               `mapstructure:"username"`
	Password            string               `mapstructure:"password"`
	CredentialOverrides []CredentialOverride `mapstructure:"credential_overrides"`

	MaxConcurrent      int           `mapstructure:"max_concurrent"`
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout"`
	ProgressInterval   time.Duration `mapstructure:"progress_interval"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`

	OutputDir    string `mapstructure:"output_dir"`
	DatabasePath string `mapstructure:"database"`
	LogLevel     string `mapstructure:"log_level"`
}

// Load reads configuration from file and environment.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("fleetreport")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/fleetreport")
	}

	viper.SetDefault("max_concurrent", 4)
	viper.SetDefault("connect_timeout", "60s")
	viper.SetDefault("progress_interval", "5s")
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("database", "")
	viper.SetDefault("log_level", "info")

	viper.SetEnvPrefix("FLEETREPORT")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that a report run can proceed.
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("no endpoints configured")
	}
	if c.Username == "" {
		return fmt.Errorf("no default username configured")
	}
	return nil
}
