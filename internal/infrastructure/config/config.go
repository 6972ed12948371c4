// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all audit tool configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// DatabaseConfig contains the recipe store configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	URL             string        `mapstructure:"url"`
	MaxConns        int           `mapstructure:"max_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AuditConfig contains the verification and fix-application tunables.
// Batch sizes and the inter-batch pause are throughput bounds, not
// correctness requirements.
type AuditConfig struct {
	DataDir         string        `mapstructure:"data_dir"`
	ImageDir        string        `mapstructure:"image_dir"`
	AssetBaseURL    string        `mapstructure:"asset_base_url"`
	VerifyBatchSize int           `mapstructure:"verify_batch_size"`
	ApplyBatchSize  int           `mapstructure:"apply_batch_size"`
	ApplyPause      time.Duration `mapstructure:"apply_pause"`
}

// IndexFile returns the path of the image index snapshot.
func (a AuditConfig) IndexFile() string {
	return filepath.Join(a.DataDir, "image-index.json")
}

// LocksFile returns the path of the lock registry.
func (a AuditConfig) LocksFile() string {
	return filepath.Join(a.DataDir, "image-locks.json")
}

// RunLockFile returns the path of the apply-run singleton lock.
func (a AuditConfig) RunLockFile() string {
	return filepath.Join(a.DataDir, "imageaudit.lock")
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("imageaudit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/glycora")
	}

	v.SetEnvPrefix("IMAGEAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional, defaults plus env cover everything
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "imageaudit")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "glycora")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("audit.data_dir", "./data")
	v.SetDefault("audit.image_dir", "../attached_assets/generated_images")
	v.SetDefault("audit.asset_base_url", "/attached_assets/generated_images")
	v.SetDefault("audit.verify_batch_size", 50)
	v.SetDefault("audit.apply_batch_size", 25)
	v.SetDefault("audit.apply_pause", "500ms")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Audit.DataDir == "" {
		return fmt.Errorf("audit.data_dir is required")
	}
	if c.Audit.VerifyBatchSize < 1 {
		return fmt.Errorf("audit.verify_batch_size must be at least 1")
	}
	if c.Audit.ApplyBatchSize < 1 {
		return fmt.Errorf("audit.apply_batch_size must be at least 1")
	}
	if c.Database.URL == "" && c.Database.Database == "" {
		return fmt.Errorf("database.url or database.database is required")
	}
	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.Username,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
