package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigYAML is the embedded default configuration.
//
//go:embed config.yaml
var DefaultConfigYAML []byte

// DefaultJWTSecret is the placeholder secret shipped in the embedded config.
const DefaultJWTSecret = "change-me"

// Config application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Email     EmailConfig     `mapstructure:"email"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig database connection
type DatabaseConfig struct {
	Driver              string        `mapstructure:"driver"` // mysql or sqlite
	Host                string        `mapstructure:"host"`
	Port                string        `mapstructure:"port"`
	Username            string        `mapstructure:"username"`
	Password            string        `mapstructure:"password"`
	DBName              string        `mapstructure:"dbname"`
	Charset             string        `mapstructure:"charset"`
	SQLitePath          string        `mapstructure:"sqlite_path"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxOpenConns        int           `mapstructure:"max_open_conns"`
	QueryTimeoutSeconds int           `mapstructure:"query_timeout_seconds"`
	QueryTimeout        time.Duration `mapstructure:"-"`
}

// JWTConfig token signing
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// RateLimitConfig request budget
type RateLimitConfig struct {
	RequestsPerMinute      int `mapstructure:"requests_per_minute"`
	LoginAttemptsPerMinute int `mapstructure:"login_attempts_per_minute"`
}

// RedisConfig optional shared rate limit counter
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EmailConfig SMTP settings
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// AdminConfig administrative setup
type AdminConfig struct {
	// BootstrapEnabled exposes POST /api/admin/create-admin. Turn it off once the first admin exists.
	BootstrapEnabled bool `mapstructure:"bootstrap_enabled"`
}

var (
	// GlobalConfig is read only by SafeErrorMessage to check the server mode.
	GlobalConfig *Config
)

// LoadConfig loads configuration.
// Precedence: environment (THRIVE_*) > external file > embedded defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}
	log.Println("loaded embedded default config")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("warning: cannot read config file %s: %v", configPath, err)
		} else {
			log.Printf("merged config file: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/thrive")
		externalViper.AddConfigPath("$HOME/.thrive")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("warning: merge external config: %v", err)
			} else {
				log.Printf("merged config file: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	v.SetEnvPrefix("THRIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = ":3000"
	}
	if !strings.HasPrefix(c.Server.Port, ":") {
		c.Server.Port = ":" + c.Server.Port
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.QueryTimeoutSeconds <= 0 {
		c.Database.QueryTimeoutSeconds = 5
	}
	c.Database.QueryTimeout = time.Duration(c.Database.QueryTimeoutSeconds) * time.Second

	if c.JWT.ExpireHours <= 0 {
		c.JWT.ExpireHours = 168
	}
	c.JWT.ExpireTime = time.Duration(c.JWT.ExpireHours) * time.Hour

	if c.RateLimit.RequestsPerMinute <= 0 {
		c.RateLimit.RequestsPerMinute = 120
	}
	if c.RateLimit.LoginAttemptsPerMinute <= 0 {
		c.RateLimit.LoginAttemptsPerMinute = 10
	}
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported server mode %q", c.Server.Mode)
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must not be empty")
	}
	if c.IsRelease() && c.JWT.Secret == DefaultJWTSecret {
		return errors.New("jwt.secret is still the default value; set THRIVE_JWT_SECRET")
	}
	return nil
}

// IsRelease reports whether the server runs in release mode.
func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}

// PrintConfig prints the active configuration without secrets.
func PrintConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	log.Printf("active config:")
	log.Printf("  server:   %s (mode: %s)", cfg.Server.Port, cfg.Server.Mode)
	if cfg.Database.Driver == "sqlite" {
		log.Printf("  database: sqlite %s", cfg.Database.SQLitePath)
	} else {
		log.Printf("  database: mysql %s@%s:%s/%s",
			cfg.Database.Username,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.DBName)
	}
	log.Printf("  rate limit: %d req/min (redis: %v)", cfg.RateLimit.RequestsPerMinute, cfg.Redis.Enabled)
	log.Printf("  email:    %v", cfg.Email.Enabled)
	log.Printf("  admin bootstrap endpoint: %v", cfg.Admin.BootstrapEnabled)
}
