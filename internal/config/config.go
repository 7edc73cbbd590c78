package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config top-level application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Revision RevisionConfig `yaml:"revision"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

// DatabaseConfig MySQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN builds the MySQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig Redis connection settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings
type JWTConfig struct {
	Secret string   `yaml:"secret"`
	Expiry Duration `yaml:"expiry"`
}

// RevisionConfig tuning knobs for the revision engine
type RevisionConfig struct {
	// EditGracePeriod is the window after an edit during which a same-editor
	// follow-up edit amends the existing version instead of creating a new one.
	EditGracePeriod Duration `yaml:"edit_grace_period"`
	// MaxDiff is the largest content change (in characters) that still
	// qualifies for a grace-period amend.
	MaxDiff int `yaml:"max_diff"`
	// StaffMaxDiff is the higher threshold applied to staff and
	// high-trust editors.
	StaffMaxDiff int `yaml:"staff_max_diff"`
	// OriginalTTLMargin is added to the grace period when setting the TTL of
	// cached pre-edit content, so the baseline outlives the window it serves.
	OriginalTTLMargin Duration `yaml:"original_ttl_margin"`
	// HiddenTags are tags whose changes should not surface in public
	// revision history.
	HiddenTags []string `yaml:"hidden_tags"`
	// StaffLevel is the member level at and above which an editor is staff.
	StaffLevel int `yaml:"staff_level"`
	// HighTrustLevel is the member level granting the staff diff threshold.
	HighTrustLevel int `yaml:"high_trust_level"`
	// EditsPerMinute caps how many revise calls one editor may make.
	EditsPerMinute int `yaml:"edits_per_minute"`
	// FeaturedLinkEnabled gates edits to the topic featured link.
	FeaturedLinkEnabled bool `yaml:"featured_link_enabled"`
}

// Load reads the YAML config file and applies environment overrides.
// OS env vars always win over file values.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: 8082, Env: "local"},
		Database: DatabaseConfig{
			Host: "127.0.0.1",
			Port: 3306,
			User: "angple",
			Name: "angple",
		},
		Redis: RedisConfig{
			Host:     "127.0.0.1",
			Port:     6379,
			PoolSize: 10,
		},
		JWT: JWTConfig{Expiry: Duration(24 * time.Hour)},
		Revision: RevisionConfig{
			EditGracePeriod:     Duration(5 * time.Minute),
			MaxDiff:             100,
			StaffMaxDiff:        1000,
			OriginalTTLMargin:   Duration(time.Minute),
			StaffLevel:          10,
			HighTrustLevel:      8,
			EditsPerMinute:      12,
			FeaturedLinkEnabled: true,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Redis.Port = p
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
}
