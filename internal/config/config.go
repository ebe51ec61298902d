package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Media    MediaConfig    `yaml:"media"`
	AWS      AWSConfig      `yaml:"aws"`
	Session  SessionConfig  `yaml:"session"`
	Auth     AuthConfig     `yaml:"auth"`
	Listings ListingsConfig `yaml:"listings"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// StorageConfig selects the backing store for the named collections
type StorageConfig struct {
	Driver  string `yaml:"driver"` // "file", "postgres" or "memory"
	DataDir string `yaml:"data_dir"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// MediaConfig holds upload storage configuration
type MediaConfig struct {
	Driver      string `yaml:"driver"` // "local" or "s3"
	Dir         string `yaml:"dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region    string `yaml:"region"`
	S3Bucket  string `yaml:"s3_bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Endpoint  string `yaml:"endpoint"`
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
}

// AuthConfig decides which route groups require a logged-in session
type AuthConfig struct {
	RequireOwnerAuth bool `yaml:"require_owner_auth"`
	RequireAdminAuth bool `yaml:"require_admin_auth"`
}

// ListingsConfig holds listing defaults and the area vocabulary
type ListingsConfig struct {
	DefaultGender string   `yaml:"default_gender"`
	Areas         []string `yaml:"areas"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used for keys missing from the file
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 3000},
		Storage: StorageConfig{Driver: "file", DataDir: "./data"},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "staymypg",
			SSLMode: "disable",
		},
		Media:   MediaConfig{Driver: "local", Dir: "./public/uploads", MaxUploadMB: 10},
		Session: SessionConfig{CookieName: "staymypg_session", TTL: time.Hour},
		Auth:    AuthConfig{RequireOwnerAuth: true, RequireAdminAuth: true},
		Listings: ListingsConfig{
			DefaultGender: "Boys",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file on top of Default
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values Load cannot default
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file", "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Media.Driver {
	case "local":
	case "s3":
		if c.AWS.S3Bucket == "" {
			return fmt.Errorf("aws.s3_bucket is required for the s3 media driver")
		}
	default:
		return fmt.Errorf("unknown media driver %q", c.Media.Driver)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
