package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the process configuration, loaded once at startup.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Storage struct {
		Backend string `yaml:"backend"` // "local" or "s3"
		Prefix  string `yaml:"prefix"`
		Path    string `yaml:"path"` // local backend root
		S3      struct {
			Endpoint  string `yaml:"endpoint"`
			Region    string `yaml:"region"`
			Bucket    string `yaml:"bucket"`
			AccessKey string `yaml:"access_key"`
			SecretKey string `yaml:"secret_key"`
		} `yaml:"s3"`
	} `yaml:"storage"`
	Auth struct {
		Secret          string `yaml:"secret"`
		TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
		AdminEmail      string `yaml:"admin_email"`
		AdminPassword   string `yaml:"admin_password"`
	} `yaml:"auth"`
}

// TokenTTL returns the configured token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// Load reads config.yaml (or CONFIG_PATH) and applies environment
// overrides for credentials.
func Load() (*Config, error) {
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	config := defaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	// Secrets are overridable from the environment so they stay out of
	// config files in deployments.
	if v := os.Getenv("FILEDOCK_AUTH_SECRET"); v != "" {
		config.Auth.Secret = v
	}
	if v := os.Getenv("FILEDOCK_ADMIN_PASSWORD"); v != "" {
		config.Auth.AdminPassword = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		config.Storage.S3.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		config.Storage.S3.SecretKey = v
	}

	if config.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret must be set via config file or FILEDOCK_AUTH_SECRET")
	}
	if config.Storage.Backend == "s3" {
		if config.Storage.S3.AccessKey == "" || config.Storage.S3.SecretKey == "" {
			return nil, fmt.Errorf("s3 backend requires STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY")
		}
	}

	return config, nil
}

func defaultConfig() *Config {
	config := &Config{}
	config.Server.Port = "8080"
	config.Database.Path = "./filedock.db"
	config.Storage.Backend = "local"
	config.Storage.Prefix = "filedock"
	config.Storage.Path = "./storage"
	config.Storage.S3.Region = "garage"
	config.Auth.TokenTTLMinutes = 30
	config.Auth.AdminEmail = "admin@example.com"
	return config
}
