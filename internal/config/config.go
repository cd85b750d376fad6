package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Mail    MailConfig    `yaml:"mail"`
	CORS    CORSConfig    `yaml:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with environment override
func (c ServerConfig) GetHost() string {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns the host:port listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// StorageConfig holds the connection database location
type StorageConfig struct {
	Path string `yaml:"path"`
}

// MailConfig holds welcome-mail relay and sender settings
type MailConfig struct {
	RelayHost string `yaml:"relay_host"`
	RelayPort int    `yaml:"relay_port"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
	GiftURL   string `yaml:"gift_url"`
}

// RelayAddr returns the host:port address of the local mail relay
func (c MailConfig) RelayAddr() string {
	return fmt.Sprintf("%s:%d", c.RelayHost, c.RelayPort)
}

// CORSConfig holds cross-origin settings for the public signup form
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads and parses the configuration file.
// A missing file is not an error: the service runs entirely on defaults,
// matching the original single-host deployment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "gaia_connections.db"
	}
	if cfg.Mail.RelayHost == "" {
		cfg.Mail.RelayHost = "localhost"
	}
	if cfg.Mail.RelayPort == 0 {
		cfg.Mail.RelayPort = 25
	}
	if cfg.Mail.FromEmail == "" {
		cfg.Mail.FromEmail = "iam@iamgaia.earth"
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "Gaia"
	}
	if cfg.Mail.GiftURL == "" {
		cfg.Mail.GiftURL = "https://iamgaia.earth/gift"
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Signup form is embedded on third-party landing pages
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so settings can live in .env locally and in real env vars when deployed.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GAIA_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MAIL_RELAY_HOST"); v != "" {
		cfg.Mail.RelayHost = v
	}
	if v := os.Getenv("MAIL_RELAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Mail.RelayPort = port
		}
	}
	if v := os.Getenv("MAIL_FROM_EMAIL"); v != "" {
		cfg.Mail.FromEmail = v
	}
	if v := os.Getenv("MAIL_FROM_NAME"); v != "" {
		cfg.Mail.FromName = v
	}
	if v := os.Getenv("MAIL_GIFT_URL"); v != "" {
		cfg.Mail.GiftURL = v
	}

	return cfg, nil
}
