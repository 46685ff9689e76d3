package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Blob   BlobConfig   `yaml:"blob"`
	Vision VisionConfig `yaml:"vision"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

// BlobConfig controls where uploaded receipt images are stored and the public
// base URL they are served back under.
type BlobConfig struct {
	Dir     string `yaml:"dir"`
	BaseURL string `yaml:"base_url"`
}

// VisionConfig points at the OpenAI-compatible endpoint used for receipt
// extraction. APIKey has no default and must come from the environment.
type VisionConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"-"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "snaptab.db",
		},
		Blob: BlobConfig{
			Dir:     "uploads",
			BaseURL: "http://localhost:8080",
		},
		Vision: VisionConfig{
			BaseURL: "https://api.openai.com",
			Model:   "gpt-4o",
			Timeout: 60 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("SNAPTAB_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("SNAPTAB_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("SNAPTAB_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SNAPTAB_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("SNAPTAB_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if dir := os.Getenv("SNAPTAB_BLOB_DIR"); dir != "" {
		cfg.Blob.Dir = dir
	}
	if baseURL := os.Getenv("SNAPTAB_BASE_URL"); baseURL != "" {
		cfg.Blob.BaseURL = baseURL
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.Vision.BaseURL = baseURL
	}
	cfg.Vision.APIKey = os.Getenv("OPENAI_API_KEY")
	if model := os.Getenv("SNAPTAB_VISION_MODEL"); model != "" {
		cfg.Vision.Model = model
	}
	if timeoutStr := os.Getenv("SNAPTAB_VISION_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SNAPTAB_VISION_TIMEOUT: %w", err)
		}
		cfg.Vision.Timeout = timeout
	}
	if level := os.Getenv("SNAPTAB_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
