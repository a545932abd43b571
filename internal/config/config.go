// Package config loads scanner and server settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/muliwe/go-chunk-entropy/internal/entropy"
	"github.com/muliwe/go-chunk-entropy/internal/logger"
)

// ServerConfig holds HTTP service settings
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	EnableDebug  bool          `yaml:"enable_debug"`
	TLSCertFile  string        `yaml:"tls_cert_file"`
	TLSKeyFile   string        `yaml:"tls_key_file"`
}

// Config is the top-level configuration
type Config struct {
	Classifier entropy.Config `yaml:"classifier"`
	Logger     logger.Config  `yaml:"logger"`
	Server     ServerConfig   `yaml:"server"`
}

// DefaultConfig returns the reference calibration and service defaults
func DefaultConfig() Config {
	return Config{
		Classifier: entropy.DefaultConfig(),
		Logger:     logger.DefaultConfig(),
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the combined configuration
func (c Config) Validate() error {
	if err := c.Classifier.Validate(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if c.Logger.FileName == "" {
		return fmt.Errorf("logger: file name must not be empty")
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return fmt.Errorf("server: tls_cert_file and tls_key_file must be set together")
	}
	return nil
}

// ApplyEnv overrides settings from environment variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Addr = ":" + port
	}
	if debug, ok := lookup("DEBUG"); ok {
		c.Server.EnableDebug = debug == "true"
	}
	if cert, ok := lookup("TLS_CERT"); ok {
		c.Server.TLSCertFile = cert
	}
	if key, ok := lookup("TLS_KEY"); ok {
		c.Server.TLSKeyFile = key
	}
	if dir, ok := lookup("LOG_DIR"); ok && dir != "" {
		c.Logger.LogDir = dir
	}

	if mode, ok := lookup("ENTROPY_MODE"); ok {
		m, err := entropy.ParseMode(mode)
		if err != nil {
			return fmt.Errorf("ENTROPY_MODE: %w", err)
		}
		c.Classifier.Mode = m
	}
	if raw, ok := lookup("ENTROPY_THRESHOLD"); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("ENTROPY_THRESHOLD: %w", err)
		}
		c.Classifier.Threshold = v
	}
	if raw, ok := lookup("ENTROPY_CHUNK_SIZE"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("ENTROPY_CHUNK_SIZE: %w", err)
		}
		c.Classifier.ChunkSize = v
	}

	return c.Validate()
}

// Marshal renders the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
