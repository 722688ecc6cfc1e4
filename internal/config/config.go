package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/pqsig/envelope"
	"github.com/vitalvas/pqsig/scheme"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the server configuration file.
//
//	listen: ":3000"
//	logLevel: info
//	source: "1234567890"
//	algorithm: ml_dsa65
//	signingKey: keys/server.pem
//	keystore: keystore.yaml
//	shutdownTimeout: 10s
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"logLevel"`

	// Source is the FSPIOP-Source identifier of this server. Its own
	// public key is registered under it.
	Source string `yaml:"source"`

	// Algorithm selects the scheme of the ephemeral key generated when
	// SigningKey is empty.
	Algorithm envelope.Algorithm `yaml:"algorithm"`

	// SigningKey is the path of a PEM private key. When empty a fresh key
	// is generated at startup.
	SigningKey string `yaml:"signingKey"`

	// Keystore is the path of a keystore file holding peer keys.
	Keystore string `yaml:"keystore"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:          ":3000",
		LogLevel:        "info",
		Source:          "1234567890",
		Algorithm:       scheme.Default,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: listen address is required", ErrInvalidConfig)
	}

	if c.Source == "" {
		return fmt.Errorf("%w: source is required", ErrInvalidConfig)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}

	if c.SigningKey == "" && !slices.Contains(scheme.Algorithms(), c.Algorithm) {
		return fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidConfig, c.Algorithm)
	}

	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative shutdown timeout", ErrInvalidConfig)
	}

	return nil
}

// Level returns the configured log level.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}

	return level
}
