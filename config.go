package patch

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds selection and storage settings.
type Config struct {
	// Copy selected data by default.
	Copy bool `yaml:"copy"`
	// LogLevel is a zap level name: debug, info, warn, error. Empty
	// disables logging.
	LogLevel string `yaml:"log_level"`
	// Compression of stored data payloads: "", "gzip" or "zst".
	Compression string `yaml:"compression"`
}

// DefaultConfig aliases selections, doesn't log and gzips stored data.
func DefaultConfig() *Config {
	return &Config{Compression: CompressionGzip}
}

// LoadConfig decodes YAML from r on top of DefaultConfig.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfigFile loads a YAML config file.
func ReadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadConfig(f)
}

func (c *Config) Validate() error {
	switch c.Compression {
	case CompressionNone, CompressionGzip, CompressionZstd:
	default:
		return fmt.Errorf("unsupported compression %q", c.Compression)
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// CompressionMeta returns the configured payload compression.
func (c *Config) CompressionMeta() CompressionMeta {
	return CompressionMeta{ID: c.Compression}
}

// NewLogger returns a production zap logger at level, or a no-op logger when
// level is empty.
func NewLogger(level string) (*zap.Logger, error) {
	if level == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
