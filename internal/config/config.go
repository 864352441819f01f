// Package config loads the YAML settings shared by the CLI and library
// users: log level and format, parallel execution, and archive defaults.
package config

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/strided/internal/codec"
	"github.com/born-ml/strided/internal/parallel"
	"github.com/born-ml/strided/internal/serialization"
)

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root document.
type Config struct {
	Log           Log           `yaml:"log"`
	Parallel      Parallel      `yaml:"parallel"`
	Serialization Serialization `yaml:"serialization"`
}

// Log configures logrus.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Parallel configures the worker split used by reductions and sort.
type Parallel struct {
	Enabled  bool `yaml:"enabled"`
	Workers  int  `yaml:"workers"` // 0 means runtime.NumCPU()
	MinChunk int  `yaml:"min_chunk"`
}

// Serialization holds archive defaults.
type Serialization struct {
	Codec          string `yaml:"codec"`
	Validation     string `yaml:"validation"`
	MaxPayloadSize uint64 `yaml:"max_payload_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:      Log{Level: "info", Format: "text"},
		Parallel: Parallel{Enabled: false, Workers: 0, MinChunk: 64},
		Serialization: Serialization{
			Codec:          "msgpack",
			Validation:     "strict",
			MaxPayloadSize: serialization.MaxPayloadSize,
		},
	}
}

// Parse reads a YAML document on top of the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the YAML file at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	//nolint:gosec // G304: path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	cfg, err := Parse(data)
	return cfg, errors.Wrapf(err, "config %s", path)
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(ErrInvalid, "log.level: %v", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.Wrapf(ErrInvalid, "log.format: %q is not text or json", c.Log.Format)
	}
	if c.Parallel.Workers < 0 {
		return errors.Wrapf(ErrInvalid, "parallel.workers: %d is negative", c.Parallel.Workers)
	}
	if c.Parallel.MinChunk <= 0 {
		return errors.Wrapf(ErrInvalid, "parallel.min_chunk: %d must be positive", c.Parallel.MinChunk)
	}
	if _, err := codec.ParseKind(c.Serialization.Codec); err != nil {
		return errors.Wrapf(ErrInvalid, "serialization.codec: %v", err)
	}
	if _, err := serialization.ParseValidationLevel(c.Serialization.Validation); err != nil {
		return errors.Wrapf(ErrInvalid, "serialization.validation: %v", err)
	}
	if c.Serialization.MaxPayloadSize == 0 {
		return errors.Wrap(ErrInvalid, "serialization.max_payload_size must be positive")
	}
	return nil
}

// ParallelConfig converts the parallel section.
func (c *Config) ParallelConfig() parallel.Config {
	workers := c.Parallel.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return parallel.Config{
		Enabled:      c.Parallel.Enabled,
		NumWorkers:   workers,
		MinChunkSize: c.Parallel.MinChunk,
	}
}

// WriteOptions converts the serialization section for writers.
func (c *Config) WriteOptions() serialization.WriteOptions {
	kind, err := codec.ParseKind(c.Serialization.Codec)
	if err != nil {
		kind = codec.Msgpack
	}
	return serialization.WriteOptions{Codec: kind}
}

// ReaderOptions converts the serialization section for readers.
func (c *Config) ReaderOptions() serialization.ReaderOptions {
	level, err := serialization.ParseValidationLevel(c.Serialization.Validation)
	if err != nil {
		level = serialization.ValidationStrict
	}
	return serialization.ReaderOptions{
		ValidationLevel: level,
		MaxPayloadSize:  c.Serialization.MaxPayloadSize,
	}
}

// Apply configures the global logger and installs the parallel settings.
// It returns the parallel config that was active before.
func (c *Config) Apply() (parallel.Config, error) {
	if err := c.Validate(); err != nil {
		return parallel.Config{}, err
	}
	level, _ := logrus.ParseLevel(c.Log.Level)
	logrus.SetLevel(level)
	if strings.EqualFold(c.Log.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	pc := c.ParallelConfig()
	prev := parallel.SetCurrent(pc)
	logrus.WithFields(logrus.Fields{
		"level":    level,
		"parallel": pc.Enabled,
		"workers":  pc.NumWorkers,
		"codec":    c.Serialization.Codec,
	}).Debug("configuration applied")
	return prev, nil
}
