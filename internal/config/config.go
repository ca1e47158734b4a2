// Package config provides configuration loading for bpetrain.
// It supports loading from a YAML file and BPETRAIN_* environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/bpetrain/internal/logging"
	"github.com/bpetrain/internal/tokenizer"
)

// Config contains all bpetrain configuration settings.
type Config struct {
	// Training contains settings for merge learning.
	Training TrainingConfig `yaml:"training"`

	// Segmentation contains settings for splitting words at inference time.
	Segmentation SegmentationConfig `yaml:"segmentation"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `yaml:"logging"`
}

// TrainingConfig configures the trainer.
type TrainingConfig struct {
	// VocabSize is the vocab ceiling, the unknown sentinel included.
	// 0 disables the ceiling.
	VocabSize int `yaml:"vocab_size"`

	// MaxMerges is the merge budget for one training run.
	MaxMerges int `yaml:"max_merges"`
}

type SegmentationConfig struct {
	// Policy is "leftmost" (default) or "rank".
	Policy string `yaml:"policy"`
}

// LoggingConfig configures the stderr logger.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", "trace", "warn" or "error".
	Level string `yaml:"level"`
}

// Environment variables that override file settings.
const (
	EnvVocabSize    = "BPETRAIN_VOCAB_SIZE"
	EnvMaxMerges    = "BPETRAIN_MAX_MERGES"
	EnvSegmentation = "BPETRAIN_SEGMENTATION"
	EnvLogLevel     = "BPETRAIN_LOG_LEVEL"
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Training: TrainingConfig{
			VocabSize: tokenizer.DefaultVocabSize,
			MaxMerges: 10000,
		},
		Segmentation: SegmentationConfig{
			Policy: tokenizer.SegmentLeftmost.String(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration.
// Order: defaults -> YAML file at path (skipped when path is empty) -> environment variables
func Load(path string) (*Config, error) {
	raw := make(map[string]any)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		if raw == nil {
			// empty document
			raw = make(map[string]any)
		}
	}

	applyEnvOverrides(raw)

	config := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           config,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return config, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Training.VocabSize < 0 {
		return fmt.Errorf("vocab_size must be non-negative, got %d", c.Training.VocabSize)
	}
	if c.Training.MaxMerges < 0 {
		return fmt.Errorf("max_merges must be non-negative, got %d", c.Training.MaxMerges)
	}
	if _, err := tokenizer.ParseSegmentPolicy(c.Segmentation.Policy); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// SegmentPolicy returns the parsed segmentation policy. Call Validate first.
func (c *Config) SegmentPolicy() tokenizer.SegmentPolicy {
	p, _ := tokenizer.ParseSegmentPolicy(c.Segmentation.Policy)
	return p
}

// applyEnvOverrides writes environment variable overrides into the raw
// settings map. Values stay strings; the weakly typed decode converts them.
func applyEnvOverrides(raw map[string]any) {
	if v := os.Getenv(EnvVocabSize); v != "" {
		section(raw, "training")["vocab_size"] = v
	}

	if v := os.Getenv(EnvMaxMerges); v != "" {
		section(raw, "training")["max_merges"] = v
	}

	if v := os.Getenv(EnvSegmentation); v != "" {
		section(raw, "segmentation")["policy"] = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		section(raw, "logging")["level"] = v
	}
}

func section(raw map[string]any, key string) map[string]any {
	if m, ok := raw[key].(map[string]any); ok {
		return m
	}
	m := make(map[string]any)
	raw[key] = m
	return m
}
