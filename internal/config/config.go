// Package config loads and validates the service configuration from
// config.yml, .env files, and environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/skillsenselab/voiceboard/internal/logger"
	"github.com/skillsenselab/voiceboard/internal/server"
	"github.com/skillsenselab/voiceboard/internal/validation"
)

// Config is the full service configuration.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	Server  server.Config `yaml:"server" mapstructure:"server"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	STT     STTConfig     `yaml:"stt" mapstructure:"stt"`
	Sink    SinkConfig    `yaml:"sink" mapstructure:"sink"`
}

// LLMConfig configures the language-model provider.
type LLMConfig struct {
	// APIKey authenticates against the provider. Required; its absence
	// fails startup rather than the first request.
	APIKey      string        `yaml:"api_key" mapstructure:"api_key" validate:"required"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// STTConfig configures the speech-recognition provider.
type STTConfig struct {
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Language string        `yaml:"language" mapstructure:"language"`
	BeamSize int           `yaml:"beam_size" mapstructure:"beam_size"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MinAudioBytes rejects uploads below this size before any
	// transcription attempt. A coarse guard, not a format validator.
	MinAudioBytes int64 `yaml:"min_audio_bytes" mapstructure:"min_audio_bytes"`
}

// SinkConfig configures the action sink file.
type SinkConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ApplyDefaults applies default values to all sections.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "voiceboard"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.STT.Language == "" {
		c.STT.Language = "en"
	}
	if c.STT.BeamSize == 0 {
		c.STT.BeamSize = 1
	}
	if c.STT.MinAudioBytes == 0 {
		c.STT.MinAudioBytes = 100
	}
}

// Validate checks the configuration, failing fast on anything the service
// cannot run without.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := validation.Validate(&c.LLM); err != nil {
		return fmt.Errorf("config.llm: %w", err)
	}
	if c.STT.BeamSize < 0 {
		return fmt.Errorf("config.stt.beam_size must be non-negative (got: %d)", c.STT.BeamSize)
	}
	if c.STT.MinAudioBytes < 0 {
		return fmt.Errorf("config.stt.min_audio_bytes must be non-negative (got: %d)", c.STT.MinAudioBytes)
	}
	return nil
}
