package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// Layout names accepted by the subtitle writer.
var subtitleLayouts = []string{"target-above", "source-above", "target-only", "source-only"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url must be set")
	}
	parsed, err := url.Parse(c.LLM.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("llm.base_url must be an absolute URL, got %q", c.LLM.BaseURL)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must be set")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > maxTemperature {
		return fmt.Errorf("llm.temperature must be between 0 and %.0f", maxTemperature)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if c.Translation.Workers <= 0 {
		return errors.New("translation.workers must be positive")
	}
	if c.Translation.BatchSize <= 0 {
		return errors.New("translation.batch_size must be positive")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if c.Transcription.Threads < 0 {
		return errors.New("transcription.threads must not be negative")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if !slices.Contains(subtitleLayouts, c.Subtitles.Layout) {
		return fmt.Errorf("subtitles.layout must be one of %v, got %q", subtitleLayouts, c.Subtitles.Layout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
