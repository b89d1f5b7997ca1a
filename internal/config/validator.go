package config

import (
	"fmt"
	"strings"
)

// Validate performs validation of the configuration.
func (c *Config) Validate() error {
	if err := c.validateGraph(); err != nil {
		return fmt.Errorf("graph config error: %v", err)
	}
	if err := c.validateLLM(); err != nil {
		return fmt.Errorf("llm config error: %v", err)
	}
	if err := c.validatePipeline(); err != nil {
		return fmt.Errorf("pipeline config error: %v", err)
	}
	if err := c.validateAPI(); err != nil {
		return fmt.Errorf("api config error: %v", err)
	}
	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config error: %v", err)
	}
	return nil
}

func (c *Config) validateGraph() error {
	if c.Graph.URI == "" {
		return fmt.Errorf("uri is required")
	}
	if !strings.Contains(c.Graph.URI, "://") {
		return fmt.Errorf("invalid uri: %s (expected scheme://host)", c.Graph.URI)
	}
	if c.Graph.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Graph.ThemeIndex == "" {
		return fmt.Errorf("theme_index is required")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("api_key is required (set OPENAI_API_KEY)")
	}
	if c.LLM.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.DefaultK < 1 {
		return fmt.Errorf("default_k must be at least 1")
	}
	if c.Pipeline.SynthesisWorkers < 1 {
		return fmt.Errorf("synthesis_workers must be at least 1")
	}
	switch c.Pipeline.HallucinationPolicy {
	case "ignore", "strict":
	default:
		return fmt.Errorf("invalid hallucination_policy: %s (expected ignore or strict)", c.Pipeline.HallucinationPolicy)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.API.Port)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid format: %s", c.Logging.Format)
	}
	return nil
}
