package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/themescope/themescope/internal/graph"
	"github.com/themescope/themescope/internal/llm"
)

// Config represents the overall application configuration.
type Config struct {
	Graph    graph.Config   `yaml:"graph"`
	LLM      llm.Config     `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PipelineConfig represents retrieval pipeline configuration.
type PipelineConfig struct {
	DefaultK            int    `yaml:"default_k"`
	SynthesisWorkers    int    `yaml:"synthesis_workers"`
	HallucinationPolicy string `yaml:"hallucination_policy"`
}

// APIConfig represents HTTP server configuration.
type APIConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Graph: graph.DefaultConfig(),
		LLM:   llm.DefaultConfig(),
		Pipeline: PipelineConfig{
			DefaultK:            3,
			SynthesisWorkers:    4,
			HallucinationPolicy: "ignore",
		},
		API: APIConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			IdleTimeout:    120 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from path, falling back to the CONFIG_PATH
// environment variable and then to config/config.yaml. Secrets are taken
// from the environment when the file leaves them empty.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.Graph.URI == "" {
		c.Graph.URI = os.Getenv("NEO4J_URI")
	}
	if c.Graph.Username == "" {
		c.Graph.Username = os.Getenv("NEO4J_USERNAME")
	}
	if c.Graph.Password == "" {
		c.Graph.Password = os.Getenv("NEO4J_PASSWORD")
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}
