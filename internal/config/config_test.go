package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("NEO4J_URI", "")
	t.Setenv("NEO4J_USERNAME", "")
	t.Setenv("NEO4J_PASSWORD", "")
	t.Setenv("OPENAI_API_KEY", "")

	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
graph:
  uri: bolt://graph.internal:7687
  username: neo4j
  password: secret
llm:
  api_key: sk-test
  request_timeout: 10s
pipeline:
  default_k: 5
  synthesis_workers: 2
  hallucination_policy: strict
api:
  port: 9090
logging:
  level: debug
  format: console
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "bolt://graph.internal:7687", cfg.Graph.URI)
		assert.Equal(t, "theme_index", cfg.Graph.ThemeIndex)
		assert.Equal(t, 10*time.Second, cfg.LLM.RequestTimeout)
		assert.Equal(t, 5, cfg.Pipeline.DefaultK)
		assert.Equal(t, "strict", cfg.Pipeline.HallucinationPolicy)
		assert.Equal(t, 9090, cfg.API.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("secrets fall back to environment", func(t *testing.T) {
		t.Setenv("NEO4J_PASSWORD", "env-secret")
		t.Setenv("OPENAI_API_KEY", "sk-env")

		path := writeConfig(t, `
graph:
  uri: bolt://localhost:7687
  username: neo4j
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "env-secret", cfg.Graph.Password)
		assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "graph: [not a map")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Graph.URI = "bolt://localhost:7687"
		cfg.Graph.Username = "neo4j"
		cfg.LLM.APIKey = "sk-test"
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing graph uri", func(c *Config) { c.Graph.URI = "" }},
		{"malformed graph uri", func(c *Config) { c.Graph.URI = "localhost" }},
		{"missing username", func(c *Config) { c.Graph.Username = "" }},
		{"missing theme index", func(c *Config) { c.Graph.ThemeIndex = "" }},
		{"missing api key", func(c *Config) { c.LLM.APIKey = "" }},
		{"zero request timeout", func(c *Config) { c.LLM.RequestTimeout = 0 }},
		{"zero default k", func(c *Config) { c.Pipeline.DefaultK = 0 }},
		{"zero workers", func(c *Config) { c.Pipeline.SynthesisWorkers = 0 }},
		{"bad hallucination policy", func(c *Config) { c.Pipeline.HallucinationPolicy = "maybe" }},
		{"bad port", func(c *Config) { c.API.Port = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
