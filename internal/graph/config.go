package graph

import "time"

// Config represents Neo4j database configuration. The graph itself is
// populated by an offline ETL and is read-only here; the schema this
// package depends on is (:Episode)-[:HAS_THEME]->(:Theme) and
// (:Episode)-[:HAS_RECAP_PART]->(:RecapPart {index}), with theme
// embeddings indexed by a cosine vector index.
type Config struct {
	URI          string        `yaml:"uri"`
	Database     string        `yaml:"database"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	ThemeIndex   string        `yaml:"theme_index"`
	MaxPoolSize  int           `yaml:"max_pool_size"`
	ConnTimeout  time.Duration `yaml:"conn_timeout"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

// DefaultConfig returns defaults matching the ETL's index setup.
func DefaultConfig() Config {
	return Config{
		Database:     "neo4j",
		ThemeIndex:   "theme_index",
		MaxPoolSize:  25,
		ConnTimeout:  10 * time.Second,
		QueryTimeout: 15 * time.Second,
	}
}
