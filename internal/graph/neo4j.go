package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/themescope/themescope/internal/themes"
	"github.com/themescope/themescope/pkg/models"
)

const queryNearestCypher = `
CALL db.index.vector.queryNodes($index_name, $k, $vector)
YIELD node, score
MATCH (node)<-[:HAS_THEME]-(e:Episode)
RETURN
	e.title AS episode_title,
	e.wiki_url AS episode_url,
	node.id AS semantic_id,
	node.title AS title,
	node.description AS description,
	node.explanation AS explanation,
	node.supporting_quotes AS supporting_quotes,
	score
ORDER BY score DESC`

const fetchThemeCypher = `
MATCH (t:Theme {id: $id})<-[:HAS_THEME]-(e:Episode)
RETURN
	e.title AS episode_title,
	e.wiki_url AS episode_url,
	t.id AS semantic_id,
	t.title AS title,
	t.description AS description,
	t.explanation AS explanation,
	t.supporting_quotes AS supporting_quotes
LIMIT 1`

const fetchRecapCypher = `
MATCH (:Theme {id: $id})<-[:HAS_THEME]-(e:Episode)-[:HAS_RECAP_PART]->(r:RecapPart)
RETURN r.text AS text, e.title AS episode_title
ORDER BY r.index`

// Neo4jIndex implements the themes.SimilarityIndex interface over a Neo4j
// graph with a theme vector index. All queries are parameterized; caller
// input never reaches the query text.
type Neo4jIndex struct {
	driver neo4j.DriverWithContext
	config Config
}

// NewNeo4jIndex creates an index client and verifies connectivity.
func NewNeo4jIndex(ctx context.Context, config Config) (*Neo4jIndex, error) {
	if config.Database == "" {
		config.Database = "neo4j"
	}
	if config.ThemeIndex == "" {
		config.ThemeIndex = "theme_index"
	}
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = 15 * time.Second
	}

	driver, err := neo4j.NewDriverWithContext(
		config.URI,
		neo4j.BasicAuth(config.Username, config.Password, ""),
		func(c *neo4j.Config) {
			if config.MaxPoolSize > 0 {
				c.MaxConnectionPoolSize = config.MaxPoolSize
			}
			if config.ConnTimeout > 0 {
				c.ConnectionAcquisitionTimeout = config.ConnTimeout
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	return &Neo4jIndex{driver: driver, config: config}, nil
}

// QueryNearest runs the vector KNN query and joins each matched theme with
// its owning episode. Results keep the index's descending-similarity order.
func (n *Neo4jIndex) QueryNearest(ctx context.Context, vector []float32, k int) ([]models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, n.config.QueryTimeout)
	defer cancel()

	session := n.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: n.config.Database,
	})
	defer session.Close(ctx)

	params := map[string]any{
		"index_name": n.config.ThemeIndex,
		"k":          k,
		"vector":     toFloat64s(vector),
	}

	result, err := session.Run(ctx, queryNearestCypher, params)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	var candidates []models.Candidate
	for result.Next(ctx) {
		record := result.Record().AsMap()
		theme, err := themeFromRecord(record)
		if err != nil {
			return nil, err
		}
		score, ok := record["score"].(float64)
		if !ok {
			return nil, fmt.Errorf("vector query returned non-numeric score for theme %s", theme.SemanticID)
		}
		candidates = append(candidates, models.Candidate{Theme: theme, Score: score})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	return candidates, nil
}

// FetchTheme returns the theme with the given semantic id together with its
// owning episode's attributes.
func (n *Neo4jIndex) FetchTheme(ctx context.Context, semanticID string) (models.Theme, error) {
	ctx, cancel := context.WithTimeout(ctx, n.config.QueryTimeout)
	defer cancel()

	session := n.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: n.config.Database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, fetchThemeCypher, map[string]any{"id": semanticID})
	if err != nil {
		return models.Theme{}, fmt.Errorf("theme lookup failed: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return models.Theme{}, fmt.Errorf("theme lookup failed: %w", err)
		}
		return models.Theme{}, fmt.Errorf("%w: %s", themes.ErrThemeNotFound, semanticID)
	}

	return themeFromRecord(result.Record().AsMap())
}

// FetchRecap returns the ordered recap parts of the episode owning the
// given theme.
func (n *Neo4jIndex) FetchRecap(ctx context.Context, themeSemanticID string) (models.Recap, error) {
	ctx, cancel := context.WithTimeout(ctx, n.config.QueryTimeout)
	defer cancel()

	session := n.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: n.config.Database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, fetchRecapCypher, map[string]any{"id": themeSemanticID})
	if err != nil {
		return models.Recap{}, fmt.Errorf("recap lookup failed: %w", err)
	}

	var recap models.Recap
	for result.Next(ctx) {
		record := result.Record().AsMap()
		recap.EpisodeTitle, _ = record["episode_title"].(string)
		text, ok := record["text"].(string)
		if !ok {
			return models.Recap{}, fmt.Errorf("recap lookup returned non-text part for theme %s", themeSemanticID)
		}
		recap.Parts = append(recap.Parts, text)
	}
	if err := result.Err(); err != nil {
		return models.Recap{}, fmt.Errorf("recap lookup failed: %w", err)
	}
	if len(recap.Parts) == 0 {
		return models.Recap{}, fmt.Errorf("%w: %s", themes.ErrThemeNotFound, themeSemanticID)
	}

	return recap, nil
}

// Ping checks database connectivity.
func (n *Neo4jIndex) Ping(ctx context.Context) error {
	return n.driver.VerifyConnectivity(ctx)
}

// Close closes the underlying driver.
func (n *Neo4jIndex) Close(ctx context.Context) error {
	return n.driver.Close(ctx)
}

func themeFromRecord(record map[string]any) (models.Theme, error) {
	semanticID, ok := record["semantic_id"].(string)
	if !ok || semanticID == "" {
		return models.Theme{}, fmt.Errorf("graph record missing theme id")
	}

	theme := models.Theme{SemanticID: semanticID}
	theme.EpisodeTitle, _ = record["episode_title"].(string)
	theme.EpisodeURL, _ = record["episode_url"].(string)
	theme.Title, _ = record["title"].(string)
	theme.Description, _ = record["description"].(string)
	theme.Explanation, _ = record["explanation"].(string)

	if quotes, ok := record["supporting_quotes"].(string); ok {
		theme.SupportingQuotes = models.SplitQuotes(quotes)
	}

	return theme, nil
}

// The Bolt protocol rejects []float32 parameters; the index stores and
// compares 64-bit vectors.
func toFloat64s(vector []float32) []float64 {
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = float64(v)
	}
	return out
}
