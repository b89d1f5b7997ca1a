package themes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/themescope/themescope/pkg/models"
)

// Retriever resolves a free-text query to the k nearest themes in the
// graph. It holds no state between invocations.
type Retriever struct {
	embedder EmbeddingProvider
	index    SimilarityIndex
	logger   *zap.Logger
}

// NewRetriever creates a retriever over the given providers.
func NewRetriever(embedder EmbeddingProvider, index SimilarityIndex, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// Retrieve embeds the query and returns up to k candidates in the index's
// descending-similarity order. An empty result means no similar themes
// exist and is not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.Candidate, error) {
	// Embedding models treat newlines as significant; the query is a single
	// logical line.
	normalized := strings.ReplaceAll(query, "\n", " ")

	vector, err := r.embedder.Embed(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: provider returned empty vector", ErrEmbeddingUnavailable)
	}

	candidates, err := r.index.QueryNearest(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexQueryFailed, err)
	}

	r.logger.Debug("retrieved candidates",
		zap.String("query", query),
		zap.Int("k", k),
		zap.Int("count", len(candidates)))

	return candidates, nil
}
