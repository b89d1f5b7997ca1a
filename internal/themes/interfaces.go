package themes

import (
	"context"

	"github.com/themescope/themescope/pkg/models"
)

// EmbeddingProvider converts text to a fixed-dimension dense vector. The
// dimension is fixed by the provider's model and passed through opaquely.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ReasoningProvider returns a completion for a prompt. When structured is
// true the provider constrains the output to a JSON object.
type ReasoningProvider interface {
	Complete(ctx context.Context, prompt string, structured bool) (string, error)
}

// SimilarityIndex is the externally owned store of themes tagged with
// embedding vectors, supporting nearest-neighbor search and traversal to
// related entities.
type SimilarityIndex interface {
	// QueryNearest returns up to k themes nearest to vector, in descending
	// similarity order, each joined with its owning episode's attributes.
	QueryNearest(ctx context.Context, vector []float32, k int) ([]models.Candidate, error)

	// FetchTheme returns the theme with the given semantic id.
	FetchTheme(ctx context.Context, semanticID string) (models.Theme, error)

	// FetchRecap returns the ordered recap of the episode owning the theme.
	FetchRecap(ctx context.Context, themeSemanticID string) (models.Recap, error)
}
