package themes

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/themescope/themescope/pkg/models"
)

// HallucinationPolicy controls how the refiner treats ids in the reasoning
// provider's selection that do not exist in the candidate set.
type HallucinationPolicy string

const (
	// HallucinationIgnore silently drops unknown ids.
	HallucinationIgnore HallucinationPolicy = "ignore"

	// HallucinationStrict treats any unknown id as a parse failure.
	HallucinationStrict HallucinationPolicy = "strict"
)

// Refiner narrows geometrically similar candidates to the subset the
// reasoning provider judges semantically relevant to the query.
type Refiner struct {
	reasoner ReasoningProvider
	policy   HallucinationPolicy
	logger   *zap.Logger
}

// NewRefiner creates a refiner with the given hallucination policy. An
// empty policy defaults to HallucinationIgnore.
func NewRefiner(reasoner ReasoningProvider, policy HallucinationPolicy, logger *zap.Logger) *Refiner {
	if policy == "" {
		policy = HallucinationIgnore
	}
	return &Refiner{
		reasoner: reasoner,
		policy:   policy,
		logger:   logger,
	}
}

// refineResponse is the required shape of the structured selection output.
type refineResponse struct {
	IDs []string `json:"ids"`
}

// Refine returns the subset of candidates the reasoning provider selected,
// preserving the original Candidate values and their relative order. A
// response that is not valid JSON or omits the ids field fails with
// ErrRefinementParse; passing the full set through silently would defeat
// the point of refinement.
func (r *Refiner) Refine(ctx context.Context, query string, candidates []models.Candidate) ([]models.Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	prompt, err := buildRefinePrompt(query, candidates)
	if err != nil {
		return nil, err
	}

	raw, err := r.reasoner.Complete(ctx, prompt, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefinementParse, err)
	}

	var response refineResponse
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRefinementParse, err)
	}
	if response.IDs == nil {
		return nil, fmt.Errorf("%w: response missing required ids field", ErrRefinementParse)
	}

	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.Theme.SemanticID] = true
	}

	selected := make(map[string]bool, len(response.IDs))
	for _, id := range response.IDs {
		if !known[id] {
			if r.policy == HallucinationStrict {
				return nil, fmt.Errorf("%w: selected id %q is not a candidate", ErrRefinementParse, id)
			}
			r.logger.Warn("dropping hallucinated theme id from selection", zap.String("id", id))
			continue
		}
		selected[id] = true
	}

	refined := make([]models.Candidate, 0, len(selected))
	for _, c := range candidates {
		if selected[c.Theme.SemanticID] {
			refined = append(refined, c)
		}
	}

	return refined, nil
}
