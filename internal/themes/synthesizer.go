package themes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/themescope/themescope/pkg/models"
)

// Synthesizer produces a short grounded answer for a (query, theme) pair,
// anchored in the recap text of the theme's episode. Answers are never
// cached; every call goes to the reasoning provider.
type Synthesizer struct {
	reasoner ReasoningProvider
	logger   *zap.Logger
}

// NewSynthesizer creates a synthesizer over the given reasoning provider.
func NewSynthesizer(reasoner ReasoningProvider, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		reasoner: reasoner,
		logger:   logger,
	}
}

// Synthesize asks the reasoning provider how the queried theme is expressed
// in the grounding text, reusing the theme's stored analysis. The
// three-sentence limit is enforced by prompt instruction only.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, theme models.Theme, grounding string) (string, error) {
	prompt := buildAnswerPrompt(query, theme, grounding)

	answer, err := s.reasoner.Complete(ctx, prompt, false)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesisUnavailable, err)
	}

	s.logger.Debug("synthesized answer",
		zap.String("theme_id", theme.SemanticID),
		zap.Int("answer_len", len(answer)))

	return answer, nil
}
