package themes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/themescope/themescope/pkg/models"
)

const defaultSynthesisWorkers = 4

var (
	// ErrEmbedderRequired is returned when an embedding provider is not provided.
	ErrEmbedderRequired = errors.New("embedding provider required")

	// ErrReasonerRequired is returned when a reasoning provider is not provided.
	ErrReasonerRequired = errors.New("reasoning provider required")

	// ErrIndexRequired is returned when a similarity index is not provided.
	ErrIndexRequired = errors.New("similarity index required")
)

// Service orchestrates the retrieval pipeline: embedding, nearest-neighbor
// search, LLM relevance refinement, and grounded answer synthesis.
type Service struct {
	retriever   *Retriever
	refiner     *Refiner
	synthesizer *Synthesizer
	index       SimilarityIndex
	pool        *ants.Pool
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	workers int
	policy  HallucinationPolicy
	logger  *zap.Logger
}

// WithSynthesisWorkers bounds the fan-out of concurrent answer synthesis
// calls. Values below 1 fall back to 1.
func WithSynthesisWorkers(n int) Option {
	return func(o *serviceOptions) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithHallucinationPolicy sets how refinement treats selected ids that are
// not in the candidate set. Default is HallucinationIgnore.
func WithHallucinationPolicy(policy HallucinationPolicy) Option {
	return func(o *serviceOptions) {
		o.policy = policy
	}
}

// WithLogger sets a custom logger. Default is zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService wires the pipeline components over the given providers.
func NewService(embedder EmbeddingProvider, reasoner ReasoningProvider, index SimilarityIndex, opts ...Option) (*Service, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if reasoner == nil {
		return nil, ErrReasonerRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	options := serviceOptions{
		workers: defaultSynthesisWorkers,
		policy:  HallucinationIgnore,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	pool, err := ants.NewPool(options.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis pool: %w", err)
	}

	return &Service{
		retriever:   NewRetriever(embedder, index, options.logger),
		refiner:     NewRefiner(reasoner, options.policy, options.logger),
		synthesizer: NewSynthesizer(reasoner, options.logger),
		index:       index,
		pool:        pool,
		logger:      options.logger,
	}, nil
}

// Close releases the synthesis worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// FindSimilar runs the full pipeline for a query. The result carries every
// retrieved candidate in index order plus the refined subset with grounded
// answers in refiner order. A synthesis failure for one selected theme is
// recorded on that entry and does not abort its siblings; retrieval and
// refinement failures abort the whole request.
func (s *Service) FindSimilar(ctx context.Context, query string, k int) (*models.SimilarThemes, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query text is empty", ErrInvalidQuery)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidQuery, k)
	}

	candidates, err := s.retriever.Retrieve(ctx, query, k)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &models.SimilarThemes{Candidates: []models.Candidate{}, Selected: []models.SelectedTheme{}}, nil
	}

	refined, err := s.refiner.Refine(ctx, query, candidates)
	if err != nil {
		return nil, err
	}

	selected := s.synthesizeAll(ctx, query, refined)

	return &models.SimilarThemes{
		Candidates: candidates,
		Selected:   selected,
	}, nil
}

// Answer produces a grounded answer for a single theme on demand, for
// callers that request answers lazily instead of through FindSimilar.
func (s *Service) Answer(ctx context.Context, query string, themeID string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query text is empty", ErrInvalidQuery)
	}
	if strings.TrimSpace(themeID) == "" {
		return "", fmt.Errorf("%w: theme id is empty", ErrInvalidQuery)
	}

	theme, err := s.index.FetchTheme(ctx, themeID)
	if err != nil {
		if errors.Is(err, ErrThemeNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrIndexQueryFailed, err)
	}

	recap, err := s.index.FetchRecap(ctx, themeID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIndexQueryFailed, err)
	}

	return s.synthesizer.Synthesize(ctx, query, theme, recap.Text())
}

// synthesizeAll produces answers for the refined candidates with bounded
// concurrency. The returned slice matches the refiner's order regardless of
// completion order.
func (s *Service) synthesizeAll(ctx context.Context, query string, refined []models.Candidate) []models.SelectedTheme {
	selected := make([]models.SelectedTheme, len(refined))

	var wg sync.WaitGroup
	for i, candidate := range refined {
		i, candidate := i, candidate
		selected[i].Candidate = candidate

		wg.Add(1)
		task := func() {
			defer wg.Done()
			answer, err := s.answerForCandidate(ctx, query, candidate)
			if err != nil {
				s.logger.Warn("answer synthesis failed for theme",
					zap.String("theme_id", candidate.Theme.SemanticID),
					zap.Error(err))
				selected[i].Error = err.Error()
				return
			}
			selected[i].Answer = answer
		}

		if err := s.pool.Submit(task); err != nil {
			// Pool rejected the task (released or overloaded); run inline
			// so the entry is never silently dropped.
			task()
		}
	}
	wg.Wait()

	return selected
}

func (s *Service) answerForCandidate(ctx context.Context, query string, candidate models.Candidate) (string, error) {
	recap, err := s.index.FetchRecap(ctx, candidate.Theme.SemanticID)
	if err != nil {
		return "", fmt.Errorf("%w: fetching grounding text: %v", ErrSynthesisUnavailable, err)
	}
	return s.synthesizer.Synthesize(ctx, query, candidate.Theme, recap.Text())
}
