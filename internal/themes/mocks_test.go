package themes

import (
	"context"
	"fmt"
	"sync"

	"github.com/themescope/themescope/pkg/models"
)

type fakeEmbedder struct {
	mu       sync.Mutex
	vector   []float32
	err      error
	calls    int
	lastText string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeReasoner struct {
	mu       sync.Mutex
	complete func(prompt string, structured bool) (string, error)
	calls    int
	prompts  []string
}

func (f *fakeReasoner) Complete(_ context.Context, prompt string, structured bool) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	fn := f.complete
	f.mu.Unlock()
	if fn == nil {
		return "", fmt.Errorf("no completion configured")
	}
	return fn(prompt, structured)
}

type fakeIndex struct {
	mu         sync.Mutex
	candidates []models.Candidate
	queryErr   error
	queryCalls int
	lastK      int

	themes   map[string]models.Theme
	recaps   map[string]models.Recap
	recapErr map[string]error
}

func (f *fakeIndex) QueryNearest(_ context.Context, _ []float32, k int) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	f.lastK = k
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(f.candidates) > k {
		return f.candidates[:k], nil
	}
	return f.candidates, nil
}

func (f *fakeIndex) FetchTheme(_ context.Context, id string) (models.Theme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	theme, ok := f.themes[id]
	if !ok {
		return models.Theme{}, fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	return theme, nil
}

func (f *fakeIndex) FetchRecap(_ context.Context, id string) (models.Recap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.recapErr[id]; err != nil {
		return models.Recap{}, err
	}
	recap, ok := f.recaps[id]
	if !ok {
		return models.Recap{}, fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	return recap, nil
}

func threeCandidates() []models.Candidate {
	return []models.Candidate{
		candidate("T1", 0.91),
		candidate("T2", 0.88),
		candidate("T3", 0.80),
	}
}

func candidate(id string, score float64) models.Candidate {
	return models.Candidate{
		Theme: models.Theme{
			SemanticID:  id,
			Title:       "title " + id,
			Description: "description " + id,
			Explanation: "explanation " + id,
		},
		Score: score,
	}
}
