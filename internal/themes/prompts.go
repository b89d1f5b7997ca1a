package themes

import (
	"encoding/json"
	"fmt"

	"github.com/themescope/themescope/pkg/models"
)

const refinePromptTemplate = `Below is a short text describing a theme (requested theme) and a list of candidate similar themes.
Return a list containing the ids of the candidate themes that are most similar to the requested theme.
Return a json object containing only the ids and nothing else.
Here is an example response: {"ids": ["Theme:Episode:The_Weekend:Emotions"]}

Requested theme: %s

Candidates:
%s`

const answerPromptTemplate = `How is the theme "%s" expressed in the text below?

Text:
%s

---

Someone else previously analyzed this text and came up with the following relevant information which you can use in your answer.
Theme title: %s
Theme description: %s
Explanation: %s

---

Respond with three succinct sentences.`

// refineCandidate is the compact listing sent to the reasoning provider.
// Scores are deliberately withheld so relevance is judged on content.
type refineCandidate struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Explanation string `json:"explanation"`
}

func buildRefinePrompt(query string, candidates []models.Candidate) (string, error) {
	listing := make([]refineCandidate, 0, len(candidates))
	for _, c := range candidates {
		listing = append(listing, refineCandidate{
			ID:          c.Theme.SemanticID,
			Title:       c.Theme.Title,
			Description: c.Theme.Description,
			Explanation: c.Theme.Explanation,
		})
	}

	encoded, err := json.Marshal(listing)
	if err != nil {
		return "", fmt.Errorf("failed to encode candidate listing: %w", err)
	}

	return fmt.Sprintf(refinePromptTemplate, query, string(encoded)), nil
}

func buildAnswerPrompt(query string, theme models.Theme, grounding string) string {
	return fmt.Sprintf(answerPromptTemplate,
		query, grounding, theme.Title, theme.Description, theme.Explanation)
}
