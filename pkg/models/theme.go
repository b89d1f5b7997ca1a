package models

import "strings"

// QuoteDelimiter separates supporting quotes in the single string property
// the ETL writes to the graph. Quotes containing the delimiter cannot be
// represented and are rejected by JoinQuotes.
const QuoteDelimiter = ";"

// Theme is a semantic topic extracted from one episode. Themes are created
// by the offline ETL and are read-only to the pipeline.
type Theme struct {
	SemanticID       string   `json:"semantic_id"`
	EpisodeTitle     string   `json:"episode_title"`
	EpisodeURL       string   `json:"episode_url"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Explanation      string   `json:"explanation"`
	SupportingQuotes []string `json:"supporting_quotes"`
}

// Recap is the ordered recap text of an episode, used as grounding context
// when synthesizing answers.
type Recap struct {
	EpisodeTitle string   `json:"episode_title"`
	Parts        []string `json:"parts"`
}

// Text returns the recap parts joined into a single grounding text.
func (r Recap) Text() string {
	return strings.Join(r.Parts, "\n")
}

// Candidate pairs a theme with its similarity score for one query. Scores
// are cosine similarities and are only comparable within the same query.
type Candidate struct {
	Theme Theme   `json:"theme"`
	Score float64 `json:"score"`
}

// SelectedTheme is a refined candidate with its grounded answer. Error
// carries the per-item failure when answer synthesis failed for this theme
// but succeeded for its siblings.
type SelectedTheme struct {
	Candidate Candidate `json:"candidate"`
	Answer    string    `json:"answer,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// SimilarThemes is the full pipeline result: every retrieved candidate in
// index order, plus the refined subset with answers in refiner order.
type SimilarThemes struct {
	Candidates []Candidate     `json:"candidates"`
	Selected   []SelectedTheme `json:"selected"`
}

// SplitQuotes parses the delimited quote property from the graph into the
// ordered quote sequence. An empty property yields no quotes.
func SplitQuotes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, QuoteDelimiter)
}

// JoinQuotes serializes quotes into the delimited storage form. It reports
// false if any quote contains the delimiter, since that sequence would not
// round-trip.
func JoinQuotes(quotes []string) (string, bool) {
	for _, q := range quotes {
		if strings.Contains(q, QuoteDelimiter) {
			return "", false
		}
	}
	return strings.Join(quotes, QuoteDelimiter), true
}
