package themes

import "errors"

var (
	// ErrInvalidQuery is returned for an empty query or non-positive k,
	// before any external call is made.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmbeddingUnavailable is returned when the embedding provider
	// cannot be reached or returns malformed output.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrIndexQueryFailed is returned when the similarity index query
	// errors. An empty result set is not an error.
	ErrIndexQueryFailed = errors.New("index query failed")

	// ErrRefinementParse is returned when the reasoning provider's
	// selection response is not valid structured output or omits the
	// required ids field.
	ErrRefinementParse = errors.New("refinement response parse failed")

	// ErrSynthesisUnavailable is returned when a grounded-answer call to
	// the reasoning provider fails. Within FindSimilar it is isolated to
	// the failing theme and does not abort siblings.
	ErrSynthesisUnavailable = errors.New("answer synthesis unavailable")

	// ErrThemeNotFound is returned by the lazy answer path when the
	// requested theme id does not exist in the graph.
	ErrThemeNotFound = errors.New("theme not found")
)
