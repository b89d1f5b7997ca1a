package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/themescope/themescope/internal/themes"
)

type FindSimilarRequest struct {
	Query string `json:"query"`
	K     int    `json:"k,omitempty"`
}

type AnswerRequest struct {
	Query   string `json:"query"`
	ThemeID string `json:"theme_id"`
}

type AnswerResponse struct {
	Answer string `json:"answer"`
}

func (g *Gateway) handleFindSimilar(w http.ResponseWriter, r *http.Request) {
	var req FindSimilarRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body")
		return
	}

	if req.K == 0 {
		req.K = g.defaultK
	}

	result, err := g.themes.FindSimilar(r.Context(), req.Query, req.K)
	if err != nil {
		g.writeServiceError(w, err)
		return
	}

	writeSuccessResponse(w, result)
}

func (g *Gateway) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to parse request body")
		return
	}

	answer, err := g.themes.Answer(r.Context(), req.Query, req.ThemeID)
	if err != nil {
		g.writeServiceError(w, err)
		return
	}

	writeSuccessResponse(w, AnswerResponse{Answer: answer})
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := map[string]string{"status": "ok"}
	status := http.StatusOK

	if err := g.health.Ping(ctx); err != nil {
		health["status"] = "degraded"
		health["graph"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, status, APIResponse{Success: status == http.StatusOK, Data: health})
}

// writeServiceError maps pipeline errors onto HTTP status codes. Provider
// failures are 502s so callers can distinguish them from caller errors and
// retry.
func (g *Gateway) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, themes.ErrInvalidQuery):
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
	case errors.Is(err, themes.ErrThemeNotFound):
		writeErrorResponse(w, http.StatusNotFound, "THEME_NOT_FOUND", err.Error())
	case errors.Is(err, themes.ErrEmbeddingUnavailable):
		writeErrorResponse(w, http.StatusBadGateway, "EMBEDDING_UNAVAILABLE", err.Error())
	case errors.Is(err, themes.ErrIndexQueryFailed):
		writeErrorResponse(w, http.StatusBadGateway, "INDEX_QUERY_FAILED", err.Error())
	case errors.Is(err, themes.ErrRefinementParse):
		writeErrorResponse(w, http.StatusBadGateway, "REFINEMENT_PARSE_ERROR", err.Error())
	case errors.Is(err, themes.ErrSynthesisUnavailable):
		writeErrorResponse(w, http.StatusBadGateway, "SYNTHESIS_UNAVAILABLE", err.Error())
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
