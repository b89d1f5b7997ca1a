package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/themescope/themescope/internal/config"
	"github.com/themescope/themescope/pkg/models"
)

// ThemeService is the pipeline surface the gateway exposes.
type ThemeService interface {
	FindSimilar(ctx context.Context, query string, k int) (*models.SimilarThemes, error)
	Answer(ctx context.Context, query string, themeID string) (string, error)
}

// HealthChecker reports connectivity of a backing store.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Gateway is the HTTP adapter in front of the theme pipeline. It owns no
// pipeline logic beyond request decoding and error mapping.
type Gateway struct {
	server   *http.Server
	router   *mux.Router
	themes   ThemeService
	health   HealthChecker
	config   config.APIConfig
	defaultK int
	logger   *zap.Logger
}

// NewGateway creates the HTTP gateway.
func NewGateway(cfg config.APIConfig, defaultK int, themes ThemeService, health HealthChecker, logger *zap.Logger) *Gateway {
	router := mux.NewRouter()

	g := &Gateway{
		router:   router,
		themes:   themes,
		health:   health,
		config:   cfg,
		defaultK: defaultK,
		logger:   logger,
	}

	g.setupRoutes()
	g.setupMiddleware()

	g.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return g
}

func (g *Gateway) setupRoutes() {
	themes := g.router.PathPrefix("/themes").Subrouter()
	themes.HandleFunc("/find_similar", g.handleFindSimilar).Methods("POST")
	themes.HandleFunc("/answer", g.handleAnswer).Methods("POST")

	g.router.HandleFunc("/health", g.handleHealth).Methods("GET")
}

func (g *Gateway) setupMiddleware() {
	g.router.Use(g.requestIDMiddleware)
	g.router.Use(g.loggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   g.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	g.router.Use(c.Handler)
}

// Start starts the gateway and blocks until the server stops.
func (g *Gateway) Start() error {
	g.logger.Info("starting API gateway", zap.String("addr", g.server.Addr))
	return g.server.ListenAndServe()
}

// Stop shuts the gateway down gracefully.
func (g *Gateway) Stop(ctx context.Context) error {
	g.logger.Info("stopping API gateway")
	return g.server.Shutdown(ctx)
}

// Handler exposes the router, used by tests.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Middleware

type contextKey string

const requestIDKey contextKey = "request_id"

func (g *Gateway) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (g *Gateway) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		g.logger.Info("request handled",
			zap.String("request_id", requestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Response envelope

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSONResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSONResponse(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

func writeSuccessResponse(w http.ResponseWriter, data interface{}) {
	writeJSONResponse(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func parseRequestBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
