// Package http exposes the dialogue engine over HTTP and consumes remote
// dialogue services that speak the same wire contract.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/posterman/orderbot/internal/logging"
	"github.com/posterman/orderbot/pkg/domain"
	"github.com/posterman/orderbot/pkg/ports"
	"github.com/posterman/orderbot/pkg/runner"
)

// DefaultUserID is the session used when a chat request carries no user_id.
const DefaultUserID = "web_guest"

// Engine answers one utterance for a session.
type Engine interface {
	Respond(ctx context.Context, sessionID, utterance string) (domain.Turn, error)
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Engine    Engine
	Catalog   ports.Catalog
	Streams   *StreamManager
	Sanitizer runner.Sanitizer

	version     string
	origins     []string
	metrics     http.Handler
	logger      *slog.Logger
	noValidator bool
}

// Option configures the Server.
type Option func(*Server)

// WithCatalog serves the product list at /catalog.
func WithCatalog(c ports.Catalog) Option {
	return func(s *Server) {
		s.Catalog = c
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithAllowedOrigins sets the CORS allow-list. Defaults to "*".
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithSanitizer overrides the input sanitizer.
func WithSanitizer(san runner.Sanitizer) Option {
	return func(s *Server) {
		s.Sanitizer = san
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// WithLogger configures a logger for the handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithoutSchemaValidation disables OpenAPI request validation.
func WithoutSchemaValidation() Option {
	return func(s *Server) {
		s.noValidator = true
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine:    engine,
		Streams:   NewStreamManager(),
		Sanitizer: runner.NewSanitizer(),
		version:   "dev",
		origins:   []string{"*"},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if !s.noValidator {
		doc, err := LoadSpec(context.Background())
		if err != nil {
			return nil, err
		}
		validator, err := newRequestValidator(doc, s.logger)
		if err != nil {
			return nil, err
		}
		r.Use(validator.Middleware)
	}

	r.Post("/chat", s.Chat)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/catalog", s.GetCatalog)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(Spec())
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r, nil
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Chat: Invalid request body", "err", err)
		return
	}

	message, err := s.Sanitizer.Clean(body.Message)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.logger.Warn("Chat: Input rejected", "err", err, "size", len(body.Message))
		return
	}

	sessionID := strings.TrimSpace(body.UserID)
	if sessionID == "" {
		sessionID = DefaultUserID
	}

	turn, err := s.Engine.Respond(r.Context(), sessionID, message)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, "Chat error", status)
		s.logger.Error("Chat failed", "session_id", sessionID, "err", err)
		return
	}

	if data, err := json.Marshal(turn); err == nil {
		s.Streams.Broadcast(sessionID, string(data))
	}

	writeJSON(w, s.logger, ChatResponse{Response: turn.Reply})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "orderbot-http",
		"version": s.version,
	})
}

// GetCatalog handles GET /catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	products := []domain.ProductCard{}
	if s.Catalog != nil {
		list, err := s.Catalog.Products(r.Context())
		if err != nil {
			http.Error(w, "Catalog unavailable", http.StatusInternalServerError)
			s.logger.Error("Catalog failed", "err", err)
			return
		}
		products = append(products, list...)
	}
	writeJSON(w, s.logger, products)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
