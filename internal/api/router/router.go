package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/mindmate-ai/internal/conversation"
	"github.com/wolfman30/mindmate-ai/internal/crisis"
	"github.com/wolfman30/mindmate-ai/internal/dangerwords"
	httpmiddleware "github.com/wolfman30/mindmate-ai/internal/http/middleware"
	"github.com/wolfman30/mindmate-ai/internal/mood"
	"github.com/wolfman30/mindmate-ai/internal/onboarding"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *conversation.Handler
	CrisisHandler      *crisis.Handler
	DangerWordsHandler *dangerwords.Handler
	MoodHandler        *mood.Handler
	OnboardingHandler  *onboarding.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// AdminAuthSecret signs operator tokens. Empty rejects every ledger reset.
	AdminAuthSecret string

	// ChatLimiter throttles the LLM-backed chatbot routes when set.
	ChatLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/", rootHandler)
	r.Get("/health", healthHandler)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.ChatHandler != nil {
			api.Route("/chatbot", func(chat chi.Router) {
				if cfg.ChatLimiter != nil {
					chat.Use(cfg.ChatLimiter.Middleware)
				}
				chat.Post("/send-message", cfg.ChatHandler.SendMessage)
				chat.Post("/sentiment-analysis", cfg.ChatHandler.Sentiment)
				chat.Post("/initial-question", cfg.ChatHandler.InitialQuestion)
			})
		}

		if cfg.CrisisHandler != nil {
			api.Post("/crisis/alert", cfg.CrisisHandler.Alert)
		}

		if cfg.DangerWordsHandler != nil {
			api.Route("/danger-words", func(dw chi.Router) {
				dw.Get("/", cfg.DangerWordsHandler.Get)
				dw.Post("/ingest", cfg.DangerWordsHandler.Ingest)
				dw.With(httpmiddleware.AdminJWT(cfg.AdminAuthSecret)).Post("/reset", cfg.DangerWordsHandler.Reset)
			})
		}

		if cfg.MoodHandler != nil {
			api.Route("/mood", func(m chi.Router) {
				m.Post("/log", cfg.MoodHandler.Log)
				m.Get("/history", cfg.MoodHandler.History)
				m.Get("/analytics", cfg.MoodHandler.Analytics)
			})
		}

		if cfg.OnboardingHandler != nil {
			api.Post("/user/onboarding", cfg.OnboardingHandler.Save)
			api.Get("/user/onboarding", cfg.OnboardingHandler.Get)
		}
	})

	return r
}

func rootHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "MindMate API is running"})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
