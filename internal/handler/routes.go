package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/recipebox/recipebox-go/internal/middleware"
	"github.com/recipebox/recipebox-go/internal/session"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Auth     *AuthHandler
	Recipes  *RecipeHandler
	Sessions *session.Manager

	// Health is checked by GET /health. Nil reports healthy.
	Health Pinger

	AuthRateLimit float64
	AuthRateBurst int
}

// NewRouter builds the HTTP routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler(cfg.Health))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
		r.Post("/signup", cfg.Auth.HandleSignup)
		r.Post("/login", cfg.Auth.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.Sessions))
		r.Get("/check_session", cfg.Auth.HandleCheckSession)
		r.Delete("/logout", cfg.Auth.HandleLogout)

		r.Get("/recipes", cfg.Recipes.HandleList)
		r.Post("/recipes", cfg.Recipes.HandleCreate)
	})

	return r
}

func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.PingContext(ctx); err != nil {
				slog.WarnContext(r.Context(), "health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("unavailable"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
