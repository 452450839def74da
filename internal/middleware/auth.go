package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/recipebox/recipebox-go/internal/session"
)

type contextKey string

const userIDKey contextKey = "userID"

// SessionAuth returns middleware that resolves the session cookie to a user ID.
// Requests without a valid session are rejected with 401.
func SessionAuth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessions.Lookup(r)
			if err != nil {
				if errors.Is(err, session.ErrNoSession) {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				slog.ErrorContext(r.Context(), "session lookup failed",
					"error", err,
					"request_id", chimw.GetReqID(r.Context()),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
