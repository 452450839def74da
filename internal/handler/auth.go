package handler

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/recipebox/recipebox-go/internal/middleware"
	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/service"
	"github.com/recipebox/recipebox-go/internal/session"
)

// AuthHandler handles HTTP requests for signup, login and the session lifecycle.
type AuthHandler struct {
	service  *service.AuthService
	sessions *session.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions}
}

// HandleSignup handles POST /signup requests.
//
// The user is committed before the session is started. If starting the session
// fails the account still exists and the client gets a 500; it can log in
// afterwards, while a repeated signup reports the username as taken.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.sessions.Start(w, r, resp.ID); err != nil {
		slog.ErrorContext(r.Context(), "session not started for new user",
			"user_id", resp.ID,
			"error", err,
			"request_id", chimw.GetReqID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.sessions.Start(w, r, resp.ID); err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleCheckSession handles GET /check_session requests.
func (h *AuthHandler) HandleCheckSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleLogout handles DELETE /logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
			return
		}
		writeInternalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
