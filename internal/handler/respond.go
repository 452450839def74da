package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeJSON reads a size-limited JSON body into dst and writes the error
// response itself when it fails: 413 for oversize bodies, 422 for a field of the
// wrong type and 400 for anything that is not JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
	case errors.As(err, &typeErr) && typeErr.Field != "":
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(fieldTypeMessage(typeErr)))
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
	}
	return false
}

func fieldTypeMessage(err *json.UnmarshalTypeError) string {
	switch err.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return err.Field + " must be an integer"
	case reflect.String:
		return err.Field + " must be a string"
	default:
		return err.Field + " has the wrong type"
	}
}

// writeServiceError maps service and validation errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(verr.Message))
	case errors.Is(err, service.ErrUsernameTaken):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		writeInternalError(w, r, err)
	}
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
}
