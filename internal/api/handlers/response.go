package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/stackkit/auth-starter/internal/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondErrorMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondError maps the domain error taxonomy onto HTTP. Anything outside the
// taxonomy is an unexpected store failure: logged with full detail, surfaced
// sanitized.
func respondError(w http.ResponseWriter, component string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondErrorMessage(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondErrorMessage(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized):
		respondErrorMessage(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrTokenInvalid):
		respondErrorMessage(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, domain.ErrNotFound):
		respondErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrEmailExists):
		respondErrorMessage(w, http.StatusConflict, "email already exists")
	case errors.Is(err, domain.ErrRateLimited):
		respondErrorMessage(w, http.StatusTooManyRequests, "too many requests")
	default:
		log.Printf("ERROR [%s] unexpected failure: %v", component, err)
		respondErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
