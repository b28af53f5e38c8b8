package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stackkit/auth-starter/internal/api/middleware"
	"github.com/stackkit/auth-starter/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserRequest struct {
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
}

type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

// Create is the administrative creation path; sign-up with credentials goes
// through the auth routes.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.Email == "" {
		respondErrorMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := h.userService.Create(r.Context(), service.CreateUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		respondError(w, "handlers.UserHandler.Create", err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.FindAll(r.Context())
	if err != nil {
		respondError(w, "handlers.UserHandler.List", err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.FindOne(r.Context(), id)
	if err != nil {
		respondError(w, "handlers.UserHandler.Get", err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := h.userService.Update(r.Context(), id, service.UpdateUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		respondError(w, "handlers.UserHandler.Update", err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Remove soft-deletes. DELETE /users/{id}/permanent is the destructive one.
func (h *UserHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.Remove(r.Context(), id); err != nil {
		respondError(w, "handlers.UserHandler.Remove", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *UserHandler) HardDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.userService.HardDelete(r.Context(), id); err != nil {
		respondError(w, "handlers.UserHandler.HardDelete", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
