package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stackkit/auth-starter/internal/config"
	"github.com/stackkit/auth-starter/internal/domain"
	"github.com/stackkit/auth-starter/internal/service"
	"github.com/stackkit/auth-starter/internal/session"
)

// AuthHandler exposes the auth provider's route group. These handlers read
// their own request body; the body-parsing middleware skips this path.
type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type SignUpRequest struct {
	Email    string  `json:"email"`
	Name     *string `json:"name,omitempty"`
	Password string  `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse mirrors the provider contract the frontend hook consumes.
type SessionResponse struct {
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"session"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondErrorMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.authService.SignUp(r.Context(), service.SignUpInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}, clientInfo(r))
	if err != nil {
		respondError(w, "handlers.AuthHandler.SignUp", err)
		return
	}

	session.SetCookie(w, result.Session.Token, result.Session.ExpiresAt, h.cfg.SecureCookies())
	respondJSON(w, http.StatusOK, SessionResponse{User: result.User, Session: result.Session})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondErrorMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.authService.SignIn(r.Context(), service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	}, clientInfo(r))
	if err != nil {
		respondError(w, "handlers.AuthHandler.SignIn", err)
		return
	}

	session.SetCookie(w, result.Session.Token, result.Session.ExpiresAt, h.cfg.SecureCookies())
	respondJSON(w, http.StatusOK, SessionResponse{User: result.User, Session: result.Session})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if token, ok := session.TokenFromRequest(r); ok {
		if err := h.authService.SignOut(r.Context(), token); err != nil {
			respondError(w, "handlers.AuthHandler.SignOut", err)
			return
		}
	}

	session.ClearCookie(w, h.cfg.SecureCookies())
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetSession returns {session, user} or null. Anonymous callers get a 200
// with a null body, not a 401. The guard is the security boundary; this
// endpoint is the lookup the frontend polls.
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	token, ok := session.TokenFromRequest(r)
	if !ok {
		respondJSON(w, http.StatusOK, nil)
		return
	}

	sess, user, err := h.authService.ResolveSession(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			respondJSON(w, http.StatusOK, nil)
			return
		}
		respondError(w, "handlers.AuthHandler.GetSession", err)
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{User: user, Session: sess})
}

func (h *AuthHandler) SendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	token, ok := session.TokenFromRequest(r)
	if !ok {
		respondErrorMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	_, user, err := h.authService.ResolveSession(r.Context(), token)
	if err != nil {
		respondError(w, "handlers.AuthHandler.SendVerificationEmail", err)
		return
	}

	verificationToken, err := h.authService.RequestEmailVerification(r.Context(), user)
	if err != nil {
		respondError(w, "handlers.AuthHandler.SendVerificationEmail", err)
		return
	}

	// No mailer is wired; hand the token back so callers (and dev setups)
	// can build the verification link themselves.
	respondJSON(w, http.StatusOK, map[string]string{"token": verificationToken})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondErrorMessage(w, http.StatusBadRequest, "token is required")
		return
	}

	user, err := h.authService.VerifyEmail(r.Context(), token)
	if err != nil {
		respondError(w, "handlers.AuthHandler.VerifyEmail", err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func clientInfo(r *http.Request) service.ClientInfo {
	return service.ClientInfo{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
