// Package web serves the server-rendered pages. The layout guards here mirror
// the API's auth guard; the real security boundary stays on the API routes.
package web

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/stackkit/auth-starter/internal/domain"
	"github.com/stackkit/auth-starter/internal/service"
	"github.com/stackkit/auth-starter/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	tmpl        *template.Template
	authService *service.AuthService
	userService *service.UserService
}

func NewHandler(authService *service.AuthService, userService *service.UserService) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{tmpl: tmpl, authService: authService, userService: userService}, nil
}

type pageData struct {
	User *domain.User
}

func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, "landing.html", pageData{User: h.currentUser(r)})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", pageData{})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", pageData{})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, "dashboard.html", pageData{User: h.currentUser(r)})
}

// RequireGuest wraps pages meant for anonymous visitors. A signed-in visitor
// is redirected to the dashboard before any byte of the page is written, so
// there is no flash of the wrong layout.
func (h *Handler) RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.currentUser(r) != nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		next(w, r)
	}
}

// RequireUser is the symmetric guard for signed-in-only pages.
func (h *Handler) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.currentUser(r) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

// currentUser resolves the session the same way the API guard does, including
// the active re-check. Anonymous, stale and deactivated all come back nil.
func (h *Handler) currentUser(r *http.Request) *domain.User {
	token, ok := session.TokenFromRequest(r)
	if !ok {
		return nil
	}

	sess, _, err := h.authService.ResolveSession(r.Context(), token)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthorized) {
			log.Printf("ERROR [web.Handler] session lookup failed: %v", err)
		}
		return nil
	}

	user, err := h.userService.FindOne(r.Context(), sess.UserID)
	if err != nil || !user.IsActive {
		return nil
	}
	return user
}

func (h *Handler) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("ERROR [web.Handler] failed to render %s: %v", name, err)
	}
}
