package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/stackkit/auth-starter/internal/api/handlers"
	"github.com/stackkit/auth-starter/internal/api/middleware"
	"github.com/stackkit/auth-starter/internal/config"
	"github.com/stackkit/auth-starter/internal/ratelimit"
	"github.com/stackkit/auth-starter/internal/service"
	"github.com/stackkit/auth-starter/internal/web"
)

func NewRouter(services *service.Services, limiter ratelimit.Limiter, cfg *config.Config) (http.Handler, error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ParseBody(cfg.AuthBasePath, cfg.BodyLimitBytes))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	userHandler := handlers.NewUserHandler(services.User)
	webHandler, err := web.NewHandler(services.Auth, services.User)
	if err != nil {
		return nil, err
	}

	// Auth provider routes; these parse their own bodies and are rate-limited
	r.Route(cfg.AuthBasePath, func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))

		r.Post("/sign-up/email", authHandler.SignUp)
		r.Post("/sign-in/email", authHandler.SignIn)
		r.Post("/sign-out", authHandler.SignOut)
		r.Get("/get-session", authHandler.GetSession)
		r.Post("/send-verification-email", authHandler.SendVerificationEmail)
		r.Get("/verify-email", authHandler.VerifyEmail)
	})

	// User CRUD routes
	r.Route("/users", func(r chi.Router) {
		// Administrative creation is the only unguarded user route
		r.Post("/", userHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, services.User))
			r.Get("/", userHandler.List)
			r.Get("/me", userHandler.Me)
			r.Get("/{id}", userHandler.Get)
			r.Patch("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Remove)
			r.Delete("/{id}/permanent", userHandler.HardDelete)
		})
	})

	// Server-rendered pages with session-gated layouts
	r.Get("/", webHandler.Landing)
	r.Get("/login", webHandler.RequireGuest(webHandler.Login))
	r.Get("/register", webHandler.RequireGuest(webHandler.Register))
	r.Get("/dashboard", webHandler.RequireUser(webHandler.Dashboard))

	return r, nil
}
