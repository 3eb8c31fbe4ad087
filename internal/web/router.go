package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/studentdesk/internal/dependencies/random"
	sharedmiddleware "github.com/mcoot/studentdesk/internal/middleware"
	"github.com/mcoot/studentdesk/internal/services/auth"
	"github.com/mcoot/studentdesk/internal/services/students"
	"github.com/mcoot/studentdesk/internal/web/handler"
	"github.com/mcoot/studentdesk/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	StudentsController *students.Controller
	Random             random.Random
	Metrics            *sharedmiddleware.Metrics // optional; /metrics is not served when nil
	CookieSecure       bool
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	csrfMiddleware := middleware.CSRF(cfg.Random, cfg.CookieSecure, cfg.Logger)
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, handler.CookieConfig{Secure: cfg.CookieSecure}, cfg.Logger)
	studentsHandler := handler.NewStudentsHandler(cfg.StudentsController, cfg.Logger)
	notFound := handler.NotFound(cfg.Logger)

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware(routeTemplate))
		notFound = cfg.Metrics.Middleware(func(*http.Request) string { return "unmatched" })(notFound)
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}
	r.NotFoundHandler = notFound

	r.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)

	// Public routes
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(csrfMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/register", authHandler.RegisterPage).Methods(http.MethodGet)
	public.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)
	protected.Use(csrfMiddleware)
	protected.HandleFunc("/", studentsHandler.Index).Methods(http.MethodGet)
	protected.HandleFunc("/", studentsHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/update/{id:[0-9]+}", studentsHandler.Edit).Methods(http.MethodGet)
	protected.HandleFunc("/update/{id:[0-9]+}", studentsHandler.Update).Methods(http.MethodPost)
	protected.HandleFunc("/delete/{id:[0-9]+}", studentsHandler.Delete).Methods(http.MethodPost)

	// Logging sits outside recovery so a recovered panic is logged as a 500
	return loggingMiddleware(recoveryMiddleware(r))
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
