package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/evalca-server/internal/api/http/handler"
	"github.com/dtroode/evalca-server/internal/api/http/middleware"
	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
)

// Services groups the dependencies served over HTTP.
type Services struct {
	Auth          handler.AuthService
	Authenticator middleware.Authenticator
	OCR           handler.OCRService
	Evaluation    handler.EvaluationService
}

// Options tunes the router.
type Options struct {
	CORSAllowedOrigins []string
	MaxUploadBytes     int64
	// Gatherer backs /metrics. Nil means the default registry.
	Gatherer prometheus.Gatherer
}

// Router builds the public HTTP API.
type Router struct {
	services       Services
	contextManager model.ContextManager
	opts           Options
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(services Services, contextManager model.ContextManager, opts Options, logger *logger.Logger) *Router {
	return &Router{
		services:       services,
		contextManager: contextManager,
		opts:           opts,
		logger:         logger,
	}
}

// Register wires middleware and routes.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	cors := middleware.NewCORS(r.opts.CORSAllowedOrigins)
	authenticate := middleware.NewAuthenticate(r.services.Authenticator, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(cors.Handle)

	mux.Get("/health", handler.Health)
	mux.Handle("/metrics", r.metricsHandler())

	authHandler := handler.NewAuth(r.services.Auth, r.contextManager, r.logger)
	mux.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", authHandler.Signup)
		ar.Post("/login", authHandler.Login)
		ar.Post("/refresh", authHandler.Refresh)

		ar.Group(func(pr chi.Router) {
			pr.Use(authenticate.Handle)
			pr.Post("/logout", authHandler.Logout)
			pr.Get("/me", authHandler.Me)
			pr.With(authenticate.RequireRole(model.RoleAdmin)).Post("/signup/admin", authHandler.SignupAdmin)
		})
	})

	ocrHandler := handler.NewOCR(r.services.OCR, r.contextManager, r.opts.MaxUploadBytes, r.logger)
	mux.Route("/ocr", func(or chi.Router) {
		or.Use(authenticate.Handle, authenticate.RequireRole(model.RoleTeacher))
		or.Post("/question", ocrHandler.Question)
		or.Post("/answer", ocrHandler.Answer)
	})

	evaluationHandler := handler.NewEvaluation(r.services.Evaluation, r.logger)
	mux.Route("/evaluation", func(er chi.Router) {
		er.Use(authenticate.Handle, authenticate.RequireRole(model.RoleTeacher))
		er.Post("/detect", evaluationHandler.Detect)
		er.Post("/evaluate", evaluationHandler.Evaluate)
	})

	return mux
}

func (r *Router) metricsHandler() http.Handler {
	if r.opts.Gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.opts.Gatherer, promhttp.HandlerOpts{})
}
