package routes

import (
	"net/http"

	"github.com/makerworks/safetytraining/backend/internal/api/handlers"
	"github.com/makerworks/safetytraining/backend/internal/api/middleware"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	healthHandler     *handlers.HealthHandler
	trainingHandler   *handlers.TrainingHandler
	procedureHandler  *handlers.ProcedureHandler
	equipmentHandler  *handlers.EquipmentHandler
	assessmentHandler *handlers.AssessmentHandler

	attemptChecker  middleware.AttemptChecker
	jwtSecret       string
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	trainingHandler *handlers.TrainingHandler,
	procedureHandler *handlers.ProcedureHandler,
	equipmentHandler *handlers.EquipmentHandler,
	assessmentHandler *handlers.AssessmentHandler,
	attemptChecker middleware.AttemptChecker,
	jwtSecret string,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		healthHandler:     handlers.NewHealthHandler(),
		trainingHandler:   trainingHandler,
		procedureHandler:  procedureHandler,
		equipmentHandler:  equipmentHandler,
		assessmentHandler: assessmentHandler,

		attemptChecker:  attemptChecker,
		jwtSecret:       jwtSecret,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint, outside the gate
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Everything under /api passes the assessment gate
	api := http.NewServeMux()

	// Training endpoints
	api.HandleFunc("POST /api/training/quiz", r.trainingHandler.GetQuiz)
	api.HandleFunc("POST /api/training/quiz/regenerate", r.trainingHandler.RegenerateQuiz)
	api.HandleFunc("POST /api/training/clarify", r.trainingHandler.Clarify)

	// Reference data endpoints
	api.HandleFunc("GET /api/procedures", r.procedureHandler.ListProcedures)
	api.HandleFunc("GET /api/procedures/{id}", r.procedureHandler.GetProcedure)
	api.HandleFunc("GET /api/equipment", r.equipmentHandler.ListEquipment)
	api.HandleFunc("GET /api/equipment/{id}", r.equipmentHandler.GetEquipment)

	// Response caching sits inside the gate so cached reference data is
	// only replayed to requests the gate has already allowed
	var protected http.Handler = api
	if r.cacheMiddleware != nil {
		protected = r.cacheMiddleware.Middleware(protected)
	}
	gated := middleware.AssessmentGateMiddleware(r.attemptChecker, r.metrics)(protected)
	r.mux.Handle("/api/", gated)

	// Assessment endpoints stay outside the gate: recording the first
	// attempt is how a gated user satisfies it
	r.mux.HandleFunc("POST /api/assessment/attempts", r.assessmentHandler.RecordAttempt)
	r.mux.HandleFunc("GET /api/assessment/status", r.assessmentHandler.GetStatus)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Auth sits outside the gate so the principal is in context when the
	// gate evaluates
	handler = middleware.AuthMiddleware(r.jwtSecret)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
