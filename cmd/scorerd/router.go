package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/mindengage-scorer/internal/api/http"
	auth "github.com/mind-engage/mindengage-scorer/internal/auth/middleware"
	"github.com/mind-engage/mindengage-scorer/internal/config"
	"github.com/mind-engage/mindengage-scorer/internal/evaluation"
	"github.com/mind-engage/mindengage-scorer/internal/grading"
	"github.com/mind-engage/mindengage-scorer/internal/rbac"
	"github.com/mind-engage/mindengage-scorer/internal/scoring"
)

type serverDeps struct {
	cfg       config.Config
	evaluator api.Evaluator
	grader    grading.Grader
	policy    scoring.PolicySource
	store     evaluation.Store      // nil when history is disabled
	events    *evaluation.EventRepo // nil when history is disabled
	auth      *auth.AuthService     // nil when auth is disabled
}

func newRouter(d serverDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	if d.auth != nil {
		r.Post("/auth/login", auth.LoginHandler(d.auth, d.cfg.AdminUser, d.cfg.AdminPassHash))
	}

	r.Group(func(pr chi.Router) {
		// guard returns the permission middleware, or a no-op when auth is off.
		guard := func(perm string) func(http.Handler) http.Handler {
			if d.auth == nil {
				return func(next http.Handler) http.Handler { return next }
			}
			return rbac.Require(perm)
		}
		if d.auth != nil {
			pr.Use(auth.JWTMiddleware(d.auth))
		}

		pr.With(guard("answer:evaluate")).
			Post("/evaluate", api.EvaluateHandler(d.evaluator, d.store))
		pr.With(guard("answer:grade")).
			Post("/grade", api.GradeHandler(d.grader))
		pr.With(guard("policy:view")).
			Get("/policy", api.PolicyHandler(d.policy))

		if d.store != nil {
			pr.With(guard("evaluation:view")).
				Get("/evaluations", api.ListEvaluationsHandler(d.store))
			pr.With(guard("evaluation:view")).
				Get("/evaluations/{id}", api.GetEvaluationHandler(d.store))
		}
		if d.events != nil {
			pr.With(guard("evaluation:view")).
				Get("/events", api.ListEventsHandler(d.events))
		}
	})

	return r
}
