package api

import (
	"delivery-scheduler/internal/api/handlers"
	"delivery-scheduler/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires HTTP handlers over a finished run and returns an http.Handler.
// Every endpoint is read-only; the run is never mutated after routing.
func NewRouter(reporter *services.Reporter, result *services.RunResult) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	pkgHandler := &handlers.PackageHandler{Reporter: reporter}
	planHandler := &handlers.PlanHandler{Result: result}

	r.Get("/health", handlers.Health)
	r.Get("/packages", pkgHandler.List)
	r.Get("/packages/{id}/status", pkgHandler.Status)
	r.Get("/mileage", planHandler.Mileage)
	r.Get("/routes", planHandler.Routes)

	return r
}
