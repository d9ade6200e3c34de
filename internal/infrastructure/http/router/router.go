// Package router wires handlers to routes: a thin net/http.ServeMux
// wrapper adding CORS headers and exposing a plain http.Handler.
package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mdeadwiler/riskassess/internal/interfaces/http/handler"
)

// Router holds all HTTP handlers.
type Router struct {
	mux           *http.ServeMux
	assessHandler *handler.AssessHandler
	rulesHandler  *handler.RulesHandler
	healthHandler *handler.HealthHandler
	metricsPath   string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(assessHandler *handler.AssessHandler, rulesHandler *handler.RulesHandler, healthHandler *handler.HealthHandler, metricsPath string) *Router {
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	r := &Router{
		mux:           http.NewServeMux(),
		assessHandler: assessHandler,
		rulesHandler:  rulesHandler,
		healthHandler: healthHandler,
		metricsPath:   metricsPath,
	}
	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)
	r.mux.HandleFunc("GET /ready", r.healthHandler.Ready)
	r.mux.HandleFunc("GET /live", r.healthHandler.Live)

	r.mux.HandleFunc("POST /api/v1/assessments", r.assessHandler.Assess)
	r.mux.HandleFunc("GET /api/v1/rules", r.rulesHandler.Rules)

	r.mux.Handle(r.metricsPath, promhttp.Handler())
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if req.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.mux.ServeHTTP(w, req)
}

// Handler returns the http.Handler.
func (r *Router) Handler() http.Handler {
	return r
}
