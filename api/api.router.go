// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hidrosense/hub/api/middleware"
	"github.com/hidrosense/hub/api/resources"
	"github.com/hidrosense/hub/internal/hubservice"
)

// Router handles all HTTP routing for the hub
type Router struct {
	router    *mux.Router
	auth      *middleware.AuthMiddleware
	resources *resources.Resources
}

// NewRouter creates a new router with all routes configured
func NewRouter(svc *hubservice.HubService) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewAuthMiddleware(svc.Tokens, svc),
		resources: resources.NewResources(svc),
	}
	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	r.router.HandleFunc("/", r.resources.Status).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", r.resources.Metrics.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/token", r.resources.Auth.Login).Methods(http.MethodPost)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	users := protected.PathPrefix("/users").Subrouter()
	users.Use(r.auth.RequireAdmin)
	users.HandleFunc("", r.resources.Users.ListUsers).Methods(http.MethodGet)
	users.HandleFunc("", r.resources.Users.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("/{id}", r.resources.Users.UpdateUser).Methods(http.MethodPut)
	users.HandleFunc("/{id}", r.resources.Users.DeleteUser).Methods(http.MethodDelete)

	protected.HandleFunc("/metrics/latest", r.resources.Metrics.LatestMetrics).Methods(http.MethodGet)
	protected.HandleFunc("/charts/water-level", r.resources.Metrics.WaterLevelChart).Methods(http.MethodGet)
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
