package handler

import (
	"github.com/Dan9191/loan-registry/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the public and protected routes
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/records", h.ListRecords).Methods("GET")
	r.HandleFunc("/records/export", h.ExportRecords).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{})).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(h.cfg))
	authRouter.HandleFunc("/records", h.SubmitRecord).Methods("POST")
	authRouter.HandleFunc("/records/{email}", h.DeleteRecord).Methods("DELETE")
	return r
}
