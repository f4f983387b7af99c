package main

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"deadline-tracker/config"
	"deadline-tracker/firebase"
	"deadline-tracker/handlers"
	"deadline-tracker/utilities"
)

// NewRouter wires the deadline routes. verifier may be nil, in which case
// the routes are public.
func NewRouter(h *handlers.DeadlineHandlers, serverCfg config.ServerConfig, verifier firebase.TokenVerifier) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", handlers.HealthHandler).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	if verifier != nil {
		api.Use(handlers.AuthMiddleware(verifier))
	}

	// Every route answers with and without the trailing slash.
	for _, prefix := range []string{"/deadlines", "/deadlines/"} {
		api.HandleFunc(prefix, h.CreateDeadlineHandler).Methods(http.MethodPost)
		api.HandleFunc(prefix, h.ListDeadlinesHandler).Methods(http.MethodGet)
	}
	for _, suffix := range []string{"", "/"} {
		api.HandleFunc("/deadlines/{id}/due-date"+suffix, h.UpdateDueDateHandler).Methods(http.MethodPut)
		api.HandleFunc("/deadlines/{id}/update-status"+suffix, h.UpdateStatusHandler).Methods(http.MethodPut)
	}

	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions})
	allowedOrigins := serverCfg.AllowedOrigins()
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)
	utilities.LogInfo("Configuring CORS with allowed origins: %v", allowedOrigins)

	recovery := gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(utilities.PanicLogger{}),
		gorillahandlers.PrintRecoveryStack(true),
	)
	return handlers.LoggingMiddleware(recovery(gorillahandlers.CORS(headers, methods, origins)(r)))
}
