package api

import (
	"net/http"
	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(planner *services.TripPlanner, repo ports.TripRepository) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{Planner: planner, Repo: repo}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/trips", tripHandler.Collection)
	mux.HandleFunc("/trips/{id}", tripHandler.Item)

	return requestIDMiddleware(loggingMiddleware(mux))
}
