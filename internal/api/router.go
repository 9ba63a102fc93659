package api

import (
	"net/http"

	"broker-demo-service/internal/api/handlers"
	"broker-demo-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// stream serves the WebSocket event feed; docs serves the static demo documents.
func NewRouter(engine *services.Engine, stream http.Handler, docs http.Handler) http.Handler {
	mux := http.NewServeMux()

	shipmentHandler := &handlers.ShipmentHandler{Engine: engine}
	activityHandler := &handlers.ActivityHandler{Engine: engine}
	simHandler := &handlers.SimulationHandler{Engine: engine}

	mux.HandleFunc("/api/health", handlers.Health)
	mux.HandleFunc("/api/shipments", shipmentHandler.List)
	mux.HandleFunc("/api/shipments/", shipmentHandler.Get)
	mux.HandleFunc("/api/activities", activityHandler.List)
	mux.HandleFunc("/api/documents", activityHandler.Documents)
	mux.HandleFunc("/api/simulation", simHandler.State)
	mux.HandleFunc("/api/simulation/start", simHandler.Start)
	mux.HandleFunc("/api/simulation/pause", simHandler.Pause)
	mux.HandleFunc("/api/simulation/resume", simHandler.Resume)
	mux.HandleFunc("/api/simulation/reset", simHandler.Reset)
	mux.HandleFunc("/api/simulation/approve", simHandler.Approve)
	mux.Handle("/api/stream", stream)
	mux.Handle("/docs/", http.StripPrefix("/docs/", docs))

	return requestIDMiddleware(loggingMiddleware(mux))
}
