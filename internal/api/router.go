package api

import (
	"mdvrp-service/internal/api/handlers"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(svc handlers.InstanceService, dataDir string) http.Handler {
	mux := http.NewServeMux()

	instanceHandler := &handlers.InstanceHandler{
		Service: svc,
		DataDir: dataDir,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/instances", instanceHandler.Collection)
	mux.HandleFunc("/instances/{id}", instanceHandler.Get)

	return loggingMiddleware(mux)
}
