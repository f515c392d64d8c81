package http

import (
	"encoding/json"
	"net/http"
)

// HealthResponse is the JSON response from the /health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// healthHandler reports liveness. The control interface has no
// external dependencies to probe; a served response is the check.
func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "healthy"})
	})
}
