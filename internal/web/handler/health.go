package handler

import (
	"encoding/json"
	"net/http"
)

// HealthResponse is the body of /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

// Health reports liveness
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}
