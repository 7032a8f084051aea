package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/httpserver/deps"
)

type statusResponse struct {
	LastSweep time.Time             `json:"last_sweep"`
	Results   []domain.HealthResult `json:"results"`
}

// Status exposes the latest monitor sweep: one entry per site that carries a
// health check URL, sorted by site name.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		if d.Monitor == nil {
			http.Error(w, `{"error":"monitor not running"}`, http.StatusServiceUnavailable)
			return
		}

		results := d.Monitor.All()
		if results == nil {
			results = []domain.HealthResult{}
		}
		_ = json.NewEncoder(w).Encode(statusResponse{
			LastSweep: d.Monitor.LastSweep(),
			Results:   results,
		})
	}
}
