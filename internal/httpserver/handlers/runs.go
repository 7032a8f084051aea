package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/armada/internal/httpserver/deps"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

// Runs returns recent deployment run reports from the history store, newest
// first. Responds 503 when Redis is not configured.
func Runs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if d.History == nil {
			http.Error(w, `{"error":"run history disabled (no redis configured)"}`, http.StatusServiceUnavailable)
			return
		}

		n := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v > 0 {
				n = v
			}
		}

		runs, err := d.History.RecentRuns(r.Context(), n)
		if err != nil {
			d.Logger.Error("failed to read run history", logger.Error(err))
			http.Error(w, `{"error":"run history unavailable"}`, http.StatusInternalServerError)
			return
		}

		_ = json.NewEncoder(w).Encode(runs)
	}
}
