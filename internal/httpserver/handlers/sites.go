package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/httpserver/deps"
)

type sitesResponse struct {
	Count int           `json:"count"`
	Sites []domain.Site `json:"sites"`
}

// Sites lists the configured sites. Password fields are excluded from the
// JSON encoding of domain.Site, so nothing sensitive leaves the process.
func Sites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sitesResponse{
			Count: len(d.Sites),
			Sites: d.Sites,
		})
	}
}
