package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/armada/internal/httpserver/deps"
	"github.com/MrSnakeDoc/armada/internal/httpserver/handlers"
)

func init() { Register(registerRuns) }

func registerRuns(r chi.Router, d deps.Deps) {
	r.Get("/api/runs", handlers.Runs(d))
}
