/*
Package api serves the tracker over HTTP.

ROUTES:
  GET  /api/status              Current state with today and week totals
  GET  /api/records             Every record in file order
  GET  /api/report?from=&to=    Daily totals (dates as YYYY-MM-DD or DD/MM/YYYY)
  POST /api/work                Start working
  POST /api/break               Start a break
  POST /api/toggle              Switch between work and break
  POST /api/break-add           Add a break without toggling, body {"minutes": N}

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests
  5. CloseIdle:  Closes work left open past max_idle (under /api)

The tracker has a single writer; Handler serialises every request on one
mutex.
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(h.CloseIdle)

		r.Get("/status", h.GetStatus)
		r.Get("/records", h.ListRecords)
		r.Get("/report", h.GetReport)

		r.Post("/work", h.StartWork)
		r.Post("/break", h.StartBreak)
		r.Post("/toggle", h.Toggle)
		r.Post("/break-add", h.AddBreak)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found", nil)
	})

	return r
}
