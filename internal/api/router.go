package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(doc Document, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(doc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/document", h.LoadDocument)
	r.Post("/document", h.AppendDocument)
	r.Delete("/document", h.ClearDocument)
	r.Get("/document/info", h.DocumentInfo)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
