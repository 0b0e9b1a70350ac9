package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quizwiz/internal/i18n"
)

// NewRouter wires the health check, JSON API and websocket endpoint.
func NewRouter(api *API, ws *WSHandler, lang string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(i18n.Middleware(lang))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Route("/api", api.Routes)
	r.Get("/ws", ws.ServeWS)
	return r
}
