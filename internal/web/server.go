package web

import (
    "net/http"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/app"
)

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service) http.Handler {
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(middleware.Logger)
    r.Use(middleware.Recoverer)

    h := &handlers{svc: s, tpl: loadTemplates()}
    s.SetRenderer(func(gs app.GameState) []byte { return h.renderBoard(gs, "") })

    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Post("/reset", h.reset)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
        r.Get("/board.png", h.boardPNG)
    })

    api := &apiHandlers{scoring: s.Config().Scoring}
    r.Route("/api", func(r chi.Router) {
        r.Get("/ping", api.ping)
        r.Post("/move", api.move)
        r.Post("/evaluate", api.evaluate)
        r.Post("/selfplay", api.selfPlay)
    })
    return r
}
