package web

import (
    "errors"
    "fmt"
    "io"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/app"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
)

type handlers struct {
    svc *app.Service
    tpl *templates
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", boardView{ID: gs.ID, Game: gs.Game, Error: errMsg})
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg string) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "base", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.CreateGame()
    if err != nil {
        log.Printf("[web] create game: %v", err)
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim the human seat
    pid := ensurePlayerCookie(w, r)
    _, _, _ = h.svc.Join(id, pid)

    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    data := struct {
        ID    string
        Board boardView
    }{ID: gs.ID, Board: boardView{ID: gs.ID, Game: gs.Game}}

    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.game, "base", data))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    side, gs, err := h.svc.Join(id, pid)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    var errMsg string
    if side == domain.Empty {
        errMsg = "You are a spectator"
    }
    h.writeBoard(w, *gs, errMsg)
}

// moveMessage maps play errors to the text shown above the board.
func moveMessage(err error) string {
    switch {
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    }
    return "Invalid move"
}

// cellParam reads the target cell either as r/c or as a single index.
func cellParam(r *http.Request) (int, int) {
    if v := r.Form.Get("cell"); v != "" {
        idx, err := strconv.Atoi(v)
        if err != nil || idx < 0 || idx >= domain.Size {
            return -1, -1
        }
        return idx / 3, idx % 3
    }
    ri, err := strconv.Atoi(r.Form.Get("r"))
    if err != nil {
        ri = -1
    }
    ci, err := strconv.Atoi(r.Form.Get("c"))
    if err != nil {
        ci = -1
    }
    return ri, ci
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    ri, ci := cellParam(r)
    gs, err := h.svc.Play(id, pid, ri, ci)
    var errMsg string
    if err != nil {
        if errors.Is(err, app.ErrNotFound) {
            http.NotFound(w, r)
            return
        }
        if !errors.Is(err, domain.ErrInvalidMove) && !errors.Is(err, domain.ErrGameOver) &&
            !errors.Is(err, app.ErrNotYourTurn) && !errors.Is(err, app.ErrNotAPlayer) {
            log.Printf("[web] play %s: %v", id, err)
        }
        errMsg = moveMessage(err)
        gs, _ = h.svc.Get(id)
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, errMsg)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.Reset(id, pid)
    var errMsg string
    if err != nil {
        if errors.Is(err, app.ErrNotFound) {
            http.NotFound(w, r)
            return
        }
        errMsg = moveMessage(err)
        gs, _ = h.svc.Get(id)
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, errMsg)
}

func (h *handlers) boardPNG(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    img, err := renderPNG(gs.Game)
    if err != nil {
        log.Printf("[web] render png %s: %v", gs.ID, err)
        http.Error(w, "failed to render", http.StatusInternalServerError)
        return
    }
    w.Header().Set("Content-Type", "image/png")
    w.Header().Set("Cache-Control", "no-cache")
    _, _ = w.Write(img)
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()
    // heartbeat ticker
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            writeEvent(w, "board", b)
            flusher.Flush()
        }
    }
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, event string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", event)
    for _, line := range strings.Split(string(payload), "\n") {
        _, _ = fmt.Fprintf(w, "data: %s\n", line)
    }
    _, _ = io.WriteString(w, "\n")
}
