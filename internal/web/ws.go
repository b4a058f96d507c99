package web

import (
    "context"
    "encoding/json"
    "log"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"
)

const wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
    Type    string          `json:"type"`
    Payload json.RawMessage `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ws streams the game state as JSON to a websocket client. Clients may send
// {"type":"request_state"} to get a fresh snapshot.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        return
    }
    defer conn.Close()

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    updates, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()

    requests := make(chan struct{}, 1)
    go func() {
        defer cancel()
        for {
            _, message, err := conn.ReadMessage()
            if err != nil {
                return
            }
            var msg wsMessage
            if err := json.Unmarshal(message, &msg); err != nil {
                continue
            }
            if msg.Type == "request_state" {
                select {
                case requests <- struct{}{}:
                default:
                }
            }
        }
    }()

    snapshot := func() []byte {
        gs, ok := h.svc.Get(id)
        if !ok {
            return nil
        }
        return mustMarshal(wsMessage{Type: "state", Payload: mustMarshal(gameFromState(*gs))})
    }
    if err := writeWSWithHeartbeat(ctx, conn, updates, requests, snapshot); err != nil {
        log.Printf("[web] ws %s: %v", id, err)
    }
}

// writeWSWithHeartbeat is the only writer on conn. It sends a snapshot on
// connect, on every update and on request, and pings when idle.
func writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, updates <-chan []byte, requests <-chan struct{}, snapshot func() []byte) error {
    ticker := time.NewTicker(wsIdlePingInterval)
    defer ticker.Stop()
    lastWrite := time.Now()
    pingPayload := mustMarshal(wsMessage{Type: "ping"})

    send := func(msg []byte) error {
        if msg == nil {
            return nil
        }
        lastWrite = time.Now()
        return conn.WriteMessage(websocket.TextMessage, msg)
    }

    if err := send(snapshot()); err != nil {
        return err
    }
    for {
        select {
        case <-ctx.Done():
            return nil
        case _, ok := <-updates:
            if !ok {
                return nil
            }
            if err := send(snapshot()); err != nil {
                return err
            }
        case <-requests:
            if err := send(snapshot()); err != nil {
                return err
            }
        case <-ticker.C:
            if time.Since(lastWrite) < wsIdlePingInterval {
                continue
            }
            if err := send(pingPayload); err != nil {
                return err
            }
        }
    }
}
