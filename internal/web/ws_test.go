package web

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/gorilla/websocket"
)

func readState(t *testing.T, conn *websocket.Conn) gameDTO {
    t.Helper()
    _ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
    for {
        _, data, err := conn.ReadMessage()
        if err != nil {
            t.Fatalf("read: %v", err)
        }
        var msg wsMessage
        if err := json.Unmarshal(data, &msg); err != nil {
            t.Fatalf("decode message: %v", err)
        }
        if msg.Type != "state" {
            continue
        }
        var dto gameDTO
        if err := json.Unmarshal(msg.Payload, &dto); err != nil {
            t.Fatalf("decode state: %v", err)
        }
        return dto
    }
}

func TestWebsocketStreamsState(t *testing.T) {
    svc, h := newTestServer(t)
    srv := httptest.NewServer(h)
    defer srv.Close()

    gs, _ := svc.CreateGame()
    svc.Join(gs.ID, "p1")

    url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/" + gs.ID + "/ws"
    conn, _, err := websocket.DefaultDialer.Dial(url, nil)
    if err != nil {
        t.Fatalf("dial: %v", err)
    }
    defer conn.Close()

    first := readState(t, conn)
    if first.ID != gs.ID || first.Moves != 0 || first.Human.String() != "O" || first.AIMove != nil {
        t.Fatalf("unexpected initial state %+v", first)
    }

    if _, err := svc.Play(gs.ID, "p1", 1, 1); err != nil {
        t.Fatalf("play: %v", err)
    }
    next := readState(t, conn)
    if next.Moves != 2 || next.AIMove == nil || next.Board[next.AIMove.Index].String() != "X" {
        t.Fatalf("expected human move and AI reply, got %+v", next)
    }

    if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"request_state"}`)); err != nil {
        t.Fatalf("write: %v", err)
    }
    again := readState(t, conn)
    if again.Moves != 2 {
        t.Fatalf("expected snapshot on request, got %+v", again)
    }
}

func TestWebsocketUnknownGame(t *testing.T) {
    _, h := newTestServer(t)
    srv := httptest.NewServer(h)
    defer srv.Close()

    url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/game/missing/ws"
    _, resp, err := websocket.DefaultDialer.Dial(url, nil)
    if err == nil {
        t.Fatalf("expected dial to fail for unknown game")
    }
    if resp == nil || resp.StatusCode != http.StatusNotFound {
        t.Fatalf("expected 404 handshake response, got %v", resp)
    }
}
