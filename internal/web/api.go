package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/http"

    "github.com/jaminalder/perfect-tic-tac-toe/internal/app"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/engine"
)

// apiHandlers serve the stateless JSON endpoints. Every request carries the
// full board.
type apiHandlers struct {
    scoring engine.Scoring
}

type moveRequest struct {
    Board  []domain.Cell `json:"board"`
    Player domain.Cell   `json:"player"`
}

type evaluateResponse struct {
    Winner   domain.Cell `json:"winner"`
    Line     []int       `json:"line"`
    Tie      bool        `json:"tie"`
    Terminal bool        `json:"terminal"`
    Empty    []int       `json:"empty"`
}

type selfPlayRequest struct {
    Board []domain.Cell `json:"board"`
    First domain.Cell   `json:"first"`
    AI    domain.Cell   `json:"ai"`
}

type selfPlayResponse struct {
    engine.Playout
    Winner domain.Cell `json:"winner"`
    Line   []int       `json:"line"`
}

// gameDTO is the JSON form of a session pushed over the websocket.
type gameDTO struct {
    ID     string       `json:"id"`
    Board  domain.Board `json:"board"`
    Human  domain.Cell  `json:"human"`
    AI     domain.Cell  `json:"ai"`
    Turn   domain.Cell  `json:"turn"`
    Moves  int          `json:"moves"`
    Over   bool         `json:"over"`
    Tie    bool         `json:"tie"`
    Winner domain.Cell  `json:"winner"`
    Line   []int        `json:"line"`
    AIMove *engine.Move `json:"ai_move,omitempty"`
}

func gameFromState(gs app.GameState) gameDTO {
    g := gs.Game
    dto := gameDTO{
        ID:     gs.ID,
        Board:  g.Board,
        Human:  g.Human,
        AI:     g.AI,
        Turn:   g.Turn,
        Moves:  g.Moves,
        Over:   g.Over,
        Tie:    g.Tie,
        Winner: g.Winner,
        Line:   lineOf(g.Line),
    }
    if gs.AIMove.Index >= 0 {
        m := gs.AIMove
        dto.AIMove = &m
    }
    return dto
}

func lineOf(o domain.Outcome) []int {
    if !o.Won {
        return nil
    }
    return o.Line[:]
}

func decodeBoard(cells []domain.Cell) (domain.Board, error) {
    var b domain.Board
    if len(cells) != domain.Size {
        return b, fmt.Errorf("%w: got %d cells, want %d", domain.ErrInvalidBoard, len(cells), domain.Size)
    }
    copy(b[:], cells)
    return b, nil
}

func (a *apiHandlers) ping(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// move answers POST /api/move with the best cell for the requesting player.
func (a *apiHandlers) move(w http.ResponseWriter, r *http.Request) {
    var req moveRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidBoard, err))
        return
    }
    b, err := decodeBoard(req.Board)
    if err != nil {
        writeError(w, err)
        return
    }
    e, err := engine.New(req.Player, engine.WithScoring(a.scoring))
    if err != nil {
        writeError(w, err)
        return
    }
    m, err := e.BestMove(b, req.Player)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, m)
}

func (a *apiHandlers) evaluate(w http.ResponseWriter, r *http.Request) {
    var req moveRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidBoard, err))
        return
    }
    b, err := decodeBoard(req.Board)
    if err != nil {
        writeError(w, err)
        return
    }
    o := domain.Winner(b)
    writeJSON(w, http.StatusOK, evaluateResponse{
        Winner:   o.Player,
        Line:     lineOf(o),
        Tie:      domain.IsTie(b),
        Terminal: domain.Terminal(b),
        Empty:    domain.EmptyCells(b),
    })
}

func (a *apiHandlers) selfPlay(w http.ResponseWriter, r *http.Request) {
    var req selfPlayRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidBoard, err))
        return
    }
    var b domain.Board
    if req.Board != nil {
        var err error
        if b, err = decodeBoard(req.Board); err != nil {
            writeError(w, err)
            return
        }
    }
    if req.AI == domain.Empty {
        req.AI = domain.X
    }
    if req.First == domain.Empty {
        req.First = nextToMove(b)
    }
    e, err := engine.New(req.AI, engine.WithScoring(a.scoring))
    if err != nil {
        writeError(w, err)
        return
    }
    p, err := engine.SelfPlay(e, b, req.First)
    if err != nil {
        writeError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, selfPlayResponse{Playout: p, Winner: p.Outcome.Player, Line: lineOf(p.Outcome)})
}

// nextToMove assumes X opened the game.
func nextToMove(b domain.Board) domain.Cell {
    var nx, no int
    for _, c := range b {
        switch c {
        case domain.X:
            nx++
        case domain.O:
            no++
        }
    }
    if nx > no {
        return domain.O
    }
    return domain.X
}

func writeError(w http.ResponseWriter, err error) {
    status := http.StatusInternalServerError
    switch {
    case errors.Is(err, domain.ErrInvalidMove),
        errors.Is(err, domain.ErrInvalidBoard),
        errors.Is(err, engine.ErrInvalidState):
        status = http.StatusBadRequest
    }
    writeJSON(w, status, map[string]string{"error": err.Error()})
}

func mustMarshal(v any) json.RawMessage {
    data, _ := json.Marshal(v)
    return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(data)
}
