package engine

import "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"

// Ply is one move of a self-play game.
type Ply struct {
    Player domain.Cell `json:"player"`
    Index  int         `json:"index"`
    Score  int         `json:"score"`
}

// Playout is the record of a finished self-play game.
type Playout struct {
    Start   domain.Board   `json:"start"`
    Final   domain.Board   `json:"final"`
    Plies   []Ply          `json:"plies"`
    Outcome domain.Outcome `json:"-"`
    Tie     bool           `json:"tie"`
}

// SelfPlay lets e choose moves for both sides from b, first moving first,
// until the game ends.
func SelfPlay(e *Engine, b domain.Board, first domain.Cell) (Playout, error) {
    if !first.Valid() {
        return Playout{}, domain.ErrInvalidPlayer
    }
    p := Playout{Start: b}
    turn := first
    for !domain.Terminal(b) {
        m, err := e.BestMove(b, turn)
        if err != nil {
            return p, err
        }
        if err := b.Apply(m.Index, turn); err != nil {
            return p, err
        }
        p.Plies = append(p.Plies, Ply{Player: turn, Index: m.Index, Score: m.Score})
        turn = turn.Opponent()
    }
    p.Final = b
    p.Outcome = domain.Winner(b)
    p.Tie = domain.IsTie(b)
    return p, nil
}
