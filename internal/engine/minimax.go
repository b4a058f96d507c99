// Package engine picks perfect-play tic-tac-toe moves with an exhaustive
// minimax search.
package engine

import (
    "errors"
    "fmt"

    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
)

// Terminal scores, from the AI's point of view.
const (
    WinScore  = 10
    LossScore = -10
    TieScore  = 0
)

// ErrInvalidState is returned when asked for a move on a finished board.
var ErrInvalidState = errors.New("invalid state: game already over")

// Scoring selects how terminal positions are valued.
type Scoring int

const (
    // Flat scores every win +10 and every loss -10 regardless of depth.
    Flat Scoring = iota
    // DepthAware widens win and loss scores by the number of empty cells
    // left, so quicker wins and slower losses rank higher.
    DepthAware
)

func (s Scoring) String() string {
    if s == DepthAware {
        return "depth"
    }
    return "flat"
}

// ParseScoring reads "flat" or "depth".
func ParseScoring(v string) (Scoring, error) {
    switch v {
    case "", "flat":
        return Flat, nil
    case "depth", "depth-aware":
        return DepthAware, nil
    }
    return Flat, fmt.Errorf("unknown scoring %q", v)
}

// Move is a candidate cell and its guaranteed score.
type Move struct {
    Index int `json:"index"`
    Score int `json:"score"`
    // Nodes is the number of positions searched to produce the move.
    Nodes int `json:"-"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithScoring sets the terminal scoring mode.
func WithScoring(s Scoring) Option {
    return func(e *Engine) { e.scoring = s }
}

// Engine searches on behalf of one side. It holds no per-search state and is
// safe for concurrent use.
type Engine struct {
    ai      domain.Cell
    human   domain.Cell
    scoring Scoring
}

// New returns an engine maximizing for ai.
func New(ai domain.Cell, opts ...Option) (*Engine, error) {
    if !ai.Valid() {
        return nil, domain.ErrInvalidPlayer
    }
    e := &Engine{ai: ai, human: ai.Opponent()}
    for _, opt := range opts {
        opt(e)
    }
    return e, nil
}

// AI returns the maximizing mark.
func (e *Engine) AI() domain.Cell { return e.ai }

// Scoring returns the configured scoring mode.
func (e *Engine) Scoring() Scoring { return e.scoring }

// BestMove returns the optimal cell for toMove on b. toMove may be either
// side: the AI maximizes, the human minimizes. b is never modified.
func (e *Engine) BestMove(b domain.Board, toMove domain.Cell) (Move, error) {
    if !toMove.Valid() {
        return Move{Index: -1}, domain.ErrInvalidPlayer
    }
    if domain.Terminal(b) {
        return Move{Index: -1}, ErrInvalidState
    }
    s := &search{Engine: e, board: b}
    m := s.minimax(toMove)
    m.Nodes = s.nodes
    return m, nil
}

// BestMove is shorthand for a flat-scoring engine playing as player.
func BestMove(b domain.Board, player domain.Cell) (Move, error) {
    e, err := New(player)
    if err != nil {
        return Move{Index: -1}, err
    }
    return e.BestMove(b, player)
}

// search owns a private copy of the board that is mutated and restored as the
// tree is walked.
type search struct {
    *Engine
    board domain.Board
    nodes int
}

func (s *search) minimax(player domain.Cell) Move {
    s.nodes++
    empty := domain.EmptyCells(s.board)

    if domain.CheckWin(s.board, s.human).Won {
        return Move{Index: -1, Score: s.terminal(LossScore, len(empty))}
    } else if domain.CheckWin(s.board, s.ai).Won {
        return Move{Index: -1, Score: s.terminal(WinScore, len(empty))}
    } else if len(empty) == 0 {
        return Move{Index: -1, Score: TieScore}
    }

    moves := make([]Move, 0, len(empty))
    for _, idx := range empty {
        s.board[idx] = player
        reply := s.minimax(player.Opponent())
        s.board[idx] = domain.Empty
        moves = append(moves, Move{Index: idx, Score: reply.Score})
    }
    return pick(moves, player == s.ai)
}

func (s *search) terminal(score, empty int) int {
    if s.scoring != DepthAware {
        return score
    }
    switch {
    case score > 0:
        return score + empty
    case score < 0:
        return score - empty
    }
    return score
}

// pick keeps the first candidate with the strictly best score.
func pick(moves []Move, maximize bool) Move {
    best := moves[0]
    for _, m := range moves[1:] {
        if (maximize && m.Score > best.Score) || (!maximize && m.Score < best.Score) {
            best = m
        }
    }
    return best
}
