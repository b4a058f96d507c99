package domain

import "errors"

// Game holds the current state of a human versus AI match.
type Game struct {
    Board  Board
    Human  Cell
    AI     Cell
    Turn   Cell
    Winner Cell
    Line   Outcome
    Over   bool
    Tie    bool
    Moves  int
}

// ErrGameOver is returned when a move is played on a finished game.
var ErrGameOver = errors.New("game over")

// New returns a new game with the human playing O and moving first.
func New() Game {
    g, _ := NewGame(O, true)
    return g
}

// NewGame returns a fresh game where the human plays the given mark.
func NewGame(human Cell, humanFirst bool) (Game, error) {
    if !human.Valid() {
        return Game{}, ErrInvalidPlayer
    }
    g := Game{Human: human, AI: human.Opponent(), Line: NoWin}
    g.Turn = g.AI
    if humanFirst {
        g.Turn = g.Human
    }
    return g, nil
}

// Reset clears the board and keeps the seat assignment.
func (g *Game) Reset(humanFirst bool) {
    human := g.Human
    if !human.Valid() {
        human = O
    }
    *g, _ = NewGame(human, humanFirst)
}

// HumanToMove reports whether the game is waiting on the human.
func (g *Game) HumanToMove() bool { return !g.Over && g.Turn == g.Human }

// Play attempts to play the current turn at row r, column c (0..2).
func (g *Game) Play(r, c int) error {
    if g.Over {
        return ErrGameOver
    }
    if r < 0 || r > 2 || c < 0 || c > 2 {
        return ErrOutOfBounds
    }
    return g.PlayIndex(r*3 + c)
}

// PlayIndex plays the current turn at cell idx (0..8).
func (g *Game) PlayIndex(idx int) error {
    if g.Over {
        return ErrGameOver
    }
    if err := g.Board.Apply(idx, g.Turn); err != nil {
        return err
    }
    g.Moves++

    if o := CheckWin(g.Board, g.Turn); o.Won {
        g.Winner = g.Turn
        g.Line = o
        g.Over = true
        return nil
    }

    if IsTie(g.Board) {
        g.Winner = Empty
        g.Tie = true
        g.Over = true
        return nil
    }

    g.Turn = g.Turn.Opponent()
    return nil
}
