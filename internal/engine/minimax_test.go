package engine

import (
    "errors"
    "testing"

    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
)

func mustBoard(t *testing.T, s string) domain.Board {
    t.Helper()
    b, err := domain.ParseBoard(s)
    if err != nil {
        t.Fatalf("ParseBoard(%q): %v", s, err)
    }
    return b
}

func mustEngine(t *testing.T, ai domain.Cell, opts ...Option) *Engine {
    t.Helper()
    e, err := New(ai, opts...)
    if err != nil {
        t.Fatalf("New: %v", err)
    }
    return e
}

func TestBestMoveCompletesOwnLine(t *testing.T) {
    e := mustEngine(t, domain.X)
    m, err := e.BestMove(mustBoard(t, "XX__O____"), domain.X)
    if err != nil {
        t.Fatalf("BestMove: %v", err)
    }
    if m.Index != 2 || m.Score != WinScore {
        t.Fatalf("expected index 2 score 10, got %+v", m)
    }
}

func TestBestMoveBlocksOpponentRow(t *testing.T) {
    // index 2 blocks row 0 and also forks 5 and 6, so the flat score is a
    // win even though 5 wins on the spot
    b := mustBoard(t, "OO_XX____")
    m, err := mustEngine(t, domain.X).BestMove(b, domain.X)
    if err != nil {
        t.Fatalf("BestMove: %v", err)
    }
    if m.Index != 2 || m.Score != WinScore {
        t.Fatalf("expected index 2 score 10, got %+v", m)
    }

    m, err = mustEngine(t, domain.X, WithScoring(DepthAware)).BestMove(b, domain.X)
    if err != nil {
        t.Fatalf("BestMove depth-aware: %v", err)
    }
    if m.Index != 5 || m.Score != WinScore+4 {
        t.Fatalf("expected depth-aware engine to win at once on 5, got %+v", m)
    }
}

func TestBestMoveEmptyBoardIsTie(t *testing.T) {
    m, err := mustEngine(t, domain.X).BestMove(domain.Board{}, domain.X)
    if err != nil {
        t.Fatalf("BestMove: %v", err)
    }
    if m.Score != TieScore || m.Index != 0 {
        t.Fatalf("expected first optimal cell 0 with score 0, got %+v", m)
    }
    if m.Nodes != 549946 {
        t.Fatalf("expected full tree of 549946 nodes, got %d", m.Nodes)
    }
}

func TestBestMoveMinimizingSideBlocks(t *testing.T) {
    // human O must take 8 or X completes row 2
    m, err := mustEngine(t, domain.X).BestMove(mustBoard(t, "____O_XX_"), domain.O)
    if err != nil {
        t.Fatalf("BestMove: %v", err)
    }
    if m.Index != 8 || m.Score != TieScore {
        t.Fatalf("expected human block at 8 with score 0, got %+v", m)
    }
}

func TestBestMoveLeavesBoardUntouched(t *testing.T) {
    b := mustBoard(t, "X___O____")
    before := b
    if _, err := mustEngine(t, domain.X).BestMove(b, domain.X); err != nil {
        t.Fatalf("BestMove: %v", err)
    }
    if b != before {
        t.Fatalf("board changed: before %s after %s", before, b)
    }
}

func TestBestMoveRejectsFinishedBoards(t *testing.T) {
    e := mustEngine(t, domain.X)
    for _, s := range []string{"XXXOO____", "XOXXOOOXX", "OOOXX_X__"} {
        m, err := e.BestMove(mustBoard(t, s), domain.X)
        if !errors.Is(err, ErrInvalidState) {
            t.Fatalf("%s: expected ErrInvalidState, got %v", s, err)
        }
        if m.Index != -1 {
            t.Fatalf("%s: expected no move, got %+v", s, m)
        }
    }
    if _, err := e.BestMove(domain.Board{}, domain.Empty); !errors.Is(err, domain.ErrInvalidPlayer) {
        t.Fatalf("expected ErrInvalidPlayer, got %v", err)
    }
    if _, err := New(domain.Empty); !errors.Is(err, domain.ErrInvalidPlayer) {
        t.Fatalf("expected ErrInvalidPlayer from New, got %v", err)
    }
}

func TestPackageBestMovePlaysAsGivenPlayer(t *testing.T) {
    m, err := BestMove(mustBoard(t, "OO_XX____"), domain.O)
    if err != nil {
        t.Fatalf("BestMove: %v", err)
    }
    if m.Index != 2 || m.Score != WinScore {
        t.Fatalf("expected O to complete row 0, got %+v", m)
    }
}

func TestPickFirstEncounteredOnTies(t *testing.T) {
    moves := []Move{{Index: 1, Score: 0}, {Index: 3, Score: 10}, {Index: 5, Score: 10}, {Index: 7, Score: -10}, {Index: 8, Score: -10}}
    if got := pick(moves, true); got.Index != 3 {
        t.Fatalf("maximize: expected 3, got %+v", got)
    }
    if got := pick(moves, false); got.Index != 7 {
        t.Fatalf("minimize: expected 7, got %+v", got)
    }
}

func TestParseScoring(t *testing.T) {
    for in, want := range map[string]Scoring{"": Flat, "flat": Flat, "depth": DepthAware, "depth-aware": DepthAware} {
        got, err := ParseScoring(in)
        if err != nil || got != want {
            t.Fatalf("ParseScoring(%q) = %v, %v", in, got, err)
        }
    }
    if _, err := ParseScoring("greedy"); err == nil {
        t.Fatalf("expected error for unknown scoring")
    }
}

// reachable returns every non-terminal position reachable from an empty
// board with X moving first, keyed to the side to move.
func reachable() map[domain.Board]domain.Cell {
    out := make(map[domain.Board]domain.Cell)
    var walk func(b domain.Board, turn domain.Cell)
    walk = func(b domain.Board, turn domain.Cell) {
        if domain.Terminal(b) {
            return
        }
        if _, ok := out[b]; ok {
            return
        }
        out[b] = turn
        for _, idx := range domain.EmptyCells(b) {
            next, _ := domain.ApplyMove(b, idx, turn)
            walk(next, turn.Opponent())
        }
    }
    walk(domain.Board{}, domain.X)
    return out
}

func TestBestMoveOnEveryReachablePosition(t *testing.T) {
    if testing.Short() {
        t.Skip("exhaustive walk")
    }
    flat := mustEngine(t, domain.X)
    depth := mustEngine(t, domain.X, WithScoring(DepthAware))
    for b, turn := range reachable() {
        before := b
        m, err := flat.BestMove(b, turn)
        if err != nil {
            t.Fatalf("%s: %v", b, err)
        }
        if m.Index < 0 || m.Index >= domain.Size || b[m.Index] != domain.Empty {
            t.Fatalf("%s: move %d is not an empty cell", b, m.Index)
        }
        if b != before {
            t.Fatalf("%s: board mutated", before)
        }
        again, _ := flat.BestMove(b, turn)
        if again != m {
            t.Fatalf("%s: nondeterministic result %+v then %+v", b, m, again)
        }
        d, err := depth.BestMove(b, turn)
        if err != nil {
            t.Fatalf("%s depth: %v", b, err)
        }
        if sign(d.Score) != sign(m.Score) {
            t.Fatalf("%s: depth-aware value %d disagrees with flat value %d", b, d.Score, m.Score)
        }
    }
}

func sign(v int) int {
    switch {
    case v > 0:
        return 1
    case v < 0:
        return -1
    }
    return 0
}
