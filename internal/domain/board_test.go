package domain

import (
    "encoding/json"
    "errors"
    "reflect"
    "testing"
)

func mustBoard(t *testing.T, s string) Board {
    t.Helper()
    b, err := ParseBoard(s)
    if err != nil {
        t.Fatalf("ParseBoard(%q): %v", s, err)
    }
    return b
}

func TestEmptyCellsAscending(t *testing.T) {
    b := mustBoard(t, "XX__O____")
    got := EmptyCells(b)
    want := []int{2, 3, 5, 6, 7, 8}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("expected %v, got %v", want, got)
    }
    if n := len(EmptyCells(Board{})); n != 9 {
        t.Fatalf("expected 9 empty cells on new board, got %d", n)
    }
    if b.Moves() != 9-len(got) {
        t.Fatalf("moves %d does not match empty count %d", b.Moves(), len(got))
    }
}

func TestCheckWinEveryLine(t *testing.T) {
    for i, ln := range WinLines {
        var b Board
        for _, idx := range ln {
            b[idx] = O
        }
        o := CheckWin(b, O)
        if !o.Won || o.LineIndex != i || o.Line != ln || o.Player != O {
            t.Fatalf("line %d: unexpected outcome %+v", i, o)
        }
        if CheckWin(b, X).Won {
            t.Fatalf("line %d: X should not win", i)
        }
    }
}

func TestCheckWinReportsFirstLine(t *testing.T) {
    // row 0 and column 0 complete at once
    b := mustBoard(t, "XXXXO_X_X")
    o := CheckWin(b, X)
    if !o.Won || o.LineIndex != 0 {
        t.Fatalf("expected first line (row 0), got %+v", o)
    }
    b = mustBoard(t, "O_XOX_XO_")
    o = CheckWin(b, X)
    if !o.Won || o.Line != (WinLine{2, 4, 6}) {
        t.Fatalf("expected anti-diagonal, got %+v", o)
    }
}

func TestCheckWinNoWin(t *testing.T) {
    b := mustBoard(t, "XO_OX____")
    if o := CheckWin(b, X); o.Won || o.LineIndex != -1 {
        t.Fatalf("expected NoWin, got %+v", o)
    }
    if o := CheckWin(b, Empty); o.Won {
        t.Fatalf("Empty must never win, got %+v", o)
    }
}

func TestIsTie(t *testing.T) {
    cases := []struct {
        board string
        want  bool
    }{
        {"XOXXOOOXX", true},
        {"XOXXOO_XX", false}, // not full
        {"XXXOOXOXO", false}, // full and won by X
        {"OXXOXXOOX", false}, // full and won by both column O and column X
        {"_________", false},
    }
    for _, tc := range cases {
        if got := IsTie(mustBoard(t, tc.board)); got != tc.want {
            t.Fatalf("IsTie(%s) = %v, want %v", tc.board, got, tc.want)
        }
    }
}

func TestApplyRejectsInvalidMoves(t *testing.T) {
    b := mustBoard(t, "X________")
    before := b
    for _, idx := range []int{-1, 9, 42} {
        if err := b.Apply(idx, O); !errors.Is(err, ErrOutOfBounds) || !errors.Is(err, ErrInvalidMove) {
            t.Fatalf("idx %d: expected ErrOutOfBounds, got %v", idx, err)
        }
    }
    if err := b.Apply(0, O); !errors.Is(err, ErrOccupied) || !errors.Is(err, ErrInvalidMove) {
        t.Fatalf("expected ErrOccupied, got %v", err)
    }
    if err := b.Apply(1, Empty); !errors.Is(err, ErrInvalidMove) {
        t.Fatalf("expected ErrInvalidMove for Empty mark, got %v", err)
    }
    if b != before {
        t.Fatalf("board mutated on failed apply: %s", b)
    }
    if err := b.Apply(4, O); err != nil || b[4] != O {
        t.Fatalf("expected O at 4, err=%v board=%s", err, b)
    }
}

func TestApplyMoveReturnsCopy(t *testing.T) {
    var b Board
    next, err := ApplyMove(b, 8, X)
    if err != nil {
        t.Fatalf("ApplyMove: %v", err)
    }
    if b[8] != Empty || next[8] != X {
        t.Fatalf("expected copy semantics, original=%s next=%s", b, next)
    }
}

func TestWinsAreMutuallyExclusiveOnReachableBoards(t *testing.T) {
    // walk every reachable position with X moving first
    var walk func(b Board, turn Cell)
    seen := 0
    walk = func(b Board, turn Cell) {
        seen++
        x, o := CheckWin(b, X), CheckWin(b, O)
        if x.Won && o.Won {
            t.Fatalf("both players won on %s", b)
        }
        if x.Won || o.Won {
            return
        }
        for _, idx := range EmptyCells(b) {
            next, _ := ApplyMove(b, idx, turn)
            walk(next, turn.Opponent())
        }
    }
    walk(Board{}, X)
    if seen == 0 {
        t.Fatalf("no positions visited")
    }
}

func TestParseBoardAndString(t *testing.T) {
    b, err := ParseBoard("xo_|E-O|__x")
    if err != nil {
        t.Fatalf("ParseBoard: %v", err)
    }
    if got := b.String(); got != "XO___O__X" {
        t.Fatalf("unexpected String(): %q", got)
    }
    for _, bad := range []string{"XO", "XXXXXXXXXX", "XO?______"} {
        if _, err := ParseBoard(bad); !errors.Is(err, ErrInvalidBoard) {
            t.Fatalf("ParseBoard(%q): expected ErrInvalidBoard, got %v", bad, err)
        }
    }
}

func TestBoardJSON(t *testing.T) {
    var b Board
    if err := json.Unmarshal([]byte(`["X","X","E","","O","-","_"," ","o"]`), &b); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    if b.String() != "XX__O___O" {
        t.Fatalf("unexpected board %s", b)
    }
    out, err := json.Marshal(b)
    if err != nil {
        t.Fatalf("marshal: %v", err)
    }
    if string(out) != `["X","X","","","O","","","","O"]` {
        t.Fatalf("unexpected json %s", out)
    }
    if err := json.Unmarshal([]byte(`["Z","","","","","","","",""]`), &b); err == nil {
        t.Fatalf("expected error for unknown cell")
    }
}
