package main

import (
    "bytes"
    "strings"
    "testing"
)

func TestRunBestMove(t *testing.T) {
    var out bytes.Buffer
    if err := run([]string{"-board", "XX__O____", "-player", "X"}, &out); err != nil {
        t.Fatalf("run: %v", err)
    }
    if !strings.HasPrefix(out.String(), "index=2 score=10 ") {
        t.Fatalf("unexpected output %q", out.String())
    }
}

func TestRunBestMoveRejectsFinishedBoard(t *testing.T) {
    var out bytes.Buffer
    if err := run([]string{"-board", "XXXOO____"}, &out); err == nil {
        t.Fatalf("expected error for finished board")
    }
}

func TestRunSelfPlay(t *testing.T) {
    var out bytes.Buffer
    if err := run([]string{"-selfplay", "-scoring", "depth"}, &out); err != nil {
        t.Fatalf("run: %v", err)
    }
    lines := strings.Split(strings.TrimSpace(out.String()), "\n")
    if len(lines) != 10 || !strings.HasPrefix(lines[9], "tie: ") {
        t.Fatalf("expected nine plies and a tie, got %q", out.String())
    }
}

func TestRunRejectsBadFlags(t *testing.T) {
    var out bytes.Buffer
    if err := run([]string{"-scoring", "greedy", "-board", "_________"}, &out); err == nil {
        t.Fatalf("expected error for unknown scoring")
    }
    if err := run([]string{"-human", "Q"}, &out); err == nil {
        t.Fatalf("expected error for invalid human mark")
    }
}
