// Command tictactoe-tui plays the engine in the terminal.
package main

import (
    "flag"
    "fmt"
    "log"

    "github.com/gdamore/tcell/v2"

    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/engine"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/tui"
)

func main() {
    if err := run(); err != nil {
        log.Fatal(err)
    }
}

func run() error {
    human := flag.String("human", "O", "mark played by the human")
    aiFirst := flag.Bool("ai-first", false, "let the AI open every game")
    scoringFlag := flag.String("scoring", "flat", "terminal scoring: flat or depth")
    flag.Parse()

    mark, err := domain.ParseCell(*human)
    if err != nil || !mark.Valid() {
        return fmt.Errorf("invalid -human %q", *human)
    }
    scoring, err := engine.ParseScoring(*scoringFlag)
    if err != nil {
        return err
    }

    tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)
    screen, err := tcell.NewScreen()
    if err != nil {
        return fmt.Errorf("new screen: %w", err)
    }
    if err := screen.Init(); err != nil {
        return fmt.Errorf("screen init: %w", err)
    }
    defer screen.Fini()

    board, err := tui.New(screen, mark, !*aiFirst, scoring)
    if err != nil {
        return err
    }
    board.Run()
    return nil
}
