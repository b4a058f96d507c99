// Command tictactoe serves the perfect-play tic-tac-toe engine over HTTP, or
// answers a single position from the command line.
package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strconv"
    "syscall"
    "time"

    "github.com/jaminalder/perfect-tic-tac-toe/internal/app"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/engine"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/web"
)

type config struct {
    addr     string
    scoring  string
    human    string
    aiFirst  bool
    board    string
    player   string
    selfPlay bool
}

func envOr(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseFlags(args []string) (config, error) {
    var cfg config
    aiFirst, _ := strconv.ParseBool(envOr("TTT_AI_FIRST", "false"))

    fs := flag.NewFlagSet("tictactoe", flag.ContinueOnError)
    fs.StringVar(&cfg.addr, "addr", envOr("TTT_ADDR", ":8080"), "http service address")
    fs.StringVar(&cfg.scoring, "scoring", envOr("TTT_SCORING", "flat"), "terminal scoring: flat or depth")
    fs.StringVar(&cfg.human, "human", envOr("TTT_HUMAN", "O"), "mark played by the human in new games")
    fs.BoolVar(&cfg.aiFirst, "ai-first", aiFirst, "let the AI open new games")
    fs.StringVar(&cfg.board, "board", "", "print the best move for this board (e.g. XX__O____) and exit")
    fs.StringVar(&cfg.player, "player", "X", "side to move for -board and first mover for -selfplay")
    fs.BoolVar(&cfg.selfPlay, "selfplay", false, "play the engine against itself from -board (or empty) and exit")
    if err := fs.Parse(args); err != nil {
        return cfg, err
    }
    return cfg, nil
}

func main() {
    if err := run(os.Args[1:], os.Stdout); err != nil {
        if errors.Is(err, flag.ErrHelp) {
            return
        }
        log.Fatal(err)
    }
}

func run(args []string, out io.Writer) error {
    cfg, err := parseFlags(args)
    if err != nil {
        return err
    }
    scoring, err := engine.ParseScoring(cfg.scoring)
    if err != nil {
        return err
    }

    switch {
    case cfg.selfPlay:
        return selfPlay(cfg, scoring, out)
    case cfg.board != "":
        return bestMove(cfg, scoring, out)
    }

    human, err := domain.ParseCell(cfg.human)
    if err != nil || !human.Valid() {
        return fmt.Errorf("invalid -human %q", cfg.human)
    }
    svc := app.New(app.Config{
        Human:      human,
        HumanFirst: !cfg.aiFirst,
        Scoring:    scoring,
        Logger:     log.Default(),
    }, nil)
    return serve(cfg.addr, web.NewServer(svc))
}

func bestMove(cfg config, scoring engine.Scoring, out io.Writer) error {
    b, err := domain.ParseBoard(cfg.board)
    if err != nil {
        return err
    }
    player, err := domain.ParseCell(cfg.player)
    if err != nil {
        return err
    }
    e, err := engine.New(player, engine.WithScoring(scoring))
    if err != nil {
        return err
    }
    m, err := e.BestMove(b, player)
    if err != nil {
        return fmt.Errorf("best move for %s: %w", b, err)
    }
    fmt.Fprintf(out, "index=%d score=%d nodes=%d\n", m.Index, m.Score, m.Nodes)
    return nil
}

func selfPlay(cfg config, scoring engine.Scoring, out io.Writer) error {
    var b domain.Board
    if cfg.board != "" {
        var err error
        if b, err = domain.ParseBoard(cfg.board); err != nil {
            return err
        }
    }
    first, err := domain.ParseCell(cfg.player)
    if err != nil {
        return err
    }
    e, err := engine.New(domain.X, engine.WithScoring(scoring))
    if err != nil {
        return err
    }
    p, err := engine.SelfPlay(e, b, first)
    if err != nil {
        return err
    }
    for _, ply := range p.Plies {
        fmt.Fprintf(out, "%s -> %d (score %d)\n", ply.Player, ply.Index, ply.Score)
    }
    switch {
    case p.Tie:
        fmt.Fprintf(out, "tie: %s\n", p.Final)
    case p.Outcome.Won:
        fmt.Fprintf(out, "%s wins on %v: %s\n", p.Outcome.Player, p.Outcome.Line, p.Final)
    }
    return nil
}

func serve(addr string, handler http.Handler) error {
    server := &http.Server{
        Addr:              addr,
        Handler:           handler,
        ReadHeaderTimeout: 5 * time.Second,
    }
    serverErrCh := make(chan error, 1)
    go func() {
        if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            serverErrCh <- err
        }
        close(serverErrCh)
    }()

    sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stopSignals()

    log.Printf("[server] listening on %s", addr)
    var runErr error
    select {
    case <-sigCtx.Done():
        log.Printf("[server] shutdown signal received: %v", sigCtx.Err())
    case err, ok := <-serverErrCh:
        if ok {
            runErr = err
            log.Printf("[server] server error: %v", err)
        }
    }

    shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancelShutdown()
    if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
        log.Printf("[server] graceful shutdown failed: %v", err)
        if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
            log.Printf("[server] forced close failed: %v", closeErr)
        }
    }
    return runErr
}
