package app

import (
    "context"
    "errors"
    "fmt"
    "io"
    "log"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/engine"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrNotYourTurn = errors.New("not your turn")
    ErrNotAPlayer  = errors.New("not a player")
)

// Config controls how new games are set up.
type Config struct {
    Human      domain.Cell
    HumanFirst bool
    Scoring    engine.Scoring
    Logger     *log.Logger
}

// DefaultConfig seats the human as O moving first against a flat-scoring AI.
func DefaultConfig() Config {
    return Config{Human: domain.O, HumanFirst: true, Scoring: engine.Flat}
}

// GameState is the in-memory state tracked per game.
type GameState struct {
    ID      string
    Game    domain.Game
    Player  string
    AIMove  engine.Move
    Created time.Time
    Updated time.Time
}

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers.
type Service struct {
    mu      sync.Mutex
    cfg     Config
    log     *log.Logger
    engines map[domain.Cell]*engine.Engine
    games   map[string]*GameState
    subs    map[string]map[*subscriber]struct{}
    render  func(GameState) []byte
}

// NewService creates a service with the default config and a renderer that encodes nothing.
func NewService() *Service { return NewServiceWithRenderer(nil) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
    return New(DefaultConfig(), renderer)
}

// New creates a service for cfg.
func New(cfg Config, renderer func(GameState) []byte) *Service {
    if !cfg.Human.Valid() {
        cfg.Human = domain.O
    }
    if renderer == nil {
        renderer = func(gs GameState) []byte { return nil }
    }
    logger := cfg.Logger
    if logger == nil {
        logger = log.New(io.Discard, "", 0)
    }
    s := &Service{
        cfg:     cfg,
        log:     logger,
        engines: make(map[domain.Cell]*engine.Engine, 2),
        games:   make(map[string]*GameState),
        subs:    make(map[string]map[*subscriber]struct{}),
        render:  renderer,
    }
    for _, ai := range []domain.Cell{domain.X, domain.O} {
        e, _ := engine.New(ai, engine.WithScoring(cfg.Scoring))
        s.engines[ai] = e
    }
    return s
}

// Config returns the settings new games are created with.
func (s *Service) Config() Config { return s.cfg }

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// CreateGame creates and registers a new game with the configured seats.
func (s *Service) CreateGame() (*GameState, error) {
    return s.CreateGameWith(s.cfg.Human, s.cfg.HumanFirst)
}

// CreateGameWith creates a game with an explicit human mark and move order.
// When the AI moves first its opening is played before returning.
func (s *Service) CreateGameWith(human domain.Cell, humanFirst bool) (*GameState, error) {
    g, err := domain.NewGame(human, humanFirst)
    if err != nil {
        return nil, err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    id := uuid.NewString()
    now := time.Now()
    gs := &GameState{ID: id, Game: g, AIMove: engine.Move{Index: -1}, Created: now, Updated: now}
    if err := s.aiTurnLocked(gs); err != nil {
        return nil, err
    }
    s.games[id] = gs
    cp := *gs
    return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// Join claims the human seat if it is free; returns Empty for spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return domain.Empty, nil, ErrNotFound
    }
    side := domain.Empty
    if gs.Player == "" || gs.Player == playerID {
        gs.Player = playerID
        side = gs.Game.Human
    }
    gs.Updated = time.Now()
    cp := *gs
    return side, &cp, nil
}

// Play validates the seat and turn, applies the human move, lets the AI
// reply when the game is still open, and broadcasts the result.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    // Validate player is seated
    if gs.Player != playerID {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    // Validate turn
    if !gs.Game.Over && !gs.Game.HumanToMove() {
        s.mu.Unlock()
        return nil, ErrNotYourTurn
    }
    // Apply move
    if err := gs.Game.Play(r, c); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    // the human move stands even when the AI cannot reply
    if err := s.aiTurnLocked(gs); err != nil {
        s.publishLocked(gs)
        return nil, err
    }
    return s.publishLocked(gs), nil
}

// Reset starts the game over with the same seats.
func (s *Service) Reset(id, playerID string) (*GameState, error) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if gs.Player != "" && gs.Player != playerID {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    gs.Game.Reset(s.cfg.HumanFirst)
    gs.AIMove = engine.Move{Index: -1}
    if err := s.aiTurnLocked(gs); err != nil {
        s.publishLocked(gs)
        return nil, err
    }
    return s.publishLocked(gs), nil
}

// aiTurnLocked plays the engine's move when the AI is to move.
func (s *Service) aiTurnLocked(gs *GameState) error {
    gs.Updated = time.Now()
    if gs.Game.Over || gs.Game.Turn != gs.Game.AI {
        return nil
    }
    m, err := s.engines[gs.Game.AI].BestMove(gs.Game.Board, gs.Game.AI)
    if err != nil {
        return fmt.Errorf("ai move: %w", err)
    }
    if err := gs.Game.PlayIndex(m.Index); err != nil {
        return fmt.Errorf("ai move %d: %w", m.Index, err)
    }
    gs.AIMove = m
    s.log.Printf("[app] game %s: ai %s played %d (score %d, %d nodes)", gs.ID, gs.Game.AI, m.Index, m.Score, m.Nodes)
    return nil
}

// publishLocked snapshots gs, releases the lock and fans the rendered state
// out to subscribers.
func (s *Service) publishLocked(gs *GameState) *GameState {
    var toDrop []*subscriber

    // Snapshot state and subscribers
    cp := *gs
    id := gs.ID
    subs := s.copySubsLocked(id)
    payload := s.render(cp)
    s.mu.Unlock()

    // Fan-out; drop slow subscribers by closing and marking for deletion
    for sub := range subs {
        select {
        case sub.ch <- payload:
        default:
            // drop slow subscriber
            sub.close()
            toDrop = append(toDrop, sub)
        }
    }
    if len(toDrop) > 0 {
        s.mu.Lock()
        for _, sub := range toDrop {
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
        }
        s.mu.Unlock()
    }
    return &cp
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
                if len(set) == 0 {
                    delete(s.subs, id)
                }
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}
