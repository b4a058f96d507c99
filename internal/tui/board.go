// Package tui plays a game against the engine in the terminal.
package tui

import (
    "fmt"

    "github.com/gdamore/tcell/v2"
    "github.com/mattn/go-runewidth"

    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/engine"
)

const (
    cellWidth  = 7
    cellHeight = 3
    padTop     = 3
    padLeft    = 2
    gridWidth  = 3*cellWidth + 4
    gridHeight = 3*cellHeight + 4
)

const (
    hozRune = '─'
    verRune = '│'
    crsRune = '┼'
)

// Board holds the terminal screen and the game being played on it.
type Board struct {
    screen     tcell.Screen
    style      tcell.Style
    engine     *engine.Engine
    game       domain.Game
    human      domain.Cell
    humanFirst bool
    cursor     int
    lastAI     engine.Move
    message    string
}

// New prepares a board on an initialised screen. The AI takes the mark
// opposite to human and opens the game when humanFirst is false.
func New(screen tcell.Screen, human domain.Cell, humanFirst bool, scoring engine.Scoring) (*Board, error) {
    if !human.Valid() {
        return nil, fmt.Errorf("human mark %q: %w", human, domain.ErrInvalidPlayer)
    }
    e, err := engine.New(human.Opponent(), engine.WithScoring(scoring))
    if err != nil {
        return nil, err
    }

    style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
    b := Board{
        screen:     screen,
        style:      style,
        engine:     e,
        human:      human,
        humanFirst: humanFirst,
    }
    if err := b.newGame(); err != nil {
        return nil, err
    }
    return &b, nil
}

// Game returns a copy of the current game.
func (b *Board) Game() domain.Game {
    return b.game
}

// Cursor returns the index of the highlighted cell.
func (b *Board) Cursor() int {
    return b.cursor
}

func (b *Board) newGame() error {
    g, err := domain.NewGame(b.human, b.humanFirst)
    if err != nil {
        return err
    }
    b.game = g
    b.cursor = 4
    b.lastAI = engine.Move{Index: -1}
    b.message = ""
    if !g.HumanToMove() {
        b.aiTurn()
    }
    b.draw()
    return nil
}

func (b *Board) aiTurn() {
    m, err := b.engine.BestMove(b.game.Board, b.game.AI)
    if err != nil {
        b.message = err.Error()
        return
    }
    if err := b.game.PlayIndex(m.Index); err != nil {
        b.message = err.Error()
        return
    }
    b.lastAI = m
}

// userTurn places the human mark under the cursor and lets the AI reply.
func (b *Board) userTurn() bool {
    if b.game.Over || !b.game.HumanToMove() {
        return false
    }
    if err := b.game.PlayIndex(b.cursor); err != nil {
        b.message = "That cell is taken"
        return false
    }
    b.message = ""
    if !b.game.Over {
        b.aiTurn()
    }
    return true
}

func (b *Board) moveCursor(dr, dc int) {
    r, c := b.cursor/3, b.cursor%3
    r = (r + dr + 3) % 3
    c = (c + dc + 3) % 3
    b.cursor = r*3 + c
}

// status describes the game from the human's point of view.
func (b *Board) status() string {
    g := b.game
    switch {
    case g.Tie:
        return "Tie game. Press n for a new game."
    case g.Over && g.Winner == g.Human:
        return "You win! Press n for a new game."
    case g.Over:
        return "AI wins. Press n for a new game."
    }
    return fmt.Sprintf("Your move (%s)", g.Human)
}

func (b *Board) cellStyle(idx int) tcell.Style {
    g := b.game
    style := b.style
    switch {
    case g.Tie:
        style = style.Foreground(tcell.ColorGreen)
    case g.Over && inLine(g.Line, idx):
        if g.Winner == g.Human {
            style = style.Foreground(tcell.ColorBlue)
        } else {
            style = style.Foreground(tcell.ColorRed)
        }
    }
    if idx == b.cursor && !g.Over {
        style = style.Reverse(true)
    }
    return style
}

func inLine(o domain.Outcome, idx int) bool {
    if !o.Won {
        return false
    }
    for _, i := range o.Line {
        if i == idx {
            return true
        }
    }
    return false
}

func (b *Board) draw() {
    b.screen.Clear()

    b.print(padLeft, 0, b.style, "Perfect Tic-Tac-Toe")
    b.print(padLeft, 1, b.style, "arrows/1-9 move  space/enter play  n new  q quit")

    for i := 1; i < 3; i++ {
        y := padTop + i*(cellHeight+1) - 1
        for x := padLeft; x < padLeft+3*cellWidth+2; x++ {
            r := hozRune
            if (x-padLeft+1)%(cellWidth+1) == 0 {
                r = crsRune
            }
            b.screen.SetContent(x, y, r, nil, b.style)
        }
        x := padLeft + i*(cellWidth+1) - 1
        for y := padTop; y < padTop+3*cellHeight+2; y++ {
            if (y-padTop+1)%(cellHeight+1) == 0 {
                continue
            }
            b.screen.SetContent(x, y, verRune, nil, b.style)
        }
    }

    for idx := 0; idx < domain.Size; idx++ {
        x, y := cellOrigin(idx)
        style := b.cellStyle(idx)
        for dy := 0; dy < cellHeight; dy++ {
            for dx := 0; dx < cellWidth; dx++ {
                b.screen.SetContent(x+dx, y+dy, ' ', nil, style)
            }
        }
        mark := " "
        if c := b.game.Board[idx]; c != domain.Empty {
            mark = c.String()
        }
        b.screen.SetContent(x+cellWidth/2, y+cellHeight/2, rune(mark[0]), nil, style)
    }

    y := padTop + gridHeight - 1
    b.print(padLeft, y, b.style, b.status())
    if b.lastAI.Index >= 0 {
        b.print(padLeft, y+1, b.style, fmt.Sprintf("AI played %d (score %d, %d positions)", b.lastAI.Index, b.lastAI.Score, b.lastAI.Nodes))
    }
    if b.message != "" {
        b.print(padLeft, y+2, b.style.Foreground(tcell.ColorYellow), b.message)
    }

    b.screen.Show()
}

func cellOrigin(idx int) (int, int) {
    return padLeft + (idx%3)*(cellWidth+1), padTop + (idx/3)*(cellHeight+1)
}

func (b *Board) print(x, y int, style tcell.Style, str string) {
    for _, c := range str {
        var comb []rune
        w := runewidth.RuneWidth(c)
        if w == 0 {
            comb = []rune{c}
            c = ' '
            w = 1
        }
        b.screen.SetContent(x, y, c, comb, style)
        x += w
    }
}
