package tui

import (
    "github.com/gdamore/tcell/v2"
)

// Run polls terminal events until the player quits or the screen is
// finalised. This is a blocking call.
func (b *Board) Run() {
    for {
        ev := b.screen.PollEvent()
        switch ev := ev.(type) {
        case nil:
            return
        case *tcell.EventResize:
            b.screen.Sync()
            b.draw()
        case *tcell.EventKey:
            if b.handleKey(ev) {
                return
            }
        }
    }
}

// handleKey applies one key press and reports whether the player quit.
func (b *Board) handleKey(ev *tcell.EventKey) bool {
    switch ev.Key() {
    case tcell.KeyEscape, tcell.KeyCtrlC:
        return true
    case tcell.KeyUp:
        b.moveCursor(-1, 0)
    case tcell.KeyDown:
        b.moveCursor(1, 0)
    case tcell.KeyLeft:
        b.moveCursor(0, -1)
    case tcell.KeyRight:
        b.moveCursor(0, 1)
    case tcell.KeyEnter:
        if !b.userTurn() {
            b.screen.Beep()
        }
    case tcell.KeyRune:
        switch r := ev.Rune(); {
        case r == 'q':
            return true
        case r == 'n':
            if err := b.newGame(); err != nil {
                b.message = err.Error()
            }
        case r == ' ':
            if !b.userTurn() {
                b.screen.Beep()
            }
        case r >= '1' && r <= '9':
            b.cursor = int(r - '1')
        }
    }
    b.draw()
    return false
}
