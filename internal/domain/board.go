package domain

import (
    "errors"
    "fmt"
    "strings"
)

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Size is the number of cells on the board.
const Size = 9

// Board is a fixed 3x3 board stored row-major.
type Board [Size]Cell

// WinLine is a triple of board indices that wins when held by one player.
type WinLine [3]int

// WinLines lists every winning triple: rows top to bottom, columns left to
// right, then the two diagonals. CheckWin reports the first match in this order.
var WinLines = [8]WinLine{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// Outcome is the result of checking a board for one player.
type Outcome struct {
    Won       bool
    Player    Cell
    Line      WinLine
    LineIndex int
}

// NoWin is the Outcome for a player holding no complete line.
var NoWin = Outcome{LineIndex: -1}

// Errors returned by board operations.
var (
    ErrInvalidMove   = errors.New("invalid move")
    ErrOutOfBounds   = fmt.Errorf("%w: out of bounds", ErrInvalidMove)
    ErrOccupied      = fmt.Errorf("%w: cell occupied", ErrInvalidMove)
    ErrInvalidPlayer = fmt.Errorf("%w: invalid player", ErrInvalidMove)
    ErrInvalidBoard  = errors.New("invalid board")
)

// Opponent returns the other mark. Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

// Valid reports whether c is a player mark.
func (c Cell) Valid() bool { return c == X || c == O }

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// ParseCell reads a single cell. Empty accepts "", "E", "-", "_" and " ".
func ParseCell(s string) (Cell, error) {
    switch strings.ToUpper(s) {
    case "X":
        return X, nil
    case "O":
        return O, nil
    case "", "E", "-", "_", " ":
        return Empty, nil
    }
    return Empty, fmt.Errorf("%w: unknown cell %q", ErrInvalidBoard, s)
}

func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cell) UnmarshalText(b []byte) error {
    v, err := ParseCell(string(b))
    if err != nil {
        return err
    }
    *c = v
    return nil
}

// ParseBoard reads the nine-character notation produced by Board.String,
// e.g. "XX__O____". Whitespace between rows and '|' separators are ignored.
func ParseBoard(s string) (Board, error) {
    var b Board
    i := 0
    for _, r := range s {
        switch r {
        case '\n', '\t', '|', '/':
            continue
        }
        if i >= Size {
            return Board{}, fmt.Errorf("%w: more than %d cells", ErrInvalidBoard, Size)
        }
        c, err := ParseCell(string(r))
        if err != nil {
            return Board{}, err
        }
        b[i] = c
        i++
    }
    if i != Size {
        return Board{}, fmt.Errorf("%w: got %d cells, want %d", ErrInvalidBoard, i, Size)
    }
    return b, nil
}

func (b Board) String() string {
    var sb strings.Builder
    sb.Grow(Size)
    for _, c := range b {
        if c == Empty {
            sb.WriteByte('_')
            continue
        }
        sb.WriteString(c.String())
    }
    return sb.String()
}

// EmptyCells returns the indices of empty cells in ascending order.
func EmptyCells(b Board) []int {
    out := make([]int, 0, Size)
    for i, c := range b {
        if c == Empty {
            out = append(out, i)
        }
    }
    return out
}

// Moves returns how many marks have been placed.
func (b Board) Moves() int {
    n := 0
    for _, c := range b {
        if c != Empty {
            n++
        }
    }
    return n
}

// CheckWin returns the first line fully held by p, or NoWin.
func CheckWin(b Board, p Cell) Outcome {
    if !p.Valid() {
        return NoWin
    }
    for i, ln := range WinLines {
        if b[ln[0]] == p && b[ln[1]] == p && b[ln[2]] == p {
            return Outcome{Won: true, Player: p, Line: ln, LineIndex: i}
        }
    }
    return NoWin
}

// IsTie reports a full board with no winner. Check wins first: a full board
// can also be won.
func IsTie(b Board) bool {
    if len(EmptyCells(b)) != 0 {
        return false
    }
    return !CheckWin(b, X).Won && !CheckWin(b, O).Won
}

// Winner returns the winning outcome for either player, X checked first.
func Winner(b Board) Outcome {
    if o := CheckWin(b, X); o.Won {
        return o
    }
    return CheckWin(b, O)
}

// Terminal reports whether the game on b has ended.
func Terminal(b Board) bool {
    return Winner(b).Won || len(EmptyCells(b)) == 0
}

// Apply places p at idx. The board is left untouched on error.
func (b *Board) Apply(idx int, p Cell) error {
    if !p.Valid() {
        return ErrInvalidPlayer
    }
    if idx < 0 || idx >= Size {
        return ErrOutOfBounds
    }
    if b[idx] != Empty {
        return ErrOccupied
    }
    b[idx] = p
    return nil
}

// ApplyMove returns a copy of b with p placed at idx.
func ApplyMove(b Board, idx int, p Cell) (Board, error) {
    err := b.Apply(idx, p)
    return b, err
}
