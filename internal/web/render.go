package web

import (
    "bytes"

    "github.com/fogleman/gg"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
)

const (
    imgCell   = 60
    imgMargin = 10
    imgSize   = 3*imgCell + 2*imgMargin
)

// renderPNG draws the board. Cells of a winning line are tinted blue for a
// human win and red for an AI win; a tie tints every cell green.
func renderPNG(g domain.Game) ([]byte, error) {
    dc := gg.NewContext(imgSize, imgSize)
    dc.SetRGB(1, 1, 1)
    dc.Clear()

    for i := 0; i < domain.Size; i++ {
        x := float64(imgMargin + (i%3)*imgCell)
        y := float64(imgMargin + (i/3)*imgCell)

        switch highlight(g, i) {
        case "blue":
            dc.SetRGB(0.6, 0.7, 1)
        case "red":
            dc.SetRGB(1, 0.6, 0.6)
        case "green":
            dc.SetRGB(0.6, 1, 0.6)
        default:
            dc.SetRGB(1, 1, 1)
        }
        dc.DrawRectangle(x, y, imgCell, imgCell)
        dc.Fill()

        pad := float64(imgCell) / 5
        dc.SetLineWidth(6)
        switch g.Board[i] {
        case domain.X:
            dc.SetRGB(0.1, 0.1, 0.1)
            dc.DrawLine(x+pad, y+pad, x+imgCell-pad, y+imgCell-pad)
            dc.DrawLine(x+imgCell-pad, y+pad, x+pad, y+imgCell-pad)
            dc.Stroke()
        case domain.O:
            dc.SetRGB(0.1, 0.1, 0.1)
            dc.DrawCircle(x+imgCell/2, y+imgCell/2, imgCell/2-pad)
            dc.Stroke()
        }
    }

    // grid
    dc.SetRGB(0.3, 0.3, 0.3)
    dc.SetLineWidth(2)
    for k := 0; k <= 3; k++ {
        p := float64(imgMargin + k*imgCell)
        dc.DrawLine(p, imgMargin, p, imgMargin+3*imgCell)
        dc.DrawLine(imgMargin, p, imgMargin+3*imgCell, p)
    }
    dc.Stroke()

    var b bytes.Buffer
    if err := dc.EncodePNG(&b); err != nil {
        return nil, err
    }
    return b.Bytes(), nil
}
