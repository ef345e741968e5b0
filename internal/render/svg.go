// Package render draws board diagrams as SVG.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/nocturn9x/heimdall-sub003/internal/board"
)

// Square and overlay styles.
const (
	lightFill   = "fill:#f0d9b5"
	darkFill    = "fill:#b58863"
	moveFill    = "fill:#cdd26a;fill-opacity:0.5"
	checkFill   = "fill:#e06666;fill-opacity:0.6"
	labelStyle  = "font-family:sans-serif;font-size:%dpx;fill:#555555"
	pieceStyle  = "font-size:%dpx;text-anchor:middle"
	borderStyle = "fill:none;stroke:#403830;stroke-width:2"
)

// glyphs holds the Unicode chess figurines, indexed by Piece.
var glyphs = [12]string{
	"♙", "♘", "♗", "♖", "♕", "♔", // white
	"♟", "♞", "♝", "♜", "♛", "♚", // black
}

// Options configure a board diagram.
type Options struct {
	SquareSize int        // pixel size of one square
	Flipped    bool       // render from Black's point of view
	Coords     bool       // draw file and rank labels
	LastMove   board.Move // squares to highlight, NoMove for none
}

// DefaultOptions returns a 64px board with coordinates, White at the
// bottom.
func DefaultOptions() Options {
	return Options{SquareSize: 64, Coords: true, LastMove: board.NoMove}
}

// Board writes an SVG diagram of pos to w. The side to move's king square
// is marked when the position is check.
func Board(w io.Writer, pos *board.Position, opts Options) {
	sz := opts.SquareSize
	if sz <= 0 {
		sz = 64
	}
	margin := 0
	if opts.Coords {
		margin = sz / 2
	}
	total := 8*sz + 2*margin

	canvas := svg.New(w)
	canvas.Start(total, total)
	canvas.Title(pos.ToFEN())

	for sq := board.A1; sq < board.NoSquare; sq++ {
		x, y := squareXY(sq, sz, margin, opts.Flipped)
		fill := lightFill
		if (int(sq.File())+int(sq.Rank()))%2 == 0 {
			fill = darkFill
		}
		canvas.Rect(x, y, sz, sz, fill)
	}
	canvas.Rect(margin, margin, 8*sz, 8*sz, borderStyle)

	if m := opts.LastMove; m != board.NoMove {
		for _, sq := range []board.Square{m.From(), m.To()} {
			x, y := squareXY(sq, sz, margin, opts.Flipped)
			canvas.Rect(x, y, sz, sz, moveFill)
		}
	}
	if pos.Checkers != 0 {
		ksq := pos.KingSquare[pos.SideToMove]
		x, y := squareXY(ksq, sz, margin, opts.Flipped)
		canvas.Circle(x+sz/2, y+sz/2, sz*2/5, checkFill)
	}

	for sq := board.A1; sq < board.NoSquare; sq++ {
		p := pos.Mailbox[sq]
		if p == board.NoPiece {
			continue
		}
		x, y := squareXY(sq, sz, margin, opts.Flipped)
		canvas.Text(x+sz/2, y+sz*4/5, glyphs[p], fmt.Sprintf(pieceStyle, sz*3/4))
	}

	if opts.Coords {
		drawCoords(canvas, sz, margin, opts.Flipped)
	}
	canvas.End()
}

// BoardFile renders pos into an SVG file at path.
func BoardFile(path string, pos *board.Position, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create diagram: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	Board(bw, pos, opts)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write diagram: %w", err)
	}
	return f.Close()
}

// squareXY maps a square to the top-left pixel of its cell.
func squareXY(sq board.Square, sz, margin int, flipped bool) (int, int) {
	f, r := int(sq.File()), int(sq.Rank())
	if flipped {
		f = 7 - f
	} else {
		r = 7 - r
	}
	return margin + f*sz, margin + r*sz
}

func drawCoords(canvas *svg.SVG, sz, margin int, flipped bool) {
	style := fmt.Sprintf(labelStyle, sz/4)
	for i := 0; i < 8; i++ {
		file, rank := i, i
		if flipped {
			file, rank = 7-i, 7-i
		}
		canvas.Text(margin+i*sz+sz/2-sz/16, margin+8*sz+margin*3/4,
			string(rune('a'+file)), style)
		canvas.Text(margin/4, margin+(7-i)*sz+sz/2+sz/16,
			string(rune('1'+rank)), style)
	}
}
