// Package tui draws a chain reaction round in a terminal with tcell.
//
// The field is continuous; Board scales it onto the screen grid, leaving the
// bottom row for a status line. Board implements replay.Sink so a round can
// be replayed straight onto the screen.
package tui

import (
	"math"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/chainreaction/internal/field"
	"github.com/robalobadob/chainreaction/internal/geom"
)

const mineRune = '●'

var (
	armedStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	pendingStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	detonatedStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle    = tcell.StyleDefault.Reverse(true)
)

// Board maps field coordinates to screen cells.
type Board struct {
	screen        tcell.Screen
	width, height float64
}

// NewBoard returns a board for a width×height field drawn on s.
func NewBoard(s tcell.Screen, width, height float64) *Board {
	return &Board{screen: s, width: width, height: height}
}

// grid is the drawable area: the whole screen minus the status row.
func (b *Board) grid() (cols, rows int) {
	w, h := b.screen.Size()
	return max(w, 1), max(h-1, 1)
}

// Cell returns the screen cell that loc falls in.
func (b *Board) Cell(loc geom.Location) (x, y int) {
	cols, rows := b.grid()
	x = int(loc.X / b.width * float64(cols))
	y = int(loc.Y / b.height * float64(rows))
	return min(max(x, 0), cols-1), min(max(y, 0), rows-1)
}

// Location returns the field point at the centre of cell (x, y).
func (b *Board) Location(x, y int) geom.Location {
	cols, rows := b.grid()
	return geom.Location{
		X: (float64(x) + 0.5) * b.width / float64(cols),
		Y: (float64(y) + 0.5) * b.height / float64(rows),
	}
}

// MineAt returns the mine drawn in cell (x, y), preferring the one closest
// to the cell centre when several share it.
func (b *Board) MineAt(s field.Store, x, y int) (geom.Location, bool) {
	cols, rows := b.grid()
	centre := b.Location(x, y)
	halfDiag := math.Hypot(b.width/float64(cols), b.height/float64(rows))/2 + 1e-9
	for _, m := range s.NearestWithin(centre, halfDiag) {
		if mx, my := b.Cell(m); mx == x && my == y {
			return m, true
		}
	}
	return geom.Location{}, false
}

func (b *Board) RenderArmed(loc geom.Location) {
	x, y := b.Cell(loc)
	b.screen.SetContent(x, y, mineRune, nil, armedStyle)
}

func (b *Board) RenderPending(loc geom.Location) {
	x, y := b.Cell(loc)
	b.screen.SetContent(x, y, mineRune, nil, pendingStyle)
}

// RenderDetonated writes the points the mine scored, clipped at the edge.
func (b *Board) RenderDetonated(loc geom.Location, value int) {
	x, y := b.Cell(loc)
	cols, _ := b.grid()
	for i, r := range strconv.Itoa(value) {
		if x+i >= cols {
			break
		}
		b.screen.SetContent(x+i, y, r, nil, detonatedStyle)
	}
}

func (b *Board) Refresh() { b.screen.Show() }

// Status replaces the bottom line.
func (b *Board) Status(text string) {
	w, h := b.screen.Size()
	row := h - 1
	for x := 0; x < w; x++ {
		b.screen.SetContent(x, row, ' ', nil, statusStyle)
	}
	for i, r := range []rune(text) {
		if i >= w {
			break
		}
		b.screen.SetContent(i, row, r, nil, statusStyle)
	}
}
