package vellum

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Buffer is a 2D grid of cells, the paint target for a frame.
// Writes outside the buffer or outside an explicit clip rectangle are
// silently dropped, so controls never need their own bounds checks.
// A Buffer is owned by the paint pass; controls must not retain one.
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a buffer of the given dimensions filled with empty cells.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
	}
	b.Clear()
	return b
}

// Width returns the buffer width.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height.
func (b *Buffer) Height() int {
	return b.height
}

// Bounds returns the buffer's full area as a rectangle at the origin.
func (b *Buffer) Bounds() Rect {
	return Rect{W: b.width, H: b.height}
}

// InBounds returns true if the given coordinates are within the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) int {
	return y*b.width + x
}

// Get returns the cell at the given coordinates, or an empty cell if
// out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[b.index(x, y)]
}

// Set writes the cell at the given coordinates. Out-of-bounds writes
// are no-ops.
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.InBounds(x, y) {
		return
	}
	b.cells[b.index(x, y)] = c
}

// SetClipped writes the cell only if the position lies inside clip.
func (b *Buffer) SetClipped(x, y int, c Cell, clip Rect) {
	if !clip.Contains(x, y) {
		return
	}
	b.Set(x, y, c)
}

// Fill fills the entire buffer with the given cell.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Clear resets the buffer to empty cells with default style.
func (b *Buffer) Clear() {
	b.Fill(EmptyCell())
}

// FillRect fills a rectangular region, clipped to the buffer.
func (b *Buffer) FillRect(r Rect, c Cell) {
	r = r.Intersect(b.Bounds())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			b.cells[b.index(x, y)] = c
		}
	}
}

// FillRectClipped fills the intersection of r and clip.
func (b *Buffer) FillRectClipped(r, clip Rect, c Cell) {
	b.FillRect(r.Intersect(clip), c)
}

// WriteString writes a string starting at the given coordinates.
// Wide runes occupy two cells; the continuation cell holds a zero rune
// so the renderer knows to skip it. Returns the number of cells covered.
func (b *Buffer) WriteString(x, y int, s string, style Style) int {
	return b.WriteStringClipped(x, y, s, style, b.Bounds())
}

// WriteStringClipped writes a string, dropping cells outside clip.
// Returns the number of cells covered (including clipped ones), so
// callers can continue layout math regardless of clipping.
func (b *Buffer) WriteStringClipped(x, y int, s string, style Style, clip Rect) int {
	covered := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		b.SetClipped(x, y, NewCell(r, style), clip)
		if w == 2 {
			b.SetClipped(x+1, y, Cell{Rune: 0, Style: style}, clip)
		}
		x += w
		covered += w
	}
	return covered
}

// HLine draws a horizontal run of the given rune.
func (b *Buffer) HLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x+i, y, NewCell(r, style))
	}
}

// VLine draws a vertical run of the given rune.
func (b *Buffer) VLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x, y+i, NewCell(r, style))
	}
}

// Box drawing characters.
const (
	BoxHorizontal  = '─'
	BoxVertical    = '│'
	BoxTopLeft     = '┌'
	BoxTopRight    = '┐'
	BoxBottomLeft  = '└'
	BoxBottomRight = '┘'
)

// BorderStyle defines the characters used for drawing borders.
type BorderStyle struct {
	Horizontal  rune
	Vertical    rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

// BorderSingle is the standard single-line border.
var BorderSingle = BorderStyle{
	Horizontal:  BoxHorizontal,
	Vertical:    BoxVertical,
	TopLeft:     BoxTopLeft,
	TopRight:    BoxTopRight,
	BottomLeft:  BoxBottomLeft,
	BottomRight: BoxBottomRight,
}

// DrawBorder draws a border just inside the given rectangle.
func (b *Buffer) DrawBorder(r Rect, border BorderStyle, style Style) {
	if r.W < 2 || r.H < 2 {
		return
	}
	b.Set(r.X, r.Y, NewCell(border.TopLeft, style))
	b.Set(r.Right()-1, r.Y, NewCell(border.TopRight, style))
	b.Set(r.X, r.Bottom()-1, NewCell(border.BottomLeft, style))
	b.Set(r.Right()-1, r.Bottom()-1, NewCell(border.BottomRight, style))
	b.HLine(r.X+1, r.Y, r.W-2, border.Horizontal, style)
	b.HLine(r.X+1, r.Bottom()-1, r.W-2, border.Horizontal, style)
	b.VLine(r.X, r.Y+1, r.H-2, border.Vertical, style)
	b.VLine(r.Right()-1, r.Y+1, r.H-2, border.Vertical, style)
}

// Resize changes the buffer dimensions, preserving content where it fits.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == b.width && height == b.height {
		return
	}

	cells := make([]Cell, width*height)
	empty := EmptyCell()
	for i := range cells {
		cells[i] = empty
	}

	minW := minInt(width, b.width)
	minH := minInt(height, b.height)
	for y := 0; y < minH; y++ {
		copy(cells[y*width:y*width+minW], b.cells[y*b.width:y*b.width+minW])
	}

	b.cells = cells
	b.width = width
	b.height = height
}

// Line returns one row's runes as a string with trailing spaces trimmed.
// Intended for tests and debugging.
func (b *Buffer) Line(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		r := b.cells[b.index(x, y)].Rune
		if r == 0 {
			continue // wide-rune continuation
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

// String returns the buffer contents row by row, trailing spaces trimmed.
func (b *Buffer) String() string {
	lines := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		lines[y] = b.Line(y)
	}
	return strings.Join(lines, "\n")
}
