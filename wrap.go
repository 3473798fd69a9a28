package vellum

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapMode selects how the editor projects source lines into visual rows.
type WrapMode uint8

const (
	// NoWrap shows each source line as one row; horizontal scrolling
	// applies.
	NoWrap WrapMode = iota
	// CharWrap breaks a row at every width boundary.
	CharWrap
	// WordWrap breaks at the last space before the width boundary,
	// force-breaking unbroken runs longer than the width.
	WordWrap
)

// WrappedLine is one visual row produced by projecting a source line
// under a width and wrap mode. It is the single source of truth for
// paint, cursor placement and scrolling; nothing else re-derives
// wrapping.
type WrappedLine struct {
	Line   int    // source line index
	Offset int    // rune offset of the row start within the source line
	Text   string // the row's text
}

// Len returns the row length in runes.
func (w WrappedLine) Len() int {
	return len([]rune(w.Text))
}

// wrapLine projects a single source line into one or more visual rows.
// Width is in display cells; an empty line yields exactly one
// zero-length row so blank lines stay navigable and visible.
func wrapLine(lineIdx int, line string, width int, mode WrapMode) []WrappedLine {
	if width < 1 {
		width = 1
	}
	runes := []rune(line)
	if len(runes) == 0 || mode == NoWrap {
		return []WrappedLine{{Line: lineIdx, Offset: 0, Text: line}}
	}

	var rows []WrappedLine
	offset := 0
	for offset < len(runes) {
		end := breakPoint(runes[offset:], width, mode)
		rows = append(rows, WrappedLine{
			Line:   lineIdx,
			Offset: offset,
			Text:   string(runes[offset : offset+end]),
		})
		offset += end
	}
	return rows
}

// breakPoint returns how many runes of rest fit on one row.
func breakPoint(rest []rune, width int, mode WrapMode) int {
	cells := 0
	fit := 0
	for i, r := range rest {
		w := runewidth.RuneWidth(r)
		if cells+w > width {
			break
		}
		cells += w
		fit = i + 1
	}
	if fit == 0 {
		fit = 1 // a rune wider than the row still has to go somewhere
	}
	if fit == len(rest) || mode == CharWrap {
		return fit
	}

	// Word wrap: scan backward for the last space inside the fitted run
	// and break after it. A run with no space force-breaks at the width.
	for i := fit - 1; i >= 0; i-- {
		if rest[i] == ' ' {
			return i + 1
		}
	}
	return fit
}

// wrapCache is the memoized projection of a document under one
// (revision, width, mode) key. Any content, width or mode change
// invalidates it wholesale; there is no incremental patching.
type wrapCache struct {
	revision uint64
	width    int
	mode     WrapMode
	rows     []WrappedLine
	starts   []int // first visual row index per source line
}

// build recomputes the projection for the given document state.
func (c *wrapCache) build(lines []string, revision uint64, width int, mode WrapMode) {
	if c.rows != nil && c.revision == revision && c.width == width && c.mode == mode {
		return
	}
	c.revision = revision
	c.width = width
	c.mode = mode
	c.rows = c.rows[:0]
	c.starts = c.starts[:0]
	for i, line := range lines {
		c.starts = append(c.starts, len(c.rows))
		c.rows = append(c.rows, wrapLine(i, line, width, mode)...)
	}
}

// rowCount returns the total number of visual rows.
func (c *wrapCache) rowCount() int {
	return len(c.rows)
}

// rowFor maps a document position to its visual row index and the
// cursor's rune offset within that row.
func (c *wrapCache) rowFor(line, col int) (row, offsetInRow int) {
	if len(c.rows) == 0 {
		return 0, 0
	}
	line = clampInt(line, 0, len(c.starts)-1)
	row = c.starts[line]
	// Advance through the line's rows until the column falls inside one.
	for row+1 < len(c.rows) && c.rows[row+1].Line == line && col >= c.rows[row+1].Offset {
		row++
	}
	return row, col - c.rows[row].Offset
}

// positionAt maps a visual row and an offset within it back to a
// document position, clamping the offset into the row.
func (c *wrapCache) positionAt(row, offsetInRow int) (line, col int) {
	if len(c.rows) == 0 {
		return 0, 0
	}
	row = clampInt(row, 0, len(c.rows)-1)
	wl := c.rows[row]
	return wl.Line, wl.Offset + clampInt(offsetInRow, 0, wl.Len())
}

// sanitizeLine strips control characters from a single-line string and
// normalizes tabs to spaces. Line breaks become spaces.
func sanitizeLine(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r == '\n' || r == '\r':
			return ' '
		case r < ' ':
			return -1
		}
		return r
	}, s)
}

// splitLines normalizes incoming text into document lines: CRLF and CR
// become LF, tabs expand to spaces, other control characters are
// dropped. The result always has at least one line.
func splitLines(s string, tabWidth int) []string {
	if tabWidth < 1 {
		tabWidth = 4
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))

	parts := strings.Split(s, "\n")
	for i, p := range parts {
		parts[i] = strings.Map(func(r rune) rune {
			if r < ' ' {
				return -1
			}
			return r
		}, p)
	}
	if len(parts) == 0 {
		parts = []string{""}
	}
	return parts
}
