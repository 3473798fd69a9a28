package vellum

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

// EditorMode is the editor's interaction state.
type EditorMode uint8

const (
	// ModeBrowse: the editor has focus but is not editing. Arrow keys
	// scroll the viewport; Enter switches to editing.
	ModeBrowse EditorMode = iota
	// ModeEditing: the full text-manipulation key set is active.
	ModeEditing
)

// Token is a styled span within one source line, produced by an
// application-supplied tokenizer (syntax highlighting hook).
type Token struct {
	Start int // rune offset within the line
	Len   int // rune length
	Style Style
}

// Editor is a multiline text editor control. It owns a document (a list
// of line strings), a cursor, a selection, a soft-wrap projection, undo
// history and a scroll viewport.
//
// The document, cursor and selection are guarded by a mutex scoped to
// one logical edit; the lock is released before change callbacks fire so
// a handler may safely call back into the editor.
type Editor struct {
	Base

	mu        sync.Mutex
	lines     []string
	cursor    Position
	selAnchor Position
	hasSel    bool
	revision  uint64

	mode     EditorMode
	wrapMode WrapMode
	cache    wrapCache

	tokenizer   func(line string) []Token
	tokenRev    uint64
	tokenLines  [][]Token
	scrollRow   int
	scrollCol   int // cells; meaningful only in NoWrap
	maxLength   int // total runes incl. one per line separator; 0 = unlimited
	readOnly    bool
	tabWidth    int
	undo        *undoRing
	clip        Clipboard
	dragging    bool

	onContent   []func()
	onSelection []func()
	onMode      []func(EditorMode)
}

// NewEditor creates an empty editor in browse mode with word wrap.
func NewEditor() *Editor {
	e := &Editor{
		lines:    []string{""},
		wrapMode: WordWrap,
		tabWidth: 4,
		undo:     newUndoRing(defaultUndoDepth),
		clip:     SystemClipboard{},
	}
	e.SetFill(true)
	return e
}

// --- configuration ---

// SetWrapMode changes the soft-wrap mode and invalidates the projection.
func (e *Editor) SetWrapMode(m WrapMode) {
	e.mu.Lock()
	if e.wrapMode != m {
		e.wrapMode = m
		e.scrollCol = 0
		e.revision++
	}
	e.mu.Unlock()
	e.Invalidate(true)
}

// Wrap returns the current wrap mode.
func (e *Editor) Wrap() WrapMode {
	return e.wrapMode
}

// SetMaxLength bounds the total content length in runes, counting one
// per line separator. 0 removes the bound. Existing content is not
// truncated; only future insertions are.
func (e *Editor) SetMaxLength(n int) {
	e.maxLength = maxInt(0, n)
}

// SetReadOnly toggles read-only mode; editing keys bubble when set.
func (e *Editor) SetReadOnly(ro bool) {
	e.readOnly = ro
}

// SetTabWidth sets how many spaces a tab expands to.
func (e *Editor) SetTabWidth(w int) {
	if w >= 1 {
		e.tabWidth = w
	}
}

// SetClipboard replaces the clipboard implementation (tests use an
// in-memory one).
func (e *Editor) SetClipboard(c Clipboard) {
	if c != nil {
		e.clip = c
	}
}

// SetUndoDepth bounds the undo history and clears it.
func (e *Editor) SetUndoDepth(depth int) {
	e.undo = newUndoRing(depth)
}

// SetTokenizer installs a per-line syntax tokenizer. The token cache is
// keyed on the same document revision as the wrap cache, so both always
// invalidate together.
func (e *Editor) SetTokenizer(fn func(line string) []Token) {
	e.tokenizer = fn
	e.tokenLines = nil
	e.Invalidate(false)
}

// OnContentChanged registers a callback fired after any content change.
func (e *Editor) OnContentChanged(fn func()) {
	e.onContent = append(e.onContent, fn)
}

// OnSelectionChanged registers a callback fired after the selection or
// cursor moves.
func (e *Editor) OnSelectionChanged(fn func()) {
	e.onSelection = append(e.onSelection, fn)
}

// OnModeChanged registers a callback fired on browse/edit transitions.
func (e *Editor) OnModeChanged(fn func(EditorMode)) {
	e.onMode = append(e.onMode, fn)
}

// --- document access ---

// Text returns the document joined with newlines.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return strings.Join(e.lines, "\n")
}

// SetText replaces the whole document. Content is sanitized (tabs to
// spaces, control characters dropped), the cursor is clamped, undo
// history resets.
func (e *Editor) SetText(s string) {
	e.mu.Lock()
	e.lines = splitLines(s, e.tabWidth)
	e.clampCursorLocked()
	e.hasSel = false
	e.undo.reset()
	e.scrollRow, e.scrollCol = 0, 0
	e.revision++
	e.mu.Unlock()

	e.fireContent()
	e.Invalidate(true)
}

// LineCount returns the number of source lines (always >= 1).
func (e *Editor) LineCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// LineText returns one source line, or "" out of range.
func (e *Editor) LineText(i int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.lines) {
		return ""
	}
	return e.lines[i]
}

// Cursor returns the current cursor position.
func (e *Editor) Cursor() Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// SetCursor moves the cursor, clamping into the document and clearing
// any selection.
func (e *Editor) SetCursor(p Position) {
	e.mu.Lock()
	e.cursor = e.clampPositionLocked(p)
	e.hasSel = false
	e.scrollToCursorLocked()
	e.mu.Unlock()
	e.fireSelection()
	e.Invalidate(false)
}

// AcceptsFocus implements Focusable.
func (e *Editor) AcceptsFocus() bool {
	return true
}

// Mode returns the current interaction mode.
func (e *Editor) Mode() EditorMode {
	return e.mode
}

// SetMode switches between browse and editing programmatically, firing
// the mode callback on a real transition.
func (e *Editor) SetMode(m EditorMode) {
	e.setMode(m)
}

// Selection returns the ordered selection bounds. ok is false when no
// selection is active (including anchor == cursor).
func (e *Editor) Selection() (start, end Position, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectionLocked()
}

func (e *Editor) selectionLocked() (start, end Position, ok bool) {
	if !e.hasSel || e.selAnchor == e.cursor {
		return Position{}, Position{}, false
	}
	if e.selAnchor.Less(e.cursor) {
		return e.selAnchor, e.cursor, true
	}
	return e.cursor, e.selAnchor, true
}

// SelectedText returns the selected text, or "".
func (e *Editor) SelectedText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	start, end, ok := e.selectionLocked()
	if !ok {
		return ""
	}
	return e.textRangeLocked(start, end)
}

// CanUndo reports whether undo history exists.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.canUndo()
}

// CanRedo reports whether redo history exists.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.canRedo()
}

// --- layout ---

// Measure implements Component. A fill editor under loose constraints
// reports a small bounded default and relies on arrange for real size.
func (e *Editor) Measure(c Constraints) Size {
	return e.measureBox(c, Size{W: 16, H: 4})
}

// Arrange implements Component, rebuilding the wrap projection when the
// width changes.
func (e *Editor) Arrange(bounds Rect) {
	e.Base.Arrange(bounds)
	e.mu.Lock()
	e.syncCacheLocked()
	e.scrollToCursorLocked()
	e.mu.Unlock()
}

func (e *Editor) contentWidth() int {
	return maxInt(1, e.Bounds().W)
}

// syncCacheLocked rebuilds the wrap projection (and the token cache,
// which shares the revision key) if anything it depends on changed.
func (e *Editor) syncCacheLocked() {
	e.cache.build(e.lines, e.revision, e.contentWidth(), e.wrapMode)
	if e.tokenizer != nil && (e.tokenLines == nil || e.tokenRev != e.revision) {
		e.tokenRev = e.revision
		e.tokenLines = e.tokenLines[:0]
		for _, line := range e.lines {
			e.tokenLines = append(e.tokenLines, e.tokenizer(line))
		}
	}
}

// Paint implements Component.
func (e *Editor) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := e.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(e.ResolveForeground(fg), e.ResolveBackground(bg))
	buf.FillRectClipped(bounds, clip, NewCell(' ', style))
	if bounds.Empty() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncCacheLocked()

	selStart, selEnd, hasSel := e.selectionLocked()
	selStyle := style.Inverse()
	cursorRow, cursorOff := e.cache.rowFor(e.cursor.Line, e.cursor.Col)

	for vy := 0; vy < bounds.H; vy++ {
		row := e.scrollRow + vy
		if row >= e.cache.rowCount() {
			break
		}
		wl := e.cache.rows[row]
		x := bounds.X - e.scrollCol
		for i, r := range []rune(wl.Text) {
			col := wl.Offset + i
			st := style
			if tok := e.tokenAt(wl.Line, col); tok != nil {
				st = tok.Style
				if st.BG.IsDefault() {
					st.BG = style.BG
				}
			}
			if hasSel && inRange(Position{Col: col, Line: wl.Line}, selStart, selEnd) {
				st = selStyle
			}
			w := runewidth.RuneWidth(r)
			buf.SetClipped(x, bounds.Y+vy, NewCell(r, st), clip)
			if w == 2 {
				buf.SetClipped(x+1, bounds.Y+vy, Cell{Rune: 0, Style: st}, clip)
			}
			x += w
		}

		// Cursor cell, drawn over content (or the cell past line end).
		if e.Focused() && row == cursorRow {
			cx := bounds.X - e.scrollCol + runesWidth([]rune(wl.Text)[:clampInt(cursorOff, 0, wl.Len())])
			cell := buf.Get(cx, bounds.Y+vy)
			if cell.Rune == 0 {
				cell = NewCell(' ', style)
			}
			cell.Style = cell.Style.Inverse()
			buf.SetClipped(cx, bounds.Y+vy, cell, clip)
		}
	}
}

func (e *Editor) tokenAt(line, col int) *Token {
	if e.tokenizer == nil || line >= len(e.tokenLines) {
		return nil
	}
	for i := range e.tokenLines[line] {
		t := &e.tokenLines[line][i]
		if col >= t.Start && col < t.Start+t.Len {
			return t
		}
	}
	return nil
}

func inRange(p, start, end Position) bool {
	return !p.Less(start) && p.Less(end)
}

func runesWidth(rs []rune) int {
	w := 0
	for _, r := range rs {
		w += runewidth.RuneWidth(r)
	}
	return w
}

// --- key handling ---

// HandleKey implements KeyHandler. A key is consumed only if it changed
// content, cursor, selection, scroll or mode; anything else returns
// false so enclosing shortcut handlers can claim it.
func (e *Editor) HandleKey(ev KeyEvent) bool {
	if e.mode == ModeBrowse {
		return e.browseKey(ev)
	}
	return e.editKey(ev)
}

func (e *Editor) browseKey(ev KeyEvent) bool {
	switch ev.Key {
	case KeyEnter:
		e.setMode(ModeEditing)
		return true
	case KeyUp:
		return e.scrollBy(-1)
	case KeyDown:
		return e.scrollBy(1)
	case KeyPageUp:
		return e.scrollBy(-maxInt(1, e.Bounds().H))
	case KeyPageDown:
		return e.scrollBy(maxInt(1, e.Bounds().H))
	}
	return false
}

func (e *Editor) scrollBy(rows int) bool {
	e.mu.Lock()
	e.syncCacheLocked()
	maxScroll := maxInt(0, e.cache.rowCount()-1)
	next := clampInt(e.scrollRow+rows, 0, maxScroll)
	changed := next != e.scrollRow
	e.scrollRow = next
	e.mu.Unlock()
	if changed {
		e.Invalidate(false)
	}
	return changed
}

func (e *Editor) editKey(ev KeyEvent) bool {
	extend := ev.Mod.Has(ModShift)
	switch ev.Key {
	case KeyEscape:
		e.mu.Lock()
		had := e.hasSel && e.selAnchor != e.cursor
		e.hasSel = false
		e.mu.Unlock()
		if had {
			e.fireSelection()
			e.Invalidate(false)
		} else {
			e.setMode(ModeBrowse)
		}
		return true

	case KeyLeft:
		if ev.Mod.Has(ModCtrl) {
			return e.moveCursor(extend, e.wordLeftLocked)
		}
		return e.moveCursor(extend, e.leftLocked)
	case KeyRight:
		if ev.Mod.Has(ModCtrl) {
			return e.moveCursor(extend, e.wordRightLocked)
		}
		return e.moveCursor(extend, e.rightLocked)
	case KeyUp:
		return e.moveCursor(extend, func() { e.verticalLocked(-1) })
	case KeyDown:
		return e.moveCursor(extend, func() { e.verticalLocked(1) })
	case KeyPageUp:
		return e.moveCursor(extend, func() { e.verticalLocked(-maxInt(1, e.Bounds().H)) })
	case KeyPageDown:
		return e.moveCursor(extend, func() { e.verticalLocked(maxInt(1, e.Bounds().H)) })
	case KeyHome:
		if ev.Mod.Has(ModCtrl) {
			return e.moveCursor(extend, func() { e.cursor = Position{} })
		}
		return e.moveCursor(extend, e.homeLocked)
	case KeyEnd:
		if ev.Mod.Has(ModCtrl) {
			return e.moveCursor(extend, func() {
				e.cursor = Position{Line: len(e.lines) - 1, Col: len([]rune(e.lines[len(e.lines)-1]))}
			})
		}
		return e.moveCursor(extend, e.endLocked)

	case KeyEnter:
		return e.insert("\n")
	case KeyTab:
		return e.insert(strings.Repeat(" ", e.tabWidth))
	case KeyBackspace:
		return e.deleteKey(true)
	case KeyDelete:
		return e.deleteKey(false)

	case KeyRune:
		if ev.Mod.Has(ModCtrl) {
			return e.controlKey(ev)
		}
		if ev.Printable() {
			return e.insert(string(ev.Rune))
		}
	}
	return false
}

func (e *Editor) controlKey(ev KeyEvent) bool {
	switch ev.Rune {
	case 'a', 'A':
		e.SelectAll()
		return true
	case 'c', 'C':
		return e.Copy()
	case 'x', 'X':
		return e.Cut()
	case 'v', 'V':
		return e.Paste()
	case 'z', 'Z':
		if ev.Mod.Has(ModShift) {
			return e.Redo()
		}
		return e.Undo()
	case 'y', 'Y':
		return e.Redo()
	}
	return false
}

func (e *Editor) setMode(m EditorMode) {
	if e.mode == m {
		return
	}
	e.mode = m
	for _, fn := range e.onMode {
		fn(m)
	}
	e.Invalidate(false)
}

// moveCursor runs a cursor mutation under the lock, handling selection
// extension and viewport follow. Returns true if anything changed.
func (e *Editor) moveCursor(extend bool, move func()) bool {
	e.mu.Lock()
	e.syncCacheLocked()
	before := e.cursor
	hadSel := e.hasSel && e.selAnchor != e.cursor

	if extend && !e.hasSel {
		e.selAnchor = e.cursor
		e.hasSel = true
	}
	if !extend {
		e.hasSel = false
	}
	move()
	e.cursor = e.clampPositionLocked(e.cursor)
	e.scrollToCursorLocked()
	changed := e.cursor != before || hadSel != (e.hasSel && e.selAnchor != e.cursor)
	e.mu.Unlock()

	if changed {
		e.fireSelection()
		e.Invalidate(false)
	}
	return changed
}

func (e *Editor) leftLocked() {
	if e.cursor.Col > 0 {
		e.cursor.Col--
	} else if e.cursor.Line > 0 {
		e.cursor.Line--
		e.cursor.Col = len([]rune(e.lines[e.cursor.Line]))
	}
}

func (e *Editor) rightLocked() {
	if e.cursor.Col < len([]rune(e.lines[e.cursor.Line])) {
		e.cursor.Col++
	} else if e.cursor.Line < len(e.lines)-1 {
		e.cursor.Line++
		e.cursor.Col = 0
	}
}

// verticalLocked moves by visual rows through the wrap projection,
// preserving the cursor's offset within its current row.
func (e *Editor) verticalLocked(delta int) {
	row, off := e.cache.rowFor(e.cursor.Line, e.cursor.Col)
	target := clampInt(row+delta, 0, e.cache.rowCount()-1)
	if target == row {
		return
	}
	line, col := e.cache.positionAt(target, off)
	e.cursor = Position{Line: line, Col: col}
}

// homeLocked moves to the start of the cursor's visual row.
func (e *Editor) homeLocked() {
	row, _ := e.cache.rowFor(e.cursor.Line, e.cursor.Col)
	line, col := e.cache.positionAt(row, 0)
	e.cursor = Position{Line: line, Col: col}
}

// endLocked moves past the last rune of the cursor's visual row.
func (e *Editor) endLocked() {
	row, _ := e.cache.rowFor(e.cursor.Line, e.cursor.Col)
	wl := e.cache.rows[row]
	e.cursor = Position{Line: wl.Line, Col: wl.Offset + wl.Len()}
}

func (e *Editor) wordLeftLocked() {
	runes := []rune(e.lines[e.cursor.Line])
	col := e.cursor.Col
	if col == 0 {
		e.leftLocked()
		return
	}
	for col > 0 && isWordGap(runes[col-1]) {
		col--
	}
	for col > 0 && !isWordGap(runes[col-1]) {
		col--
	}
	e.cursor.Col = col
}

func (e *Editor) wordRightLocked() {
	runes := []rune(e.lines[e.cursor.Line])
	col := e.cursor.Col
	if col >= len(runes) {
		e.rightLocked()
		return
	}
	for col < len(runes) && !isWordGap(runes[col]) {
		col++
	}
	for col < len(runes) && isWordGap(runes[col]) {
		col++
	}
	e.cursor.Col = col
}

func isWordGap(r rune) bool {
	return r == ' ' || r == '\t'
}

// --- content mutation ---

// insert deletes any selection then inserts text at the cursor as one
// undoable action. Text is sanitized and capacity-truncated before the
// document mutates; there is never an insert-then-rollback.
func (e *Editor) insert(text string) bool {
	if e.readOnly {
		return false
	}
	e.mu.Lock()
	e.syncCacheLocked()
	before := strings.Join(e.lines, "\n")
	cursorBefore := e.cursor

	if start, end, ok := e.selectionLocked(); ok {
		e.deleteRangeLocked(start, end)
	}
	e.hasSel = false

	ins := e.truncateToFitLocked(splitLines(text, e.tabWidth))
	changed := e.insertLinesLocked(ins)

	after := strings.Join(e.lines, "\n")
	if after != before {
		e.undo.push(undoEntry{
			before: before, after: after,
			cursorBefore: cursorBefore, cursorAfter: e.cursor,
		})
		e.revision++
		changed = true
	}
	e.scrollToCursorLocked()
	e.mu.Unlock()

	if changed {
		e.fireContent()
		e.Invalidate(false)
	}
	return changed
}

// insertLinesLocked splices sanitized lines in at the cursor.
func (e *Editor) insertLinesLocked(ins []string) bool {
	if len(ins) == 1 && ins[0] == "" {
		return false
	}
	line := []rune(e.lines[e.cursor.Line])
	col := clampInt(e.cursor.Col, 0, len(line))
	head := string(line[:col])
	tail := string(line[col:])

	if len(ins) == 1 {
		e.lines[e.cursor.Line] = head + ins[0] + tail
		e.cursor.Col = col + len([]rune(ins[0]))
		return true
	}

	newLines := make([]string, 0, len(e.lines)+len(ins)-1)
	newLines = append(newLines, e.lines[:e.cursor.Line]...)
	newLines = append(newLines, head+ins[0])
	newLines = append(newLines, ins[1:len(ins)-1]...)
	last := ins[len(ins)-1]
	newLines = append(newLines, last+tail)
	newLines = append(newLines, e.lines[e.cursor.Line+1:]...)

	e.cursor.Line += len(ins) - 1
	e.cursor.Col = len([]rune(last))
	e.lines = newLines
	return true
}

// truncateToFitLocked trims incoming lines so the document stays within
// maxLength, counting one rune per line separator.
func (e *Editor) truncateToFitLocked(ins []string) []string {
	if e.maxLength <= 0 {
		return ins
	}
	total := 0
	for i, l := range e.lines {
		total += len([]rune(l))
		if i > 0 {
			total++
		}
	}
	remaining := e.maxLength - total
	if remaining <= 0 {
		return []string{""}
	}

	out := make([]string, 0, len(ins))
	for i, l := range ins {
		if i > 0 {
			if remaining <= 0 {
				break
			}
			remaining-- // the separator itself
		}
		runes := []rune(l)
		if len(runes) > remaining {
			runes = runes[:maxInt(0, remaining)]
		}
		remaining -= len(runes)
		out = append(out, string(runes))
		if remaining <= 0 && i < len(ins)-1 {
			break
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// deleteKey handles Backspace (back=true) and Delete.
func (e *Editor) deleteKey(back bool) bool {
	if e.readOnly {
		return false
	}
	e.mu.Lock()
	e.syncCacheLocked()
	before := strings.Join(e.lines, "\n")
	cursorBefore := e.cursor

	if start, end, ok := e.selectionLocked(); ok {
		e.deleteRangeLocked(start, end)
		e.hasSel = false
	} else if back {
		if e.cursor == (Position{}) {
			e.mu.Unlock()
			return false
		}
		end := e.cursor
		e.leftLocked()
		e.deleteRangeLocked(e.cursor, end)
	} else {
		start := e.cursor
		lineLen := len([]rune(e.lines[e.cursor.Line]))
		if start.Col >= lineLen && start.Line >= len(e.lines)-1 {
			e.mu.Unlock()
			return false
		}
		end := start
		if end.Col < lineLen {
			end.Col++
		} else {
			end = Position{Line: start.Line + 1, Col: 0}
		}
		e.deleteRangeLocked(start, end)
	}

	after := strings.Join(e.lines, "\n")
	changed := after != before
	if changed {
		e.undo.push(undoEntry{
			before: before, after: after,
			cursorBefore: cursorBefore, cursorAfter: e.cursor,
		})
		e.revision++
	}
	e.scrollToCursorLocked()
	e.mu.Unlock()

	if changed {
		e.fireContent()
		e.Invalidate(false)
	}
	return changed
}

// deleteRangeLocked removes [start, end) and leaves the cursor at start.
func (e *Editor) deleteRangeLocked(start, end Position) {
	start = e.clampPositionLocked(start)
	end = e.clampPositionLocked(end)
	if !start.Less(end) {
		return
	}
	startLine := []rune(e.lines[start.Line])
	endLine := []rune(e.lines[end.Line])
	merged := string(startLine[:start.Col]) + string(endLine[end.Col:])

	newLines := make([]string, 0, len(e.lines)-(end.Line-start.Line))
	newLines = append(newLines, e.lines[:start.Line]...)
	newLines = append(newLines, merged)
	newLines = append(newLines, e.lines[end.Line+1:]...)
	e.lines = newLines
	e.cursor = start
}

func (e *Editor) textRangeLocked(start, end Position) string {
	if start.Line == end.Line {
		runes := []rune(e.lines[start.Line])
		return string(runes[clampInt(start.Col, 0, len(runes)):clampInt(end.Col, 0, len(runes))])
	}
	var sb strings.Builder
	first := []rune(e.lines[start.Line])
	sb.WriteString(string(first[clampInt(start.Col, 0, len(first)):]))
	for i := start.Line + 1; i < end.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(e.lines[i])
	}
	last := []rune(e.lines[end.Line])
	sb.WriteByte('\n')
	sb.WriteString(string(last[:clampInt(end.Col, 0, len(last))]))
	return sb.String()
}

// SelectAll selects the entire document.
func (e *Editor) SelectAll() {
	e.mu.Lock()
	e.selAnchor = Position{}
	e.cursor = Position{Line: len(e.lines) - 1, Col: len([]rune(e.lines[len(e.lines)-1]))}
	e.hasSel = true
	e.scrollToCursorLocked()
	e.mu.Unlock()
	e.fireSelection()
	e.Invalidate(false)
}

// Copy places the selected text on the clipboard. Returns false with no
// selection so the key bubbles.
func (e *Editor) Copy() bool {
	s := e.SelectedText()
	if s == "" {
		return false
	}
	e.clip.WriteText(s)
	return true
}

// Cut copies then deletes the selection as one undoable action.
func (e *Editor) Cut() bool {
	if e.readOnly {
		return false
	}
	s := e.SelectedText()
	if s == "" {
		return false
	}
	e.clip.WriteText(s)
	return e.deleteKey(false)
}

// Paste inserts clipboard text at the cursor, replacing any selection.
func (e *Editor) Paste() bool {
	if e.readOnly {
		return false
	}
	s := e.clip.ReadText()
	if s == "" {
		return false
	}
	return e.insert(s)
}

// Undo restores the document and cursor to before the last action.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	entry, ok := e.undo.pop()
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.lines = splitLines(entry.before, e.tabWidth)
	e.cursor = e.clampPositionLocked(entry.cursorBefore)
	e.hasSel = false
	e.revision++
	e.scrollToCursorLocked()
	e.mu.Unlock()

	e.fireContent()
	e.Invalidate(false)
	return true
}

// Redo re-applies the most recently undone action.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	entry, ok := e.undo.unpop()
	if !ok {
		e.mu.Unlock()
		return false
	}
	e.lines = splitLines(entry.after, e.tabWidth)
	e.cursor = e.clampPositionLocked(entry.cursorAfter)
	e.hasSel = false
	e.revision++
	e.scrollToCursorLocked()
	e.mu.Unlock()

	e.fireContent()
	e.Invalidate(false)
	return true
}

// --- mouse ---

// HandleMouse implements MouseAware: click positions the cursor (and
// enters editing from browse), drag extends the selection, double-click
// selects the word, triple-click selects the source line, wheel scrolls.
func (e *Editor) HandleMouse(ev *MouseEvent) {
	bounds := e.Bounds()
	if !e.dragging && !bounds.Contains(ev.X, ev.Y) {
		return
	}

	switch {
	case ev.Flags.Has(MouseWheelUp):
		e.scrollBy(-1)
		ev.Handled = true
		return
	case ev.Flags.Has(MouseWheelDown):
		e.scrollBy(1)
		ev.Handled = true
		return
	}

	if e.mode == ModeBrowse && ev.Flags.Has(MousePressed) {
		e.setMode(ModeEditing)
	}

	switch {
	case ev.Flags.Has(MouseTripleClick):
		e.selectLineAt(ev.X, ev.Y)
		ev.Handled = true
	case ev.Flags.Has(MouseDoubleClick):
		e.selectWordAt(ev.X, ev.Y)
		ev.Handled = true
	case ev.Flags.Has(MousePressed):
		e.mu.Lock()
		e.syncCacheLocked()
		e.cursor = e.positionFromPointLocked(ev.X, ev.Y)
		e.selAnchor = e.cursor
		e.hasSel = true
		e.dragging = true
		e.scrollToCursorLocked()
		e.mu.Unlock()
		e.fireSelection()
		e.Invalidate(false)
		ev.Handled = true
	case ev.Flags.Has(MouseDragged) && e.dragging:
		e.mu.Lock()
		e.syncCacheLocked()
		e.cursor = e.positionFromPointLocked(ev.X, ev.Y)
		e.scrollToCursorLocked()
		e.mu.Unlock()
		e.fireSelection()
		e.Invalidate(false)
		ev.Handled = true
	case ev.Flags.Has(MouseReleased) && e.dragging:
		e.dragging = false
		ev.Handled = true
	}
}

// positionFromPointLocked maps buffer coordinates to a document
// position through the wrap projection.
func (e *Editor) positionFromPointLocked(x, y int) Position {
	bounds := e.Bounds()
	row := clampInt(e.scrollRow+(y-bounds.Y), 0, maxInt(0, e.cache.rowCount()-1))
	if e.cache.rowCount() == 0 {
		return Position{}
	}
	wl := e.cache.rows[row]

	targetCell := x - bounds.X + e.scrollCol
	cells := 0
	off := 0
	for _, r := range wl.Text {
		w := runewidth.RuneWidth(r)
		if cells+w > targetCell {
			break
		}
		cells += w
		off++
	}
	return Position{Line: wl.Line, Col: wl.Offset + off}
}

func (e *Editor) selectWordAt(x, y int) {
	e.mu.Lock()
	e.syncCacheLocked()
	p := e.positionFromPointLocked(x, y)
	runes := []rune(e.lines[p.Line])
	start, end := p.Col, p.Col
	for start > 0 && !isWordGap(runes[start-1]) {
		start--
	}
	for end < len(runes) && !isWordGap(runes[end]) {
		end++
	}
	e.selAnchor = Position{Line: p.Line, Col: start}
	e.cursor = Position{Line: p.Line, Col: end}
	e.hasSel = true
	e.scrollToCursorLocked()
	e.mu.Unlock()
	e.fireSelection()
	e.Invalidate(false)
}

func (e *Editor) selectLineAt(x, y int) {
	e.mu.Lock()
	e.syncCacheLocked()
	p := e.positionFromPointLocked(x, y)
	e.selAnchor = Position{Line: p.Line, Col: 0}
	e.cursor = Position{Line: p.Line, Col: len([]rune(e.lines[p.Line]))}
	e.hasSel = true
	e.scrollToCursorLocked()
	e.mu.Unlock()
	e.fireSelection()
	e.Invalidate(false)
}

// --- invariants ---

// clampPositionLocked repairs a position into the document. Out-of-range
// coordinates are never an error here; they are always repaired.
func (e *Editor) clampPositionLocked(p Position) Position {
	if len(e.lines) == 0 {
		e.lines = []string{""}
	}
	p.Line = clampInt(p.Line, 0, len(e.lines)-1)
	p.Col = clampInt(p.Col, 0, len([]rune(e.lines[p.Line])))
	return p
}

func (e *Editor) clampCursorLocked() {
	e.cursor = e.clampPositionLocked(e.cursor)
	e.selAnchor = e.clampPositionLocked(e.selAnchor)
}

// scrollToCursorLocked keeps the cursor's visual row inside the
// viewport, and its column in NoWrap mode.
func (e *Editor) scrollToCursorLocked() {
	bounds := e.Bounds()
	if bounds.Empty() {
		return
	}
	e.syncCacheLocked()
	row, off := e.cache.rowFor(e.cursor.Line, e.cursor.Col)
	if row < e.scrollRow {
		e.scrollRow = row
	}
	if row >= e.scrollRow+bounds.H {
		e.scrollRow = row - bounds.H + 1
	}
	e.scrollRow = clampInt(e.scrollRow, 0, maxInt(0, e.cache.rowCount()-1))

	if e.wrapMode == NoWrap {
		wl := e.cache.rows[row]
		cx := runesWidth([]rune(wl.Text)[:clampInt(off, 0, wl.Len())])
		if cx < e.scrollCol {
			e.scrollCol = cx
		}
		if cx >= e.scrollCol+bounds.W {
			e.scrollCol = cx - bounds.W + 1
		}
		e.scrollCol = maxInt(0, e.scrollCol)
	} else {
		e.scrollCol = 0
	}
}

// ScrollOffset returns the top visible visual row (and left column in
// NoWrap mode).
func (e *Editor) ScrollOffset() (row, col int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrollRow, e.scrollCol
}

// WrappedRows returns a copy of the current wrap projection. Intended
// for tests and scroll indicators.
func (e *Editor) WrappedRows() []WrappedLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncCacheLocked()
	out := make([]WrappedLine, len(e.cache.rows))
	copy(out, e.cache.rows)
	return out
}

// --- notifications ---
// Fired with the lock released so handlers can call back in.

func (e *Editor) fireContent() {
	for _, fn := range e.onContent {
		fn()
	}
}

func (e *Editor) fireSelection() {
	for _, fn := range e.onSelection {
		fn()
	}
}
