package vellum

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// SelectionMode selects how a ListView tracks its cursor.
type SelectionMode uint8

const (
	// SelectionSimple merges highlight and selection into one cursor
	// (tree/menu behavior).
	SelectionSimple SelectionMode = iota
	// SelectionComplex keeps a browsing highlight separate from the
	// committed selection (dropdown behavior): Enter first commits the
	// highlight, a second Enter on the committed item activates.
	SelectionComplex
)

// ListItem is one entry in a ListView. Text may span multiple lines.
type ListItem struct {
	Text      string
	Icon      rune
	IconColor Color
	Tag       any
	Enabled   bool
}

// rows returns the number of text lines the item occupies.
func (it ListItem) rows() int {
	return strings.Count(it.Text, "\n") + 1
}

const (
	typeAheadIdle      = 1500 * time.Millisecond
	doubleClickDefault = 500 * time.Millisecond
)

// ListView is a selectable, scrollable collection view.
type ListView struct {
	Base
	items []ListItem
	mode  SelectionMode

	selected    int // committed choice, -1 none
	highlighted int // keyboard browsing cursor, -1 none
	hover       int // purely visual mouse hover, -1 none

	scroll int // index of first visible item

	searchBuf     string
	searchTime    time.Time
	now           func() time.Time // injectable clock for tests
	lastClickIdx  int
	lastClickTime time.Time
	dblThreshold  time.Duration

	onHighlight []func(index int)
	onSelection []func(index int)
	onActivated []func(index int)
}

// NewListView creates an empty list in simple selection mode.
func NewListView() *ListView {
	lv := &ListView{
		selected:     -1,
		highlighted:  -1,
		hover:        -1,
		lastClickIdx: -1,
		now:          time.Now,
		dblThreshold: doubleClickDefault,
	}
	lv.SetFill(true)
	return lv
}

// AcceptsFocus implements Focusable.
func (lv *ListView) AcceptsFocus() bool {
	return true
}

// SetSelectionMode switches between simple and complex modes.
func (lv *ListView) SetSelectionMode(m SelectionMode) {
	lv.mode = m
	lv.Invalidate(false)
}

// SetDoubleClickThreshold configures the double-click window.
func (lv *ListView) SetDoubleClickThreshold(d time.Duration) {
	if d > 0 {
		lv.dblThreshold = d
	}
}

// SetItems replaces the list contents, clamping cursors.
func (lv *ListView) SetItems(items []ListItem) {
	lv.items = items
	lv.selected = lv.clampIndex(lv.selected)
	lv.highlighted = lv.clampIndex(lv.highlighted)
	lv.hover = -1
	lv.scroll = clampInt(lv.scroll, 0, maxInt(0, len(items)-1))
	lv.Invalidate(true)
}

// AddItem appends one item.
func (lv *ListView) AddItem(it ListItem) {
	lv.items = append(lv.items, it)
	lv.Invalidate(true)
}

// Items returns the item slice.
func (lv *ListView) Items() []ListItem {
	return lv.items
}

// SelectedIndex returns the committed selection, -1 for none.
func (lv *ListView) SelectedIndex() int {
	return lv.selected
}

// HighlightedIndex returns the browsing cursor, -1 for none.
func (lv *ListView) HighlightedIndex() int {
	return lv.highlighted
}

// SetHighlightedIndex moves the browsing cursor (clamped) and scrolls it
// into view. In simple mode the selection is the same cursor and follows.
func (lv *ListView) SetHighlightedIndex(i int) {
	i = lv.clampIndex(i)
	if i == lv.highlighted {
		return
	}
	lv.highlighted = i
	lv.syncSimpleSelection()
	lv.ensureVisible(i)
	lv.fireHighlight(i)
	lv.Invalidate(false)
}

// syncSimpleSelection keeps the committed selection merged with the
// highlight in simple mode. Moving the cursor selects but never activates.
func (lv *ListView) syncSimpleSelection() {
	if lv.mode != SelectionSimple || lv.selected == lv.highlighted {
		return
	}
	lv.selected = lv.highlighted
	lv.fireSelection(lv.selected)
}

// SetSelectedIndex commits a selection (clamped) without activating.
func (lv *ListView) SetSelectedIndex(i int) {
	i = lv.clampIndex(i)
	if i == lv.selected {
		return
	}
	lv.selected = i
	if lv.mode == SelectionSimple {
		lv.highlighted = i
	}
	lv.ensureVisible(i)
	lv.fireSelection(i)
	lv.Invalidate(false)
}

// OnHighlightChanged registers a browsing-cursor callback.
func (lv *ListView) OnHighlightChanged(fn func(index int)) {
	lv.onHighlight = append(lv.onHighlight, fn)
}

// OnSelectionChanged registers a committed-selection callback.
func (lv *ListView) OnSelectionChanged(fn func(index int)) {
	lv.onSelection = append(lv.onSelection, fn)
}

// OnItemActivated registers an activation callback.
func (lv *ListView) OnItemActivated(fn func(index int)) {
	lv.onActivated = append(lv.onActivated, fn)
}

func (lv *ListView) fireHighlight(i int) {
	for _, fn := range lv.onHighlight {
		fn(i)
	}
}

func (lv *ListView) fireSelection(i int) {
	for _, fn := range lv.onSelection {
		fn(i)
	}
}

func (lv *ListView) fireActivated(i int) {
	for _, fn := range lv.onActivated {
		fn(i)
	}
}

func (lv *ListView) clampIndex(i int) int {
	if i < 0 || len(lv.items) == 0 {
		return -1
	}
	return minInt(i, len(lv.items)-1)
}

// --- layout ---

// Measure implements Component.
func (lv *ListView) Measure(c Constraints) Size {
	w, h := 0, 0
	for _, it := range lv.items {
		for _, line := range strings.Split(it.Text, "\n") {
			lw := runewidth.StringWidth(line) + 2 // icon column
			if lw > w {
				w = lw
			}
		}
		h += it.rows()
	}
	if w == 0 {
		w, h = 16, 4
	}
	return lv.measureBox(c, Size{W: w, H: h})
}

// visibleCount returns how many whole items fit starting at scroll, after
// reserving a row for each overflow indicator that will be shown. The up
// and down indicators each get a dedicated row so they never overwrite an
// item.
func (lv *ListView) visibleCount() int {
	h := lv.Bounds().H
	if lv.scroll > 0 {
		h--
	}
	n := lv.fitCount(h)
	if lv.scroll+n < len(lv.items) {
		n = lv.fitCount(h - 1)
	}
	return maxInt(1, n)
}

// fitCount counts whole items from scroll that fit in h rows.
func (lv *ListView) fitCount(h int) int {
	used, n := 0, 0
	for i := lv.scroll; i < len(lv.items); i++ {
		used += lv.items[i].rows()
		if used > h {
			break
		}
		n++
	}
	return n
}

// ensureVisible clamps the scroll offset so the item at index is fully
// shown.
func (lv *ListView) ensureVisible(index int) {
	if index < 0 || len(lv.items) == 0 {
		return
	}
	if index < lv.scroll {
		lv.scroll = index
	}
	for lv.scroll < index {
		// count whole items that fit from scroll; advance until index fits
		last := lv.scroll + lv.visibleCount() - 1
		if index <= last {
			break
		}
		lv.scroll++
	}
}

// Paint implements Component.
func (lv *ListView) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := lv.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(lv.ResolveForeground(fg), lv.ResolveBackground(bg))
	buf.FillRectClipped(bounds, clip, NewCell(' ', style))
	if bounds.Empty() || len(lv.items) == 0 {
		return
	}

	y := bounds.Y
	maxY := bounds.Bottom()
	if lv.scroll > 0 {
		buf.WriteStringClipped(bounds.X, y, "▲", style.Dim(), clip)
		y++
	}

	count := lv.visibleCount()
	lastDrawn := lv.scroll
	for i := lv.scroll; i < len(lv.items) && i < lv.scroll+count; i++ {
		it := lv.items[i]
		st := style
		switch {
		case !it.Enabled:
			st = style.Dim()
		case i == lv.highlighted && lv.Focused():
			st = style.Inverse()
		case i == lv.selected:
			st = style.Bold()
		case i == lv.hover:
			st = style.Underline()
		}
		for li, line := range strings.Split(it.Text, "\n") {
			if y >= maxY {
				break
			}
			buf.FillRectClipped(NewRect(bounds.X, y, bounds.W, 1), clip, NewCell(' ', st))
			x := bounds.X
			if li == 0 && it.Icon != 0 {
				ist := st
				if !it.IconColor.IsDefault() {
					ist = ist.Foreground(it.IconColor)
				}
				buf.SetClipped(x, y, NewCell(it.Icon, ist), clip)
			}
			buf.WriteStringClipped(x+2, y, line, st, clip)
			y++
		}
		lastDrawn = i
	}

	if lastDrawn < len(lv.items)-1 {
		buf.WriteStringClipped(bounds.X, maxY-1, "▼", style.Dim(), clip)
	}
}

// --- keyboard ---

// HandleKey implements KeyHandler.
func (lv *ListView) HandleKey(ev KeyEvent) bool {
	if len(lv.items) == 0 {
		return false
	}
	switch ev.Key {
	case KeyUp:
		return lv.moveHighlight(-1)
	case KeyDown:
		return lv.moveHighlight(1)
	case KeyPageUp:
		return lv.moveHighlight(-maxInt(1, lv.visibleCount()))
	case KeyPageDown:
		return lv.moveHighlight(maxInt(1, lv.visibleCount()))
	case KeyHome:
		return lv.highlightTo(lv.firstEnabled(0, 1))
	case KeyEnd:
		return lv.highlightTo(lv.firstEnabled(len(lv.items)-1, -1))
	case KeyEnter:
		return lv.enter()
	case KeyRune:
		if ev.Printable() {
			return lv.typeAhead(ev.Rune)
		}
	}
	return false
}

// enter implements the mode-dependent Enter contract. In complex mode
// the first press commits highlight to selection without activating;
// a second press on the already-committed item activates.
func (lv *ListView) enter() bool {
	if lv.highlighted < 0 {
		return false
	}
	if lv.mode == SelectionSimple {
		if lv.selected != lv.highlighted {
			lv.selected = lv.highlighted
			lv.fireSelection(lv.selected)
		}
		lv.fireActivated(lv.selected)
		lv.Invalidate(false)
		return true
	}
	if lv.selected != lv.highlighted {
		lv.selected = lv.highlighted
		lv.fireSelection(lv.selected)
		lv.Invalidate(false)
		return true
	}
	lv.fireActivated(lv.selected)
	return true
}

// moveHighlight moves by delta, skipping disabled items. With no
// highlight yet, the first move lands on the first visible enabled item.
func (lv *ListView) moveHighlight(delta int) bool {
	cur := lv.highlighted
	if cur < 0 {
		return lv.highlightTo(lv.firstEnabled(lv.scroll, 1))
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	target := cur
	remaining := delta
	for remaining != 0 {
		next := target + step
		if next < 0 || next >= len(lv.items) {
			break
		}
		target = next
		if lv.items[target].Enabled {
			remaining -= step
		}
	}
	// land on an enabled item
	for target >= 0 && target < len(lv.items) && !lv.items[target].Enabled {
		target += step
	}
	if target < 0 || target >= len(lv.items) {
		return false
	}
	return lv.highlightTo(target)
}

func (lv *ListView) firstEnabled(start, step int) int {
	for i := start; i >= 0 && i < len(lv.items); i += step {
		if lv.items[i].Enabled {
			return i
		}
	}
	return -1
}

func (lv *ListView) highlightTo(i int) bool {
	if i < 0 || i == lv.highlighted {
		return false
	}
	lv.highlighted = i
	lv.syncSimpleSelection()
	lv.ensureVisible(i)
	lv.fireHighlight(i)
	lv.Invalidate(false)
	return true
}

// typeAhead accumulates printable keys into a search buffer, reset after
// an idle gap, and jumps the highlight to the first case-insensitive
// prefix match. No match leaves everything unchanged.
func (lv *ListView) typeAhead(r rune) bool {
	now := lv.now()
	if now.Sub(lv.searchTime) > typeAheadIdle {
		lv.searchBuf = ""
	}
	lv.searchTime = now
	lv.searchBuf += string(r)

	prefix := strings.ToLower(lv.searchBuf)
	for i, it := range lv.items {
		if !it.Enabled {
			continue
		}
		first := it.Text
		if j := strings.IndexByte(first, '\n'); j >= 0 {
			first = first[:j]
		}
		if strings.HasPrefix(strings.ToLower(first), prefix) {
			lv.highlightTo(i)
			return true
		}
	}
	return true // the keystroke extended the buffer even without a match
}

// --- mouse ---

// indexAt maps a buffer row to an item index, or -1.
func (lv *ListView) indexAt(x, y int) int {
	bounds := lv.Bounds()
	if !bounds.Contains(x, y) {
		return -1
	}
	row := y - bounds.Y
	if lv.scroll > 0 {
		if row == 0 {
			return -1 // up indicator row
		}
		row--
	}
	count := lv.visibleCount()
	for i := lv.scroll; i < len(lv.items) && i < lv.scroll+count; i++ {
		row -= lv.items[i].rows()
		if row < 0 {
			return i
		}
	}
	return -1
}

// HandleMouse implements MouseAware: hover tracks a visual-only index,
// click browses (moves highlight, clears a prior committed selection in
// complex mode), double-click on the same item commits and activates.
func (lv *ListView) HandleMouse(ev *MouseEvent) {
	bounds := lv.Bounds()
	if !bounds.Contains(ev.X, ev.Y) {
		if lv.hover != -1 {
			lv.hover = -1
			lv.Invalidate(false)
		}
		return
	}

	switch {
	case ev.Flags.Has(MouseWheelUp):
		lv.scroll = maxInt(0, lv.scroll-1)
		lv.Invalidate(false)
		ev.Handled = true
		return
	case ev.Flags.Has(MouseWheelDown):
		lv.scroll = clampInt(lv.scroll+1, 0, maxInt(0, len(lv.items)-1))
		lv.Invalidate(false)
		ev.Handled = true
		return
	}

	idx := lv.indexAt(ev.X, ev.Y)

	if ev.Flags&(MousePressed|MouseReleased|MouseSingleClick|MouseDoubleClick) == 0 {
		if idx != lv.hover {
			lv.hover = idx
			lv.Invalidate(false)
		}
		return
	}

	if idx < 0 || !lv.items[idx].Enabled {
		return
	}

	doubleClick := ev.Flags.Has(MouseDoubleClick)
	if ev.Flags.Has(MouseSingleClick) {
		now := lv.now()
		if idx == lv.lastClickIdx && now.Sub(lv.lastClickTime) <= lv.dblThreshold {
			doubleClick = true
		}
		lv.lastClickIdx = idx
		lv.lastClickTime = now
	}

	switch {
	case doubleClick:
		lv.highlighted = idx
		lv.selected = idx
		lv.ensureVisible(idx)
		lv.fireSelection(idx)
		lv.fireActivated(idx)
		lv.Invalidate(false)
		ev.Handled = true
	case ev.Flags.Has(MouseSingleClick) || ev.Flags.Has(MousePressed):
		// A click is a browse, not a commit.
		lv.highlighted = idx
		if lv.mode == SelectionComplex && lv.selected != -1 {
			lv.selected = -1
			lv.fireSelection(-1)
		} else if lv.mode == SelectionSimple && lv.selected != idx {
			lv.selected = idx
			lv.fireSelection(idx)
		}
		lv.ensureVisible(idx)
		lv.fireHighlight(idx)
		lv.Invalidate(false)
		ev.Handled = true
	}
}
