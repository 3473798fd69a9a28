package vellum

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestList(mode SelectionMode, texts ...string) *ListView {
	lv := NewListView()
	lv.SetSelectionMode(mode)
	items := make([]ListItem, len(texts))
	for i, s := range texts {
		items[i] = ListItem{Text: s, Enabled: true}
	}
	lv.SetItems(items)
	lv.Arrange(NewRect(0, 0, 20, 10))
	return lv
}

func TestListSimpleEnterSelectsAndActivates(t *testing.T) {
	lv := newTestList(SelectionSimple, "one", "two", "three")
	var activated []int
	lv.OnItemActivated(func(i int) { activated = append(activated, i) })

	lv.HandleKey(KeyEvent{Key: KeyDown})
	assert.Equal(t, 0, lv.HighlightedIndex())
	lv.HandleKey(KeyEvent{Key: KeyDown})
	require.Equal(t, 1, lv.HighlightedIndex())

	assert.True(t, lv.HandleKey(KeyEvent{Key: KeyEnter}))
	assert.Equal(t, 1, lv.SelectedIndex())
	assert.Equal(t, []int{1}, activated)
}

func TestListComplexTwoStepEnter(t *testing.T) {
	lv := newTestList(SelectionComplex, "one", "two", "three")
	var activated, selections []int
	lv.OnItemActivated(func(i int) { activated = append(activated, i) })
	lv.OnSelectionChanged(func(i int) { selections = append(selections, i) })

	lv.SetHighlightedIndex(2)
	require.Equal(t, -1, lv.SelectedIndex())

	// First Enter commits the highlight without activating.
	assert.True(t, lv.HandleKey(KeyEvent{Key: KeyEnter}))
	assert.Equal(t, 2, lv.SelectedIndex())
	assert.Equal(t, []int{2}, selections)
	assert.Empty(t, activated)

	// Second Enter on the committed item activates.
	assert.True(t, lv.HandleKey(KeyEvent{Key: KeyEnter}))
	assert.Equal(t, []int{2}, activated)
	assert.Equal(t, []int{2}, selections, "second enter must not re-fire selection")
}

func TestListComplexHighlightMovesWithoutSelecting(t *testing.T) {
	lv := newTestList(SelectionComplex, "one", "two", "three")
	lv.SetHighlightedIndex(0)
	lv.HandleKey(KeyEvent{Key: KeyEnter})
	require.Equal(t, 0, lv.SelectedIndex())

	// Browsing away keeps the committed selection intact.
	lv.HandleKey(KeyEvent{Key: KeyDown})
	assert.Equal(t, 1, lv.HighlightedIndex())
	assert.Equal(t, 0, lv.SelectedIndex())
}

func TestListDisabledItemsSkipped(t *testing.T) {
	lv := NewListView()
	lv.SetItems([]ListItem{
		{Text: "a", Enabled: true},
		{Text: "b", Enabled: false},
		{Text: "c", Enabled: false},
		{Text: "d", Enabled: true},
	})
	lv.Arrange(NewRect(0, 0, 20, 10))

	lv.SetHighlightedIndex(0)
	lv.HandleKey(KeyEvent{Key: KeyDown})
	assert.Equal(t, 3, lv.HighlightedIndex(), "down must skip disabled runs")

	lv.HandleKey(KeyEvent{Key: KeyUp})
	assert.Equal(t, 0, lv.HighlightedIndex())

	// At an edge with only disabled items beyond, the key bubbles.
	assert.False(t, lv.HandleKey(KeyEvent{Key: KeyUp}))
}

func TestListHomeEnd(t *testing.T) {
	lv := NewListView()
	lv.SetItems([]ListItem{
		{Text: "a", Enabled: false},
		{Text: "b", Enabled: true},
		{Text: "c", Enabled: true},
		{Text: "d", Enabled: false},
	})
	lv.Arrange(NewRect(0, 0, 20, 10))

	lv.HandleKey(KeyEvent{Key: KeyEnd})
	assert.Equal(t, 2, lv.HighlightedIndex())
	lv.HandleKey(KeyEvent{Key: KeyHome})
	assert.Equal(t, 1, lv.HighlightedIndex())
}

func TestListTypeAhead(t *testing.T) {
	lv := newTestList(SelectionSimple, "Alpha", "Apple", "Banana")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	lv.now = func() time.Time { return clock }

	lv.HandleKey(KeyEvent{Key: KeyRune, Rune: 'a'})
	assert.Equal(t, 0, lv.HighlightedIndex(), "prefix 'a' matches Alpha")

	clock = clock.Add(200 * time.Millisecond)
	lv.HandleKey(KeyEvent{Key: KeyRune, Rune: 'p'})
	assert.Equal(t, 1, lv.HighlightedIndex(), "prefix 'ap' matches Apple")

	// After the idle gap the buffer resets.
	clock = clock.Add(2 * time.Second)
	lv.HandleKey(KeyEvent{Key: KeyRune, Rune: 'b'})
	assert.Equal(t, 2, lv.HighlightedIndex(), "fresh prefix 'b' matches Banana")
}

func TestListTypeAheadNoMatchKeepsHighlight(t *testing.T) {
	lv := newTestList(SelectionSimple, "Alpha", "Beta")
	lv.SetHighlightedIndex(1)
	assert.True(t, lv.HandleKey(KeyEvent{Key: KeyRune, Rune: 'z'}))
	assert.Equal(t, 1, lv.HighlightedIndex())
}

func TestListTypeAheadSkipsDisabled(t *testing.T) {
	lv := NewListView()
	lv.SetItems([]ListItem{
		{Text: "apple", Enabled: false},
		{Text: "apricot", Enabled: true},
	})
	lv.Arrange(NewRect(0, 0, 20, 10))
	lv.HandleKey(KeyEvent{Key: KeyRune, Rune: 'a'})
	assert.Equal(t, 1, lv.HighlightedIndex())
}

func TestListScrollFollowsHighlight(t *testing.T) {
	lv := newTestList(SelectionSimple, "a", "b", "c", "d", "e", "f")
	lv.Arrange(NewRect(0, 0, 20, 3))

	// Six rows in a height of three overflow, reserving indicator rows.
	lv.SetHighlightedIndex(5)
	assert.Equal(t, 4, lv.scroll)

	lv.SetHighlightedIndex(0)
	assert.Equal(t, 0, lv.scroll)
}

func TestListOverflowIndicators(t *testing.T) {
	lv := newTestList(SelectionSimple, "a", "b", "c", "d", "e", "f")
	lv.Arrange(NewRect(0, 0, 20, 3))
	buf := NewBuffer(20, 3)

	lv.Paint(buf, buf.Bounds(), White, Black)
	assert.Equal(t, '▼', buf.Get(0, 2).Rune, "more below")
	assert.NotEqual(t, '▲', buf.Get(0, 0).Rune, "nothing above yet")

	lv.SetHighlightedIndex(5)
	lv.Paint(buf, buf.Bounds(), White, Black)
	assert.Equal(t, '▲', buf.Get(0, 0).Rune, "scrolled: more above")
}

func TestListBothIndicatorRowsReserved(t *testing.T) {
	lv := newTestList(SelectionSimple, "aa", "bb", "cc", "dd", "ee", "ff")
	lv.Arrange(NewRect(0, 0, 20, 4))
	lv.scroll = 2

	buf := NewBuffer(20, 4)
	lv.Paint(buf, buf.Bounds(), White, Black)

	// Scrolled mid-list: the up and down indicators each own a row and
	// never overwrite an item.
	assert.Equal(t, '▲', buf.Get(0, 0).Rune)
	assert.Equal(t, 'c', buf.Get(2, 1).Rune)
	assert.Equal(t, 'd', buf.Get(2, 2).Rune)
	assert.Equal(t, '▼', buf.Get(0, 3).Rune)
	assert.Equal(t, ' ', buf.Get(2, 3).Rune, "indicator row holds no item text")

	// Hit testing matches the painted rows.
	assert.Equal(t, -1, lv.indexAt(2, 0))
	assert.Equal(t, 2, lv.indexAt(2, 1))
	assert.Equal(t, 3, lv.indexAt(2, 2))
	assert.Equal(t, -1, lv.indexAt(2, 3))
}

func TestListSimpleMergedCursor(t *testing.T) {
	lv := newTestList(SelectionSimple, "one", "two", "three")
	var selections, activated []int
	lv.OnSelectionChanged(func(i int) { selections = append(selections, i) })
	lv.OnItemActivated(func(i int) { activated = append(activated, i) })

	// Moving the highlight moves the selection with it, without activating.
	lv.SetHighlightedIndex(0)
	assert.Equal(t, 0, lv.SelectedIndex())
	lv.HandleKey(KeyEvent{Key: KeyDown})
	assert.Equal(t, 1, lv.SelectedIndex())
	assert.Equal(t, []int{0, 1}, selections)
	assert.Empty(t, activated)

	// Enter on the merged cursor activates without re-firing selection.
	lv.HandleKey(KeyEvent{Key: KeyEnter})
	assert.Equal(t, []int{0, 1}, selections)
	assert.Equal(t, []int{1}, activated)
}

func TestListClickIsABrowse(t *testing.T) {
	lv := newTestList(SelectionComplex, "one", "two", "three")
	lv.SetHighlightedIndex(0)
	lv.HandleKey(KeyEvent{Key: KeyEnter})
	require.Equal(t, 0, lv.SelectedIndex())

	var selections []int
	lv.OnSelectionChanged(func(i int) { selections = append(selections, i) })

	// Clicking another item moves the highlight and clears the committed
	// selection; it never commits.
	ev := &MouseEvent{X: 2, Y: 2, Flags: MouseSingleClick}
	lv.HandleMouse(ev)
	assert.True(t, ev.Handled)
	assert.Equal(t, 2, lv.HighlightedIndex())
	assert.Equal(t, -1, lv.SelectedIndex())
	assert.Equal(t, []int{-1}, selections)
}

func TestListDoubleClickActivates(t *testing.T) {
	lv := newTestList(SelectionComplex, "one", "two", "three")
	var activated []int
	lv.OnItemActivated(func(i int) { activated = append(activated, i) })

	ev := &MouseEvent{X: 2, Y: 1, Flags: MouseDoubleClick}
	lv.HandleMouse(ev)
	assert.True(t, ev.Handled)
	assert.Equal(t, 1, lv.SelectedIndex())
	assert.Equal(t, []int{1}, activated)
}

func TestListLocalDoubleClickSynthesis(t *testing.T) {
	lv := newTestList(SelectionComplex, "one", "two")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	lv.now = func() time.Time { return clock }

	var activated []int
	lv.OnItemActivated(func(i int) { activated = append(activated, i) })

	// Two single clicks on the same item within the threshold count as a
	// double click even without a synthesized flag.
	lv.HandleMouse(&MouseEvent{X: 1, Y: 0, Flags: MouseSingleClick})
	clock = clock.Add(200 * time.Millisecond)
	lv.HandleMouse(&MouseEvent{X: 1, Y: 0, Flags: MouseSingleClick})
	assert.Equal(t, []int{0}, activated)

	// Too slow: two separate browses.
	activated = nil
	clock = clock.Add(time.Second)
	lv.HandleMouse(&MouseEvent{X: 1, Y: 1, Flags: MouseSingleClick})
	clock = clock.Add(time.Second)
	lv.HandleMouse(&MouseEvent{X: 1, Y: 1, Flags: MouseSingleClick})
	assert.Empty(t, activated)
}

func TestListHoverIsVisualOnly(t *testing.T) {
	lv := newTestList(SelectionSimple, "one", "two")
	lv.SetHighlightedIndex(0)

	lv.HandleMouse(&MouseEvent{X: 3, Y: 1})
	assert.Equal(t, 1, lv.hover)
	assert.Equal(t, 0, lv.HighlightedIndex(), "hover must not move the highlight")
	assert.Equal(t, 0, lv.SelectedIndex())

	// Leaving the bounds clears hover.
	lv.HandleMouse(&MouseEvent{X: 50, Y: 50})
	assert.Equal(t, -1, lv.hover)
}

func TestListClickOnDisabledIgnored(t *testing.T) {
	lv := NewListView()
	lv.SetItems([]ListItem{
		{Text: "on", Enabled: true},
		{Text: "off", Enabled: false},
	})
	lv.Arrange(NewRect(0, 0, 20, 10))

	ev := &MouseEvent{X: 1, Y: 1, Flags: MouseSingleClick}
	lv.HandleMouse(ev)
	assert.False(t, ev.Handled)
	assert.Equal(t, -1, lv.HighlightedIndex())
}

func TestListMultilineItemRows(t *testing.T) {
	lv := NewListView()
	lv.SetItems([]ListItem{
		{Text: "one\ntwo", Enabled: true},
		{Text: "three", Enabled: true},
	})
	lv.Arrange(NewRect(0, 0, 20, 10))

	assert.Equal(t, 2, lv.items[0].rows())
	// Row 1 still belongs to item 0.
	assert.Equal(t, 0, lv.indexAt(2, 1))
	assert.Equal(t, 1, lv.indexAt(2, 2))
}

func TestListSetItemsClampsCursors(t *testing.T) {
	lv := newTestList(SelectionSimple, "a", "b", "c")
	lv.SetHighlightedIndex(2)
	lv.SetSelectedIndex(2)
	lv.SetItems([]ListItem{{Text: "only", Enabled: true}})
	assert.Equal(t, 0, lv.HighlightedIndex())
	assert.Equal(t, 0, lv.SelectedIndex())

	lv.SetItems(nil)
	assert.Equal(t, -1, lv.HighlightedIndex())
	assert.False(t, lv.HandleKey(KeyEvent{Key: KeyDown}), "empty list bubbles all keys")
}
