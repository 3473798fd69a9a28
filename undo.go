package vellum

// Position is a document coordinate: rune column within a line, and the
// line index.
type Position struct {
	Col, Line int
}

// Less orders positions by (line, column).
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

// undoEntry is a whole-document snapshot around one discrete user
// action. Snapshots are O(document) by design: documents in a terminal
// editor are bounded, and whole-text captures sidestep the correctness
// pitfalls of diff patching.
type undoEntry struct {
	before, after             string
	cursorBefore, cursorAfter Position
}

// undoRing holds a bounded undo history in a ring buffer, so trimming
// the oldest entry on overflow is O(1). A new commit clears the redo
// stack (linear undo, not a tree).
type undoRing struct {
	entries []undoEntry
	head    int // next push slot
	size    int
	redo    []undoEntry
}

const defaultUndoDepth = 100

func newUndoRing(depth int) *undoRing {
	if depth < 1 {
		depth = defaultUndoDepth
	}
	return &undoRing{entries: make([]undoEntry, depth)}
}

// push records a committed action and invalidates redo history.
func (u *undoRing) push(e undoEntry) {
	u.entries[u.head] = e
	u.head = (u.head + 1) % len(u.entries)
	if u.size < len(u.entries) {
		u.size++
	}
	u.redo = u.redo[:0]
}

// pop removes and returns the most recent action, moving it to the redo
// stack.
func (u *undoRing) pop() (undoEntry, bool) {
	if u.size == 0 {
		return undoEntry{}, false
	}
	u.head = (u.head - 1 + len(u.entries)) % len(u.entries)
	u.size--
	e := u.entries[u.head]
	u.redo = append(u.redo, e)
	return e, true
}

// unpop re-applies the most recently undone action, moving it back onto
// the undo ring without disturbing the remaining redo stack.
func (u *undoRing) unpop() (undoEntry, bool) {
	if len(u.redo) == 0 {
		return undoEntry{}, false
	}
	e := u.redo[len(u.redo)-1]
	u.redo = u.redo[:len(u.redo)-1]
	u.entries[u.head] = e
	u.head = (u.head + 1) % len(u.entries)
	if u.size < len(u.entries) {
		u.size++
	}
	return e, true
}

// reset drops all history.
func (u *undoRing) reset() {
	u.head = 0
	u.size = 0
	u.redo = u.redo[:0]
}

// canUndo reports whether history exists.
func (u *undoRing) canUndo() bool { return u.size > 0 }

// canRedo reports whether undone actions can be re-applied.
func (u *undoRing) canRedo() bool { return len(u.redo) > 0 }
