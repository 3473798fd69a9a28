package vellum

// Key identifies a non-printable key. Printable input arrives as KeyRune
// with the rune set. The core never sees raw terminal bytes; the screen
// driver decodes them into these events.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyEnter
	KeyEscape
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert
)

// Modifiers are key modifier flags.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the modifier set contains all given flags.
func (m Modifiers) Has(flags Modifiers) bool {
	return m&flags == flags
}

// KeyEvent is a decoded keyboard event.
type KeyEvent struct {
	Key  Key
	Mod  Modifiers
	Rune rune // set when Key == KeyRune
}

// Printable returns true for events that insert a character.
func (k KeyEvent) Printable() bool {
	return k.Key == KeyRune && k.Rune >= ' ' && !k.Mod.Has(ModCtrl) && !k.Mod.Has(ModAlt)
}

// MouseFlags describe what a mouse event represents. Press/release/drag
// are raw transitions; single/double/triple click are synthesized by the
// screen driver from press timing.
type MouseFlags uint16

const (
	MousePressed MouseFlags = 1 << iota
	MouseReleased
	MouseDragged
	MouseSingleClick
	MouseDoubleClick
	MouseTripleClick
	MouseWheelUp
	MouseWheelDown
)

// Has returns true if the flag set contains all given flags.
func (f MouseFlags) Has(flags MouseFlags) bool {
	return f&flags == flags
}

// MouseEvent is a decoded mouse event in cell coordinates.
// Handlers set Handled to stop propagation; unhandled events continue
// to sibling and parent hit-testing.
type MouseEvent struct {
	X, Y    int
	Flags   MouseFlags
	Handled bool
}
