package vellum

import "github.com/atotto/clipboard"

// Clipboard is the abstract get/set text boundary used by copy, cut and
// paste. No format negotiation; text only.
type Clipboard interface {
	ReadText() string
	WriteText(s string)
}

// SystemClipboard talks to the OS clipboard. Failures degrade to a
// no-op: a failed clipboard read must never prevent a frame from
// rendering or an edit from completing.
type SystemClipboard struct{}

// ReadText returns the clipboard text, or "" if unavailable.
func (SystemClipboard) ReadText() string {
	s, err := clipboard.ReadAll()
	if err != nil {
		return ""
	}
	return s
}

// WriteText stores text on the clipboard, ignoring failures.
func (SystemClipboard) WriteText(s string) {
	_ = clipboard.WriteAll(s)
}

// memClipboard is an in-process clipboard used as a fallback and in tests.
type memClipboard struct {
	text string
}

func (m *memClipboard) ReadText() string   { return m.text }
func (m *memClipboard) WriteText(s string) { m.text = s }
