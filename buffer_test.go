package vellum

import "testing"

func TestBufferSetGet(t *testing.T) {
	b := NewBuffer(4, 3)
	c := NewCell('x', DefaultStyle().Bold())
	b.Set(1, 2, c)
	if got := b.Get(1, 2); got != c {
		t.Errorf("Get = %+v, want %+v", got, c)
	}
	if got := b.Get(0, 0); got != EmptyCell() {
		t.Errorf("untouched cell = %+v", got)
	}
}

func TestBufferOutOfBoundsIsNoop(t *testing.T) {
	b := NewBuffer(2, 2)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {100, 100}} {
		b.Set(p[0], p[1], NewCell('x', DefaultStyle()))
		if got := b.Get(p[0], p[1]); got != EmptyCell() {
			t.Errorf("(%d,%d): expected empty, got %+v", p[0], p[1], got)
		}
	}
}

func TestBufferSetClipped(t *testing.T) {
	b := NewBuffer(10, 10)
	clip := NewRect(2, 2, 3, 3)
	b.SetClipped(1, 1, NewCell('a', DefaultStyle()), clip)
	b.SetClipped(3, 3, NewCell('b', DefaultStyle()), clip)
	b.SetClipped(5, 5, NewCell('c', DefaultStyle()), clip)

	if b.Get(1, 1).Rune != ' ' {
		t.Error("write outside clip landed")
	}
	if b.Get(3, 3).Rune != 'b' {
		t.Error("write inside clip dropped")
	}
	if b.Get(5, 5).Rune != ' ' {
		t.Error("write on clip edge landed (clip is exclusive at right/bottom)")
	}
}

func TestBufferFillRect(t *testing.T) {
	b := NewBuffer(5, 5)
	b.FillRect(NewRect(1, 1, 3, 2), NewCell('#', DefaultStyle()))
	if b.Line(1) != " ###" || b.Line(2) != " ###" || b.Line(0) != "" || b.Line(3) != "" {
		t.Errorf("unexpected contents:\n%s", b.String())
	}

	// A rect hanging off the edge clips instead of panicking.
	b.FillRect(NewRect(4, 4, 10, 10), NewCell('@', DefaultStyle()))
	if b.Get(4, 4).Rune != '@' {
		t.Error("clipped fill missed in-bounds corner")
	}
}

func TestBufferWriteString(t *testing.T) {
	b := NewBuffer(10, 2)
	n := b.WriteString(1, 0, "hi", DefaultStyle())
	if n != 2 {
		t.Errorf("covered = %d, want 2", n)
	}
	if b.Line(0) != " hi" {
		t.Errorf("line = %q", b.Line(0))
	}
}

func TestBufferWriteStringWideRunes(t *testing.T) {
	b := NewBuffer(10, 1)
	n := b.WriteString(0, 0, "日本", DefaultStyle())
	if n != 4 {
		t.Errorf("covered = %d, want 4", n)
	}
	if b.Get(0, 0).Rune != '日' {
		t.Errorf("cell 0 = %q", b.Get(0, 0).Rune)
	}
	if b.Get(1, 0).Rune != 0 {
		t.Error("continuation cell must hold a zero rune")
	}
	if b.Get(2, 0).Rune != '本' {
		t.Errorf("cell 2 = %q", b.Get(2, 0).Rune)
	}
}

func TestBufferDrawBorder(t *testing.T) {
	b := NewBuffer(5, 4)
	b.DrawBorder(NewRect(0, 0, 5, 4), BorderSingle, DefaultStyle())
	want := "┌───┐\n│   │\n│   │\n└───┘"
	if b.String() != want {
		t.Errorf("border:\n%s\nwant:\n%s", b.String(), want)
	}

	// Degenerate rects draw nothing.
	b2 := NewBuffer(5, 4)
	b2.DrawBorder(NewRect(0, 0, 1, 4), BorderSingle, DefaultStyle())
	if b2.String() != "\n\n\n" {
		t.Errorf("degenerate border drew: %q", b2.String())
	}
}

func TestBufferResizePreservesContent(t *testing.T) {
	b := NewBuffer(4, 2)
	b.WriteString(0, 0, "abcd", DefaultStyle())
	b.WriteString(0, 1, "efgh", DefaultStyle())

	b.Resize(2, 3)
	if b.Width() != 2 || b.Height() != 3 {
		t.Fatalf("size = %dx%d", b.Width(), b.Height())
	}
	if b.Line(0) != "ab" || b.Line(1) != "ef" || b.Line(2) != "" {
		t.Errorf("content after shrink: %q", b.String())
	}

	b.Resize(4, 3)
	if b.Line(0) != "ab" {
		t.Errorf("content after grow: %q", b.Line(0))
	}
	if b.Get(3, 0) != EmptyCell() {
		t.Error("grown area not empty")
	}
}

func TestBufferHVLine(t *testing.T) {
	b := NewBuffer(5, 5)
	b.HLine(1, 2, 3, '-', DefaultStyle())
	b.VLine(2, 0, 5, '|', DefaultStyle())
	if b.Get(1, 2).Rune != '-' || b.Get(3, 2).Rune != '-' {
		t.Error("hline missing cells")
	}
	if b.Get(2, 0).Rune != '|' || b.Get(2, 4).Rune != '|' {
		t.Error("vline missing cells")
	}
}
