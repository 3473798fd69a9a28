package vellum

import (
	"reflect"
	"testing"
)

func rowTexts(rows []WrappedLine) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text
	}
	return out
}

func TestWrapLineChar(t *testing.T) {
	rows := wrapLine(0, "abcdefghij", 4, CharWrap)
	got := rowTexts(rows)
	want := []string{"abcd", "efgh", "ij"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("char wrap: got %q, want %q", got, want)
	}
	for i, r := range rows {
		if r.Line != 0 {
			t.Errorf("row %d: line %d, want 0", i, r.Line)
		}
	}
	if rows[1].Offset != 4 || rows[2].Offset != 8 {
		t.Errorf("offsets: got %d,%d, want 4,8", rows[1].Offset, rows[2].Offset)
	}
}

func TestWrapLineWord(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		width int
		want  []string
	}{
		{"break after space", "hello world", 7, []string{"hello ", "world"}},
		{"exact fit", "hello", 5, []string{"hello"}},
		{"force break long run", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"multiple words", "one two three", 5, []string{"one ", "two ", "three"}},
		{"empty line keeps one row", "", 10, []string{""}},
		{"trailing space kept", "ab ", 5, []string{"ab "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rowTexts(wrapLine(0, tc.line, tc.width, WordWrap))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWrapLineNoWrap(t *testing.T) {
	rows := wrapLine(3, "a long line that exceeds the width", 4, NoWrap)
	if len(rows) != 1 || rows[0].Line != 3 || rows[0].Offset != 0 {
		t.Fatalf("no-wrap must keep one row per line, got %+v", rows)
	}
}

func TestWrapSegmentsWithinWidth(t *testing.T) {
	lines := []string{
		"the quick brown fox jumps over the lazy dog",
		"supercalifragilisticexpialidocious",
		"a b c d e f g h i j k l m n o p q",
		"",
	}
	for _, mode := range []WrapMode{CharWrap, WordWrap} {
		for width := 1; width <= 12; width++ {
			for li, line := range lines {
				for _, r := range wrapLine(li, line, width, mode) {
					if w := runesWidth([]rune(r.Text)); w > width && r.Len() > 1 {
						t.Errorf("mode %d width %d: row %q is %d cells", mode, width, r.Text, w)
					}
				}
			}
		}
	}
}

func TestWrapRoundTrip(t *testing.T) {
	// Concatenating the rows of a line reproduces the line exactly.
	lines := []string{"hello world, this is a test", "nospacesatallinthisline", "", "  leading and trailing  "}
	for _, mode := range []WrapMode{NoWrap, CharWrap, WordWrap} {
		for width := 1; width <= 10; width++ {
			for li, line := range lines {
				joined := ""
				for _, r := range wrapLine(li, line, width, mode) {
					joined += r.Text
				}
				if joined != line {
					t.Errorf("mode %d width %d: round trip %q != %q", mode, width, joined, line)
				}
			}
		}
	}
}

func TestWrapWideRunes(t *testing.T) {
	// Double-width runes count two cells, so only two fit in width 4.
	got := rowTexts(wrapLine(0, "日本語テスト", 4, CharWrap))
	want := []string{"日本", "語テ", "スト"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrapCacheKeying(t *testing.T) {
	var c wrapCache
	lines := []string{"abcdefghij", "xy"}
	c.build(lines, 1, 4, CharWrap)
	if c.rowCount() != 4 {
		t.Fatalf("rowCount = %d, want 4", c.rowCount())
	}
	first := &c.rows[0]

	// Same key: no rebuild (the backing slice is reused in place).
	c.build(lines, 1, 4, CharWrap)
	if &c.rows[0] != first {
		t.Error("rebuild on identical key")
	}

	// New revision rebuilds.
	c.build([]string{"ab"}, 2, 4, CharWrap)
	if c.rowCount() != 1 {
		t.Fatalf("rowCount after rebuild = %d, want 1", c.rowCount())
	}
}

func TestWrapCacheRowFor(t *testing.T) {
	var c wrapCache
	c.build([]string{"abcdefghij", "xy"}, 1, 4, CharWrap)

	cases := []struct {
		line, col   int
		row, offset int
	}{
		{0, 0, 0, 0},
		{0, 3, 0, 3},
		{0, 4, 1, 0}, // segment boundary maps to next row start
		{0, 5, 1, 1},
		{0, 9, 2, 1},
		{0, 10, 2, 2},
		{1, 1, 3, 1},
	}
	for _, tc := range cases {
		row, off := c.rowFor(tc.line, tc.col)
		if row != tc.row || off != tc.offset {
			t.Errorf("rowFor(%d,%d) = (%d,%d), want (%d,%d)", tc.line, tc.col, row, off, tc.row, tc.offset)
		}
	}
}

func TestWrapCachePositionAt(t *testing.T) {
	var c wrapCache
	c.build([]string{"abcdefghij"}, 1, 4, CharWrap)

	line, col := c.positionAt(1, 1)
	if line != 0 || col != 5 {
		t.Fatalf("positionAt(1,1) = (%d,%d), want (0,5)", line, col)
	}
	// Offset clamps into the row.
	line, col = c.positionAt(2, 99)
	if line != 0 || col != 10 {
		t.Fatalf("positionAt(2,99) = (%d,%d), want (0,10)", line, col)
	}
}

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\rc", []string{"a", "b", "c"}},
		{"a\tb", []string{"a    b"}},
		{"a\x00\x1bb", []string{"ab"}},
	}
	for _, tc := range cases {
		if got := splitLines(tc.in, 4); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitLines(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeLine(t *testing.T) {
	if got := sanitizeLine("a\tb\nc\x07d"); got != "a b cd" {
		t.Fatalf("got %q", got)
	}
}
