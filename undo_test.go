package vellum

import "testing"

func TestUndoRingPushPop(t *testing.T) {
	u := newUndoRing(4)
	if u.canUndo() || u.canRedo() {
		t.Fatal("fresh ring reports history")
	}

	u.push(undoEntry{before: "", after: "a"})
	u.push(undoEntry{before: "a", after: "ab"})

	e, ok := u.pop()
	if !ok || e.after != "ab" {
		t.Fatalf("pop = %+v, %v", e, ok)
	}
	if !u.canRedo() {
		t.Fatal("pop must feed redo")
	}
	e, ok = u.unpop()
	if !ok || e.after != "ab" {
		t.Fatalf("unpop = %+v, %v", e, ok)
	}
	if u.canRedo() {
		t.Fatal("redo not consumed")
	}
}

func TestUndoRingOverflowDropsOldest(t *testing.T) {
	u := newUndoRing(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		u.push(undoEntry{after: s})
	}

	var got []string
	for {
		e, ok := u.pop()
		if !ok {
			break
		}
		got = append(got, e.after)
	}
	want := []string{"e", "d", "c"}
	if len(got) != len(want) {
		t.Fatalf("pops = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pops = %q, want %q", got, want)
		}
	}
}

func TestUndoRingPushClearsRedo(t *testing.T) {
	u := newUndoRing(4)
	u.push(undoEntry{after: "a"})
	u.push(undoEntry{after: "b"})
	u.pop()
	u.pop()
	if !u.canRedo() {
		t.Fatal("expected redo history")
	}
	u.push(undoEntry{after: "c"})
	if u.canRedo() {
		t.Fatal("push must clear redo")
	}
}

func TestUndoRingReset(t *testing.T) {
	u := newUndoRing(4)
	u.push(undoEntry{after: "a"})
	u.pop()
	u.reset()
	if u.canUndo() || u.canRedo() {
		t.Fatal("reset left history")
	}
}

func TestPositionLess(t *testing.T) {
	cases := []struct {
		a, b Position
		want bool
	}{
		{Position{Col: 0, Line: 0}, Position{Col: 1, Line: 0}, true},
		{Position{Col: 5, Line: 0}, Position{Col: 0, Line: 1}, true},
		{Position{Col: 0, Line: 1}, Position{Col: 5, Line: 0}, false},
		{Position{Col: 2, Line: 2}, Position{Col: 2, Line: 2}, false},
	}
	for _, tc := range cases {
		if got := tc.a.Less(tc.b); got != tc.want {
			t.Errorf("%+v.Less(%+v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
