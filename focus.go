package vellum

// FocusChain is implemented by containers that define their own focus
// traversal order (the grid orders children column by column with
// splitters interleaved). Containers without it are walked in child
// insertion order.
type FocusChain interface {
	FocusChain() []Focusable
}

// FocusManager owns keyboard focus for a control tree. It routes keys
// to the focused control first; unconsumed Tab/Shift-Tab then cycle
// focus. Containers themselves never wrap at their edges; only the
// manager cycles, so nested containers can hand traversal outward.
type FocusManager struct {
	items    []Focusable
	current  int
	onChange []func(prev, cur Focusable)
}

// NewFocusManager creates an empty focus manager.
func NewFocusManager() *FocusManager {
	return &FocusManager{current: -1}
}

// Rebuild collects focusable controls from the tree in traversal order
// and re-establishes focus on the previously focused control when it is
// still present.
func (fm *FocusManager) Rebuild(root Component) {
	var prev Focusable
	if fm.current >= 0 && fm.current < len(fm.items) {
		prev = fm.items[fm.current]
	}

	fm.items = fm.items[:0]
	collectFocusables(root, &fm.items)

	fm.current = -1
	for i, f := range fm.items {
		if f == prev {
			fm.current = i
			return
		}
	}
	if prev != nil {
		prev.SetFocused(false)
	}
	if len(fm.items) > 0 {
		fm.current = 0
		fm.items[0].SetFocused(true)
	}
}

func collectFocusables(c Component, out *[]Focusable) {
	if c == nil || !c.Visible() {
		return
	}
	if fc, ok := c.(FocusChain); ok {
		for _, f := range fc.FocusChain() {
			if f.Visible() && f.Enabled() {
				*out = append(*out, f)
			}
		}
		return
	}
	if f, ok := c.(Focusable); ok {
		if f.AcceptsFocus() && f.Enabled() {
			*out = append(*out, f)
		}
	}
	if ct, ok := c.(Container); ok {
		for _, child := range ct.Children() {
			collectFocusables(child, out)
		}
	}
}

// OnFocusChanged registers a callback fired after focus moves.
func (fm *FocusManager) OnFocusChanged(fn func(prev, cur Focusable)) {
	fm.onChange = append(fm.onChange, fn)
}

// Current returns the focused control, or nil.
func (fm *FocusManager) Current() Focusable {
	if fm.current < 0 || fm.current >= len(fm.items) {
		return nil
	}
	return fm.items[fm.current]
}

// Next moves focus forward, wrapping at the end.
func (fm *FocusManager) Next() {
	fm.move(1)
}

// Prev moves focus backward, wrapping at the start.
func (fm *FocusManager) Prev() {
	fm.move(-1)
}

func (fm *FocusManager) move(delta int) {
	if len(fm.items) == 0 {
		return
	}
	prev := fm.Current()
	if fm.current < 0 {
		fm.current = 0
	} else {
		fm.current = (fm.current + len(fm.items) + delta) % len(fm.items)
	}
	cur := fm.items[fm.current]
	if prev == cur {
		return
	}
	if prev != nil {
		prev.SetFocused(false)
	}
	cur.SetFocused(true)
	fm.notify(prev, cur)
}

// Focus moves focus to a specific control if it is managed.
func (fm *FocusManager) Focus(target Focusable) {
	for i, f := range fm.items {
		if f == target {
			if i == fm.current {
				return
			}
			prev := fm.Current()
			if prev != nil {
				prev.SetFocused(false)
			}
			fm.current = i
			f.SetFocused(true)
			fm.notify(prev, f)
			return
		}
	}
}

func (fm *FocusManager) notify(prev, cur Focusable) {
	for _, fn := range fm.onChange {
		fn(prev, cur)
	}
}

// HandleKey routes a key event: the focused control gets first claim;
// unconsumed Tab/Shift-Tab cycle focus. Returns true if the event was
// consumed.
func (fm *FocusManager) HandleKey(ev KeyEvent) bool {
	if cur := fm.Current(); cur != nil {
		if kh, ok := cur.(KeyHandler); ok && kh.HandleKey(ev) {
			return true
		}
	}
	switch ev.Key {
	case KeyTab:
		if ev.Mod.Has(ModShift) {
			fm.Prev()
		} else {
			fm.Next()
		}
		return true
	case KeyBacktab:
		fm.Prev()
		return true
	}
	return false
}
