package vellum

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Screen is the window/invalidation coordinator. It owns the terminal
// (via tcell), the root component, keyboard focus and the frame buffer,
// and drives the measure→arrange→paint cycle.
//
// A single goroutine (the one calling Run) owns the control tree.
// Invalidate is safe from any goroutine; requests are coalesced into at
// most one repaint per loop wakeup. Post marshals a function onto the
// UI goroutine for background tasks that need to mutate controls.
type Screen struct {
	ts    tcell.Screen
	root  Component
	focus *FocusManager
	buf   *Buffer
	theme Theme

	dirtyMu   sync.Mutex
	dirtyFull bool
	wake      chan struct{} // coalesced invalidation signal

	posted   chan func()
	events   chan tcell.Event
	stop     chan struct{}
	tickIvl  time.Duration
	tickFn   func()

	// click synthesis
	lastPressX, lastPressY int
	lastPressTime          time.Time
	clickCount             int
	buttonsDown            tcell.ButtonMask
}

// NewScreen initializes the terminal and returns a coordinator.
func NewScreen() (*Screen, error) {
	ts, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := ts.Init(); err != nil {
		return nil, err
	}
	ts.EnableMouse()
	return NewScreenWith(ts), nil
}

// NewScreenWith wraps an already-initialized tcell screen (tests use
// tcell's simulation screen).
func NewScreenWith(ts tcell.Screen) *Screen {
	w, h := ts.Size()
	return &Screen{
		ts:     ts,
		focus:  NewFocusManager(),
		buf:    NewBuffer(w, h),
		theme:  ThemeDark,
		wake:   make(chan struct{}, 1),
		posted: make(chan func(), 16),
		events: make(chan tcell.Event, 16),
		stop:   make(chan struct{}),
	}
}

// SetTheme replaces the fallback theme.
func (s *Screen) SetTheme(t Theme) {
	s.theme = t
	s.Invalidate(true)
}

// Theme returns the active theme.
func (s *Screen) Theme() Theme {
	return s.theme
}

// Focus returns the focus manager.
func (s *Screen) Focus() *FocusManager {
	return s.focus
}

// SetRoot installs the root component and rebuilds focus order.
func (s *Screen) SetRoot(root Component) {
	s.root = root
	root.SetHost(s)
	s.focus.Rebuild(root)
	s.Invalidate(true)
}

// SetTick installs an app-driven background refresh: fn runs on the UI
// goroutine every interval while Run is active.
func (s *Screen) SetTick(interval time.Duration, fn func()) {
	s.tickIvl = interval
	s.tickFn = fn
}

// Post schedules fn to run on the UI goroutine before the next paint.
// Background tasks must use Post (or Invalidate) rather than touching
// controls directly.
func (s *Screen) Post(fn func()) {
	select {
	case s.posted <- fn:
	case <-s.stop:
	}
}

// Stop ends the Run loop.
func (s *Screen) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

// Fini releases the terminal.
func (s *Screen) Fini() {
	s.ts.Fini()
}

// --- Host ---

// Invalidate implements Host. Requests from any goroutine are coalesced
// into at most one pending repaint; a full redraw request upgrades a
// pending partial one.
func (s *Screen) Invalidate(full bool) {
	s.dirtyMu.Lock()
	s.dirtyFull = s.dirtyFull || full
	s.dirtyMu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// takeDirty consumes the pending invalidation state.
func (s *Screen) takeDirty() bool {
	s.dirtyMu.Lock()
	full := s.dirtyFull
	s.dirtyFull = false
	s.dirtyMu.Unlock()
	return full
}

// ForegroundColor implements Host.
func (s *Screen) ForegroundColor() Color {
	return s.theme.Foreground
}

// BackgroundColor implements Host.
func (s *Screen) BackgroundColor() Color {
	return s.theme.Background
}

// VisibleHeightFor implements Host.
func (s *Screen) VisibleHeightFor(c Component) int {
	return c.Bounds().Intersect(s.buf.Bounds()).H
}

// --- run loop ---

// Run drives the event/render loop until ctx is done or Stop is called.
func (s *Screen) Run(ctx context.Context) {
	go s.pollEvents()

	var tick <-chan time.Time
	if s.tickFn != nil && s.tickIvl > 0 {
		t := time.NewTicker(s.tickIvl)
		defer t.Stop()
		tick = t.C
	}

	s.render(true)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case ev := <-s.events:
			s.dispatch(ev)
		case fn := <-s.posted:
			fn()
		case <-tick:
			s.tickFn()
		case <-s.wake:
			s.render(s.takeDirty())
		}
	}
}

func (s *Screen) pollEvents() {
	for {
		ev := s.ts.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.stop:
			return
		}
	}
}

// RenderOnce runs one synchronous measure/arrange/paint cycle. Tests
// and hosts without an event loop use it.
func (s *Screen) RenderOnce() {
	s.render(true)
}

// Buffer exposes the last painted frame (tests).
func (s *Screen) Buffer() *Buffer {
	return s.buf
}

func (s *Screen) render(full bool) {
	if s.root == nil {
		return
	}
	w, h := s.ts.Size()
	s.buf.Resize(w, h)
	if full {
		s.buf.Fill(NewCell(' ', NewStyle(s.theme.Foreground, s.theme.Background)))
	}

	bounds := NewRect(0, 0, w, h)
	s.root.Measure(Loose(w, h))
	s.root.Arrange(bounds)
	paintTree(s.root, s.buf, bounds, s.theme.Foreground, s.theme.Background)
	s.flush()
}

// paintTree walks the component tree: each node paints its own cells,
// children are painted afterward clipped to the parent's bounds. A
// parent never re-paints its children.
func paintTree(c Component, buf *Buffer, clip Rect, fg, bg Color) {
	if c == nil || !c.Visible() {
		return
	}
	childClip := clip.Intersect(c.Bounds())
	c.Paint(buf, childClip, fg, bg)
	if ct, ok := c.(Container); ok {
		for _, child := range ct.Children() {
			paintTree(child, buf, childClip, fg, bg)
		}
	}
}

// flush writes the frame buffer to the terminal.
func (s *Screen) flush() {
	for y := 0; y < s.buf.Height(); y++ {
		for x := 0; x < s.buf.Width(); x++ {
			cell := s.buf.Get(x, y)
			if cell.Rune == 0 {
				continue // wide-rune continuation
			}
			s.ts.SetContent(x, y, cell.Rune, nil, toTcellStyle(cell.Style))
		}
	}
	s.ts.Show()
}

// --- event dispatch ---

func (s *Screen) dispatch(ev tcell.Event) {
	switch tev := ev.(type) {
	case *tcell.EventResize:
		s.ts.Sync()
		s.Invalidate(true)
	case *tcell.EventKey:
		ke := convertKey(tev)
		if !s.focus.HandleKey(ke) && ke.Key == KeyRune && ke.Mod.Has(ModCtrl) && (ke.Rune == 'c' || ke.Rune == 'q') {
			s.Stop()
		}
	case *tcell.EventMouse:
		for _, me := range s.convertMouse(tev) {
			s.routeMouse(me)
		}
	}
}

func (s *Screen) routeMouse(me MouseEvent) {
	if s.root == nil {
		return
	}
	if ma, ok := s.root.(MouseAware); ok {
		ma.HandleMouse(&me)
	}
}

// convertKey maps a tcell key event to the toolkit contract.
func convertKey(ev *tcell.EventKey) KeyEvent {
	var mod Modifiers
	if ev.Modifiers()&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mod |= ModAlt
	}

	k := ev.Key()
	switch k {
	case tcell.KeyRune:
		return KeyEvent{Key: KeyRune, Mod: mod, Rune: ev.Rune()}
	case tcell.KeyUp:
		return KeyEvent{Key: KeyUp, Mod: mod}
	case tcell.KeyDown:
		return KeyEvent{Key: KeyDown, Mod: mod}
	case tcell.KeyLeft:
		return KeyEvent{Key: KeyLeft, Mod: mod}
	case tcell.KeyRight:
		return KeyEvent{Key: KeyRight, Mod: mod}
	case tcell.KeyHome:
		return KeyEvent{Key: KeyHome, Mod: mod}
	case tcell.KeyEnd:
		return KeyEvent{Key: KeyEnd, Mod: mod}
	case tcell.KeyPgUp:
		return KeyEvent{Key: KeyPageUp, Mod: mod}
	case tcell.KeyPgDn:
		return KeyEvent{Key: KeyPageDown, Mod: mod}
	case tcell.KeyEnter:
		return KeyEvent{Key: KeyEnter, Mod: mod}
	case tcell.KeyEscape:
		return KeyEvent{Key: KeyEscape, Mod: mod}
	case tcell.KeyTab:
		return KeyEvent{Key: KeyTab, Mod: mod}
	case tcell.KeyBacktab:
		return KeyEvent{Key: KeyBacktab, Mod: mod}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyEvent{Key: KeyBackspace, Mod: mod}
	case tcell.KeyDelete:
		return KeyEvent{Key: KeyDelete, Mod: mod}
	case tcell.KeyInsert:
		return KeyEvent{Key: KeyInsert, Mod: mod}
	}

	// Control chords arrive as dedicated key codes. Checked after the
	// named keys: Enter, Tab and Backspace are aliases in this range.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return KeyEvent{Key: KeyRune, Mod: mod | ModCtrl, Rune: rune('a' + k - tcell.KeyCtrlA)}
	}
	return KeyEvent{Key: KeyNone, Mod: mod}
}

const multiClickWindow = 400 * time.Millisecond

// convertMouse maps a tcell mouse event to one or more toolkit events,
// synthesizing press/release/drag transitions and single/double/triple
// clicks from press timing.
func (s *Screen) convertMouse(ev *tcell.EventMouse) []MouseEvent {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		return []MouseEvent{{X: x, Y: y, Flags: MouseWheelUp}}
	case buttons&tcell.WheelDown != 0:
		return []MouseEvent{{X: x, Y: y, Flags: MouseWheelDown}}
	}

	pressed := buttons&tcell.Button1 != 0
	wasPressed := s.buttonsDown&tcell.Button1 != 0
	s.buttonsDown = buttons

	switch {
	case pressed && !wasPressed:
		now := time.Now()
		if now.Sub(s.lastPressTime) <= multiClickWindow && x == s.lastPressX && y == s.lastPressY {
			s.clickCount++
		} else {
			s.clickCount = 1
		}
		s.lastPressTime = now
		s.lastPressX, s.lastPressY = x, y
		return []MouseEvent{{X: x, Y: y, Flags: MousePressed}}

	case pressed && wasPressed:
		return []MouseEvent{{X: x, Y: y, Flags: MouseDragged}}

	case !pressed && wasPressed:
		click := MouseSingleClick
		switch {
		case s.clickCount >= 3:
			click = MouseTripleClick
		case s.clickCount == 2:
			click = MouseDoubleClick
		}
		return []MouseEvent{
			{X: x, Y: y, Flags: MouseReleased},
			{X: x, Y: y, Flags: click},
		}
	}

	// Motion with no buttons: hover.
	return []MouseEvent{{X: x, Y: y}}
}

// toTcellStyle converts a toolkit style for the terminal backend.
func toTcellStyle(st Style) tcell.Style {
	out := tcell.StyleDefault.
		Foreground(toTcellColor(st.FG)).
		Background(toTcellColor(st.BG))
	if st.Attr.Has(AttrBold) {
		out = out.Bold(true)
	}
	if st.Attr.Has(AttrDim) {
		out = out.Dim(true)
	}
	if st.Attr.Has(AttrItalic) {
		out = out.Italic(true)
	}
	if st.Attr.Has(AttrUnderline) {
		out = out.Underline(true)
	}
	if st.Attr.Has(AttrBlink) {
		out = out.Blink(true)
	}
	if st.Attr.Has(AttrInverse) {
		out = out.Reverse(true)
	}
	if st.Attr.Has(AttrStrikethrough) {
		out = out.StrikeThrough(true)
	}
	return out
}

func toTcellColor(c Color) tcell.Color {
	switch c.Mode {
	case Color16, Color256:
		return tcell.PaletteColor(int(c.Index))
	case ColorRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return tcell.ColorDefault
}
