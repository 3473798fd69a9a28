package vellum

import "github.com/mattn/go-runewidth"

// Alignment positions content inside a control's bounds.
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Label is a single-line static text control.
type Label struct {
	Base
	text  string
	align Alignment
}

// NewLabel creates a label with the given text.
func NewLabel(text string) *Label {
	return &Label{text: sanitizeLine(text)}
}

// SetText replaces the label text.
func (l *Label) SetText(text string) {
	text = sanitizeLine(text)
	if l.text != text {
		l.text = text
		l.Invalidate(false)
	}
}

// Text returns the label text.
func (l *Label) Text() string {
	return l.text
}

// SetAlignment sets horizontal text alignment.
func (l *Label) SetAlignment(a Alignment) {
	l.align = a
	l.Invalidate(false)
}

// Measure implements Component.
func (l *Label) Measure(c Constraints) Size {
	return l.measureBox(c, Size{W: runewidth.StringWidth(l.text), H: 1})
}

// Paint implements Component.
func (l *Label) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := l.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(l.ResolveForeground(fg), l.ResolveBackground(bg))
	buf.FillRectClipped(bounds, clip, NewCell(' ', style))

	x := bounds.X
	tw := runewidth.StringWidth(l.text)
	switch l.align {
	case AlignCenter:
		x += maxInt(0, (bounds.W-tw)/2)
	case AlignRight:
		x += maxInt(0, bounds.W-tw)
	}
	buf.WriteStringClipped(x, bounds.Y, l.text, style, clip)
}

// Button is a focusable control activated by Enter, Space or mouse click.
type Button struct {
	Base
	text       string
	onActivate []func()
}

// NewButton creates a button with the given caption.
func NewButton(text string) *Button {
	return &Button{text: sanitizeLine(text)}
}

// SetText replaces the button caption.
func (b *Button) SetText(text string) {
	b.text = sanitizeLine(text)
	b.Invalidate(false)
}

// OnActivate registers an activation callback.
func (b *Button) OnActivate(fn func()) {
	b.onActivate = append(b.onActivate, fn)
}

// AcceptsFocus implements Focusable.
func (b *Button) AcceptsFocus() bool {
	return true
}

func (b *Button) activate() {
	for _, fn := range b.onActivate {
		fn()
	}
}

// Measure implements Component. Caption plus the "[ ]" chrome.
func (b *Button) Measure(c Constraints) Size {
	return b.measureBox(c, Size{W: runewidth.StringWidth(b.text) + 4, H: 1})
}

// Paint implements Component.
func (b *Button) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := b.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(b.ResolveForeground(fg), b.ResolveBackground(bg))
	if b.Focused() {
		style = style.Inverse()
	}
	if !b.Enabled() {
		style = style.Dim()
	}
	buf.FillRectClipped(bounds, clip, NewCell(' ', style))
	buf.WriteStringClipped(bounds.X, bounds.Y, "[ "+b.text+" ]", style, clip)
}

// HandleKey implements KeyHandler.
func (b *Button) HandleKey(ev KeyEvent) bool {
	if !b.Enabled() {
		return false
	}
	if ev.Key == KeyEnter || (ev.Key == KeyRune && ev.Rune == ' ' && ev.Mod == 0) {
		b.activate()
		return true
	}
	return false
}

// HandleMouse implements MouseAware.
func (b *Button) HandleMouse(ev *MouseEvent) {
	if !b.Enabled() || !b.Bounds().Contains(ev.X, ev.Y) {
		return
	}
	if ev.Flags.Has(MouseSingleClick) || ev.Flags.Has(MouseDoubleClick) {
		b.activate()
		ev.Handled = true
	}
}

// Spacer is invisible flexible space. A flex spacer absorbs leftover
// room in its container; a fixed spacer reserves an exact gap.
type Spacer struct {
	Base
}

// NewSpacer creates a flexible spacer.
func NewSpacer() *Spacer {
	s := &Spacer{}
	s.SetFill(true)
	return s
}

// NewFixedSpacer creates a spacer with an exact size.
func NewFixedSpacer(w, h int) *Spacer {
	s := &Spacer{}
	s.SetFixedSize(w, h)
	return s
}

// Measure implements Component.
func (s *Spacer) Measure(c Constraints) Size {
	return s.measureBox(c, Size{})
}

// Paint implements Component. The spacer still fills its cells so stale
// frame contents never show through.
func (s *Spacer) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := s.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(s.ResolveForeground(fg), s.ResolveBackground(bg))
	buf.FillRectClipped(bounds, clip, NewCell(' ', style))
}

// Rule is a horizontal or vertical line.
type Rule struct {
	Base
	vertical bool
}

// NewRule creates a horizontal rule.
func NewRule() *Rule {
	r := &Rule{}
	r.SetFill(true)
	return r
}

// NewVRule creates a vertical rule.
func NewVRule() *Rule {
	r := &Rule{vertical: true}
	r.SetFill(true)
	return r
}

// Measure implements Component.
func (r *Rule) Measure(c Constraints) Size {
	if r.vertical {
		return r.measureBox(c, Size{W: 1, H: 1})
	}
	return r.measureBox(c, Size{W: 1, H: 1})
}

// Paint implements Component.
func (r *Rule) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := r.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(r.ResolveForeground(fg), r.ResolveBackground(bg))
	ch := BoxHorizontal
	if r.vertical {
		ch = BoxVertical
	}
	buf.FillRectClipped(bounds, clip, NewCell(ch, style))
}

// ScrollBar is a paintable scroll indicator that can also be driven by
// the mouse (wheel and track clicks).
type ScrollBar struct {
	Base
	vertical bool
	total    int // content extent in rows/cols
	viewport int // visible extent
	offset   int // current scroll position
	onScroll []func(offset int)
}

// NewScrollBar creates a vertical scroll bar.
func NewScrollBar() *ScrollBar {
	return &ScrollBar{vertical: true}
}

// NewHScrollBar creates a horizontal scroll bar.
func NewHScrollBar() *ScrollBar {
	return &ScrollBar{}
}

// OnScroll registers a callback fired when the bar changes the offset.
func (s *ScrollBar) OnScroll(fn func(offset int)) {
	s.onScroll = append(s.onScroll, fn)
}

// SetRange updates content and viewport extents, clamping the offset.
func (s *ScrollBar) SetRange(total, viewport int) {
	s.total = maxInt(0, total)
	s.viewport = maxInt(0, viewport)
	s.SetOffset(s.offset)
}

// SetOffset moves the scroll position, clamped into the valid range.
func (s *ScrollBar) SetOffset(offset int) {
	offset = clampInt(offset, 0, s.maxOffset())
	if offset == s.offset {
		return
	}
	s.offset = offset
	s.Invalidate(false)
	for _, fn := range s.onScroll {
		fn(offset)
	}
}

// Offset returns the current scroll position.
func (s *ScrollBar) Offset() int {
	return s.offset
}

func (s *ScrollBar) maxOffset() int {
	return maxInt(0, s.total-s.viewport)
}

// Measure implements Component.
func (s *ScrollBar) Measure(c Constraints) Size {
	if s.vertical {
		return s.measureBox(c, Size{W: 1, H: 4})
	}
	return s.measureBox(c, Size{W: 4, H: 1})
}

// Paint implements Component.
func (s *ScrollBar) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := s.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(s.ResolveForeground(fg), s.ResolveBackground(bg))
	buf.FillRectClipped(bounds, clip, NewCell('░', style))

	track := bounds.H
	if !s.vertical {
		track = bounds.W
	}
	start, length := s.thumb(track)
	for i := 0; i < length; i++ {
		if s.vertical {
			buf.SetClipped(bounds.X, bounds.Y+start+i, NewCell('█', style), clip)
		} else {
			buf.SetClipped(bounds.X+start+i, bounds.Y, NewCell('█', style), clip)
		}
	}
}

// thumb computes the thumb position and length for a given track size.
func (s *ScrollBar) thumb(track int) (start, length int) {
	if s.total <= 0 || s.viewport <= 0 || track <= 0 {
		return 0, track
	}
	if s.total <= s.viewport {
		return 0, track
	}
	length = maxInt(1, track*s.viewport/s.total)
	maxStart := track - length
	start = clampInt(s.offset*maxStart/s.maxOffset(), 0, maxStart)
	return start, length
}

// HandleMouse implements MouseAware.
func (s *ScrollBar) HandleMouse(ev *MouseEvent) {
	bounds := s.Bounds()
	if !bounds.Contains(ev.X, ev.Y) {
		return
	}
	switch {
	case ev.Flags.Has(MouseWheelUp):
		s.SetOffset(s.offset - 1)
		ev.Handled = true
	case ev.Flags.Has(MouseWheelDown):
		s.SetOffset(s.offset + 1)
		ev.Handled = true
	case ev.Flags.Has(MousePressed) || ev.Flags.Has(MouseSingleClick):
		track := bounds.H
		pos := ev.Y - bounds.Y
		if !s.vertical {
			track = bounds.W
			pos = ev.X - bounds.X
		}
		start, length := s.thumb(track)
		if pos < start {
			s.SetOffset(s.offset - s.viewport) // page toward the click
		} else if pos >= start+length {
			s.SetOffset(s.offset + s.viewport)
		}
		ev.Handled = true
	}
}
