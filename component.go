package vellum

// Component is the interface all controls implement. Layout is a
// three-phase cycle: Measure computes a desired size under constraints,
// Arrange assigns final bounds, Paint writes cells.
type Component interface {
	// Measure returns the desired size clamped into the constraints.
	// It must not mutate layout-visible state beyond internal memoization.
	Measure(c Constraints) Size

	// Arrange assigns the final bounds decided by the parent.
	Arrange(bounds Rect)

	// Bounds returns the bounds assigned by the last Arrange.
	Bounds() Rect

	// Paint writes the control's cells into buf, restricted to
	// clip ∩ Bounds(). Every cell of the bounds must be written
	// (background fill at minimum) so stale frame contents never
	// show through.
	Paint(buf *Buffer, clip Rect, fg, bg Color)

	// Visible controls participate in layout, paint and traversal;
	// hidden ones are skipped entirely.
	Visible() bool

	// Host wiring
	Host() Host
	SetHost(Host)
}

// Container is a component that owns children. A container's own Paint
// draws only its chrome; children are painted as separate tree nodes by
// the layout walker, never re-painted by the parent.
type Container interface {
	Component
	Children() []Component
}

// Host is the non-owning back-reference a control keeps to whatever
// contains it. It is used only for read-only color lookups, invalidation
// and clip-aware scroll math, never for lifetime management.
type Host interface {
	// Invalidate requests a repaint; full forces a complete redraw.
	Invalidate(full bool)

	// ForegroundColor and BackgroundColor resolve through the container
	// chain down to the theme.
	ForegroundColor() Color
	BackgroundColor() Color

	// VisibleHeightFor reports how many rows of a control are actually
	// visible inside the host's viewport.
	VisibleHeightFor(c Component) int
}

// Focusable is implemented by controls that can own keyboard focus.
type Focusable interface {
	Component
	Focused() bool
	SetFocused(bool)
	// Enabled components can receive focus; disabled ones are skipped
	// by traversal.
	Enabled() bool
	// AcceptsFocus distinguishes interactive controls from static ones,
	// since every control embeds the same base state.
	AcceptsFocus() bool
}

// KeyHandler is implemented by controls that consume keyboard input.
// HandleKey returns true only if the key changed content, cursor or
// selection state; anything else bubbles so enclosing shortcut handlers
// can claim it.
type KeyHandler interface {
	HandleKey(ev KeyEvent) bool
}

// MouseAware is implemented by controls that react to mouse input.
// Coordinates are absolute buffer cells; the control compares against
// its arranged bounds.
type MouseAware interface {
	HandleMouse(ev *MouseEvent)
}

// Base provides common state for all controls. Embed it in control
// structs.
type Base struct {
	host   Host
	bounds Rect
	margin Margin
	hidden bool

	fixedW, fixedH int  // explicit size, 0 = unset
	fill           bool // stretch to parent at arrange time

	fgOverride *Color
	bgOverride *Color

	focused  bool
	disabled bool
}

// Host returns the owning container handle, or nil.
func (b *Base) Host() Host {
	return b.host
}

// SetHost sets the owning container handle.
func (b *Base) SetHost(h Host) {
	b.host = h
}

// Bounds returns the bounds assigned by the last Arrange.
func (b *Base) Bounds() Rect {
	return b.bounds
}

// Arrange records the assigned bounds.
func (b *Base) Arrange(bounds Rect) {
	b.bounds = bounds
}

// Visible returns true unless the control has been hidden.
func (b *Base) Visible() bool {
	return !b.hidden
}

// SetVisible shows or hides the control.
func (b *Base) SetVisible(v bool) {
	if b.hidden != !v {
		b.hidden = !v
		b.Invalidate(true)
	}
}

// Margin returns the control's outer spacing.
func (b *Base) Margin() Margin {
	return b.margin
}

// SetMargin sets the control's outer spacing.
func (b *Base) SetMargin(m Margin) {
	b.margin = m
	b.Invalidate(true)
}

// SetFixedSize forces an explicit size (0 leaves an axis natural).
func (b *Base) SetFixedSize(w, h int) {
	b.fixedW = maxInt(0, w)
	b.fixedH = maxInt(0, h)
	b.Invalidate(true)
}

// SetFill makes the control stretch to the space its parent offers.
func (b *Base) SetFill(fill bool) {
	b.fill = fill
	b.Invalidate(true)
}

// Fill reports whether the control stretches at arrange time.
func (b *Base) Fill() bool {
	return b.fill
}

// Focused reports keyboard focus.
func (b *Base) Focused() bool {
	return b.focused
}

// SetFocused updates the focus flag and requests repaint.
func (b *Base) SetFocused(f bool) {
	if b.focused != f {
		b.focused = f
		b.Invalidate(false)
	}
}

// Enabled reports whether the control accepts focus and input.
func (b *Base) Enabled() bool {
	return !b.disabled
}

// AcceptsFocus returns false; interactive controls override it.
func (b *Base) AcceptsFocus() bool {
	return false
}

// SetEnabled enables or disables the control.
func (b *Base) SetEnabled(e bool) {
	b.disabled = !e
	b.Invalidate(false)
}

// SetForeground overrides the resolved foreground color.
func (b *Base) SetForeground(c Color) {
	b.fgOverride = &c
	b.Invalidate(false)
}

// SetBackground overrides the resolved background color.
func (b *Base) SetBackground(c Color) {
	b.bgOverride = &c
	b.Invalidate(false)
}

// ClearColors removes any color overrides, falling back to the host chain.
func (b *Base) ClearColors() {
	b.fgOverride = nil
	b.bgOverride = nil
	b.Invalidate(false)
}

// ResolveForeground picks the effective foreground: own override, then
// the host chain, then the supplied default.
func (b *Base) ResolveForeground(def Color) Color {
	if b.fgOverride != nil {
		return *b.fgOverride
	}
	if b.host != nil {
		if c := b.host.ForegroundColor(); !c.IsDefault() {
			return c
		}
	}
	return def
}

// ResolveBackground picks the effective background like ResolveForeground.
func (b *Base) ResolveBackground(def Color) Color {
	if b.bgOverride != nil {
		return *b.bgOverride
	}
	if b.host != nil {
		if c := b.host.BackgroundColor(); !c.IsDefault() {
			return c
		}
	}
	return def
}

// Invalidate forwards a repaint request to the host, if any.
func (b *Base) Invalidate(full bool) {
	if b.host != nil {
		b.host.Invalidate(full)
	}
}

// measureBox resolves the size precedence shared by all controls:
// explicit fixed size, then stretch-to-parent for fill controls, then
// the natural size, clamped into the constraints. Fill controls under
// unbounded constraints fall back to the natural size and rely on the
// arrange phase for final sizing.
func (b *Base) measureBox(c Constraints, natural Size) Size {
	s := natural
	if b.fixedW > 0 {
		s.W = b.fixedW
	} else if b.fill && c.BoundedW() {
		s.W = c.MaxW
	}
	if b.fixedH > 0 {
		s.H = b.fixedH
	} else if b.fill && c.BoundedH() {
		s.H = c.MaxH
	}
	return c.Clamp(s)
}
