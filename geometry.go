package vellum

// Unbounded marks a constraint axis with no effective maximum.
// It is large enough to never bind in practice while leaving headroom
// for arithmetic without overflow.
const Unbounded = 1 << 24

// Rect is a rectangle in cell coordinates.
type Rect struct {
	X, Y, W, H int
}

// NewRect creates a rectangle, clamping negative dimensions to zero.
func NewRect(x, y, w, h int) Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty returns true if the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlapping region of two rectangles.
// The result is empty if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := maxInt(r.X, o.X)
	y1 := maxInt(r.Y, o.Y)
	x2 := minInt(r.Right(), o.Right())
	y2 := minInt(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Inset returns the rectangle shrunk by a margin on all four sides.
func (r Rect) Inset(m Margin) Rect {
	return NewRect(r.X+m.Left, r.Y+m.Top, r.W-m.Left-m.Right, r.H-m.Top-m.Bottom)
}

// Size is a width/height pair in cells.
type Size struct {
	W, H int
}

// Constraints bound a Measure call.
type Constraints struct {
	MinW, MaxW int
	MinH, MaxH int
}

// Loose returns constraints with zero minimums and the given maximums.
func Loose(maxW, maxH int) Constraints {
	return Constraints{MaxW: maxW, MaxH: maxH}
}

// Tight returns constraints that admit exactly one size.
func Tight(w, h int) Constraints {
	return Constraints{MinW: w, MaxW: w, MinH: h, MaxH: h}
}

// Clamp forces a size into the constraint bounds.
func (c Constraints) Clamp(s Size) Size {
	return Size{
		W: clampInt(s.W, c.MinW, c.MaxW),
		H: clampInt(s.H, c.MinH, c.MaxH),
	}
}

// BoundedW returns true if the width axis has an effective maximum.
func (c Constraints) BoundedW() bool {
	return c.MaxW < Unbounded
}

// BoundedH returns true if the height axis has an effective maximum.
func (c Constraints) BoundedH() bool {
	return c.MaxH < Unbounded
}

// Shrink reduces both maximums by the given amounts, keeping mins valid.
func (c Constraints) Shrink(w, h int) Constraints {
	c.MaxW = maxInt(0, c.MaxW-w)
	c.MaxH = maxInt(0, c.MaxH-h)
	if c.MinW > c.MaxW {
		c.MinW = c.MaxW
	}
	if c.MinH > c.MaxH {
		c.MinH = c.MaxH
	}
	return c
}

// Margin is per-control spacing outside the content box. All sides >= 0.
type Margin struct {
	Left, Top, Right, Bottom int
}

// NewMargin creates a margin, clamping negative sides to zero.
func NewMargin(left, top, right, bottom int) Margin {
	return Margin{
		Left:   maxInt(0, left),
		Top:    maxInt(0, top),
		Right:  maxInt(0, right),
		Bottom: maxInt(0, bottom),
	}
}

// UniformMargin creates an equal margin on all sides.
func UniformMargin(m int) Margin {
	return NewMargin(m, m, m, m)
}

// Horizontal returns left + right.
func (m Margin) Horizontal() int {
	return m.Left + m.Right
}

// Vertical returns top + bottom.
func (m Margin) Vertical() int {
	return m.Top + m.Bottom
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
