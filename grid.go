package vellum

// Column is one vertical slot of a Grid: an ordered stack of child
// controls plus an optional explicit width. A column with no explicit
// width flex-fills leftover space.
type Column struct {
	children []Component
	fixed    int  // explicit width, 0 = flex
	bySplit  bool // explicit width came from a splitter drag
	hidden   bool
	bounds   Rect
}

// NewColumn creates a flexible column with the given children.
func NewColumn(children ...Component) *Column {
	return &Column{children: children}
}

// Add appends children to the column.
func (c *Column) Add(children ...Component) *Column {
	c.children = append(c.children, children...)
	return c
}

// SetFixedWidth gives the column an explicit width; 0 returns it to flex.
func (c *Column) SetFixedWidth(w int) *Column {
	c.fixed = maxInt(0, w)
	c.bySplit = false
	return c
}

// FixedWidth returns the explicit width, 0 for flex.
func (c *Column) FixedWidth() int {
	return c.fixed
}

// Visible reports column visibility.
func (c *Column) Visible() bool {
	return !c.hidden
}

// Bounds returns the column's arranged bounds.
func (c *Column) Bounds() Rect {
	return c.bounds
}

// Children returns the column's child controls.
func (c *Column) Children() []Component {
	return c.children
}

// Splitter sits between two adjacent grid columns. It is focusable and
// paintable; dragging it (or arrow keys while focused) reassigns the
// neighbors' explicit widths. It never creates or destroys columns.
type Splitter struct {
	Base
	grid     *Grid
	index    int // between columns[index] and columns[index+1]
	dragging bool
	dragX    int // last processed pointer column during a drag
}

// Measure implements Component.
func (s *Splitter) Measure(c Constraints) Size {
	return c.Clamp(Size{W: 1, H: 1})
}

// AcceptsFocus implements Focusable.
func (s *Splitter) AcceptsFocus() bool {
	return true
}

// Paint implements Component.
func (s *Splitter) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := s.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(s.ResolveForeground(fg), s.ResolveBackground(bg))
	if s.Focused() {
		style = style.Inverse()
	}
	buf.FillRectClipped(bounds, clip, NewCell(BoxVertical, style))
}

// HandleKey implements KeyHandler: arrows resize the neighbors.
func (s *Splitter) HandleKey(ev KeyEvent) bool {
	switch ev.Key {
	case KeyLeft:
		return s.grid.resizeAt(s.index, -1)
	case KeyRight:
		return s.grid.resizeAt(s.index, 1)
	}
	return false
}

// HandleMouse implements MouseAware: press starts a drag, drag events
// reassign neighbor widths, release ends the drag.
func (s *Splitter) HandleMouse(ev *MouseEvent) {
	switch {
	case ev.Flags.Has(MousePressed) && s.Bounds().Contains(ev.X, ev.Y):
		s.dragging = true
		s.dragX = ev.X
		ev.Handled = true
	case ev.Flags.Has(MouseDragged) && s.dragging:
		// Deltas are relative to the last processed pointer column, not
		// the arranged bounds; several drag events can arrive between
		// arranges.
		delta := ev.X - s.dragX
		if delta != 0 {
			s.grid.resizeAt(s.index, delta)
			s.dragX = ev.X
		}
		ev.Handled = true
	case ev.Flags.Has(MouseReleased) && s.dragging:
		s.dragging = false
		ev.Handled = true
	}
}

// Grid arranges columns left to right with draggable splitters between
// adjacent columns. It implements Host for its children.
type Grid struct {
	Base
	columns   []*Column
	splitters []*Splitter

	// savedWidths remembers splitter-assigned widths released when a
	// neighboring column was hidden, keyed by column identity, so the
	// width is restored when the column shows again.
	savedWidths map[*Column]int
}

// NewGrid creates a grid from the given columns, with a splitter
// between each adjacent pair.
func NewGrid(columns ...*Column) *Grid {
	g := &Grid{
		columns:     columns,
		savedWidths: make(map[*Column]int),
	}
	g.SetFill(true)
	for i := 0; i+1 < len(columns); i++ {
		sp := &Splitter{grid: g, index: i}
		sp.SetHost(g)
		g.splitters = append(g.splitters, sp)
	}
	for _, col := range columns {
		for _, child := range col.children {
			child.SetHost(g)
		}
	}
	return g
}

// Columns returns the grid's columns.
func (g *Grid) Columns() []*Column {
	return g.columns
}

// Children implements Container: all child controls of visible columns
// plus visible splitters, in traversal order.
func (g *Grid) Children() []Component {
	var out []Component
	for i, col := range g.columns {
		if col.hidden {
			continue
		}
		out = append(out, col.children...)
		if sp := g.splitterAfter(i); sp != nil {
			out = append(out, sp)
		}
	}
	return out
}

// splitterAfter returns the splitter to the right of column i when both
// of its neighbors are visible.
func (g *Grid) splitterAfter(i int) *Splitter {
	if i >= len(g.splitters) {
		return nil
	}
	if g.columns[i].hidden || g.columns[i+1].hidden {
		return nil
	}
	return g.splitters[i]
}

// FocusChain implements FocusChain: per visible column left to right,
// its focusable descendants in insertion order (recursing into nested
// containers), then the splitter to its right. Edges are not wrapped
// here; the focus manager handles cycling.
func (g *Grid) FocusChain() []Focusable {
	var out []Focusable
	for i, col := range g.columns {
		if col.hidden {
			continue
		}
		for _, child := range col.children {
			collectFocusables(child, &out)
		}
		if sp := g.splitterAfter(i); sp != nil {
			out = append(out, sp)
		}
	}
	return out
}

// SetColumnVisible toggles a column. Hiding a column releases any
// neighbor widths that were set by splitter drags back to flex (the
// freed space is reclaimed); re-showing restores them from the saved
// width table.
func (g *Grid) SetColumnVisible(i int, visible bool) {
	if i < 0 || i >= len(g.columns) {
		return
	}
	col := g.columns[i]
	if col.hidden == !visible {
		return
	}
	col.hidden = !visible

	for _, ni := range []int{i - 1, i + 1} {
		if ni < 0 || ni >= len(g.columns) {
			continue
		}
		n := g.columns[ni]
		if !visible {
			if n.bySplit {
				g.savedWidths[n] = n.fixed
				n.fixed = 0
				n.bySplit = false
			}
		} else {
			if w, ok := g.savedWidths[n]; ok {
				n.fixed = w
				n.bySplit = true
				delete(g.savedWidths, n)
			}
		}
	}
	g.Invalidate(true)
}

// resizeAt moves the boundary between columns index and index+1 by
// delta cells. The first drag converts a flexible neighbor to fixed at
// its current rendered width.
func (g *Grid) resizeAt(index, delta int) bool {
	if index < 0 || index+1 >= len(g.columns) || delta == 0 {
		return false
	}
	left, right := g.columns[index], g.columns[index+1]
	if left.hidden || right.hidden {
		return false
	}

	lw, rw := left.bounds.W, right.bounds.W
	if left.fixed > 0 {
		lw = left.fixed
	}
	if right.fixed > 0 {
		rw = right.fixed
	}

	// Clamp so neither neighbor collapses below one cell.
	delta = clampInt(delta, 1-lw, rw-1)
	if delta == 0 {
		return false
	}

	left.fixed = lw + delta
	left.bySplit = true
	right.fixed = rw - delta
	right.bySplit = true
	g.Invalidate(true)
	return true
}

// --- layout ---

// Measure implements Component.
func (g *Grid) Measure(c Constraints) Size {
	w, h := 0, 0
	vis := 0
	for i, col := range g.columns {
		if col.hidden {
			continue
		}
		vis++
		cw := col.fixed
		ch := 0
		for _, child := range col.children {
			cs := child.Measure(Loose(Unbounded, Unbounded))
			if col.fixed == 0 && cs.W > cw {
				cw = cs.W
			}
			ch += cs.H
		}
		w += cw
		if ch > h {
			h = ch
		}
		if g.splitterAfter(i) != nil {
			w++
		}
	}
	if vis == 0 {
		return c.Clamp(Size{})
	}
	return g.measureBox(c, Size{W: w, H: h})
}

// Arrange implements Component: fixed columns keep their width, flex
// columns share the leftover equally, splitters take one cell between
// visible neighbors. Children stack vertically inside each column; fill
// children absorb the leftover column height.
func (g *Grid) Arrange(bounds Rect) {
	g.Base.Arrange(bounds)

	var visible []*Column
	splitterCells := 0
	fixedTotal := 0
	flexCount := 0
	for i, col := range g.columns {
		if col.hidden {
			col.bounds = Rect{}
			continue
		}
		visible = append(visible, col)
		if col.fixed > 0 {
			fixedTotal += col.fixed
		} else {
			flexCount++
		}
		if g.splitterAfter(i) != nil {
			splitterCells++
		}
	}
	if len(visible) == 0 {
		return
	}

	avail := maxInt(0, bounds.W-splitterCells-fixedTotal)
	flexShare, flexRem := 0, 0
	if flexCount > 0 {
		flexShare = avail / flexCount
		flexRem = avail % flexCount
	}

	x := bounds.X
	for i, col := range g.columns {
		if col.hidden {
			continue
		}
		w := col.fixed
		if w == 0 {
			w = flexShare
			if flexRem > 0 {
				w++
				flexRem--
			}
		}
		w = minInt(w, maxInt(0, bounds.Right()-x))
		col.bounds = NewRect(x, bounds.Y, w, bounds.H)
		g.arrangeColumn(col)
		x += w
		if sp := g.splitterAfter(i); sp != nil {
			sp.Arrange(NewRect(x, bounds.Y, 1, bounds.H))
			x++
		}
	}
}

// arrangeColumn stacks the column's children, giving leftover height to
// fill children.
func (g *Grid) arrangeColumn(col *Column) {
	inner := col.bounds
	y := inner.Y
	remaining := inner.H

	type measured struct {
		c Component
		s Size
		f bool
	}
	var ms []measured
	fillCount := 0
	fixedH := 0
	for _, child := range col.children {
		if !child.Visible() {
			child.Arrange(Rect{})
			continue
		}
		s := child.Measure(Loose(inner.W, inner.H))
		fill := false
		if f, ok := child.(interface{ Fill() bool }); ok && f.Fill() {
			fill = true
			fillCount++
		} else {
			fixedH += s.H
		}
		ms = append(ms, measured{child, s, fill})
	}

	fillAvail := maxInt(0, remaining-fixedH)
	fillShare, fillRem := 0, 0
	if fillCount > 0 {
		fillShare = fillAvail / fillCount
		fillRem = fillAvail % fillCount
	}

	for _, m := range ms {
		h := m.s.H
		if m.f {
			h = fillShare
			if fillRem > 0 {
				h++
				fillRem--
			}
		}
		h = minInt(h, maxInt(0, inner.Bottom()-y))
		m.c.Arrange(NewRect(inner.X, y, inner.W, h))
		y += h
	}
}

// Paint implements Component: the grid paints only its own chrome (the
// background); children are painted by the tree walker.
func (g *Grid) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := g.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(g.ResolveForeground(fg), g.ResolveBackground(bg))
	buf.FillRectClipped(bounds, clip, NewCell(' ', style))
}

// HandleMouse routes mouse events: splitters first (a mid-drag splitter
// keeps receiving events), then children of visible columns. Hit-testing
// happens against arranged bounds inside each handler, so flexible
// columns route by their actual rendered widths.
func (g *Grid) HandleMouse(ev *MouseEvent) {
	for i := range g.splitters {
		if g.splitterAfter(i) == nil && !g.splitters[i].dragging {
			continue
		}
		g.splitters[i].HandleMouse(ev)
		if ev.Handled {
			return
		}
	}
	for _, col := range g.columns {
		if col.hidden {
			continue
		}
		for _, child := range col.children {
			if ma, ok := child.(MouseAware); ok && child.Visible() {
				ma.HandleMouse(ev)
				if ev.Handled {
					return
				}
			}
		}
	}
}

// --- Host ---

// Invalidate implements Host, forwarding to the grid's own host.
func (g *Grid) Invalidate(full bool) {
	g.Base.Invalidate(full)
}

// ForegroundColor implements Host.
func (g *Grid) ForegroundColor() Color {
	return g.ResolveForeground(DefaultColor())
}

// BackgroundColor implements Host.
func (g *Grid) BackgroundColor() Color {
	return g.ResolveBackground(DefaultColor())
}

// VisibleHeightFor implements Host: the child's arranged height clipped
// to the grid's bounds.
func (g *Grid) VisibleHeightFor(c Component) int {
	return c.Bounds().Intersect(g.Bounds()).H
}

// Panel is a vertical stack container with a margin and optional border
// and background, the stacked variant of the grid.
type Panel struct {
	Base
	children []Component
	border   *BorderStyle
	gap      int
}

// NewPanel creates a panel with the given children.
func NewPanel(children ...Component) *Panel {
	p := &Panel{children: children}
	p.SetFill(true)
	for _, c := range children {
		c.SetHost(p)
	}
	return p
}

// Add appends children.
func (p *Panel) Add(children ...Component) *Panel {
	for _, c := range children {
		c.SetHost(p)
		p.children = append(p.children, c)
	}
	p.Invalidate(true)
	return p
}

// SetBorder draws a border around the panel's content.
func (p *Panel) SetBorder(b BorderStyle) *Panel {
	p.border = &b
	p.Invalidate(true)
	return p
}

// SetGap sets the vertical space between children.
func (p *Panel) SetGap(gap int) *Panel {
	p.gap = maxInt(0, gap)
	p.Invalidate(true)
	return p
}

// Children implements Container.
func (p *Panel) Children() []Component {
	return p.children
}

func (p *Panel) chrome() int {
	if p.border != nil {
		return 2
	}
	return 0
}

// inner returns the content rectangle inside margin and border.
func (p *Panel) inner() Rect {
	r := p.Bounds().Inset(p.Margin())
	if p.border != nil {
		r = r.Inset(UniformMargin(1))
	}
	return r
}

// Measure implements Component.
func (p *Panel) Measure(c Constraints) Size {
	w, h := 0, 0
	n := 0
	for _, child := range p.children {
		if !child.Visible() {
			continue
		}
		s := child.Measure(Loose(Unbounded, Unbounded))
		if s.W > w {
			w = s.W
		}
		h += s.H
		n++
	}
	if n > 1 {
		h += p.gap * (n - 1)
	}
	m := p.Margin()
	return p.measureBox(c, Size{
		W: w + m.Horizontal() + p.chrome(),
		H: h + m.Vertical() + p.chrome(),
	})
}

// Arrange implements Component.
func (p *Panel) Arrange(bounds Rect) {
	p.Base.Arrange(bounds)
	inner := p.inner()
	y := inner.Y

	fillCount := 0
	fixedH := 0
	type measured struct {
		c Component
		s Size
		f bool
	}
	var ms []measured
	for _, child := range p.children {
		if !child.Visible() {
			child.Arrange(Rect{})
			continue
		}
		s := child.Measure(Loose(inner.W, inner.H))
		fill := false
		if f, ok := child.(interface{ Fill() bool }); ok && f.Fill() {
			fill = true
			fillCount++
		} else {
			fixedH += s.H
		}
		ms = append(ms, measured{child, s, fill})
	}
	gaps := 0
	if len(ms) > 1 {
		gaps = p.gap * (len(ms) - 1)
	}
	fillAvail := maxInt(0, inner.H-fixedH-gaps)
	fillShare, fillRem := 0, 0
	if fillCount > 0 {
		fillShare = fillAvail / fillCount
		fillRem = fillAvail % fillCount
	}

	for i, m := range ms {
		h := m.s.H
		if m.f {
			h = fillShare
			if fillRem > 0 {
				h++
				fillRem--
			}
		}
		h = minInt(h, maxInt(0, inner.Bottom()-y))
		m.c.Arrange(NewRect(inner.X, y, inner.W, h))
		y += h
		if i < len(ms)-1 {
			y += p.gap
		}
	}
}

// Paint implements Component: background and border chrome only.
func (p *Panel) Paint(buf *Buffer, clip Rect, fg, bg Color) {
	bounds := p.Bounds()
	clip = clip.Intersect(bounds)
	style := NewStyle(p.ResolveForeground(fg), p.ResolveBackground(bg))
	buf.FillRectClipped(bounds, clip, NewCell(' ', style))
	if p.border != nil {
		buf.DrawBorder(bounds.Inset(p.Margin()), *p.border, style)
	}
}

// HandleMouse forwards to mouse-aware children until one handles it.
func (p *Panel) HandleMouse(ev *MouseEvent) {
	for _, child := range p.children {
		if ma, ok := child.(MouseAware); ok && child.Visible() {
			ma.HandleMouse(ev)
			if ev.Handled {
				return
			}
		}
	}
}

// Invalidate implements Host.
func (p *Panel) Invalidate(full bool) {
	p.Base.Invalidate(full)
}

// ForegroundColor implements Host.
func (p *Panel) ForegroundColor() Color {
	return p.ResolveForeground(DefaultColor())
}

// BackgroundColor implements Host.
func (p *Panel) BackgroundColor() Color {
	return p.ResolveBackground(DefaultColor())
}

// VisibleHeightFor implements Host.
func (p *Panel) VisibleHeightFor(c Component) int {
	return c.Bounds().Intersect(p.inner()).H
}
