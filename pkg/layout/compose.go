package layout

import "math"

// Point is a person's centre.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box given by its edges.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width of the box.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height of the box.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Contains reports whether pt lies inside r, edges included.
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.MinX && pt.X <= r.MaxX && pt.Y >= r.MinY && pt.Y <= r.MaxY
}

// emptyRect is the identity for extend.
func emptyRect() Rect {
	return Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (r Rect) empty() bool { return r.MinX > r.MaxX }

// extend grows r to cover a node box centred at pt.
func (r Rect) extend(pt Point, cfg Config) Rect {
	return Rect{
		MinX: math.Min(r.MinX, pt.X-cfg.NodeWidth/2),
		MinY: math.Min(r.MinY, pt.Y-cfg.NodeHeight/2),
		MaxX: math.Max(r.MaxX, pt.X+cfg.NodeWidth/2),
		MaxY: math.Max(r.MaxY, pt.Y+cfg.NodeHeight/2),
	}
}

func (r Rect) translate(dx, dy float64) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// compositor places independently positioned forests left to right,
// wrapping onto a new row when Config.MaxRowWidth is exceeded.
type compositor struct {
	cfg Config

	cursorX  float64 // left edge of the next block
	rowY     float64 // centre y of depth 0 in the current row
	rowMaxY  float64 // lowest centre y placed in the current row
	rowEmpty bool
}

func newCompositor(cfg Config) *compositor {
	return &compositor{cfg: cfg, rowEmpty: true}
}

// reserve returns the left edge for a block of the given width, starting a
// new row first when the block would overflow the current one.
func (c *compositor) reserve(width float64) float64 {
	if c.cfg.MaxRowWidth > 0 && !c.rowEmpty && c.cursorX+width > c.cfg.MaxRowWidth {
		c.cursorX = 0
		c.rowY = c.rowMaxY + c.cfg.NodeHeight + c.cfg.FamilyGap
		c.rowMaxY = c.rowY
	}
	left := c.cursorX
	c.cursorX += width
	if c.rowEmpty {
		c.rowMaxY = c.rowY
	}
	c.rowEmpty = false
	return left
}

// placeForest translates local placements so their bounding box starts at
// the cursor and depth 0 sits on the current row.
func (c *compositor) placeForest(placements []Placement, pos map[string]Point) Rect {
	box := emptyRect()
	for _, pl := range placements {
		box = box.extend(Point{pl.X, pl.Y}, c.cfg)
	}
	left := c.reserve(box.Width())
	dx := left - box.MinX
	dy := c.rowY

	for _, pl := range placements {
		pt := Point{pl.X + dx, pl.Y + dy}
		pos[pl.ID] = pt
		c.rowMaxY = math.Max(c.rowMaxY, pt.Y)
	}
	c.cursorX += c.cfg.FamilyGap
	return box.translate(dx, dy)
}

// placeStrip lays persons out one by one at the row's top level, spaced
// HGap apart.
func (c *compositor) placeStrip(ids []string, pos map[string]Point) {
	for _, id := range ids {
		left := c.reserve(c.cfg.NodeWidth)
		pos[id] = Point{left + c.cfg.NodeWidth/2, c.rowY}
		c.cursorX += c.cfg.HGap
	}
}

// normalize shifts every point so the leftmost card edge sits at
// cfg.Padding and the top row's centre y equals cfg.Padding, and returns the
// applied offset.
func normalize(pos map[string]Point, cfg Config) (dx, dy float64) {
	if len(pos) == 0 {
		return 0, 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	for _, pt := range pos {
		minX = math.Min(minX, pt.X-cfg.NodeWidth/2)
		minY = math.Min(minY, pt.Y)
	}
	dx, dy = cfg.Padding-minX, cfg.Padding-minY
	for id, pt := range pos {
		pos[id] = Point{pt.X + dx, pt.Y + dy}
	}
	return dx, dy
}
