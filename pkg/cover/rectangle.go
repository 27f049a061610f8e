package cover

// Overhead is the fixed cost of building one greenhouse, charged on top of
// one unit per cell of covered area.
const Overhead = 10

// Point is an occupied grid cell identified by its (row, column) pair.
// Points are immutable values: they are produced once when the field is
// constructed and never mutated.
type Point struct {
	Row, Col int
}

// Rect is an axis-aligned rectangle with inclusive bounds. Area and Cost are
// algebraic functions of the bounds, computed at construction and never
// assigned independently: Area = (Bottom-Top+1)*(Right-Left+1) and
// Cost = Area + Overhead. Two rectangles with identical bounds are equal and
// interchangeable regardless of how they were constructed.
type Rect struct {
	Top, Left, Bottom, Right int
	Area                     int
	Cost                     int
}

// MakeRect constructs a rectangle from inclusive bounds, normalizing inverted
// bound pairs, and derives its area and cost. It is a pure function: equal
// arguments always yield bit-for-bit equal rectangles.
func MakeRect(top, left, bottom, right int) Rect {
	if bottom < top {
		top, bottom = bottom, top
	}
	if right < left {
		left, right = right, left
	}
	area := (bottom - top + 1) * (right - left + 1)
	return Rect{
		Top:    top,
		Left:   left,
		Bottom: bottom,
		Right:  right,
		Area:   area,
		Cost:   area + Overhead,
	}
}

// Merge returns the smallest rectangle containing both r and other, with
// area and cost rederived from the new bounds. Merge is commutative and
// idempotent; it never mutates its operands.
func (r Rect) Merge(other Rect) Rect {
	top := r.Top
	if other.Top < top {
		top = other.Top
	}
	left := r.Left
	if other.Left < left {
		left = other.Left
	}
	bottom := r.Bottom
	if other.Bottom > bottom {
		bottom = other.Bottom
	}
	right := r.Right
	if other.Right > right {
		right = other.Right
	}
	return MakeRect(top, left, bottom, right)
}

// Contains reports whether the point lies within the rectangle's inclusive
// bounds.
func (r Rect) Contains(p Point) bool {
	return r.Top <= p.Row && p.Row <= r.Bottom && r.Left <= p.Col && p.Col <= r.Right
}

// Intersects reports whether r and other share at least one cell.
func (r Rect) Intersects(other Rect) bool {
	if other.Bottom < r.Top || other.Top > r.Bottom {
		return false
	}
	if other.Right < r.Left || other.Left > r.Right {
		return false
	}
	return true
}

// rectLess orders rectangles lexicographically by bounds. It fixes the
// canonical member order inside partitions and the key order of memoized
// merge pairs.
func rectLess(a, b Rect) bool {
	if a.Top != b.Top {
		return a.Top < b.Top
	}
	if a.Left != b.Left {
		return a.Left < b.Left
	}
	if a.Bottom != b.Bottom {
		return a.Bottom < b.Bottom
	}
	return a.Right < b.Right
}

// boundingRect returns the tightest rectangle enclosing all given points.
// The slice must be non-empty.
func boundingRect(points []Point) Rect {
	top, left := points[0].Row, points[0].Col
	bottom, right := top, left
	for _, p := range points[1:] {
		if p.Row < top {
			top = p.Row
		}
		if p.Row > bottom {
			bottom = p.Row
		}
		if p.Col < left {
			left = p.Col
		}
		if p.Col > right {
			right = p.Col
		}
	}
	return MakeRect(top, left, bottom, right)
}
