package cover

import (
	"errors"
	"fmt"
)

// Instance bounds accepted without complaint. Larger grids and targets
// outside the range still solve, but Validate flags them so the driver can
// apply its reject-or-proceed policy.
const (
	MaxGridRows = 50
	MaxGridCols = 50
	MinTarget   = 1
	MaxTarget   = 10
)

// Validation sentinels for malformed instance bounds.
var (
	ErrGridTooLarge     = errors.New("grid exceeds maximum dimensions")
	ErrTargetOutOfRange = errors.New("maximum greenhouse count out of range")
)

// Field is one full problem instance: the grid dimensions, the set of
// occupied points grouped by row, the bounding rectangle of all occupied
// points (the root region), and the maximum number of greenhouses the
// covering may use. A Field is built once from input and read-only
// thereafter; the memoized query layer in Queries sits on top of it.
type Field struct {
	numRows, numCols int
	maxGreenhouses   int
	rows             [][]Point
	occupied         map[Point]struct{}
	root             Rect
	hasRoot          bool
}

// NewField builds a field from grid dimensions, the occupied point set, and
// the maximum greenhouse count. Points must lie within the grid; duplicates
// are rejected. An empty point set is valid and yields a field with no root
// region.
func NewField(numRows, numCols, maxGreenhouses int, points []Point) (*Field, error) {
	if numRows < 0 || numCols < 0 {
		return nil, fmt.Errorf("NewField: negative grid dimensions %dx%d", numRows, numCols)
	}
	f := &Field{
		numRows:        numRows,
		numCols:        numCols,
		maxGreenhouses: maxGreenhouses,
		rows:           make([][]Point, numRows),
		occupied:       make(map[Point]struct{}, len(points)),
	}
	for _, p := range points {
		if p.Row < 0 || p.Row >= numRows || p.Col < 0 || p.Col >= numCols {
			return nil, fmt.Errorf("NewField: point (%d,%d) outside %dx%d grid", p.Row, p.Col, numRows, numCols)
		}
		if _, dup := f.occupied[p]; dup {
			return nil, fmt.Errorf("NewField: duplicate point (%d,%d)", p.Row, p.Col)
		}
		f.occupied[p] = struct{}{}
		f.rows[p.Row] = append(f.rows[p.Row], p)
		if !f.hasRoot {
			f.root = MakeRect(p.Row, p.Col, p.Row, p.Col)
			f.hasRoot = true
		} else {
			f.root = f.root.Merge(MakeRect(p.Row, p.Col, p.Row, p.Col))
		}
	}
	return f, nil
}

// NumRows returns the grid's row count.
func (f *Field) NumRows() int { return f.numRows }

// NumCols returns the grid's column count.
func (f *Field) NumCols() int { return f.numCols }

// MaxGreenhouses returns the configured maximum rectangle count for a valid
// covering. The best-solution tracker uses it as its acceptance cap.
func (f *Field) MaxGreenhouses() int { return f.maxGreenhouses }

// NumPoints returns the number of occupied points.
func (f *Field) NumPoints() int { return len(f.occupied) }

// Root returns the bounding rectangle of all occupied points. The second
// result is false when the field has no occupied points, which is distinct
// from a root covering the whole grid.
func (f *Field) Root() (Rect, bool) { return f.root, f.hasRoot }

// Occupied reports whether the given cell holds a berry.
func (f *Field) Occupied(p Point) bool {
	_, ok := f.occupied[p]
	return ok
}

// Points returns every occupied point in row-major order.
func (f *Field) Points() []Point {
	out := make([]Point, 0, len(f.occupied))
	for _, row := range f.rows {
		out = append(out, row...)
	}
	return out
}

// CountPoints returns the number of occupied points inside the rectangle.
// Only the rows spanned by the rectangle are scanned.
func (f *Field) CountPoints(r Rect) int {
	n := 0
	for i := max(r.Top, 0); i <= r.Bottom && i < f.numRows; i++ {
		for _, p := range f.rows[i] {
			if r.Left <= p.Col && p.Col <= r.Right {
				n++
			}
		}
	}
	return n
}

// PointsIn returns the occupied points inside the rectangle in row-major
// order.
func (f *Field) PointsIn(r Rect) []Point {
	var out []Point
	for i := max(r.Top, 0); i <= r.Bottom && i < f.numRows; i++ {
		for _, p := range f.rows[i] {
			if r.Left <= p.Col && p.Col <= r.Right {
				out = append(out, p)
			}
		}
	}
	return out
}

// FeasibleRegion returns the tightest rectangle enclosing the occupied
// points inside r. The second result is false when r contains no points.
func (f *Field) FeasibleRegion(r Rect) (Rect, bool) {
	points := f.PointsIn(r)
	if len(points) == 0 {
		return Rect{}, false
	}
	return boundingRect(points), true
}

// Validate checks the field against the documented instance bounds: grids no
// larger than 50x50 and a maximum greenhouse count in [1,10]. The solver
// itself accepts out-of-bounds instances; whether a violation rejects the
// instance or merely warns is the driver's policy decision.
func (f *Field) Validate() error {
	if f.numRows > MaxGridRows || f.numCols > MaxGridCols {
		return fmt.Errorf("%w: got %dx%d, limit %dx%d",
			ErrGridTooLarge, f.numRows, f.numCols, MaxGridRows, MaxGridCols)
	}
	if f.maxGreenhouses < MinTarget || f.maxGreenhouses > MaxTarget {
		return fmt.Errorf("%w: got %d, want %d..%d",
			ErrTargetOutOfRange, f.maxGreenhouses, MinTarget, MaxTarget)
	}
	return nil
}
