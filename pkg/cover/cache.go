package cover

import (
	"fmt"
	"sync"
)

// Queries memoizes the pure rectangle and field queries that dominate the
// search loop: merge, point count, point list, and feasible region. The same
// rectangle is queried many times across successive partitions that share
// most of their members, so results are cached keyed by normalized argument
// values. One Queries instance is shared by every caller within a solving
// session, so equal rectangle pairs produced from different code paths hit
// the same entry. Its lifetime is one problem instance; the bounded state
// space (grid at most 50x50, at most a handful of rectangles) needs no
// eviction.
//
// Population is idempotent: a given key always computes the same value. The
// mutex keeps concurrent callers from racing on the maps themselves; within
// a single-threaded session it is uncontended.
type Queries struct {
	field *Field

	mu      sync.Mutex
	merges  map[rectPair]Rect
	counts  map[Rect]int
	points  map[Rect][]Point
	regions map[Rect]regionEntry
}

// rectPair keys the merge cache. Pairs are stored in canonical order so that
// Merge(a, b) and Merge(b, a) share one entry.
type rectPair struct {
	a, b Rect
}

// regionEntry preserves the distinction between "no points inside" and a
// valid feasible region.
type regionEntry struct {
	rect Rect
	ok   bool
}

// NewQueries creates a memoized query layer bound to one field.
func NewQueries(f *Field) (*Queries, error) {
	if f == nil {
		return nil, fmt.Errorf("NewQueries: field cannot be nil")
	}
	return &Queries{
		field:   f,
		merges:  make(map[rectPair]Rect),
		counts:  make(map[Rect]int),
		points:  make(map[Rect][]Point),
		regions: make(map[Rect]regionEntry),
	}, nil
}

// Field returns the field the cache is bound to.
func (q *Queries) Field() *Field { return q.field }

// Merge returns the memoized bounding rectangle of a and b.
func (q *Queries) Merge(a, b Rect) Rect {
	if rectLess(b, a) {
		a, b = b, a
	}
	key := rectPair{a, b}
	q.mu.Lock()
	defer q.mu.Unlock()
	if m, ok := q.merges[key]; ok {
		return m
	}
	m := a.Merge(b)
	q.merges[key] = m
	return m
}

// CountPoints returns the memoized occupied-point count inside r.
func (q *Queries) CountPoints(r Rect) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n, ok := q.counts[r]; ok {
		return n
	}
	n := q.field.CountPoints(r)
	q.counts[r] = n
	return n
}

// PointsIn returns the memoized list of occupied points inside r. Callers
// must not mutate the returned slice.
func (q *Queries) PointsIn(r Rect) []Point {
	q.mu.Lock()
	defer q.mu.Unlock()
	if pts, ok := q.points[r]; ok {
		return pts
	}
	pts := q.field.PointsIn(r)
	q.points[r] = pts
	return pts
}

// FeasibleRegion returns the memoized tightest rectangle enclosing the
// occupied points inside r; the bool is false when r contains none.
func (q *Queries) FeasibleRegion(r Rect) (Rect, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e, ok := q.regions[r]; ok {
		return e.rect, e.ok
	}
	region, ok := q.field.FeasibleRegion(r)
	q.regions[r] = regionEntry{region, ok}
	return region, ok
}
