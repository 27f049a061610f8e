package cover

import (
	"fmt"
	"sort"
	"strings"
)

// Partition is an unordered collection of rectangles intended to be mutually
// non-overlapping and to jointly cover every occupied point of a field.
// Partitions are immutable values: every transformation returns a new
// Partition, so the same value can safely serve as the base for many
// candidate successors without defensive copying at call sites.
//
// Members are held in a canonical order internally, which makes structural
// equality and deduplication order-independent.
type Partition struct {
	rects []Rect
}

// NewPartition builds a partition from the given rectangles. The input slice
// is copied.
func NewPartition(rects ...Rect) Partition {
	own := make([]Rect, len(rects))
	copy(own, rects)
	sort.Slice(own, func(i, j int) bool { return rectLess(own[i], own[j]) })
	return Partition{rects: own}
}

// Len returns the partition's cardinality.
func (p Partition) Len() int { return len(p.rects) }

// Score returns the sum of member costs. An empty partition scores zero.
func (p Partition) Score() int {
	total := 0
	for _, r := range p.rects {
		total += r.Cost
	}
	return total
}

// Rects returns a copy of the member rectangles in canonical order.
func (p Partition) Rects() []Rect {
	out := make([]Rect, len(p.rects))
	copy(out, p.rects)
	return out
}

// Covers reports whether at least one member contains the point.
func (p Partition) Covers(pt Point) bool {
	for _, r := range p.rects {
		if r.Contains(pt) {
			return true
		}
	}
	return false
}

// Key returns a canonical string identity for the unordered member set.
// Equal partitions produce equal keys regardless of construction order, so
// the key deduplicates candidates across an agglomeration round.
func (p Partition) Key() string {
	var b strings.Builder
	for _, r := range p.rects {
		fmt.Fprintf(&b, "%d,%d,%d,%d;", r.Top, r.Left, r.Bottom, r.Right)
	}
	return b.String()
}

// Equal reports structural equality by unordered member set.
func (p Partition) Equal(other Partition) bool {
	if len(p.rects) != len(other.rects) {
		return false
	}
	for i := range p.rects {
		if p.rects[i] != other.rects[i] {
			return false
		}
	}
	return true
}

// mergePair returns a new partition with one instance each of a and b
// removed and merged appended. Callers guarantee a and b are members.
func (p Partition) mergePair(a, b, merged Rect) Partition {
	out := make([]Rect, 0, len(p.rects)-1)
	removedA, removedB := false, false
	for _, r := range p.rects {
		if !removedA && r == a {
			removedA = true
			continue
		}
		if !removedB && r == b {
			removedB = true
			continue
		}
		out = append(out, r)
	}
	out = append(out, merged)
	return NewPartition(out...)
}
