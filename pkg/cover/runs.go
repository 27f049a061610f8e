package cover

import "math/rand"

// Initial-partition construction. Two symmetric passes cluster consecutive
// occupied cells into runs along each axis, leftover points become singleton
// rectangles, and each axis list is densified by merging locally adjacent
// clusters whenever the merge introduces no empty cells. The horizontal and
// vertical results are then intersected per point: points sharing the same
// (horizontal run, vertical run) pair group into one rectangle of the final
// starting partition, which yields finer, naturally aligned rectangles than
// either axis alone.

// minRunLength is the shortest consecutive sequence of occupied cells that
// forms a run; shorter sequences fall through to singleton assignment.
const minRunLength = 2

// initialPartition derives the dense starting partition for a session.
func initialPartition(q *Queries, rng *rand.Rand) Partition {
	f := q.Field()

	horizontal := consolidate(q, rng, assignSingletons(f, horizontalRuns(f)))
	vertical := consolidate(q, rng, assignSingletons(f, verticalRuns(f)))

	// Label every point with the pair of run indices containing it; points
	// with identical labels form one rectangle.
	groups := make(map[[2]int][]Point)
	for _, p := range f.Points() {
		key := [2]int{indexOfContaining(horizontal, p), indexOfContaining(vertical, p)}
		groups[key] = append(groups[key], p)
	}
	rects := make([]Rect, 0, len(groups))
	for _, pts := range groups {
		rects = append(rects, boundingRect(pts))
	}
	return NewPartition(rects...)
}

// horizontalRuns scans each row and yields one bounding rectangle per
// maximal sequence of at least minRunLength consecutive occupied cells.
func horizontalRuns(f *Field) []Rect {
	var runs []Rect
	for row := 0; row < f.NumRows(); row++ {
		start, length := 0, 0
		for col := 0; col < f.NumCols(); col++ {
			if f.Occupied(Point{Row: row, Col: col}) {
				if length == 0 {
					start = col
				}
				length++
				continue
			}
			if length >= minRunLength {
				runs = append(runs, MakeRect(row, start, row, start+length-1))
			}
			length = 0
		}
		if length >= minRunLength {
			runs = append(runs, MakeRect(row, start, row, start+length-1))
		}
	}
	return runs
}

// verticalRuns is the column-wise mirror of horizontalRuns.
func verticalRuns(f *Field) []Rect {
	var runs []Rect
	for col := 0; col < f.NumCols(); col++ {
		start, length := 0, 0
		for row := 0; row < f.NumRows(); row++ {
			if f.Occupied(Point{Row: row, Col: col}) {
				if length == 0 {
					start = row
				}
				length++
				continue
			}
			if length >= minRunLength {
				runs = append(runs, MakeRect(start, col, start+length-1, col))
			}
			length = 0
		}
		if length >= minRunLength {
			runs = append(runs, MakeRect(start, col, start+length-1, col))
		}
	}
	return runs
}

// assignSingletons appends a 1x1 rectangle for every occupied point not
// covered by any rectangle in the list, so each axis list covers the whole
// field before consolidation.
func assignSingletons(f *Field, rects []Rect) []Rect {
	out := append([]Rect(nil), rects...)
	for _, p := range f.Points() {
		covered := false
		for _, r := range out {
			if r.Contains(p) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, MakeRect(p.Row, p.Col, p.Row, p.Col))
		}
	}
	return out
}

// consolidate repeatedly merges rectangle pairs whose merge preserves
// density (the merged bounding box's point count equals its area, so no
// empty cell is absorbed) and is local (exactly the two rectangles being
// merged intersect the merged box among all current members, so no
// unrelated cluster is silently swallowed). Pairs are visited in shuffled
// order; the scan repeats until a full pass performs no merge.
func consolidate(q *Queries, rng *rand.Rand, rects []Rect) []Rect {
	work := append([]Rect(nil), rects...)
	for {
		merged := 0
		snapshot := append([]Rect(nil), work...)
		for _, pair := range shuffledPairs(rng, snapshot) {
			if !containsRect(work, pair[0]) || !containsRect(work, pair[1]) {
				continue
			}
			m := q.Merge(pair[0], pair[1])
			if q.CountPoints(m) != m.Area {
				continue
			}
			if countIntersecting(work, m, 3) != 2 {
				continue
			}
			work = replacePair(work, pair[0], pair[1], m)
			merged++
		}
		if merged == 0 {
			return work
		}
	}
}

// shuffledPairs shuffles a copy of rects and returns every unordered pair in
// the shuffled order. Randomizing the visit order avoids systematic bias
// toward any one merge sequence.
func shuffledPairs(rng *rand.Rand, rects []Rect) [][2]Rect {
	seq := append([]Rect(nil), rects...)
	rng.Shuffle(len(seq), func(i, j int) { seq[i], seq[j] = seq[j], seq[i] })
	pairs := make([][2]Rect, 0, len(seq)*(len(seq)-1)/2)
	for i := range seq {
		for j := i + 1; j < len(seq); j++ {
			pairs = append(pairs, [2]Rect{seq[i], seq[j]})
		}
	}
	return pairs
}

// countIntersecting counts members intersecting r, stopping once the count
// reaches limit.
func countIntersecting(rects []Rect, r Rect, limit int) int {
	n := 0
	for _, member := range rects {
		if !member.Intersects(r) {
			continue
		}
		n++
		if n >= limit {
			return n
		}
	}
	return n
}

func containsRect(rects []Rect, r Rect) bool {
	for _, member := range rects {
		if member == r {
			return true
		}
	}
	return false
}

// replacePair removes one instance each of a and b and appends merged.
func replacePair(rects []Rect, a, b, merged Rect) []Rect {
	out := make([]Rect, 0, len(rects)-1)
	removedA, removedB := false, false
	for _, r := range rects {
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
	return append(out, merged)
}

// indexOfContaining returns the index of the first rectangle containing p,
// or -1 if none does. After singleton assignment every point is contained.
func indexOfContaining(rects []Rect, p Point) int {
	for i, r := range rects {
		if r.Contains(p) {
			return i
		}
	}
	return -1
}
