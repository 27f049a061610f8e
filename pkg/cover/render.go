package cover

import "strings"

// labels assigns one display character per greenhouse, cycling when a
// partition has more members than characters.
const labels = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789abcdefghijklmnopqrstuvwxyz"

// Render draws the partition onto the field's grid with one label character
// per greenhouse. Members are shrunk to their feasible regions before
// drawing; a cell claimed by more than one region shows '*', an uncovered
// berry shows the berry symbol, and an empty cell shows '.'.
func Render(q *Queries, p Partition) string {
	f := q.Field()
	regions := make([]Rect, 0, p.Len())
	regionOK := make([]bool, 0, p.Len())
	for _, r := range p.Rects() {
		region, ok := q.FeasibleRegion(r)
		regions = append(regions, region)
		regionOK = append(regionOK, ok)
	}
	return draw(f, regions, regionOK)
}

// RenderFull draws the raw member bounds without shrinking, which is useful
// when inspecting what the search actually merged.
func RenderFull(f *Field, p Partition) string {
	rects := p.Rects()
	ok := make([]bool, len(rects))
	for i := range ok {
		ok[i] = true
	}
	return draw(f, rects, ok)
}

func draw(f *Field, rects []Rect, ok []bool) string {
	var b strings.Builder
	for row := 0; row < f.NumRows(); row++ {
		for col := 0; col < f.NumCols(); col++ {
			pt := Point{Row: row, Col: col}
			assigned := 0
			cell := byte('.')
			for i, r := range rects {
				if !ok[i] || !r.Contains(pt) {
					continue
				}
				if assigned == 0 {
					cell = labels[i%len(labels)]
				} else {
					cell = '*'
				}
				assigned++
			}
			if assigned == 0 && f.Occupied(pt) {
				cell = BerrySymbol
			}
			b.WriteByte(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
