package cover

import (
	"context"
	"errors"
	"testing"
)

// referenceGrid is the documented example instance: two wide clusters and
// two small clusters with a budget of four greenhouses. Its known covering
// costs 90 = (10+8*3) + (10+7*3) + (10+5*3).
var referenceGrid = []string{
	"4",
	"..@@@@@...............",
	"..@@@@@@........@@@...",
	".....@@@@@......@@@...",
	".......@@@@@@@@@@@@...",
	".........@@@@@........",
	".........@@@@@........",
}

func solveGrid(t *testing.T, lines []string, opts ...Option) (*Session, Solution) {
	t.Helper()
	f, err := ParseInstance(lines)
	if err != nil {
		t.Fatalf("ParseInstance failed: %v", err)
	}
	s, err := NewSession(f, opts...)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	sol, err := s.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	return s, sol
}

// TestSolve_ReferenceInstance solves the documented example and checks the
// known covering cost of 90 = (10+8*3) + (10+7*3) + (10+5*3), along with
// the budget and coverage invariants for every run.
func TestSolve_ReferenceInstance(t *testing.T) {
	bestScore := 0
	for seed := int64(1); seed <= 5; seed++ {
		s, sol := solveGrid(t, referenceGrid, WithSeed(seed))

		if sol.Partition.Len() > s.field.MaxGreenhouses() {
			t.Errorf("seed %d: cardinality %d exceeds budget %d",
				seed, sol.Partition.Len(), s.field.MaxGreenhouses())
		}
		for _, p := range s.field.Points() {
			if !sol.Partition.Covers(p) {
				t.Errorf("seed %d: point %+v uncovered", seed, p)
			}
		}
		if sol.Score < 90 {
			t.Fatalf("seed %d: score %d below the reference covering cost 90:\n%s",
				seed, sol.Score, Render(s.Queries(), sol.Partition))
		}
		if bestScore == 0 || sol.Score < bestScore {
			bestScore = sol.Score
		}
	}
	if bestScore != 90 {
		t.Errorf("best score over seeds = %d, want 90", bestScore)
	}
}

// TestSolve_SinglePoint yields one 1x1 greenhouse costing 11.
func TestSolve_SinglePoint(t *testing.T) {
	_, sol := solveGrid(t, []string{"3", "....", ".@..", "...."}, WithSeed(1))
	if sol.Score != 11 {
		t.Errorf("score = %d, want 11", sol.Score)
	}
	if sol.Partition.Len() != 1 {
		t.Fatalf("cardinality = %d, want 1", sol.Partition.Len())
	}
	if want := MakeRect(1, 1, 1, 1); sol.Partition.Rects()[0] != want {
		t.Errorf("rect = %+v, want %+v", sol.Partition.Rects()[0], want)
	}
}

// TestSolve_EmptyField yields an empty partition with score zero.
func TestSolve_EmptyField(t *testing.T) {
	_, sol := solveGrid(t, []string{"3", "....", "...."}, WithSeed(1))
	if sol.Score != 0 {
		t.Errorf("score = %d, want 0", sol.Score)
	}
	if sol.Partition.Len() != 0 {
		t.Errorf("cardinality = %d, want 0", sol.Partition.Len())
	}
}

// TestSolve_Deterministic checks that a fixed seed reproduces the partition
// and score exactly across runs.
func TestSolve_Deterministic(t *testing.T) {
	_, first := solveGrid(t, referenceGrid, WithSeed(42))
	_, second := solveGrid(t, referenceGrid, WithSeed(42))

	if first.Score != second.Score {
		t.Fatalf("scores differ across runs: %d vs %d", first.Score, second.Score)
	}
	if !first.Partition.Equal(second.Partition) {
		t.Fatalf("partitions differ across runs:\n%v\n%v",
			first.Partition.Rects(), second.Partition.Rects())
	}
}

// TestSuccessors_CardinalityDecreases checks that every successor of a
// round has exactly one rectangle less than its base.
func TestSuccessors_CardinalityDecreases(t *testing.T) {
	f, err := ParseInstance(referenceGrid)
	if err != nil {
		t.Fatalf("ParseInstance failed: %v", err)
	}
	s, err := NewSession(f, WithSeed(5))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	frontier := []Partition{initialPartition(s.queries, s.rng)}
	for rounds := 0; frontier[0].Len() > s.goal; rounds++ {
		if rounds > 100 {
			t.Fatal("search did not terminate")
		}
		want := frontier[0].Len() - 1
		_, next := s.successors(frontier)
		if len(next) == 0 {
			break
		}
		for _, succ := range next {
			if succ.Len() != want {
				t.Fatalf("successor cardinality = %d, want %d", succ.Len(), want)
			}
		}
		frontier = next
	}
}

// TestSuccessors_LocalityConstraint rejects a merge whose bounding box
// swallows a third rectangle: three collinear clusters where merging the
// outer pair would absorb the middle one.
func TestSuccessors_LocalityConstraint(t *testing.T) {
	f, err := ParseInstance([]string{"3", "@@.@@.@@"})
	if err != nil {
		t.Fatalf("ParseInstance failed: %v", err)
	}
	s, err := NewSession(f, WithSeed(2))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	left := MakeRect(0, 0, 0, 1)
	mid := MakeRect(0, 3, 0, 4)
	right := MakeRect(0, 6, 0, 7)
	frontier := []Partition{NewPartition(left, mid, right)}

	_, next := s.successors(frontier)
	outerMerge := left.Merge(right)
	for _, succ := range next {
		for _, r := range succ.Rects() {
			if r == outerMerge {
				t.Fatalf("outer merge %+v accepted despite absorbing the middle cluster", outerMerge)
			}
		}
	}
}

// TestBestSolution_Monotone checks the tracker's acceptance rules: the cap
// filters cardinality, and a recorded score never regresses.
func TestBestSolution_Monotone(t *testing.T) {
	small := NewPartition(MakeRect(0, 0, 1, 1))
	big := NewPartition(
		MakeRect(0, 0, 0, 0), MakeRect(2, 2, 2, 2), MakeRect(4, 4, 4, 4))

	var b bestSolution
	b.offer(big, big.Score(), 2)
	if b.found {
		t.Fatal("tracker accepted a candidate above the cardinality cap")
	}

	b.offer(small, 50, 2)
	if !b.found || b.score != 50 {
		t.Fatalf("tracker state = (%v, %d), want (true, 50)", b.found, b.score)
	}

	b.offer(small, 60, 2)
	if b.score != 50 {
		t.Fatalf("tracker regressed to %d after seeing a worse score", b.score)
	}

	b.offer(small, 50, 2)
	if b.score != 50 {
		t.Fatalf("tracker must require strict improvement, got %d", b.score)
	}

	b.offer(small, 40, 2)
	if b.score != 40 {
		t.Fatalf("tracker ignored a strictly better score, got %d", b.score)
	}
}

// TestSolve_NoSolutionWithinBudget: a search whose tracker can never accept
// a candidate reports ErrNoSolution. A cap of zero makes every non-empty
// partition unacceptable.
func TestSolve_NoSolutionWithinBudget(t *testing.T) {
	f, err := NewField(3, 3, 0, []Point{{0, 0}})
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}
	s, err := NewSession(f, WithSeed(1))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if _, err := s.Solve(context.Background()); !errors.Is(err, ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}
}

// TestSolve_CancelledContext returns the incumbent together with ctx.Err.
// The instance's initial partition (three separate runs) fits the budget,
// so cancellation before the first round still leaves a valid incumbent.
func TestSolve_CancelledContext(t *testing.T) {
	f, err := ParseInstance([]string{"10", "@@.@@.@@"})
	if err != nil {
		t.Fatalf("ParseInstance failed: %v", err)
	}
	s, err := NewSession(f, WithSeed(1))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sol, err := s.Solve(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sol.Partition.Len() != 3 {
		t.Fatalf("incumbent cardinality = %d, want the 3-run initial partition", sol.Partition.Len())
	}
}

// TestGreenhouses_ShrinksToFeasibleRegions verifies presentation shrinking:
// a member wider than its points reports only the tight region.
func TestGreenhouses_ShrinksToFeasibleRegions(t *testing.T) {
	f := fieldFromGrid(t, 3,
		".@@..",
		".....",
	)
	q := newQueries(t, f)
	p := NewPartition(MakeRect(0, 0, 1, 4), MakeRect(1, 4, 1, 4))

	ghs := Solution{Partition: p, Score: p.Score()}.Greenhouses(q)
	if len(ghs) != 1 {
		t.Fatalf("greenhouses = %v, want one shrunk member", ghs)
	}
	if want := MakeRect(0, 1, 0, 2); ghs[0] != want {
		t.Errorf("greenhouse = %+v, want %+v", ghs[0], want)
	}
}
