package cover

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Defaults for the agglomeration search knobs. The goal is the cardinality
// the search drives down toward; it is deliberately independent of the
// field's maximum greenhouse count, which the best-solution tracker applies
// as its acceptance cap. Driving below the cap lets the tracker pick the
// cheapest partition from any intermediate round.
const (
	DefaultGoal          = 2
	DefaultMaxSuccessors = 100
)

// ErrNoSolution indicates the search exhausted its merges without ever
// finding a partition within the field's maximum greenhouse count.
var ErrNoSolution = errors.New("no covering within the greenhouse budget")

// Option configures a Session.
type Option func(*Session)

// WithSeed fixes the session's random source so runs are reproducible.
// Without it, each session seeds from the wall clock.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithGoal overrides the cardinality the search drives down toward. Values
// below 1 are clamped to 1.
func WithGoal(goal int) Option {
	return func(s *Session) {
		if goal < 1 {
			goal = 1
		}
		s.goal = goal
	}
}

// WithMaxSuccessors overrides the per-round candidate cap. Over-capacity
// rounds keep a uniform random sample, trading completeness for bounded
// runtime.
func WithMaxSuccessors(n int) Option {
	return func(s *Session) {
		if n < 1 {
			n = 1
		}
		s.maxSuccessors = n
	}
}

// WithLogger attaches a logger for round-by-round search progress. The
// default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// Session solves one problem instance. It owns the memoized query cache and
// the random source, so independent sessions share no state and may run
// concurrently; a single session is single-threaded.
type Session struct {
	field         *Field
	queries       *Queries
	rng           *rand.Rand
	log           *zap.Logger
	goal          int
	maxSuccessors int
}

// NewSession creates a solving session for the field.
func NewSession(f *Field, opts ...Option) (*Session, error) {
	if f == nil {
		return nil, fmt.Errorf("NewSession: field cannot be nil")
	}
	queries, err := NewQueries(f)
	if err != nil {
		return nil, err
	}
	s := &Session{
		field:         f,
		queries:       queries,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		log:           zap.NewNop(),
		goal:          DefaultGoal,
		maxSuccessors: DefaultMaxSuccessors,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Queries exposes the session's memoized query layer, shared by every
// component of the solve and useful for rendering the result.
func (s *Session) Queries() *Queries { return s.queries }

// Solution is the outcome of a solve: the best partition recorded by the
// tracker and its score. The partition's members are the raw merged bounds;
// Greenhouses shrinks them to their feasible regions for presentation.
type Solution struct {
	Partition Partition
	Score     int
}

// Greenhouses maps each member of the solution's partition to the tightest
// rectangle enclosing its occupied points, dropping members that contain none.
func (s Solution) Greenhouses(q *Queries) []Rect {
	var out []Rect
	for _, r := range s.Partition.Rects() {
		if region, ok := q.FeasibleRegion(r); ok {
			out = append(out, region)
		}
	}
	return out
}

// bestSolution tracks the minimum-score partition observed among those whose
// cardinality fits the cap. Updates are monotone: a candidate replaces the
// stored one only when it scores strictly lower, so quality never regresses.
type bestSolution struct {
	partition Partition
	score     int
	found     bool
}

func (b *bestSolution) offer(p Partition, score, cap int) {
	if p.Len() > cap {
		return
	}
	if b.found && score >= b.score {
		return
	}
	b.partition = p
	b.score = score
	b.found = true
}

// Solve runs the agglomeration search: starting from the dense initial
// partition, each round merges rectangle pairs under the locality
// constraint, keeps only the minimum-score successors, and offers the best
// emerging candidate to the tracker. The search stops when cardinality
// reaches the goal, when a round yields no valid merge (a local optimum,
// not an error), or when ctx is cancelled, in which case the best incumbent
// is returned together with ctx.Err().
func (s *Session) Solve(ctx context.Context) (Solution, error) {
	start := initialPartition(s.queries, s.rng)
	best := &bestSolution{}
	best.offer(start, start.Score(), s.field.MaxGreenhouses())
	s.log.Debug("initial partition built",
		zap.Int("cardinality", start.Len()),
		zap.Int("score", start.Score()))

	frontier := []Partition{start}
	for frontier[0].Len() > s.goal {
		select {
		case <-ctx.Done():
			sol, err := s.finish(best)
			if err != nil {
				return sol, err
			}
			return sol, ctx.Err()
		default:
		}

		score, next := s.successors(frontier)
		if len(next) == 0 {
			s.log.Debug("no valid merge, stopping at local optimum",
				zap.Int("cardinality", frontier[0].Len()))
			break
		}
		frontier = next
		best.offer(frontier[0], score, s.field.MaxGreenhouses())
		s.log.Debug("agglomeration round complete",
			zap.Int("cardinality", frontier[0].Len()),
			zap.Int("score", score),
			zap.Int("frontier", len(frontier)))
	}
	return s.finish(best)
}

func (s *Session) finish(best *bestSolution) (Solution, error) {
	if !best.found {
		return Solution{}, ErrNoSolution
	}
	return Solution{Partition: best.partition, Score: best.score}, nil
}

// successors generates the next frontier: for every frontier partition, each
// shuffled unordered member pair is merged and accepted only under the
// locality constraint: exactly the two rectangles being merged may
// intersect the merged bounding box among all members. Valid merges are
// scored incrementally, only minimum-score successors survive, duplicates
// collapse by partition key, and an over-capacity result is sampled down.
func (s *Session) successors(frontier []Partition) (int, []Partition) {
	bestScore := math.MaxInt
	seen := make(map[string]Partition)

	for _, part := range frontier {
		if len(seen) >= s.maxSuccessors {
			break
		}
		base := part.Score()
		members := part.Rects()
		for _, pair := range shuffledPairs(s.rng, members) {
			merged := s.queries.Merge(pair[0], pair[1])
			if countIntersecting(members, merged, 3) != 2 {
				continue
			}
			score := base - pair[0].Cost - pair[1].Cost + merged.Cost
			if score > bestScore {
				continue
			}
			succ := part.mergePair(pair[0], pair[1], merged)
			if score < bestScore {
				bestScore = score
				seen = map[string]Partition{succ.Key(): succ}
				continue
			}
			seen[succ.Key()] = succ
			if len(seen) >= s.maxSuccessors {
				break
			}
		}
	}

	out := make([]Partition, 0, len(seen))
	for _, p := range seen {
		out = append(out, p)
	}
	// Canonical order keeps runs reproducible for a fixed seed; map
	// iteration order must not leak into the result.
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	if len(out) > s.maxSuccessors {
		s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		out = out[:s.maxSuccessors]
		sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	}
	return bestScore, out
}
