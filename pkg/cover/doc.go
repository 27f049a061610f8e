// Package cover implements a heuristic solver for the rectangular covering
// problem: given occupied cells ("berries") scattered on a bounded grid, find
// a low-cost set of non-overlapping, axis-aligned rectangles ("greenhouses")
// that jointly enclose every occupied cell. Each rectangle costs a fixed
// overhead plus one unit per cell of area.
//
// The solver is anytime and approximate. It builds a dense initial partition
// from horizontal and vertical run clustering, then repeatedly agglomerates
// rectangle pairs under a locality constraint, keeping only the cheapest
// successors at every step. A best-solution tracker records the cheapest
// partition seen whose cardinality fits the instance's budget, so the final
// answer may come from any intermediate round rather than the last one.
//
// Typical usage:
//
//	field, err := cover.ParseInstance(lines)
//	if err != nil { ... }
//	session, err := cover.NewSession(field, cover.WithSeed(42))
//	if err != nil { ... }
//	sol, err := session.Solve(ctx)
//	fmt.Println(sol.Score)
//	fmt.Println(cover.Render(session.Queries(), sol.Partition))
//
// All randomness (pair-order shuffling, over-capacity sampling) flows from a
// single seeded source per session, so a fixed seed reproduces a run exactly.
// A session is single-threaded; independent sessions share no state and may
// run concurrently.
package cover
