package trackgo

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// pathState is one node in the A* search: a snapshot of the board plus the
// walk position that produced it. States are immutable once created;
// expansion clones the grid and copies the visited set before touching
// either, so a state popped later is still exactly what was pushed.
type pathState struct {
	grid     *Grid
	pos      Coordinate
	incoming Direction
	visited  *CoordinateSet
	fixedHit int
	steps    int
	priority int
	index    int
}

// stateQueue is a min-heap of states ordered by priority (g + h).
type stateQueue []*pathState

func (q stateQueue) Len() int {
	return len(q)
}

func (q stateQueue) Less(i, j int) bool {
	return q[i].priority < q[j].priority
}

func (q stateQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *stateQueue) Push(x any) {
	st := x.(*pathState)
	st.index = len(*q)
	*q = append(*q, st)
}

func (q *stateQueue) Pop() any {
	old := *q
	n := len(old)
	st := old[n-1]
	old[n-1] = nil
	st.index = -1
	*q = old[:n-1]
	return st
}

// AStarSolver runs best-first search over partial paths from the entry.
// Each expansion extends the walk by one cell on a cloned grid; the
// priority is steps taken plus an admissible-ish estimate of steps left.
// Duplicate partial paths are pruned through a closed map keyed on the
// walk's observable state.
type AStarSolver struct {
	g          *Grid
	fixed      []Coordinate
	totalFixed int
	progressCounter
}

// NewAStarSolver captures the fixed pieces before solving; construct it on
// an unsolved grid.
func NewAStarSolver(g *Grid, sink ProgressSink) *AStarSolver {
	fixed := g.FixedPoints()
	return &AStarSolver{
		g:               g,
		fixed:           fixed,
		totalFixed:      len(fixed),
		progressCounter: newProgressCounter(sink),
	}
}

func (s *AStarSolver) Solve() bool {
	Watch.Start("astar")
	defer Watch.Stop("astar")
	log.WithField("solver", "astar").Debug("search started")
	start := &pathState{
		grid:     s.g.Clone(),
		pos:      s.g.Entry,
		incoming: Direction{},
		visited:  SingleCoordinateSet(s.g.Entry),
		fixedHit: 1,
		steps:    0,
	}
	start.priority = s.heuristic(start)
	open := &stateQueue{}
	heap.Push(open, start)
	closed := map[string]int{s.signature(start): 0}
	solved := false
	for open.Len() > 0 {
		s.tick()
		cur := heap.Pop(open).(*pathState)
		if s.isGoal(cur) {
			cur.grid.CopyTo(s.g)
			solved = true
			break
		}
		for _, next := range s.expand(cur) {
			sig := s.signature(next)
			if best, ok := closed[sig]; ok && best <= next.steps {
				continue
			}
			closed[sig] = next.steps
			next.priority = next.steps + s.heuristic(next)
			heap.Push(open, next)
		}
	}
	log.WithFields(logrus.Fields{
		"solver":     "astar",
		"iterations": s.iterations,
		"closed":     len(closed),
		"solved":     solved,
	}).Debug("search finished")
	return solved
}

// isGoal reports whether st is a finished solve: the walk has passed
// through every fixed piece, stands on an edge cell, and the board both
// matches its counts and forms one connected path.
func (s *AStarSolver) isGoal(st *pathState) bool {
	return st.fixedHit == s.totalFixed &&
		st.grid.OnEdge(st.pos.Row, st.pos.Col) &&
		st.grid.TrackCountsMatch() &&
		st.grid.IsSingleConnectedPath()
}

// expand generates the successor states of cur: pick a piece for the
// current cell (the pre-placed one, or anything legal on an empty cell),
// then step through each of its connections that does not double back.
// Successors that can no longer satisfy the counts, or that have walled an
// unvisited fixed piece off behind the path, are dropped here rather than
// ever entering the queue.
func (s *AStarSolver) expand(cur *pathState) []*pathState {
	existing := cur.grid.Get(cur.pos)
	if existing != Empty && !cur.incoming.IsZero() && !existing.ConnectsTo(cur.incoming.Reverse()) {
		return nil
	}
	var candidates []PieceType
	if existing != Empty {
		candidates = []PieceType{existing}
	} else {
		candidates = cur.grid.LegalPieces(cur.pos.Row, cur.pos.Col)
	}
	var out []*pathState
	for _, p := range candidates {
		g2 := cur.grid
		if existing == Empty {
			g2 = cur.grid.Clone()
			g2.Place(cur.pos.Row, cur.pos.Col, p)
			if !g2.CanStillSatisfy() {
				continue
			}
		}
		visited2 := cur.visited.Copy()
		visited2.Add(cur.pos)
		for _, d := range p.Connections() {
			if !cur.incoming.IsZero() && d == cur.incoming.Reverse() {
				continue
			}
			next := cur.pos.Step(d)
			if !g2.IsInBounds(next) || visited2.Contains(next) {
				continue
			}
			// The walk never revisits a cell and only ever places at its
			// own position, so a non-Empty next cell is always one of the
			// original fixed pieces. Count it as collected on arrival; the
			// start state pre-counts the entry the same way.
			hit := cur.fixedHit
			if g2.Get(next) != Empty {
				hit++
			}
			ns := &pathState{
				grid:     g2,
				pos:      next,
				incoming: d,
				visited:  visited2,
				fixedHit: hit,
				steps:    cur.steps + 1,
			}
			if !s.canReachAllFixed(ns) {
				continue
			}
			out = append(out, ns)
		}
	}
	return out
}

// canReachAllFixed floods outward from the walk position, blocked only by
// already-visited cells, and checks every unvisited fixed piece is still
// reachable. The path never crosses itself, so a fixed piece sealed behind
// the walk can never be collected and the whole subtree is dead.
func (s *AStarSolver) canReachAllFixed(st *pathState) bool {
	needed := 0
	for _, f := range s.fixed {
		if !st.visited.Contains(f) {
			needed++
		}
	}
	if needed == 0 {
		return true
	}
	seen := SingleCoordinateSet(st.pos)
	queue := []Coordinate{st.pos}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			next := cur.Step(d)
			if !st.grid.IsInBounds(next) || seen.Contains(next) || st.visited.Contains(next) {
				continue
			}
			seen.Add(next)
			queue = append(queue, next)
		}
	}
	for _, f := range s.fixed {
		if !st.visited.Contains(f) && !seen.Contains(f) {
			return false
		}
	}
	return true
}

// heuristic estimates the steps left: the cost of a minimum spanning tree
// over the walk position and the unvisited fixed pieces, plus the distance
// from that cluster to the exit, plus the total count shortfall across rows
// and columns. Each term underestimates on its own; their sum is a strong
// ordering signal even where it loses strict admissibility.
func (s *AStarSolver) heuristic(st *pathState) int {
	var remaining []Coordinate
	for _, f := range s.fixed {
		if !st.visited.Contains(f) {
			remaining = append(remaining, f)
		}
	}
	mst := 0
	exitDist := 0
	if len(remaining) > 0 {
		mst = mstCost(st.pos, remaining)
		exitDist = nearestDistance(s.g.Exit, remaining)
	} else {
		exitDist = st.pos.ManhattanDistance(s.g.Exit)
	}
	mismatch := 0
	for r := 0; r < st.grid.Rows; r++ {
		mismatch += intAbs(st.grid.RowCounts[r] - st.grid.RowPlaced[r])
	}
	for c := 0; c < st.grid.Cols; c++ {
		mismatch += intAbs(st.grid.ColCounts[c] - st.grid.ColPlaced[c])
	}
	// TODO: maintain the mismatch total incrementally on Place/Remove
	// instead of re-summing both clue arrays on every expansion.
	return mst + exitDist + mismatch
}

// mstCost computes a Prim-style minimum spanning tree over start plus
// points, under Manhattan distance: grow the tree one nearest point at a
// time and sum the connecting edges.
func mstCost(start Coordinate, points []Coordinate) int {
	dist := make([]int, len(points))
	inTree := make([]bool, len(points))
	for i, p := range points {
		dist[i] = start.ManhattanDistance(p)
	}
	total := 0
	for added := 0; added < len(points); added++ {
		best := -1
		for i := range points {
			if !inTree[i] && (best == -1 || dist[i] < dist[best]) {
				best = i
			}
		}
		total += dist[best]
		inTree[best] = true
		for i, p := range points {
			if !inTree[i] {
				if d := points[best].ManhattanDistance(p); d < dist[i] {
					dist[i] = d
				}
			}
		}
	}
	return total
}

// signature folds a state's observable search position into a map key. Two
// states agreeing on position, arrival direction, fixed pieces collected,
// and the exact visited set will expand identically, so only the cheapest
// needs to live on.
func (s *AStarSolver) signature(st *pathState) string {
	return fmt.Sprintf("%d,%d|%d,%d|%d|%s",
		st.pos.Row, st.pos.Col, st.incoming.Dr, st.incoming.Dc, st.fixedHit, st.visited.SerializedString())
}
