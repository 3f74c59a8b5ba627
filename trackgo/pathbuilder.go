package trackgo

import (
	"github.com/sirupsen/logrus"
)

// PathBuilder extends a single chain of track from the entry cell, placing
// a piece and stepping through one of its connections at every level of the
// recursion. The walk must pass through every fixed piece and end having
// matched all the counts, so a partial chain that can no longer do either
// dies quickly.
type PathBuilder struct {
	g          *Grid
	fixed      []Coordinate
	totalFixed int
	progressCounter
}

// NewPathBuilder captures the fixed pieces before the walk mutates the
// grid; construct it on an unsolved grid.
func NewPathBuilder(g *Grid, sink ProgressSink) *PathBuilder {
	fixed := g.FixedPoints()
	return &PathBuilder{
		g:               g,
		fixed:           fixed,
		totalFixed:      len(fixed),
		progressCounter: newProgressCounter(sink),
	}
}

func (s *PathBuilder) Solve() bool {
	Watch.Start("pathbuilder")
	defer Watch.Stop("pathbuilder")
	log.WithField("solver", "pathbuilder").Debug("search started")
	// The zero direction marks arrival from off the board; the entry
	// piece's off-grid connection then leads nowhere and dies on the
	// bounds check.
	solved := s.step(s.g.Entry, Direction{}, EmptyCoordinateSet(), 0)
	log.WithFields(logrus.Fields{
		"solver":     "pathbuilder",
		"iterations": s.iterations,
		"solved":     solved,
	}).Debug("search finished")
	return solved
}

func (s *PathBuilder) step(pos Coordinate, incoming Direction, visited *CoordinateSet, fixedHit int) bool {
	s.tick()
	if !s.g.IsInBounds(pos) || visited.Contains(pos) || visited.Size() >= s.g.TotalCount {
		return false
	}
	existing := s.g.Get(pos)
	if existing != Empty {
		if !incoming.IsZero() && !existing.ConnectsTo(incoming.Reverse()) {
			return false
		}
		fixedHit++
	}
	visited.Add(pos)
	defer visited.Del(pos)

	if fixedHit == s.totalFixed && s.g.TrackCountsMatch() && s.g.IsSingleConnectedPath() {
		return true
	}

	var remaining []Coordinate
	for _, f := range s.fixed {
		if !visited.Contains(f) {
			remaining = append(remaining, f)
		}
	}
	for _, p := range s.candidates(pos, incoming, existing) {
		placed := false
		if existing == Empty {
			s.g.Place(pos.Row, pos.Col, p)
			placed = true
		}
		outs := make([]Direction, 0, 2)
		for _, d := range p.Connections() {
			if incoming.IsZero() || d != incoming.Reverse() {
				outs = append(outs, d)
			}
		}
		// Head toward the nearest unvisited fixed piece first.
		if len(outs) == 2 && nearestDistance(pos.Step(outs[1]), remaining) < nearestDistance(pos.Step(outs[0]), remaining) {
			outs[0], outs[1] = outs[1], outs[0]
		}
		for _, d := range outs {
			if s.step(pos.Step(d), d, visited, fixedHit) {
				return true
			}
		}
		if placed {
			s.g.Remove(pos.Row, pos.Col)
		}
	}
	return false
}

// candidates returns the pieces worth trying at pos. A pre-placed piece is
// its own only candidate. For an empty cell every placeable piece that
// connects back the way we came qualifies, corners before straights.
func (s *PathBuilder) candidates(pos Coordinate, incoming Direction, existing PieceType) []PieceType {
	if existing != Empty {
		return []PieceType{existing}
	}
	var out []PieceType
	for p := CornerSW; p >= Horizontal; p-- {
		if p.ConnectsTo(incoming.Reverse()) && s.g.CanPlace(pos.Row, pos.Col, p) {
			out = append(out, p)
		}
	}
	return out
}
