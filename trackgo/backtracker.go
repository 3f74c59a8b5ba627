package trackgo

import (
	"github.com/sirupsen/logrus"
)

// Backtracker fills the grid one cell at a time, always working on the
// empty cell with the fewest legal pieces. Candidate cells are drawn from
// the frontier (empty cells adjacent to placed track) so the search grows
// the path outward instead of scattering pieces.
type Backtracker struct {
	g *Grid
	progressCounter
}

func NewBacktracker(g *Grid, sink ProgressSink) *Backtracker {
	return &Backtracker{g: g, progressCounter: newProgressCounter(sink)}
}

func (s *Backtracker) Solve() bool {
	Watch.Start("backtracker")
	defer Watch.Stop("backtracker")
	log.WithField("solver", "backtracker").Debug("search started")
	solved := s.step()
	log.WithFields(logrus.Fields{
		"solver":     "backtracker",
		"iterations": s.iterations,
		"solved":     solved,
	}).Debug("search finished")
	return solved
}

func (s *Backtracker) step() bool {
	s.tick()
	if !s.g.CanStillSatisfy() {
		return false
	}
	if s.g.TrackCountsMatch() && s.g.IsSingleConnectedPath() {
		return true
	}
	best := NilCoordinate()
	var bestPieces []PieceType
	for _, cell := range s.candidateCells() {
		pieces := s.g.LegalPieces(cell.Row, cell.Col)
		if len(pieces) == 0 {
			continue
		}
		if best.IsNil() || len(pieces) < len(bestPieces) {
			best = cell
			bestPieces = pieces
		}
	}
	if best.IsNil() {
		return false
	}
	for _, p := range bestPieces {
		s.g.Place(best.Row, best.Col, p)
		if s.step() {
			return true
		}
		s.g.Remove(best.Row, best.Col)
	}
	return false
}

// candidateCells returns the empty cells orthogonally adjacent to placed
// track, falling back to every empty cell when the frontier is empty. Both
// lists come out in scan order, which keeps tie-breaking deterministic.
func (s *Backtracker) candidateCells() []Coordinate {
	var frontier []Coordinate
	var empties []Coordinate
	for r := 0; r < s.g.Rows; r++ {
		for c := 0; c < s.g.Cols; c++ {
			if s.g.Board[r][c] != Empty {
				continue
			}
			cell := Coordinate{r, c}
			empties = append(empties, cell)
			for _, d := range Directions {
				if s.g.IsFilled(r+d.Dr, c+d.Dc) {
					frontier = append(frontier, cell)
					break
				}
			}
		}
	}
	if len(frontier) > 0 {
		return frontier
	}
	return empties
}
