package trackgo

import (
	"math"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// Solver is the shared surface of the three search strategies. Solve runs
// to completion, returns whether a solution was found, and leaves the
// solution on the solver's grid when it succeeds; on failure the grid is
// restored to its starting contents.
type Solver interface {
	Solve() bool
	Iterations() uint64
}

// ProgressSink receives periodic reports while a solve runs. ReportInterval
// is read once at solver construction; Report is then called every interval
// iterations from the solving goroutine, so implementations must be cheap
// and must not block.
type ProgressSink interface {
	ReportInterval() uint64
	Report(iterations uint64)
}

// NullSink discards progress. A nil sink behaves the same.
type NullSink struct{}

func (NullSink) ReportInterval() uint64 {
	return math.MaxUint64
}

func (NullSink) Report(uint64) {}

// progressCounter carries the per-solver iteration count and report cadence.
// Solvers embed it and call tick once per search step.
type progressCounter struct {
	iterations uint64
	interval   uint64
	sink       ProgressSink
}

func newProgressCounter(sink ProgressSink) progressCounter {
	if sink == nil {
		sink = NullSink{}
	}
	pc := progressCounter{sink: sink, interval: math.MaxUint64}
	if iv := sink.ReportInterval(); iv > 0 {
		pc.interval = iv
	}
	return pc
}

func (pc *progressCounter) tick() {
	pc.iterations++
	if pc.iterations%pc.interval == 0 {
		pc.sink.Report(pc.iterations)
	}
}

func (pc *progressCounter) Iterations() uint64 {
	return pc.iterations
}

// nearestDistance returns the minimum Manhattan distance from c to any of
// targets, or 0 when targets is empty.
func nearestDistance(c Coordinate, targets []Coordinate) int {
	if len(targets) == 0 {
		return 0
	}
	best := c.ManhattanDistance(targets[0])
	for _, t := range targets[1:] {
		if d := c.ManhattanDistance(t); d < best {
			best = d
		}
	}
	return best
}
