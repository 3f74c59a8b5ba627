package trackgo

import (
	"strings"
	"testing"
)

// Board with generous counts so placement rules can be probed in isolation.
const openBoard = `
ROWS: 3 3 3
COLS: 3 3 3
FIXED:
0,0: Vertical
2,2: Vertical
`

func TestNewGridTallies(t *testing.T) {
	g := mustGrid(t, verticalLine)
	if g.Rows != 3 || g.Cols != 3 {
		t.Fatalf("dimensions = %dx%d, want 3x3", g.Rows, g.Cols)
	}
	if g.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", g.TotalCount)
	}
	if g.RowPlaced[0] != 1 || g.RowPlaced[1] != 0 || g.RowPlaced[2] != 1 {
		t.Errorf("RowPlaced = %v after construction", g.RowPlaced)
	}
	if g.ColPlaced[0] != 0 || g.ColPlaced[1] != 2 || g.ColPlaced[2] != 0 {
		t.Errorf("ColPlaced = %v after construction", g.ColPlaced)
	}
	if g.Entry != (Coordinate{0, 1}) || g.Exit != (Coordinate{2, 1}) {
		t.Errorf("entry %v / exit %v, want (r0, c1) / (r2, c1)", g.Entry, g.Exit)
	}
}

func TestPlaceRemove(t *testing.T) {
	g := mustGrid(t, verticalLine)
	before := g.Clone()
	g.Place(1, 1, Vertical)
	if g.RowPlaced[1] != 1 || g.ColPlaced[1] != 3 {
		t.Errorf("tallies after place: rows %v cols %v", g.RowPlaced, g.ColPlaced)
	}
	if g.Equals(before) {
		t.Errorf("grid unchanged by Place")
	}
	g.Remove(1, 1)
	if !g.Equals(before) {
		t.Errorf("Remove did not exactly undo Place")
	}
	g.Remove(1, 1)
	if !g.Equals(before) {
		t.Errorf("removing an empty cell should be a no-op")
	}
}

func TestPlaceOccupiedPanics(t *testing.T) {
	g := mustGrid(t, verticalLine)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic placing onto an occupied cell")
		}
	}()
	g.Place(0, 1, Horizontal)
}

func TestCanPlaceRules(t *testing.T) {
	g := mustGrid(t, openBoard)
	if g.CanPlace(0, 0, Horizontal) {
		t.Errorf("occupied cell accepted a piece")
	}
	// (0,2) has no filled neighbors, so only the board edge constrains it:
	// anything connecting north or east would run off the board.
	for _, p := range []PieceType{Horizontal, Vertical, CornerNE, CornerNW, CornerSE} {
		if g.CanPlace(0, 2, p) {
			t.Errorf("%v accepted in the top-right corner", p)
		}
	}
	if got := g.LegalPieces(0, 2); len(got) != 1 || got[0] != CornerSW {
		t.Errorf("LegalPieces(0,2) = %v, want [CornerSW]", got)
	}
	// (0,0) holds a Vertical, which does not connect east, so nothing at
	// (0,1) may connect west to it.
	if g.CanPlace(0, 1, Horizontal) || g.CanPlace(0, 1, CornerSW) {
		t.Errorf("piece connecting west accepted against a non-reciprocating neighbor")
	}
	// CornerSE does not conflict with the Vertical, but it does not link to
	// it either, and a placement beside existing track must connect to it.
	if g.CanPlace(0, 1, CornerSE) {
		t.Errorf("orphan placement accepted beside existing track")
	}
	if got := g.LegalPieces(0, 1); len(got) != 0 {
		t.Errorf("LegalPieces(0,1) = %v, want none", got)
	}
	// The Vertical above (1,0) connects south into it, so any piece there
	// must connect north back.
	if g.CanPlace(1, 0, CornerSE) {
		t.Errorf("placement accepted that strands the neighbor's connection")
	}
	if got := g.LegalPieces(1, 0); len(got) != 2 || got[0] != Vertical || got[1] != CornerNE {
		t.Errorf("LegalPieces(1,0) = %v, want [Vertical CornerNE]", got)
	}
	// (1,1) touches nothing placed and no edge, so every piece fits.
	if got := g.LegalPieces(1, 1); len(got) != 6 {
		t.Errorf("LegalPieces(1,1) = %v, want all six pieces", got)
	}
}

func TestCanPlaceCapacity(t *testing.T) {
	g := mustGrid(t, verticalLine)
	// Row 0 and column 0 are already at their counts.
	if g.CanPlace(0, 2, CornerSW) {
		t.Errorf("placement accepted in a full row")
	}
	if got := g.LegalPieces(1, 0); len(got) != 0 {
		t.Errorf("LegalPieces in a zero-count column = %v", got)
	}
	if !g.CanPlace(1, 1, Vertical) {
		t.Errorf("Vertical rejected at (1,1)")
	}
	// CornerNE abandons the fixed Vertical below, which connects north
	// into (1,1).
	if g.CanPlace(1, 1, CornerNE) {
		t.Errorf("placement accepted that strands the neighbor below")
	}
}

func TestCanPlaceLookahead(t *testing.T) {
	g := mustGrid(t, `
ROWS: 2 2
COLS: 1 2 1
FIXED:
0,0: Horizontal
1,2: Horizontal
`)
	// Horizontal at (0,1) passes the plain capacity check (1+1 <= 2) but
	// its east connection demands a second future piece in row 0, which
	// the count cannot hold.
	if g.CanPlace(0, 1, Horizontal) {
		t.Errorf("Horizontal at (0,1) accepted despite stranding its east neighbor")
	}
	if !g.CanPlace(0, 1, CornerSW) {
		t.Errorf("CornerSW rejected at (0,1)")
	}
	if got := g.LegalPieces(0, 1); len(got) != 1 || got[0] != CornerSW {
		t.Errorf("LegalPieces(0,1) = %v, want [CornerSW]", got)
	}
}

func TestCanStillSatisfy(t *testing.T) {
	g := mustGrid(t, verticalLine)
	if !g.CanStillSatisfy() {
		t.Fatalf("fresh grid reported unsatisfiable")
	}
	// Place bypasses legality, so this overfills column 0.
	g.Place(1, 0, Horizontal)
	if g.CanStillSatisfy() {
		t.Errorf("column 0 is over its count")
	}
	_, err := NewGrid(mustParse(t, `
ROWS: 1 0 2
COLS: 0 3 0
FIXED:
0,1: Vertical
1,1: Vertical
2,1: Vertical
`))
	if err == nil {
		t.Errorf("construction accepted fixed pieces exceeding a row count")
	}
}

func TestTrackCountsMatch(t *testing.T) {
	g := mustGrid(t, verticalLine)
	if g.TrackCountsMatch() {
		t.Errorf("counts reported satisfied before solving")
	}
	g.Place(1, 1, Vertical)
	if !g.TrackCountsMatch() {
		t.Errorf("counts not satisfied after completing the line")
	}
}

func TestIsSingleConnectedPath(t *testing.T) {
	g := mustGrid(t, verticalLine)
	if g.IsSingleConnectedPath() {
		t.Errorf("two separated pieces reported connected")
	}
	g.Place(1, 1, Vertical)
	if !g.IsSingleConnectedPath() {
		t.Errorf("completed line reported disconnected")
	}
	g.Remove(1, 1)
	g.Remove(0, 1)
	g.Remove(2, 1)
	if g.IsSingleConnectedPath() {
		t.Errorf("empty board reported as a path")
	}
}

// A closed loop satisfies the component-level connectivity check; the
// solvers exclude loops structurally because the entry piece always keeps
// one connection off the board.
func TestClosedLoopCountsAsConnected(t *testing.T) {
	g := &Grid{
		Rows:       2,
		Cols:       2,
		Board:      [][]PieceType{{CornerSE, CornerSW}, {CornerNE, CornerNW}},
		RowCounts:  []int{2, 2},
		ColCounts:  []int{2, 2},
		RowPlaced:  []int{2, 2},
		ColPlaced:  []int{2, 2},
		TotalCount: 4,
		Entry:      NilCoordinate(),
		Exit:       NilCoordinate(),
	}
	if !g.IsSingleConnectedPath() {
		t.Errorf("closed loop reported disconnected")
	}
	if !g.TrackCountsMatch() {
		t.Errorf("loop counts reported unsatisfied")
	}
}

func TestFindEntryExitErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"no ends", `
ROWS: 0 1 0
COLS: 0 1 0
FIXED:
1,1: Vertical
`, "found 0"},
		{"one end", `
ROWS: 1 0 0
COLS: 0 1 0
FIXED:
0,1: Vertical
`, "found 1"},
		{"three ends", `
ROWS: 2 0 1
COLS: 1 2 0
FIXED:
0,0: Vertical
0,1: Vertical
2,1: Vertical
`, "found 3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewGrid(mustParse(t, c.text))
			if err == nil {
				t.Fatalf("construction succeeded without exactly two end pieces")
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q does not mention %q", err, c.want)
			}
		})
	}
}

func TestCloneIndependence(t *testing.T) {
	g := mustGrid(t, verticalLine)
	clone := g.Clone()
	if !clone.Equals(g) {
		t.Fatalf("clone differs from original")
	}
	clone.Place(1, 1, Vertical)
	if g.Board[1][1] != Empty {
		t.Errorf("mutating the clone changed the original")
	}
	if clone.Equals(g) {
		t.Errorf("grids still compare equal after diverging")
	}
	fresh := mustGrid(t, verticalLine)
	clone.CopyTo(fresh)
	if !fresh.Equals(clone) {
		t.Errorf("CopyTo target differs from source")
	}
}

func TestGridString(t *testing.T) {
	g := mustGrid(t, verticalLine)
	g.Place(1, 1, Vertical)
	want := "  030\n1 ·│·\n1 ·│·\n1 ·│·\n"
	if got := g.String(); got != want {
		t.Errorf("rendered:\n%swant:\n%s", got, want)
	}
}

func mustParse(t *testing.T, text string) *Puzzle {
	t.Helper()
	p, err := ParsePuzzle(text)
	if err != nil {
		t.Fatalf("parse puzzle: %v", err)
	}
	return p
}
