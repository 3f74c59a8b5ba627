package trackgo

import (
	"fmt"
	"sort"
	"strings"
)

// Coordinate addresses one cell as (row, col), zero-based from the top-left.
type Coordinate struct {
	Row int
	Col int
}

// NilCoordinate is the "no cell" value used before entry/exit detection runs.
func NilCoordinate() Coordinate {
	return Coordinate{-1, -1}
}

func (c Coordinate) IsNil() bool {
	return c.Row == -1 && c.Col == -1
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(r%d, c%d)", c.Row, c.Col)
}

// Step returns the coordinate one cell away in direction d.
func (c Coordinate) Step(d Direction) Coordinate {
	return Coordinate{c.Row + d.Dr, c.Col + d.Dc}
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (c Coordinate) ManhattanDistance(other Coordinate) int {
	return intAbs(c.Row-other.Row) + intAbs(c.Col-other.Col)
}

type CoordinateSlice []Coordinate

func (s CoordinateSlice) Len() int {
	return len(s)
}

func (s CoordinateSlice) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func (s CoordinateSlice) Less(i, j int) bool {
	if s[i].Row != s[j].Row {
		return s[i].Row < s[j].Row
	}
	return s[i].Col < s[j].Col
}

// CoordinateSet is a set of cells backed by a map.
type CoordinateSet struct {
	Map map[Coordinate]bool
}

func EmptyCoordinateSet() *CoordinateSet {
	return &CoordinateSet{make(map[Coordinate]bool)}
}

func SingleCoordinateSet(c Coordinate) *CoordinateSet {
	cs := EmptyCoordinateSet()
	cs.Add(c)
	return cs
}

func (cs *CoordinateSet) Add(c Coordinate) {
	cs.Map[c] = true
}

func (cs *CoordinateSet) Del(c Coordinate) {
	delete(cs.Map, c)
}

func (cs *CoordinateSet) Contains(c Coordinate) bool {
	return cs.Map[c]
}

func (cs *CoordinateSet) Size() int {
	return len(cs.Map)
}

func (cs *CoordinateSet) IsEmpty() bool {
	return len(cs.Map) == 0
}

func (cs *CoordinateSet) Copy() *CoordinateSet {
	out := &CoordinateSet{make(map[Coordinate]bool, len(cs.Map))}
	for c := range cs.Map {
		out.Map[c] = true
	}
	return out
}

func (cs *CoordinateSet) ToSlice() []Coordinate {
	out := make([]Coordinate, 0, len(cs.Map))
	for c := range cs.Map {
		out = append(out, c)
	}
	return out
}

// SerializedString folds the members into one canonical string. Members are
// sorted first, so equal sets always serialize identically; search code uses
// this as a map key.
func (cs *CoordinateSet) SerializedString() string {
	members := cs.ToSlice()
	sort.Sort(CoordinateSlice(members))
	var sb strings.Builder
	for _, c := range members {
		fmt.Fprintf(&sb, "%d,%d;", c.Row, c.Col)
	}
	return sb.String()
}

func (cs *CoordinateSet) String() string {
	members := cs.ToSlice()
	sort.Sort(CoordinateSlice(members))
	strs := make([]string, 0, len(members))
	for _, c := range members {
		strs = append(strs, c.String())
	}
	return "{" + strings.Join(strs, " ") + "}"
}

// Grid is the puzzle board plus its clue counts and running tallies.
// RowPlaced and ColPlaced track the non-Empty cells per row and column and
// are kept exact by Place and Remove. Entry and Exit are located once at
// construction and never change.
type Grid struct {
	Rows       int
	Cols       int
	Board      [][]PieceType
	RowCounts  []int
	ColCounts  []int
	RowPlaced  []int
	ColPlaced  []int
	TotalCount int
	Entry      Coordinate
	Exit       Coordinate
}

// NewGrid builds a Grid from a validated puzzle definition, bakes in the
// fixed pieces, and locates the entry and exit cells. The fixed pieces skip
// placement legality on purpose: the two cells whose piece connects off the
// board are the entry and exit, and CanPlace would reject them.
func NewGrid(p *Puzzle) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g := &Grid{
		Rows:      p.GridHeight,
		Cols:      p.GridWidth,
		Board:     make([][]PieceType, p.GridHeight),
		RowCounts: append([]int(nil), p.HorizontalClues...),
		ColCounts: append([]int(nil), p.VerticalClues...),
		RowPlaced: make([]int, p.GridHeight),
		ColPlaced: make([]int, p.GridWidth),
		Entry:     NilCoordinate(),
		Exit:      NilCoordinate(),
	}
	for r := range g.Board {
		g.Board[r] = make([]PieceType, g.Cols)
	}
	for _, ct := range g.RowCounts {
		g.TotalCount += ct
	}
	for i, piece := range p.StartingGrid {
		if piece == Empty {
			continue
		}
		g.setPiece(i/g.Cols, i%g.Cols, piece)
	}
	if !g.CanStillSatisfy() {
		return nil, fmt.Errorf("fixed pieces exceed a row or column count")
	}
	if err := g.FindEntryExit(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Grid) AreInBounds(r, c int) bool {
	return r >= 0 && r < g.Rows && c >= 0 && c < g.Cols
}

func (g *Grid) IsInBounds(c Coordinate) bool {
	return g.AreInBounds(c.Row, c.Col)
}

func (g *Grid) OnEdge(r, c int) bool {
	return r == 0 || r == g.Rows-1 || c == 0 || c == g.Cols-1
}

func (g *Grid) IsEmpty(r, c int) bool {
	return g.AreInBounds(r, c) && g.Board[r][c] == Empty
}

func (g *Grid) IsFilled(r, c int) bool {
	return g.AreInBounds(r, c) && g.Board[r][c] != Empty
}

func (g *Grid) Get(c Coordinate) PieceType {
	return g.Board[c.Row][c.Col]
}

func (g *Grid) TrackCountInRow(r int) int {
	return g.RowPlaced[r]
}

func (g *Grid) TrackCountInCol(c int) int {
	return g.ColPlaced[c]
}

// PlacedCount returns the number of non-Empty cells on the board.
func (g *Grid) PlacedCount() int {
	ct := 0
	for _, n := range g.RowPlaced {
		ct += n
	}
	return ct
}

func (g *Grid) setPiece(r, c int, p PieceType) {
	g.Board[r][c] = p
	g.RowPlaced[r]++
	g.ColPlaced[c]++
}

// Place writes p at (r, c) and bumps the row and column tallies. It does not
// re-check legality; callers gate on CanPlace. Placing Empty or overwriting
// a filled cell is a programming error and panics.
func (g *Grid) Place(r, c int, p PieceType) {
	if p == Empty {
		panic(fmt.Sprintf("Place called with Empty at (r%d, c%d)", r, c))
	}
	if !g.AreInBounds(r, c) {
		panic(fmt.Sprintf("Place out of bounds at (r%d, c%d)", r, c))
	}
	if g.Board[r][c] != Empty {
		panic(fmt.Sprintf("Place on occupied cell (r%d, c%d)", r, c))
	}
	g.setPiece(r, c, p)
}

// Remove clears (r, c) and decrements the tallies. Removing from an already
// empty or out-of-bounds cell is a no-op, so Place/Remove pairs are exact
// inverses under backtracking.
func (g *Grid) Remove(r, c int) {
	if !g.AreInBounds(r, c) || g.Board[r][c] == Empty {
		return
	}
	g.Board[r][c] = Empty
	g.RowPlaced[r]--
	g.ColPlaced[c]--
}

// CanPlace reports whether piece p may legally be placed at (r, c). The
// cell must be empty and the row and column must have capacity left. Against
// every filled neighbor the connection must be mutual or absent on both
// sides, and when any filled neighbor exists at least one of them must
// actually link up. No connection may point off the board, and each
// connection toward an empty neighbor must leave that neighbor's row and
// column with enough remaining capacity to hold the piece that will
// eventually complete the link.
func (g *Grid) CanPlace(r, c int, p PieceType) bool {
	if p == Empty || !g.AreInBounds(r, c) || g.Board[r][c] != Empty {
		return false
	}
	if g.RowPlaced[r]+1 > g.RowCounts[r] || g.ColPlaced[c]+1 > g.ColCounts[c] {
		return false
	}
	hasNeighbor, hasLink := false, false
	for _, d := range Directions {
		nr, nc := r+d.Dr, c+d.Dc
		if !g.AreInBounds(nr, nc) || g.Board[nr][nc] == Empty {
			continue
		}
		hasNeighbor = true
		out := p.ConnectsTo(d)
		back := g.Board[nr][nc].ConnectsTo(d.Reverse())
		if out != back {
			return false
		}
		if out {
			hasLink = true
		}
	}
	if hasNeighbor && !hasLink {
		return false
	}
	for _, d := range p.Connections() {
		nr, nc := r+d.Dr, c+d.Dc
		if !g.AreInBounds(nr, nc) {
			return false
		}
		if g.Board[nr][nc] != Empty {
			continue
		}
		// The empty neighbor must some day hold a piece of its own. Count
		// this placement plus that future piece against the neighbor's row
		// and column.
		rowNeed := 1
		if nr == r {
			rowNeed = 2
		}
		if g.RowPlaced[nr]+rowNeed > g.RowCounts[nr] {
			return false
		}
		colNeed := 1
		if nc == c {
			colNeed = 2
		}
		if g.ColPlaced[nc]+colNeed > g.ColCounts[nc] {
			return false
		}
	}
	return true
}

// LegalPieces returns the pieces CanPlace accepts at (r, c), in PieceType
// order.
func (g *Grid) LegalPieces(r, c int) []PieceType {
	var out []PieceType
	for p := Horizontal; p <= CornerSW; p++ {
		if g.CanPlace(r, c, p) {
			out = append(out, p)
		}
	}
	return out
}

// CanStillSatisfy reports whether every row and column can still reach its
// clue count: no tally is over its count and no count exceeds the board
// dimension. Placements gated on CanPlace never violate the first half, so
// during search this mainly guards grids mutated through setPiece or CopyTo.
func (g *Grid) CanStillSatisfy() bool {
	for r := 0; r < g.Rows; r++ {
		placed := g.RowPlaced[r]
		if placed > g.RowCounts[r] || g.RowCounts[r] > g.Cols {
			return false
		}
	}
	for c := 0; c < g.Cols; c++ {
		placed := g.ColPlaced[c]
		if placed > g.ColCounts[c] || g.ColCounts[c] > g.Rows {
			return false
		}
	}
	return true
}

// TrackCountsMatch reports whether every row and column tally equals its
// clue exactly.
func (g *Grid) TrackCountsMatch() bool {
	for r := 0; r < g.Rows; r++ {
		if g.RowPlaced[r] != g.RowCounts[r] {
			return false
		}
	}
	for c := 0; c < g.Cols; c++ {
		if g.ColPlaced[c] != g.ColCounts[c] {
			return false
		}
	}
	return true
}

// IsSingleConnectedPath reports whether the placed pieces form one connected
// component under mutual connection: a flood fill from the first placed
// piece, following only links where both ends connect to each other, must
// reach every placed piece. An empty board is not a path. Note a closed loop
// is a single component and passes this check; the solvers rule loops out
// structurally by walking entry to exit.
func (g *Grid) IsSingleConnectedPath() bool {
	filled := g.PlacedCount()
	if filled == 0 {
		return false
	}
	start := NilCoordinate()
	for r := 0; r < g.Rows && start.IsNil(); r++ {
		for c := 0; c < g.Cols; c++ {
			if g.Board[r][c] != Empty {
				start = Coordinate{r, c}
				break
			}
		}
	}
	seen := SingleCoordinateSet(start)
	stack := []Coordinate{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range g.Get(cur).Connections() {
			next := cur.Step(d)
			if !g.IsInBounds(next) || seen.Contains(next) {
				continue
			}
			if !g.Get(next).ConnectsTo(d.Reverse()) {
				continue
			}
			seen.Add(next)
			stack = append(stack, next)
		}
	}
	return seen.Size() == filled
}

// FixedPoints returns the filled cells in scan order. Called on a freshly
// constructed grid this is the clue set; the solvers capture it before
// placing anything.
func (g *Grid) FixedPoints() []Coordinate {
	var out []Coordinate
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.Board[r][c] != Empty {
				out = append(out, Coordinate{r, c})
			}
		}
	}
	return out
}

// FindEntryExit scans for the two placed pieces with exactly one connection
// pointing off the board and records them as Entry and Exit in scan order.
// Any other total is a malformed puzzle.
func (g *Grid) FindEntryExit() error {
	g.Entry = NilCoordinate()
	g.Exit = NilCoordinate()
	found := 0
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			p := g.Board[r][c]
			if p == Empty {
				continue
			}
			off := 0
			for _, d := range p.Connections() {
				if !g.AreInBounds(r+d.Dr, c+d.Dc) {
					off++
				}
			}
			if off != 1 {
				continue
			}
			switch found {
			case 0:
				g.Entry = Coordinate{r, c}
			case 1:
				g.Exit = Coordinate{r, c}
			}
			found++
		}
	}
	if found != 2 {
		return fmt.Errorf("expected exactly 2 entry/exit pieces on the board edge, found %d", found)
	}
	return nil
}

// Clone returns a deep copy sharing no memory with g.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		Rows:       g.Rows,
		Cols:       g.Cols,
		Board:      make([][]PieceType, g.Rows),
		RowCounts:  append([]int(nil), g.RowCounts...),
		ColCounts:  append([]int(nil), g.ColCounts...),
		RowPlaced:  append([]int(nil), g.RowPlaced...),
		ColPlaced:  append([]int(nil), g.ColPlaced...),
		TotalCount: g.TotalCount,
		Entry:      g.Entry,
		Exit:       g.Exit,
	}
	for r := range g.Board {
		out.Board[r] = append([]PieceType(nil), g.Board[r]...)
	}
	return out
}

// CopyTo overwrites other's cells and tallies with g's. The two grids must
// have the same dimensions; reusing one target grid lets search loops avoid
// re-allocating.
func (g *Grid) CopyTo(other *Grid) {
	if other.Rows != g.Rows || other.Cols != g.Cols {
		panic(fmt.Sprintf("CopyTo dimension mismatch: %dx%d vs %dx%d", g.Rows, g.Cols, other.Rows, other.Cols))
	}
	for r := range g.Board {
		copy(other.Board[r], g.Board[r])
	}
	copy(other.RowCounts, g.RowCounts)
	copy(other.ColCounts, g.ColCounts)
	copy(other.RowPlaced, g.RowPlaced)
	copy(other.ColPlaced, g.ColPlaced)
	other.TotalCount = g.TotalCount
	other.Entry = g.Entry
	other.Exit = g.Exit
}

func (g *Grid) Equals(other *Grid) bool {
	if g.Rows != other.Rows || g.Cols != other.Cols || g.TotalCount != other.TotalCount {
		return false
	}
	if g.Entry != other.Entry || g.Exit != other.Exit {
		return false
	}
	for r := 0; r < g.Rows; r++ {
		if g.RowCounts[r] != other.RowCounts[r] || g.RowPlaced[r] != other.RowPlaced[r] {
			return false
		}
		for c := 0; c < g.Cols; c++ {
			if g.Board[r][c] != other.Board[r][c] {
				return false
			}
		}
	}
	for c := 0; c < g.Cols; c++ {
		if g.ColCounts[c] != other.ColCounts[c] || g.ColPlaced[c] != other.ColPlaced[c] {
			return false
		}
	}
	return true
}

// String renders the board with the column counts across the top and each
// row's count down the left edge.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < g.Cols; c++ {
		sb.WriteRune(countChar(g.ColCounts[c]))
	}
	sb.WriteString("\n")
	for r := 0; r < g.Rows; r++ {
		sb.WriteRune(countChar(g.RowCounts[r]))
		sb.WriteString(" ")
		for c := 0; c < g.Cols; c++ {
			sb.WriteRune(g.Board[r][c].Rune())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// countChar packs a clue count into one character: 0-9, then a-z for 10-35,
// then A-Z for 36-61. Counts past 61 would need a wider gutter; boards that
// large are far outside solvable range anyway.
func countChar(ct int) rune {
	if ct < 10 {
		return rune('0' + ct)
	}
	if ct < 36 {
		return rune('a' + ct - 10)
	}
	if ct < 62 {
		return rune('A' + ct - 36)
	}
	return '?'
}
