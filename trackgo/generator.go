package trackgo

import (
	"fmt"
	"math/rand"
)

// Generate builds a puzzle with a known solution. It carves a random
// self-avoiding walk from one board edge to another, takes the row and
// column counts from the carved path, and reveals the entry, the exit, and
// a sampling of interior cells as fixed pieces. Puzzles come out solvable
// by construction, though not necessarily uniquely.
func Generate(rng *rand.Rand, rows, cols int) (*Puzzle, error) {
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("generated grids must be at least 2x2, got %dx%d", rows, cols)
	}
	path, entryOff := carvePath(rng, rows, cols)
	exitOff := pickOffGridDir(rng, path[len(path)-1], rows, cols)

	p := &Puzzle{
		GridWidth:       cols,
		GridHeight:      rows,
		VerticalClues:   make([]int, cols),
		HorizontalClues: make([]int, rows),
		StartingGrid:    make([]PieceType, rows*cols),
	}
	pieces := make([]PieceType, len(path))
	for i, cell := range path {
		p.HorizontalClues[cell.Row]++
		p.VerticalClues[cell.Col]++
		a := entryOff
		if i > 0 {
			a = dirBetween(cell, path[i-1])
		}
		b := exitOff
		if i < len(path)-1 {
			b = dirBetween(cell, path[i+1])
		}
		piece, err := PieceForDirections(a, b)
		if err != nil {
			return nil, fmt.Errorf("carved path is not a chain: %w", err)
		}
		pieces[i] = piece
	}

	reveal := func(i int) {
		cell := path[i]
		p.StartingGrid[cell.Row*cols+cell.Col] = pieces[i]
	}
	reveal(0)
	reveal(len(path) - 1)
	clues := len(path) / 6
	for _, i := range rng.Perm(len(path) - 2)[:minInt(clues, len(path)-2)] {
		reveal(i + 1)
	}
	return p, nil
}

// carvePath walks a self-avoiding path starting from a random edge cell
// until it can stop on another edge cell with enough length behind it.
// Returns the path and the off-grid direction the walk entered from.
func carvePath(rng *rand.Rand, rows, cols int) ([]Coordinate, Direction) {
	start, entryOff := randomEdgeCell(rng, rows, cols)
	minLen := rows * cols / 3
	if minLen < 2 {
		minLen = 2
	}
	inBounds := func(c Coordinate) bool {
		return c.Row >= 0 && c.Row < rows && c.Col >= 0 && c.Col < cols
	}
	onEdge := func(c Coordinate) bool {
		return c.Row == 0 || c.Row == rows-1 || c.Col == 0 || c.Col == cols-1
	}
	var path []Coordinate
	onPath := make(map[Coordinate]bool)
	var walk func(cur Coordinate) bool
	walk = func(cur Coordinate) bool {
		path = append(path, cur)
		onPath[cur] = true
		canStop := len(path) >= minLen && cur != start && onEdge(cur)
		if canStop && rng.Intn(4) == 0 {
			return true
		}
		for _, di := range rng.Perm(4) {
			next := cur.Step(Directions[di])
			if inBounds(next) && !onPath[next] {
				if walk(next) {
					return true
				}
			}
		}
		// Dead ends on an edge still make a usable exit.
		if canStop {
			return true
		}
		path = path[:len(path)-1]
		delete(onPath, cur)
		return false
	}
	for !walk(start) {
		// Exhausted every path from this start; re-roll a fresh edge cell.
		path = path[:0]
		onPath = make(map[Coordinate]bool)
		start, entryOff = randomEdgeCell(rng, rows, cols)
	}
	return path, entryOff
}

func randomEdgeCell(rng *rand.Rand, rows, cols int) (Coordinate, Direction) {
	switch rng.Intn(4) {
	case 0:
		return Coordinate{0, rng.Intn(cols)}, North
	case 1:
		return Coordinate{rows - 1, rng.Intn(cols)}, South
	case 2:
		return Coordinate{rng.Intn(rows), 0}, West
	default:
		return Coordinate{rng.Intn(rows), cols - 1}, East
	}
}

// pickOffGridDir chooses an off-grid direction for the exit piece. Board
// corners have two candidates; anywhere else on the edge has one. The
// previous path cell is always in bounds, so no choice here can point back
// along the path.
func pickOffGridDir(rng *rand.Rand, c Coordinate, rows, cols int) Direction {
	var offs []Direction
	for _, d := range Directions {
		next := c.Step(d)
		if next.Row < 0 || next.Row >= rows || next.Col < 0 || next.Col >= cols {
			offs = append(offs, d)
		}
	}
	return offs[rng.Intn(len(offs))]
}

func dirBetween(from, to Coordinate) Direction {
	return Direction{to.Row - from.Row, to.Col - from.Col}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
