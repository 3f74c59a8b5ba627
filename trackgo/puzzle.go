package trackgo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Puzzle is the portable definition of one board: dimensions, the per-column
// and per-row clue counts, and the fixed starting pieces in row-major order.
// It is the JSON wire form and the result of parsing the text form.
type Puzzle struct {
	GridWidth       int         `json:"gridWidth"`
	GridHeight      int         `json:"gridHeight"`
	VerticalClues   []int       `json:"verticalClues"`
	HorizontalClues []int       `json:"horizontalClues"`
	StartingGrid    []PieceType `json:"startingGrid"`
}

var (
	ErrMissingRows   = errors.New("puzzle has no ROWS line")
	ErrMissingCols   = errors.New("puzzle has no COLS line")
	ErrCountMismatch = errors.New("row counts and column counts have different sums")
)

// Validate checks the structural invariants every solver relies on:
// positive dimensions, clue slices of the right length, no negative counts,
// matching count sums, and a starting grid of the right size holding only
// known pieces.
func (p *Puzzle) Validate() error {
	if p.GridWidth < 1 || p.GridHeight < 1 {
		return fmt.Errorf("grid must be at least 1x1, got %dx%d", p.GridHeight, p.GridWidth)
	}
	if len(p.VerticalClues) != p.GridWidth {
		return fmt.Errorf("want %d column counts, got %d", p.GridWidth, len(p.VerticalClues))
	}
	if len(p.HorizontalClues) != p.GridHeight {
		return fmt.Errorf("want %d row counts, got %d", p.GridHeight, len(p.HorizontalClues))
	}
	rowSum, colSum := 0, 0
	for r, ct := range p.HorizontalClues {
		if ct < 0 {
			return fmt.Errorf("row %d has negative count %d", r, ct)
		}
		rowSum += ct
	}
	for c, ct := range p.VerticalClues {
		if ct < 0 {
			return fmt.Errorf("column %d has negative count %d", c, ct)
		}
		colSum += ct
	}
	if rowSum != colSum {
		return fmt.Errorf("%w: rows %d, columns %d", ErrCountMismatch, rowSum, colSum)
	}
	if p.StartingGrid != nil && len(p.StartingGrid) != p.GridWidth*p.GridHeight {
		return fmt.Errorf("starting grid has %d cells, want %d", len(p.StartingGrid), p.GridWidth*p.GridHeight)
	}
	for i, piece := range p.StartingGrid {
		if piece >= NumPieceTypes {
			return fmt.Errorf("starting grid cell %d holds unknown piece code %d", i, uint8(piece))
		}
	}
	return nil
}

// ParsePuzzle reads the line-oriented text form:
//
//	# comment
//	ROWS: 1 1 1
//	COLS: 0 3 0
//	FIXED:
//	0,1: Vertical
//	2,1: Vertical
//
// Keywords are case-insensitive, # starts a comment anywhere on a line, and
// blank lines are ignored. Dimensions come from the count list lengths.
func ParsePuzzle(input string) (*Puzzle, error) {
	p := &Puzzle{}
	type fixedEntry struct {
		c     Coordinate
		piece PieceType
		line  int
	}
	var fixed []fixedEntry
	sawRows, sawCols, inFixed := false, false, false
	for i, raw := range strings.Split(input, "\n") {
		line := raw
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "ROWS:"):
			counts, err := parseCountList(line[len("ROWS:"):])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			p.HorizontalClues = counts
			sawRows = true
		case strings.HasPrefix(upper, "COLS:"):
			counts, err := parseCountList(line[len("COLS:"):])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			p.VerticalClues = counts
			sawCols = true
		case upper == "FIXED:":
			inFixed = true
		case inFixed:
			c, piece, err := parseFixedLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			fixed = append(fixed, fixedEntry{c, piece, i + 1})
		default:
			return nil, fmt.Errorf("line %d: unrecognized input %q", i+1, line)
		}
	}
	if !sawRows {
		return nil, ErrMissingRows
	}
	if !sawCols {
		return nil, ErrMissingCols
	}
	p.GridHeight = len(p.HorizontalClues)
	p.GridWidth = len(p.VerticalClues)
	p.StartingGrid = make([]PieceType, p.GridWidth*p.GridHeight)
	for _, f := range fixed {
		if f.c.Row < 0 || f.c.Row >= p.GridHeight || f.c.Col < 0 || f.c.Col >= p.GridWidth {
			return nil, fmt.Errorf("line %d: fixed piece %s is outside the %dx%d grid", f.line, f.c, p.GridHeight, p.GridWidth)
		}
		idx := f.c.Row*p.GridWidth + f.c.Col
		if p.StartingGrid[idx] != Empty {
			return nil, fmt.Errorf("line %d: duplicate fixed piece at %s", f.line, f.c)
		}
		p.StartingGrid[idx] = f.piece
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseCountList(s string) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty count list")
	}
	counts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad count %q", f)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative count %d", n)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func parseFixedLine(line string) (Coordinate, PieceType, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return NilCoordinate(), Empty, fmt.Errorf("fixed piece line %q is not R,C: PieceName", line)
	}
	coords := strings.SplitN(parts[0], ",", 2)
	if len(coords) != 2 {
		return NilCoordinate(), Empty, fmt.Errorf("bad coordinate %q", parts[0])
	}
	r, err := strconv.Atoi(strings.TrimSpace(coords[0]))
	if err != nil {
		return NilCoordinate(), Empty, fmt.Errorf("bad row %q", coords[0])
	}
	c, err := strconv.Atoi(strings.TrimSpace(coords[1]))
	if err != nil {
		return NilCoordinate(), Empty, fmt.Errorf("bad column %q", coords[1])
	}
	piece, err := ParsePiece(strings.TrimSpace(parts[1]))
	if err != nil {
		return NilCoordinate(), Empty, err
	}
	return Coordinate{r, c}, piece, nil
}

// String writes the puzzle back out in the text form ParsePuzzle reads.
func (p *Puzzle) String() string {
	var sb strings.Builder
	sb.WriteString("ROWS:")
	for _, ct := range p.HorizontalClues {
		fmt.Fprintf(&sb, " %d", ct)
	}
	sb.WriteString("\nCOLS:")
	for _, ct := range p.VerticalClues {
		fmt.Fprintf(&sb, " %d", ct)
	}
	sb.WriteString("\nFIXED:\n")
	for i, piece := range p.StartingGrid {
		if piece == Empty {
			continue
		}
		fmt.Fprintf(&sb, "%d,%d: %s\n", i/p.GridWidth, i%p.GridWidth, piece)
	}
	return sb.String()
}

// ParsePuzzleJSON reads either a single JSON puzzle object or an array of
// them. Every puzzle is validated before any is returned.
func ParsePuzzleJSON(data []byte) ([]*Puzzle, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var batch []*Puzzle
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			return nil, fmt.Errorf("empty puzzle batch")
		}
		for i, p := range batch {
			if p == nil {
				return nil, fmt.Errorf("puzzle %d: null entry", i)
			}
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("puzzle %d: %w", i, err)
			}
		}
		return batch, nil
	}
	p := &Puzzle{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return []*Puzzle{p}, nil
}

// LoadPuzzleFile reads one puzzle from path, picking the format by
// extension: .json is parsed as JSON (first puzzle of a batch), everything
// else as the text form.
func LoadPuzzleFile(path string) (*Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		batch, err := ParsePuzzleJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return batch[0], nil
	}
	p, err := ParsePuzzle(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
