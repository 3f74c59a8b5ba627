// Package trackgo implements the core solver engine for the Train Tracks
// puzzle: a grid model with placement legality and connectivity checks, and
// three cooperating solvers (a constrained backtracker, a path builder, and
// an A* search over partial path states).
package trackgo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PieceType identifies the contents of one cell. Empty is the zero value;
// the six track pieces each connect exactly two of the four cardinal
// directions.
type PieceType uint8

const (
	Empty PieceType = iota
	Horizontal
	Vertical
	CornerNE
	CornerNW
	CornerSE
	CornerSW
)

// NumPieceTypes counts the PieceType values, Empty included.
const NumPieceTypes = 7

// Direction is a unit step expressed as a (row delta, col delta) pair.
type Direction struct {
	Dr int
	Dc int
}

var (
	North = Direction{-1, 0}
	South = Direction{1, 0}
	West  = Direction{0, -1}
	East  = Direction{0, 1}
)

// Directions lists the four cardinal directions in a fixed scan order.
var Directions = [4]Direction{North, South, West, East}

func (d Direction) Reverse() Direction {
	return Direction{-d.Dr, -d.Dc}
}

// IsZero reports whether d is the zero direction, used as the "arrived from
// off the board" sentinel at the start of a path walk.
func (d Direction) IsZero() bool {
	return d.Dr == 0 && d.Dc == 0
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case West:
		return "west"
	case East:
		return "east"
	}
	return fmt.Sprintf("(%d,%d)", d.Dr, d.Dc)
}

// connectionTable[p] holds the two directions piece p connects to. Derived
// statically; Empty's entry stays zeroed and is never read.
var connectionTable = [NumPieceTypes][2]Direction{
	Horizontal: {West, East},
	Vertical:   {North, South},
	CornerNE:   {North, East},
	CornerNW:   {North, West},
	CornerSE:   {South, East},
	CornerSW:   {South, West},
}

// Connections returns the directions p connects to; nil for Empty. The
// returned slice aliases the shared table and must not be modified.
func (p PieceType) Connections() []Direction {
	if p == Empty || p >= NumPieceTypes {
		return nil
	}
	return connectionTable[p][:]
}

// ConnectsTo reports whether p connects in direction d.
func (p PieceType) ConnectsTo(d Direction) bool {
	if p == Empty || p >= NumPieceTypes {
		return false
	}
	t := &connectionTable[p]
	return t[0] == d || t[1] == d
}

// PieceForDirections returns the unique non-Empty piece whose connection set
// is exactly {d1, d2}. The pair is unordered. An error is returned when no
// piece matches: equal directions, a zero direction, or anything that is not
// a unit step.
func PieceForDirections(d1, d2 Direction) (PieceType, error) {
	for p := Horizontal; p <= CornerSW; p++ {
		t := &connectionTable[p]
		if (t[0] == d1 && t[1] == d2) || (t[0] == d2 && t[1] == d1) {
			return p, nil
		}
	}
	return Empty, fmt.Errorf("no piece connects %v and %v", d1, d2)
}

var pieceNames = [NumPieceTypes]string{
	"Empty",
	"Horizontal",
	"Vertical",
	"CornerNE",
	"CornerNW",
	"CornerSE",
	"CornerSW",
}

func (p PieceType) String() string {
	if p >= NumPieceTypes {
		return fmt.Sprintf("PieceType(%d)", uint8(p))
	}
	return pieceNames[p]
}

// ParsePiece maps a piece name to its PieceType. Names match the String
// forms, compared case-insensitively.
func ParsePiece(name string) (PieceType, error) {
	for i, n := range pieceNames {
		if strings.EqualFold(n, name) {
			return PieceType(i), nil
		}
	}
	return Empty, fmt.Errorf("unknown piece name %q", name)
}

// Rune returns the one-character board rendering of p.
func (p PieceType) Rune() rune {
	switch p {
	case Horizontal:
		return '─'
	case Vertical:
		return '│'
	case CornerNE:
		return '╰'
	case CornerNW:
		return '╯'
	case CornerSE:
		return '╭'
	case CornerSW:
		return '╮'
	}
	return '·'
}

// MarshalJSON writes the piece name, keeping startingGrid arrays readable.
func (p PieceType) MarshalJSON() ([]byte, error) {
	if p >= NumPieceTypes {
		return nil, fmt.Errorf("cannot marshal piece code %d", uint8(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a piece name or a numeric piece code.
func (p *PieceType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		v, err := ParsePiece(name)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
	var code uint8
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("piece must be a name or a code: %s", string(data))
	}
	if code >= NumPieceTypes {
		return fmt.Errorf("piece code %d out of range", code)
	}
	*p = PieceType(code)
	return nil
}
