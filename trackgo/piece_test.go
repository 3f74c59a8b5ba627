package trackgo

import (
	"encoding/json"
	"testing"
)

func TestConnections(t *testing.T) {
	cases := []struct {
		piece PieceType
		want  [2]Direction
	}{
		{Horizontal, [2]Direction{West, East}},
		{Vertical, [2]Direction{North, South}},
		{CornerNE, [2]Direction{North, East}},
		{CornerNW, [2]Direction{North, West}},
		{CornerSE, [2]Direction{South, East}},
		{CornerSW, [2]Direction{South, West}},
	}
	for _, c := range cases {
		got := c.piece.Connections()
		if len(got) != 2 || got[0] != c.want[0] || got[1] != c.want[1] {
			t.Errorf("%v.Connections() = %v, want %v", c.piece, got, c.want)
		}
	}
	if got := Empty.Connections(); len(got) != 0 {
		t.Errorf("Empty.Connections() = %v, want none", got)
	}
}

func TestConnectsTo(t *testing.T) {
	if !CornerSW.ConnectsTo(South) || !CornerSW.ConnectsTo(West) {
		t.Errorf("CornerSW should connect south and west")
	}
	if CornerSW.ConnectsTo(North) || CornerSW.ConnectsTo(East) {
		t.Errorf("CornerSW should not connect north or east")
	}
	for _, d := range Directions {
		if Empty.ConnectsTo(d) {
			t.Errorf("Empty should not connect %v", d)
		}
	}
}

func TestPieceForDirections(t *testing.T) {
	for p := Horizontal; p <= CornerSW; p++ {
		conns := p.Connections()
		for _, pair := range [][2]Direction{{conns[0], conns[1]}, {conns[1], conns[0]}} {
			got, err := PieceForDirections(pair[0], pair[1])
			if err != nil {
				t.Fatalf("PieceForDirections(%v, %v): %v", pair[0], pair[1], err)
			}
			if got != p {
				t.Errorf("PieceForDirections(%v, %v) = %v, want %v", pair[0], pair[1], got, p)
			}
		}
	}
	if _, err := PieceForDirections(North, North); err == nil {
		t.Errorf("equal directions should not name a piece")
	}
	if _, err := PieceForDirections(Direction{2, 0}, South); err == nil {
		t.Errorf("non-unit direction should not name a piece")
	}
}

// Every distinct pair of cardinal directions names a piece, and that piece
// connects both of them.
func TestPieceDirectionRoundTrip(t *testing.T) {
	for _, d1 := range Directions {
		for _, d2 := range Directions {
			if d1 == d2 {
				continue
			}
			p, err := PieceForDirections(d1, d2)
			if err != nil {
				t.Fatalf("PieceForDirections(%v, %v): %v", d1, d2, err)
			}
			if !p.ConnectsTo(d1) || !p.ConnectsTo(d2) {
				t.Errorf("%v does not connect both %v and %v", p, d1, d2)
			}
		}
	}
}

func TestParsePiece(t *testing.T) {
	cases := []struct {
		in   string
		want PieceType
	}{
		{"Horizontal", Horizontal},
		{"horizontal", Horizontal},
		{"VERTICAL", Vertical},
		{"CornerNE", CornerNE},
		{"cornersw", CornerSW},
		{"Empty", Empty},
	}
	for _, c := range cases {
		got, err := ParsePiece(c.in)
		if err != nil {
			t.Fatalf("ParsePiece(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParsePiece(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParsePiece("Diagonal"); err == nil {
		t.Errorf("unknown piece name should not parse")
	}
}

func TestPieceJSON(t *testing.T) {
	data, err := json.Marshal([]PieceType{Empty, CornerSE})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["Empty","CornerSE"]` {
		t.Errorf("marshal = %s", data)
	}
	var got []PieceType
	if err := json.Unmarshal([]byte(`["Vertical", 3]`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0] != Vertical || got[1] != CornerNE {
		t.Errorf("unmarshal = %v, want [Vertical CornerNE]", got)
	}
	if err := json.Unmarshal([]byte(`["Loop"]`), &got); err == nil {
		t.Errorf("unknown piece name should not unmarshal")
	}
	if err := json.Unmarshal([]byte(`[9]`), &got); err == nil {
		t.Errorf("out-of-range piece code should not unmarshal")
	}
}
