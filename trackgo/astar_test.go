package trackgo

import "testing"

func TestMstCost(t *testing.T) {
	cases := []struct {
		name   string
		start  Coordinate
		points []Coordinate
		want   int
	}{
		{"no points", Coordinate{0, 0}, nil, 0},
		{"single point", Coordinate{0, 0}, []Coordinate{{2, 3}}, 5},
		// Chaining through (0,2) beats connecting both points to the start.
		{"collinear chain", Coordinate{0, 0}, []Coordinate{{0, 2}, {0, 5}}, 5},
		{"around a corner", Coordinate{0, 0}, []Coordinate{{3, 0}, {3, 4}, {0, 4}}, 10},
		{"same set reordered", Coordinate{0, 0}, []Coordinate{{0, 4}, {3, 4}, {3, 0}}, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mstCost(tc.start, tc.points); got != tc.want {
				t.Errorf("mstCost(%v, %v) = %d, want %d", tc.start, tc.points, got, tc.want)
			}
		})
	}
}
