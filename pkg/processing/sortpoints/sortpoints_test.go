package sortpoints

import (
	"math"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
)

func circle(n int, radius float64) []geom.Point {
	out := make([]geom.Point, n)
	for i := range out {
		angle := 2 * math.Pi * float64(i) / float64(n)
		out[i] = geom.Point{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}
	}
	return out
}

// interleave scrambles the order deterministically: all even indices
// first, then the odd ones
func interleave(points []geom.Point) []geom.Point {
	var out []geom.Point
	for i := 0; i < len(points); i += 2 {
		out = append(out, points[i])
	}
	for i := 1; i < len(points); i += 2 {
		out = append(out, points[i])
	}
	return out
}

func TestSortKeepsOrderedInput(t *testing.T) {
	in := circle(100, 200)
	got := Sort(in)
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("Sort() reordered a sequential input (-want +got):\n%s", diff)
	}
}

func TestSortRestoresCoherence(t *testing.T) {
	in := circle(100, 200)
	spacing := in[0].Distance(in[1])
	got := Sort(interleave(in))
	if len(got) != len(in) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(in))
	}
	// a coherent traversal of the circle never skips a neighbor
	for i := 1; i < len(got); i++ {
		if d := got[i-1].Distance(got[i]); d > spacing*1.5 {
			t.Errorf("gap %d..%d = %v, want <= %v", i-1, i, d, spacing*1.5)
		}
	}
	// no point may be dropped or duplicated
	want := append([]geom.Point{}, in...)
	have := append([]geom.Point{}, got...)
	byXY := func(points []geom.Point) func(i, j int) bool {
		return func(i, j int) bool {
			if points[i].X != points[j].X {
				return points[i].X < points[j].X
			}
			return points[i].Y < points[j].Y
		}
	}
	sort.Slice(want, byXY(want))
	sort.Slice(have, byXY(have))
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("point set changed (-want +got):\n%s", diff)
	}
}

func TestSortTinyInput(t *testing.T) {
	in := []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}
	if got := Sort(in); len(got) != 2 {
		t.Errorf("Sort() = %v, want unchanged input", got)
	}
}
