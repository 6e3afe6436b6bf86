package sampler

import (
	"errors"
	"math"
	"testing"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/svg"
)

func mustParse(t *testing.T, d string) *svg.Path {
	t.Helper()
	path, err := svg.ParsePath(d)
	if err != nil {
		t.Fatalf("ParsePath(%q) error = %v", d, err)
	}
	return path
}

func TestSampleSquare(t *testing.T) {
	points, err := Sample(mustParse(t, "M 0 0 L 100 0 L 100 100 L 0 100 Z"))
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	// length 400 -> 200 samples plus the closing duplicate
	if len(points) != 201 {
		t.Fatalf("len(points) = %d, want 201", len(points))
	}
	if points[0] != (geom.Point{X: 0, Y: 0}) {
		t.Errorf("points[0] = %v", points[0])
	}
	if points[len(points)-1] != points[0] {
		t.Errorf("last point %v does not equal first %v",
			points[len(points)-1], points[0])
	}
	// sample 50 sits at distance 100, the first corner
	if got := points[50]; got.Distance(geom.Point{X: 100, Y: 0}) > 1e-9 {
		t.Errorf("points[50] = %v, want {100 0}", got)
	}
	for i := 1; i < len(points); i++ {
		if d := points[i-1].Distance(points[i]); math.Abs(d-2.0) > 1e-9 {
			t.Fatalf("gap %d..%d = %v, want 2.0", i-1, i, d)
		}
	}
}

func TestSampleCountBounds(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want int
	}{
		{"short path hits lower bound", "M 0 0 L 10 0", 101},
		{"long path hits upper bound", "M 0 0 L 10000 0", 2001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := Sample(mustParse(t, tt.d))
			if err != nil {
				t.Fatalf("Sample() error = %v", err)
			}
			if len(points) != tt.want {
				t.Errorf("len(points) = %d, want %d", len(points), tt.want)
			}
		})
	}
}

func TestSampleCurveEvenSpacing(t *testing.T) {
	// control points bunched near the start make parameter-space
	// sampling uneven; arc-length sampling must not be
	points, err := Sample(mustParse(t, "M 0 0 C 1 80 2 120 200 120"))
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	var dists []float64
	for i := 1; i < len(points); i++ {
		dists = append(dists, points[i-1].Distance(points[i]))
	}
	mean := 0.0
	for _, d := range dists {
		mean += d
	}
	mean /= float64(len(dists))
	for i, d := range dists {
		if math.Abs(d-mean) > mean*0.2 {
			t.Fatalf("gap %d = %v deviates from mean %v by more than 20%%",
				i, d, mean)
		}
	}
}

func TestSampleSubpathJump(t *testing.T) {
	points, err := Sample(mustParse(t, "M 0 0 L 10 0 M 100 0 L 110 0"))
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	maxGap := 0.0
	for i := 1; i < len(points); i++ {
		if d := points[i-1].Distance(points[i]); d > maxGap {
			maxGap = d
		}
	}
	// the moveto jump of 90 units must surface as a sample gap
	if maxGap < 80 {
		t.Errorf("max gap = %v, want the subpath jump to remain visible", maxGap)
	}
}

func TestSampleDegenerate(t *testing.T) {
	tests := []struct {
		name string
		d    string
	}{
		{"moveto only", "M 5 5"},
		{"zero length line", "M 5 5 L 5 5 L 5 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sample(mustParse(t, tt.d))
			if !errors.Is(err, ErrDegeneratePath) {
				t.Errorf("Sample() error = %v, want ErrDegeneratePath", err)
			}
		})
	}
}
