package bridge

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/svg"
)

func parseDoc(t *testing.T, data string) *svg.Document {
	t.Helper()
	doc, err := svg.Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestExtractZones(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []geom.Rect
	}{
		{
			name: "close boxes merge into one zone",
			doc: `<svg><g id="background">
				<g id="Bridge_1">
					<rect x="100" y="50" width="20" height="10"/>
					<rect x="130" y="52" width="18" height="12"/>
				</g>
				<rect x="0" y="0" width="1000" height="1000"/>
			</g></svg>`,
			// union {100..148, 50..64}, side 1.2*48, center (124, 57)
			want: []geom.Rect{{
				Min: geom.Point{X: 95.2, Y: 28.2},
				Max: geom.Point{X: 152.8, Y: 85.8},
			}},
		},
		{
			name: "distant groups stay separate",
			doc: `<svg>
				<g id="Bridge_1"><rect x="0" y="0" width="10" height="10"/></g>
				<g id="Bridge_2"><rect x="500" y="300" width="40" height="8"/></g>
			</svg>`,
			want: []geom.Rect{
				{Min: geom.Point{X: -1, Y: -1}, Max: geom.Point{X: 11, Y: 11}},
				{Min: geom.Point{X: 496, Y: 280}, Max: geom.Point{X: 544, Y: 328}},
			},
		},
		{
			name: "gap of exactly 50 still merges",
			doc: `<svg>
				<g id="Bridge_1"><rect x="60" y="0" width="10" height="10"/></g>
				<g id="Bridge_2"><rect x="0" y="0" width="10" height="10"/></g>
			</svg>`,
			// boxes get sorted by minX before the sweep
			want: []geom.Rect{{
				Min: geom.Point{X: -7, Y: -37},
				Max: geom.Point{X: 77, Y: 47},
			}},
		},
		{
			name: "no markers",
			doc:  `<svg><g id="background"><rect x="0" y="0" width="10" height="10"/></g></svg>`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractZones(parseDoc(t, tt.doc))
			if diff := cmp.Diff(tt.want, got,
				cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("ExtractZones() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContains(t *testing.T) {
	zones := []geom.Rect{
		{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 10, Y: 10}},
		{Min: geom.Point{X: 100, Y: 100}, Max: geom.Point{X: 120, Y: 120}},
	}
	tests := []struct {
		name  string
		point geom.Point
		want  bool
	}{
		{"inside first", geom.Point{X: 5, Y: 5}, true},
		{"on edge", geom.Point{X: 10, Y: 10}, true},
		{"inside second", geom.Point{X: 110, Y: 115}, true},
		{"between zones", geom.Point{X: 50, Y: 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(zones, tt.point); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}
