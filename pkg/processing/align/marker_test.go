package align

import (
	"math"
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

func TestExtractMarker(t *testing.T) {
	diag := math.Sqrt2 / 2
	tests := []struct {
		name string
		doc  string
		want Marker
	}{
		{
			name: "canonical move plus line",
			doc:  `<svg><path d="M 100,50 l 0,30"/></svg>`,
			want: Marker{
				Position: &geom.Point{X: 100, Y: 65},
				Arrow:    &geom.Point{X: 0, Y: 1},
			},
		},
		{
			name: "line preceded by curve commands",
			doc:  `<svg><path d="M 0 0 C 10 0 20 10 30 10 M 5,5 l 10,0"/></svg>`,
			want: Marker{
				Position: &geom.Point{X: 10, Y: 5},
				Arrow:    &geom.Point{X: 1, Y: 0},
			},
		},
		{
			name: "fallback to first line-only path",
			doc: `<svg>
				<path d="M 0 0 C 10 0 20 10 30 10"/>
				<path d="M 0,0 L 10,10 L 20,0"/>
			</svg>`,
			want: Marker{
				Position: &geom.Point{X: 5, Y: 5},
				Arrow:    &geom.Point{X: diag, Y: diag},
			},
		},
		{
			name: "curves only yields nothing",
			doc:  `<svg><path d="M 0 0 C 10 0 20 10 30 10"/></svg>`,
			want: Marker{},
		},
		{
			name: "long lines give no arrow",
			doc:  `<svg><path d="M 0,0 L 200,0"/></svg>`,
			want: Marker{
				Position: &geom.Point{X: 100, Y: 0},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMarker(parseDoc(t, tt.doc))
			if diff := cmp.Diff(tt.want, got,
				cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("ExtractMarker() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
