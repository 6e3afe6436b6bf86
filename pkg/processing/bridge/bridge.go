package bridge

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/svg"
)

// LayerPriority lists the decorative layers that may carry bridge
// markers, in lookup order. The first layer that parses is used.
//
//nolint:gochecknoglobals // fixed asset naming convention
var LayerPriority = []string{"background-details", "background", "inactive"}

const (
	// idMarker tags bridge groups in the asset. Fixed by the upstream
	// asset provider, matched as substring.
	idMarker = "Bridge"
	// boxes closer than this are considered parts of the same bridge
	mergePadding = 50.0
	// zones over-approximate the marker so the reversal scan has
	// margin on both sides of the real gap
	zoneScale = 1.2
)

// ExtractZones collects bridge marker rectangles from doc and returns
// merged, expanded detection zones. A document without markers yields
// an empty result.
func ExtractZones(doc *svg.Document) []geom.Rect {
	boxes := rawBoxes(doc)
	if len(boxes) == 0 {
		return nil
	}
	sort.Slice(boxes, func(i, j int) bool {
		return boxes[i].Min.X < boxes[j].Min.X
	})
	return lo.Map(mergeBoxes(boxes), func(box geom.Rect, _ int) geom.Rect {
		return expand(box)
	})
}

// Contains reports whether p lies inside any of the zones.
func Contains(zones []geom.Rect, p geom.Point) bool {
	return lo.SomeBy(zones, func(zone geom.Rect) bool {
		return zone.Contains(p)
	})
}

func rawBoxes(doc *svg.Document) []geom.Rect {
	var out []geom.Rect
	for _, node := range doc.NodesWithID(idMarker) {
		out = append(out, node.Rects()...)
	}
	return out
}

// mergeBoxes sweeps the sorted boxes left to right, unioning each box
// into the running one when their extents come within mergePadding.
// Single pass, no transitive re-check.
func mergeBoxes(boxes []geom.Rect) []geom.Rect {
	var out []geom.Rect
	cur := boxes[0]
	for _, box := range boxes[1:] {
		if cur.Inflate(mergePadding).Overlaps(box) {
			cur = cur.Union(box)
		} else {
			out = append(out, cur)
			cur = box
		}
	}
	return append(out, cur)
}

func expand(box geom.Rect) geom.Rect {
	side := math.Max(box.Width(), box.Height()) * zoneScale
	return box.Square(side)
}
