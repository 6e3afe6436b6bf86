package align

import (
	"regexp"
	"strconv"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/svg"
)

// LayerName is the asset layer carrying the start/finish marker.
const LayerName = "start-finish"

// Arrow markers are small compared to track geometry. Line segments
// up to this length count as direction indicators.
const shortLineMax = 50.0

// Marker holds the optional alignment inputs extracted from the
// start-finish layer. Either field may be nil.
type Marker struct {
	// Position is the midpoint of the drawn start/finish line.
	Position *geom.Point
	// Arrow is the unit direction-of-travel vector.
	Arrow *geom.Point
}

// the canonical start/finish line: absolute move plus relative line
var sfLineRe = regexp.MustCompile(
	`M\s*(-?\d*\.?\d+)[\s,]+(-?\d*\.?\d+)\s*l\s*(-?\d*\.?\d+)[\s,]+(-?\d*\.?\d+)`)

// ExtractMarker scans the start-finish layer for the drawn line and
// direction arrow. Missing pieces stay nil, callers degrade to their
// documented fallbacks.
func ExtractMarker(doc *svg.Document) Marker {
	marker := Marker{}
	paths := doc.Paths()
	marker.Position = findPosition(paths)
	marker.Arrow = findArrow(paths)
	return marker
}

// findPosition matches the move+line pattern first and falls back to
// the first path drawn entirely with line commands.
func findPosition(paths []*svg.Node) *geom.Point {
	for _, node := range paths {
		match := sfLineRe.FindStringSubmatch(node.PathData())
		if match == nil {
			continue
		}
		coords, ok := parseFloats(match[1:])
		if !ok {
			continue
		}
		return &geom.Point{
			X: coords[0] + coords[2]/2,
			Y: coords[1] + coords[3]/2,
		}
	}
	for _, node := range paths {
		path, err := svg.ParsePath(node.PathData())
		if err != nil || !path.OnlyLines() {
			continue
		}
		seg := path.Segments[0]
		mid := seg.Start.Lerp(seg.End, 0.5)
		return &mid
	}
	return nil
}

// findArrow returns the direction of the first short line segment.
func findArrow(paths []*svg.Node) *geom.Point {
	for _, node := range paths {
		path, err := svg.ParsePath(node.PathData())
		if err != nil {
			continue
		}
		for _, seg := range path.Segments {
			if seg.Kind != svg.SegLine {
				continue
			}
			dir := seg.End.Sub(seg.Start)
			if l := dir.Length(); l > 0 && l <= shortLineMax {
				unit := dir.Normalize()
				return &unit
			}
		}
	}
	return nil
}

func parseFloats(raw []string) ([]float64, bool) {
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
