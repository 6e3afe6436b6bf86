package sampler

import (
	"errors"
	"math"
	"sort"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/svg"
)

// ErrDegeneratePath marks paths without usable geometry (no segments
// or zero total length).
var ErrDegeneratePath = errors.New("degenerate path geometry")

const (
	// target spacing between emitted samples in svg units
	targetSpacing = 2.0
	minSamples    = 100
	maxSamples    = 2000
)

// Sample emits points at uniform arc-length fractions along the path.
// The sample count N is ceil(length/2) clamped to [100,2000]; N+1
// points are returned so an exactly closed path repeats its first
// point. Curves are evaluated by distance along the flattened curve,
// not by curve parameter, so samples are evenly spaced even where
// control points bunch up.
func Sample(path *svg.Path) ([]geom.Point, error) {
	if path.Empty() {
		return nil, ErrDegeneratePath
	}
	table := buildTable(path)
	length := table.total()
	if length == 0 {
		return nil, ErrDegeneratePath
	}
	n := sampleCount(length)
	ret := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		ret = append(ret, table.pointAt(length*float64(i)/float64(n)))
	}
	return ret, nil
}

func sampleCount(length float64) int {
	n := int(math.Ceil(length / targetSpacing))
	if n < minSamples {
		return minSamples
	}
	if n > maxSamples {
		return maxSamples
	}
	return n
}

// lengthTable maps distance along the path to a location. cum[i] holds
// the length of the flattened path up to points[i]; a moveto between
// subpaths contributes a point but no length, matching svg DOM
// getPointAtLength behavior.
type lengthTable struct {
	points []geom.Point
	cum    []float64
}

func buildTable(path *svg.Path) *lengthTable {
	table := &lengthTable{}
	for _, seg := range path.Segments {
		flat := flatten(seg)
		for idx, p := range flat {
			if len(table.points) == 0 {
				table.append(p, 0)
				continue
			}
			last := table.points[len(table.points)-1]
			if idx == 0 {
				if p == last {
					continue
				}
				// subpath boundary: jump without drawn length
				table.append(p, 0)
				continue
			}
			table.append(p, last.Distance(p))
		}
	}
	return table
}

func (t *lengthTable) append(p geom.Point, dist float64) {
	prev := 0.0
	if len(t.cum) > 0 {
		prev = t.cum[len(t.cum)-1]
	}
	t.points = append(t.points, p)
	t.cum = append(t.cum, prev+dist)
}

func (t *lengthTable) total() float64 {
	if len(t.cum) == 0 {
		return 0
	}
	return t.cum[len(t.cum)-1]
}

func (t *lengthTable) pointAt(dist float64) geom.Point {
	if dist <= 0 {
		return t.points[0]
	}
	if dist >= t.total() {
		return t.points[len(t.points)-1]
	}
	idx := sort.SearchFloat64s(t.cum, dist)
	span := t.cum[idx] - t.cum[idx-1]
	if span == 0 {
		return t.points[idx]
	}
	frac := (dist - t.cum[idx-1]) / span
	return t.points[idx-1].Lerp(t.points[idx], frac)
}

// flatten converts a segment into a point sequence including both
// endpoints. Curves are cut into roughly unit-length steps derived
// from the control polygon length, which over-estimates the true arc
// length and keeps the table finer than the 2-unit output spacing.
func flatten(seg svg.Segment) []geom.Point {
	if seg.Kind == svg.SegLine {
		return []geom.Point{seg.Start, seg.End}
	}
	polyLen := controlPolygonLength(seg)
	n := int(polyLen + 0.5)
	if n < 4 {
		n = 4
	}
	ret := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		ret = append(ret, evalSegment(seg, float64(i)/float64(n)))
	}
	return ret
}

func controlPolygonLength(seg svg.Segment) float64 {
	switch seg.Kind {
	case svg.SegQuad:
		return seg.Start.Distance(seg.C1) + seg.C1.Distance(seg.End)
	case svg.SegCubic:
		return seg.Start.Distance(seg.C1) +
			seg.C1.Distance(seg.C2) +
			seg.C2.Distance(seg.End)
	default:
		return seg.Start.Distance(seg.End)
	}
}

func evalSegment(seg svg.Segment, t float64) geom.Point {
	switch seg.Kind {
	case svg.SegQuad:
		mt := 1 - t
		a := mt * mt
		b := 2 * mt * t
		c := t * t
		return geom.Point{
			X: a*seg.Start.X + b*seg.C1.X + c*seg.End.X,
			Y: a*seg.Start.Y + b*seg.C1.Y + c*seg.End.Y,
		}
	case svg.SegCubic:
		mt := 1 - t
		a := mt * mt * mt
		b := 3 * mt * mt * t
		c := 3 * mt * t * t
		d := t * t * t
		return geom.Point{
			X: a*seg.Start.X + b*seg.C1.X + c*seg.C2.X + d*seg.End.X,
			Y: a*seg.Start.Y + b*seg.C1.Y + c*seg.C2.Y + d*seg.End.Y,
		}
	default:
		return seg.Start.Lerp(seg.End, t)
	}
}
