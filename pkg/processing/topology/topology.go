// Package topology reconstructs one contiguous loop from raw track
// samples. Source assets draw bridges, flyovers and pit lanes into a
// single path, so the sampled polyline may contain large jumps and
// wrong-direction carriageway sections that have to be cut out.
package topology

import (
	"sort"

	"github.com/samber/lo"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/processing/bridge"
)

const (
	// jumpFactor scales the median consecutive distance into the
	// jump threshold.
	jumpFactor = 2.5
	// headingWindow is the number of segments averaged on each side
	// of a sample when scanning for direction reversals.
	headingWindow = 10
	// reversalCos marks a before/after heading pair as a reversal
	// when the cosine of their angle drops below this value (120deg).
	reversalCos = -0.5

	minSplicePoints = 2
	maxSplicePoints = 20
	spliceSpacing   = 2.0
)

// Repair detects threshold-exceeding gaps in the sampled polyline and
// reconstructs a single traversable loop. The returned flag reports
// whether points were removed or inserted; when true the result is
// already physically sequential and must not be re-sorted.
func Repair(points []geom.Point, zones []geom.Rect) ([]geom.Point, bool) {
	if len(points) < 2 {
		return points, false
	}
	dists := consecutiveDistances(points)
	threshold := jumpFactor * median(dists)
	if threshold == 0 {
		return points, false
	}
	jumps := jumpCandidates(dists, threshold)
	if len(jumps) == 0 {
		return points, false
	}
	if len(zones) > 0 {
		if repaired, ok := spliceReversals(points, zones); ok {
			return repaired, true
		}
	}
	return splitAtLargestJump(points, dists, jumps, zones), true
}

func consecutiveDistances(points []geom.Point) []float64 {
	dists := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		dists[i-1] = points[i-1].Distance(points[i])
	}
	return dists
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func jumpCandidates(dists []float64, threshold float64) []int {
	var jumps []int
	for i, d := range dists {
		if d > threshold {
			jumps = append(jumps, i)
		}
	}
	return jumps
}

// spliceReversals scans every in-zone sample for a heading reversal
// and, when found, cuts out the wrong-direction section. The true
// splice point does not always coincide with the largest jump: bridge
// crossings can be smoothly sampled even though the two carriageways
// run in opposite directions.
func spliceReversals(points []geom.Point, zones []geom.Rect) ([]geom.Point, bool) {
	revs := reversalIndices(points, zones)
	switch {
	case len(revs) >= 2:
		first, last := revs[0], revs[len(revs)-1]
		segA, segB := points[:first], points[last+1:]
		if len(segA) == 0 {
			return segB, true
		}
		if len(segB) == 0 {
			return segA, true
		}
		return splice(segA, segB), true
	case len(revs) == 1 && revs[0] > 0:
		return points[:revs[0]], true
	default:
		return nil, false
	}
}

func reversalIndices(points []geom.Point, zones []geom.Rect) []int {
	var revs []int
	for i := headingWindow; i < len(points)-headingWindow; i++ {
		if !bridge.Contains(zones, points[i]) {
			continue
		}
		before := avgHeading(points[i-headingWindow : i+1])
		after := avgHeading(points[i : i+headingWindow+1])
		if before.Dot(after) < reversalCos {
			revs = append(revs, i)
		}
	}
	return revs
}

// avgHeading returns the unit direction of the net displacement over
// the window, the zero point for a stationary window.
func avgHeading(window []geom.Point) geom.Point {
	var sum geom.Point
	for i := 1; i < len(window); i++ {
		sum = sum.Add(window[i].Sub(window[i-1]))
	}
	return sum.Normalize()
}

// splice joins the two kept segments, filling the gap with linearly
// interpolated points at roughly the sampling density.
func splice(segA, segB []geom.Point) []geom.Point {
	last, next := segA[len(segA)-1], segB[0]
	count := int(last.Distance(next)/spliceSpacing) - 1
	count = max(minSplicePoints, min(maxSplicePoints, count))
	out := make([]geom.Point, 0, len(segA)+count+len(segB))
	out = append(out, segA...)
	for k := 1; k <= count; k++ {
		out = append(out, last.Lerp(next, float64(k)/float64(count+1)))
	}
	return append(out, segB...)
}

// splitAtLargestJump keeps the segment preceding the largest jump.
// Jumps inside a bridge zone are expected gaps, so jumps outside any
// zone take precedence when both kinds are present.
func splitAtLargestJump(
	points []geom.Point, dists []float64, jumps []int, zones []geom.Rect,
) []geom.Point {
	candidates := lo.Filter(jumps, func(j int, _ int) bool {
		mid := points[j].Lerp(points[j+1], 0.5)
		return !bridge.Contains(zones, mid)
	})
	if len(candidates) == 0 {
		candidates = jumps
	}
	best := lo.MaxBy(candidates, func(a, b int) bool {
		return dists[a] > dists[b]
	})
	return points[:best+1]
}
