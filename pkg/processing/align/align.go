// Package align produces the final racing line: the repaired loop
// rotated so index 0 sits on the start/finish line, explicitly
// closed, and wound in the official race direction.
package align

import (
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
)

// direction validation averages this many leading segments
const forwardSegments = 5

// Apply rotates the loop to the marker position, appends the closing
// duplicate and corrects the winding direction against the arrow.
// Missing marker data degrades to the documented fallbacks and never
// fails.
func Apply(points []geom.Point, marker Marker) []geom.Point {
	if len(points) < 2 {
		return points
	}
	open := points
	// upstream sampling may already carry a closure duplicate
	if open[0] == open[len(open)-1] {
		open = open[:len(open)-1]
	}
	closed := rotateAndClose(open, nearestIndex(open, anchorPoint(open, marker)))
	if marker.Arrow != nil && forwardDirection(closed).Dot(*marker.Arrow) < 0 {
		closed = reverseLoop(closed)
	}
	return closed
}

// anchorPoint picks the rotation target: the extracted start/finish
// position, or the bottom center of the bounding box when the layer
// had none. The SVG y axis points down.
func anchorPoint(points []geom.Point, marker Marker) geom.Point {
	if marker.Position != nil {
		return *marker.Position
	}
	bounds := geom.Bounds(points)
	return geom.Point{X: bounds.Center().X, Y: bounds.Max.Y}
}

func nearestIndex(points []geom.Point, target geom.Point) int {
	best, bestDist := 0, points[0].Distance(target)
	for i := 1; i < len(points); i++ {
		if d := points[i].Distance(target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func rotateAndClose(points []geom.Point, k int) []geom.Point {
	out := make([]geom.Point, 0, len(points)+1)
	out = append(out, points[k:]...)
	out = append(out, points[:k]...)
	return append(out, points[k])
}

func forwardDirection(points []geom.Point) geom.Point {
	n := min(forwardSegments, len(points)-1)
	var sum geom.Point
	for i := 0; i < n; i++ {
		sum = sum.Add(points[i+1].Sub(points[i]))
	}
	return sum.Normalize()
}

// reverseLoop flips the traversal order while keeping the start point
// at index 0. The closing duplicate is recomputed, not carried over.
func reverseLoop(closed []geom.Point) []geom.Point {
	open := closed[:len(closed)-1]
	out := make([]geom.Point, 0, len(closed))
	out = append(out, open[0])
	for i := len(open) - 1; i >= 1; i-- {
		out = append(out, open[i])
	}
	return append(out, open[0])
}
