// Package sortpoints reorders sampled points into a spatially coherent
// traversal. Some authoring tools emit path elements in arbitrary
// order, so the concatenated samples are not necessarily sequential.
package sortpoints

import (
	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
)

// Sort walks the points greedily, always moving to the closest
// remaining one. O(n^2), fine for the bounded sample counts produced
// upstream. Must not run on spliced polylines: re-sorting would
// destroy an intentional splice.
func Sort(points []geom.Point) []geom.Point {
	if len(points) < 3 {
		return points
	}
	remaining := make([]geom.Point, len(points))
	copy(remaining, points)

	out := make([]geom.Point, 0, len(points))
	cur := remaining[0]
	out = append(out, cur)
	remaining = remaining[1:]
	for len(remaining) > 0 {
		best := 0
		bestDist := cur.Distance(remaining[0])
		for i := 1; i < len(remaining); i++ {
			if d := cur.Distance(remaining[i]); d < bestDist {
				best, bestDist = i, d
			}
		}
		cur = remaining[best]
		out = append(out, cur)
		remaining[best] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}
	return out
}
