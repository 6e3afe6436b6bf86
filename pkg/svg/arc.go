package svg

import (
	"math"

	"github.com/mpapenbr/iracelog-trackmap-go/pkg/geom"
)

// arcSegments converts an elliptical arc command to cubic segments.
// The endpoint parameterization is turned into a center one first
// (W3C SVG implementation notes F.6.5), then the sweep is cut into
// slices of at most 90 degrees, each approximated by a single cubic.
//
//nolint:funlen // center conversion spelled out
func arcSegments(start geom.Point, rx, ry, rotDeg float64,
	large, sweep bool, end geom.Point,
) []Segment {
	if start == end {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		// degenerate radii draw a straight line
		return []Segment{line(start, end)}
	}

	phi := rotDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sincos(phi)

	// midpoint in the rotated frame
	dx := (start.X - end.X) / 2
	dy := (start.Y - end.Y) / 2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	// scale up radii that cannot span the endpoints
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		f := math.Sqrt(lambda)
		rx *= f
		ry *= f
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	if num < 0 {
		num = 0
	}
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	if den == 0 {
		return []Segment{line(start, end)}
	}
	factor := math.Sqrt(num / den)
	if large == sweep {
		factor = -factor
	}
	cxp := factor * rx * y1p / ry
	cyp := -factor * ry * x1p / rx

	center := geom.Point{
		X: cosPhi*cxp - sinPhi*cyp + (start.X+end.X)/2,
		Y: sinPhi*cxp + cosPhi*cyp + (start.Y+end.Y)/2,
	}

	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dTheta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry,
		(-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && dTheta > 0 {
		dTheta -= 2 * math.Pi
	} else if sweep && dTheta < 0 {
		dTheta += 2 * math.Pi
	}

	pointAt := func(theta float64) geom.Point {
		sinT, cosT := math.Sincos(theta)
		return geom.Point{
			X: center.X + rx*cosT*cosPhi - ry*sinT*sinPhi,
			Y: center.Y + rx*cosT*sinPhi + ry*sinT*cosPhi,
		}
	}
	derivAt := func(theta float64) geom.Point {
		sinT, cosT := math.Sincos(theta)
		return geom.Point{
			X: -rx*sinT*cosPhi - ry*cosT*sinPhi,
			Y: -rx*sinT*sinPhi + ry*cosT*cosPhi,
		}
	}

	numSlices := int(math.Ceil(math.Abs(dTheta) / (math.Pi / 2)))
	if numSlices < 1 {
		numSlices = 1
	}
	step := dTheta / float64(numSlices)
	// control point distance for one slice (standard cubic arc fit)
	alpha := math.Sin(step) *
		(math.Sqrt(4+3*math.Pow(math.Tan(step/2), 2)) - 1) / 3

	ret := make([]Segment, 0, numSlices)
	cur := start
	for i := 0; i < numSlices; i++ {
		t0 := theta1 + float64(i)*step
		t1 := t0 + step
		next := pointAt(t1)
		if i == numSlices-1 {
			next = end
		}
		ret = append(ret, Segment{
			Kind:  SegCubic,
			Start: cur,
			C1:    cur.Add(derivAt(t0).Scale(alpha)),
			C2:    next.Sub(derivAt(t1).Scale(alpha)),
			End:   next,
		})
		cur = next
	}
	return ret
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	dot := ux*vx + uy*vy
	lenProd := math.Hypot(ux, uy) * math.Hypot(vx, vy)
	if lenProd == 0 {
		return 0
	}
	cos := math.Max(-1, math.Min(1, dot/lenProd))
	angle := math.Acos(cos)
	if ux*vy-uy*vx < 0 {
		return -angle
	}
	return angle
}
