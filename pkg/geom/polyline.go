package geom

// PolylineLength returns the total length of the open polyline through
// points.
func PolylineLength(points []Point) float64 {
	sum := 0.0
	for i := 1; i < len(points); i++ {
		sum += points[i-1].Distance(points[i])
	}
	return sum
}

// Bounds returns the bounding box of points. An empty slice yields the
// zero Rect.
func Bounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	ret := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X < ret.Min.X {
			ret.Min.X = p.X
		}
		if p.Y < ret.Min.Y {
			ret.Min.Y = p.Y
		}
		if p.X > ret.Max.X {
			ret.Max.X = p.X
		}
		if p.Y > ret.Max.Y {
			ret.Max.Y = p.Y
		}
	}
	return ret
}
