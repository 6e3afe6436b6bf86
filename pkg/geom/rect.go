package geom

import "math"

// Rect is an axis-aligned rectangle. Min holds the smaller, Max the
// larger coordinates on both axes.
type Rect struct {
	Min Point
	Max Point
}

// RectFromXYWH builds a Rect from the x/y/width/height attributes of an
// svg rect element. Negative width/height are normalized.
func RectFromXYWH(x, y, w, h float64) Rect {
	r := Rect{Min: Point{x, y}, Max: Point{x + w, y + h}}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rect) Center() Point {
	return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Union returns the smallest Rect containing both r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, s.Min.X), math.Min(r.Min.Y, s.Min.Y)},
		Max: Point{math.Max(r.Max.X, s.Max.X), math.Max(r.Max.Y, s.Max.Y)},
	}
}

// Overlaps reports whether r and s share at least one point. Touching
// edges count as overlap.
func (r Rect) Overlaps(s Rect) bool {
	return r.Min.X <= s.Max.X && s.Min.X <= r.Max.X &&
		r.Min.Y <= s.Max.Y && s.Min.Y <= r.Max.Y
}

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d float64) Rect {
	return Rect{
		Min: Point{r.Min.X - d, r.Min.Y - d},
		Max: Point{r.Max.X + d, r.Max.Y + d},
	}
}

// Square returns a square of the given side length sharing r's center.
func (r Rect) Square(side float64) Rect {
	c := r.Center()
	half := side / 2
	return Rect{
		Min: Point{c.X - half, c.Y - half},
		Max: Point{c.X + half, c.Y + half},
	}
}
