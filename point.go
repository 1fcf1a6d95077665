package paint

// Point is a position in canvas pixels, or a size when used as Placement.Size.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}
