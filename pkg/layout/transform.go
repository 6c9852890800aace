package layout

// Rotate turns every point by −90° about the origin.
//
// With θ = −90°, cos θ = 0 and sin θ = −1 exactly, so
// (x, y) → (cos θ·x − sin θ·y, sin θ·x − cos θ·y) reduces to (y, −x). The
// layering axis (y in unit space) becomes the horizontal axis, so
// dependencies are drawn to the left of their dependents.
func Rotate(points map[string]Position) map[string]Position {
	out := make(map[string]Position, len(points))
	for id, p := range points {
		out[id] = Position{X: p.Y, Y: -p.X}
	}
	return out
}

// Normalize translates the points so that the minimum x and minimum y of
// their bounding box are both zero.
func Normalize(points map[string]Position) map[string]Position {
	b := Bounds(points)
	out := make(map[string]Position, len(points))
	for id, p := range points {
		out[id] = Position{X: p.X - b.MinX, Y: p.Y - b.MinY}
	}
	return out
}

// Scale multiplies x by sx and y by sy.
func Scale(points map[string]Position, sx, sy float64) map[string]Position {
	out := make(map[string]Position, len(points))
	for id, p := range points {
		out[id] = Position{X: p.X * sx, Y: p.Y * sy}
	}
	return out
}

// Transform converts unit-space layout coordinates into pixel space anchored
// at (0, 0): [Rotate], then [Normalize], then [Scale]. The input is not
// modified.
func Transform(points map[string]Position, scaleX, scaleY float64) map[string]Position {
	return Scale(Normalize(Rotate(points)), scaleX, scaleY)
}
