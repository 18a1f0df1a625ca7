// Package geometry provides the rectangle and polyline primitives shared by
// the router, the overlap separator and the renderer.
package geometry

import "orthoroute/core"

// Rect is an axis-aligned obstacle rectangle in host-world coordinates.
type Rect struct {
	ID     string
	X, Y   float64 // top-left
	Width  float64
	Height float64
}

// Inflate grows the rectangle by pad on all four sides.
func (r Rect) Inflate(pad float64) InflatedRect {
	return InflatedRect{
		Left:   r.X - pad,
		Right:  r.X + r.Width + pad,
		Top:    r.Y - pad,
		Bottom: r.Y + r.Height + pad,
	}
}

// InflatedRect is an obstacle grown by the routing padding. All tests on it
// use strict inequalities: a path may travel along the boundary.
type InflatedRect struct {
	Left, Right, Top, Bottom float64
}

// ContainsStrict reports whether p lies strictly inside the rectangle.
// Boundary points are outside.
func (r InflatedRect) ContainsStrict(p core.Point) bool {
	return p.X > r.Left && p.X < r.Right &&
		p.Y > r.Top && p.Y < r.Bottom
}

// CrossesVertical reports whether the vertical segment at x spanning
// [y1, y2] passes through the rectangle's interior.
func (r InflatedRect) CrossesVertical(x, y1, y2 float64) bool {
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return x > r.Left && x < r.Right && y1 < r.Bottom && y2 > r.Top
}

// CrossesHorizontal reports whether the horizontal segment at y spanning
// [x1, x2] passes through the rectangle's interior.
func (r InflatedRect) CrossesHorizontal(y, x1, x2 float64) bool {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	return y > r.Top && y < r.Bottom && x1 < r.Right && x2 > r.Left
}
