package geometry

import "orthoroute/core"

// Dedupe removes consecutive exact-duplicate points.
func Dedupe(points []core.Point) []core.Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]core.Point, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if !p.Equal(out[len(out)-1]) {
			out = append(out, p)
		}
	}
	return out
}

// Simplify dedupes the polyline and drops every middle point whose
// neighbours are collinear with it on one axis. Simplify is idempotent.
func Simplify(points []core.Point) []core.Point {
	return SimplifyKeeping(points, nil)
}

// SimplifyKeeping is Simplify with a protection predicate: points whose
// original index satisfies keep survive even when collinear. The router uses
// this to preserve stub endpoints through simplification so the separator
// can still identify them.
func SimplifyKeeping(points []core.Point, keep func(i int) bool) []core.Point {
	type indexed struct {
		p core.Point
		i int
	}
	if len(points) == 0 {
		return nil
	}
	deduped := make([]indexed, 0, len(points))
	deduped = append(deduped, indexed{points[0], 0})
	for i, p := range points[1:] {
		if !p.Equal(deduped[len(deduped)-1].p) {
			deduped = append(deduped, indexed{p, i + 1})
		}
	}
	if len(deduped) <= 2 {
		out := make([]core.Point, len(deduped))
		for i, d := range deduped {
			out[i] = d.p
		}
		return out
	}
	out := make([]core.Point, 0, len(deduped))
	out = append(out, deduped[0].p)
	for i := 1; i < len(deduped)-1; i++ {
		cur := deduped[i]
		if keep != nil && keep(cur.i) {
			out = append(out, cur.p)
			continue
		}
		prev := out[len(out)-1]
		next := deduped[i+1].p
		// Strict equality on one coordinate marks a collinear run.
		if (prev.X == cur.p.X && cur.p.X == next.X) ||
			(prev.Y == cur.p.Y && cur.p.Y == next.Y) {
			continue
		}
		out = append(out, cur.p)
	}
	out = append(out, deduped[len(deduped)-1].p)
	return out
}

// IsOrthogonal reports whether every consecutive pair of points differs on
// exactly one coordinate.
func IsOrthogonal(points []core.Point) bool {
	for i := 1; i < len(points); i++ {
		dx := points[i].X != points[i-1].X
		dy := points[i].Y != points[i-1].Y
		if dx == dy {
			return false
		}
	}
	return true
}
