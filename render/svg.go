// Package render converts routed polylines into SVG path strings with
// radius-clamped rounded corners.
package render

import (
	"strconv"
	"strings"

	"orthoroute/core"
)

// minCornerRadius is the radius below which a corner renders as a sharp L.
const minCornerRadius = 0.5

// SVGPath converts an orthogonal polyline into an SVG path string. Each
// interior vertex with non-collinear neighbours becomes a quadratic Bézier
// whose control point is the vertex itself; the arc endpoints sit on the
// adjacent segments at distance min(bendRadius, half of either segment).
// Collinear interior points pass through as L commands. An empty polyline
// produces an empty string.
func SVGPath(points []core.Point, bendRadius float64) string {
	if len(points) == 0 {
		return ""
	}
	if bendRadius < 0 {
		bendRadius = 0
	}

	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, points[0])

	for i := 1; i < len(points)-1; i++ {
		prev, cur, next := points[i-1], points[i], points[i+1]
		inX, inY := cur.X-prev.X, cur.Y-prev.Y
		outX, outY := next.X-cur.X, next.Y-cur.Y

		inLen := abs(inX) + abs(inY)
		outLen := abs(outX) + abs(outY)
		collinear := (inX == 0 && outX == 0) || (inY == 0 && outY == 0)

		r := min3(bendRadius, inLen/2, outLen/2)
		if collinear || r < minCornerRadius {
			b.WriteString(" L ")
			writePoint(&b, cur)
			continue
		}

		arcIn := core.Point{
			X: cur.X - sign(inX)*r,
			Y: cur.Y - sign(inY)*r,
		}
		arcOut := core.Point{
			X: cur.X + sign(outX)*r,
			Y: cur.Y + sign(outY)*r,
		}
		b.WriteString(" L ")
		writePoint(&b, arcIn)
		b.WriteString(" Q ")
		writePoint(&b, cur)
		b.WriteByte(' ')
		writePoint(&b, arcOut)
	}

	if len(points) > 1 {
		b.WriteString(" L ")
		writePoint(&b, points[len(points)-1])
	}
	return b.String()
}

func writePoint(b *strings.Builder, p core.Point) {
	b.WriteString(formatCoord(p.X))
	b.WriteByte(' ')
	b.WriteString(formatCoord(p.Y))
}

// formatCoord renders a coordinate with the shortest exact decimal form.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func min3(a, b, c float64) float64 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
