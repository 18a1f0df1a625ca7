// Package connections spreads collinear overlapping edge segments apart so
// edges sharing a corridor stay visually distinct. Offsets are applied
// perpendicular to each segment and the polylines are re-orthogonalised
// afterwards; ports never move, and stub endpoints stay on their stub's axis
// (a stub may lengthen or shorten when its neighbouring segment shifts).
package connections

import (
	"math"
	"sort"

	"orthoroute/core"
	"orthoroute/geometry"
)

// epsilon distinguishes horizontal from vertical segments and decides when
// two float ranges touch.
const epsilon = 1e-6

// RoutedEdge is one routed polyline keyed by its edge id.
type RoutedEdge struct {
	ID     string
	Points []core.Point
}

type orientation int

const (
	horizontal orientation = iota
	vertical
)

// segRef identifies one routable segment of one edge.
type segRef struct {
	edge   int // index into the batch
	seg    int // segment index: points[seg] -> points[seg+1]
	orient orientation
	lo, hi float64 // range along the segment's axis
}

type groupKey struct {
	orient orientation
	coord  float64 // fixed perpendicular coordinate, quantised
}

// SeparateOverlaps returns a new batch in which overlapping collinear
// interior segments are displaced by multiples of separation, spread
// symmetrically about the shared corridor. Stub segments (the first and last
// of each polyline) are never eligible. A non-positive separation or a batch
// of at most one edge passes through unchanged.
func SeparateOverlaps(edges []RoutedEdge, separation float64) []RoutedEdge {
	out := make([]RoutedEdge, len(edges))
	for i, e := range edges {
		pts := make([]core.Point, len(e.Points))
		copy(pts, e.Points)
		out[i] = RoutedEdge{ID: e.ID, Points: pts}
	}
	if separation <= 0 || len(edges) <= 1 {
		return out
	}

	offsets := assignOffsets(out, separation)
	if len(offsets) == 0 {
		return out
	}

	for i := range out {
		out[i].Points = applyOffsets(out[i].Points, offsets[i])
		out[i].Points = reorthogonalise(out[i].Points)
		out[i].Points = simplifyKeepStubs(out[i].Points)
	}
	return out
}

// assignOffsets groups routable segments by (orientation, fixed coordinate),
// sweeps each group into clusters of pairwise-overlapping ranges, and hands
// each distinct edge in a cluster a centre-spread offset. The result maps
// edge index -> segment index -> offset.
func assignOffsets(edges []RoutedEdge, separation float64) map[int]map[int]float64 {
	groups := make(map[groupKey][]segRef)
	var keys []groupKey
	for ei, e := range edges {
		if len(e.Points) < 4 {
			continue
		}
		// Everything but the source stub (first) and target stub (last).
		for si := 1; si <= len(e.Points)-3; si++ {
			a, b := e.Points[si], e.Points[si+1]
			var ref segRef
			switch {
			case math.Abs(a.Y-b.Y) < epsilon:
				ref = segRef{edge: ei, seg: si, orient: horizontal,
					lo: math.Min(a.X, b.X), hi: math.Max(a.X, b.X)}
			case math.Abs(a.X-b.X) < epsilon:
				ref = segRef{edge: ei, seg: si, orient: vertical,
					lo: math.Min(a.Y, b.Y), hi: math.Max(a.Y, b.Y)}
			default:
				continue
			}
			key := groupKey{orient: ref.orient, coord: quantise(fixedCoord(a, ref.orient))}
			if _, ok := groups[key]; !ok {
				keys = append(keys, key)
			}
			groups[key] = append(groups[key], ref)
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].orient != keys[j].orient {
			return keys[i].orient < keys[j].orient
		}
		return keys[i].coord < keys[j].coord
	})

	offsets := make(map[int]map[int]float64)
	for _, key := range keys {
		refs := groups[key]
		sort.Slice(refs, func(i, j int) bool {
			if refs[i].lo != refs[j].lo {
				return refs[i].lo < refs[j].lo
			}
			if refs[i].edge != refs[j].edge {
				return refs[i].edge < refs[j].edge
			}
			return refs[i].seg < refs[j].seg
		})

		// Sweep into clusters; touching ranges count as overlapping.
		for start := 0; start < len(refs); {
			end := start + 1
			maxHi := refs[start].hi
			for end < len(refs) && refs[end].lo <= maxHi+epsilon {
				if refs[end].hi > maxHi {
					maxHi = refs[end].hi
				}
				end++
			}
			spreadCluster(refs[start:end], separation, offsets)
			start = end
		}
	}
	return offsets
}

// spreadCluster assigns (i - (N-1)/2) * separation to the i-th distinct edge
// of the cluster, in order of first appearance.
func spreadCluster(cluster []segRef, separation float64, offsets map[int]map[int]float64) {
	var order []int
	seen := make(map[int]bool)
	for _, r := range cluster {
		if !seen[r.edge] {
			seen[r.edge] = true
			order = append(order, r.edge)
		}
	}
	if len(order) < 2 {
		return
	}
	rank := make(map[int]int, len(order))
	for i, e := range order {
		rank[e] = i
	}
	n := float64(len(order))
	for _, r := range cluster {
		off := (float64(rank[r.edge]) - (n-1)/2) * separation
		if offsets[r.edge] == nil {
			offsets[r.edge] = make(map[int]float64)
		}
		offsets[r.edge][r.seg] = off
	}
}

// applyOffsets shifts each offset segment perpendicular to its axis. The
// stub junctions (indices 1 and len-2) stay put; reorthogonalise repairs the
// resulting diagonals.
func applyOffsets(points []core.Point, segOffsets map[int]float64) []core.Point {
	if len(segOffsets) == 0 {
		return points
	}
	protectLast := len(points) - 2
	for si, off := range segOffsets {
		if off == 0 {
			continue
		}
		a, b := points[si], points[si+1]
		horiz := math.Abs(a.Y-b.Y) < epsilon
		for _, idx := range [2]int{si, si + 1} {
			if idx == 1 || idx == protectLast {
				continue
			}
			if horiz {
				points[idx].Y += off
			} else {
				points[idx].X += off
			}
		}
	}
	return points
}

// reorthogonalise repairs diagonals introduced by offsetting. A diagonal
// touching a stub end re-aligns the stub (extending or shortening it without
// a new bend); any other diagonal gets a transition waypoint inserted.
func reorthogonalise(points []core.Point) []core.Point {
	n := len(points)
	if n < 4 {
		return points
	}

	// Source side: diagonal between the stub end and the first interior
	// point. The stub keeps its axis; its free coordinate follows the moved
	// neighbour.
	if diagonal(points[1], points[2]) {
		if math.Abs(points[0].X-points[1].X) < epsilon {
			points[1].Y = points[2].Y
		} else {
			points[1].X = points[2].X
		}
	}
	// Target side, symmetric.
	if diagonal(points[n-3], points[n-2]) {
		if math.Abs(points[n-1].X-points[n-2].X) < epsilon {
			points[n-2].Y = points[n-3].Y
		} else {
			points[n-2].X = points[n-3].X
		}
	}

	// Remaining diagonals get a corner waypoint. The corner is picked so the
	// segment leaving the previous point alternates axis with the segment
	// arriving at it.
	out := make([]core.Point, 0, len(points)+2)
	out = append(out, points[0])
	for i := 1; i < len(points); i++ {
		prev := out[len(out)-1]
		cur := points[i]
		if diagonal(prev, cur) {
			var corner core.Point
			if len(out) >= 2 && math.Abs(out[len(out)-2].Y-prev.Y) < epsilon {
				// Arrived horizontally: leave vertically.
				corner = core.Point{X: prev.X, Y: cur.Y}
			} else {
				corner = core.Point{X: cur.X, Y: prev.Y}
			}
			out = append(out, corner)
		}
		out = append(out, cur)
	}
	return out
}

func diagonal(a, b core.Point) bool {
	return math.Abs(a.X-b.X) >= epsilon && math.Abs(a.Y-b.Y) >= epsilon
}

func simplifyKeepStubs(points []core.Point) []core.Point {
	last := len(points) - 2
	return geometry.SimplifyKeeping(points, func(i int) bool {
		return i == 1 || i == last
	})
}

func fixedCoord(p core.Point, o orientation) float64 {
	if o == horizontal {
		return p.Y
	}
	return p.X
}

func quantise(v float64) float64 {
	return math.Round(v/epsilon) * epsilon
}
