package pathfinding

import (
	"sort"

	"github.com/tidwall/rtree"

	"orthoroute/core"
	"orthoroute/geometry"
)

// Axis marks a grid edge as horizontal or vertical.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// State is one Dijkstra search state: a waypoint plus the axis it was
// entered on. The axis is part of the state because the bend penalty depends
// on the incoming direction.
type State struct {
	Node int
	Axis Axis
}

// gridEdge connects two waypoints along one guide line.
type gridEdge struct {
	To     int
	Axis   Axis
	Length float64
}

// grid is the sparse orthogonal visibility graph for one routing query.
// Waypoints are the grid intersections of obstacle-boundary guide lines,
// filtered to those outside every inflated obstacle, in (x, y) sorted order.
type grid struct {
	points []core.Point
	index  map[core.Point]int
	adj    [][]gridEdge
}

// obstacleIndex wraps the inflated obstacle set with an R-tree broad phase
// so segment tests only visit obstacles whose bounds overlap the query box.
type obstacleIndex struct {
	rects []geometry.InflatedRect
	tree  rtree.RTreeG[int]
}

func newObstacleIndex(obstacles []geometry.Rect, padding float64) *obstacleIndex {
	oi := &obstacleIndex{rects: make([]geometry.InflatedRect, len(obstacles))}
	for i, o := range obstacles {
		r := o.Inflate(padding)
		oi.rects[i] = r
		oi.tree.Insert([2]float64{r.Left, r.Top}, [2]float64{r.Right, r.Bottom}, i)
	}
	return oi
}

// containsStrict reports whether p lies strictly inside any inflated obstacle.
func (oi *obstacleIndex) containsStrict(p core.Point) bool {
	hit := false
	oi.tree.Search([2]float64{p.X, p.Y}, [2]float64{p.X, p.Y},
		func(_, _ [2]float64, i int) bool {
			if oi.rects[i].ContainsStrict(p) {
				hit = true
				return false
			}
			return true
		})
	return hit
}

// blocksVertical reports whether any obstacle interior crosses the vertical
// segment at x spanning [y1, y2].
func (oi *obstacleIndex) blocksVertical(x, y1, y2 float64) bool {
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	hit := false
	oi.tree.Search([2]float64{x, y1}, [2]float64{x, y2},
		func(_, _ [2]float64, i int) bool {
			if oi.rects[i].CrossesVertical(x, y1, y2) {
				hit = true
				return false
			}
			return true
		})
	return hit
}

// blocksHorizontal is blocksVertical transposed.
func (oi *obstacleIndex) blocksHorizontal(y, x1, x2 float64) bool {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	hit := false
	oi.tree.Search([2]float64{x1, y}, [2]float64{x2, y},
		func(_, _ [2]float64, i int) bool {
			if oi.rects[i].CrossesHorizontal(y, x1, x2) {
				hit = true
				return false
			}
			return true
		})
	return hit
}

// guideCoords collects the sorted, deduplicated guide coordinates for one
// routing query: the stub endpoints plus every inflated obstacle boundary.
func guideCoords(stubSrc, stubTgt core.Point, obstacles []geometry.InflatedRect) (xs, ys []float64) {
	xs = append(xs, stubSrc.X, stubTgt.X)
	ys = append(ys, stubSrc.Y, stubTgt.Y)
	for _, r := range obstacles {
		xs = append(xs, r.Left, r.Right)
		ys = append(ys, r.Top, r.Bottom)
	}
	return sortedUnique(xs), sortedUnique(ys)
}

func sortedUnique(vs []float64) []float64 {
	sort.Float64s(vs)
	out := vs[:0]
	for i, v := range vs {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// buildGrid generates the waypoint set and its adjacency. Waypoints are
// inserted x-major then y, so indices are lexicographic in (x, y); the
// Dijkstra tie-break leans on that order.
func buildGrid(xs, ys []float64, oi *obstacleIndex) *grid {
	g := &grid{index: make(map[core.Point]int, len(xs)*len(ys))}
	for _, x := range xs {
		for _, y := range ys {
			p := core.Point{X: x, Y: y}
			if oi.containsStrict(p) {
				continue
			}
			g.index[p] = len(g.points)
			g.points = append(g.points, p)
		}
	}
	g.adj = make([][]gridEdge, len(g.points))

	// Columns: consecutive waypoints sharing an x connect when the vertical
	// segment between them clears every obstacle interior.
	for _, x := range xs {
		prev := -1
		for _, y := range ys {
			cur, ok := g.index[core.Point{X: x, Y: y}]
			if !ok {
				continue
			}
			if prev >= 0 {
				y1 := g.points[prev].Y
				if !oi.blocksVertical(x, y1, y) {
					g.connect(prev, cur, Vertical, y-y1)
				}
			}
			prev = cur
		}
	}

	// Rows: the same, transposed.
	for _, y := range ys {
		prev := -1
		for _, x := range xs {
			cur, ok := g.index[core.Point{X: x, Y: y}]
			if !ok {
				continue
			}
			if prev >= 0 {
				x1 := g.points[prev].X
				if !oi.blocksHorizontal(y, x1, x) {
					g.connect(prev, cur, Horizontal, x-x1)
				}
			}
			prev = cur
		}
	}
	return g
}

func (g *grid) connect(a, b int, axis Axis, length float64) {
	g.adj[a] = append(g.adj[a], gridEdge{To: b, Axis: axis, Length: length})
	g.adj[b] = append(g.adj[b], gridEdge{To: a, Axis: axis, Length: length})
}
