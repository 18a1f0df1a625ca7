// Package pathfinding routes a single edge through an orthogonal visibility
// graph built from the obstacle boundaries, using Dijkstra with a bend
// penalty. Routing never fails: unreachable or degenerate inputs fall back
// to a fixed S-shape between the two stubs.
package pathfinding

import (
	"orthoroute/core"
	"orthoroute/geometry"
)

// Endpoint describes one side of the edge: the port position, the declared
// stub direction, and the mandatory straight-out stub length.
type Endpoint struct {
	Pos        core.Point
	Dir        core.StubDirection
	StubLength float64
}

// stubEnd is the far end of the mandatory stub, pointing away from the node.
func (e Endpoint) stubEnd() core.Point {
	u := e.Dir.Unit()
	return e.Pos.Add(u.X*e.StubLength, u.Y*e.StubLength)
}

func (e Endpoint) axis() Axis {
	if e.Dir.Vertical() {
		return Vertical
	}
	return Horizontal
}

// Options are the per-query routing knobs.
type Options struct {
	Padding       float64
	BendPenalty   float64
	EarlyBendBias float64 // positive pulls the first bend toward the source
}

// Route finds an orthogonal polyline from src to tgt avoiding the given
// obstacles. The result always starts at src.Pos, passes through both stub
// endpoints, and ends at tgt.Pos. Consecutive duplicate points are dropped,
// so the length is at least 4 points only when both stub lengths are
// positive and the two stub endpoints differ.
func Route(src, tgt Endpoint, obstacles []geometry.Rect, opt Options) []core.Point {
	stubSrc := src.stubEnd()
	stubTgt := tgt.stubEnd()

	oi := newObstacleIndex(obstacles, opt.Padding)
	if oi.containsStrict(stubSrc) || oi.containsStrict(stubTgt) {
		return fallback(src, tgt, stubSrc, stubTgt)
	}

	xs, ys := guideCoords(stubSrc, stubTgt, oi.rects)
	g := buildGrid(xs, ys, oi)

	start, okS := g.index[stubSrc]
	goal, okT := g.index[stubTgt]
	if !okS || !okT {
		return fallback(src, tgt, stubSrc, stubTgt)
	}

	path := dijkstra(g, start, goal, src, opt)
	if path == nil {
		return fallback(src, tgt, stubSrc, stubTgt)
	}

	points := make([]core.Point, 0, len(path)+2)
	points = append(points, src.Pos)
	points = append(points, path...)
	points = append(points, tgt.Pos)
	return simplifyRoute(points)
}

// dijkstra searches the grid from start to goal. The search state includes
// the incoming axis so direction changes can be charged BendPenalty; the
// stub counts as the initial axis. Returns the waypoint sequence from start
// to goal, or nil when the goal is unreachable.
func dijkstra(g *grid, start, goal int, src Endpoint, opt Options) []core.Point {
	const unvisited = -1
	n := len(g.points)
	dist := make(map[State]float64, n)
	prev := make(map[State]State, n)
	done := make(map[State]bool, n)

	startState := State{Node: start, Axis: src.axis()}
	dist[startState] = 0
	prev[startState] = State{Node: unvisited}

	var heap MinHeap
	heap.Push(startState, 0)

	for heap.Len() > 0 {
		item := heap.Pop()
		if done[item.State] {
			continue
		}
		done[item.State] = true

		if item.State.Node == goal {
			return reconstruct(g, prev, item.State, unvisited)
		}

		for _, e := range g.adj[item.State.Node] {
			next := State{Node: e.To, Axis: e.Axis}
			if done[next] {
				continue
			}
			cost := item.Cost + e.Length
			if e.Axis != item.State.Axis {
				cost += opt.BendPenalty
			}
			if e.Axis == Horizontal && opt.EarlyBendBias > 0 {
				// Horizontal rows below the source port get dearer the
				// further down they sit, so the bend lands near the source.
				// Rows above the source carry no bias, which keeps every
				// edge weight non-negative.
				if dy := g.points[e.To].Y - src.Pos.Y; dy > 0 {
					cost += opt.EarlyBendBias * dy
				}
			}
			if d, seen := dist[next]; !seen || cost < d {
				dist[next] = cost
				prev[next] = item.State
				heap.Push(next, cost)
			}
		}
	}
	return nil
}

func reconstruct(g *grid, prev map[State]State, goal State, unvisited int) []core.Point {
	var rev []core.Point
	for s := goal; s.Node != unvisited; s = prev[s] {
		rev = append(rev, g.points[s.Node])
	}
	points := make([]core.Point, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		points = append(points, rev[i])
	}
	return points
}

// fallback emits the S-shape used whenever the grid search cannot run or
// cannot reach the target. The midpoint strategy depends on the stub axes.
func fallback(src, tgt Endpoint, stubSrc, stubTgt core.Point) []core.Point {
	srcVert := src.Dir.Vertical()
	tgtVert := tgt.Dir.Vertical()
	var middle []core.Point
	switch {
	case srcVert && tgtVert:
		midY := (stubSrc.Y + stubTgt.Y) / 2
		middle = []core.Point{{X: stubSrc.X, Y: midY}, {X: stubTgt.X, Y: midY}}
	case !srcVert && !tgtVert:
		midX := (stubSrc.X + stubTgt.X) / 2
		middle = []core.Point{{X: midX, Y: stubSrc.Y}, {X: midX, Y: stubTgt.Y}}
	case srcVert:
		middle = []core.Point{{X: stubTgt.X, Y: stubSrc.Y}}
	default:
		middle = []core.Point{{X: stubSrc.X, Y: stubTgt.Y}}
	}
	points := make([]core.Point, 0, len(middle)+4)
	points = append(points, src.Pos, stubSrc)
	points = append(points, middle...)
	points = append(points, stubTgt, tgt.Pos)
	return simplifyRoute(points)
}

// simplifyRoute dedupes and drops collinear middles while protecting the
// stub endpoints (indices 1 and len-2), which downstream stages rely on.
func simplifyRoute(points []core.Point) []core.Point {
	last := len(points) - 2
	return geometry.SimplifyKeeping(points, func(i int) bool {
		return i == 1 || i == last
	})
}
