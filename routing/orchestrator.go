// Package routing drives the batch pipeline: it resolves port coordinates
// and stub directions from the host's node records, routes every edge
// through the visibility-graph router, separates overlapping corridors, and
// renders SVG paths. Batch results are memoised by a structural hash of the
// inputs.
package routing

import (
	"sort"

	"orthoroute/connections"
	"orthoroute/core"
	"orthoroute/geometry"
	"orthoroute/pathfinding"
	"orthoroute/render"
)

// EdgeRoute is the routed output for a single edge.
type EdgeRoute struct {
	Points  []core.Point
	SVGPath string
}

// Result maps edge id to its routed polyline and SVG path.
type Result map[string]EdgeRoute

// defaultCacheSize bounds the memoisation cache. A diagram host typically
// re-routes the same few geometries while the user drags, so a small cache
// already absorbs most recomputation.
const defaultCacheSize = 64

// Orchestrator routes edge batches against a fixed base configuration.
type Orchestrator struct {
	cfg   core.Config
	cache *RouteCache
}

// NewOrchestrator creates an orchestrator. The configuration is sanitised
// once here; invalid values are disabled rather than rejected.
func NewOrchestrator(cfg core.Config) *Orchestrator {
	return &Orchestrator{
		cfg:   cfg.Sanitised(),
		cache: NewRouteCache(defaultCacheSize),
	}
}

// Cache exposes the memoisation cache for host diagnostics.
func (o *Orchestrator) Cache() *RouteCache {
	return o.cache
}

// Route routes every edge in the batch and returns the results keyed by
// edge id. Inputs are not mutated; repeated calls with identical node
// geometry, edge tuples and configuration return the memoised result.
func (o *Orchestrator) Route(nodes []core.Node, edges []core.Edge) Result {
	key := batchKey(nodes, edges, o.cfg)
	if result, ok := o.cache.Get(key); ok {
		return result
	}

	result := o.route(nodes, edges)
	o.cache.Put(key, result)
	return result
}

func (o *Orchestrator) route(nodes []core.Node, edges []core.Edge) Result {
	byID := make(map[string]core.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	tally := tallyHandles(edges)

	// Deterministic batch order: route by edge id regardless of input order.
	ordered := make([]core.Edge, len(edges))
	copy(ordered, edges)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	routed := make([]connections.RoutedEdge, 0, len(ordered))
	perEdgeCfg := make(map[string]core.Config, len(ordered))
	for _, e := range ordered {
		src, srcOK := byID[e.SourceNodeID]
		tgt, tgtOK := byID[e.TargetNodeID]
		if !srcOK || !tgtOK {
			continue
		}

		cfg := e.Routing.ApplyTo(o.cfg).Sanitised()
		perEdgeCfg[e.ID] = cfg

		srcPos, srcDir := resolvePort(src, e.SourceHandleID, true, tally)

		var tgtPos core.Point
		var tgtDir core.StubDirection
		if tgt.IsMerge {
			tgtPos, tgtDir = resolveMergeEntry(src.Center().X, tgt)
		} else {
			tgtPos, tgtDir = resolvePort(tgt, e.TargetHandleID, false, tally)
		}

		// Labelled edges bias the first bend toward the source so the
		// horizontal run near the port can host the label.
		bias := 0.0
		if e.Label != "" {
			bias = cfg.EarlyBendBias
		}

		obstacles := obstacleList(nodes, e.SourceNodeID, e.TargetNodeID)
		points := pathfinding.Route(
			endpointFor(srcPos, srcDir, cfg.SourceStubLength),
			endpointFor(tgtPos, tgtDir, cfg.TargetStubLength),
			obstacles,
			pathfinding.Options{
				Padding:       cfg.Padding,
				BendPenalty:   cfg.BendPenalty,
				EarlyBendBias: bias,
			},
		)
		routed = append(routed, connections.RoutedEdge{ID: e.ID, Points: points})
	}

	separated := connections.SeparateOverlaps(routed, o.cfg.EdgeSeparation)

	result := make(Result, len(separated))
	for _, e := range separated {
		radius := o.cfg.BendRadius
		if cfg, ok := perEdgeCfg[e.ID]; ok {
			radius = cfg.BendRadius
		}
		result[e.ID] = EdgeRoute{
			Points:  e.Points,
			SVGPath: render.SVGPath(geometry.Simplify(e.Points), radius),
		}
	}
	return result
}

// obstacleList copies every node except the edge's endpoints into obstacle
// rects. Only scalar fields cross this boundary; the router never sees host
// node records.
func obstacleList(nodes []core.Node, srcID, tgtID string) []geometry.Rect {
	obstacles := make([]geometry.Rect, 0, len(nodes))
	for _, n := range nodes {
		if n.ID == srcID || n.ID == tgtID {
			continue
		}
		obstacles = append(obstacles, geometry.Rect{
			ID: n.ID, X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
		})
	}
	return obstacles
}
