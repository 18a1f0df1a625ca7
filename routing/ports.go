package routing

import (
	"orthoroute/core"
	"orthoroute/pathfinding"
)

// handleTally counts the distinct handle ids each node exposes per role, as
// observed across the batch's edges. The count feeds the default port-layout
// formula when the host has not measured handle bounds.
type handleTally struct {
	source map[string]map[string]bool // nodeID -> handleID set
	target map[string]map[string]bool
}

func tallyHandles(edges []core.Edge) handleTally {
	t := handleTally{
		source: make(map[string]map[string]bool),
		target: make(map[string]map[string]bool),
	}
	for _, e := range edges {
		if t.source[e.SourceNodeID] == nil {
			t.source[e.SourceNodeID] = make(map[string]bool)
		}
		t.source[e.SourceNodeID][e.SourceHandleID] = true
		if t.target[e.TargetNodeID] == nil {
			t.target[e.TargetNodeID] = make(map[string]bool)
		}
		t.target[e.TargetNodeID][e.TargetHandleID] = true
	}
	return t
}

func (t handleTally) count(nodeID, handleID string, source bool) int {
	m := t.target[nodeID]
	if source {
		m = t.source[nodeID]
	}
	n := len(m)
	// The formula needs at least as many slots as the highest index in use.
	if hi := core.HandleIndex(handleID) + 1; hi > n {
		n = hi
	}
	if n < 1 {
		n = 1
	}
	return n
}

// resolvePort produces the world-space port position and stub direction for
// one end of an edge. Measured handle bounds win; otherwise the default
// port-layout formula places the handle on the node's default side (bottom
// for sources, top for targets).
func resolvePort(node core.Node, handleID string, source bool, tally handleTally) (core.Point, core.StubDirection) {
	if hb := node.HandleBounds; hb != nil {
		handles := hb.Target
		if source {
			handles = hb.Source
		}
		for _, h := range handles {
			if h.ID == handleID {
				c := h.Center()
				return core.Point{X: node.X + c.X, Y: node.Y + c.Y}, core.ParseStubDirection(h.Side)
			}
		}
	}

	// Fallback: synthesise from the handle index.
	n := tally.count(node.ID, handleID, source)
	off := core.PortOffset(core.HandleIndex(handleID), n)
	if source {
		return core.Point{X: node.X + node.Width/2 + off, Y: node.Y + node.Height}, core.DirBottom
	}
	return core.Point{X: node.X + node.Width/2 + off, Y: node.Y}, core.DirTop
}

// resolveMergeEntry picks the entry side of a merge node by comparing the
// source's horizontal centre against the merge's centre, with a dead zone of
// half the merge's width: well left enters from the left, well right from
// the right, and anything inside the zone from the top.
func resolveMergeEntry(sourceCenterX float64, merge core.Node) (core.Point, core.StubDirection) {
	c := merge.Center()
	threshold := merge.Width / 2
	switch {
	case sourceCenterX < c.X-threshold:
		return core.Point{X: merge.X, Y: c.Y}, core.DirLeft
	case sourceCenterX > c.X+threshold:
		return core.Point{X: merge.X + merge.Width, Y: c.Y}, core.DirRight
	default:
		return core.Point{X: c.X, Y: merge.Y}, core.DirTop
	}
}

// endpointFor bundles a resolved port into a router endpoint.
func endpointFor(pos core.Point, dir core.StubDirection, stubLen float64) pathfinding.Endpoint {
	return pathfinding.Endpoint{Pos: pos, Dir: dir, StubLength: stubLen}
}
