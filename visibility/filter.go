// Package visibility computes the visible subgraph of a diagram whose nodes
// carry collapsed flags. Collapsing a branch node hides everything between
// it and its merge; collapsing one of the branch's direct children hides
// just that arm. Bypass edges are synthesised so the visible graph stays
// connected across the hidden regions.
package visibility

import (
	"sort"

	"orthoroute/core"
)

// Filter returns the visible nodes and edges. With no collapsed flags set,
// the inputs are returned unchanged.
func Filter(nodes []core.Node, edges []core.Edge) ([]core.Node, []core.Edge) {
	anyCollapsed := false
	for _, n := range nodes {
		if n.Collapsed {
			anyCollapsed = true
			break
		}
	}
	if !anyCollapsed {
		return nodes, edges
	}

	g := buildView(nodes, edges)
	hidden := make(map[string]bool)
	type bypass struct{ from, to string }
	var bypasses []bypass
	seenBypass := make(map[bypass]bool)
	addBypass := func(from, to string) {
		bp := bypass{from, to}
		if !seenBypass[bp] {
			seenBypass[bp] = true
			bypasses = append(bypasses, bp)
		}
	}

	for _, b := range g.branchNodes() {
		merge, ok := g.mergeFor(b)
		if !ok {
			continue
		}
		group := g.between(b, merge)

		if g.node(b).Collapsed {
			// Full-group collapse: the whole region and the merge itself
			// disappear; the branch connects straight to the merge's
			// successors.
			for id := range group {
				hidden[id] = true
			}
			hidden[merge] = true
			for _, s := range g.successors(merge) {
				addBypass(b, s)
			}
			continue
		}

		// Per-branch collapse: a collapsed direct child hides its arm up to
		// (but excluding) the merge; the branch bypasses to the merge.
		for _, c := range g.successors(b) {
			if !g.node(c).Collapsed {
				continue
			}
			hidden[c] = true
			for id := range g.between(c, merge) {
				hidden[id] = true
			}
			addBypass(b, merge)
		}
	}

	visibleNodes := make([]core.Node, 0, len(nodes))
	visible := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if hidden[n.ID] {
			continue
		}
		visible[n.ID] = true
		visibleNodes = append(visibleNodes, n)
	}

	visibleEdges := make([]core.Edge, 0, len(edges))
	for _, e := range edges {
		if visible[e.SourceNodeID] && visible[e.TargetNodeID] {
			visibleEdges = append(visibleEdges, e)
		}
	}
	for _, bp := range bypasses {
		if !visible[bp.from] || !visible[bp.to] {
			continue
		}
		visibleEdges = append(visibleEdges, core.Edge{
			ID:             "bypass-" + bp.from + "-" + bp.to,
			SourceNodeID:   bp.from,
			SourceHandleID: "output-0",
			TargetNodeID:   bp.to,
			TargetHandleID: "input-0",
		})
	}
	return visibleNodes, visibleEdges
}

// view is the adjacency index the filter works over.
type view struct {
	nodes map[string]core.Node
	succ  map[string][]string
	pred  map[string][]string
	order []string // node ids in input order
}

func buildView(nodes []core.Node, edges []core.Edge) *view {
	g := &view{
		nodes: make(map[string]core.Node, len(nodes)),
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
	}
	for _, n := range nodes {
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}
	seen := make(map[[2]string]bool)
	for _, e := range edges {
		key := [2]string{e.SourceNodeID, e.TargetNodeID}
		if seen[key] || e.SourceNodeID == e.TargetNodeID {
			continue
		}
		seen[key] = true
		g.succ[e.SourceNodeID] = append(g.succ[e.SourceNodeID], e.TargetNodeID)
		g.pred[e.TargetNodeID] = append(g.pred[e.TargetNodeID], e.SourceNodeID)
	}
	for id := range g.succ {
		sort.Strings(g.succ[id])
	}
	for id := range g.pred {
		sort.Strings(g.pred[id])
	}
	return g
}

func (g *view) node(id string) core.Node { return g.nodes[id] }

func (g *view) successors(id string) []string { return g.succ[id] }

// branchNodes returns every node with at least two direct children, in
// input order.
func (g *view) branchNodes() []string {
	var out []string
	for _, id := range g.order {
		if len(g.succ[id]) >= 2 {
			out = append(out, id)
		}
	}
	return out
}

// mergeFor finds the nearest merge node reachable from every direct child
// of the branch. Distance is BFS depth from the branch; ties break by id.
func (g *view) mergeFor(branch string) (string, bool) {
	kids := g.succ[branch]
	if len(kids) < 2 {
		return "", false
	}
	common := g.reachable(kids[0])
	for _, c := range kids[1:] {
		r := g.reachable(c)
		for id := range common {
			if !r[id] {
				delete(common, id)
			}
		}
	}

	depth := g.bfsDepth(branch)
	best, bestDepth := "", -1
	for id := range common {
		if !g.nodes[id].IsMerge {
			continue
		}
		d, ok := depth[id]
		if !ok {
			continue
		}
		if bestDepth < 0 || d < bestDepth || (d == bestDepth && id < best) {
			best, bestDepth = id, d
		}
	}
	return best, bestDepth >= 0
}

// between returns the ids reachable from start that can still reach end,
// excluding both endpoints: the interior of the branch region.
func (g *view) between(start, end string) map[string]bool {
	fwd := g.reachable(start)
	out := make(map[string]bool)
	for id := range fwd {
		if id == start || id == end {
			continue
		}
		if g.reaches(id, end) {
			out[id] = true
		}
	}
	return out
}

// reachable returns every id reachable from start, including start.
func (g *view) reachable(start string) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.succ[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// reaches reports whether end is reachable from start.
func (g *view) reaches(start, end string) bool {
	return g.reachable(start)[end]
}

// bfsDepth returns BFS depths of every node reachable from start.
func (g *view) bfsDepth(start string) map[string]int {
	depth := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.succ[cur] {
			if _, ok := depth[next]; !ok {
				depth[next] = depth[cur] + 1
				queue = append(queue, next)
			}
		}
	}
	return depth
}
