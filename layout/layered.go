// Package layout assigns node positions from a DAG of node and edge
// records. Ranks come from the longest path from any source, so siblings of
// a branch always share a row even when one branch runs deeper; within a
// rank, a barycentric ordering pass keeps crossings low while a correction
// pass pins each branch's children to the left-to-right order of their
// source handles.
package layout

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"

	"orthoroute/core"
)

// orderingSweeps is the number of barycentric refinement rounds. Diagrams at
// this scale converge in two or three; four leaves headroom.
const orderingSweeps = 4

// Engine computes layered positions for acyclic diagrams. Cyclic input is
// undefined behaviour at this surface.
type Engine struct {
	cfg core.Config
}

// NewEngine creates a layout engine.
func NewEngine(cfg core.Config) *Engine {
	return &Engine{cfg: cfg.Sanitised()}
}

// Layout returns copies of the node records with positions assigned.
// Isolated nodes rank 0. Input slices are not mutated.
func (e *Engine) Layout(nodes []core.Node, edges []core.Edge) []core.Node {
	out := make([]core.Node, len(nodes))
	copy(out, nodes)
	if len(out) == 0 {
		return out
	}
	for i := range out {
		if out[i].Width <= 0 {
			out[i].Width = e.cfg.NodeWidth
		}
		if out[i].Height <= 0 {
			out[i].Height = e.cfg.NodeHeight
		}
	}

	d := buildDAG(out, edges)
	ranks := d.longestPathRanks()
	order := d.orderRanks(ranks)
	e.assignCoordinates(out, d, ranks, order, edges)
	return out
}

// dag is the internal graph view: node indices into the caller's slice,
// adjacency, and per-(parent,child) source port indices.
type dag struct {
	ids      []string       // node index -> id, id-sorted
	index    map[string]int // id -> node index
	g        *simple.DirectedGraph
	children [][]int        // parent -> child indices, port-index order
	parents  [][]int        // child -> parent indices
	port     map[[2]int]int // (parent, child) -> source handle index
	outCount []int          // parent -> number of distinct source handles
}

func buildDAG(nodes []core.Node, edges []core.Edge) *dag {
	d := &dag{
		ids:   make([]string, len(nodes)),
		index: make(map[string]int, len(nodes)),
		g:     simple.NewDirectedGraph(),
		port:  make(map[[2]int]int),
	}
	// Id-sorted indexing keeps everything downstream deterministic.
	sorted := make([]string, len(nodes))
	for i, n := range nodes {
		sorted[i] = n.ID
	}
	sort.Strings(sorted)
	for i, id := range sorted {
		d.ids[i] = id
		d.index[id] = i
		d.g.AddNode(simple.Node(i))
	}
	d.children = make([][]int, len(nodes))
	d.parents = make([][]int, len(nodes))
	d.outCount = make([]int, len(nodes))

	outHandles := make([]map[string]bool, len(nodes))
	for _, e := range edges {
		u, okU := d.index[e.SourceNodeID]
		v, okV := d.index[e.TargetNodeID]
		if !okU || !okV || u == v {
			continue
		}
		if d.g.Edge(int64(u), int64(v)) == nil {
			d.g.SetEdge(d.g.NewEdge(simple.Node(u), simple.Node(v)))
			d.children[u] = append(d.children[u], v)
			d.parents[v] = append(d.parents[v], u)
		}
		key := [2]int{u, v}
		idx := core.HandleIndex(e.SourceHandleID)
		if cur, ok := d.port[key]; !ok || idx < cur {
			d.port[key] = idx
		}
		if outHandles[u] == nil {
			outHandles[u] = make(map[string]bool)
		}
		outHandles[u][e.SourceHandleID] = true
	}
	for i := range d.outCount {
		d.outCount[i] = len(outHandles[i])
		if d.outCount[i] < 1 {
			d.outCount[i] = 1
		}
	}
	for u := range d.children {
		d.sortChildren(u)
		sort.Ints(d.parents[u])
	}
	return d
}

// sortChildren orders a parent's children by source handle index, ties by id.
func (d *dag) sortChildren(u int) {
	kids := d.children[u]
	sort.Slice(kids, func(i, j int) bool {
		pi, pj := d.port[[2]int{u, kids[i]}], d.port[[2]int{u, kids[j]}]
		if pi != pj {
			return pi < pj
		}
		return kids[i] < kids[j]
	})
}

// longestPathRanks computes rank(v) = longest path from any source, by a
// forward sweep over a topological order. Cyclic leftovers keep rank 0.
func (d *dag) longestPathRanks() []int {
	ranks := make([]int, len(d.ids))
	sorted, err := topo.Sort(d.g)
	_ = err // cycles are undefined behaviour; sweep what was orderable
	for _, n := range sorted {
		if n == nil {
			continue
		}
		u := int(n.ID())
		for _, v := range d.children[u] {
			if r := ranks[u] + 1; r > ranks[v] {
				ranks[v] = r
			}
		}
	}
	return ranks
}

// orderRanks produces the left-to-right node order for every rank: an
// initial id-order seeding, barycentric sweeps, and after each downward
// sweep a correction that restores source-handle order among each branch's
// children.
func (d *dag) orderRanks(ranks []int) [][]int {
	maxRank := 0
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}
	order := make([][]int, maxRank+1)
	for i, r := range ranks {
		order[r] = append(order[r], i)
	}
	for r := range order {
		sort.Ints(order[r])
	}

	slot := make([]float64, len(d.ids))
	updateSlots := func() {
		for _, row := range order {
			for s, n := range row {
				slot[n] = float64(s)
			}
		}
	}
	updateSlots()

	for sweep := 0; sweep < orderingSweeps; sweep++ {
		// Downward: order each rank by the mean position of its parents,
		// nudged by the source handle offset so equal barycenters resolve
		// in port order.
		for r := 1; r < len(order); r++ {
			d.sortRow(order[r], func(n int) float64 {
				ps := d.parents[n]
				if len(ps) == 0 {
					return slot[n]
				}
				vals := make([]float64, len(ps))
				for i, p := range ps {
					off := core.PortOffset(d.port[[2]int{p, n}], d.outCount[p])
					vals[i] = slot[p] + off/(core.PortSpacing*100)
				}
				return stat.Mean(vals, nil)
			})
			updateSlots()
		}
		d.correctPortOrder(ranks, order)
		updateSlots()

		// Upward: order each rank by the mean position of its children.
		for r := len(order) - 2; r >= 0; r-- {
			d.sortRow(order[r], func(n int) float64 {
				cs := d.children[n]
				if len(cs) == 0 {
					return slot[n]
				}
				vals := make([]float64, len(cs))
				for i, c := range cs {
					vals[i] = slot[c]
				}
				return stat.Mean(vals, nil)
			})
			updateSlots()
		}
	}
	d.correctPortOrder(ranks, order)
	return order
}

// sortRow stably reorders one rank row by a barycenter value, ties by id.
func (d *dag) sortRow(row []int, value func(n int) float64) {
	vals := make(map[int]float64, len(row))
	for _, n := range row {
		vals[n] = value(n)
	}
	sort.SliceStable(row, func(i, j int) bool {
		if vals[row[i]] != vals[row[j]] {
			return vals[row[i]] < vals[row[j]]
		}
		return row[i] < row[j]
	})
}

// correctPortOrder re-seats each branch's same-rank children into their
// occupied slots sorted by source handle index, so output-0 lands leftmost
// no matter what the barycenter pass decided.
func (d *dag) correctPortOrder(ranks []int, order [][]int) {
	for _, kids := range d.children {
		if len(kids) < 2 {
			continue
		}
		byRank := make(map[int][]int)
		for _, c := range kids {
			byRank[ranks[c]] = append(byRank[ranks[c]], c)
		}
		for r, group := range byRank {
			if len(group) < 2 {
				continue
			}
			row := order[r]
			pos := make(map[int]int, len(row))
			for s, n := range row {
				pos[n] = s
			}
			slots := make([]int, 0, len(group))
			for _, c := range group {
				slots = append(slots, pos[c])
			}
			sort.Ints(slots)
			// group is already in port-index order from sortChildren.
			for i, c := range group {
				row[slots[i]] = c
			}
		}
	}
}

// assignCoordinates converts rank rows into top-left positions. Rows are
// centred about the widest row; rank gaps optionally compact when no edge
// entering the rank carries a label.
func (e *Engine) assignCoordinates(nodes []core.Node, d *dag, ranks []int, order [][]int, edges []core.Edge) {
	byID := make(map[string]int, len(nodes))
	for i, n := range nodes {
		byID[n.ID] = i
	}
	width := func(n int) float64 { return nodes[byID[d.ids[n]]].Width }
	height := func(n int) float64 { return nodes[byID[d.ids[n]]].Height }

	rowWidth := make([]float64, len(order))
	maxWidth := 0.0
	for r, row := range order {
		for i, n := range row {
			if i > 0 {
				rowWidth[r] += e.cfg.HorizontalGap
			}
			rowWidth[r] += width(n)
		}
		if rowWidth[r] > maxWidth {
			maxWidth = rowWidth[r]
		}
	}

	labelledInto := make([]bool, len(order))
	for _, edge := range edges {
		if edge.Label == "" {
			continue
		}
		if v, ok := d.index[edge.TargetNodeID]; ok {
			labelledInto[ranks[v]] = true
		}
	}

	y := 0.0
	for r, row := range order {
		if r > 0 {
			gap := e.cfg.VerticalGap
			if e.cfg.CompactRanks && !labelledInto[r] {
				gap = e.cfg.CompactGap
			}
			rowAbove := order[r-1]
			maxH := 0.0
			for _, n := range rowAbove {
				if h := height(n); h > maxH {
					maxH = h
				}
			}
			y += maxH + gap
		}
		x := (maxWidth - rowWidth[r]) / 2
		for _, n := range row {
			node := &nodes[byID[d.ids[n]]]
			node.X = x
			node.Y = y
			x += node.Width + e.cfg.HorizontalGap
		}
	}
}
