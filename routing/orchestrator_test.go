package routing

import (
	"reflect"
	"testing"

	"orthoroute/core"
	"orthoroute/geometry"
)

func twoNodeDiagram() ([]core.Node, []core.Edge) {
	nodes := []core.Node{
		{ID: "A", X: 0, Y: 0, Width: 100, Height: 40},
		{ID: "B", X: 0, Y: 200, Width: 100, Height: 40},
	}
	edges := []core.Edge{
		{ID: "e", SourceNodeID: "A", SourceHandleID: "output-0", TargetNodeID: "B", TargetHandleID: "input-0"},
	}
	return nodes, edges
}

func TestRouteStraightDownScenario(t *testing.T) {
	nodes, edges := twoNodeDiagram()
	result := NewOrchestrator(core.DefaultConfig()).Route(nodes, edges)

	route, ok := result["e"]
	if !ok {
		t.Fatal("edge e missing from result")
	}
	wantPoints := []core.Point{{X: 50, Y: 40}, {X: 50, Y: 60}, {X: 50, Y: 180}, {X: 50, Y: 200}}
	if !reflect.DeepEqual(route.Points, wantPoints) {
		t.Errorf("points = %v, want %v", route.Points, wantPoints)
	}
	if route.SVGPath != "M 50 40 L 50 200" {
		t.Errorf("svg = %q, want %q", route.SVGPath, "M 50 40 L 50 200")
	}
}

func TestRouteObstacleStraddleScenario(t *testing.T) {
	nodes := []core.Node{
		{ID: "A", X: 0, Y: 0, Width: 100, Height: 40},
		{ID: "B", X: 0, Y: 200, Width: 100, Height: 40},
		{ID: "O", X: 25, Y: 80, Width: 50, Height: 50},
	}
	edges := []core.Edge{
		{ID: "e", SourceNodeID: "A", SourceHandleID: "output-0", TargetNodeID: "B", TargetHandleID: "input-0"},
	}
	result := NewOrchestrator(core.DefaultConfig()).Route(nodes, edges)
	route := result["e"]

	if !geometry.IsOrthogonal(route.Points) {
		t.Fatalf("route not orthogonal: %v", route.Points)
	}
	if route.Points[0] != (core.Point{X: 50, Y: 40}) || route.Points[len(route.Points)-1] != (core.Point{X: 50, Y: 200}) {
		t.Errorf("ports not preserved: %v", route.Points)
	}
	inflated := geometry.Rect{X: 25, Y: 80, Width: 50, Height: 50}.Inflate(20)
	for i := 1; i < len(route.Points); i++ {
		a, b := route.Points[i-1], route.Points[i]
		if a.X == b.X && inflated.CrossesVertical(a.X, a.Y, b.Y) {
			t.Errorf("segment %v-%v crosses the obstacle", a, b)
		}
		if a.Y == b.Y && inflated.CrossesHorizontal(a.Y, a.X, b.X) {
			t.Errorf("segment %v-%v crosses the obstacle", a, b)
		}
	}
}

func TestRouteMergeTarget(t *testing.T) {
	nodes := []core.Node{
		{ID: "S", X: 250, Y: 300, Width: 100, Height: 40},
		{ID: "M", X: 500, Y: 500, Width: 40, Height: 40, IsMerge: true},
	}
	edges := []core.Edge{
		{ID: "e", SourceNodeID: "S", SourceHandleID: "output-0", TargetNodeID: "M", TargetHandleID: "input-0"},
	}
	result := NewOrchestrator(core.DefaultConfig()).Route(nodes, edges)
	route := result["e"]

	// S is centred at x=300, well left of the merge: entry is the merge's
	// left side midpoint.
	last := route.Points[len(route.Points)-1]
	if last != (core.Point{X: 500, Y: 520}) {
		t.Errorf("merge entry = %v, want (500, 520)", last)
	}
}

func TestRouteMemoises(t *testing.T) {
	nodes, edges := twoNodeDiagram()
	orch := NewOrchestrator(core.DefaultConfig())

	first := orch.Route(nodes, edges)
	second := orch.Route(nodes, edges)
	if !reflect.DeepEqual(first, second) {
		t.Error("memoised result differs")
	}
	stats := orch.Cache().Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("cache stats %+v, want 1 hit, 1 miss, 1 entry", stats)
	}

	// Moving a node must invalidate the key.
	nodes[1].Y = 300
	orch.Route(nodes, edges)
	if stats = orch.Cache().Stats(); stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("after geometry change: %+v, want 1 hit, 2 misses", stats)
	}
}

func TestRouteInputOrderIrrelevant(t *testing.T) {
	nodes := []core.Node{
		{ID: "A", X: 0, Y: 0, Width: 100, Height: 40},
		{ID: "B", X: 200, Y: 0, Width: 100, Height: 40},
		{ID: "C", X: 100, Y: 300, Width: 100, Height: 40},
	}
	edges := []core.Edge{
		{ID: "e1", SourceNodeID: "A", SourceHandleID: "output-0", TargetNodeID: "C", TargetHandleID: "input-0"},
		{ID: "e2", SourceNodeID: "B", SourceHandleID: "output-0", TargetNodeID: "C", TargetHandleID: "input-1"},
	}
	reversedNodes := []core.Node{nodes[2], nodes[0], nodes[1]}
	reversedEdges := []core.Edge{edges[1], edges[0]}

	a := NewOrchestrator(core.DefaultConfig()).Route(nodes, edges)
	b := NewOrchestrator(core.DefaultConfig()).Route(reversedNodes, reversedEdges)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("results depend on input order:\n%v\n%v", a, b)
	}
}

func TestRoutePerEdgeOverride(t *testing.T) {
	nodes, edges := twoNodeDiagram()
	stub := 40.0
	edges[0].Routing = &core.Overrides{SourceStubLength: &stub}

	result := NewOrchestrator(core.DefaultConfig()).Route(nodes, edges)
	route := result["e"]
	if route.Points[1] != (core.Point{X: 50, Y: 80}) {
		t.Errorf("override ignored, stub end = %v, want (50, 80)", route.Points[1])
	}
}

func TestRouteNeverReturnsNilForKnownEdges(t *testing.T) {
	// A degenerate diagram: target on top of source. Routing still emits a
	// best-effort polyline, never an error or a missing entry.
	nodes := []core.Node{
		{ID: "A", X: 0, Y: 0, Width: 100, Height: 40},
		{ID: "B", X: 0, Y: 0, Width: 100, Height: 40},
	}
	edges := []core.Edge{
		{ID: "e", SourceNodeID: "A", SourceHandleID: "output-0", TargetNodeID: "B", TargetHandleID: "input-0"},
	}
	result := NewOrchestrator(core.DefaultConfig()).Route(nodes, edges)
	if route, ok := result["e"]; !ok || len(route.Points) < 4 {
		t.Errorf("degenerate edge not routed: %+v", result)
	}
}
