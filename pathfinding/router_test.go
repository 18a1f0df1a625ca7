package pathfinding

import (
	"reflect"
	"testing"

	"orthoroute/core"
	"orthoroute/geometry"
)

func defaultOptions() Options {
	return Options{Padding: 20, BendPenalty: 1}
}

func assertOrthogonal(t *testing.T, points []core.Point) {
	t.Helper()
	if !geometry.IsOrthogonal(points) {
		t.Fatalf("polyline not orthogonal: %v", points)
	}
}

func assertAvoids(t *testing.T, points []core.Point, obstacles []geometry.Rect, padding float64) {
	t.Helper()
	for _, o := range obstacles {
		r := o.Inflate(padding)
		for i := 1; i < len(points); i++ {
			a, b := points[i-1], points[i]
			var crosses bool
			if a.X == b.X {
				crosses = r.CrossesVertical(a.X, a.Y, b.Y)
			} else {
				crosses = r.CrossesHorizontal(a.Y, a.X, b.X)
			}
			if crosses {
				t.Fatalf("segment %v-%v enters obstacle %q (%+v)", a, b, o.ID, r)
			}
		}
	}
}

func TestRouteStraightDown(t *testing.T) {
	src := Endpoint{Pos: core.Point{X: 50, Y: 40}, Dir: core.DirBottom, StubLength: 20}
	tgt := Endpoint{Pos: core.Point{X: 50, Y: 200}, Dir: core.DirTop, StubLength: 20}

	got := Route(src, tgt, nil, defaultOptions())
	want := []core.Point{{X: 50, Y: 40}, {X: 50, Y: 60}, {X: 50, Y: 180}, {X: 50, Y: 200}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Route = %v, want %v", got, want)
	}
}

func TestRouteAroundObstacle(t *testing.T) {
	src := Endpoint{Pos: core.Point{X: 50, Y: 40}, Dir: core.DirBottom, StubLength: 20}
	tgt := Endpoint{Pos: core.Point{X: 50, Y: 200}, Dir: core.DirTop, StubLength: 20}
	obstacles := []geometry.Rect{{ID: "O", X: 25, Y: 80, Width: 50, Height: 50}}

	points := Route(src, tgt, obstacles, defaultOptions())

	if points[0] != src.Pos || points[len(points)-1] != tgt.Pos {
		t.Fatalf("endpoints not preserved: %v", points)
	}
	assertOrthogonal(t, points)
	assertAvoids(t, points, obstacles, 20)

	// The detour needs a horizontal run clear of the inflated rect
	// (5,60)-(95,150): either above y=60 or below y=150, or fully outside
	// the x-range.
	detour := false
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		if a.Y == b.Y && (a.Y <= 60 || a.Y >= 150) {
			detour = true
		}
	}
	if !detour {
		t.Errorf("no clear horizontal detour in %v", points)
	}
}

func TestRouteGrazesInflatedBoundary(t *testing.T) {
	// The obstacle's inflated left boundary sits exactly on the corridor at
	// x=50. Strict inequalities let the path graze it and stay straight.
	src := Endpoint{Pos: core.Point{X: 50, Y: 40}, Dir: core.DirBottom, StubLength: 20}
	tgt := Endpoint{Pos: core.Point{X: 50, Y: 200}, Dir: core.DirTop, StubLength: 20}
	obstacles := []geometry.Rect{{ID: "O", X: 70, Y: 80, Width: 50, Height: 40}}

	got := Route(src, tgt, obstacles, defaultOptions())
	want := []core.Point{{X: 50, Y: 40}, {X: 50, Y: 60}, {X: 50, Y: 180}, {X: 50, Y: 200}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Route = %v, want straight corridor %v", got, want)
	}
}

func TestRouteFallbackWhenStubBlocked(t *testing.T) {
	// The target stub endpoint lands strictly inside an obstacle, so the
	// grid search cannot start; the S-shape fallback takes over.
	src := Endpoint{Pos: core.Point{X: 0, Y: 0}, Dir: core.DirBottom, StubLength: 20}
	tgt := Endpoint{Pos: core.Point{X: 100, Y: 300}, Dir: core.DirTop, StubLength: 20}
	obstacles := []geometry.Rect{{ID: "O", X: 50, Y: 250, Width: 100, Height: 60}}

	points := Route(src, tgt, obstacles, Options{Padding: 10, BendPenalty: 1})
	if len(points) != 6 {
		t.Fatalf("fallback should give the 6-point S-shape, got %v", points)
	}
	if points[2].Y != points[3].Y {
		t.Errorf("S-shape middle points should share y: %v", points)
	}
	assertOrthogonal(t, points)
	if points[0] != src.Pos || points[len(points)-1] != tgt.Pos {
		t.Errorf("fallback endpoints not preserved: %v", points)
	}
}

func TestRouteFallbackMixedAxes(t *testing.T) {
	// Horizontal source stub, vertical target stub, blocked target: the
	// mixed fallback uses a single corner.
	src := Endpoint{Pos: core.Point{X: 0, Y: 0}, Dir: core.DirRight, StubLength: 20}
	tgt := Endpoint{Pos: core.Point{X: 200, Y: 300}, Dir: core.DirTop, StubLength: 20}
	obstacles := []geometry.Rect{{ID: "O", X: 150, Y: 250, Width: 100, Height: 60}}

	points := Route(src, tgt, obstacles, Options{Padding: 10, BendPenalty: 1})
	assertOrthogonal(t, points)
	if len(points) != 5 {
		t.Errorf("mixed-axis fallback should have one corner, got %v", points)
	}
}

func TestRouteDeterministic(t *testing.T) {
	src := Endpoint{Pos: core.Point{X: 50, Y: 40}, Dir: core.DirBottom, StubLength: 20}
	tgt := Endpoint{Pos: core.Point{X: 350, Y: 400}, Dir: core.DirTop, StubLength: 20}
	obstacles := []geometry.Rect{
		{ID: "a", X: 100, Y: 100, Width: 80, Height: 60},
		{ID: "b", X: 250, Y: 200, Width: 80, Height: 60},
		{ID: "c", X: 80, Y: 280, Width: 80, Height: 60},
	}

	first := Route(src, tgt, obstacles, defaultOptions())
	for i := 0; i < 5; i++ {
		again := Route(src, tgt, obstacles, defaultOptions())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("routing not deterministic:\n%v\n%v", first, again)
		}
	}
	assertOrthogonal(t, first)
	assertAvoids(t, first, obstacles, 20)
}

func TestRouteEarlyBendBiasPullsBendUp(t *testing.T) {
	// Source and target offset horizontally with a clear field: without
	// bias the bend position is cost-neutral; with bias the horizontal run
	// should sit as close to the source as the stub allows.
	src := Endpoint{Pos: core.Point{X: 50, Y: 40}, Dir: core.DirBottom, StubLength: 20}
	tgt := Endpoint{Pos: core.Point{X: 250, Y: 400}, Dir: core.DirTop, StubLength: 20}
	obstacles := []geometry.Rect{{ID: "O", X: 100, Y: 150, Width: 60, Height: 60}}

	points := Route(src, tgt, obstacles, Options{Padding: 20, BendPenalty: 1, EarlyBendBias: 0.5})
	assertOrthogonal(t, points)
	assertAvoids(t, points, obstacles, 20)

	// Lowest horizontal segment of the biased route must not be the deep
	// one next to the target: the first horizontal should appear at the
	// stub row.
	firstHorizontalY := -1.0
	for i := 1; i < len(points); i++ {
		if points[i-1].Y == points[i].Y {
			firstHorizontalY = points[i].Y
			break
		}
	}
	if firstHorizontalY != 60 {
		t.Errorf("expected first horizontal at the source stub row 60, got %v (points %v)", firstHorizontalY, points)
	}
}

func TestRouteMinimumLength(t *testing.T) {
	src := Endpoint{Pos: core.Point{X: 50, Y: 40}, Dir: core.DirBottom, StubLength: 20}
	tgt := Endpoint{Pos: core.Point{X: 50, Y: 200}, Dir: core.DirTop, StubLength: 20}
	if points := Route(src, tgt, nil, defaultOptions()); len(points) < 4 {
		t.Errorf("polyline shorter than 4 points: %v", points)
	}
}
