package core

import (
	"strconv"
	"strings"
)

// PortSpacing is the fixed perpendicular spacing between handles sharing one
// side of a node, in px. Every layer that positions a port uses this constant
// through PortOffset so that fallback resolution and layout agree exactly.
const PortSpacing = 8

// PortOffset returns the perpendicular offset of the i-th of n handles on one
// side of a node, measured from the side's midpoint.
func PortOffset(i, n int) float64 {
	return (float64(i) - float64(n-1)/2) * PortSpacing
}

// Handle is a measured attachment point, relative to its node's top-left.
type Handle struct {
	ID     string
	X, Y   float64
	Width  float64
	Height float64
	Side   string // "top", "bottom", "left" or "right"
}

// Center returns the handle's centre relative to the node's top-left.
func (h Handle) Center() Point {
	return Point{X: h.X + h.Width/2, Y: h.Y + h.Height/2}
}

// HandleBounds enumerates a node's measured handles, split by role.
type HandleBounds struct {
	Source []Handle
	Target []Handle
}

// Node is the record consumed from the host for one diagram node.
type Node struct {
	ID           string
	X, Y         float64 // top-left, set by the layout engine when absent
	Width        float64
	Height       float64
	IsMerge      bool
	Collapsed    bool
	Label        string
	HandleBounds *HandleBounds
}

// Center returns the centre point of the node.
func (n Node) Center() Point {
	return Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
}

// Contains reports whether p lies inside the node's bounds.
func (n Node) Contains(p Point) bool {
	return p.X >= n.X && p.X < n.X+n.Width &&
		p.Y >= n.Y && p.Y < n.Y+n.Height
}

// Edge is the record consumed from the host for one directed edge. Handle
// ids follow the "output-<i>" / "input-<i>" convention.
type Edge struct {
	ID             string
	SourceNodeID   string
	SourceHandleID string
	TargetNodeID   string
	TargetHandleID string
	Label          string
	Routing        *Overrides
	Order          int
}

// HandleIndex extracts the zero-based index from a conventional handle id
// such as "output-2" or "input-0". Unparseable ids yield 0.
func HandleIndex(handleID string) int {
	dash := strings.LastIndexByte(handleID, '-')
	if dash < 0 {
		return 0
	}
	// A doubled dash ("output--1") carries a negative index.
	if dash > 0 && handleID[dash-1] == '-' {
		dash--
	}
	i, err := strconv.Atoi(handleID[dash+1:])
	if err != nil || i < 0 {
		return 0
	}
	return i
}
