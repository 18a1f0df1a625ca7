// Command routedemo runs the full pipeline over a small built-in pipeline
// diagram and prints the resulting SVG paths, one per edge. Useful for
// eyeballing routing changes without a host application.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"orthoroute/core"
	"orthoroute/layout"
	"orthoroute/routing"
	"orthoroute/visibility"
)

func main() {
	padding := flag.Float64("padding", 20, "obstacle inflation in px")
	separation := flag.Float64("separation", 5, "offset between overlapping parallel edges")
	radius := flag.Float64("radius", 8, "rounded corner radius")
	compact := flag.Bool("compact", false, "pull label-free rank pairs closer together")
	collapse := flag.String("collapse", "", "node id to collapse before layout")
	stats := flag.Bool("stats", false, "print route cache statistics")
	flag.Parse()

	cfg := core.DefaultConfig()
	cfg.Padding = *padding
	cfg.EdgeSeparation = *separation
	cfg.BendRadius = *radius
	cfg.CompactRanks = *compact

	nodes, edges := sampleDiagram()
	if *collapse != "" {
		found := false
		for i := range nodes {
			if nodes[i].ID == *collapse {
				nodes[i].Collapsed = true
				found = true
			}
		}
		if !found {
			fmt.Fprintf(os.Stderr, "routedemo: no node %q in the sample diagram\n", *collapse)
			os.Exit(1)
		}
	}

	nodes, edges = visibility.Filter(nodes, edges)
	nodes = layout.NewEngine(cfg).Layout(nodes, edges)

	orch := routing.NewOrchestrator(cfg)
	result := orch.Route(nodes, edges)

	ids := make([]string, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("%s: %s\n", id, result[id].SVGPath)
	}
	if *stats {
		fmt.Println(orch.Cache().Stats())
	}
}

// sampleDiagram is a small branch/merge pipeline: an ingest step fans out
// into three workers that meet again at a merge before publishing.
func sampleDiagram() ([]core.Node, []core.Edge) {
	nodes := []core.Node{
		{ID: "ingest", Width: 120, Height: 40},
		{ID: "branch", Width: 120, Height: 40},
		{ID: "parse", Width: 100, Height: 40},
		{ID: "validate", Width: 100, Height: 40},
		{ID: "enrich", Width: 100, Height: 40},
		{ID: "merge", Width: 40, Height: 40, IsMerge: true},
		{ID: "publish", Width: 120, Height: 40},
	}
	edges := []core.Edge{
		{ID: "e1", SourceNodeID: "ingest", SourceHandleID: "output-0", TargetNodeID: "branch", TargetHandleID: "input-0"},
		{ID: "e2", SourceNodeID: "branch", SourceHandleID: "output-0", TargetNodeID: "parse", TargetHandleID: "input-0", Label: "raw"},
		{ID: "e3", SourceNodeID: "branch", SourceHandleID: "output-1", TargetNodeID: "validate", TargetHandleID: "input-0"},
		{ID: "e4", SourceNodeID: "branch", SourceHandleID: "output-2", TargetNodeID: "enrich", TargetHandleID: "input-0"},
		{ID: "e5", SourceNodeID: "parse", SourceHandleID: "output-0", TargetNodeID: "merge", TargetHandleID: "input-0"},
		{ID: "e6", SourceNodeID: "validate", SourceHandleID: "output-0", TargetNodeID: "merge", TargetHandleID: "input-0"},
		{ID: "e7", SourceNodeID: "enrich", SourceHandleID: "output-0", TargetNodeID: "merge", TargetHandleID: "input-0"},
		{ID: "e8", SourceNodeID: "merge", SourceHandleID: "output-0", TargetNodeID: "publish", TargetHandleID: "input-0"},
	}
	return nodes, edges
}
