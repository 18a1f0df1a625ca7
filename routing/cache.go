package routing

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"orthoroute/core"
)

// CacheStats is a snapshot of the memoisation counters, for host
// diagnostics.
type CacheStats struct {
	Hits      int
	Misses    int
	Evictions int
	Entries   int
	Capacity  int
}

func (s CacheStats) String() string {
	return fmt.Sprintf("route cache: %d/%d entries, %d hits, %d misses, %d evicted",
		s.Entries, s.Capacity, s.Hits, s.Misses, s.Evictions)
}

// RouteCache memoises batch routing results keyed by the structural hash
// batchKey derives from node geometry, edge tuples and configuration. Keys
// are remembered in insertion order and the oldest batch is dropped when a
// new one would overflow the capacity, so a host that cycles through a few
// diagram states keeps all of them warm. A capacity of zero disables the
// bound.
type RouteCache struct {
	mu      sync.Mutex
	results map[uint64]Result
	order   []uint64 // insertion order, oldest first
	cap     int
	hits    int
	misses  int
	evicted int
}

// NewRouteCache creates a cache holding at most capacity batch results.
func NewRouteCache(capacity int) *RouteCache {
	return &RouteCache{
		results: make(map[uint64]Result, capacity),
		cap:     capacity,
	}
}

// Get retrieves a memoised result if present.
func (rc *RouteCache) Get(key uint64) (Result, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	result, ok := rc.results[key]
	if ok {
		rc.hits++
	} else {
		rc.misses++
	}
	return result, ok
}

// Put stores a batch result, evicting the oldest entries on overflow.
func (rc *RouteCache) Put(key uint64, result Result) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if _, exists := rc.results[key]; exists {
		rc.results[key] = result
		return
	}
	for rc.cap > 0 && len(rc.order) >= rc.cap {
		oldest := rc.order[0]
		rc.order = rc.order[1:]
		delete(rc.results, oldest)
		rc.evicted++
	}
	rc.results[key] = result
	rc.order = append(rc.order, key)
}

// Clear drops every entry and zeroes the counters.
func (rc *RouteCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.results = make(map[uint64]Result, rc.cap)
	rc.order = nil
	rc.hits, rc.misses, rc.evicted = 0, 0, 0
}

// Stats returns a snapshot of the counters.
func (rc *RouteCache) Stats() CacheStats {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return CacheStats{
		Hits:      rc.hits,
		Misses:    rc.misses,
		Evictions: rc.evicted,
		Entries:   len(rc.results),
		Capacity:  rc.cap,
	}
}

// batchKey computes the structural hash for one batch. Nodes and edges are
// flattened in id-sorted order so the key is stable regardless of input
// ordering; the configuration snapshot is folded in last.
func batchKey(nodes []core.Node, edges []core.Edge, cfg core.Config) uint64 {
	h := fnv.New64a()

	nodeIDs := make([]string, 0, len(nodes))
	byID := make(map[string]core.Node, len(nodes))
	for _, n := range nodes {
		nodeIDs = append(nodeIDs, n.ID)
		byID[n.ID] = n
	}
	sort.Strings(nodeIDs)
	for _, id := range nodeIDs {
		n := byID[id]
		fmt.Fprintf(h, "n:%s:%g:%g:%g:%g;", n.ID, n.X, n.Y, n.Width, n.Height)
	}

	edgeIDs := make([]string, 0, len(edges))
	edgeByID := make(map[string]core.Edge, len(edges))
	for _, e := range edges {
		edgeIDs = append(edgeIDs, e.ID)
		edgeByID[e.ID] = e
	}
	sort.Strings(edgeIDs)
	for _, id := range edgeIDs {
		e := edgeByID[id]
		fmt.Fprintf(h, "e:%s:%s:%s:%s:%s:%s;", e.ID,
			e.SourceNodeID, e.SourceHandleID, e.TargetNodeID, e.TargetHandleID, e.Label)
		if e.Routing != nil {
			// Hash the effective per-edge config rather than the override
			// struct itself, whose pointer fields have no stable rendering.
			fmt.Fprintf(h, "o:%+v;", e.Routing.ApplyTo(cfg))
		}
	}

	fmt.Fprintf(h, "c:%+v;", cfg)
	return h.Sum64()
}
