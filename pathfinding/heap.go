package pathfinding

// MinHeap is a concrete-typed binary min-heap for the Dijkstra frontier.
// Avoids the interface boxing overhead of container/heap. Entries with equal
// cost pop in push order, which keeps the search deterministic.
type MinHeap struct {
	items []PQItem
	seq   int
}

// PQItem is a priority queue entry: a search state plus its accumulated cost.
type PQItem struct {
	State State
	Cost  float64
	seq   int
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(state State, cost float64) {
	h.items = append(h.items, PQItem{State: state, Cost: cost, seq: h.seq})
	h.seq++
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
	h.seq = 0
}

func (h *MinHeap) less(i, j int) bool {
	if h.items[i].Cost != h.items[j].Cost {
		return h.items[i].Cost < h.items[j].Cost
	}
	return h.items[i].seq < h.items[j].seq
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
