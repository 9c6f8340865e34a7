// Package pqueue implements the stable min-priority queue used by Huffman
// tree construction (§4.5, §4.11 "Min-priority queue"), standing in for the
// bundled pqueue that spec.md §1 treats as an abstract primitive. It wraps
// container/heap, adding FIFO tie-breaking between equal-weight nodes so
// Huffman tree shape is deterministic across runs (matching the original
// C's queue-vs-sorted-array tie rule in original_source/src/tdb_huffman.c).
package pqueue

import "container/heap"

// Item is anything that can be prioritized by a uint64 weight.
type Item struct {
	Value  any
	Weight uint64
	seq    uint64 // insertion order, for stable tie-breaking
	index  int    // heap index, maintained by container/heap
}

type innerHeap []*Item

func (h innerHeap) Len() int { return len(h) }
func (h innerHeap) Less(i, j int) bool {
	if h[i].Weight != h[j].Weight {
		return h[i].Weight < h[j].Weight
	}
	return h[i].seq < h[j].seq
}
func (h innerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *innerHeap) Push(x any) {
	it := x.(*Item)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *innerHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}

// Queue is a stable min-priority queue.
type Queue struct {
	h    innerHeap
	next uint64
}

// New creates an empty queue with a hint for its expected size.
func New(sizeHint int) *Queue {
	return &Queue{h: make(innerHeap, 0, sizeHint)}
}

// Push inserts value with the given weight.
func (q *Queue) Push(value any, weight uint64) *Item {
	it := &Item{Value: value, Weight: weight, seq: q.next}
	q.next++
	heap.Push(&q.h, it)
	return it
}

// Pop removes and returns the lowest-weight item, or nil if empty.
func (q *Queue) Pop() *Item {
	if q.h.Len() == 0 {
		return nil
	}
	return heap.Pop(&q.h).(*Item)
}

// Peek returns the lowest-weight item without removing it, or nil if empty.
func (q *Queue) Peek() *Item {
	if q.h.Len() == 0 {
		return nil
	}
	return q.h[0]
}

// Len returns the number of items currently queued.
func (q *Queue) Len() int { return q.h.Len() }

// ChangePriority updates it's weight and restores heap order in O(log n).
func (q *Queue) ChangePriority(it *Item, weight uint64) {
	it.Weight = weight
	heap.Fix(&q.h, it.index)
}
