package promiscuity

import (
	"cmp"
	"container/heap"
)

// Entry is a frontier candidate: a node, the degree it had when discovered, the
// score folded over the intermediates before it, and how many hops from the
// source it sits. Entries are values and never change after creation.
type Entry[N comparable] struct {
	Degree    int
	PathScore int
	Depth     int
	Node      N
}

// Compare orders entries by degree only. Entries of equal degree compare equal.
func (e Entry[N]) Compare(o Entry[N]) int {
	return cmp.Compare(e.Degree, o.Degree)
}

// PathEntry is an Entry that remembers which lineage slot produced it.
// Parent is -1 for the source sentinel.
type PathEntry[N comparable] struct {
	Entry[N]
	Parent int
}

// lineage is the arena that owns every PathEntry of one TopPaths call.
// Parents are referenced by index so shared ancestry costs nothing and the
// whole tree is released together when the call returns.
type lineage[N comparable] struct {
	entries []PathEntry[N]
}

func (l *lineage[N]) add(e PathEntry[N]) int {
	l.entries = append(l.entries, e)

	return len(l.entries) - 1
}

func (l *lineage[N]) at(i int) PathEntry[N] {
	return l.entries[i]
}

// trail returns the nodes from the root down to leaf, inclusive.
func (l *lineage[N]) trail(leaf int) []N {
	var nodes []N
	for i := leaf; i >= 0; i = l.entries[i].Parent {
		nodes = append(nodes, l.entries[i].Node)
	}

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	return nodes
}

// frontier is a min-heap keyed by an integer priority. Equal keys pop in
// insertion order so repeated searches visit entries identically.
type frontier[T any] struct {
	h   slotHeap[T]
	key func(T) int
	seq uint64
}

func newFrontier[T any](key func(T) int) *frontier[T] {
	return &frontier[T]{key: key}
}

func (f *frontier[T]) Len() int { return len(f.h) }

func (f *frontier[T]) push(v T) {
	f.seq++
	heap.Push(&f.h, slot[T]{v: v, key: f.key(v), seq: f.seq})
}

func (f *frontier[T]) pop() T {
	return heap.Pop(&f.h).(slot[T]).v
}

type slot[T any] struct {
	v   T
	key int
	seq uint64
}

type slotHeap[T any] []slot[T]

func (h slotHeap[T]) Len() int { return len(h) }

func (h slotHeap[T]) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}

	return h[i].seq < h[j].seq
}

func (h slotHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *slotHeap[T]) Push(x any) { *h = append(*h, x.(slot[T])) }

func (h *slotHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	var zero slot[T]
	old[n-1] = zero
	*h = old[:n-1]

	return item
}

func entryDegree[N comparable](e Entry[N]) int { return e.Degree }
