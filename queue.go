package hzip

import (
	"container/heap"

	"github.com/chronos-tachyon/assert"
)

// QueueCapacity is the fixed capacity of a Queue.  Construction never holds
// more than one node per byte value, because each merge removes two nodes
// and adds one.
const QueueCapacity = NumSymbols

// Queue is a fixed-capacity min-heap of tree nodes, ordered by frequency and
// then by the smallest symbol beneath each node.  The zero value is an empty
// queue ready for use.
type Queue struct {
	h nodeHeap
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue inserts n.  It returns ErrQueueFull, leaving the queue untouched,
// if the queue already holds QueueCapacity nodes.
func (q *Queue) Enqueue(n *Node) error {
	assert.Assertf(n != nil, "Enqueue called with nil *Node")
	if q.h.count >= QueueCapacity {
		return ErrQueueFull
	}
	heap.Push(&q.h, n)
	return nil
}

// Dequeue removes and returns the minimum node.  It returns ErrQueueEmpty if
// there is nothing to remove.
func (q *Queue) Dequeue() (*Node, error) {
	if q.h.count == 0 {
		return nil, ErrQueueEmpty
	}
	return heap.Pop(&q.h).(*Node), nil
}

// Len returns the number of queued nodes.
func (q *Queue) Len() int {
	return q.h.count
}

// IsEmpty reports whether Len() == 0.
func (q *Queue) IsEmpty() bool {
	return q.h.count == 0
}

// type nodeHeap {{{

type nodeHeap struct {
	list  [QueueCapacity]*Node
	count int
}

func (h *nodeHeap) Len() int {
	return h.count
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	return h.list[i].less(h.list[j])
}

func (h *nodeHeap) Push(x interface{}) {
	h.list[h.count] = x.(*Node)
	h.count++
}

func (h *nodeHeap) Pop() interface{} {
	h.count--
	x := h.list[h.count]
	h.list[h.count] = nil
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
