package hzip

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/chronos-tachyon/assert"
	"github.com/op/go-logging"
)

// Node is a node of a Huffman tree.  A leaf has no children and carries the
// Frequency of one byte value.  An internal node has exactly two children,
// and its Freq.Count is the sum of theirs; its Freq.Symbol is meaningless.
//
// Every node exclusively owns its children.  Internal nodes should only be
// created by MergeNodes.
//
type Node struct {
	Freq  Frequency
	Left  *Node
	Right *Node

	// minKey caches the tie-break key of an internal node.
	minKey int
}

// NewLeaf returns a leaf for the given frequency.
func NewLeaf(f Frequency) *Node {
	return &Node{Freq: f}
}

func newPlaceholder() *Node {
	return &Node{Freq: Frequency{Symbol: 0, Count: PlaceholderCount}}
}

func newInternal(left, right *Node) *Node {
	sum := left.Freq.Count + right.Freq.Count
	assert.Assertf(left.Freq.Count <= 0 || sum > left.Freq.Count, "frequency overflow: %d + %d", left.Freq.Count, right.Freq.Count)
	key := left.tieKey()
	if k := right.tieKey(); k < key {
		key = k
	}
	return &Node{
		Freq:   Frequency{Count: sum},
		Left:   left,
		Right:  right,
		minKey: key,
	}
}

// IsLeaf reports whether this node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// IsPlaceholder reports whether this node is the synthetic leaf injected for
// single-symbol inputs.  The placeholder never receives a code.
func (n *Node) IsPlaceholder() bool {
	return n.IsLeaf() && n.Freq.Count == PlaceholderCount
}

// tieKey is the secondary sort key: the symbol of a leaf, -1 for the
// placeholder, or the smallest key among an internal node's leaves.  Nodes
// that are queued together cover disjoint sets of leaves, so their keys are
// always distinct.
func (n *Node) tieKey() int {
	if !n.IsLeaf() {
		return n.minKey
	}
	if n.Freq.Count == PlaceholderCount {
		return -1
	}
	return int(n.Freq.Symbol)
}

func (n *Node) less(m *Node) bool {
	if n.Freq.Count != m.Freq.Count {
		return n.Freq.Count < m.Freq.Count
	}
	return n.tieKey() < m.tieKey()
}

// BuildTree builds the Huffman tree for table.  Leaves are created for every
// symbol with a positive count.  A table with no positive counts yields the
// empty tree, (nil, nil).  Negative counts are rejected with
// ErrNegativeFrequency, and counts whose sum does not fit in an int64 with
// ErrFrequencyOverflow.
func BuildTree(table *FrequencyTable) (*Node, error) {
	q := NewQueue()
	var total int64
	for _, f := range table {
		if f.Count < 0 {
			return nil, fmt.Errorf("%w: symbol %d has count %d", ErrNegativeFrequency, f.Symbol, f.Count)
		}
		if f.Count == 0 {
			continue
		}
		if total > math.MaxInt64-f.Count {
			return nil, fmt.Errorf("%w: adding %d for symbol %d", ErrFrequencyOverflow, f.Count, f.Symbol)
		}
		total += f.Count
		if err := q.Enqueue(NewLeaf(f)); err != nil {
			return nil, err
		}
	}
	root, err := MergeNodes(q)
	if err != nil {
		return nil, err
	}
	if log.IsEnabledFor(logging.DEBUG) {
		log.Debugf("built tree: %d leaves, %d nodes, depth %d", table.Distinct(), root.Size(), root.Depth())
	}
	return root, nil
}

// MergeNodes drains q into a single tree and returns its root.
//
// If q holds exactly one node, the placeholder leaf is enqueued first so that
// the lone symbol still ends up at depth 1.  Then, until one node remains,
// the two smallest nodes L and R are dequeued (in that order) and replaced by
// an internal node with Left = L and Right = R.
//
// An empty queue yields (nil, nil).
//
func MergeNodes(q *Queue) (*Node, error) {
	if q.Len() == 0 {
		return nil, nil
	}

	if q.Len() == 1 {
		if err := q.Enqueue(newPlaceholder()); err != nil {
			return nil, err
		}
	}

	for q.Len() > 1 {
		left, err := q.Dequeue()
		if err != nil {
			return nil, err
		}
		right, err := q.Dequeue()
		if err != nil {
			return nil, err
		}
		if err := q.Enqueue(newInternal(left, right)); err != nil {
			return nil, err
		}
	}

	return q.Dequeue()
}

// Size returns the number of nodes in the tree.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	return n.Left.Size() + n.Right.Size() + 1
}

// Depth returns the number of edges on the longest root-to-leaf path.  The
// empty tree and a lone leaf both have depth 0.
func (n *Node) Depth() int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	l, r := n.Left.Depth(), n.Right.Depth()
	if l < r {
		l = r
	}
	return l + 1
}

// Leaves returns the leaves in left-to-right order, placeholder included.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.walkLeaves(0, func(leaf *Node, _ int) {
		out = append(out, leaf)
	})
	return out
}

// LeafDepths maps each real symbol in the tree to the depth of its leaf.
func (n *Node) LeafDepths() map[byte]int {
	out := make(map[byte]int)
	n.walkLeaves(0, func(leaf *Node, depth int) {
		if !leaf.IsPlaceholder() {
			out[leaf.Freq.Symbol] = depth
		}
	})
	return out
}

func (n *Node) walkLeaves(depth int, fn func(*Node, int)) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		fn(n, depth)
		return
	}
	n.Left.walkLeaves(depth+1, fn)
	n.Right.walkLeaves(depth+1, fn)
}

// Equal reports whether the two trees have the same shape, the same counts
// at every node, and the same symbols at every leaf.
func (n *Node) Equal(m *Node) bool {
	if n == nil || m == nil {
		return n == m
	}
	if n.Freq.Count != m.Freq.Count || n.IsLeaf() != m.IsLeaf() {
		return false
	}
	if n.IsLeaf() {
		return n.Freq.Symbol == m.Freq.Symbol
	}
	return n.Left.Equal(m.Left) && n.Right.Equal(m.Right)
}

// Dump writes a programmer-readable picture of the tree to the given writer,
// one node per line in pre-order.  Leaves print as L/symbol/count/depth and
// internal nodes as I/count/depth.
func (n *Node) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	n.dumpIndent(&buf, 0, 0)
	return buf.WriteTo(w)
}

func (n *Node) dumpIndent(buf *bytes.Buffer, depth int, indent int) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		buf.WriteString(strings.Repeat("-", indent))
		fmt.Fprintf(buf, "L/%q/%d/%d\n", rune(n.Freq.Symbol), n.Freq.Count, depth)
		return
	}
	buf.WriteString(strings.Repeat(" ", indent))
	fmt.Fprintf(buf, "I/%d/%d\n", n.Freq.Count, depth)
	n.Left.dumpIndent(buf, depth+1, indent+2)
	n.Right.dumpIndent(buf, depth+1, indent+2)
}

// Weight returns the sum of the counts of the real leaves, which for a tree
// built by BuildTree is the length of the input.
func (n *Node) Weight() int64 {
	var sum int64
	n.walkLeaves(0, func(leaf *Node, _ int) {
		if !leaf.IsPlaceholder() {
			sum += leaf.Freq.Count
		}
	})
	return sum
}
