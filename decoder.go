package hzip

import (
	"fmt"
)

// Decoder walks a Huffman tree one bit at a time.  A 0 bit follows the left
// edge and a 1 bit follows the right edge.
type Decoder struct {
	root *Node
	cur  *Node
}

// NewDecoder returns a Decoder positioned at the root of root.  The tree must
// have at least one internal node.
func NewDecoder(root *Node) (*Decoder, error) {
	if root == nil || root.IsLeaf() {
		return nil, fmt.Errorf("%w: tree has no edges to decode with", ErrMalformedTree)
	}
	return &Decoder{root: root, cur: root}, nil
}

// Decode follows one edge.  If that reaches a leaf, it returns the leaf's
// symbol with done set, and the Decoder goes back to the root.  Reaching the
// placeholder leaf means the bits were not produced by this tree, and is
// reported as ErrCorruptPayload.
func (d *Decoder) Decode(bit int) (symbol byte, done bool, err error) {
	if bit == 0 {
		d.cur = d.cur.Left
	} else {
		d.cur = d.cur.Right
	}

	if !d.cur.IsLeaf() {
		return 0, false, nil
	}

	leaf := d.cur
	d.cur = d.root
	if leaf.IsPlaceholder() {
		return 0, false, fmt.Errorf("%w: code for the placeholder leaf", ErrCorruptPayload)
	}
	return leaf.Freq.Symbol, true, nil
}

// AtRoot reports whether the Decoder is between codes.
func (d *Decoder) AtRoot() bool {
	return d.cur == d.root
}

// Reset abandons a partially decoded code.
func (d *Decoder) Reset() {
	d.cur = d.root
}

// String returns a short description of the tree being decoded.
func (d *Decoder) String() string {
	var n int
	for _, leaf := range d.root.Leaves() {
		if !leaf.IsPlaceholder() {
			n++
		}
	}
	return fmt.Sprintf("(Huffman decoder with %d symbols, tree depth %d)", n, d.root.Depth())
}

var _ fmt.Stringer = (*Decoder)(nil)
