package hzip

import (
	"bytes"
	"fmt"
	"io"
)

// Encoder maps each byte value to its code in a Huffman tree.  A left edge is
// a 0 bit and a right edge is a 1 bit.
type Encoder struct {
	codes   [NumSymbols]Code
	minSize byte
	maxSize byte
	count   int
}

// NewEncoder walks root and records the code of every real leaf.  The
// placeholder leaf gets no code.  The empty tree yields an Encoder with no
// codes at all.
//
// A root that is itself a leaf has no edges to encode with and is rejected,
// as is any leaf deeper than 64 edges (ErrCodeTooLong).
//
func NewEncoder(root *Node) (*Encoder, error) {
	e := &Encoder{}
	if root == nil {
		return e, nil
	}
	if root.IsLeaf() {
		return nil, fmt.Errorf("%w: root is a bare leaf", ErrMalformedTree)
	}

	// Walk the tree with an explicit stack.  The stack depth is the code
	// length of the node on top.
	//
	// stackItem.x tracks where we are in the walk:
	//   x=0 → We just arrived at stackItem for the first time
	//   x=1 → We have already processed the left child
	//   x=2 → We have already processed both children

	type stackItem struct {
		n  *Node
		hc Code
		x  byte
	}

	stack := make([]stackItem, 0, 16)
	stack = append(stack, stackItem{n: root})

	processChild := func(child *Node, hc Code) error {
		if !child.IsLeaf() {
			if hc.Size >= maxBitsPerCode {
				return ErrCodeTooLong
			}
			stack = append(stack, stackItem{n: child, hc: hc})
			return nil
		}
		if child.IsPlaceholder() {
			return nil
		}
		e.record(child.Freq.Symbol, hc)
		return nil
	}

	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++
		var err error
		switch x {
		case 0:
			err = processChild(top.n.Left, top.hc.Append(0))
		case 1:
			err = processChild(top.n.Right, top.hc.Append(1))
		case 2:
			stack = stack[:len(stack)-1]
		}
		if err != nil {
			return nil, err
		}
	}

	return e, nil
}

func (e *Encoder) record(symbol byte, hc Code) {
	e.codes[symbol] = hc
	if e.count == 0 {
		e.minSize, e.maxSize = hc.Size, hc.Size
	} else if e.minSize > hc.Size {
		e.minSize = hc.Size
	} else if e.maxSize < hc.Size {
		e.maxSize = hc.Size
	}
	e.count++
}

// Encode returns the code for a byte value.  A byte that was not in the tree
// has a zero-length code.
func (e *Encoder) Encode(b byte) Code {
	return e.codes[b]
}

// Has reports whether b has a code.
func (e *Encoder) Has(b byte) bool {
	return e.codes[b].Size != 0
}

// NumCodes returns the number of byte values that have a code.
func (e *Encoder) NumCodes() int {
	return e.count
}

// MinSize is the bit length of the shortest code.
func (e *Encoder) MinSize() byte {
	return e.minSize
}

// MaxSize is the bit length of the longest code.
func (e *Encoder) MaxSize() byte {
	return e.maxSize
}

// SizeBySymbol returns an array containing the bit length for each byte
// value.
func (e *Encoder) SizeBySymbol() []byte {
	out := make([]byte, NumSymbols)
	for i, hc := range e.codes {
		out[i] = hc.Size
	}
	return out
}

// EncodedBits returns the number of payload bits needed to encode input
// with the given frequencies.
func (e *Encoder) EncodedBits(table *FrequencyTable) uint64 {
	var sum uint64
	for _, f := range table {
		if f.Count > 0 {
			sum += uint64(f.Count) * uint64(e.codes[f.Symbol].Size)
		}
	}
	return sum
}

// Dump writes a programmer-readable debugging dump of the Encoder's current
// state to the given writer.  Byte values without a code are omitted.
func (e *Encoder) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Encoder{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", e.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", e.maxSize)
	for symbol, hc := range e.codes {
		if hc.Size != 0 {
			fmt.Fprintf(&buf, "\tEncode(%d) = %s\n", symbol, hc)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// WriteCode writes every bit of hc, first bit first.
func (f *File) WriteCode(hc Code) error {
	for i := byte(0); i < hc.Size; i++ {
		if _, err := f.WriteBit(hc.Bit(i)); err != nil {
			return err
		}
	}
	return nil
}
