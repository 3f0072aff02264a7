package hzip

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

const (
	treeDelimiter   = '#'
	fieldSeparator  = ' '
	recordSeparator = ','
)

// Serialize writes the tree to w as '#', then one "<count> <symbol>," record
// per leaf in left-to-right order, then '#'.  Internal nodes are not written;
// DeserializeTree recovers them by replaying the merge.
//
// It returns the number of nodes visited, internal nodes included.  The empty
// tree serializes as "##" and visits 0 nodes.
//
func (n *Node) Serialize(w io.Writer) (int, error) {
	var buf bytes.Buffer
	buf.WriteByte(treeDelimiter)
	visited := n.serializeRec(&buf)
	buf.WriteByte(treeDelimiter)
	if _, err := buf.WriteTo(w); err != nil {
		return visited, fmt.Errorf("hzip: writing tree header: %w", err)
	}
	return visited, nil
}

func (n *Node) serializeRec(buf *bytes.Buffer) int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		var scratch [24]byte
		buf.Write(strconv.AppendInt(scratch[:0], n.Freq.Count, 10))
		buf.WriteByte(fieldSeparator)
		buf.Write(strconv.AppendUint(scratch[:0], uint64(n.Freq.Symbol), 10))
		buf.WriteByte(recordSeparator)
		return 1
	}
	return n.Left.serializeRec(buf) + n.Right.serializeRec(buf) + 1
}

// DeserializeTree reads a tree written by Serialize and rebuilds it.
//
// The records are validated as they are read: counts must be positive, except
// for a single placeholder record with count -1 that may only accompany
// exactly one real leaf; symbols must be in 0..255 and must not repeat; and
// the counts must not overflow when summed.  Any violation, a missing
// delimiter, or a truncated stream yields a *TreeFormatError and no tree.
// Errors from r other than io.EOF are returned wrapped, as is.
//
// "##" yields the empty tree, (nil, nil).
//
func DeserializeTree(r io.ByteScanner) (*Node, error) {
	p := treeParser{r: r}
	return p.parse()
}

type treeParser struct {
	r      io.ByteScanner
	offset int64
}

func (p *treeParser) fail(format string, args ...interface{}) error {
	return &TreeFormatError{Offset: p.offset, Reason: fmt.Sprintf(format, args...)}
}

// next returns the next byte.  io.EOF is turned into a format error, since
// every caller is in the middle of a header.
func (p *treeParser) next() (byte, error) {
	c, err := p.r.ReadByte()
	if err == io.EOF {
		return 0, p.fail("unexpected end of input")
	}
	if err != nil {
		return 0, fmt.Errorf("hzip: reading tree header: %w", err)
	}
	p.offset++
	return c, nil
}

func (p *treeParser) unread() error {
	if err := p.r.UnreadByte(); err != nil {
		return fmt.Errorf("hzip: reading tree header: %w", err)
	}
	p.offset--
	return nil
}

func (p *treeParser) parse() (*Node, error) {
	c, err := p.next()
	if err != nil {
		return nil, err
	}
	if c != treeDelimiter {
		return nil, p.fail("expected %q, got %q", treeDelimiter, c)
	}

	q := NewQueue()
	var seen [NumSymbols]bool
	var numReal, numPlaceholder int
	var total int64

	for {
		c, err := p.next()
		if err != nil {
			return nil, err
		}
		if c == treeDelimiter {
			break
		}
		if err := p.unread(); err != nil {
			return nil, err
		}

		count, err := p.parseInt(fieldSeparator)
		if err != nil {
			return nil, err
		}
		symbol, err := p.parseInt(recordSeparator)
		if err != nil {
			return nil, err
		}

		if symbol < 0 || symbol >= NumSymbols {
			return nil, p.fail("symbol %d out of range", symbol)
		}
		switch {
		case count == PlaceholderCount:
			numPlaceholder++
			if numPlaceholder > 1 {
				return nil, p.fail("more than one placeholder leaf")
			}
		case count <= 0:
			return nil, p.fail("invalid count %d for symbol %d", count, symbol)
		default:
			if seen[symbol] {
				return nil, p.fail("duplicate symbol %d", symbol)
			}
			seen[symbol] = true
			numReal++
			if total > math.MaxInt64-count {
				return nil, p.fail("counts overflow")
			}
		}
		total += count

		leaf := NewLeaf(Frequency{Symbol: byte(symbol), Count: count})
		if err := q.Enqueue(leaf); err != nil {
			if errors.Is(err, ErrQueueFull) {
				return nil, p.fail("more than %d leaves", QueueCapacity)
			}
			return nil, err
		}
	}

	if numPlaceholder != 0 && numReal != 1 {
		return nil, p.fail("placeholder leaf alongside %d real leaves", numReal)
	}

	return MergeNodes(q)
}

// parseInt reads an optionally negative decimal integer followed by term.
func (p *treeParser) parseInt(term byte) (int64, error) {
	c, err := p.next()
	if err != nil {
		return 0, err
	}

	negative := false
	if c == '-' {
		negative = true
		if c, err = p.next(); err != nil {
			return 0, err
		}
	}

	if c < '0' || c > '9' {
		return 0, p.fail("expected digit, got %q", c)
	}

	var value int64
	for {
		digit := int64(c - '0')
		if value > (math.MaxInt64-digit)/10 {
			return 0, p.fail("integer overflow")
		}
		value = value*10 + digit

		if c, err = p.next(); err != nil {
			return 0, err
		}
		if c == term {
			break
		}
		if c < '0' || c > '9' {
			return 0, p.fail("expected digit or %q, got %q", term, c)
		}
	}

	if negative {
		value = -value
	}
	return value, nil
}
