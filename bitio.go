package hzip

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chronos-tachyon/assert"
)

// Mode selects the direction of a File.  A File is either read-only or
// write-only, never both.
type Mode byte

const (
	ReadMode  Mode = 'r'
	WriteMode Mode = 'w'
)

// String returns the string representation of this Mode.
func (m Mode) String() string {
	switch m {
	case ReadMode:
		return "read"
	case WriteMode:
		return "write"
	default:
		return fmt.Sprintf("Mode(%d)", byte(m))
	}
}

// File reads or writes a stream one bit at a time.
//
// Bits are packed most significant first.  Whole bytes are staged in an
// internal buffer and moved to or from the underlying stream in bulk.  When a
// write-mode File is closed, a final partial byte is left-justified and
// padded with zero bits; nothing in the byte itself marks the padding, so
// writers usually record the number of meaningful bits with WriteOffset and
// readers enforce it with LimitBits.
//
// A File is not safe for concurrent use.
//
type File struct {
	r      io.Reader
	w      io.Writer
	closer io.Closer
	mode   Mode

	buf   []byte
	index int // next free slot (write) or next unread byte (read)
	read  int // number of valid bytes in buf, read mode only

	acc   byte
	nbits int // bits held in acc (write), or bits already consumed from acc (read)

	count  int64
	limit  int64
	err    error
	closed bool
}

// Open opens the named file for reading, or creates it for writing.  The
// returned File owns the underlying *os.File.
func Open(name string, mode Mode, opts ...Option) (*File, error) {
	switch mode {
	case ReadMode:
		fp, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("hzip: %w", err)
		}
		return NewReader(fp, withOwnership(opts)...), nil

	case WriteMode:
		fp, err := os.Create(name)
		if err != nil {
			return nil, fmt.Errorf("hzip: %w", err)
		}
		return NewWriter(fp, withOwnership(opts)...), nil

	default:
		return nil, fmt.Errorf("%w: unknown mode %v", ErrWrongMode, mode)
	}
}

// withOwnership returns a copy of opts that also claims ownership.  The
// caller's slice is never appended to.
func withOwnership(opts []Option) []Option {
	out := make([]Option, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, WithOwnership(true))
}

// NewReader returns a read-mode File over r.
func NewReader(r io.Reader, opts ...Option) *File {
	o := defaultOptions()
	o.apply(opts)
	f := &File{
		r:    r,
		mode: ReadMode,
		buf:  make([]byte, o.bufferSize),

		// Nothing is buffered and every bit of acc counts as consumed, so
		// the first ReadBit pulls a fresh byte from the stream.
		nbits: 8,
		limit: -1,
	}
	if c, ok := r.(io.Closer); ok && o.owned {
		f.closer = c
	}
	log.Debugf("opened bit reader, buffer %d bytes", o.bufferSize)
	return f
}

// NewWriter returns a write-mode File over w.
func NewWriter(w io.Writer, opts ...Option) *File {
	o := defaultOptions()
	o.apply(opts)
	f := &File{
		w:     w,
		mode:  WriteMode,
		buf:   make([]byte, o.bufferSize),
		limit: -1,
	}
	if c, ok := w.(io.Closer); ok && o.owned {
		f.closer = c
	}
	log.Debugf("opened bit writer, buffer %d bytes", o.bufferSize)
	return f
}

// Mode returns the direction this File was opened in.
func (f *File) Mode() Mode {
	return f.mode
}

// NumBytes returns the number of whole bytes packed by WriteBit or fully
// consumed by ReadBit so far.  A partial byte is not counted, and neither are
// bytes moved by WriteTree, ReadTree, WriteOffset, or ReadOffset.
func (f *File) NumBytes() int64 {
	return f.count
}

// WriteBit appends one bit, which must be 0 or 1, and returns it.
func (f *File) WriteBit(bit int) (int, error) {
	assert.Assertf(bit == 0 || bit == 1, "bit %d is neither 0 nor 1", bit)
	if err := f.check(WriteMode); err != nil {
		return 0, err
	}

	f.acc = f.acc<<1 | byte(bit)
	f.nbits++
	if f.nbits == 8 {
		c := f.acc
		f.acc, f.nbits = 0, 0
		if err := f.writeByte(c); err != nil {
			return 0, err
		}
		f.count++
	}
	return bit, nil
}

// ReadBit returns the next bit, 0 or 1.  At the end of the stream, or once
// the limit set by LimitBits is used up, it returns io.EOF.
func (f *File) ReadBit() (int, error) {
	if err := f.check(ReadMode); err != nil {
		return 0, err
	}
	if f.limit == 0 {
		return 0, io.EOF
	}

	if f.nbits >= 8 {
		c, err := f.readByte()
		if err != nil {
			return 0, err
		}
		f.acc, f.nbits = c, 0
	}

	bit := int(f.acc >> 7)
	f.acc <<= 1
	f.nbits++
	if f.nbits == 8 {
		f.count++
	}
	if f.limit > 0 {
		f.limit--
	}
	return bit, nil
}

// LimitBits makes ReadBit report io.EOF after n more bits, so that the zero
// padding of a final partial byte is never mistaken for data.
func (f *File) LimitBits(n uint64) {
	if n > math.MaxInt64 {
		n = math.MaxInt64
	}
	f.limit = int64(n)
}

// Close finishes the session.  In write mode, any partial byte is written
// left-justified and zero-padded and the buffer is flushed.  If the File owns
// its stream, the stream is closed too.  Calling Close twice returns
// ErrClosed.
func (f *File) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true

	err := f.err
	if f.mode == WriteMode && err == nil {
		if f.nbits > 0 {
			c := f.acc << (8 - f.nbits)
			f.acc, f.nbits = 0, 0
			err = f.writeByte(c)
		}
		if err == nil {
			err = f.flush()
		}
	}

	if f.closer != nil {
		if cerr := f.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("hzip: closing: %w", cerr)
		}
	}

	f.buf = nil
	log.Debugf("closed bit %s session after %d bytes", f.mode, f.count)
	return err
}

// WriteTree serializes root at the current position; see Node.Serialize.  The
// File must be in write mode and hold no partial byte.
func (f *File) WriteTree(root *Node) (int, error) {
	if err := f.checkAligned(WriteMode); err != nil {
		return -1, err
	}
	return root.Serialize(fileWriter{f})
}

// ReadTree deserializes a tree at the current position; see
// DeserializeTree.  The File must be in read mode and hold no partial byte.
func (f *File) ReadTree() (*Node, error) {
	if err := f.checkAligned(ReadMode); err != nil {
		return nil, err
	}
	return DeserializeTree(fileScanner{f})
}

func (f *File) check(mode Mode) error {
	if f.closed {
		return ErrClosed
	}
	if f.mode != mode {
		return fmt.Errorf("%w: file is open for %v", ErrWrongMode, f.mode)
	}
	return f.err
}

func (f *File) checkAligned(mode Mode) error {
	if err := f.check(mode); err != nil {
		return err
	}
	if (mode == WriteMode && f.nbits != 0) || (mode == ReadMode && f.nbits != 8) {
		return ErrUnaligned
	}
	return nil
}

func (f *File) flush() error {
	if f.index == 0 {
		return nil
	}
	_, err := f.w.Write(f.buf[:f.index])
	f.index = 0
	if err != nil {
		f.err = fmt.Errorf("hzip: writing: %w", err)
		return f.err
	}
	return nil
}

func (f *File) writeByte(c byte) error {
	if f.index >= len(f.buf) {
		if err := f.flush(); err != nil {
			return err
		}
	}
	f.buf[f.index] = c
	f.index++
	return nil
}

func (f *File) writeBytes(p []byte) error {
	for len(p) != 0 {
		if f.index >= len(f.buf) {
			if err := f.flush(); err != nil {
				return err
			}
		}
		n := copy(f.buf[f.index:], p)
		f.index += n
		p = p[n:]
	}
	return nil
}

func (f *File) fill() error {
	for tries := 0; ; tries++ {
		if tries >= maxEmptyReads {
			f.err = fmt.Errorf("hzip: reading: %w", io.ErrNoProgress)
			return f.err
		}
		n, err := f.r.Read(f.buf)
		if n > 0 {
			f.index, f.read = 0, n
			return nil
		}
		if err == io.EOF {
			return io.EOF
		}
		if err != nil {
			f.err = fmt.Errorf("hzip: reading: %w", err)
			return f.err
		}
	}
}

// maxEmptyReads bounds how many (0, nil) results fill tolerates in a row.
const maxEmptyReads = 100

// readByte returns io.EOF, unwrapped, when the stream is exhausted.
func (f *File) readByte() (byte, error) {
	if f.index >= f.read {
		if err := f.fill(); err != nil {
			return 0, err
		}
	}
	c := f.buf[f.index]
	f.index++
	return c, nil
}

// type fileWriter + type fileScanner {{{

// fileWriter moves whole bytes through the File's buffer, bypassing the bit
// accumulator.
type fileWriter struct {
	f *File
}

func (w fileWriter) Write(p []byte) (int, error) {
	if err := w.f.writeBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

var _ io.Writer = fileWriter{}

// fileScanner reads whole bytes from the File's buffer, bypassing the bit
// accumulator.
type fileScanner struct {
	f *File
}

func (s fileScanner) ReadByte() (byte, error) {
	return s.f.readByte()
}

func (s fileScanner) UnreadByte() error {
	if s.f.index == 0 {
		return fmt.Errorf("hzip: nothing to unread")
	}
	s.f.index--
	return nil
}

var _ io.ByteScanner = fileScanner{}

// }}}
