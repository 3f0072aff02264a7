package hzip

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Stats describes one Encode or Decode pass.
type Stats struct {
	// RawBytes is the length of the uncompressed data.
	RawBytes int64

	// CompressedBytes is the length of the compressed container.
	CompressedBytes int64

	// PayloadBits is the number of meaningful bits after the header.
	PayloadBits uint64

	// PayloadBytes is the number of whole payload bytes moved by the bit
	// layer; a padded final byte is not included.
	PayloadBytes int64

	// TreeNodes is the number of nodes in the Huffman tree.
	TreeNodes int
}

// Ratio returns CompressedBytes / RawBytes, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.RawBytes == 0 {
		return 0
	}
	return float64(s.CompressedBytes) / float64(s.RawBytes)
}

// String returns the string representation of this Stats.
func (s Stats) String() string {
	return fmt.Sprintf("%d bytes raw, %d bytes compressed (%.3f), %d payload bits, %d tree nodes",
		s.RawBytes, s.CompressedBytes, s.Ratio(), s.PayloadBits, s.TreeNodes)
}

var _ fmt.Stringer = Stats{}

// Encode compresses data and writes the container to w.
func Encode(w io.Writer, data []byte, opts ...Option) (Stats, error) {
	return encode(w, FrequenciesOf(data), bytes.NewReader(data), opts)
}

// EncodeFile compresses the file inName into outName.  The input is read
// twice: once to count frequencies and once to encode.
func EncodeFile(inName, outName string, opts ...Option) (stats Stats, err error) {
	in, err := os.Open(inName)
	if err != nil {
		return stats, fmt.Errorf("hzip: %w", err)
	}
	defer in.Close()

	table, err := CountFrequencies(in)
	if err != nil {
		return stats, err
	}
	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return stats, fmt.Errorf("hzip: %w", err)
	}

	out, err := os.Create(outName)
	if err != nil {
		return stats, fmt.Errorf("hzip: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("hzip: %w", cerr)
		}
	}()

	return encode(out, table, bufio.NewReader(in), opts)
}

func encode(w io.Writer, table *FrequencyTable, src io.Reader, opts []Option) (stats Stats, err error) {
	cw := &countingWriter{w: w}
	f := NewWriter(cw, opts...)
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		stats.PayloadBytes = f.NumBytes()
		stats.CompressedBytes = cw.n
	}()

	root, err := BuildTree(table)
	if err != nil {
		return stats, err
	}
	enc, err := NewEncoder(root)
	if err != nil {
		return stats, err
	}

	stats.RawBytes = table.Total()
	stats.PayloadBits = enc.EncodedBits(table)

	if stats.TreeNodes, err = f.WriteTree(root); err != nil {
		return stats, err
	}
	if err = f.WriteOffset(stats.PayloadBits); err != nil {
		return stats, err
	}

	br := asByteReader(src)
	var n int64
	for {
		b, rerr := br.ReadByte()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return stats, fmt.Errorf("hzip: reading input: %w", rerr)
		}
		if !enc.Has(b) {
			return stats, fmt.Errorf("hzip: input changed while encoding: byte %d has no code", b)
		}
		if err = f.WriteCode(enc.Encode(b)); err != nil {
			return stats, err
		}
		n++
	}
	if n != stats.RawBytes {
		return stats, fmt.Errorf("hzip: input changed while encoding: counted %d bytes, read %d", stats.RawBytes, n)
	}

	log.Debugf("encoded %d bytes into %d payload bits", n, stats.PayloadBits)
	return stats, nil
}

// Decode reads a container from r and writes the decompressed bytes to w.
func Decode(w io.Writer, r io.Reader, opts ...Option) (Stats, error) {
	return decode(w, r, opts)
}

// DecodeFile decompresses the file inName into outName.  If decoding fails,
// outName is removed.
func DecodeFile(inName, outName string, opts ...Option) (stats Stats, err error) {
	in, err := os.Open(inName)
	if err != nil {
		return stats, fmt.Errorf("hzip: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outName)
	if err != nil {
		return stats, fmt.Errorf("hzip: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("hzip: %w", cerr)
		}
		if err != nil {
			os.Remove(outName)
		}
	}()

	return decode(out, in, opts)
}

func decode(w io.Writer, r io.Reader, opts []Option) (stats Stats, err error) {
	cr := &countingReader{r: r}
	f := NewReader(cr, opts...)
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		stats.PayloadBytes = f.NumBytes()
		stats.CompressedBytes = cr.n
	}()

	root, err := f.ReadTree()
	if err != nil {
		return stats, err
	}
	stats.TreeNodes = root.Size()

	if stats.PayloadBits, err = f.ReadOffset(); err != nil {
		return stats, err
	}

	if root == nil {
		if stats.PayloadBits != 0 {
			return stats, fmt.Errorf("%w: %d payload bits with an empty tree", ErrCorruptPayload, stats.PayloadBits)
		}
		return stats, nil
	}

	dec, err := NewDecoder(root)
	if err != nil {
		return stats, err
	}

	// Nothing reaches w until the whole payload has been checked.
	var staged bytes.Buffer
	weight := root.Weight()
	f.LimitBits(stats.PayloadBits)
	var consumed uint64
	for {
		bit, rerr := f.ReadBit()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return stats, rerr
		}
		consumed++

		symbol, done, derr := dec.Decode(bit)
		if derr != nil {
			return stats, derr
		}
		if done {
			if stats.RawBytes >= weight {
				return stats, fmt.Errorf("%w: more than %d bytes decoded", ErrCorruptPayload, weight)
			}
			staged.WriteByte(symbol)
			stats.RawBytes++
		}
	}

	switch {
	case consumed != stats.PayloadBits:
		return stats, fmt.Errorf("%w: expected %d payload bits, found %d", ErrCorruptPayload, stats.PayloadBits, consumed)
	case !dec.AtRoot():
		return stats, fmt.Errorf("%w: payload ends inside a code", ErrCorruptPayload)
	case stats.RawBytes != weight:
		return stats, fmt.Errorf("%w: decoded %d bytes, tree expects %d", ErrCorruptPayload, stats.RawBytes, weight)
	}

	if _, err = staged.WriteTo(w); err != nil {
		return stats, fmt.Errorf("hzip: writing output: %w", err)
	}
	log.Debugf("decoded %d payload bits into %d bytes", consumed, stats.RawBytes)
	return stats, nil
}

// type countingWriter + type countingReader {{{

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// }}}

func asByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}
