package hzip

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// OffsetSize is the width of a counter written by WriteOffset.
const OffsetSize = 8

// WriteOffset writes v as an 8-byte big-endian integer at the current
// position, bypassing the bit accumulator.  The File must be in write mode
// and hold no partial byte.
func (f *File) WriteOffset(v uint64) error {
	if err := f.checkAligned(WriteMode); err != nil {
		return err
	}
	var raw [OffsetSize]byte
	binary.BigEndian.PutUint64(raw[:], v)
	return f.writeBytes(raw[:])
}

// ReadOffset reads an integer written by WriteOffset.  A stream that ends
// before all 8 bytes are read yields io.ErrUnexpectedEOF.
func (f *File) ReadOffset() (uint64, error) {
	if err := f.checkAligned(ReadMode); err != nil {
		return 0, err
	}
	var raw [OffsetSize]byte
	for i := range raw {
		c, err := f.readByte()
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		if err != nil {
			return 0, err
		}
		raw[i] = c
	}
	return binary.BigEndian.Uint64(raw[:]), nil
}

// FileSize returns the size of the named file in bytes.
func FileSize(name string) (int64, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return 0, fmt.Errorf("hzip: %w", err)
	}
	return fi.Size(), nil
}
