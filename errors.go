package hzip

import (
	"errors"
	"fmt"
)

var (
	ErrQueueFull         = errors.New("hzip: priority queue is full")
	ErrQueueEmpty        = errors.New("hzip: priority queue is empty")
	ErrNegativeFrequency = errors.New("hzip: negative frequency")
	ErrFrequencyOverflow = errors.New("hzip: frequencies overflow int64")
	ErrMalformedTree     = errors.New("hzip: malformed tree header")
	ErrCodeTooLong       = errors.New("hzip: code exceeds 64 bits")
	ErrWrongMode         = errors.New("hzip: operation not permitted in this mode")
	ErrClosed            = errors.New("hzip: file already closed")
	ErrUnaligned         = errors.New("hzip: bit accumulator holds a partial byte")
	ErrCorruptPayload    = errors.New("hzip: corrupt payload")
)

// TreeFormatError describes where and why a serialized tree was rejected.
// Offset counts bytes from the opening delimiter.
type TreeFormatError struct {
	Offset int64
	Reason string
}

func (e *TreeFormatError) Error() string {
	return fmt.Sprintf("hzip: malformed tree header at byte %d: %s", e.Offset, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformedTree.
func (e *TreeFormatError) Unwrap() error {
	return ErrMalformedTree
}
