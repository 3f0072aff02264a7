package main

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// baseline is the size a general-purpose compressor reaches on the same
// input, for judging how much an order-0 Huffman code leaves on the table.
type baseline struct {
	rawBytes        int64
	compressedBytes int64
}

func (b baseline) String() string {
	var ratio float64
	if b.rawBytes != 0 {
		ratio = float64(b.compressedBytes) / float64(b.rawBytes)
	}
	return fmt.Sprintf("%d bytes raw, %d bytes compressed (%.3f)", b.rawBytes, b.compressedBytes, ratio)
}

type countingDiscard struct {
	n int64
}

func (c *countingDiscard) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

func zstdBaseline(name string) (baseline, error) {
	in, err := os.Open(name)
	if err != nil {
		return baseline{}, err
	}
	defer in.Close()

	var sink countingDiscard
	enc, err := zstd.NewWriter(
		&sink,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return baseline{}, fmt.Errorf("zstd encode: %w", err)
	}

	n, err := io.Copy(enc, in)
	if err != nil {
		enc.Close()
		return baseline{}, fmt.Errorf("zstd encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return baseline{}, fmt.Errorf("zstd encode: %w", err)
	}
	return baseline{rawBytes: n, compressedBytes: sink.n}, nil
}
