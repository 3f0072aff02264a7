package hzip

import (
	"errors"
	"testing"
)

func TestDecoder_Decode(t *testing.T) {
	d, err := NewDecoder(makeTestTree(t))
	if err != nil {
		t.Fatalf("NewDecoder failed: %v", err)
	}

	type testRow struct {
		bits   []int
		symbol byte
	}

	testData := [...]testRow{
		{bits: []int{0}, symbol: 5},
		{bits: []int{1, 0, 0}, symbol: 2},
		{bits: []int{1, 0, 1}, symbol: 3},
		{bits: []int{1, 1, 1}, symbol: 4},
		{bits: []int{1, 1, 0, 0}, symbol: 0},
		{bits: []int{1, 1, 0, 1}, symbol: 1},
	}
	for _, row := range testData {
		for i, bit := range row.bits {
			symbol, done, err := d.Decode(bit)
			if err != nil {
				t.Fatalf("%v: Decode failed: %v", row.bits, err)
			}
			last := i == len(row.bits)-1
			if done != last {
				t.Fatalf("%v: bit %d: expected done=%v, got %v", row.bits, i, last, done)
			}
			if done && symbol != row.symbol {
				t.Errorf("%v: expected symbol %d, got %d", row.bits, row.symbol, symbol)
			}
		}
		if !d.AtRoot() {
			t.Errorf("%v: expected Decoder back at the root", row.bits)
		}
	}
}

func TestDecoder_Reset(t *testing.T) {
	d, _ := NewDecoder(makeTestTree(t))
	_, _, _ = d.Decode(1)
	if d.AtRoot() {
		t.Fatal("expected Decoder inside a code")
	}
	d.Reset()
	if !d.AtRoot() {
		t.Error("expected Decoder at the root after Reset")
	}
}

func TestDecoder_Placeholder(t *testing.T) {
	d, err := NewDecoder(mustBuildTree(t, "zzzz"))
	if err != nil {
		t.Fatal(err)
	}
	if symbol, done, err := d.Decode(1); err != nil || !done || symbol != 'z' {
		t.Errorf("expected 'z', got %q done=%v err=%v", symbol, done, err)
	}
	if _, _, err := d.Decode(0); !errors.Is(err, ErrCorruptPayload) {
		t.Errorf("expected ErrCorruptPayload on the placeholder edge, got %v", err)
	}
}

func TestDecoder_NoEdges(t *testing.T) {
	if _, err := NewDecoder(nil); !errors.Is(err, ErrMalformedTree) {
		t.Errorf("nil tree: expected ErrMalformedTree, got %v", err)
	}
	if _, err := NewDecoder(NewLeaf(Frequency{Symbol: 1, Count: 1})); !errors.Is(err, ErrMalformedTree) {
		t.Errorf("bare leaf: expected ErrMalformedTree, got %v", err)
	}
}

func TestDecoder_String(t *testing.T) {
	d, _ := NewDecoder(makeTestTree(t))

	expectString := "(Huffman decoder with 6 symbols, tree depth 4)"
	actualString := d.String()
	if expectString != actualString {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectString, actualString)
	}
}
