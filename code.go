package hzip

import (
	"fmt"
	mathbits "math/bits"
	"strconv"
)

// maxBitsPerCode is the longest code an Encoder can represent.  A tree this
// deep needs a total count above 10^13, so in practice only a hand-crafted
// tree header can hit it.
const maxBitsPerCode = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The least significant bit
	// of Bits is the first bit.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	return Code{Size: size, Bits: bits}
}

// MakeReversedCode constructs a Code from a sequence of bits that's in the
// wrong order, i.e. the least significant bit is the *last* bit in the
// sequence, instead of the first.
func MakeReversedCode(size byte, bits uint64) Code {
	return MakeCode(size, reverseBits(size, bits))
}

// Reversed returns the corresponding Code with the bits in reverse order.
func (hc Code) Reversed() Code {
	return MakeReversedCode(hc.Size, hc.Bits)
}

// Append returns hc with one more bit at the end.
func (hc Code) Append(bit int) Code {
	return Code{Size: hc.Size + 1, Bits: hc.Bits | uint64(bit&1)<<hc.Size}
}

// Bit returns the i'th bit, counting from the first.
func (hc Code) Bit(i byte) int {
	return int(hc.Bits>>i) & 1
}

// String returns the string representation of this Code, first bit first.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	format := "%0" + strconv.FormatUint(uint64(hc.Size), 10) + "b"
	return strconv.Quote(fmt.Sprintf(format, hc.Reversed().Bits))
}

var _ fmt.Stringer = Code{}

func reverseBits(size byte, bits uint64) uint64 {
	if size == 0 {
		return 0
	}
	return mathbits.Reverse64(bits) >> (64 - size)
}
