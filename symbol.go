package hzip

import (
	"fmt"
	"io"
)

// NumSymbols is the size of the byte alphabet.
const NumSymbols = 256

// PlaceholderCount is the frequency carried by the synthetic leaf that is
// injected when the input holds exactly one distinct byte value.  It is
// smaller than any real frequency, so the placeholder always sorts first.
const PlaceholderCount = -1

// Frequency pairs a byte value with the number of times it occurred.
type Frequency struct {
	Symbol byte
	Count  int64
}

// String returns the string representation of this Frequency.
func (f Frequency) String() string {
	return fmt.Sprintf("%d×%q", f.Count, rune(f.Symbol))
}

var _ fmt.Stringer = Frequency{}

// FrequencyTable holds one Frequency for each byte value.  Entry i always has
// Symbol == i.
type FrequencyTable [NumSymbols]Frequency

// NewFrequencyTable returns a table with every count set to zero.
func NewFrequencyTable() *FrequencyTable {
	table := new(FrequencyTable)
	for i := range table {
		table[i].Symbol = byte(i)
	}
	return table
}

// Add counts every byte of p.
func (table *FrequencyTable) Add(p []byte) {
	for _, b := range p {
		table[b].Count++
	}
}

// Distinct returns the number of byte values with a nonzero count.
func (table *FrequencyTable) Distinct() int {
	var n int
	for _, f := range table {
		if f.Count != 0 {
			n++
		}
	}
	return n
}

// Total returns the sum of all counts.
func (table *FrequencyTable) Total() int64 {
	var sum int64
	for _, f := range table {
		sum += f.Count
	}
	return sum
}

// Write implements io.Writer, so that a FrequencyTable can sit at the end of
// io.Copy.
func (table *FrequencyTable) Write(p []byte) (int, error) {
	table.Add(p)
	return len(p), nil
}

var _ io.Writer = (*FrequencyTable)(nil)

// FrequenciesOf counts the bytes of data.
func FrequenciesOf(data []byte) *FrequencyTable {
	table := NewFrequencyTable()
	table.Add(data)
	return table
}

// CountFrequencies reads r until EOF and counts every byte.
func CountFrequencies(r io.Reader) (*FrequencyTable, error) {
	table := NewFrequencyTable()
	if _, err := io.Copy(table, r); err != nil {
		return nil, fmt.Errorf("hzip: counting frequencies: %w", err)
	}
	return table, nil
}
