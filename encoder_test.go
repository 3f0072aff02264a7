package hzip

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func makeTestTree(t *testing.T) *Node {
	t.Helper()
	table := NewFrequencyTable()
	for symbol, count := range []int64{5, 9, 12, 13, 16, 45} {
		table[symbol].Count = count
	}
	root, err := BuildTree(table)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	return root
}

func TestEncoder(t *testing.T) {
	e, err := NewEncoder(makeTestTree(t))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	expectDump := strings.Join([]string{
		"Encoder{\n",
		"\tMinSize() = 1\n",
		"\tMaxSize() = 4\n",
		"\tEncode(0) = \"1100\"\n",
		"\tEncode(1) = \"1101\"\n",
		"\tEncode(2) = \"100\"\n",
		"\tEncode(3) = \"101\"\n",
		"\tEncode(4) = \"111\"\n",
		"\tEncode(5) = \"0\"\n",
		"}\n",
	}, "")

	var buf strings.Builder
	_, _ = e.Dump(&buf)
	actualDump := buf.String()

	if expectDump != actualDump {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectDump, actualDump)
	}

	actualSizes := e.SizeBySymbol()[:6]
	expectSizes := []byte{4, 4, 3, 3, 3, 1}
	if !bytes.Equal(expectSizes, actualSizes) {
		t.Errorf("wrong sizes:\n\texpect: %#v\n\tactual: %#v", expectSizes, actualSizes)
	}
	if e.NumCodes() != 6 {
		t.Errorf("expected 6 codes, got %d", e.NumCodes())
	}
	if e.Has(6) {
		t.Error("symbol 6 should have no code")
	}
}

func TestEncoder_TwoSymbols(t *testing.T) {
	table := FrequenciesOf([]byte("aaab"))
	root, _ := BuildTree(table)
	e, err := NewEncoder(root)
	if err != nil {
		t.Fatal(err)
	}

	a, b := e.Encode('a'), e.Encode('b')
	if a.Size > b.Size {
		t.Errorf("expected code for 'a' (%s) no longer than for 'b' (%s)", a, b)
	}
	if a != MakeCode(1, 1) || b != MakeCode(1, 0) {
		t.Errorf("expected a=\"1\" b=\"0\", got a=%s b=%s", a, b)
	}

	// 4 payload bits against 32 raw bits.
	if bits := e.EncodedBits(table); bits != 4 {
		t.Errorf("expected 4 payload bits, got %d", bits)
	}
}

func TestEncoder_SingleSymbol(t *testing.T) {
	root := mustBuildTree(t, "zzzz")
	e, err := NewEncoder(root)
	if err != nil {
		t.Fatal(err)
	}
	if hc := e.Encode('z'); hc != MakeCode(1, 1) {
		t.Errorf("expected \"1\" for 'z', got %s", hc)
	}
	if e.NumCodes() != 1 {
		t.Errorf("placeholder must not get a code; got %d codes", e.NumCodes())
	}
}

func TestEncoder_Empty(t *testing.T) {
	e, err := NewEncoder(nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.NumCodes() != 0 {
		t.Errorf("expected no codes, got %d", e.NumCodes())
	}
}

func TestEncoder_BareLeaf(t *testing.T) {
	_, err := NewEncoder(NewLeaf(Frequency{Symbol: 'x', Count: 1}))
	if !errors.Is(err, ErrMalformedTree) {
		t.Errorf("expected ErrMalformedTree, got %v", err)
	}
}

func TestEncoder_TooLong(t *testing.T) {
	// A comb 70 levels deep.
	root := NewLeaf(Frequency{Symbol: 0, Count: 1})
	for i := 1; i <= 70; i++ {
		root = newInternal(root, NewLeaf(Frequency{Symbol: byte(i), Count: 1}))
	}
	if _, err := NewEncoder(root); !errors.Is(err, ErrCodeTooLong) {
		t.Errorf("expected ErrCodeTooLong, got %v", err)
	}
}

func TestCode_String(t *testing.T) {
	type testRow struct {
		hc     Code
		expect string
	}

	testData := [...]testRow{
		{MakeCode(0, 0), `""`},
		{MakeCode(1, 1), `"1"`},
		{MakeCode(4, 0x3), `"1100"`},
		{MakeReversedCode(4, 0x3), `"0011"`},
		{MakeCode(0, 0).Append(1).Append(0).Append(1).Append(1), `"1011"`},
	}
	for _, row := range testData {
		if actual := row.hc.String(); actual != row.expect {
			t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", row.expect, actual)
		}
	}
}
