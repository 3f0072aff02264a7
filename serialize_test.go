package hzip

import (
	"bufio"
	"bytes"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"testing"
)

func serializeToString(t *testing.T, root *Node) (string, int) {
	t.Helper()
	var buf bytes.Buffer
	n, err := root.Serialize(&buf)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	return buf.String(), n
}

func TestSerialize(t *testing.T) {
	type testRow struct {
		input   string
		expect  string
		visited int
	}

	testData := [...]testRow{
		{input: "", expect: "##", visited: 0},
		{input: "aaab", expect: "#1 98,3 97,#", visited: 3},
		{input: "zzzz", expect: "#-1 0,4 122,#", visited: 3},
		{input: "aaabcc", expect: "#3 97,1 98,2 99,#", visited: 5},
	}
	for _, row := range testData {
		t.Run(row.input, func(t *testing.T) {
			root := mustBuildTree(t, row.input)
			actual, visited := serializeToString(t, root)
			if actual != row.expect {
				t.Errorf("wrong output:\n\texpect: %q\n\tactual: %q", row.expect, actual)
			}
			if visited != row.visited {
				t.Errorf("expected %d nodes visited, got %d", row.visited, visited)
			}
		})
	}
}

func TestDeserialize_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(queueSeed + 2))

	tables := []*FrequencyTable{
		NewFrequencyTable(),
		FrequenciesOf([]byte("aaab")),
		FrequenciesOf([]byte("zzzz")),
		FrequenciesOf([]byte("the quick brown fox jumps over the lazy dog")),
	}
	for i := 0; i < 50; i++ {
		tables = append(tables, randomTable(rng))
	}

	for i, table := range tables {
		expect, err := BuildTree(table)
		if err != nil {
			t.Fatalf("table %d: BuildTree failed: %v", i, err)
		}
		raw, _ := serializeToString(t, expect)

		actual, err := DeserializeTree(strings.NewReader(raw))
		if err != nil {
			t.Errorf("table %d: DeserializeTree(%q) failed: %v", i, raw, err)
			continue
		}
		if !expect.Equal(actual) {
			t.Errorf("table %d: rebuilt tree differs for %q", i, raw)
		}
		if expect.Depth() != actual.Depth() {
			t.Errorf("table %d: expected depth %d, got %d", i, expect.Depth(), actual.Depth())
		}
	}
}

func TestDeserialize_LeavesTrailingInput(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("#1 98,3 97,#rest"))
	if _, err := DeserializeTree(r); err != nil {
		t.Fatalf("DeserializeTree failed: %v", err)
	}
	rest, _ := r.ReadString(0)
	if rest != "rest" {
		t.Errorf("expected %q left unread, got %q", "rest", rest)
	}
}

func TestDeserialize_LoneLeaf(t *testing.T) {
	// A lone leaf without its placeholder gets one from the merge.
	root, err := DeserializeTree(strings.NewReader("#4 122,#"))
	if err != nil {
		t.Fatalf("DeserializeTree failed: %v", err)
	}
	if expect := mustBuildTree(t, "zzzz"); !expect.Equal(root) {
		t.Error("expected the same tree as for \"zzzz\"")
	}
}

func TestDeserialize_Malformed(t *testing.T) {
	type testRow struct {
		name   string
		input  string
		offset int64
	}

	testData := [...]testRow{
		{"empty input", "", 0},
		{"missing opening delimiter", "1 98,#", 1},
		{"missing closing delimiter", "#1 98,3 97,", 11},
		{"truncated record", "#1 9", 4},
		{"missing symbol", "#1 ,#", 4},
		{"missing separator", "#1,98,#", 3},
		{"letters", "#x 98,#", 2},
		{"symbol out of range", "#1 256,#", 7},
		{"negative symbol", "#1 -1,#", 6},
		{"zero count", "#0 98,#", 6},
		{"count below placeholder", "#-2 98,#", 7},
		{"duplicate symbol", "#1 98,2 98,#", 11},
		{"two placeholders", "#-1 0,-1 0,#", 11},
		{"placeholder without leaf", "#-1 0,#", 7},
		{"placeholder with two leaves", "#-1 0,1 97,2 98,#", 17},
		{"integer overflow", "#99999999999999999999 1,#", 20},
		{"sum overflow", "#9223372036854775807 1,1 2,#", 27},
		{"trailing comma missing", "#1 98#", 6},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			root, err := DeserializeTree(strings.NewReader(row.input))
			if root != nil {
				t.Errorf("expected no tree, got %d nodes", root.Size())
			}
			if !errors.Is(err, ErrMalformedTree) {
				t.Fatalf("expected ErrMalformedTree, got %v", err)
			}
			var tfe *TreeFormatError
			if !errors.As(err, &tfe) {
				t.Fatalf("expected *TreeFormatError, got %T", err)
			}
			if tfe.Offset != row.offset {
				t.Errorf("expected offset %d, got %d (%v)", row.offset, tfe.Offset, err)
			}
		})
	}
}

func TestDeserialize_TooManyLeaves(t *testing.T) {
	var sb strings.Builder
	sb.WriteByte('#')
	for i := 0; i < NumSymbols; i++ {
		sb.WriteString("1 ")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteByte(',')
	}
	if _, err := DeserializeTree(strings.NewReader(sb.String() + "#")); err != nil {
		t.Fatalf("256 leaves should be accepted: %v", err)
	}

	// A 257th record can only repeat a symbol, so it fails either way.
	_, err := DeserializeTree(strings.NewReader(sb.String() + "1 0,#"))
	if !errors.Is(err, ErrMalformedTree) {
		t.Errorf("expected ErrMalformedTree, got %v", err)
	}
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write(p []byte) (int, error) {
	return 0, w.err
}

func TestSerialize_WriteError(t *testing.T) {
	boom := errors.New("boom")
	_, err := mustBuildTree(t, "aaab").Serialize(failingWriter{boom})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}
