package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"

	"github.com/chronos-tachyon/hzip"
)

const progName = "treeg"
const usageMessageRaw = `
Usage: treeg [OPTIONS] FILE

Prints the Huffman tree that hzip would build for FILE, one node per line:
leaves as L/symbol/count/depth and internal nodes as I/count/depth.

Options:
  --codes
	Also print the code assigned to every byte value.
  --debug, -v
	Log tree construction to standard error.
`

type nullWriter struct{}

func (n *nullWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func usageMessage() string {
	return strings.TrimLeft(usageMessageRaw, "\n")
}

func usageErrorf(detailFmt string, detailArgs ...interface{}) {
	detail := fmt.Sprintf(detailFmt, detailArgs...)
	fmt.Fprintf(os.Stderr, "%s: %s\n%s", progName, detail, usageMessage())
	os.Exit(64)
}

func exitError(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err.Error())
	os.Exit(1)
}

func main() {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter("%{level:8s} %{module:-12s} | %{message}"))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.WARNING, "")
	logging.SetBackend(leveled)

	ourFlags := flag.NewFlagSet(progName, flag.ContinueOnError)
	ourFlags.Usage = func() {}
	ourFlags.SetOutput(&nullWriter{})

	var showCodes, debugLogging bool
	ourFlags.BoolVar(&showCodes, "codes", false, "")
	ourFlags.BoolVar(&debugLogging, "debug", false, "")
	ourFlags.BoolVar(&debugLogging, "v", false, "")

	argErr := ourFlags.Parse(os.Args[1:])
	if argErr == flag.ErrHelp {
		io.WriteString(os.Stdout, usageMessage())
		os.Exit(0)
	} else if argErr != nil {
		usageErrorf("%s", argErr.Error())
	}
	if debugLogging {
		leveled.SetLevel(logging.DEBUG, "")
	}
	if ourFlags.NArg() != 1 {
		usageErrorf("expected exactly one FILE, got %d arguments", ourFlags.NArg())
	}

	in, err := os.Open(ourFlags.Arg(0))
	if err != nil {
		exitError(err)
	}
	table, err := hzip.CountFrequencies(in)
	in.Close()
	if err != nil {
		exitError(err)
	}

	root, err := hzip.BuildTree(table)
	if err != nil {
		exitError(err)
	}
	if root == nil {
		exitError(fmt.Errorf("%s is empty; there is no tree to print", ourFlags.Arg(0)))
	}

	if _, err := root.Dump(os.Stdout); err != nil {
		exitError(err)
	}

	if showCodes {
		enc, err := hzip.NewEncoder(root)
		if err != nil {
			exitError(err)
		}
		if _, err := enc.Dump(os.Stdout); err != nil {
			exitError(err)
		}
	}
}
