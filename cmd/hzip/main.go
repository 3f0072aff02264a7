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

var log = logging.MustGetLogger("hzip/cli")

const progName = "hzip"
const suffix = ".hz"
const usageMessageRaw = `
Usage: hzip [OPTIONS] FILE

Compresses FILE into FILE.hz, or with -d, decompresses FILE.hz into FILE.

Options:
  --decompress, -d
	Decompress instead of compressing.
  --output PATH, -o PATH
	Write to PATH instead of the default output name.
  --compare, -c
	Also report the size zstd would produce for the same input.
  --buffer BYTES
	Size of the bit layer's internal buffer.
  --debug, -v
	Log every session and tree to standard error.
`

var ourFlags *flag.FlagSet

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

var leveledLogBackend logging.LeveledBackend

func startLogging() {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatSpec := "%{level:8s} %{module:-12s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	leveledLogBackend = leveled
}

// defaultOutput picks the output name for inName when -o is not given.
func defaultOutput(inName string, decompress bool) (string, error) {
	if !decompress {
		return inName + suffix, nil
	}
	if !strings.HasSuffix(inName, suffix) || len(inName) == len(suffix) {
		return "", fmt.Errorf("%s: expected a %s suffix; use -o to name the output", inName, suffix)
	}
	return strings.TrimSuffix(inName, suffix), nil
}

func main() {
	startLogging()

	ourFlags = flag.NewFlagSet(progName, flag.ContinueOnError)
	ourFlags.Usage = func() {}
	ourFlags.SetOutput(&nullWriter{})

	// Usage strings are hardcoded above.

	var decompress, compare, debugLogging bool
	var outName string
	var bufferSize int
	ourFlags.BoolVar(&decompress, "decompress", false, "")
	ourFlags.BoolVar(&decompress, "d", false, "")
	ourFlags.StringVar(&outName, "output", "", "")
	ourFlags.StringVar(&outName, "o", "", "")
	ourFlags.BoolVar(&compare, "compare", false, "")
	ourFlags.BoolVar(&compare, "c", false, "")
	ourFlags.IntVar(&bufferSize, "buffer", hzip.DefaultBufferSize, "")
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
		leveledLogBackend.SetLevel(logging.DEBUG, "")
	}

	if ourFlags.NArg() != 1 {
		usageErrorf("expected exactly one FILE, got %d arguments", ourFlags.NArg())
	}
	if bufferSize <= 0 {
		usageErrorf("--buffer must be positive, got %d", bufferSize)
	}
	inName := ourFlags.Arg(0)

	if outName == "" {
		var err error
		if outName, err = defaultOutput(inName, decompress); err != nil {
			exitError(err)
		}
	}

	opts := []hzip.Option{hzip.WithBufferSize(bufferSize)}
	var stats hzip.Stats
	var err error
	if decompress {
		stats, err = hzip.DecodeFile(inName, outName, opts...)
	} else {
		stats, err = hzip.EncodeFile(inName, outName, opts...)
	}
	if err != nil {
		os.Remove(outName)
		exitError(err)
	}
	log.Infof("%s → %s: %v", inName, outName, stats)

	if compare {
		rawName := inName
		if decompress {
			rawName = outName
		}
		zb, err := zstdBaseline(rawName)
		if err != nil {
			exitError(err)
		}
		log.Infof("zstd baseline: %v", zb)
	}
}
