package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/danmuck/benc"
	"github.com/danmuck/benc/internal/logging"
)

// options carries the parsed command line.
type options struct {
	path      string
	asJSON    bool
	remainder bool
	maxDepth  int
}

func main() {
	var opts options
	flag.BoolVar(&opts.asJSON, "json", false, "render the decoded value as indented JSON")
	flag.BoolVar(&opts.remainder, "remainder", false, "tolerate trailing bytes and report how many were left")
	flag.IntVar(&opts.maxDepth, "depth", 0, "maximum nesting depth, 0 selects the default")
	flag.Parse()

	logging.ConfigureRuntime()

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "bencctl: expected at most one input file")
		os.Exit(2)
	}
	if flag.NArg() == 1 {
		opts.path = flag.Arg(0)
	}

	if err := run(os.Stdout, os.Stdin, opts); err != nil {
		fmt.Fprintf(os.Stderr, "bencctl: %v\n", err)
		os.Exit(1)
	}
}

// run decodes one value from the file named in opts (stdin when the
// name is empty or "-") and renders it to out. Trailing bytes after the
// first value fail the run unless opts.remainder is set.
func run(out io.Writer, stdin io.Reader, opts options) error {
	data, err := readInput(stdin, opts.path)
	if err != nil {
		return err
	}

	limits := benc.DefaultLimits()
	if opts.maxDepth > 0 {
		limits.MaxDepth = opts.maxDepth
	}
	v, rest, err := benc.DecodeWithLimits(data, limits)
	if err != nil {
		return err
	}
	if len(rest) > 0 && !opts.remainder {
		return &benc.SyntaxError{Offset: len(data) - len(rest), Err: benc.ErrTrailingData}
	}

	if opts.asJSON {
		enc, err := json.MarshalIndent(jsonTree(v), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(enc))
	} else {
		fmt.Fprintln(out, v.String())
	}
	if len(rest) > 0 {
		fmt.Fprintf(os.Stderr, "bencctl: %d trailing bytes after first value\n", len(rest))
	}
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// jsonTree maps a decoded value onto JSON-encodable Go values. Byte
// strings render as text when valid UTF-8 and as base64 otherwise.
func jsonTree(v benc.Value) any {
	switch v.Kind() {
	case benc.KindInteger:
		n, _ := v.AsInt()
		return n
	case benc.KindString:
		b, _ := v.AsBytes()
		if utf8.Valid(b) {
			return string(b)
		}
		return base64.StdEncoding.EncodeToString(b)
	case benc.KindList:
		elems, _ := v.AsList()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = jsonTree(e)
		}
		return out
	case benc.KindDict:
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			e, _ := v.Get(k)
			out[k] = jsonTree(e)
		}
		return out
	default:
		return nil
	}
}
