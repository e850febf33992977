package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/wit-codec/codec"
	"github.com/wippyai/wit-codec/frame"
	"github.com/wippyai/wit-codec/wasmmem"
)

func main() {
	var (
		typeExpr = pflag.StringP("type", "t", "", "WIT type expression, e.g. 'list<u32>' or 'option<string>'")
		inPath   = pflag.StringP("in", "i", "-", "input file, - for stdin")
		outPath  = pflag.StringP("out", "o", "-", "output file, - for stdout")
		compress = pflag.StringP("compress", "c", "none", "frame compression: none, s2, zstd, lz4")
		verbose  = pflag.BoolP("verbose", "v", false, "enable debug logging")
	)
	pflag.Usage = usage
	pflag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			wasmmem.SetLogger(log)
		}
	}

	if pflag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd := pflag.Arg(0); cmd {
	case "encode":
		err = runEncode(*typeExpr, *inPath, *outPath, *compress)
	case "decode":
		err = runDecode(*typeExpr, *inPath, *outPath)
	case "inspect":
		err = runInspect(*inPath, *outPath)
	case "view":
		err = runView(*typeExpr, *inPath)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: witcodec -t <wit-type> [flags] encode|decode|view")
	fmt.Fprintln(os.Stderr, "       witcodec [flags] inspect")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  encode   read a JSON value, write a frame file")
	fmt.Fprintln(os.Stderr, "  decode   read a frame file, write the JSON value")
	fmt.Fprintln(os.Stderr, "  inspect  show frame header and hex dump")
	fmt.Fprintln(os.Stderr, "  view     interactive frame browser")
	fmt.Fprintln(os.Stderr, "")
	pflag.PrintDefaults()
}

func compileType(expr string) (*codec.Type, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("a WIT type is required (-t)")
	}
	wt, err := wit.ParseType(strings.TrimSpace(expr))
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", expr, err)
	}
	return codec.Compile(wt)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func runEncode(typeExpr, inPath, outPath, compressName string) error {
	ct, err := compileType(typeExpr)
	if err != nil {
		return err
	}
	comp, err := frame.ParseCompression(compressName)
	if err != nil {
		return err
	}
	raw, err := readInput(inPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var val any
	if err := json.Unmarshal(raw, &val); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	enc, err := codec.LowerEncoded(val, ct, codec.Dyn{})
	if err != nil {
		return err
	}
	data, err := frame.Encode(enc, comp)
	if err != nil {
		return err
	}
	return writeOutput(outPath, data)
}

func runDecode(typeExpr, inPath, outPath string) error {
	ct, err := compileType(typeExpr)
	if err != nil {
		return err
	}
	raw, err := readInput(inPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	enc, err := frame.Decode(raw)
	if err != nil {
		return err
	}
	val, _, err := codec.LiftEncoded(enc, ct, codec.Dyn{})
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}
	return writeOutput(outPath, append(out, '\n'))
}
