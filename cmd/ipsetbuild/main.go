// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command ipsetbuild reads one or more address-list text files and writes a
// single binary IP set.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/redjack/ipset"
	"github.com/redjack/ipset/internal/ipsettext"
)

var (
	outputFile = pflag.StringP("output", "o", "-", `output file ("-" for stdout)`)
	looseCIDR  = pflag.BoolP("loose-cidr", "l", false, "allow non-zero host bits in network lines")
	verbose    = pflag.BoolP("verbose", "v", false, "log progress to stderr")
	quiet      = pflag.BoolP("quiet", "q", false, "suppress progress output")
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ipsetbuild [flags] INPUT-FILE...\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: you need to specify at least one input file")
		pflag.Usage()
		os.Exit(1)
	}

	ipset.SetDebug(*verbose, ipset.LogTrace)

	store := ipset.NewStore()
	defer store.Close()
	set := ipset.NewSet(store)

	// A malformed line, or one that fails to apply, is printed and skipped
	// so the rest of the input still builds the set; the run's exit code
	// still reflects that something went wrong.
	hadError := false
	for _, filename := range pflag.Args() {
		if err := readFile(set, filename, &hadError); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			hadError = true
		}
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Set uses %d bytes of memory.\n", set.MemorySize())
	}

	out, closeOut, err := openOutput(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	defer closeOut()

	if err := ipset.SaveSet(out, set); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot save set: %s\n", err)
		os.Exit(1)
	}

	if hadError {
		os.Exit(1)
	}
}

func readFile(set *ipset.Set, filename string, hadError *bool) error {
	in, closeIn, err := openInput(filename)
	if err != nil {
		return err
	}
	defer closeIn()

	count := 0
	err = ipsettext.Scan(in, func(line ipsettext.Line) error {
		var changeErr error
		switch {
		case line.IsNetwork && line.Op == ipsettext.OpAdd:
			_, changeErr = set.AddPrefix(line.Network, *looseCIDR)
		case line.IsNetwork && line.Op == ipsettext.OpRemove:
			_, changeErr = set.RemovePrefix(line.Network, *looseCIDR)
		case line.Op == ipsettext.OpAdd:
			_, changeErr = set.AddAddr(line.Addr)
		default:
			_, changeErr = set.RemoveAddr(line.Addr)
		}
		if changeErr != nil {
			return changeErr
		}
		count++
		return nil
	}, func(lineNumber int, text string, lineErr error) {
		fmt.Fprintf(os.Stderr, "%s:%d: %q: %s\n", filename, lineNumber, text, lineErr)
		*hadError = true
	})
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Read %d lines from %s.\n", count, filename)
	}
	return nil
}

func openInput(filename string) (*os.File, func(), error) {
	if filename == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s: %w", filename, err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(filename string) (*os.File, func(), error) {
	if filename == "-" || filename == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create %s: %w", filename, err)
	}
	return f, func() { f.Close() }, nil
}
