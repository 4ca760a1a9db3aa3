// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command ipsetdot reads a binary IP set and writes a GraphViz rendering of
// its underlying decision diagram.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/redjack/ipset"
)

var (
	inputFile  = pflag.StringP("input", "i", "-", `input file ("-" for stdin)`)
	outputFile = pflag.StringP("output", "o", "-", `output file ("-" for stdout)`)
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ipsetdot [flags]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	in, closeIn, err := openInput(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	defer closeIn()

	store := ipset.NewStore()
	defer store.Close()

	set, err := ipset.LoadSet(in, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot load set: %s\n", err)
		os.Exit(1)
	}

	out, closeOut, err := openOutput(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	defer closeOut()

	writer := bufio.NewWriter(out)
	if err := ipset.WriteDot(writer, set.Root(), set.Store()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: cannot write dot output: %s\n", err)
		os.Exit(1)
	}
	writer.Flush()
}

func openInput(filename string) (*os.File, func(), error) {
	if filename == "-" || filename == "" {
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
