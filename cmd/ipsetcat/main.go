// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command ipsetcat reads a binary IP set and prints its contents, one
// address or network per line.
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
	networks   = pflag.BoolP("networks", "n", false, "summarize contents as CIDR networks")
	quiet      = pflag.BoolP("quiet", "q", false, "suppress progress output")
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ipsetcat [flags]\n\n")
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

	outFile, closeOut, err := openOutput(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	defer closeOut()

	if !*quiet && *outputFile != "-" && *outputFile != "" {
		fmt.Fprintf(os.Stderr, "Writing to file %s...\n", *outputFile)
	}

	out := bufio.NewWriter(outFile)
	defer out.Flush()

	count := 0
	if *networks {
		it := set.IterateNetworks(true)
		for it.Next() {
			fmt.Fprintln(out, it.Prefix())
			count++
		}
	} else {
		it := set.Iterate(true)
		for it.Next() {
			fmt.Fprintln(out, it.Addr())
			count++
		}
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Wrote %d records.\n", count)
	}
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
