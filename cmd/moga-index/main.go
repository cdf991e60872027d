package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chungongyu/moga"
)

var (
	flagOutput     string
	flagSampleRate int
	flagVerbose    bool
)

func init() {
	flag.StringVar(&flagOutput, "out", "reads.bwt",
		"The output BWT file.")
	flag.IntVar(&flagSampleRate, "sample-rate", moga.DefaultSampleRateSmall,
		"The small marker spacing of the FM-index; must be a power of two.")
	flag.BoolVar(&flagVerbose, "verbose", false,
		"Print progress and FM-index statistics.")
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
	}
	moga.Verbose = flagVerbose

	seqChan, err := moga.ReadDNASeqs(flag.Arg(0))
	if err != nil {
		fatalf("Failed to open %s: %s\n", flag.Arg(0), err)
	}
	var sequences []string
	for read := range seqChan {
		if read.Err != nil {
			fatalf("Failed to read %s: %s\n", flag.Arg(0), read.Err)
		}
		sequences = append(sequences, read.Seq)
	}
	moga.Vprintf("Read %d sequences from %s.\n", len(sequences), flag.Arg(0))

	sa := moga.NewSuffixArray(sequences)

	out, err := os.Create(flagOutput)
	if err != nil {
		fatalf("Failed to create %s: %s\n", flagOutput, err)
	}
	writer := moga.NewBWTWriter(out)
	if err := writer.WriteHeader(uint64(sa.Strings()), uint64(sa.Size()), moga.BWFNoFMI); err != nil {
		fatalf("Failed to write %s: %s\n", flagOutput, err)
	}
	bar := moga.ProgressBar{Label: "Writing BWT", Total: uint64(sa.Size())}
	for i := 0; i < sa.Size(); i++ {
		elem := sa.At(i)
		c := byte('$')
		if elem.J > 0 {
			c = sequences[elem.I][elem.J-1]
		}
		if err := writer.WriteChar(c); err != nil {
			fatalf("Failed to write %s: %s\n", flagOutput, err)
		}
		bar.Increment()
		if i%8192 == 0 {
			bar.ClearAndDisplay()
		}
	}
	bar.Done()
	if err := writer.Finalize(); err != nil {
		fatalf("Failed to write %s: %s\n", flagOutput, err)
	}
	if err := out.Close(); err != nil {
		fatalf("Failed to write %s: %s\n", flagOutput, err)
	}

	// Read the file back and build the markers as a sanity pass.
	in, err := os.Open(flagOutput)
	if err != nil {
		fatalf("Failed to open %s: %s\n", flagOutput, err)
	}
	defer in.Close()
	bwt, err := moga.NewBWTReader(in).Read()
	if err != nil {
		fatalf("Failed to read back %s: %s\n", flagOutput, err)
	}
	fm := moga.NewFMIndex(bwt, flagSampleRate)
	fm.Info()
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] reads.fa\n", os.Args[0])
	moga.PrintFlagDefaults()
	os.Exit(1)
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
	os.Exit(1)
}
