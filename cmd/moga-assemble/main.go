package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/chungongyu/moga"
)

var (
	flagMinOverlap  int
	flagMaxEdges    int
	flagMinLength   int
	flagMaxDistance int
	flagOutput      string
	flagVerbose     bool
)

func init() {
	flag.IntVar(&flagMinOverlap, "min-overlap", moga.DefaultAssembleConf.MinOverlap,
		"The minimum overlap length for an edge to enter the graph.")
	flag.IntVar(&flagMaxEdges, "max-edges", moga.DefaultAssembleConf.MaxEdges,
		"The per-vertex degree cap; denser vertices get no new edges.")
	flag.IntVar(&flagMinLength, "min-length", moga.DefaultAssembleConf.MinLength,
		"The sequence length below which tips, islands and chimeras are trimmed.")
	flag.IntVar(&flagMaxDistance, "max-distance", moga.DefaultAssembleConf.MaxDistance,
		"The overlap-length slack when comparing competing edges.")
	flag.StringVar(&flagOutput, "out", "contigs.fa",
		"The output FASTA file of assembled unitigs.")
	flag.BoolVar(&flagVerbose, "verbose", false,
		"Print progress and per-visitor summaries.")
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
	}
	moga.Verbose = flagVerbose

	conf := *moga.DefaultAssembleConf
	conf.MinOverlap = flagMinOverlap
	conf.MaxEdges = flagMaxEdges
	conf.MinLength = flagMinLength
	conf.MaxDistance = flagMaxDistance

	g := moga.NewBigraph()
	if err := moga.LoadASQGFile(flag.Arg(0), &conf, g); err != nil {
		fatalf("Failed to load %s: %s\n", flag.Arg(0), err)
	}

	stats := &moga.StatisticsVisitor{}
	g.Visit(stats)

	// Containment removal can expose new containments; repeat until
	// the graph reports none.
	for g.Containment() {
		g.Visit(&moga.ContainRemoveVisitor{})
	}

	g.Visit(&moga.TrimVisitor{MinLength: conf.MinLength})
	g.Visit(&moga.MaximalOverlapVisitor{Delta: conf.MaxDistance})
	g.Visit(&moga.ChimericVisitor{MinLength: conf.MinLength, Delta: conf.MaxDistance})

	g.Simplify()
	g.Visit(stats)

	out, err := os.Create(flagOutput)
	if err != nil {
		fatalf("Failed to create %s: %s\n", flagOutput, err)
	}
	defer out.Close()

	buf := bufio.NewWriter(out)
	fv := &moga.FastaVisitor{W: buf}
	g.Visit(fv)
	if fv.Err() != nil {
		fatalf("Failed to write %s: %s\n", flagOutput, fv.Err())
	}
	if err := buf.Flush(); err != nil {
		fatalf("Failed to write %s: %s\n", flagOutput, err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] reads.asqg[.gz]\n", os.Args[0])
	moga.PrintFlagDefaults()
	os.Exit(1)
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
	os.Exit(1)
}
