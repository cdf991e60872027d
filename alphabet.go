package moga

import "log"

// DNAAll is the indexed alphabet of the BWT and FM-index, in byte-sorted
// order so that symbol ranks agree with the ordering used to sort
// suffixes: $ < A < C < G < N < T.
const DNAAll = "$ACGNT"

// AlphabetSize is the number of indexed symbols.
const AlphabetSize = len(DNAAll)

var dnaRanks [256]int8

func init() {
	for i := range dnaRanks {
		dnaRanks[i] = -1
	}
	for i := 0; i < len(DNAAll); i++ {
		dnaRanks[DNAAll[i]] = int8(i)
	}
}

// DNARank maps an alphabet symbol to its rank in DNAAll.
func DNARank(c byte) int {
	r := dnaRanks[c]
	if r < 0 {
		log.Panicf("Symbol %q is not in the DNA alphabet.", c)
	}
	return int(r)
}

// DNAChar is the inverse of DNARank.
func DNAChar(rank int) byte {
	return DNAAll[rank]
}

// DNAComplement returns the Watson-Crick complement of a nucleotide.
// N complements to itself.
func DNAComplement(c byte) byte {
	switch c {
	case 'A':
		return 'T'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	case 'T':
		return 'A'
	case 'N':
		return 'N'
	}
	log.Panicf("Cannot complement symbol %q.", c)
	panic("unreachable")
}

// ReverseComplement returns the reverse complement of a nucleotide
// sequence.
func ReverseComplement(seq string) string {
	rc := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		rc[len(seq)-1-i] = DNAComplement(seq[i])
	}
	return string(rc)
}
