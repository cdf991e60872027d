package moga

import "log"

// Marker spacing. Large markers are rare but absolute; small markers
// are dense 16-bit deltas against the preceding large marker. The
// large rate bounds the spread a delta must cover, so 16 bits hold it
// with margin.
const (
	DefaultSampleRateLarge = 8192
	DefaultSampleRateSmall = 128
)

// LargeMarker stores, for one sampled BWT position, the index of the
// next run unit to process and the absolute cumulative count of every
// alphabet symbol.
type LargeMarker struct {
	UnitIndex uint64
	Counts    [AlphabetSize]uint64
}

// Total returns the number of BWT symbols counted by the marker.
func (m *LargeMarker) Total() uint64 {
	total := uint64(0)
	for _, n := range m.Counts {
		total += n
	}
	return total
}

// SmallMarker stores the same quantities as deltas from the nearest
// preceding LargeMarker.
type SmallMarker struct {
	UnitIndex uint16
	Counts    [AlphabetSize]uint16
}

// FMIndex answers Occ rank queries over a run-length BWT through a
// two-level sampled marker table.
type FMIndex struct {
	bwt        *BWT
	sampleRate int
	lmarkers   []LargeMarker
	smarkers   []SmallMarker
	pred       [AlphabetSize]uint64
}

// NewFMIndex builds the marker tables for bwt. sampleRate is the small
// marker spacing; it must be a power of two no larger than the large
// rate.
func NewFMIndex(bwt *BWT, sampleRate int) *FMIndex {
	if sampleRate < 2 || sampleRate&(sampleRate-1) != 0 || sampleRate > DefaultSampleRateLarge {
		log.Panicf("Sample rate %d is not a power of two in [2, %d].",
			sampleRate, DefaultSampleRateLarge)
	}
	fm := &FMIndex{bwt: bwt, sampleRate: sampleRate}
	fm.initialize()
	return fm
}

// markersFor sizes a marker list: one blank marker at the start, one
// per crossed sample boundary, and a final marker carrying the grand
// totals when the length is not a multiple of the rate.
func markersFor(n, sampleRate int) int {
	if n%sampleRate == 0 {
		return n/sampleRate + 1
	}
	return n/sampleRate + 2
}

// initialize walks the run stream once, dropping markers after the run
// that crosses each sample boundary ends, and derives the predecessor
// counts from the final totals.
func (fm *FMIndex) initialize() {
	n := fm.bwt.Length()
	fm.lmarkers = make([]LargeMarker, markersFor(n, DefaultSampleRateLarge))
	fm.smarkers = make([]SmallMarker, markersFor(n, fm.sampleRate))

	var counts [AlphabetSize]uint64
	total := 0

	lIdx, lNext := 1, DefaultSampleRateLarge
	sIdx, sNext := 1, fm.sampleRate

	placeLarge := func(unitIndex int) {
		if lIdx >= len(fm.lmarkers) {
			log.Panicf("Large marker index %d out of range.", lIdx)
		}
		marker := &fm.lmarkers[lIdx]
		lIdx++
		marker.UnitIndex = uint64(unitIndex)
		marker.Counts = counts
		lNext += DefaultSampleRateLarge
	}
	placeSmall := func(unitIndex int) {
		if sIdx >= len(fm.smarkers) {
			log.Panicf("Small marker index %d out of range.", sIdx)
		}
		// The large marker the deltas refer to is already placed:
		// large markers are always filled first.
		expectedPos := sIdx * fm.sampleRate
		lmarker := &fm.lmarkers[expectedPos/DefaultSampleRateLarge]
		smarker := &fm.smarkers[sIdx]
		sIdx++
		for k := range smarker.Counts {
			smarker.Counts[k] = uint16(counts[k] - lmarker.Counts[k])
		}
		smarker.UnitIndex = uint16(uint64(unitIndex) - lmarker.UnitIndex)
		sNext += fm.sampleRate
	}

	runs := fm.bwt.runs
	for i, run := range runs {
		counts[DNARank(run.Char())] += uint64(run.Count())
		total += run.Count()

		for total >= lNext {
			placeLarge(i + 1)
		}
		for total >= sNext {
			placeSmall(i + 1)
		}
	}
	// The lists end with one marker past the data carrying the grand
	// totals whenever the length is not a multiple of the rate.
	for lIdx < len(fm.lmarkers) {
		placeLarge(len(runs))
	}
	for sIdx < len(fm.smarkers) {
		placeSmall(len(runs))
	}

	fm.pred[0] = 0
	for r := 1; r < AlphabetSize; r++ {
		fm.pred[r] = fm.pred[r-1] + counts[r-1]
	}
}

// marker reconstructs an absolute marker near position i by summing
// the nearest small marker's deltas into its large marker.
func (fm *FMIndex) marker(i int) LargeMarker {
	baseIdx := i / fm.sampleRate
	if i%fm.sampleRate >= fm.sampleRate/2 {
		baseIdx++
	}
	if baseIdx >= len(fm.smarkers) {
		log.Panicf("Marker index %d out of range for position %d.", baseIdx, i)
	}

	absolute := fm.lmarkers[baseIdx*fm.sampleRate/DefaultSampleRateLarge]
	relative := &fm.smarkers[baseIdx]
	for k := range absolute.Counts {
		absolute.Counts[k] += uint64(relative.Counts[k])
	}
	absolute.UnitIndex += uint64(relative.UnitIndex)
	return absolute
}

// Occ returns the number of occurrences of c in the BWT prefix of
// length i+1. Occ(c, -1) is 0.
func (fm *FMIndex) Occ(c byte, i int) int {
	// Marker counts are exclusive of the marker position.
	i++

	marker := fm.marker(i)
	position := int(marker.Total())
	r := int(marker.Counts[DNARank(c)])
	currIdx := int(marker.UnitIndex)

	runs := fm.bwt.runs
	for position < i {
		run := runs[currIdx]
		currIdx++
		n := run.Count()
		if delta := i - position; n > delta {
			n = delta
		}
		if run.Char() == c {
			r += n
		}
		position += n
	}
	for position > i {
		currIdx--
		run := runs[currIdx]
		n := run.Count()
		if delta := position - i; n > delta {
			n = delta
		}
		if run.Char() == c {
			r -= n
		}
		position -= n
	}
	if position != i {
		log.Panicf("Rank walk stopped at %d; want %d.", position, i)
	}

	return r
}

// PredCount returns C(c): the number of BWT symbols strictly smaller
// than c.
func (fm *FMIndex) PredCount(c byte) int {
	return int(fm.pred[DNARank(c)])
}

// BackwardSearch returns the half-open interval [l, u) of BWT rows
// whose suffixes start with pattern. An empty interval means no match.
func (fm *FMIndex) BackwardSearch(pattern []byte) (int, int) {
	if len(pattern) == 0 {
		return 0, fm.bwt.Length()
	}
	c := pattern[len(pattern)-1]
	l := fm.PredCount(c)
	u := fm.PredCount(c) + fm.Occ(c, fm.bwt.Length()-1)
	for k := len(pattern) - 2; k >= 0 && l < u; k-- {
		c = pattern[k]
		l = fm.PredCount(c) + fm.Occ(c, l-1)
		u = fm.PredCount(c) + fm.Occ(c, u-1)
	}
	return l, u
}

// Info logs a summary of the marker tables.
func (fm *FMIndex) Info() {
	runs := fm.bwt.runs
	perRun := 0.0
	if len(runs) > 0 {
		perRun = float64(fm.bwt.Length()) / float64(len(runs))
	}
	Vprintln("FMIndex info:")
	Vprintf("Large sample rate: %d\n", DefaultSampleRateLarge)
	Vprintf("Small sample rate: %d\n", fm.sampleRate)
	Vprintf("Contains %d symbols in %d runs (%1.4f symbols per run)\n",
		fm.bwt.Length(), len(runs), perRun)
	Vprintf("Markers -- small: %d large: %d\n", len(fm.smarkers), len(fm.lmarkers))
}
