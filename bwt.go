package moga

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"
)

// A BWT file is a 0xCACA magic, the string and suffix totals and the
// run count as little-endian u64, a u32 flag, then the packed runs.
const bwtFileMagic uint16 = 0xCACA

// BWFlag is the reserved header flag; only BWFNoFMI is produced.
type BWFlag uint32

const BWFNoFMI BWFlag = 0

const (
	rlCountMask = 0x1F
	rlFullCount = 31
	rlShift     = 5
)

// RLUnit packs a single run into one byte: the symbol rank in the high
// three bits, the run length (1-31) in the low five.
type RLUnit uint8

func NewRLUnit(c byte) RLUnit {
	return RLUnit(DNARank(c)<<rlShift | 1)
}

// Initialized reports whether the unit holds a run at all.
func (u RLUnit) Initialized() bool {
	return u.Count() > 0
}

// Full reports whether the run length has hit the five-bit ceiling.
func (u RLUnit) Full() bool {
	return u.Count() == rlFullCount
}

func (u RLUnit) Count() int {
	return int(u & rlCountMask)
}

func (u RLUnit) Char() byte {
	return DNAChar(int(u >> rlShift))
}

// Increment extends the run by one. The count occupies the low bits,
// so this must not be called on a full unit.
func (u *RLUnit) Increment() {
	*u++
}

// RLString is an ordered sequence of runs; decoded, it is the BWT
// column.
type RLString []RLUnit

// BWT is a run-length encoded Burrows-Wheeler string together with the
// totals of the collection it indexes.
type BWT struct {
	strings  int
	suffixes int
	runs     RLString
}

// NewBWTFromString run-length encodes an already-computed BWT column.
// The string count is taken from the number of terminal symbols.
func NewBWTFromString(s string) *BWT {
	b := &BWT{suffixes: len(s)}
	for i := 0; i < len(s); i++ {
		if s[i] == '$' {
			b.strings++
		}
		last := len(b.runs) - 1
		if last >= 0 && b.runs[last].Char() == s[i] && !b.runs[last].Full() {
			b.runs[last].Increment()
		} else {
			b.runs = append(b.runs, NewRLUnit(s[i]))
		}
	}
	return b
}

func (b *BWT) Strings() int {
	return b.strings
}

// Length returns the number of symbols in the decoded BWT column.
func (b *BWT) Length() int {
	return b.suffixes
}

func (b *BWT) Runs() RLString {
	return b.runs
}

// String decodes the run stream back into the BWT column.
func (b *BWT) String() string {
	var sb strings.Builder
	sb.Grow(b.suffixes)
	for _, run := range b.runs {
		for i := 0; i < run.Count(); i++ {
			sb.WriteByte(run.Char())
		}
	}
	return sb.String()
}

// SAElem addresses a single suffix: the index of the string in the
// collection and the offset of the suffix within it.
type SAElem struct {
	I int
	J int
}

// SuffixArray is the output of a suffix-array builder: the
// lexicographic ordering of every suffix of a string collection, each
// string carrying an implicit terminal $.
type SuffixArray struct {
	strings int
	elems   []SAElem
}

func (sa *SuffixArray) Strings() int {
	return sa.strings
}

func (sa *SuffixArray) Size() int {
	return len(sa.elems)
}

func (sa *SuffixArray) At(i int) SAElem {
	return sa.elems[i]
}

// NewSuffixArray builds a suffix array over the collection by plain
// comparison sorting. Fine for tests and modest read sets; a
// production builder only has to produce the same (i, j) ordering.
func NewSuffixArray(sequences []string) *SuffixArray {
	sa := &SuffixArray{strings: len(sequences)}
	for i, seq := range sequences {
		for j := 0; j <= len(seq); j++ {
			sa.elems = append(sa.elems, SAElem{I: i, J: j})
		}
	}
	suffix := func(e SAElem) string {
		return sequences[e.I][e.J:] + "$"
	}
	sort.Slice(sa.elems, func(x, y int) bool {
		ex, ey := sa.elems[x], sa.elems[y]
		if c := strings.Compare(suffix(ex), suffix(ey)); c != 0 {
			return c < 0
		}
		if ex.I != ey.I {
			return ex.I < ey.I
		}
		return ex.J < ey.J
	})
	return sa
}

// BWTWriter streams a BWT to a binary file, accumulating runs as
// characters arrive. The run count is not known until the end, so the
// header slot is backpatched in Finalize.
type BWTWriter struct {
	w       io.WriteSeeker
	currRun RLUnit
	numRuns uint64
	posRun  int64
}

func NewBWTWriter(w io.WriteSeeker) *BWTWriter {
	return &BWTWriter{w: w}
}

// Write emits the BWT of the collection: for each suffix in order, the
// character preceding it (the terminal $ for whole-string suffixes).
func (w *BWTWriter) Write(sa *SuffixArray, sequences []string) error {
	if err := w.WriteHeader(uint64(sa.Strings()), uint64(sa.Size()), BWFNoFMI); err != nil {
		return err
	}
	for i := 0; i < sa.Size(); i++ {
		elem := sa.At(i)
		c := byte('$')
		if elem.J > 0 {
			c = sequences[elem.I][elem.J-1]
		}
		if err := w.WriteChar(c); err != nil {
			return err
		}
	}
	return w.Finalize()
}

// WriteHeader begins a BWT file. Callers streaming characters
// themselves call this once, then WriteChar per symbol, then Finalize.
func (w *BWTWriter) WriteHeader(numStrings, numSuffixes uint64, flag BWFlag) error {
	if err := binary.Write(w.w, binary.LittleEndian, bwtFileMagic); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, numStrings); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, numSuffixes); err != nil {
		return err
	}

	// The run count is unknown until the whole string has been
	// written; remember the slot and write a placeholder.
	pos, err := w.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	w.posRun = pos
	w.numRuns = 0
	if err := binary.Write(w.w, binary.LittleEndian, w.numRuns); err != nil {
		return err
	}

	return binary.Write(w.w, binary.LittleEndian, uint32(flag))
}

// WriteChar feeds one BWT character into the run accumulator.
func (w *BWTWriter) WriteChar(c byte) error {
	if w.currRun.Initialized() {
		if w.currRun.Char() == c && !w.currRun.Full() {
			w.currRun.Increment()
		} else {
			if err := w.writeRun(w.currRun); err != nil {
				return err
			}
			w.currRun = NewRLUnit(c)
		}
	} else {
		w.currRun = NewRLUnit(c)
	}
	return nil
}

// Finalize flushes the tail run and backpatches the run count.
func (w *BWTWriter) Finalize() error {
	if w.currRun.Initialized() {
		if err := w.writeRun(w.currRun); err != nil {
			return err
		}
		w.currRun = 0
	}
	if _, err := w.w.Seek(w.posRun, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, w.numRuns); err != nil {
		return err
	}
	_, err := w.w.Seek(0, io.SeekEnd)
	return err
}

func (w *BWTWriter) writeRun(run RLUnit) error {
	if _, err := w.w.Write([]byte{byte(run)}); err != nil {
		return err
	}
	w.numRuns++
	return nil
}

// BWTReader reads the binary format produced by BWTWriter.
type BWTReader struct {
	r io.Reader
}

func NewBWTReader(r io.Reader) *BWTReader {
	return &BWTReader{r: r}
}

// Read parses a whole BWT file. A magic mismatch or a truncated
// stream returns an error; the caller decides what to do.
func (r *BWTReader) Read() (*BWT, error) {
	numStrings, numSuffixes, numRuns, _, err := r.readHeader()
	if err != nil {
		return nil, err
	}
	runs, err := r.readRuns(numRuns)
	if err != nil {
		return nil, err
	}
	return &BWT{
		strings:  int(numStrings),
		suffixes: int(numSuffixes),
		runs:     runs,
	}, nil
}

func (r *BWTReader) readHeader() (numStrings, numSuffixes, numRuns uint64, flag BWFlag, err error) {
	var magic uint16
	if err = binary.Read(r.r, binary.LittleEndian, &magic); err != nil {
		return
	}
	if magic != bwtFileMagic {
		err = fmt.Errorf("BWT file magic is %#x; want %#x.", magic, bwtFileMagic)
		return
	}
	if err = binary.Read(r.r, binary.LittleEndian, &numStrings); err != nil {
		return
	}
	if err = binary.Read(r.r, binary.LittleEndian, &numSuffixes); err != nil {
		return
	}
	if err = binary.Read(r.r, binary.LittleEndian, &numRuns); err != nil {
		return
	}
	err = binary.Read(r.r, binary.LittleEndian, &flag)
	return
}

func (r *BWTReader) readRuns(numRuns uint64) (RLString, error) {
	buf := make([]byte, numRuns)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, err
	}
	runs := make(RLString, numRuns)
	for i, b := range buf {
		runs[i] = RLUnit(b)
	}
	return runs, nil
}
