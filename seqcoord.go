package moga

import (
	"fmt"
	"log"
)

// SeqCoord is a half-open interval [Start, End) into a sequence whose
// total length is SeqLen. 0 <= Start <= End <= SeqLen.
type SeqCoord struct {
	Start  int
	End    int
	SeqLen int
}

// Length returns the number of positions covered by the interval.
func (c SeqCoord) Length() int {
	return c.End - c.Start
}

func (c SeqCoord) IsLeftExtreme() bool {
	return c.Start == 0
}

func (c SeqCoord) IsRightExtreme() bool {
	return c.End == c.SeqLen
}

// IsExtreme reports whether the interval touches either end of the
// sequence.
func (c SeqCoord) IsExtreme() bool {
	return c.IsLeftExtreme() || c.IsRightExtreme()
}

// IsFull reports whether the interval spans the entire sequence.
func (c SeqCoord) IsFull() bool {
	return c.IsLeftExtreme() && c.IsRightExtreme()
}

// Complement returns the single maximal interval not covered by c.
// c must be extreme.
func (c SeqCoord) Complement() SeqCoord {
	if c.IsLeftExtreme() {
		return SeqCoord{Start: c.End, End: c.SeqLen, SeqLen: c.SeqLen}
	}
	if c.IsRightExtreme() {
		return SeqCoord{Start: 0, End: c.Start, SeqLen: c.SeqLen}
	}
	log.Panicf("Complement of non-extreme coord %v.", c)
	panic("unreachable")
}

func (c SeqCoord) String() string {
	return fmt.Sprintf("[%d,%d)/%d", c.Start, c.End, c.SeqLen)
}
