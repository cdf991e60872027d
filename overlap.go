package moga

// Match describes the matched intervals of a pairwise overlap: one
// coord per read, plus whether the second read is reverse-complemented
// relative to the first.
type Match struct {
	Coords [2]SeqCoord
	IsRC   bool
}

// IsContainment reports whether one interval spans the whole of its
// sequence while the other does not.
func (m *Match) IsContainment() bool {
	full0, full1 := m.Coords[0].IsFull(), m.Coords[1].IsFull()
	return full0 != full1
}

// Length returns the overlap length. The two coords always cover the
// same number of positions.
func (m *Match) Length() int {
	return m.Coords[0].Length()
}

// Overlap is a pairwise overlap between the two reads named by Ids.
type Overlap struct {
	Ids   [2]string
	Match Match
}
