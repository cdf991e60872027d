package moga

import (
	"math/rand"
	"strings"
	"testing"
)

func countPrefix(s string, c byte, i int) int {
	n := 0
	for k := 0; k <= i && k < len(s); k++ {
		if s[k] == c {
			n++
		}
	}
	return n
}

func TestFMIndexBanana(t *testing.T) {
	// The BWT of "CANANA$" ("BANANA" spelled over the DNA alphabet).
	bwt := NewBWTFromString("ANNC$AA")
	fm := NewFMIndex(bwt, 2)

	type occ struct {
		c    byte
		i    int
		want int
	}
	occs := []occ{
		{'A', 6, 3},
		{'N', 2, 2},
		{'A', -1, 0},
		{'A', 0, 1},
		{'C', 6, 1},
		{'$', 6, 1},
		{'N', 6, 2},
		{'T', 6, 0},
	}
	for _, test := range occs {
		if got := fm.Occ(test.c, test.i); got != test.want {
			t.Errorf("Occ(%q, %d) = %d; want %d.", test.c, test.i, got, test.want)
		}
	}

	type pred struct {
		c    byte
		want int
	}
	preds := []pred{
		{'$', 0},
		{'A', 1},
		{'C', 4},
		{'G', 5},
		{'N', 5},
		{'T', 7},
	}
	for _, test := range preds {
		if got := fm.PredCount(test.c); got != test.want {
			t.Errorf("PredCount(%q) = %d; want %d.", test.c, got, test.want)
		}
	}
}

func TestFMIndexBananaEndToEnd(t *testing.T) {
	sequences := []string{"CANANA"}
	path, _ := writeBWTFile(t, sequences)
	bwt := readBWTFile(t, path)
	if got := bwt.String(); got != "ANNC$AA" {
		t.Fatalf("BWT of %q = %q; want %q.", sequences[0], got, "ANNC$AA")
	}

	fm := NewFMIndex(bwt, 4)
	type search struct {
		pattern string
		want    int
	}
	searches := []search{
		{"ANA", 2},
		{"NA", 2},
		{"CANANA", 1},
		{"CAN", 1},
		{"A", 3},
		{"T", 0},
		{"NAC", 0},
	}
	for _, test := range searches {
		l, u := fm.BackwardSearch([]byte(test.pattern))
		if u-l != test.want {
			t.Errorf("BackwardSearch(%q) = [%d, %d); want %d rows.",
				test.pattern, l, u, test.want)
		}
	}
}

func TestFMIndexOccMatchesNaiveCount(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []byte(DNAAll)

	for _, n := range []int{1, 7, 100, 1000} {
		for _, sampleRate := range []int{2, 8, 128} {
			raw := make([]byte, n)
			for i := range raw {
				// Biased towards runs so the five-bit cap is exercised.
				if i > 0 && rng.Intn(4) != 0 {
					raw[i] = raw[i-1]
				} else {
					raw[i] = alphabet[rng.Intn(len(alphabet))]
				}
			}
			column := string(raw)
			fm := NewFMIndex(NewBWTFromString(column), sampleRate)

			for i := -1; i < n; i++ {
				for _, c := range alphabet {
					if got, want := fm.Occ(c, i), countPrefix(column, c, i); got != want {
						t.Fatalf("n=%d rate=%d: Occ(%q, %d) = %d; want %d.",
							n, sampleRate, c, i, got, want)
					}
				}
			}
		}
	}
}

func TestFMIndexCrossesLargeMarkers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []byte(DNAAll)

	n := 3*DefaultSampleRateLarge + 100
	column := make([]byte, n)
	for i := range column {
		column[i] = alphabet[rng.Intn(len(alphabet))]
	}
	fm := NewFMIndex(NewBWTFromString(string(column)), 128)

	// Spot-check positions around every marker boundary plus random
	// interior ones.
	var positions []int
	for p := 0; p <= n; p += DefaultSampleRateLarge {
		for _, d := range []int{-2, -1, 0, 1, 2} {
			if p+d >= 0 && p+d < n {
				positions = append(positions, p+d)
			}
		}
	}
	for k := 0; k < 200; k++ {
		positions = append(positions, rng.Intn(n))
	}
	for _, i := range positions {
		for _, c := range alphabet {
			if got, want := fm.Occ(c, i), countPrefix(string(column), c, i); got != want {
				t.Fatalf("Occ(%q, %d) = %d; want %d.", c, i, got, want)
			}
		}
	}
}

func TestFMIndexMarkerConsistency(t *testing.T) {
	// Summing a small marker's deltas into its large marker must give
	// the true cumulative counts at the sampled position.
	column := "ANNC$AA" + strings.Repeat("ACGT", 100)
	fm := NewFMIndex(NewBWTFromString(column), 8)

	for base := 0; base < len(fm.smarkers); base++ {
		marker := fm.lmarkers[base*fm.sampleRate/DefaultSampleRateLarge]
		relative := fm.smarkers[base]
		for k := range marker.Counts {
			marker.Counts[k] += uint64(relative.Counts[k])
		}
		marker.UnitIndex += uint64(relative.UnitIndex)

		position := int(marker.Total())
		for k := range marker.Counts {
			want := countPrefix(column, DNAChar(k), position-1)
			if int(marker.Counts[k]) != want {
				t.Fatalf("Marker %d: count[%q] = %d at position %d; want %d.",
					base, DNAChar(k), marker.Counts[k], position, want)
			}
		}
	}
}

func TestNewFMIndexRejectsBadSampleRate(t *testing.T) {
	for _, rate := range []int{0, 1, 3, 100, DefaultSampleRateLarge * 2} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Sample rate %d was accepted.", rate)
				}
			}()
			NewFMIndex(NewBWTFromString("ACGT$"), rate)
		}()
	}
}
