package moga

import "testing"

func mustCreate(t *testing.T, g *Bigraph, id1, id2 string, c1, c2 SeqCoord, rc bool) {
	t.Helper()
	creator := NewEdgeCreator(g, true, 128)
	overlap := &Overlap{
		Ids:   [2]string{id1, id2},
		Match: Match{Coords: [2]SeqCoord{c1, c2}, IsRC: rc},
	}
	if !creator.Create(overlap) {
		t.Fatalf("Failed to create edges for overlap %s-%s.", id1, id2)
	}
}

// checkTwins validates the resting-state twin invariants everywhere.
func checkTwins(t *testing.T, g *Bigraph) {
	t.Helper()
	for _, v := range g.vertices {
		for _, e := range v.Edges() {
			if e.Twin().Twin() != e {
				t.Fatalf("Edge on %s: twin of twin is not the edge itself.", v.Id())
			}
			if e.Start() != v {
				t.Fatalf("Edge on %s starts at %s.", v.Id(), e.Start().Id())
			}
			if e.Twin().Start() != e.End() {
				t.Fatalf("Edge %s->%s: twin does not start at the far end.",
					v.Id(), e.End().Id())
			}
			if e.Coord().Length() != e.Twin().Coord().Length() {
				t.Fatalf("Edge %s->%s: coord lengths %d and %d differ.",
					v.Id(), e.End().Id(), e.Coord().Length(), e.Twin().Coord().Length())
			}
			if e.Comp() != e.Twin().Comp() {
				t.Fatalf("Edge %s->%s: comps differ across the twin pair.",
					v.Id(), e.End().Id())
			}
			// The twin must actually be held by the far vertex.
			held := false
			for _, f := range e.End().Edges() {
				if f == e.Twin() {
					held = true
					break
				}
			}
			if !held {
				t.Fatalf("Edge %s->%s: twin is not held by %s.",
					v.Id(), e.End().Id(), e.End().Id())
			}
		}
	}
}

// chainGraph is scenario S1: A -"GT"- B -"AC"- C, all same strand.
func chainGraph(t *testing.T) *Bigraph {
	t.Helper()
	g := NewBigraph()
	g.AddVertex(NewVertex("A", "ACGT"))
	g.AddVertex(NewVertex("B", "GTAC"))
	g.AddVertex(NewVertex("C", "ACCC"))
	mustCreate(t, g, "A", "B", SeqCoord{2, 4, 4}, SeqCoord{0, 2, 4}, false)
	mustCreate(t, g, "B", "C", SeqCoord{2, 4, 4}, SeqCoord{0, 2, 4}, false)
	return g
}

func TestSimplifyLinearChain(t *testing.T) {
	g := chainGraph(t)
	checkTwins(t, g)

	g.Simplify()

	if g.NumVertices() != 1 {
		t.Fatalf("Vertex count = %d after simplify; want 1.", g.NumVertices())
	}
	v := g.GetVertex("A")
	if v == nil {
		t.Fatal("Vertex A did not survive the merges.")
	}
	if v.Seq() != "ACGTACCC" {
		t.Fatalf("Merged sequence = %q; want %q.", v.Seq(), "ACGTACCC")
	}
	if v.Degrees() != 0 {
		t.Fatalf("Merged vertex has %d edges; want 0.", v.Degrees())
	}
}

func TestSimplifySelfLoop(t *testing.T) {
	g := NewBigraph()
	g.AddVertex(NewVertex("X", "ACGTACGT"))
	mustCreate(t, g, "X", "X", SeqCoord{4, 8, 8}, SeqCoord{0, 4, 8}, false)
	checkTwins(t, g)

	g.Simplify()

	if g.NumVertices() != 1 {
		t.Fatalf("Vertex count = %d after simplify; want 1.", g.NumVertices())
	}
	v := g.GetVertex("X")
	if v.Seq() != "ACGTACGT" {
		t.Fatalf("Self-loop vertex sequence changed to %q.", v.Seq())
	}
	if v.Degrees() != 2 {
		t.Fatalf("Self-loop vertex has %d edges; want 2.", v.Degrees())
	}
	checkTwins(t, g)
}

func TestSimplifyReverseComplement(t *testing.T) {
	// The prefix "AC" of A matches the reverse complement of E's
	// prefix "GT"; the merged contig reads CTACGT on one strand.
	g := NewBigraph()
	g.AddVertex(NewVertex("A", "ACGT"))
	g.AddVertex(NewVertex("E", "GTAG"))
	mustCreate(t, g, "A", "E", SeqCoord{0, 2, 4}, SeqCoord{0, 2, 4}, true)
	checkTwins(t, g)

	g.Simplify()

	if g.NumVertices() != 1 {
		t.Fatalf("Vertex count = %d after simplify; want 1.", g.NumVertices())
	}
	var merged *Vertex
	for _, v := range g.vertices {
		merged = v
	}
	if merged.Seq() != "CTACGT" && merged.Seq() != "ACGTAG" {
		t.Fatalf("Merged sequence = %q; want %q or its reverse complement.",
			merged.Seq(), "CTACGT")
	}
	if merged.Degrees() != 0 {
		t.Fatalf("Merged vertex has %d edges; want 0.", merged.Degrees())
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	build := func() *Bigraph {
		g := chainGraph(t)
		// A branch off C keeps one junction alive.
		g.AddVertex(NewVertex("D", "CCCCCC"))
		g.AddVertex(NewVertex("E", "CCCGGG"))
		mustCreate(t, g, "C", "D", SeqCoord{2, 4, 4}, SeqCoord{0, 2, 6}, false)
		mustCreate(t, g, "C", "E", SeqCoord{1, 4, 4}, SeqCoord{0, 3, 6}, false)
		return g
	}

	g := build()
	g.Simplify()
	checkTwins(t, g)

	seqs := make(map[string]string)
	for id, v := range g.vertices {
		seqs[id] = v.Seq()
	}

	g.Simplify()
	checkTwins(t, g)
	if g.NumVertices() != len(seqs) {
		t.Fatalf("Second simplify changed the vertex count from %d to %d.",
			len(seqs), g.NumVertices())
	}
	for id, v := range g.vertices {
		if seqs[id] != v.Seq() {
			t.Fatalf("Second simplify changed %s from %q to %q.", id, seqs[id], v.Seq())
		}
	}
}

func TestEdgeLabels(t *testing.T) {
	g := chainGraph(t)

	edge := g.GetVertex("B").DirEdges(EDSense)[0]
	if edge.Label() != "CC" {
		t.Errorf("Label of B->C = %q; want %q.", edge.Label(), "CC")
	}
	if edge.Twin().Label() != "GT" {
		t.Errorf("Label of C->B = %q; want %q.", edge.Twin().Label(), "GT")
	}

	match := edge.Match()
	if match.IsRC {
		t.Error("Match of a same-strand edge reports RC.")
	}
	if match.Length() != 2 {
		t.Errorf("Match length = %d; want 2.", match.Length())
	}
}

func TestEdgeCreatorRejectsNonExtreme(t *testing.T) {
	g := NewBigraph()
	g.AddVertex(NewVertex("A", "ACGTACGTAC"))
	g.AddVertex(NewVertex("B", "ACGTACGT"))

	creator := NewEdgeCreator(g, true, 128)
	overlap := &Overlap{
		Ids: [2]string{"A", "B"},
		Match: Match{Coords: [2]SeqCoord{
			{2, 6, 10},
			{0, 4, 8},
		}},
	}
	if creator.Create(overlap) {
		t.Fatal("A non-extreme overlap created edges.")
	}
	if g.GetVertex("A").Degrees() != 0 || g.GetVertex("B").Degrees() != 0 {
		t.Fatal("A rejected overlap left edges behind.")
	}
}

func TestEdgeCreatorMissingVertex(t *testing.T) {
	g := NewBigraph()
	g.AddVertex(NewVertex("A", "ACGT"))

	creator := NewEdgeCreator(g, true, 128)
	overlap := &Overlap{
		Ids: [2]string{"A", "GHOST"},
		Match: Match{Coords: [2]SeqCoord{
			{2, 4, 4},
			{0, 2, 4},
		}},
	}
	if creator.Create(overlap) {
		t.Fatal("An overlap against a missing vertex created edges.")
	}
}

func TestEdgeCreatorDegreeCap(t *testing.T) {
	g := NewBigraph()
	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddVertex(NewVertex(id, "ACGTACGT"))
	}
	creator := NewEdgeCreator(g, true, 1)
	overlap := func(other string) *Overlap {
		return &Overlap{
			Ids: [2]string{"A", other},
			Match: Match{Coords: [2]SeqCoord{
				{4, 8, 8},
				{0, 4, 8},
			}},
		}
	}
	if !creator.Create(overlap("B")) || !creator.Create(overlap("C")) {
		t.Fatal("Overlaps within the degree cap were rejected.")
	}
	if creator.Create(overlap("D")) {
		t.Fatal("An overlap above the degree cap created edges.")
	}
	if g.GetVertex("A").Degrees() != 2 {
		t.Fatalf("Vertex A has %d edges; want 2.", g.GetVertex("A").Degrees())
	}
}

func TestEdgeCreatorContainment(t *testing.T) {
	g := NewBigraph()
	g.AddVertex(NewVertex("A", "ACGTACGTAC"))
	g.AddVertex(NewVertex("B", "ACGTA"))

	mustCreate(t, g, "A", "B", SeqCoord{0, 5, 10}, SeqCoord{0, 5, 5}, false)
	checkTwins(t, g)

	if !g.Containment() {
		t.Fatal("Loading a containment did not raise the graph flag.")
	}
	if !g.GetVertex("B").Contained() {
		t.Fatal("The spanned read is not flagged contained.")
	}
	if g.GetVertex("A").Contained() {
		t.Fatal("The containing read is flagged contained.")
	}

	// Two twin pairs: each vertex holds a sense and an antisense edge.
	for _, id := range []string{"A", "B"} {
		v := g.GetVertex(id)
		if v.Degrees() != 2 {
			t.Fatalf("Vertex %s has %d edges; want 2.", id, v.Degrees())
		}
		if v.DirDegrees(EDSense) != 1 || v.DirDegrees(EDAntiSense) != 1 {
			t.Fatalf("Vertex %s edges are not split across directions.", id)
		}
	}
}

func TestSweepVerticesUnlinksTwins(t *testing.T) {
	g := chainGraph(t)
	g.GetVertex("B").SetColor(GCBlack)
	g.SweepVertices(GCBlack)

	if g.NumVertices() != 2 {
		t.Fatalf("Vertex count = %d after sweep; want 2.", g.NumVertices())
	}
	if g.GetVertex("A").Degrees() != 0 || g.GetVertex("C").Degrees() != 0 {
		t.Fatal("Sweeping B left dangling twins on its neighbors.")
	}
	checkTwins(t, g)
}
