package moga

import (
	"fmt"
	"io"
	"log"
	"sort"
)

// BigraphVisitor is a single pass over a graph: Previsit runs once,
// Visit runs for every vertex in unspecified order, Postvisit runs
// once. Visit reports whether it modified (or marked) anything local
// to the vertex; sweeping marked elements is the visitor's own
// responsibility in Postvisit.
type BigraphVisitor interface {
	Previsit(g *Bigraph)
	Visit(g *Bigraph, v *Vertex) bool
	Postvisit(g *Bigraph)
}

// Visit drives a visitor over the graph and reports whether any vertex
// visit signalled a modification.
func (g *Bigraph) Visit(visitor BigraphVisitor) bool {
	modified := false
	visitor.Previsit(g)
	for _, v := range g.vertices {
		if visitor.Visit(g, v) {
			modified = true
		}
	}
	visitor.Postvisit(g)
	return modified
}

// TrimVisitor removes islands (no edges at all) and dead-end tips
// (no edges in one direction) whose sequence is shorter than
// MinLength.
type TrimVisitor struct {
	MinLength int

	Islands   int
	Terminals int
}

func (t *TrimVisitor) Previsit(g *Bigraph) {
	t.Islands = 0
	t.Terminals = 0
	g.Color(GCWhite)
}

func (t *TrimVisitor) Visit(g *Bigraph, v *Vertex) bool {
	if len(v.seq) >= t.MinLength {
		return false
	}
	if v.Degrees() == 0 {
		v.SetColor(GCBlack)
		t.Islands++
		return true
	}
	for _, dir := range EdgeDirections {
		if v.DirDegrees(dir) == 0 {
			v.SetColor(GCBlack)
			t.Terminals++
			return true
		}
	}
	return false
}

func (t *TrimVisitor) Postvisit(g *Bigraph) {
	g.SweepVertices(GCBlack)
	Vprintf("[TrimVisitor] Removed %d island and %d dead-end short vertices\n",
		t.Islands, t.Terminals)
}

// ChimericVisitor removes short simple vertices whose two neighbors
// both branch, with at least one of them carrying a clearly better
// alternative edge.
type ChimericVisitor struct {
	MinLength int
	Delta     int

	Chimeric int
}

func (c *ChimericVisitor) Previsit(g *Bigraph) {
	c.Chimeric = 0
	g.Color(GCWhite)
}

func (c *ChimericVisitor) Visit(g *Bigraph, v *Vertex) bool {
	if v.DirDegrees(EDSense) != 1 || v.DirDegrees(EDAntiSense) != 1 || len(v.seq) >= c.MinLength {
		return false
	}
	prevEdge := v.DirEdges(EDAntiSense)[0]
	nextEdge := v.DirEdges(EDSense)[0]
	prevVert := prevEdge.End()
	nextVert := nextEdge.End()

	if prevVert.DirDegrees(EDSense) < 2 || nextVert.DirDegrees(EDAntiSense) < 2 {
		return false
	}

	// A chimeric join loses to a longer sibling overlap on at least
	// one side.
	smallest := false
	for _, e := range prevVert.DirEdges(EDSense) {
		if e.coord.Length() > prevEdge.coord.Length() &&
			e.coord.Length()-prevEdge.coord.Length() >= c.Delta {
			smallest = true
		}
	}
	for _, e := range nextVert.DirEdges(EDAntiSense) {
		if e.coord.Length() > nextEdge.coord.Length() &&
			e.coord.Length()-nextEdge.coord.Length() >= c.Delta {
			smallest = true
		}
	}
	if !smallest {
		return false
	}

	v.SetColor(GCBlack)
	c.Chimeric++
	return true
}

func (c *ChimericVisitor) Postvisit(g *Bigraph) {
	g.SweepVertices(GCBlack)
	Vprintf("[ChimericVisitor] Removed %d chimeric\n", c.Chimeric)
}

// ContainRemoveVisitor removes every vertex flagged as contained in
// another read, dropping both directions of its edges. Rerun until the
// graph reports no containment.
type ContainRemoveVisitor struct {
	Contained int
}

func (c *ContainRemoveVisitor) Previsit(g *Bigraph) {
	g.Color(GCWhite)

	// Clear the flag; anything that reintroduces a containment during
	// the pass sets it again and forces another round.
	g.SetContainment(false)

	c.Contained = 0
}

func (c *ContainRemoveVisitor) Visit(g *Bigraph, v *Vertex) bool {
	if !v.Contained() {
		return false
	}
	edges := append([]*Edge(nil), v.edges...)
	for _, e := range edges {
		e.end.RemoveEdge(e.twin)
		v.RemoveEdge(e)
	}
	v.SetColor(GCBlack)
	c.Contained++
	return true
}

func (c *ContainRemoveVisitor) Postvisit(g *Bigraph) {
	g.SweepVertices(GCBlack)
	Vprintf("[ContainRemoveVisitor] Removed %d containment vertices\n", c.Contained)
}

// MaximalOverlapVisitor removes edges that are beaten by more than
// Delta on both of their endpoints. The graph must not have
// containments.
type MaximalOverlapVisitor struct {
	Delta int

	Dummys int
}

func (m *MaximalOverlapVisitor) Previsit(g *Bigraph) {
	if g.Containment() {
		log.Panicf("Maximal overlap removal requires a containment-free graph.")
	}
	g.Color(GCWhite)
	m.Dummys = 0
}

// isSenseOriented reports which side of its far vertex an edge arrives
// on; reverse-complement overlaps swap the sides.
func isSenseOriented(e *Edge) bool {
	rc := e.comp == ECReverse
	return (!rc && e.dir == EDSense) || (rc && e.dir == EDAntiSense)
}

func (m *MaximalOverlapVisitor) Visit(g *Bigraph, v *Vertex) bool {
	modified := false

	for _, dir := range EdgeDirections {
		edges := v.DirEdges(dir)
		sort.SliceStable(edges, func(i, j int) bool {
			return edges[i].coord.Length() > edges[j].coord.Length()
		})

		for j := 1; j < len(edges); j++ {
			if edges[j].color == GCBlack {
				continue
			}
			if edges[0].coord.Length()-edges[j].coord.Length() <= m.Delta {
				continue
			}

			// Collect the far vertex's edges on the reciprocal side.
			wantSense := dir == EDAntiSense
			var redges []*Edge
			for _, r := range edges[j].end.Edges() {
				if isSenseOriented(r) == wantSense {
					redges = append(redges, r)
				}
			}
			if len(redges) == 0 {
				log.Panicf("Vertex %s has no reciprocal edges for %s->%s.",
					edges[j].end.id, v.id, edges[j].end.id)
			}

			// The far vertex always holds the twin among these, so the
			// list is never empty; the candidate is dropped only when
			// the best reciprocal alternative beats it clearly.
			largest := redges[0]
			for _, r := range redges[1:] {
				if r.coord.Length() > largest.coord.Length() {
					largest = r
				}
			}
			if largest.coord.Length()-edges[j].coord.Length() <= m.Delta {
				continue
			}

			if dir == EDSense {
				Vprintf("[MaximalOverlapVisitor] remove edge %s->%s (%d)\n",
					v.id, edges[j].end.id, edges[j].coord.Length())
			} else {
				Vprintf("[MaximalOverlapVisitor] remove edge %s->%s (%d)\n",
					edges[j].end.id, v.id, edges[j].coord.Length())
			}
			edges[j].SetColor(GCBlack)
			edges[j].twin.SetColor(GCBlack)
			m.Dummys++
			modified = true
		}
	}

	return modified
}

func (m *MaximalOverlapVisitor) Postvisit(g *Bigraph) {
	g.SweepEdges(GCBlack)
	Vprintf("[MaximalOverlapVisitor] Removed %d dummy edges\n", m.Dummys)
}

// StatisticsVisitor counts vertex and edge motifs without modifying
// the graph. Edges are counted from both of their endpoints.
type StatisticsVisitor struct {
	Terminals  int
	Islands    int
	Monobranch int
	Dibranch   int
	Simple     int
	Edges      int
	Vertices   int
}

func (s *StatisticsVisitor) Previsit(g *Bigraph) {
	*s = StatisticsVisitor{}
}

func (s *StatisticsVisitor) Visit(g *Bigraph, v *Vertex) bool {
	fdegrees := v.DirDegrees(EDSense)
	rdegrees := v.DirDegrees(EDAntiSense)

	if fdegrees == 0 && rdegrees == 0 {
		s.Islands++
	} else if fdegrees == 0 || rdegrees == 0 {
		s.Terminals++
	}

	if fdegrees > 1 && rdegrees > 1 {
		s.Dibranch++
	} else if fdegrees > 1 || rdegrees > 1 {
		s.Monobranch++
	}

	if fdegrees == 1 || rdegrees == 1 {
		s.Simple++
	}

	s.Edges += fdegrees + rdegrees
	s.Vertices++

	return false
}

func (s *StatisticsVisitor) Postvisit(g *Bigraph) {
	Vprintf("[StatisticsVisitor] Vertices: %d Edges: %d Islands: %d Tips: %d "+
		"Monobranch: %d Dibranch: %d Simple: %d\n",
		s.Vertices, s.Edges, s.Islands, s.Terminals,
		s.Monobranch, s.Dibranch, s.Simple)
}

// FastaVisitor emits every vertex as a FASTA record in table iteration
// order.
type FastaVisitor struct {
	W io.Writer

	err error
}

func (f *FastaVisitor) Previsit(g *Bigraph) {
	f.err = nil
}

func (f *FastaVisitor) Visit(g *Bigraph, v *Vertex) bool {
	if f.err == nil {
		_, f.err = fmt.Fprintf(f.W, ">%s\n%s\n", v.id, v.seq)
	}
	return false
}

func (f *FastaVisitor) Postvisit(g *Bigraph) {
}

// Err returns the first write error of the pass, if any.
func (f *FastaVisitor) Err() error {
	return f.err
}
