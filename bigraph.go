package moga

import "log"

// GraphColor tags vertices and edges during visitor passes so that the
// marked elements can be swept en masse afterwards.
type GraphColor uint8

const (
	GCWhite GraphColor = iota
	GCGray
	GCBlack
	GCRed
)

// EdgeDir is the direction an edge leaves its starting vertex:
// SENSE extends the sequence rightwards, ANTISENSE leftwards.
type EdgeDir uint8

const (
	EDSense EdgeDir = iota
	EDAntiSense
)

// EdgeDirections lists both directions for iteration.
var EdgeDirections = [2]EdgeDir{EDSense, EDAntiSense}

func (d EdgeDir) Opposite() EdgeDir {
	if d == EDSense {
		return EDAntiSense
	}
	return EDSense
}

// EdgeComp records whether the partner sequence is reverse-complemented
// relative to the starting vertex.
type EdgeComp uint8

const (
	ECSame EdgeComp = iota
	ECReverse
)

func (c EdgeComp) compose(other EdgeComp) EdgeComp {
	if c == other {
		return ECSame
	}
	return ECReverse
}

// Edge is one half of a twinned pair of directed edges representing a
// single overlap. The starting vertex owns the edge; the twin lives on
// the vertex the edge points to and carries the complementary view of
// the same overlap.
type Edge struct {
	end   *Vertex
	twin  *Edge
	dir   EdgeDir
	comp  EdgeComp
	coord SeqCoord
	color GraphColor
}

func NewEdge(end *Vertex, dir EdgeDir, comp EdgeComp, coord SeqCoord) *Edge {
	return &Edge{end: end, dir: dir, comp: comp, coord: coord}
}

// Start returns the vertex this edge leaves. It is resolved through the
// twin, which must already be linked.
func (e *Edge) Start() *Vertex {
	return e.twin.end
}

func (e *Edge) End() *Vertex {
	return e.end
}

func (e *Edge) Twin() *Edge {
	return e.twin
}

// SetTwin links e and twin as reciprocals of each other.
func (e *Edge) SetTwin(twin *Edge) {
	e.twin = twin
	twin.twin = e
}

func (e *Edge) Dir() EdgeDir {
	return e.dir
}

func (e *Edge) Comp() EdgeComp {
	return e.comp
}

func (e *Edge) Coord() SeqCoord {
	return e.coord
}

func (e *Edge) Color() GraphColor {
	return e.color
}

func (e *Edge) SetColor(c GraphColor) {
	e.color = c
}

func (e *Edge) IsSelf() bool {
	return e.Start() == e.end
}

// Match returns the overlap described by this edge as seen from its
// starting vertex.
func (e *Edge) Match() Match {
	return Match{
		Coords: [2]SeqCoord{e.coord, e.twin.coord},
		IsRC:   e.comp == ECReverse,
	}
}

// Label returns the unmatched part of the partner sequence: the part of
// end's sequence the overlap does not cover, reverse-complemented when
// the partner is flipped.
func (e *Edge) Label() string {
	unmatched := e.twin.coord.Complement()
	label := e.end.seq[unmatched.Start:unmatched.End]
	if e.comp == ECReverse {
		label = ReverseComplement(label)
	}
	return label
}

// Vertex is a node of the overlap graph: a read (or a merged run of
// reads) together with the edges leaving it.
type Vertex struct {
	id        string
	seq       string
	edges     []*Edge
	color     GraphColor
	contained bool
}

func NewVertex(id, seq string) *Vertex {
	return &Vertex{id: id, seq: seq}
}

func (v *Vertex) Id() string {
	return v.id
}

func (v *Vertex) Seq() string {
	return v.seq
}

func (v *Vertex) Color() GraphColor {
	return v.color
}

func (v *Vertex) SetColor(c GraphColor) {
	v.color = c
}

func (v *Vertex) Contained() bool {
	return v.contained
}

func (v *Vertex) SetContained(contained bool) {
	v.contained = contained
}

func (v *Vertex) AddEdge(e *Edge) {
	if e.Start() != v {
		log.Panicf("Edge into %s added to vertex %s.", e.end.id, v.id)
	}
	v.edges = append(v.edges, e)
}

func (v *Vertex) RemoveEdge(e *Edge) {
	for i, f := range v.edges {
		if f == e {
			v.edges = append(v.edges[:i], v.edges[i+1:]...)
			return
		}
	}
	log.Panicf("Edge %s->%s is not on vertex %s.", e.Start().id, e.end.id, v.id)
}

// Edges returns all edges leaving the vertex.
func (v *Vertex) Edges() []*Edge {
	return v.edges
}

// DirEdges returns the edges leaving the vertex in the given direction.
func (v *Vertex) DirEdges(dir EdgeDir) []*Edge {
	var edges []*Edge
	for _, e := range v.edges {
		if e.dir == dir {
			edges = append(edges, e)
		}
	}
	return edges
}

func (v *Vertex) Degrees() int {
	return len(v.edges)
}

func (v *Vertex) DirDegrees(dir EdgeDir) int {
	n := 0
	for _, e := range v.edges {
		if e.dir == dir {
			n++
		}
	}
	return n
}

// Bigraph is the bidirected overlap multigraph: a table of vertices
// keyed by read id, each owning its outgoing edges. At rest the graph
// is twin-consistent: every edge held by a vertex has its twin held by
// the vertex it points to.
type Bigraph struct {
	vertices    map[string]*Vertex
	containment bool
	minOverlap  int
}

func NewBigraph() *Bigraph {
	return &Bigraph{vertices: make(map[string]*Vertex)}
}

// AddVertex inserts v and reports whether the id was free.
func (g *Bigraph) AddVertex(v *Vertex) bool {
	if _, ok := g.vertices[v.id]; ok {
		return false
	}
	g.vertices[v.id] = v
	return true
}

func (g *Bigraph) GetVertex(id string) *Vertex {
	return g.vertices[id]
}

// AddEdge attaches e to its starting vertex. The twin must already be
// linked by the caller.
func (g *Bigraph) AddEdge(v *Vertex, e *Edge) {
	v.AddEdge(e)
}

func (g *Bigraph) NumVertices() int {
	return len(g.vertices)
}

func (g *Bigraph) Containment() bool {
	return g.containment
}

func (g *Bigraph) SetContainment(containment bool) {
	g.containment = containment
}

func (g *Bigraph) MinOverlap() int {
	return g.minOverlap
}

func (g *Bigraph) SetMinOverlap(minOverlap int) {
	g.minOverlap = minOverlap
}

// Color sets every vertex and edge to the given color.
func (g *Bigraph) Color(c GraphColor) {
	for _, v := range g.vertices {
		v.color = c
		for _, e := range v.edges {
			e.color = c
		}
	}
}

// SweepVertices removes every vertex of the given color. The twin held
// by each neighbor is unlinked before the vertex is dropped.
func (g *Bigraph) SweepVertices(c GraphColor) {
	for id, v := range g.vertices {
		if v.color != c {
			continue
		}
		for _, e := range v.edges {
			e.end.RemoveEdge(e.twin)
		}
		v.edges = nil
		delete(g.vertices, id)
	}
}

// SweepEdges removes every edge of the given color. Visitors color both
// halves of a pair, so each vertex drops its own copy.
func (g *Bigraph) SweepEdges(c GraphColor) {
	for _, v := range g.vertices {
		keep := v.edges[:0]
		for _, e := range v.edges {
			if e.color != c {
				keep = append(keep, e)
			}
		}
		v.edges = keep
	}
}

// Simplify merges every unambiguous run of vertices into a single
// vertex, sense direction first.
func (g *Bigraph) Simplify() {
	g.simplify(EDSense)
	g.simplify(EDAntiSense)
}

func (g *Bigraph) simplify(dir EdgeDir) {
	for changed := true; changed; {
		changed = false
		for _, v := range g.vertices {
			if v.color == GCBlack {
				continue
			}
			edges := v.DirEdges(dir)

			// A single non-self edge whose far side is also singular
			// identifies an unambiguous merge.
			if len(edges) == 1 && !edges[0].IsSelf() {
				single := edges[0]
				if single.end.DirDegrees(single.twin.dir) == 1 {
					g.merge(v, single)
					changed = true
				}
			}
		}
	}
	g.SweepVertices(GCBlack)
}

// merge absorbs the vertex at the far side of edge into v: the
// sequence is extended by the edge label and the far vertex's edges
// are rewired to leave v. The absorbed vertex is colored for sweeping.
func (g *Bigraph) merge(v *Vertex, edge *Edge) {
	twin := edge.twin
	end := edge.end
	label := edge.Label()

	// Extend the sequence in reading order.
	if edge.dir == EDSense {
		v.seq += label
	} else {
		v.seq = label + v.seq
	}

	v.RemoveEdge(edge)
	end.RemoveEdge(twin)

	// Re-anchor the coords of v's surviving edges to the grown
	// sequence. Prepending shifts every interval right by the label.
	for _, f := range v.edges {
		f.coord.SeqLen = len(v.seq)
		if edge.dir == EDAntiSense {
			f.coord.Start += len(label)
			f.coord.End += len(label)
		}
	}

	// Absorb end's remaining edges. A rewired edge keeps its direction
	// unless the merged-in sequence was flipped, and its matched
	// interval sits at the extremity of the grown sequence on the side
	// it leaves from. Directions and orientations are snapshotted
	// first; rewiring one half of a self pair mutates the other.
	type absorbed struct {
		f    *Edge
		dir  EdgeDir
		comp EdgeComp
	}
	olds := make([]absorbed, 0, len(end.edges))
	for _, f := range end.edges {
		olds = append(olds, absorbed{f: f, dir: f.dir, comp: f.comp})
	}
	for _, old := range olds {
		dir := old.dir
		comp := old.comp
		if edge.comp == ECReverse {
			dir = dir.Opposite()
			comp = comp.compose(ECReverse)
		}
		n := old.f.coord.Length()
		var coord SeqCoord
		if dir == EDSense {
			coord = SeqCoord{Start: len(v.seq) - n, End: len(v.seq), SeqLen: len(v.seq)}
		} else {
			coord = SeqCoord{Start: 0, End: n, SeqLen: len(v.seq)}
		}

		rewired := NewEdge(old.f.end, dir, comp, coord)
		partner := old.f.twin
		rewired.twin = partner
		partner.twin = rewired
		partner.end = v
		partner.comp = comp
		v.AddEdge(rewired)
	}
	end.edges = nil
	end.color = GCBlack
}

// EdgeCreator materializes twin edges in a graph from overlap records,
// enforcing the per-vertex degree cap.
type EdgeCreator struct {
	graph             *Bigraph
	allowContainments bool
	maxEdges          int
}

func NewEdgeCreator(g *Bigraph, allowContainments bool, maxEdges int) *EdgeCreator {
	return &EdgeCreator{graph: g, allowContainments: allowContainments, maxEdges: maxEdges}
}

// Create adds the edges described by overlap and reports whether any
// were added. A missing vertex, a non-extreme interval, or a vertex with
// more than maxEdges edges skips the overlap without error.
func (c *EdgeCreator) Create(overlap *Overlap) bool {
	isContainment := overlap.Match.IsContainment()
	comp := ECSame
	if overlap.Match.IsRC {
		comp = ECReverse
	}

	var verts [2]*Vertex
	for i := 0; i < 2; i++ {
		verts[i] = c.graph.GetVertex(overlap.Ids[i])

		// A read that is a strict substring of another read is never
		// added to the graph, so its overlaps have no vertex.
		if verts[i] == nil {
			return false
		}
	}

	// A non-extreme interval means one read matches inside the other;
	// the contained side is flagged elsewhere and no edges are made.
	for i := 0; i < 2; i++ {
		if !overlap.Match.Coords[i].IsExtreme() {
			return false
		}
	}

	// Vertices past the degree cap sit in ultra-dense repeat regions;
	// refusing further edges keeps them from inflating memory.
	if verts[0].Degrees() > c.maxEdges || verts[1].Degrees() > c.maxEdges {
		return false
	}

	if !isContainment {
		var edges [2]*Edge
		for i := 0; i < 2; i++ {
			coord := overlap.Match.Coords[i]
			dir := EDSense
			if coord.IsLeftExtreme() {
				dir = EDAntiSense
			}
			edges[i] = NewEdge(verts[1-i], dir, comp, coord)
		}

		edges[0].SetTwin(edges[1])

		c.graph.AddEdge(verts[0], edges[0])
		c.graph.AddEdge(verts[1], edges[1])
	} else {
		// A contained read can be traversed in either direction during
		// contain removal, so each vertex gets a sense and an
		// antisense edge.
		var edges [4]*Edge
		for i := 0; i < 2; i++ {
			coord := overlap.Match.Coords[i]
			edges[i] = NewEdge(verts[1-i], EDSense, comp, coord)
			edges[i+2] = NewEdge(verts[1-i], EDAntiSense, comp, coord)

			if coord.IsFull() {
				verts[i].SetContained(true)
			}
		}
		c.graph.SetContainment(true)

		edges[0].SetTwin(edges[1])
		edges[2].SetTwin(edges[3])

		c.graph.AddEdge(verts[0], edges[0])
		c.graph.AddEdge(verts[1], edges[1])

		c.graph.AddEdge(verts[0], edges[2])
		c.graph.AddEdge(verts[1], edges[3])
	}

	return true
}
