/*
Package gss implements the Graph-Structured Stack (GSS): a directed graph
of return frames (label, position), plus the three descriptor worklist
sets U, R and P that the GLL dispatcher schedules work through.

The graph exists to collapse what would otherwise be an exponential call
stack under ambiguity: every caller reaching the same (label, position)
shares one return frame, and popping that frame resumes all of its
callers at once instead of re-deriving their continuations separately.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package gss

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/corwin-dev/gll/grammar"
	"github.com/corwin-dev/gll/sppf"
)

func tracer() tracing.Trace {
	return gtrace.SyntaxTracer
}

// Initial is the index of the bottommost GSS node u0 = (L0, 0), created by
// NewStore.
const Initial = 0

// InvariantViolation reports a broken GSS invariant (e.g. a malformed
// edge or node lookup) that should never happen for a correct dispatcher;
// it is recovered and surfaced as a plain error by the caller.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "gss: " + e.Msg }

func violate(format string, args ...interface{}) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

type nodeRecord struct {
	L   grammar.Label
	Pos int
}

func (n nodeRecord) String() string { return fmt.Sprintf("(%s,%d)", n.L, n.Pos) }

type nodeKey struct {
	L   grammar.Label
	Pos int
}

type edge struct {
	To int // the caller frame this edge points to
	W  int // SPPF index captured at create time
}

// descriptorKey is the (L, u, w) triple U[j] deduplicates on — a
// descriptor is fully determined by its label, GSS node and SPPF node
// once j (the slot in U it lives in) is fixed.
type descriptorKey struct {
	L grammar.Label
	U int
	W int
}

// Descriptor is the 4-tuple (label, GSS node, position, SPPF node)
// representing one suspended parser state, as defined in the GLOSSARY.
type Descriptor struct {
	L grammar.Label
	U int
	J int
	W int
}

// popKey is the (u, z) pair P records membership for.
type popKey struct {
	U int
	Z int
}

// Store owns the GSS graph and the U/R/P worklist sets for one parse. It
// also owns a reference to the SPPF store, because create and pop must
// call getNodeP while wiring edges and propagating pops.
type Store struct {
	g      *grammar.Grammar
	forest *sppf.Store

	nodes []nodeRecord
	index map[nodeKey]int
	out   map[int][]edge

	u []*hashset.Set // U[j]: descriptorKeys already scheduled at position j
	r *linkedliststack.Stack
	p *hashset.Set // P: popKeys that have popped, each mapped to its z via pz
	pz map[popKey]int
}

// NewStore returns a GSS primed with the initial node u0 = (L0, 0) and
// U preallocated as a vector of n+1 empty sets (n = number of input
// positions, i.e. len(input)), since descriptors are scheduled per position
// and the position range is known up front.
func NewStore(g *grammar.Grammar, forest *sppf.Store, n int) *Store {
	s := &Store{
		g:      g,
		forest: forest,
		nodes:  []nodeRecord{{L: grammar.Scheduler(), Pos: 0}},
		index:  make(map[nodeKey]int),
		out:    make(map[int][]edge),
		u:      make([]*hashset.Set, n+1),
		r:      linkedliststack.New(),
		p:      hashset.New(),
		pz:     make(map[popKey]int),
	}
	s.index[nodeKey{grammar.Scheduler(), 0}] = Initial
	for j := range s.u {
		s.u[j] = hashset.New()
	}
	return s
}

func (s *Store) nodeFor(l grammar.Label, pos int) int {
	key := nodeKey{l, pos}
	if idx, ok := s.index[key]; ok {
		return idx
	}
	idx := len(s.nodes)
	s.nodes = append(s.nodes, nodeRecord{L: l, Pos: pos})
	s.index[key] = idx
	return idx
}

// Add schedules descriptor (l, u, j, w) iff (l, u, w) ∉ U[j]. It reports
// whether the descriptor was newly scheduled.
func (s *Store) Add(l grammar.Label, u, j, w int) bool {
	key := descriptorKey{l, u, w}
	if s.u[j].Contains(key) {
		return false
	}
	s.u[j].Add(key)
	s.r.Push(Descriptor{L: l, U: u, J: j, W: w})
	tracer().Debugf("gss: add %s u=%d j=%d w=%d", l, u, j, w)
	return true
}

// PopReady drains one pending descriptor from R. R is implemented as a
// LIFO stack (see DESIGN.md): the accepted language and final SPPF are
// the same fixed point regardless of draining order, so LIFO is chosen
// only because it reads depth-first in traces.
func (s *Store) PopReady() (Descriptor, bool) {
	v, ok := s.r.Pop()
	if !ok {
		return Descriptor{}, false
	}
	return v.(Descriptor), true
}

// Create materializes the return frame v = (l, j) (reusing it if already
// present), and ensures an edge v → u labeled w exists. If the edge is
// newly added, for every (v, z) ∈ P it schedules
// add(l, u, z.right, getNodeP(l, w, z)) — delivering sub-derivations
// already computed for v to the newly wired caller u.
func (s *Store) Create(l grammar.Label, u, j, w int) int {
	v := s.nodeFor(l, j)
	if s.addEdge(v, u, w) {
		tracer().Debugf("gss: create %s -> u=%d w=%d (new edge)", s.nodes[v], u, w)
		for _, z := range s.poppedFrom(v) {
			s.Add(l, u, int(s.forest.Node(z).Extent.To()), s.forest.GetNodeP(s.g, l, w, z))
		}
	}
	return v
}

// addEdge adds edge v→u labeled w unless an edge between v and u already
// exists with that same weight — a duplicate (v,u,w) edge must never be
// created, but distinct weights between the same (v,u) pair are
// legitimate and are kept as separate edges.
func (s *Store) addEdge(v, u, w int) bool {
	for _, e := range s.out[v] {
		if e.To == u && e.W == w {
			return false
		}
	}
	s.out[v] = append(s.out[v], edge{To: u, W: w})
	return true
}

// poppedFrom snapshots P for all z such that (v, z) ∈ P. A snapshot
// suffices because add() inside the scan mutates R and U but never P.
func (s *Store) poppedFrom(v int) []int {
	var out []int
	for _, item := range s.p.Values() {
		k := item.(popKey)
		if k.U == v {
			out = append(out, s.pz[k])
		}
	}
	return out
}

// Pop implements pop(u, j, z): if u is not the initial node, records
// (u, z) ∈ P and, for every out-edge u → to labeled w, schedules
// add(L(u), to, j, getNodeP(L(u), w, z)).
//
// Correctness-critical: the label passed to getNodeP and to the resumed
// descriptor is L(u) — the label stored in the popping node u = (L, pos)
// itself — the SAME label for every edge the loop walks, never the label
// of whichever caller node "to" an edge happens to point to. u's label is
// exactly the continuation slot that was current in the calling
// production at the moment create() built this frame (see Create above);
// every caller sharing this frame therefore shares that one continuation,
// which is the entire point of collapsing them into a single GSS node.
// Reading "to"'s own label here instead (an earlier, incorrect draft of
// this store did exactly that) resumes callers at whatever unrelated slot
// "to" itself happens to be labeled with, corrupting the derivation.
func (s *Store) Pop(u, j, z int) {
	if u == Initial {
		return // popping at the initial frame only terminates that path
	}
	key := popKey{U: u, Z: z}
	s.p.Add(key)
	s.pz[key] = z
	l := s.nodes[u].L
	for _, e := range s.out[u] {
		s.Add(l, e.To, j, s.forest.GetNodeP(s.g, l, e.W, z))
	}
	tracer().Debugf("gss: pop u=%d j=%d z=%d (%d callers resumed)", u, j, z, len(s.out[u]))
}

// Label returns the label component of GSS node idx.
func (s *Store) Label(idx int) grammar.Label { return s.nodes[idx].L }

// Position returns the position component of GSS node idx.
func (s *Store) Position(idx int) int { return s.nodes[idx].Pos }

// Nodes returns the number of GSS nodes materialized so far, including the
// initial node.
func (s *Store) Nodes() int { return len(s.nodes) }

// Edges returns the number of distinct GSS edges added so far.
func (s *Store) Edges() int {
	n := 0
	for _, es := range s.out {
		n += len(es)
	}
	return n
}

// WriteDOT exports the GSS graph held in s to w in GraphViz DOT format,
// for debugging, in the spirit of sppf.WriteDOT.
func (s *Store) WriteDOT(w io.Writer) {
	io.WriteString(w, "digraph GSS {\n")
	for i, n := range s.nodes {
		io.WriteString(w, fmt.Sprintf("  n%d [label=%q];\n", i, n.String()))
	}
	for from, es := range s.out {
		for _, e := range es {
			io.WriteString(w, fmt.Sprintf("  n%d -> n%d [label=%d];\n", from, e.To, e.W))
		}
	}
	io.WriteString(w, "}\n")
}
