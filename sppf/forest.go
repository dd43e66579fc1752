package sppf

/*
Code for SPPFs are rare, mostly found in academic papers. One of them
is "SPPF-Style Parsing From Earley Recognisers" by Elizabeth Scott
(https://www.sciencedirect.com/science/article/pii/S1571066108001497).
This package follows the classical GLL formulation of the structure: an
append-only arena of four node shapes (Dummy, SymbolNode, IntermediateNode,
PackedNode), addressed by integer index rather than by pointer, so that
packed-child lists can reference earlier arena entries without ever being
invalidated by later growth.

A symbol node [X (k…i)] represents recognition of nonterminal or terminal
X over input span (k…i). An intermediate node [L (k…i)] represents a
partially recognized production at dot position L, before a container
symbol node exists for it. Ambiguity — more than one way to derive the
same span — is expressed exclusively by attaching more than one packed
node as a child of the same symbol/intermediate node; a packed node groups
the one or two SPPF children ([w,z] or [z]) that one grammar step
produced, with the pivot marking the split point between them.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"io"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/corwin-dev/gll"
	"github.com/corwin-dev/gll/grammar"
)

// Kind discriminates the four SPPF node shapes.
type Kind uint8

const (
	DummyKind Kind = iota
	SymbolKind
	IntermediateKind
	PackedKind
)

// Dummy is the index of the sentinel "no SPPF yet" node, by convention 0.
const Dummy = 0

// Node is one entry of the SPPF arena. Which fields are meaningful depends
// on Kind:
//   - SymbolKind:       Sym, Extent, Children (packed-node indices)
//   - IntermediateKind: Label, Extent, Children (packed-node indices)
//   - PackedKind:       Label, Pivot, Children (1 or 2 SPPF indices: [w,z] or [z])
//   - DummyKind:        none
type Node struct {
	Kind     Kind
	Sym      grammar.Symbol
	Label    grammar.Label
	Extent   gll.Span
	Pivot    int
	Children []int
}

// InvariantViolation is raised (as a panic) whenever the SPPF is asked to
// do something the classical GLL construction says can't happen: a
// mismatched pivot, a Dummy or packed node where a symbol or intermediate
// node is required, and the like.
// engine.Parse recovers it and turns it into a returned error.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "sppf: " + e.Msg }

func violate(format string, args ...interface{}) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

// Store is the append-only SPPF arena. It grows monotonically over the
// course of one parse and is never shared across parses.
type Store struct {
	nodes        []Node
	symbolIndex  map[string]int // key: (Sym, left, right)
	interIndex   map[string]int // key: (Label, left, right)
	packedIndex  map[string]int // key: (container, Label, pivot) — uniqueness is scoped per container
	packedOrder  map[int]*arraylist.List
}

// NewStore returns an empty forest containing only the Dummy node.
func NewStore() *Store {
	s := &Store{
		nodes:       []Node{{Kind: DummyKind}},
		symbolIndex: make(map[string]int),
		interIndex:  make(map[string]int),
		packedIndex: make(map[string]int),
		packedOrder: make(map[int]*arraylist.List),
	}
	return s
}

// Node returns the arena entry at index i.
func (s *Store) Node(i int) Node { return s.nodes[i] }

// Len returns the number of nodes in the arena, including Dummy.
func (s *Store) Len() int { return len(s.nodes) }

// --- getNodeT, getNodeP -----------------------------------------------

// GetNodeT returns a symbol node for terminal or epsilon symbol x at
// position i: spanning [i,i+1) for a terminal, or [i,i) for ε.
// Deduplicated by (x, left, right).
func (s *Store) GetNodeT(x grammar.Symbol, i int) int {
	left, right := i, i
	if !x.IsEpsilon() {
		right = i + 1
	}
	return s.internSymbol(x, left, right)
}

// GetNodeP builds the SPPF node representing a sub-derivation
// continuation:
//
//   - if first(l) holds, z is returned unchanged (no intermediate needed
//     when only one symbol has been matched so far);
//   - otherwise the pivot k = z.left, i = z.right; if w is not Dummy,
//     j = w.left and w.right MUST equal k;
//   - the container is a symbol node if end(l) names a nonterminal, else
//     an intermediate node for l, spanning (j,i) when w ≠ Dummy or (k,i)
//     otherwise (j = k in that case);
//   - a packed child (l, k) with children [w,z] or [z] is added to the
//     container, unless one with the same (l, k) already exists.
func (s *Store) GetNodeP(g *grammar.Grammar, l grammar.Label, w, z int) int {
	if g.First(l) {
		return z
	}
	if z == Dummy {
		violate("getNodeP: z must not be Dummy")
	}
	zn := s.nodes[z]
	if zn.Kind != SymbolKind && zn.Kind != IntermediateKind {
		violate("getNodeP: z (index %d) is not a symbol or intermediate node", z)
	}
	k := int(zn.Extent.From())
	i := int(zn.Extent.To())
	j := k
	if w != Dummy {
		wn := s.nodes[w]
		if wn.Kind != SymbolKind && wn.Kind != IntermediateKind {
			violate("getNodeP: w (index %d) is not a symbol or intermediate node", w)
		}
		j = int(wn.Extent.From())
		if int(wn.Extent.To()) != k {
			violate("getNodeP: w.right (%d) != z.left (%d)", wn.Extent.To(), k)
		}
	}
	var container int
	if nt, ok := g.End(l); ok {
		container = s.internSymbol(g.NonterminalSymbol(nt), j, i)
	} else {
		container = s.internIntermediate(l, j, i)
	}
	s.addPackedChild(container, l, k, w, z)
	return container
}

// FindSymbol looks up a symbol node for (x, left, right), as used by the
// scheduler's acceptance test (symbol(S, 0, m) present in the arena?).
func (s *Store) FindSymbol(x grammar.Symbol, left, right int) (int, bool) {
	key := s.symbolKey(x, left, right)
	idx, ok := s.symbolIndex[key]
	return idx, ok
}

func (s *Store) internSymbol(x grammar.Symbol, left, right int) int {
	key := s.symbolKey(x, left, right)
	if idx, ok := s.symbolIndex[key]; ok {
		return idx
	}
	idx := len(s.nodes)
	s.nodes = append(s.nodes, Node{
		Kind:   SymbolKind,
		Sym:    x,
		Extent: gll.Span{uint64(left), uint64(right)},
	})
	s.symbolIndex[key] = idx
	T().Debugf("sppf: new symbol node %d: %s %s", idx, x, s.nodes[idx].Extent)
	return idx
}

func (s *Store) internIntermediate(l grammar.Label, left, right int) int {
	key := s.intermediateKey(l, left, right)
	if idx, ok := s.interIndex[key]; ok {
		return idx
	}
	idx := len(s.nodes)
	s.nodes = append(s.nodes, Node{
		Kind:   IntermediateKind,
		Label:  l,
		Extent: gll.Span{uint64(left), uint64(right)},
	})
	s.interIndex[key] = idx
	T().Debugf("sppf: new intermediate node %d: %s %s", idx, l, s.nodes[idx].Extent)
	return idx
}

func (s *Store) addPackedChild(container int, l grammar.Label, pivot, w, z int) {
	key := s.packedKey(container, l, pivot)
	if _, ok := s.packedIndex[key]; ok {
		return // packed uniqueness: a (label, pivot) pair is added at most once per container
	}
	var children []int
	if w != Dummy {
		children = []int{w, z}
	} else {
		children = []int{z}
	}
	idx := len(s.nodes)
	s.nodes = append(s.nodes, Node{Kind: PackedKind, Label: l, Pivot: pivot, Children: children})
	s.packedIndex[key] = idx
	if _, ok := s.packedOrder[container]; !ok {
		s.packedOrder[container] = arraylist.New()
	}
	s.packedOrder[container].Add(idx)
	node := s.nodes[container]
	node.Children = append(node.Children, idx)
	s.nodes[container] = node
	T().Debugf("sppf: packed child %d (%s, pivot=%d) under container %d", idx, l, pivot, container)
}

// --- dedup keys -------------------------------------------------------------

type symbolKeyT struct {
	Kind grammar.SymbolKind
	Byte byte
	ID   int
	L, R int
}

func (s *Store) symbolKey(x grammar.Symbol, left, right int) string {
	h, err := structhash.Hash(symbolKeyT{x.Kind, x.Byte, x.ID, left, right}, 1)
	if err != nil {
		violate("symbolKey: %v", err)
	}
	return h
}

type intermediateKeyT struct {
	L     grammar.Label
	Left  int
	Right int
}

func (s *Store) intermediateKey(l grammar.Label, left, right int) string {
	h, err := structhash.Hash(intermediateKeyT{l, left, right}, 1)
	if err != nil {
		violate("intermediateKey: %v", err)
	}
	return h
}

type packedKeyT struct {
	Container int
	L         grammar.Label
	Pivot     int
}

func (s *Store) packedKey(container int, l grammar.Label, pivot int) string {
	h, err := structhash.Hash(packedKeyT{container, l, pivot}, 1)
	if err != nil {
		violate("packedKey: %v", err)
	}
	return h
}

// --- GraphViz ---------------------------------------------------------------

// WriteDOT exports the SPPF held in s to w in GraphViz DOT format, for
// debugging. Symbol nodes print their textual form followed by their
// extent, intermediate nodes print "I" followed by their extent, packed
// nodes print "P", and the dummy node prints "D". This
// is purely informational; the core engine does not require it.
func WriteDOT(s *Store, w io.Writer) {
	io.WriteString(w, "digraph SPPF {\n")
	io.WriteString(w, "  node [fontname=\"Helvetica\",shape=box,fontsize=10];\n")
	io.WriteString(w, "  edge [fontname=\"Helvetica\",fontsize=9];\n")
	for i, n := range s.nodes {
		label, shape := dotLabel(n)
		io.WriteString(w, fmt.Sprintf("  n%d [label=%q,shape=%s];\n", i, label, shape))
	}
	for i, n := range s.nodes {
		for seq, c := range n.Children {
			io.WriteString(w, fmt.Sprintf("  n%d -> n%d [label=%d];\n", i, c, seq))
		}
	}
	io.WriteString(w, "}\n")
}

func dotLabel(n Node) (label, shape string) {
	switch n.Kind {
	case DummyKind:
		return "D", "ellipse"
	case SymbolKind:
		return fmt.Sprintf("%s %s", n.Sym, n.Extent), "box"
	case IntermediateKind:
		return fmt.Sprintf("I %s", n.Extent), "box"
	case PackedKind:
		return "P", "circle"
	}
	return "?", "box"
}
