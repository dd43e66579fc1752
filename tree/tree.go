/*
Package tree extracts a best-effort derivation tree from an unambiguous
region of an SPPF, for human inspection. It deliberately does not attempt
to resolve ambiguity by picking a winner: silently picking one derivation
out of several would misrepresent the parse, so Extract instead returns
ErrAmbiguous naming the offending node.

The tree it builds is a small cons-list in the spirit of terex's
Atom/GCons idiom, reduced to what a read-only derivation dump needs: no
evaluator, no environment, no rewriting, since there are no semantic
actions to evaluate.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corwin-dev/gll"
	"github.com/corwin-dev/gll/grammar"
	"github.com/corwin-dev/gll/sppf"
)

// ErrAmbiguous is returned, wrapped with the offending node's index, when
// Extract encounters a symbol or intermediate node with more than one
// packed child — i.e. a sub-derivation with more than one parse.
var ErrAmbiguous = errors.New("tree: ambiguous sub-derivation")

// Node is one cons cell of the extracted derivation tree: either a leaf
// (a terminal or an ε match, Children is nil) or an interior node (a
// nonterminal, Children holds its RHS symbols' sub-trees in order).
type Node struct {
	Sym      grammar.Symbol
	Extent   gll.Span
	Children []*Node
}

// Name renders n's symbol using g's nonterminal names, falling back to
// Symbol.String for terminals and ε.
func (n *Node) Name(g *grammar.Grammar) string {
	if n.Sym.Kind == grammar.NonterminalSymbol {
		return g.Nonterminals[n.Sym.ID]
	}
	return n.Sym.String()
}

// String renders n as a parenthesized s-expression, e.g. "(S (A "a") (S ε) "d")".
func (n *Node) String(g *grammar.Grammar) string {
	if len(n.Children) == 0 {
		return n.Name(g)
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String(g)
	}
	return fmt.Sprintf("(%s %s)", n.Name(g), strings.Join(parts, " "))
}

// Extract reads the derivation tree rooted at the symbol node idx out of
// forest. It fails with ErrAmbiguous if idx, or any intermediate node
// reached while flattening a production's children, has more than one
// packed child.
func Extract(g *grammar.Grammar, forest *sppf.Store, idx int) (*Node, error) {
	n := forest.Node(idx)
	if n.Kind != sppf.SymbolKind {
		return nil, fmt.Errorf("tree: node %d is not a symbol node (kind %d)", idx, n.Kind)
	}
	if n.Sym.IsEpsilon() {
		return &Node{Sym: n.Sym, Extent: n.Extent}, nil
	}
	packed := forest.PackedChildren(idx)
	if len(packed) == 0 {
		return &Node{Sym: n.Sym, Extent: n.Extent}, nil // terminal leaf
	}
	if len(packed) > 1 {
		return nil, fmt.Errorf("%w: symbol node %d has %d derivations", ErrAmbiguous, idx, len(packed))
	}
	children, err := extractPackedChildren(g, forest, packed[0])
	if err != nil {
		return nil, err
	}
	return &Node{Sym: n.Sym, Extent: n.Extent, Children: children}, nil
}

// extractPackedChildren flattens one packed node's 1 or 2 SPPF children,
// in RHS order, recursing through any intermediate node rather than
// emitting a tree.Node for it (intermediate nodes are an SPPF storage
// detail, not a grammar symbol).
func extractPackedChildren(g *grammar.Grammar, forest *sppf.Store, packedIdx int) ([]*Node, error) {
	p := forest.Node(packedIdx)
	var out []*Node
	for _, c := range p.Children {
		switch forest.Node(c).Kind {
		case sppf.IntermediateKind:
			sub, err := extractIntermediate(g, forest, c)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		case sppf.SymbolKind:
			node, err := Extract(g, forest, c)
			if err != nil {
				return nil, err
			}
			out = append(out, node)
		default:
			return nil, fmt.Errorf("tree: unexpected child kind %d of packed node %d", forest.Node(c).Kind, packedIdx)
		}
	}
	return out, nil
}

func extractIntermediate(g *grammar.Grammar, forest *sppf.Store, idx int) ([]*Node, error) {
	packed := forest.PackedChildren(idx)
	if len(packed) == 0 {
		return nil, fmt.Errorf("tree: intermediate node %d has no packed children", idx)
	}
	if len(packed) > 1 {
		return nil, fmt.Errorf("%w: intermediate node %d has %d derivations", ErrAmbiguous, idx, len(packed))
	}
	return extractPackedChildren(g, forest, packed[0])
}
