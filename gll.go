/*
Package gll implements a Generalized LL (GLL) recognizer/parser core.

GLL accepts any context-free grammar, including left-recursive and ambiguous
ones, and produces a Shared Packed Parse Forest (SPPF) representing every
derivation of the input. Package structure is as follows:

■ grammar: static description of nonterminals, terminals, productions and
GLL labels, plus FIRST/FOLLOW analysis.

■ sppf: an append-only arena of SPPF nodes with structural deduplication.

■ gss: the Graph-Structured Stack of return frames, and the descriptor
worklist sets that drive the dispatcher.

■ engine: the dispatch loop tying the three together.

■ tree: a best-effort derivation-tree reader for unambiguous SPPF regions.

The base package contains the Span type, used throughout the other packages
to describe input extents.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package gll

import "fmt"

// Sentinel is the end-of-input marker terminal. Every valid input byte
// slice must end with exactly one Sentinel byte.
const Sentinel byte = '$'

// Span is a small type for capturing a run of input positions. For every
// terminal and non-terminal, the parse forest tracks which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end, i.e. a half-open interval [From,To).
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y).
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull returns true for the zero Span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend grows s to also cover other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
