/*
Package gll is a Generalized LL (GLL) parsing toolbox.

GLL strives to be a small, reusable engine for recognizing arbitrary
context-free grammars — including left-recursive and ambiguous ones — and
constructing a Shared Packed Parse Forest (SPPF) of every derivation.
Package structure is as follows:

■ grammar: Package grammar describes nonterminals, terminals, productions
and GLL dispatch labels, together with FIRST/FOLLOW/nullable analysis and a
fluent grammar builder.

■ sppf: Package sppf implements the Shared Packed Parse Forest as an
append-only, structurally deduplicated node arena.

■ gss: Package gss implements the Graph-Structured Stack of return frames
and the descriptor worklist sets (U, R, P) that drive the dispatcher.

■ engine: Package engine implements the dispatch loop binding grammar, sppf
and gss together into one driver function, Parse.

■ tree: Package tree reads an unambiguous region of an SPPF into a small
derivation tree.

The base package contains the Span type, used throughout the other packages
to describe input extents.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gll
