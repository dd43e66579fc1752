/*
Package grammar describes context-free grammars over byte-valued terminals
for the GLL engine in package engine.

A Grammar is a static, read-only description: nonterminals, terminals,
productions, and the GLL dispatch labels derived from them. It
additionally carries FIRST/FOLLOW/nullable analysis, computed once at
Build time, used by the driver to prune alternatives and continuations
that cannot possibly match.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package grammar

import (
	"fmt"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer returns the package-local trace sink.
func tracer() tracing.Trace {
	return gtrace.SyntaxTracer
}

// --- Symbols ----------------------------------------------------------

// SymbolKind classifies a Symbol.
type SymbolKind uint8

const (
	TerminalSymbol SymbolKind = iota
	NonterminalSymbol
	EpsilonSymbol
)

// Symbol is a tagged variant over Terminal(byte), Nonterminal(id) and
// Epsilon.
type Symbol struct {
	Kind SymbolKind
	Byte byte // valid for TerminalSymbol
	ID   int  // valid for NonterminalSymbol: index into Grammar.Nonterminals
}

// T builds a terminal symbol for byte b.
func T(b byte) Symbol { return Symbol{Kind: TerminalSymbol, Byte: b} }

// N builds a nonterminal symbol referencing nonterminal id.
func N(id int) Symbol { return Symbol{Kind: NonterminalSymbol, ID: id} }

// Eps is the unique epsilon symbol.
func Eps() Symbol { return Symbol{Kind: EpsilonSymbol} }

// IsEpsilon reports whether x is the epsilon symbol.
func (x Symbol) IsEpsilon() bool { return x.Kind == EpsilonSymbol }

// IsTerminal reports whether x is a terminal symbol.
func (x Symbol) IsTerminal() bool { return x.Kind == TerminalSymbol }

func (x Symbol) String() string {
	switch x.Kind {
	case TerminalSymbol:
		return fmt.Sprintf("%q", string(x.Byte))
	case EpsilonSymbol:
		return "ε"
	default:
		return fmt.Sprintf("N%d", x.ID)
	}
}

// --- Productions --------------------------------------------------------

// Production is one alternative of a nonterminal: LHS → RHS. An empty RHS
// denotes an ε-production; it is never written as a slice containing a
// single Eps() symbol.
type Production struct {
	LHS int
	RHS []Symbol
}

func (p Production) String() string {
	if len(p.RHS) == 0 {
		return fmt.Sprintf("N%d → ε", p.LHS)
	}
	s := fmt.Sprintf("N%d →", p.LHS)
	for _, x := range p.RHS {
		s += " " + x.String()
	}
	return s
}

// --- Labels ---------------------------------------------------------------

// LabelKind classifies a Label into one of its four shapes.
type LabelKind uint8

const (
	SchedulerLabel LabelKind = iota // L0
	ReturnLabel                     // Ret
	EntryLabel                      // nonterminal entry L_X
	SlotLabel                       // a dot position within one production
)

// Label is the opaque GLL dispatch tag the dispatcher resumes work at. A
// SlotLabel names a (production, dot) pair; dot runs 0..len(RHS)
// inclusive, one label per position, including the end-of-production
// label.
type Label struct {
	Kind LabelKind
	NT   int // nonterminal id: valid for EntryLabel
	Prod int // production index: valid for SlotLabel
	Dot  int // dot position in Productions[Prod].RHS: valid for SlotLabel
}

func (l Label) String() string {
	switch l.Kind {
	case SchedulerLabel:
		return "L0"
	case ReturnLabel:
		return "Ret"
	case EntryLabel:
		return fmt.Sprintf("L_N%d", l.NT)
	default:
		return fmt.Sprintf("L[%d,%d]", l.Prod, l.Dot)
	}
}

// Scheduler returns the L0 label.
func Scheduler() Label { return Label{Kind: SchedulerLabel} }

// Return returns the Ret label.
func Return() Label { return Label{Kind: ReturnLabel} }

// --- Action classes (code(L)) -----------------------------------------

// Action names the dispatcher code block to run for a label, i.e. code(L).
// Alt-entry and the two "post-dot" transitions collapse into a single
// Continue action here: the driver reads the next RHS symbol off
// Productions[Prod].RHS[Dot] generically rather than branching on a
// hand-labeled slot, so it cannot mis-transition the way a hand-written
// dispatch can (see the "continuation bug" design note). Continue still
// distinguishes dot 0 from later dots internally, since only a dot past
// the first symbol has already matched something to gate a continuation
// guard against.
type Action uint8

const (
	ActionScheduler Action = iota
	ActionNonterminalEntry
	ActionContinue
	ActionEpsilonEnd
	ActionProductionEnd
	ActionReturn
)

// Classify implements code(L): the dispatcher action for label l.
func (g *Grammar) Classify(l Label) Action {
	switch l.Kind {
	case SchedulerLabel:
		return ActionScheduler
	case ReturnLabel:
		return ActionReturn
	case EntryLabel:
		return ActionNonterminalEntry
	case SlotLabel:
		rhs := g.Productions[l.Prod].RHS
		if l.Dot == len(rhs) {
			if len(rhs) == 0 {
				return ActionEpsilonEnd
			}
			return ActionProductionEnd
		}
		return ActionContinue
	}
	panic(fmt.Sprintf("grammar: label %v has unknown kind", l))
}

// First implements first(L): true iff L marks the position immediately
// after the first RHS symbol of a production with more than one RHS
// symbol — the "first-child" marker that suppresses intermediate node
// creation in getNodeP. Resolved reading (see SPEC_FULL.md, Open
// Question 2): for
// single-symbol productions, dot 1 is simultaneously the end label, which
// must still produce a container node, hence the len(RHS)>1 guard.
func (g *Grammar) First(l Label) bool {
	if l.Kind != SlotLabel {
		return false
	}
	rhs := g.Productions[l.Prod].RHS
	return l.Dot == 1 && len(rhs) > 1
}

// End implements end(L): Some(X) iff the dot is past the last RHS symbol
// of a production for nonterminal X.
func (g *Grammar) End(l Label) (nt int, ok bool) {
	if l.Kind != SlotLabel {
		return 0, false
	}
	p := g.Productions[l.Prod]
	if l.Dot == len(p.RHS) {
		return p.LHS, true
	}
	return 0, false
}

// EntryLabelFor returns the nonterminal-entry label for nonterminal id nt.
func EntryLabelFor(nt int) Label { return Label{Kind: EntryLabel, NT: nt} }

// SlotLabelFor returns the slot label for dot position dot of production
// prod.
func SlotLabelFor(prod, dot int) Label { return Label{Kind: SlotLabel, Prod: prod, Dot: dot} }

// --- Grammar ----------------------------------------------------------

// Grammar is a read-only, analyzed context-free grammar over byte
// terminals, ready to drive the GLL engine.
type Grammar struct {
	Nonterminals []string     // names, indexed by nonterminal id
	Productions  []Production // all productions, across all nonterminals
	Start        int          // nonterminal id of the start symbol S

	prodsOf []([]int)     // nonterminal id -> indices into Productions
	nullable []bool       // nonterminal id -> is nullable
	first    [][256]bool  // nonterminal id -> FIRST set
	follow   [][256]bool  // nonterminal id -> FOLLOW set
	tailFirst [][][256]bool // [prod][dot] -> FIRST(RHS[dot:] · FOLLOW(LHS))
}

// ProductionsOf returns the production indices for nonterminal nt, in
// declaration order.
func (g *Grammar) ProductionsOf(nt int) []int { return g.prodsOf[nt] }

// NonterminalSymbol builds the Symbol referencing nonterminal nt.
func (g *Grammar) NonterminalSymbol(nt int) Symbol { return N(nt) }

// Nullable reports whether nonterminal nt can derive the empty string.
func (g *Grammar) Nullable(nt int) bool { return g.nullable[nt] }

// TestFirstOfProduction reports whether b could begin a viable derivation
// of production prod, used when entering a nonterminal to prune
// alternatives up front. Computed as FIRST(RHS · FOLLOW(LHS)) rather than
// the bare FIRST(RHS), so that a production whose entire RHS happens to
// be nullable is not pruned incorrectly; this is a superset of FIRST(RHS)
// and agrees with it whenever RHS is not fully nullable. ε-alternatives
// are handled by the caller (they have no RHS symbol to test against).
func (g *Grammar) TestFirstOfProduction(prod int, b byte) bool {
	return g.tailFirst[prod][0][b]
}

// TestContinuation reports whether b could begin a viable continuation at
// slot (prod, dot), i.e. b ∈ FIRST(RHS[dot:] · FOLLOW(LHS)). Only
// meaningful once dot > 0: at dot 0 nothing has been matched yet, so
// there is no continuation to gate — see the Continue case in
// engine.Parse.
func (g *Grammar) TestContinuation(prod, dot int, b byte) bool {
	return g.tailFirst[prod][dot][b]
}

// FirstOfStart reports whether b ∈ FIRST(S · {Sentinel}), the guard the
// driver checks before starting a parse: verify input[0] ∈ FIRST(S · $).
func (g *Grammar) FirstOfStart(b byte) bool {
	return g.first[g.Start][b] || (g.nullable[g.Start] && b == sentinelByte)
}

const sentinelByte = '$'
