/*
Package engine implements the GLL dispatch loop: a single worklist-driven
loop over four registers (cl, cu, ci, cn) that pops ready descriptors off
the GSS store's R set and runs the action block named by
grammar.Grammar.Classify(cl), until R is empty.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"

	"github.com/corwin-dev/gll"
	"github.com/corwin-dev/gll/grammar"
	"github.com/corwin-dev/gll/gss"
	"github.com/corwin-dev/gll/sppf"
)

func tracer() tracing.Trace {
	return gtrace.SyntaxTracer
}

// ErrEmptyInput and ErrMissingSentinel are the two malformed-input cases
// the driver rejects up front: it requires a non-empty byte slice ending
// in gll.Sentinel, since FOLLOW(Start) and the acceptance test are both
// defined in terms of that trailing byte.
var (
	ErrEmptyInput      = errors.New("engine: input must not be empty")
	ErrMissingSentinel = errors.New("engine: input must end with the sentinel byte")
)

// Result is everything a caller needs from one parse: whether it was
// accepted, the populated SPPF and GSS stores (useful for DOT export or
// tree.Extract), and, on acceptance, the index of the root symbol node.
type Result struct {
	Accepted bool
	Forest   *sppf.Store
	GSS      *gss.Store
	Root     int
}

// Parse runs the GLL recognizer for grammar g over input, which must be
// non-empty and end with gll.Sentinel. An InvariantViolation raised by
// sppf or gss is recovered here and returned as a plain error; any other
// panic is re-raised.
func Parse(g *grammar.Grammar, input []byte) (result Result, err error) {
	if len(input) == 0 {
		return Result{}, ErrEmptyInput
	}
	if input[len(input)-1] != gll.Sentinel {
		return Result{}, ErrMissingSentinel
	}

	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *sppf.InvariantViolation:
				err = e
			case *gss.InvariantViolation:
				err = e
			default:
				panic(r)
			}
		}
	}()

	forest := sppf.NewStore()
	m := len(input) - 1 // position of the sentinel byte; acceptance spans (0,m)

	if !g.FirstOfStart(input[0]) {
		tracer().Infof("engine: reject, input[0]=%q not in FIRST(S . $)", input[0])
		return Result{Accepted: false, Forest: forest}, nil
	}

	store := gss.NewStore(g, forest, len(input))
	store.Add(grammar.EntryLabelFor(g.Start), gss.Initial, 0, sppf.Dummy)

	var cl grammar.Label = grammar.Scheduler()
	var cu, ci, cn int

	for {
		switch g.Classify(cl) {

		case grammar.ActionScheduler:
			d, ok := store.PopReady()
			if !ok {
				startSym := g.NonterminalSymbol(g.Start)
				if root, found := forest.FindSymbol(startSym, 0, m); found {
					return Result{Accepted: true, Forest: forest, GSS: store, Root: root}, nil
				}
				return Result{Accepted: false, Forest: forest, GSS: store}, nil
			}
			cl, cu, ci, cn = d.L, d.U, d.J, d.W

		case grammar.ActionNonterminalEntry:
			for _, prod := range g.ProductionsOf(cl.NT) {
				rhs := g.Productions[prod].RHS
				viable := len(rhs) == 0
				if !viable && ci < len(input) {
					viable = g.TestFirstOfProduction(prod, input[ci])
				}
				if viable {
					store.Add(grammar.SlotLabelFor(prod, 0), cu, ci, sppf.Dummy)
				}
			}
			cl = grammar.Scheduler()

		case grammar.ActionContinue:
			rhs := g.Productions[cl.Prod].RHS
			sym := rhs[cl.Dot]
			next := grammar.SlotLabelFor(cl.Prod, cl.Dot+1)
			if sym.IsTerminal() {
				if ci < len(input) && input[ci] == sym.Byte {
					t := forest.GetNodeT(sym, ci)
					ci++
					cn = forest.GetNodeP(g, next, cn, t)
					cl = next
				} else {
					cl = grammar.Scheduler()
				}
			} else {
				// Alt entry (cl.Dot == 0): create + jump unconditionally.
				// Nonterminal-entry already confirmed input[ci] is viable
				// for this production as a whole via TestFirstOfProduction,
				// which is the same FIRST(RHS · FOLLOW(LHS)) test.
				//
				// Past the first symbol (cl.Dot > 0), something has
				// already been matched before sym, so gate on whether
				// input[ci] can begin sym and the rest of the production
				// from here: FIRST(RHS[dot:] · FOLLOW(LHS)).
				viable := cl.Dot == 0 || (ci < len(input) && g.TestContinuation(cl.Prod, cl.Dot, input[ci]))
				if viable {
					v := store.Create(next, cu, ci, cn)
					cu = v
					cl = grammar.EntryLabelFor(sym.ID)
				} else {
					cl = grammar.Scheduler()
				}
			}

		case grammar.ActionEpsilonEnd:
			z := forest.GetNodeT(grammar.Eps(), ci)
			cn = forest.GetNodeP(g, cl, sppf.Dummy, z)
			cl = grammar.Return()

		case grammar.ActionProductionEnd:
			cl = grammar.Return()

		case grammar.ActionReturn:
			store.Pop(cu, ci, cn)
			cl = grammar.Scheduler()

		default:
			panic(fmt.Sprintf("engine: unhandled action for label %s", cl))
		}
	}
}
