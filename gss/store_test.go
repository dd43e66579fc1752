package gss

import (
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/corwin-dev/gll/grammar"
	"github.com/corwin-dev/gll/sppf"
)

func setup(t *testing.T) func() {
	gtrace.SyntaxTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelInfo)
	return teardown
}

func prodOf(t *testing.T, g *grammar.Grammar, lhs string, rhsLen int) int {
	t.Helper()
	id, ok := -1, false
	for i, n := range g.Nonterminals {
		if n == lhs {
			id, ok = i, true
		}
	}
	if !ok {
		t.Fatalf("nonterminal %s not found", lhs)
	}
	for _, pi := range g.ProductionsOf(id) {
		if len(g.Productions[pi].RHS) == rhsLen {
			return pi
		}
	}
	t.Fatalf("no production %s with %d RHS symbols", lhs, rhsLen)
	return -1
}

// TestAddDedups verifies that Add only schedules a descriptor once for a
// given (L, u, w) at a given position j.
func TestAddDedups(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	g, err := grammar.Reference()
	if err != nil {
		t.Fatal(err)
	}
	forest := sppf.NewStore()
	store := NewStore(g, forest, 4)

	l := grammar.EntryLabelFor(g.Start)
	if !store.Add(l, Initial, 0, sppf.Dummy) {
		t.Fatal("first Add should schedule")
	}
	if store.Add(l, Initial, 0, sppf.Dummy) {
		t.Fatal("duplicate Add must not re-schedule")
	}
	if _, ok := store.PopReady(); !ok {
		t.Fatal("expected one ready descriptor")
	}
	if _, ok := store.PopReady(); ok {
		t.Fatal("expected R to be empty after draining the single descriptor")
	}
}

// TestCreatePopMultiCallerFanIn builds two distinct outer GSS contexts that
// both `create` an edge into the same shared return-frame v (same
// continuation label, same position), pops v once, and checks both
// outer contexts are resumed exactly once, each with v's own
// continuation label — the GSS "share the continuation, don't duplicate
// the work" property, and the crux of Open Question 1: the resumed
// label comes from v itself, not from whichever caller an edge targets.
func TestCreatePopMultiCallerFanIn(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	g, err := grammar.Reference()
	if err != nil {
		t.Fatal(err)
	}
	forest := sppf.NewStore()
	store := NewStore(g, forest, 10)

	asd := prodOf(t, g, "S", 3)                // S → A S d
	contLabel := grammar.SlotLabelFor(asd, 1) // continuation after A in "A S d"

	// Two distinct stand-ins for "the outer GSS context at call time",
	// built at different positions so they key to distinct nodes, and
	// labeled differently from v so that resuming with an edge target's
	// label instead of v's would be caught below.
	outerLabel := grammar.SlotLabelFor(asd, 2) // continuation after S in "A S d"
	outerA := store.Create(outerLabel, Initial, 0, sppf.Dummy)
	outerB := store.Create(outerLabel, Initial, 5, sppf.Dummy)
	if outerA == outerB {
		t.Fatal("outer contexts at different positions must be distinct GSS nodes")
	}

	v1 := store.Create(contLabel, outerA, 1, sppf.Dummy)
	v2 := store.Create(contLabel, outerB, 1, sppf.Dummy)
	if v1 != v2 {
		t.Fatalf("the same (label,position) must materialize one shared GSS node, got %d and %d", v1, v2)
	}

	r := forest.GetNodeT(grammar.T('a'), 1)
	store.Pop(v1, 2, r)

	seenCallers := map[int]bool{}
	for i := 0; i < 2; i++ {
		d, ok := store.PopReady()
		if !ok {
			t.Fatalf("expected 2 resumed descriptors, got %d", i)
		}
		if d.L != contLabel {
			t.Errorf("resumed descriptor must carry v's own (shared) label, got %s want %s", d.L, contLabel)
		}
		seenCallers[d.U] = true
	}
	if !seenCallers[outerA] || !seenCallers[outerB] {
		t.Error("both outer contexts must be resumed after v pops")
	}
	if _, ok := store.PopReady(); ok {
		t.Error("no further descriptors expected")
	}
}

// TestCreateAfterPopRetroactivelyWires covers a caller wired in AFTER its
// callee has already popped: it must still receive the already-computed
// sub-derivation, via the P set.
func TestCreateAfterPopRetroactivelyWires(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	g, err := grammar.Reference()
	if err != nil {
		t.Fatal(err)
	}
	forest := sppf.NewStore()
	store := NewStore(g, forest, 10)

	asd := prodOf(t, g, "S", 3)
	contLabel := grammar.SlotLabelFor(asd, 1)

	callerEarly := store.Create(contLabel, Initial, 0, sppf.Dummy)
	v := store.Create(contLabel, callerEarly, 1, sppf.Dummy)

	r := forest.GetNodeT(grammar.T('a'), 1)
	store.Pop(v, 2, r)
	if _, ok := store.PopReady(); !ok {
		t.Fatal("expected the early caller to be resumed immediately")
	}

	callerLate := store.Create(contLabel, Initial, 7, sppf.Dummy)
	vAgain := store.Create(contLabel, callerLate, 1, sppf.Dummy)
	if vAgain != v {
		t.Fatalf("re-creating the same (label,position) must return the existing node, got %d want %d", vAgain, v)
	}

	d, ok := store.PopReady()
	if !ok {
		t.Fatal("the late caller must be retroactively resumed from P")
	}
	if d.U != callerLate {
		t.Errorf("expected the retroactive descriptor to target the late caller, got u=%d want %d", d.U, callerLate)
	}
	if d.L != contLabel {
		t.Errorf("retroactive descriptor must carry v's own label, got %s", d.L)
	}
}

// TestPopAtInitialIsNoop checks that popping at the initial GSS node only
// terminates that path, scheduling nothing.
func TestPopAtInitialIsNoop(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	g, err := grammar.Reference()
	if err != nil {
		t.Fatal(err)
	}
	forest := sppf.NewStore()
	store := NewStore(g, forest, 4)
	store.Pop(Initial, 0, sppf.Dummy)
	if _, ok := store.PopReady(); ok {
		t.Error("popping the initial node must not schedule anything")
	}
}
