package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func setup(t *testing.T) func() {
	gtrace.SyntaxTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelInfo)
	return teardown
}

func TestReferenceBuilds(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	g, err := Reference()
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nonterminals) != 3 {
		t.Errorf("expected 3 nonterminals, got %d", len(g.Nonterminals))
	}
	if len(g.Productions) != 7 {
		t.Errorf("expected 7 productions, got %d", len(g.Productions))
	}
}

func TestNullableS(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	g, err := Reference()
	if err != nil {
		t.Fatal(err)
	}
	if !g.Nullable(g.Start) {
		t.Error("S should be nullable via S → ε")
	}
	for _, name := range []string{"A", "B"} {
		id, ok := idOf(g, name)
		if !ok {
			t.Fatalf("nonterminal %s not found", name)
		}
		if g.Nullable(id) {
			t.Errorf("%s should not be nullable", name)
		}
	}
}

func TestFirstOfStart(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	g, err := Reference()
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range []byte{'a', 'b', 'c', '$'} {
		if !g.FirstOfStart(b) {
			t.Errorf("expected %q in FIRST(S · $)", b)
		}
	}
	if g.FirstOfStart('d') {
		t.Error("'d' should not be in FIRST(S · $): no alternative of S begins with d, and $ ≠ d")
	}
}

func TestClassifyLabelClasses(t *testing.T) {
	teardown := setup(t)
	defer teardown()
	g, err := Reference()
	if err != nil {
		t.Fatal(err)
	}
	if g.Classify(Scheduler()) != ActionScheduler {
		t.Error("L0 must classify as ActionScheduler")
	}
	if g.Classify(Return()) != ActionReturn {
		t.Error("Ret must classify as ActionReturn")
	}
	if g.Classify(EntryLabelFor(g.Start)) != ActionNonterminalEntry {
		t.Error("a nonterminal entry label must classify as ActionNonterminalEntry")
	}

	epsProd := -1
	for i, p := range g.Productions {
		if p.LHS == g.Start && len(p.RHS) == 0 {
			epsProd = i
		}
	}
	if epsProd < 0 {
		t.Fatal("reference grammar must have an ε-production for S")
	}
	if g.Classify(SlotLabelFor(epsProd, 0)) != ActionEpsilonEnd {
		t.Error("dot=0 of an ε-production must classify as ActionEpsilonEnd")
	}

	// S → A S d: slot after the first symbol is dot=1, not yet at the end.
	var asd int = -1
	for i, p := range g.Productions {
		if p.LHS == g.Start && len(p.RHS) == 3 {
			asd = i
		}
	}
	if asd < 0 {
		t.Fatal("reference grammar must have S → A S d")
	}
	if g.Classify(SlotLabelFor(asd, 1)) != ActionContinue {
		t.Error("interior dot must classify as ActionContinue")
	}
	if g.Classify(SlotLabelFor(asd, 3)) != ActionProductionEnd {
		t.Error("dot=len(RHS) of a non-empty production must classify as ActionProductionEnd")
	}
	if !g.First(SlotLabelFor(asd, 1)) {
		t.Error("dot=1 of a 3-symbol production must satisfy first(L)")
	}
	if nt, ok := g.End(SlotLabelFor(asd, 3)); !ok || nt != g.Start {
		t.Error("dot=3 of S → A S d must satisfy end(L) = Some(S)")
	}
}

func idOf(g *Grammar, name string) (int, bool) {
	for i, n := range g.Nonterminals {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
