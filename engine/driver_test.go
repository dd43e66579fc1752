package engine_test

import (
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/corwin-dev/gll/engine"
	"github.com/corwin-dev/gll/grammar"
)

func setup(t *testing.T) func() {
	gtrace.SyntaxTracer = gotestingadapter.New()
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelInfo)
	return teardown
}

// These scenarios are the classical GLL reference-grammar walkthrough:
// S → A S d | B S | ε; A → a | c; B → a | b.

func TestAcceptUnambiguousInputs(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	g, err := grammar.Reference()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		input       string
		wantPackedAtRoot int
	}{
		{"$", 1},    // S → ε
		{"a$", 1},   // S → B S, B → a, S → ε
		{"ad$", 1},  // S → A S d, A → a, S → ε
		{"ab$", 1},  // S → B S (a) → S → B S (b) → ε
		{"cd$", 1},  // S → A S d, A → c, S → ε
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			result, err := engine.Parse(g, []byte(c.input))
			if err != nil {
				t.Fatalf("Parse(%q): unexpected error %v", c.input, err)
			}
			if !result.Accepted {
				t.Fatalf("Parse(%q): expected Accepted, got Reject", c.input)
			}
			if err := result.Forest.CheckInvariants(); err != nil {
				t.Fatalf("Parse(%q): invariant violation: %v", c.input, err)
			}
			packed := result.Forest.PackedChildren(result.Root)
			if len(packed) != c.wantPackedAtRoot {
				t.Errorf("Parse(%q): root has %d packed children, want %d", c.input, len(packed), c.wantPackedAtRoot)
			}
		})
	}
}

// TestAcceptAmbiguousInput covers "aad$", which the reference grammar
// derives two distinct ways: S → A(a) S(a via B S) d, and
// S → B(a) S(A(a) S(ε) d) — both spanning the whole input, so the root
// symbol node must carry exactly two packed children.
func TestAcceptAmbiguousInput(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	g, err := grammar.Reference()
	if err != nil {
		t.Fatal(err)
	}
	result, err := engine.Parse(g, []byte("aad$"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Accepted {
		t.Fatal("expected Accepted")
	}
	if err := result.Forest.CheckInvariants(); err != nil {
		t.Fatalf("invariant violation: %v", err)
	}
	packed := result.Forest.PackedChildren(result.Root)
	if len(packed) != 2 {
		t.Errorf("root has %d packed children, want 2 (ambiguous derivation)", len(packed))
	}
}

func TestRejectInputNotInFirstOfStart(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	g, err := grammar.Reference()
	if err != nil {
		t.Fatal(err)
	}
	result, err := engine.Parse(g, []byte("d$"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Accepted {
		t.Error("expected Reject for input[0] not in FIRST(S . $)")
	}
}

// TestAltEntryIsUnconditional covers a grammar where a nonterminal's own
// FIRST set is not a subset of what follows it in the production:
// S → Y c (only alternative), Y → a (only alternative). The Alt-entry
// transition into Y must fire unconditionally on dot 0 rather than
// gating on FIRST(c · FOLLOW(S)) = {c}, which would wrongly reject "a"
// even though Y derives it.
func TestAltEntryIsUnconditional(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	g, err := grammar.NewBuilder().
		LHS("S").N("Y").T('c').End().
		LHS("Y").T('a').End().
		Build("S")
	if err != nil {
		t.Fatal(err)
	}

	result, err := engine.Parse(g, []byte("ac$"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Accepted {
		t.Fatal("expected Accepted: S → Y c, Y → a derives \"ac\"")
	}
	if err := result.Forest.CheckInvariants(); err != nil {
		t.Fatalf("invariant violation: %v", err)
	}
}

func TestMalformedInput(t *testing.T) {
	teardown := setup(t)
	defer teardown()

	g, err := grammar.Reference()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := engine.Parse(g, []byte("")); err != engine.ErrEmptyInput {
		t.Errorf("empty input: got error %v, want ErrEmptyInput", err)
	}
	if _, err := engine.Parse(g, []byte("a")); err != engine.ErrMissingSentinel {
		t.Errorf("missing sentinel: got error %v, want ErrMissingSentinel", err)
	}
}
