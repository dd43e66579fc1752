package grammar

import "fmt"

// Builder assembles a Grammar using a small fluent API, in the style of
// gorgo's LR grammar builder (b.LHS("S").N("A").T('a').End()). A Builder is
// not safe for concurrent use; discard it after calling Build.
type Builder struct {
	names   []string
	ids     map[string]int
	prods   []Production
	lhs     int
	rhs     []Symbol
	pending bool // an LHS()…End() sequence is open
	err     error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{ids: make(map[string]int)}
}

func (b *Builder) nt(name string) int {
	if id, ok := b.ids[name]; ok {
		return id
	}
	id := len(b.names)
	b.names = append(b.names, name)
	b.ids[name] = id
	return id
}

// LHS starts a new production for nonterminal name.
func (b *Builder) LHS(name string) *Builder {
	if b.pending {
		b.err = fmt.Errorf("grammar: LHS(%q) called before End() of a previous production", name)
		return b
	}
	b.lhs = b.nt(name)
	b.rhs = nil
	b.pending = true
	return b
}

// T appends a terminal symbol for byte b to the production under
// construction.
func (b *Builder) T(c byte) *Builder {
	b.rhs = append(b.rhs, T(c))
	return b
}

// N appends a reference to nonterminal name to the production under
// construction.
func (b *Builder) N(name string) *Builder {
	b.rhs = append(b.rhs, N(b.nt(name)))
	return b
}

// Eps marks the production under construction as an ε-production. It must
// be the only call between LHS and End.
func (b *Builder) Eps() *Builder {
	if len(b.rhs) != 0 {
		b.err = fmt.Errorf("grammar: Eps() combined with other RHS symbols")
	}
	return b
}

// End finalizes the production under construction and appends it to the
// grammar being built.
func (b *Builder) End() *Builder {
	if !b.pending {
		b.err = fmt.Errorf("grammar: End() called without a preceding LHS()")
		return b
	}
	b.prods = append(b.prods, Production{LHS: b.lhs, RHS: b.rhs})
	b.pending = false
	return b
}

// Build finalizes the grammar, runs FIRST/FOLLOW/nullable analysis, and
// designates start as the start nonterminal.
func (b *Builder) Build(start string) (*Grammar, error) {
	if b.pending {
		return nil, fmt.Errorf("grammar: Build() called with an open LHS()…End() sequence")
	}
	if b.err != nil {
		return nil, b.err
	}
	startID, ok := b.ids[start]
	if !ok {
		return nil, fmt.Errorf("grammar: unknown start nonterminal %q", start)
	}
	g := &Grammar{
		Nonterminals: b.names,
		Productions:  b.prods,
		Start:        startID,
	}
	g.prodsOf = make([][]int, len(g.Nonterminals))
	for i, p := range g.Productions {
		g.prodsOf[p.LHS] = append(g.prodsOf[p.LHS], i)
	}
	g.analyze()
	tracer().Infof("grammar: built %d nonterminals, %d productions, start=%s",
		len(g.Nonterminals), len(g.Productions), start)
	return g, nil
}

// analyze computes nullable, FIRST, FOLLOW and the per-slot tail-FIRST
// tables by classical fixpoint iteration. The terminal alphabet is
// byte-sized, so every set is a [256]bool.
func (g *Grammar) analyze() {
	n := len(g.Nonterminals)
	g.nullable = make([]bool, n)
	g.first = make([][256]bool, n)
	g.follow = make([][256]bool, n)
	g.follow[g.Start][sentinelByte] = true // classical seed: $ follows the start symbol

	for changed := true; changed; {
		changed = false
		for _, p := range g.Productions {
			if len(p.RHS) == 0 {
				if !g.nullable[p.LHS] {
					g.nullable[p.LHS] = true
					changed = true
				}
				continue
			}
			allNullableSoFar := true
			for _, x := range p.RHS {
				if !allNullableSoFar {
					break
				}
				switch x.Kind {
				case TerminalSymbol:
					if !g.first[p.LHS][x.Byte] {
						g.first[p.LHS][x.Byte] = true
						changed = true
					}
					allNullableSoFar = false
				case NonterminalSymbol:
					for c := 0; c < 256; c++ {
						if g.first[x.ID][c] && !g.first[p.LHS][c] {
							g.first[p.LHS][c] = true
							changed = true
						}
					}
					if !g.nullable[x.ID] {
						allNullableSoFar = false
					}
				}
			}
			if allNullableSoFar && !g.nullable[p.LHS] {
				g.nullable[p.LHS] = true
				changed = true
			}
		}
		for _, p := range g.Productions {
			for i, x := range p.RHS {
				if x.Kind != NonterminalSymbol {
					continue
				}
				tailNullable := true
				for j := i + 1; j < len(p.RHS); j++ {
					y := p.RHS[j]
					if !tailNullable {
						break
					}
					switch y.Kind {
					case TerminalSymbol:
						if !g.follow[x.ID][y.Byte] {
							g.follow[x.ID][y.Byte] = true
							changed = true
						}
						tailNullable = false
					case NonterminalSymbol:
						for c := 0; c < 256; c++ {
							if g.first[y.ID][c] && !g.follow[x.ID][c] {
								g.follow[x.ID][c] = true
								changed = true
							}
						}
						if !g.nullable[y.ID] {
							tailNullable = false
						}
					}
				}
				if tailNullable {
					for c := 0; c < 256; c++ {
						if g.follow[p.LHS][c] && !g.follow[x.ID][c] {
							g.follow[x.ID][c] = true
							changed = true
						}
					}
				}
			}
		}
	}

	g.tailFirst = make([][][256]bool, len(g.Productions))
	for pi, p := range g.Productions {
		g.tailFirst[pi] = make([][256]bool, len(p.RHS)+1)
		for dot := len(p.RHS); dot >= 0; dot-- {
			g.tailFirst[pi][dot] = g.firstOfTail(p, dot)
		}
	}
}

// firstOfTail computes FIRST(RHS[dot:] · FOLLOW(LHS)) for production p.
func (g *Grammar) firstOfTail(p Production, dot int) [256]bool {
	var set [256]bool
	nullable := true
	for i := dot; i < len(p.RHS) && nullable; i++ {
		x := p.RHS[i]
		switch x.Kind {
		case TerminalSymbol:
			set[x.Byte] = true
			nullable = false
		case NonterminalSymbol:
			for c := 0; c < 256; c++ {
				if g.first[x.ID][c] {
					set[c] = true
				}
			}
			if !g.nullable[x.ID] {
				nullable = false
			}
		}
	}
	if nullable {
		for c := 0; c < 256; c++ {
			if g.follow[p.LHS][c] {
				set[c] = true
			}
		}
	}
	return set
}
