package grammar

// Reference builds the sample grammar used throughout the GLL literature:
// it has a useful mix of recursion through S (S → A S d, S → B S), direct
// ambiguity (A and B both derive "a"), and an ε-alternative.
//
//	S  → A S d | B S | ε
//	A  → a | c
//	B  → a | b
func Reference() (*Grammar, error) {
	b := NewBuilder()
	b.LHS("S").N("A").N("S").T('d').End()
	b.LHS("S").N("B").N("S").End()
	b.LHS("S").Eps().End()
	b.LHS("A").T('a').End()
	b.LHS("A").T('c').End()
	b.LHS("B").T('a').End()
	b.LHS("B").T('b').End()
	return b.Build("S")
}
