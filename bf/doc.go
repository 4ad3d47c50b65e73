// Package bf parses, evaluates and normalizes boolean formulas.
//
// A formula is written in infix notation with the operators NOT, AND, XOR and OR,
// from highest to lowest priority, and parentheses. Each operator has several spellings,
// so that "!a && b", "~a & b", "¬a ∧ b" and "NOT a AND b" all denote the same formula.
// The variables of a formula must be declared by the caller:
//
//	f, err := bf.Parse("a AND NOT (b XOR c)", []string{"a", "b", "c"})
//
// A formula can be evaluated under an assignment of its variables, and rewritten into
// a conjunctive normal form (CNF) or a disjunctive normal form (DNF).
// A CNF is a conjunction of clauses, each clause being a disjunction of potentially negated variables.
// A DNF is a disjunction of terms, each term being a conjunction of potentially negated variables.
// For example, the formula
//
//	a XOR b
//
// has the CNF
//
//	(a OR b) AND (NOT b OR NOT a)
//
// and the DNF
//
//	a AND NOT b OR NOT a AND b
//
// The translation distributes operators and is thus exponential in the worst case.
// Tautologies and contradictions are detected with the gophersat solver
// and collapse to the constants TRUE and FALSE.
package bf
