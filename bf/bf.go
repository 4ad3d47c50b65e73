package bf

import (
	"fmt"
	"strings"
)

// An Assignment binds variable names to boolean values.
type Assignment map[string]bool

// A Formula is a boolean expression tree.
// The set of implementations is closed: Constant, Variable, Negation, Conjunction, Disjunction and ExclusiveOr.
type Formula interface {
	// Eval evaluates the formula under the given model.
	// It panics if the model lacks a binding for one of the variables of the formula.
	Eval(model Assignment) bool
	// String renders the formula with as few parentheses as possible.
	// The result can be parsed back with Parse into an equivalent formula.
	String() string
	prec() int
}

// Operator precedence, from lowest to highest.
const (
	precOr = iota + 1
	precXor
	precAnd
	precNot
	precAtom
)

// A Constant is either TRUE or FALSE.
type Constant bool

// True is the constant denoting a tautology.
var True Formula = Constant(true)

// False is the constant denoting a contradiction.
var False Formula = Constant(false)

func (c Constant) Eval(model Assignment) bool { return bool(c) }
func (c Constant) prec() int                  { return precAtom }

func (c Constant) String() string {
	if c {
		return "TRUE"
	}
	return "FALSE"
}

// A Variable is a named boolean variable.
type Variable struct {
	Name string
}

// Var generates a named boolean variable in a formula.
func Var(name string) Formula {
	return Variable{Name: name}
}

func (v Variable) prec() int      { return precAtom }
func (v Variable) String() string { return v.Name }

func (v Variable) Eval(model Assignment) bool {
	b, ok := model[v.Name]
	if !ok {
		panic(fmt.Errorf("model lacks binding for variable %s", v.Name))
	}
	return b
}

// A Negation is the logical negation of its subformula.
type Negation struct {
	X Formula
}

// Not represents a negation. It negates the given subformula.
func Not(f Formula) Formula {
	return Negation{X: f}
}

func (n Negation) Eval(model Assignment) bool { return !n.X.Eval(model) }
func (n Negation) prec() int                  { return precNot }

func (n Negation) String() string {
	if n.X.prec() < precNot {
		return "NOT (" + n.X.String() + ")"
	}
	return "NOT " + n.X.String()
}

// A Conjunction is true iff both its operands are true.
type Conjunction struct {
	L, R Formula
}

func (a Conjunction) Eval(model Assignment) bool { return a.L.Eval(model) && a.R.Eval(model) }
func (a Conjunction) prec() int                  { return precAnd }
func (a Conjunction) String() string             { return binaryString(a.L, "AND", a.R, precAnd) }

// A Disjunction is true iff at least one of its operands is true.
type Disjunction struct {
	L, R Formula
}

func (o Disjunction) Eval(model Assignment) bool { return o.L.Eval(model) || o.R.Eval(model) }
func (o Disjunction) prec() int                  { return precOr }
func (o Disjunction) String() string             { return binaryString(o.L, "OR", o.R, precOr) }

// An ExclusiveOr is true iff exactly one of its operands is true.
type ExclusiveOr struct {
	L, R Formula
}

func (x ExclusiveOr) Eval(model Assignment) bool { return x.L.Eval(model) != x.R.Eval(model) }
func (x ExclusiveOr) prec() int                  { return precXor }
func (x ExclusiveOr) String() string             { return binaryString(x.L, "XOR", x.R, precXor) }

// binaryString renders a left-associative binary operation.
// The right operand is parenthesized at equal precedence so that the tree shape survives a round trip.
func binaryString(l Formula, op string, r Formula, prec int) string {
	var sb strings.Builder
	if l.prec() < prec {
		sb.WriteString("(" + l.String() + ")")
	} else {
		sb.WriteString(l.String())
	}
	sb.WriteString(" " + op + " ")
	if r.prec() <= prec {
		sb.WriteString("(" + r.String() + ")")
	} else {
		sb.WriteString(r.String())
	}
	return sb.String()
}

// And generates a conjunction of subformulas, associated to the left.
// The conjunction of zero formulas is True.
func And(subs ...Formula) Formula {
	if len(subs) == 0 {
		return True
	}
	res := subs[0]
	for _, sub := range subs[1:] {
		res = Conjunction{L: res, R: sub}
	}
	return res
}

// Or generates a disjunction of subformulas, associated to the left.
// The disjunction of zero formulas is False.
func Or(subs ...Formula) Formula {
	if len(subs) == 0 {
		return False
	}
	res := subs[0]
	for _, sub := range subs[1:] {
		res = Disjunction{L: res, R: sub}
	}
	return res
}

// Xor indicates exactly one of the two given subformulas is true.
func Xor(f1, f2 Formula) Formula {
	return ExclusiveOr{L: f1, R: f2}
}

// Implies indicates a subformula implies another one.
func Implies(f1, f2 Formula) Formula {
	return Or(Not(f1), f2)
}

// Eq indicates a subformula is equivalent to another one.
func Eq(f1, f2 Formula) Formula {
	return Not(Xor(f1, f2))
}

// Vars returns the names of the variables of f, in order of first appearance.
func Vars(f Formula) []string {
	var res []string
	seen := make(map[string]bool)
	var rec func(f Formula)
	rec = func(f Formula) {
		switch f := f.(type) {
		case Variable:
			if !seen[f.Name] {
				seen[f.Name] = true
				res = append(res, f.Name)
			}
		case Negation:
			rec(f.X)
		case Conjunction:
			rec(f.L)
			rec(f.R)
		case Disjunction:
			rec(f.L)
			rec(f.R)
		case ExclusiveOr:
			rec(f.L)
			rec(f.R)
		}
	}
	rec(f)
	return res
}

// Evaluate evaluates f under model.
// Unlike f.Eval, it reports a missing binding as an *UnknownIdentifierError rather than panicking.
func Evaluate(f Formula, model Assignment) (bool, error) {
	for _, name := range Vars(f) {
		if _, ok := model[name]; !ok {
			return false, &UnknownIdentifierError{Name: name, Offset: -1}
		}
	}
	return f.Eval(model), nil
}
