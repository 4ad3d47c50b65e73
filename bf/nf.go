package bf

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// checkEvery is the number of steps between two checks of the context of a distributor.
const checkEvery = 1 << 10

// A distributor rewrites formulas into normal forms. Distribution is exponential in the worst case,
// so it gives up as soon as its context is done, and then keeps the context error in err.
type distributor struct {
	ctx   context.Context
	steps int
	err   error
}

func newDistributor(ctx context.Context) *distributor {
	return &distributor{ctx: ctx, err: ctx.Err()}
}

// stop counts one step and reports whether the rewriting must be abandoned.
func (d *distributor) stop() bool {
	if d.err != nil {
		return true
	}
	d.steps++
	if d.steps%checkEvery == 0 {
		d.err = d.ctx.Err()
	}
	return d.err != nil
}

// nnf returns a formula equivalent to f (or to its negation if neg is true)
// where XOR was eliminated and negations only apply to variables.
// Constants are folded, so the result only contains a constant if it is one.
func (d *distributor) nnf(f Formula, neg bool) Formula {
	if d.stop() {
		return False
	}
	switch f := f.(type) {
	case Constant:
		return Constant(bool(f) != neg)
	case Variable:
		if neg {
			return Negation{X: f}
		}
		return f
	case Negation:
		return d.nnf(f.X, !neg)
	case Conjunction:
		if neg {
			return mkOr(d.nnf(f.L, true), d.nnf(f.R, true))
		}
		return mkAnd(d.nnf(f.L, false), d.nnf(f.R, false))
	case Disjunction:
		if neg {
			return mkAnd(d.nnf(f.L, true), d.nnf(f.R, true))
		}
		return mkOr(d.nnf(f.L, false), d.nnf(f.R, false))
	case ExclusiveOr:
		// a XOR b == (a AND NOT b) OR (NOT a AND b)
		rewritten := Disjunction{
			L: Conjunction{L: f.L, R: Negation{X: f.R}},
			R: Conjunction{L: Negation{X: f.L}, R: f.R},
		}
		return d.nnf(rewritten, neg)
	default:
		panic("invalid formula type")
	}
}

func mkAnd(l, r Formula) Formula {
	switch {
	case l == False || r == False:
		return False
	case l == True:
		return r
	case r == True:
		return l
	}
	return Conjunction{L: l, R: r}
}

func mkOr(l, r Formula) Formula {
	switch {
	case l == True || r == True:
		return True
	case l == False:
		return r
	case r == False:
		return l
	}
	return Disjunction{L: l, R: r}
}

// NNF returns the negation normal form of f: an equivalent formula made of conjunctions,
// disjunctions and possibly negated variables only.
func NNF(f Formula) Formula {
	return newDistributor(context.Background()).nnf(f, false)
}

type literal struct {
	name   string
	signed bool // true for a negated variable
}

func (l literal) formula() Formula {
	if l.signed {
		return Negation{X: Variable{Name: l.name}}
	}
	return Variable{Name: l.name}
}

func (l literal) negation() literal {
	return literal{name: l.name, signed: !l.signed}
}

// A clause is a set of literals: a disjunction in a CNF, a conjunction (a "term") in a DNF.
type clause []literal

// key returns a canonical representation of c, independent of the order of its literals.
func (c clause) key() string {
	strs := make([]string, len(c))
	for i, l := range c {
		if l.signed {
			strs[i] = "-" + l.name
		} else {
			strs[i] = "+" + l.name
		}
	}
	sort.Strings(strs)
	return strings.Join(strs, " ")
}

// clauses distributes the NNF formula f into a set of normalized clauses.
// If cnf is true, the result is read as a conjunction of disjunctions, else as a disjunction of conjunctions.
func (d *distributor) clauses(f Formula, cnf bool) []clause {
	if d.stop() {
		return nil
	}
	switch f := f.(type) {
	case Constant:
		// The neutral element of the outer operator yields no clause,
		// its absorbing element yields one empty clause.
		if bool(f) == cnf {
			return []clause{}
		}
		return []clause{{}}
	case Variable:
		return []clause{{literal{name: f.Name}}}
	case Negation:
		v, ok := f.X.(Variable)
		if !ok {
			panic("invalid NNF formula")
		}
		return []clause{{literal{name: v.Name, signed: true}}}
	case Conjunction:
		if cnf {
			return d.normalize(append(d.clauses(f.L, cnf), d.clauses(f.R, cnf)...))
		}
		return d.normalize(d.product(d.clauses(f.L, cnf), d.clauses(f.R, cnf)))
	case Disjunction:
		if cnf {
			return d.normalize(d.product(d.clauses(f.L, cnf), d.clauses(f.R, cnf)))
		}
		return d.normalize(append(d.clauses(f.L, cnf), d.clauses(f.R, cnf)...))
	default:
		panic("invalid NNF formula")
	}
}

// product distributes the inner operator over the outer one.
func (d *distributor) product(cs1, cs2 []clause) []clause {
	res := make([]clause, 0, min(len(cs1)*len(cs2), checkEvery))
	for _, c1 := range cs1 {
		for _, c2 := range cs2 {
			if d.stop() {
				return nil
			}
			c := make(clause, 0, len(c1)+len(c2))
			c = append(c, c1...)
			c = append(c, c2...)
			res = append(res, c)
		}
	}
	return res
}

// normalize removes duplicate literals inside clauses, clauses holding complementary literals,
// and duplicate clauses. The order of first appearance is kept.
func (d *distributor) normalize(cs []clause) []clause {
	res := make([]clause, 0, len(cs))
	seenClauses := make(map[string]bool, len(cs))
	for _, c := range cs {
		if d.stop() {
			return nil
		}
		var norm clause
		seenLits := make(map[literal]bool, len(c))
		trivial := false
		for _, l := range c {
			if seenLits[l.negation()] {
				trivial = true
				break
			}
			if !seenLits[l] {
				seenLits[l] = true
				norm = append(norm, l)
			}
		}
		if trivial {
			continue
		}
		key := norm.key()
		if seenClauses[key] {
			continue
		}
		seenClauses[key] = true
		res = append(res, norm)
	}
	return res
}

func hasEmpty(cs []clause) bool {
	for _, c := range cs {
		if len(c) == 0 {
			return true
		}
	}
	return false
}

// cnfClauses returns the normalized CNF clauses of f.
func (d *distributor) cnfClauses(f Formula) []clause {
	return d.clauses(d.nnf(f, false), true)
}

// ToCNF returns a formula equivalent to f, written as a conjunction of disjunctions
// of possibly negated variables.
// XORs are first eliminated, negations are pushed down to the variables, then disjunctions
// are distributed over conjunctions. A clause that is always true is dropped.
// A tautology yields True and a contradiction yields False.
// The result is not minimized: redundant clauses may remain.
func ToCNF(f Formula) Formula {
	res, _ := ToCNFContext(context.Background(), f)
	return res
}

// ToCNFContext is like ToCNF, but gives up with an error wrapping ctx.Err() once ctx is done.
func ToCNFContext(ctx context.Context, f Formula) (Formula, error) {
	d := newDistributor(ctx)
	cs := d.cnfClauses(f)
	if d.err != nil {
		return nil, fmt.Errorf("computing CNF: %w", d.err)
	}
	switch {
	case len(cs) == 0:
		return True, nil
	case hasEmpty(cs):
		return False, nil
	case !satisfiable(cs):
		return False, nil
	}
	return build(cs, true), nil
}

// ToDNF returns a formula equivalent to f, written as a disjunction of conjunctions
// of possibly negated variables.
// It is the dual of ToCNF: a term that is always false is dropped,
// a tautology yields True and a contradiction yields False.
func ToDNF(f Formula) Formula {
	res, _ := ToDNFContext(context.Background(), f)
	return res
}

// ToDNFContext is like ToDNF, but gives up with an error wrapping ctx.Err() once ctx is done.
func ToDNFContext(ctx context.Context, f Formula) (Formula, error) {
	d := newDistributor(ctx)
	ts := d.clauses(d.nnf(f, false), false)
	if d.err != nil {
		return nil, fmt.Errorf("computing DNF: %w", d.err)
	}
	switch {
	case len(ts) == 0:
		return False, nil
	case hasEmpty(ts):
		return True, nil
	case !satisfiable(negate(ts)):
		// The negation of the DNF is a CNF: if it has no model, the DNF is always true.
		return True, nil
	}
	return build(ts, false), nil
}

// negate returns the clauses of the negation of cs, read in the dual form.
func negate(cs []clause) []clause {
	res := make([]clause, len(cs))
	for i, c := range cs {
		res[i] = make(clause, len(c))
		for j, l := range c {
			res[i][j] = l.negation()
		}
	}
	return res
}

// build turns the clauses back into a formula.
func build(cs []clause, cnf bool) Formula {
	outer := make([]Formula, len(cs))
	for i, c := range cs {
		inner := make([]Formula, len(c))
		for j, l := range c {
			inner[j] = l.formula()
		}
		if cnf {
			outer[i] = Or(inner...)
		} else {
			outer[i] = And(inner...)
		}
	}
	if cnf {
		return And(outer...)
	}
	return Or(outer...)
}

// IsCNF returns true iff f is a conjunction of disjunctions of possibly negated variables,
// or a constant.
func IsCNF(f Formula) bool {
	return isNormal(f, true)
}

// IsDNF returns true iff f is a disjunction of conjunctions of possibly negated variables,
// or a constant.
func IsDNF(f Formula) bool {
	return isNormal(f, false)
}

func isNormal(f Formula, cnf bool) bool {
	if _, ok := f.(Constant); ok {
		return true
	}
	var outer func(f Formula) bool
	var inner func(f Formula) bool
	inner = func(f Formula) bool {
		switch f := f.(type) {
		case Variable:
			return true
		case Negation:
			_, ok := f.X.(Variable)
			return ok
		case Disjunction:
			return cnf && inner(f.L) && inner(f.R)
		case Conjunction:
			return !cnf && inner(f.L) && inner(f.R)
		default:
			return false
		}
	}
	outer = func(f Formula) bool {
		switch f := f.(type) {
		case Conjunction:
			if cnf {
				return outer(f.L) && outer(f.R)
			}
		case Disjunction:
			if !cnf {
				return outer(f.L) && outer(f.R)
			}
		}
		return inner(f)
	}
	return outer(f)
}
