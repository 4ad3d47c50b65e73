package bf

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crillab/gophersat/solver"
)

// vars associate variable names with DIMACS indices, in order of first appearance.
// Dummy variables created by the Tseitin encoding have an empty name.
type vars struct {
	idx   map[string]int
	names []string
}

func newVars() *vars {
	return &vars{idx: make(map[string]int)}
}

// litValue returns the int value associated with the given literal.
// If its variable was not referenced yet, it is created first.
func (vs *vars) litValue(l literal) int {
	val, ok := vs.idx[l.name]
	if !ok {
		vs.names = append(vs.names, l.name)
		val = len(vs.names)
		vs.idx[l.name] = val
	}
	if l.signed {
		return -val
	}
	return val
}

// dummy creates a dummy variable and returns its associated index.
func (vs *vars) dummy() int {
	vs.names = append(vs.names, "")
	return len(vs.names)
}

// tseitin appends to res the clauses defining a fresh literal equivalent to f, and returns that literal.
// The encoding is linear in the size of f.
func (vs *vars) tseitin(f Formula, res *[][]int) int {
	switch f := f.(type) {
	case Constant:
		x := vs.dummy()
		if f {
			*res = append(*res, []int{x})
		} else {
			*res = append(*res, []int{-x})
		}
		return x
	case Variable:
		return vs.litValue(literal{name: f.Name})
	case Negation:
		return -vs.tseitin(f.X, res)
	case Conjunction:
		l, r := vs.tseitin(f.L, res), vs.tseitin(f.R, res)
		x := vs.dummy()
		*res = append(*res, []int{-x, l}, []int{-x, r}, []int{x, -l, -r})
		return x
	case Disjunction:
		l, r := vs.tseitin(f.L, res), vs.tseitin(f.R, res)
		x := vs.dummy()
		*res = append(*res, []int{-x, l, r}, []int{x, -l}, []int{x, -r})
		return x
	case ExclusiveOr:
		l, r := vs.tseitin(f.L, res), vs.tseitin(f.R, res)
		x := vs.dummy()
		*res = append(*res, []int{-x, l, r}, []int{-x, -l, -r}, []int{x, -l, r}, []int{x, l, -r})
		return x
	default:
		panic("invalid formula type")
	}
}

func (vs *vars) dimacs(cs []clause) [][]int {
	res := make([][]int, len(cs))
	for i, c := range cs {
		res[i] = make([]int, len(c))
		for j, l := range c {
			res[i][j] = vs.litValue(l)
		}
	}
	return res
}

// solve gives the DIMACS clauses to gophersat.
// If they are satisfiable, the function returns a model associating each named variable with its binding.
// Else, the function returns nil.
func (vs *vars) solve(ints [][]int) map[string]bool {
	pb := solver.ParseSlice(ints)
	s := solver.New(pb)
	if s.Solve() != solver.Sat {
		return nil
	}
	m := s.Model()
	model := make(map[string]bool, len(vs.idx))
	for i, name := range vs.names {
		if name != "" && i < len(m) {
			model[name] = m[i]
		}
	}
	return model
}

// satisfiable returns true iff the clause set, read as a CNF, has a model.
func satisfiable(cs []clause) bool {
	if len(cs) == 0 {
		return true
	}
	if hasEmpty(cs) {
		return false
	}
	vs := newVars()
	return vs.solve(vs.dimacs(cs)) != nil
}

// Solve solves the given formula.
// f is first translated to an equisatisfiable CNF, using dummy variables, then given to gophersat.
// The translation is both polynomial in time and space.
// The function returns a model associating each variable of f with its binding, or nil if f is not satisfiable.
func Solve(f Formula) Assignment {
	vs := newVars()
	var ints [][]int
	root := vs.tseitin(f, &ints)
	ints = append(ints, []int{root})
	m := vs.solve(ints)
	if m == nil {
		return nil
	}
	model := make(Assignment)
	for _, name := range Vars(f) {
		model[name] = m[name]
	}
	return model
}

// Equivalent returns true iff f1 and f2 have the same value under every assignment.
func Equivalent(f1, f2 Formula) bool {
	return Solve(Xor(f1, f2)) == nil
}

// Dimacs writes the CNF clauses of f on w in the DIMACS format, so that any SAT solver can read them.
// Variables are numbered from 1 in the order of their first appearance in the clauses,
// and each one gets a comment line "c name=index" between the problem line and the clauses.
func Dimacs(f Formula, w io.Writer) error {
	cs := newDistributor(context.Background()).cnfClauses(f)
	vs := newVars()
	ints := vs.dimacs(cs)
	prefix := fmt.Sprintf("p cnf %d %d\n", len(vs.names), len(ints))
	if _, err := io.WriteString(w, prefix); err != nil {
		return fmt.Errorf("could not write DIMACS output: %w", err)
	}
	for i, name := range vs.names {
		line := fmt.Sprintf("c %s=%d\n", name, i+1)
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("could not write DIMACS output: %w", err)
		}
	}
	for _, c := range ints {
		strClause := make([]string, len(c), len(c)+1)
		for i, lit := range c {
			strClause[i] = strconv.Itoa(lit)
		}
		strClause = append(strClause, "0")
		line := strings.Join(strClause, " ") + "\n"
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("could not write DIMACS output: %w", err)
		}
	}
	return nil
}
