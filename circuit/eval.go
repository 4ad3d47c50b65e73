package circuit

import (
	"context"
	"errors"
	"fmt"

	"github.com/crillab/booltrainer/bf"
	"github.com/crillab/booltrainer/truthtable"
)

// A DanglingPolicy tells what to do with an input slot no wire feeds.
type DanglingPolicy int

const (
	// DanglingFatal fails as soon as the value of an unwired slot is needed.
	DanglingFatal DanglingPolicy = iota
	// DanglingFloat gives unwired slots an undefined value, that propagates through gates.
	// Evaluation only fails when an OUTPUT node reads an undefined value.
	DanglingFloat
)

func (p DanglingPolicy) String() string {
	switch p {
	case DanglingFatal:
		return "fatal"
	case DanglingFloat:
		return "float"
	default:
		return "unknown"
	}
}

// ParseDanglingPolicy returns the policy named s: "fatal" or "float".
// An empty string yields DanglingFatal.
func ParseDanglingPolicy(s string) (DanglingPolicy, error) {
	switch s {
	case "", "fatal":
		return DanglingFatal, nil
	case "float":
		return DanglingFloat, nil
	default:
		return DanglingFatal, fmt.Errorf("invalid dangling policy %q", s)
	}
}

// A value is the value of an output slot during evaluation.
type value struct {
	v       bool
	defined bool
	origin  *DanglingInputError // Slot the undefined value comes from
}

// eval evaluates every node of g under a and returns the value read by each OUTPUT node,
// in the order of g.Outputs().
func (g *Graph) eval(a bf.Assignment, policy DanglingPolicy, row int) ([]bool, error) {
	vals := make([]value, len(g.nodes))
	res := make([]bool, len(g.outputIDs))
	for _, i := range g.order {
		n := g.nodes[i]
		ins := make([]value, len(g.inputs[i]))
		for slot, w := range g.inputs[i] {
			switch {
			case w != nil:
				ins[slot] = vals[g.index[w.Source]]
			case policy == DanglingFatal:
				return nil, &DanglingInputError{NodeID: n.ID, Slot: slot, Row: row}
			default:
				ins[slot] = value{origin: &DanglingInputError{NodeID: n.ID, Slot: slot, Row: row}}
			}
		}
		if n.Kind == OutputNode {
			if !ins[0].defined {
				return nil, ins[0].origin
			}
			res[g.rank[i]] = ins[0].v
			continue
		}
		if n.Kind.reads() {
			name := n.name()
			v, ok := a[name]
			if !ok {
				return nil, &bf.UnknownIdentifierError{Name: name, Offset: -1}
			}
			vals[i] = value{v: v, defined: true}
			continue
		}
		if undef := firstUndefined(ins); undef != nil {
			vals[i] = *undef
			continue
		}
		var v bool
		switch n.Kind {
		case AndGate:
			v = ins[0].v && ins[1].v
		case OrGate:
			v = ins[0].v || ins[1].v
		case XorGate:
			v = ins[0].v != ins[1].v
		case NotGate:
			v = !ins[0].v
		default:
			panic("invalid node kind")
		}
		vals[i] = value{v: v, defined: true}
	}
	return res, nil
}

func firstUndefined(vals []value) *value {
	for i := range vals {
		if !vals[i].defined {
			return &vals[i]
		}
	}
	return nil
}

// Evaluate returns the value of each OUTPUT node of g under a, keyed by node id.
// Unwired slots are fatal here. Every variable read by g must be bound in a.
func (g *Graph) Evaluate(a bf.Assignment) (map[string]bool, error) {
	vals, err := g.eval(a, DanglingFatal, -1)
	if err != nil {
		return nil, err
	}
	res := make(map[string]bool, len(vals))
	for k, id := range g.outputIDs {
		res[id] = vals[k]
	}
	return res, nil
}

// An Evaluator builds the truth tables of circuits.
type Evaluator struct {
	gen    *truthtable.Generator
	policy DanglingPolicy
}

// NewEvaluator returns an evaluator enumerating rows with gen.
// If gen is nil, a generator with the default configuration is used.
func NewEvaluator(gen *truthtable.Generator, policy DanglingPolicy) *Evaluator {
	if gen == nil {
		gen = truthtable.New(truthtable.DefaultConfig())
	}
	return &Evaluator{gen: gen, policy: policy}
}

// Table returns the truth table of g over its declared variables,
// with one output column per OUTPUT node, named after the node.
// A circuit without OUTPUT node yields a table without output column.
func (e *Evaluator) Table(ctx context.Context, g *Graph) (*truthtable.Table, error) {
	t, err := e.gen.Fill(ctx, g.variables, g.outputIDs, func(i int, a bf.Assignment) ([]bool, error) {
		return g.eval(a, e.policy, i)
	})
	if err != nil {
		return nil, fmt.Errorf("could not evaluate circuit: %w", err)
	}
	return t, nil
}

// ErrFormulaTooLarge is returned by Graph.Formula for an output whose formula exceeds MaxFormulaSize.
var ErrFormulaTooLarge = errors.New("formula too large")

// MaxFormulaSize is the largest number of operators and variables of a formula returned by Graph.Formula.
const MaxFormulaSize = 1 << 12

// Formula returns the formula computed by the OUTPUT node with the given id.
// Shared sub-circuits are expanded, so the formula may be much larger than the circuit:
// beyond MaxFormulaSize, an error is returned. An unwired slot yields a *DanglingInputError.
func (g *Graph) Formula(output string) (bf.Formula, error) {
	i, ok := g.index[output]
	if !ok || g.nodes[i].Kind != OutputNode {
		return nil, fmt.Errorf("no output node %q", output)
	}
	if size := g.treeSize()[i]; size > MaxFormulaSize {
		return nil, fmt.Errorf("formula of output %q has more than %d nodes: %w", output, MaxFormulaSize, ErrFormulaTooLarge)
	}
	var rec func(i int) (bf.Formula, error)
	rec = func(i int) (bf.Formula, error) {
		n := g.nodes[i]
		if n.Kind.reads() {
			return bf.Var(n.name()), nil
		}
		subs := make([]bf.Formula, len(g.inputs[i]))
		for slot, w := range g.inputs[i] {
			if w == nil {
				return nil, &DanglingInputError{NodeID: n.ID, Slot: slot, Row: -1}
			}
			sub, err := rec(g.index[w.Source])
			if err != nil {
				return nil, err
			}
			subs[slot] = sub
		}
		switch n.Kind {
		case OutputNode:
			return subs[0], nil
		case AndGate:
			return bf.And(subs[0], subs[1]), nil
		case OrGate:
			return bf.Or(subs[0], subs[1]), nil
		case XorGate:
			return bf.Xor(subs[0], subs[1]), nil
		case NotGate:
			return bf.Not(subs[0]), nil
		default:
			panic("invalid node kind")
		}
	}
	return rec(i)
}

// treeSize returns, for each node, the size of the tree obtained by expanding the sub-circuit it reads.
// Sizes saturate above MaxFormulaSize.
func (g *Graph) treeSize() []int {
	size := make([]int, len(g.nodes))
	for _, i := range g.order {
		size[i] = 1
		for _, w := range g.inputs[i] {
			if w != nil {
				size[i] = min(size[i]+size[g.index[w.Source]], MaxFormulaSize+1)
			}
		}
	}
	return size
}
