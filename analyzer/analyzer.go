// Package analyzer answers the three analysis requests of the trainer:
// truth tables of expressions, normal forms of expressions and truth tables of circuits.
// It turns requests into calls to the bf, truthtable and circuit packages and shapes their results.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/crillab/booltrainer/bf"
	"github.com/crillab/booltrainer/circuit"
	"github.com/crillab/booltrainer/truthtable"
)

// Variables is a list of declared variable names.
// In JSON, it is either an array of names or a single string of names separated by commas or spaces.
// Names are only validated when the request is served.
type Variables []string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Variables) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("variables must be a list of names or a comma-separated string")
	}
	*v = SplitVariables(s)
	return nil
}

// SplitVariables splits a string of names separated by commas or spaces.
func SplitVariables(s string) Variables {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
}

// reserved are the names that would clash with the keys of table rows.
var reserved = map[string]bool{truthtable.ResultColumn: true, "outputs": true}

func checkVariables(vars []string) error {
	if err := bf.CheckVariables(vars); err != nil {
		return err
	}
	for i, name := range vars {
		if reserved[name] {
			return &bf.SyntaxError{Offset: i, Token: name, Msg: "reserved variable name"}
		}
	}
	return nil
}

// An ExpressionRequest asks for the analysis of an expression over declared variables.
type ExpressionRequest struct {
	Expression string    `json:"expression" binding:"required"`
	Variables  Variables `json:"variables"`
}

// A TableResponse holds a truth table and its analysis.
type TableResponse struct {
	Success    bool                `json:"success"`
	Expression string              `json:"expression,omitempty"`
	Outputs    []string            `json:"outputs,omitempty"`
	Formulas   map[string]string   `json:"formulas,omitempty"`
	Table      *truthtable.Table   `json:"table"`
	Analysis   truthtable.Analysis `json:"analysis"`
}

// Complexity compares the length of the renderings of an expression and of its normal forms.
type Complexity struct {
	Original    int    `json:"original"`
	CNF         int    `json:"cnf"`
	DNF         int    `json:"dnf"`
	MostCompact string `json:"most_compact"`
}

// A FormsResponse holds the normal forms of an expression.
type FormsResponse struct {
	Success    bool       `json:"success"`
	Original   string     `json:"original"`
	CNF        string     `json:"cnf"`
	DNF        string     `json:"dnf"`
	Complexity Complexity `json:"complexity"`
}

// A SchemeRequest asks for the truth table of a circuit.
type SchemeRequest struct {
	Scheme    *circuit.Scheme `json:"scheme" binding:"required"`
	Variables Variables       `json:"variables"`
	Dangling  string          `json:"dangling,omitempty"` // "fatal" (default) or "float"
}

// An ErrorResponse reports a failed analysis.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind"`
}

// An Analyzer serves analysis requests. It keeps no state between requests.
type Analyzer struct {
	gen *truthtable.Generator
}

// New returns an analyzer building its tables with gen.
func New(gen *truthtable.Generator) *Analyzer {
	if gen == nil {
		gen = truthtable.New(truthtable.DefaultConfig())
	}
	return &Analyzer{gen: gen}
}

// Generator returns the truth table generator of an.
func (an *Analyzer) Generator() *truthtable.Generator { return an.gen }

// parse parses the expression of req.
// With no declared variable, an expression that references one fails with an *EmptyVariableSetError
// rather than with an unknown identifier.
func (an *Analyzer) parse(req ExpressionRequest) (bf.Formula, error) {
	vars := []string(req.Variables)
	if err := checkVariables(vars); err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		toks, err := bf.Tokenize(req.Expression, nil)
		if err != nil {
			return nil, err
		}
		var refs []string
		for _, tok := range toks {
			if tok.Kind == bf.TokIdent {
				refs = append(refs, tok.Text)
			}
		}
		if len(refs) > 0 {
			return nil, &truthtable.EmptyVariableSetError{Referenced: refs}
		}
	}
	return bf.Parse(req.Expression, vars)
}

// TruthTable returns the truth table of the expression of req.
func (an *Analyzer) TruthTable(ctx context.Context, req ExpressionRequest) (*TableResponse, error) {
	f, err := an.parse(req)
	if err != nil {
		return nil, err
	}
	table, err := an.gen.Generate(ctx, f, req.Variables)
	if err != nil {
		return nil, err
	}
	return &TableResponse{
		Success:    true,
		Expression: f.String(),
		Table:      table,
		Analysis:   table.Analyze(),
	}, nil
}

// NormalForms returns the conjunctive and disjunctive normal forms of the expression of req.
// The declared variables are capped as for truth tables, and the rewriting stops when ctx is done.
func (an *Analyzer) NormalForms(ctx context.Context, req ExpressionRequest) (*FormsResponse, error) {
	f, err := an.parse(req)
	if err != nil {
		return nil, err
	}
	if err := an.gen.Check(req.Variables); err != nil {
		return nil, err
	}
	cnf, err := bf.ToCNFContext(ctx, f)
	if err != nil {
		return nil, err
	}
	dnf, err := bf.ToDNFContext(ctx, f)
	if err != nil {
		return nil, err
	}
	res := &FormsResponse{
		Success:  true,
		Original: f.String(),
		CNF:      cnf.String(),
		DNF:      dnf.String(),
	}
	res.Complexity = compare(res.Original, res.CNF, res.DNF)
	return res, nil
}

// compare measures the three renderings. Ties favor the original, then the CNF.
func compare(original, cnf, dnf string) Complexity {
	c := Complexity{Original: len(original), CNF: len(cnf), DNF: len(dnf)}
	switch {
	case c.Original <= min(c.CNF, c.DNF):
		c.MostCompact = "original"
	case c.CNF <= c.DNF:
		c.MostCompact = "cnf"
	default:
		c.MostCompact = "dnf"
	}
	return c
}

// Circuit returns the truth table of the circuit of req.
// Every output of the circuit also comes with the formula it computes, when it has one.
func (an *Analyzer) Circuit(ctx context.Context, req SchemeRequest) (*TableResponse, error) {
	if req.Scheme == nil {
		return nil, &circuit.SchemeError{Msg: "missing scheme"}
	}
	if err := checkVariables(req.Variables); err != nil {
		return nil, err
	}
	policy, err := circuit.ParseDanglingPolicy(req.Dangling)
	if err != nil {
		return nil, err
	}
	g, err := req.Scheme.Graph(req.Variables)
	if err != nil {
		return nil, err
	}
	table, err := circuit.NewEvaluator(an.gen, policy).Table(ctx, g)
	if err != nil {
		return nil, err
	}
	res := &TableResponse{
		Success:  true,
		Outputs:  g.Outputs(),
		Table:    table,
		Analysis: table.Analyze(),
	}
	for _, out := range res.Outputs {
		f, err := g.Formula(out)
		if errors.Is(err, circuit.ErrFormulaTooLarge) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if res.Formulas == nil {
			res.Formulas = make(map[string]string)
		}
		res.Formulas[out] = f.String()
	}
	return res, nil
}

// Kind returns the kind of err: the name of its type when it is part of the error taxonomy,
// "Canceled" for an expired or canceled context, and "Error" otherwise.
func Kind(err error) string {
	var kinded interface{ Kind() string }
	switch {
	case errors.As(err, &kinded):
		return kinded.Kind()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Canceled"
	default:
		return "Error"
	}
}

// Failure returns the response reporting err.
func Failure(err error) ErrorResponse {
	return ErrorResponse{Success: false, Error: err.Error(), Kind: Kind(err)}
}
