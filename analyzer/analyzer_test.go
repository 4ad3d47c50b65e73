package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/booltrainer/circuit"
	"github.com/crillab/booltrainer/truthtable"
)

func TestVariables_UnmarshalJSON(t *testing.T) {
	tests := map[string][]string{
		`["a","b"]`: {"a", "b"},
		`"a, b ,c"`: {"a", "b", "c"},
		`"x y"`:     {"x", "y"},
		`""`:        {},
		`[]`:        {},
		`"a,,b"`:    {"a", "b"},
		`"1a, b"`:   {"1a", "b"},
	}
	for data, expected := range tests {
		var v Variables
		require.NoError(t, json.Unmarshal([]byte(data), &v), data)
		assert.Equal(t, expected, []string(v), data)
	}
	var v Variables
	assert.Error(t, json.Unmarshal([]byte(`12`), &v))
}

func TestTruthTable(t *testing.T) {
	an := New(nil)
	res, err := an.TruthTable(context.Background(), ExpressionRequest{Expression: "a && !b", Variables: Variables{"a", "b"}})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "a AND NOT b", res.Expression)
	assert.Equal(t, truthtable.Analysis{TotalRows: 4, TrueResults: 1, FalseResults: 3, IsSatisfiable: true}, res.Analysis)
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"expression": "a AND NOT b",
		"table": [
			{"a": false, "b": false, "result": false},
			{"a": false, "b": true, "result": false},
			{"a": true, "b": false, "result": true},
			{"a": true, "b": true, "result": false}
		],
		"analysis": {"total_rows": 4, "true_results": 1, "false_results": 3,
			"is_tautology": false, "is_contradiction": false, "is_satisfiable": true}
	}`, string(data))
}

func TestTruthTable_Errors(t *testing.T) {
	an := New(truthtable.New(truthtable.Config{MaxVariables: 3}))
	tests := []struct {
		expr string
		vars Variables
		kind string
	}{
		{"a $ b", Variables{"a", "b"}, "LexicalError"},
		{"a AND", Variables{"a"}, "SyntaxError"},
		{"(a", Variables{"a"}, "SyntaxError"},
		{"a AND c", Variables{"a", "b"}, "UnknownIdentifierError"},
		{"a", Variables{"a", "b", "c", "d"}, "TooManyVariablesError"},
		{"a OR b", Variables{}, "EmptyVariableSetError"},
		{"a", Variables{"a", "a"}, "SyntaxError"},
		{"a", Variables{"1a"}, "SyntaxError"},
		{"result", Variables{"result"}, "SyntaxError"},
	}
	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			_, err := an.TruthTable(context.Background(), ExpressionRequest{Expression: test.expr, Variables: test.vars})
			require.Error(t, err)
			assert.Equal(t, test.kind, Kind(err), "error: %v", err)
			failure := Failure(err)
			assert.False(t, failure.Success)
			assert.Equal(t, err.Error(), failure.Error)
		})
	}
}

func TestTruthTable_Constant(t *testing.T) {
	res, err := New(nil).TruthTable(context.Background(), ExpressionRequest{Expression: "1 | 0"})
	require.NoError(t, err)
	assert.Equal(t, "TRUE OR FALSE", res.Expression)
	assert.Len(t, res.Table.Rows, 1)
	assert.True(t, res.Analysis.IsTautology)
}

func TestNormalForms(t *testing.T) {
	res, err := New(nil).NormalForms(context.Background(), ExpressionRequest{Expression: "a ^ b", Variables: Variables{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "a XOR b", res.Original)
	assert.Equal(t, "(a OR b) AND (NOT b OR NOT a)", res.CNF)
	assert.Equal(t, "a AND NOT b OR NOT a AND b", res.DNF)
	assert.Equal(t, Complexity{Original: 7, CNF: 29, DNF: 26, MostCompact: "original"}, res.Complexity)

	res, err = New(nil).NormalForms(context.Background(), ExpressionRequest{Expression: "a or not a", Variables: Variables{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "TRUE", res.CNF)
	assert.Equal(t, "TRUE", res.DNF)
	assert.Equal(t, "cnf", res.Complexity.MostCompact)

	_, err = New(nil).NormalForms(context.Background(), ExpressionRequest{Expression: "a AND c", Variables: Variables{"a"}})
	assert.Equal(t, "UnknownIdentifierError", Kind(err))
}

// parityExpression returns "x0 XOR x1 XOR ..." over n variables, and the variables.
func parityExpression(n int) (string, Variables) {
	vars := make(Variables, n)
	for i := range vars {
		vars[i] = fmt.Sprintf("x%d", i)
	}
	return strings.Join(vars, " XOR "), vars
}

func TestNormalForms_Limits(t *testing.T) {
	expr, vars := parityExpression(17)
	_, err := New(nil).NormalForms(context.Background(), ExpressionRequest{Expression: expr, Variables: vars})
	assert.Equal(t, "TooManyVariablesError", Kind(err))

	an := New(truthtable.New(truthtable.Config{MaxVariables: 24}))
	expr, vars = parityExpression(20)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = an.NormalForms(ctx, ExpressionRequest{Expression: expr, Variables: vars})
	assert.Equal(t, "Canceled", Kind(err), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, "original", compare("ab", "ab", "ab").MostCompact)
	assert.Equal(t, "cnf", compare("abc", "ab", "ab").MostCompact)
	assert.Equal(t, "dnf", compare("abc", "abc", "ab").MostCompact)
}

const xorScheme = `{
	"scheme": {
		"nodes": [
			{"id": "a", "kind": "INPUT"},
			{"id": "b", "kind": "INPUT"},
			{"id": "x", "kind": "XOR"},
			{"id": "out", "kind": "OUTPUT"}
		],
		"wires": [
			{"sourceNodeId": "a", "sourceSlot": 0, "targetNodeId": "x", "targetSlot": 0},
			{"sourceNodeId": "b", "sourceSlot": 0, "targetNodeId": "x", "targetSlot": 1},
			{"sourceNodeId": "x", "sourceSlot": 0, "targetNodeId": "out", "targetSlot": 0}
		]
	},
	"variables": "a, b"
}`

func TestCircuit(t *testing.T) {
	var req SchemeRequest
	require.NoError(t, json.Unmarshal([]byte(xorScheme), &req))
	res, err := New(nil).Circuit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"out"}, res.Outputs)
	assert.Equal(t, map[string]string{"out": "a XOR b"}, res.Formulas)
	assert.Equal(t, 2, res.Analysis.TrueResults)
	data, err := json.Marshal(res.Table)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"a": false, "b": false, "result": false, "outputs": {"out": false}},
		{"a": false, "b": true, "result": true, "outputs": {"out": true}},
		{"a": true, "b": false, "result": true, "outputs": {"out": true}},
		{"a": true, "b": true, "result": false, "outputs": {"out": false}}
	]`, string(data))
}

func TestCircuit_LargeFormulaIsOmitted(t *testing.T) {
	// Each AND reads the previous gate twice, so the formula of out doubles at every level.
	scheme := &circuit.Scheme{Nodes: []circuit.SchemeNode{{ID: "a", Kind: "INPUT"}}}
	prev := "a"
	for i := 0; i < 13; i++ {
		id := fmt.Sprintf("g%d", i)
		scheme.Nodes = append(scheme.Nodes, circuit.SchemeNode{ID: id, Kind: "AND"})
		scheme.Wires = append(scheme.Wires,
			circuit.SchemeWire{SourceNodeID: prev, TargetNodeID: id, TargetSlot: 0},
			circuit.SchemeWire{SourceNodeID: prev, TargetNodeID: id, TargetSlot: 1})
		prev = id
	}
	scheme.Nodes = append(scheme.Nodes, circuit.SchemeNode{ID: "out", Kind: "OUTPUT"})
	scheme.Wires = append(scheme.Wires, circuit.SchemeWire{SourceNodeID: prev, TargetNodeID: "out"})

	res, err := New(nil).Circuit(context.Background(), SchemeRequest{Scheme: scheme, Variables: Variables{"a"}})
	require.NoError(t, err)
	assert.Empty(t, res.Formulas)
	assert.Equal(t, []bool{false, true}, res.Table.Column("out"))
}

func TestCircuit_Errors(t *testing.T) {
	an := New(nil)
	_, err := an.Circuit(context.Background(), SchemeRequest{})
	assert.Equal(t, "SchemeError", Kind(err))

	dangling := &circuit.Scheme{Nodes: []circuit.SchemeNode{{ID: "out", Kind: "OUTPUT"}}}
	_, err = an.Circuit(context.Background(), SchemeRequest{Scheme: dangling, Variables: Variables{"a"}})
	assert.Equal(t, "DanglingInputError", Kind(err))

	_, err = an.Circuit(context.Background(), SchemeRequest{Scheme: dangling, Dangling: "sink"})
	assert.Equal(t, "Error", Kind(err))

	cyclic := &circuit.Scheme{
		Nodes: []circuit.SchemeNode{{ID: "n1", Kind: "NOT"}, {ID: "n2", Kind: "NOT"}},
		Wires: []circuit.SchemeWire{
			{SourceNodeID: "n1", TargetNodeID: "n2"},
			{SourceNodeID: "n2", TargetNodeID: "n1"},
		},
	}
	_, err = an.Circuit(context.Background(), SchemeRequest{Scheme: cyclic})
	assert.Equal(t, "CycleError", Kind(err))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "Canceled", Kind(fmt.Errorf("row 3: %w", context.DeadlineExceeded)))
	assert.Equal(t, "Canceled", Kind(context.Canceled))
	assert.Equal(t, "Error", Kind(errors.New("boom")))
	assert.Equal(t, "CycleError", Kind(fmt.Errorf("wrapped: %w", &circuit.CycleError{Path: []string{"a", "a"}})))
}
