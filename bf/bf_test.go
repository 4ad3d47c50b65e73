package bf

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assignments returns the 2^n assignments of vars.
func assignments(vars []string) []Assignment {
	n := len(vars)
	res := make([]Assignment, 0, 1<<n)
	for i := 0; i < 1<<n; i++ {
		a := make(Assignment, n)
		for j, v := range vars {
			a[v] = i&(1<<(n-1-j)) != 0
		}
		res = append(res, a)
	}
	return res
}

// randFormula generates a random formula over vars, of depth at most depth.
func randFormula(r *rand.Rand, vars []string, depth int) Formula {
	if depth == 0 || r.Intn(4) == 0 {
		switch r.Intn(10) {
		case 0:
			return True
		case 1:
			return False
		default:
			return Var(vars[r.Intn(len(vars))])
		}
	}
	switch r.Intn(4) {
	case 0:
		return Not(randFormula(r, vars, depth-1))
	case 1:
		return And(randFormula(r, vars, depth-1), randFormula(r, vars, depth-1))
	case 2:
		return Or(randFormula(r, vars, depth-1), randFormula(r, vars, depth-1))
	default:
		return Xor(randFormula(r, vars, depth-1), randFormula(r, vars, depth-1))
	}
}

func TestEval(t *testing.T) {
	f := Or(And(Var("a"), Not(Var("b"))), Xor(Var("b"), Var("c")))
	tests := []struct {
		a, b, c  bool
		expected bool
	}{
		{false, false, false, false},
		{false, false, true, true},
		{false, true, false, true},
		{false, true, true, false},
		{true, false, false, true},
		{true, false, true, true},
		{true, true, false, true},
		{true, true, true, false},
	}
	for _, test := range tests {
		model := Assignment{"a": test.a, "b": test.b, "c": test.c}
		assert.Equal(t, test.expected, f.Eval(model), "model %v", model)
	}
}

func TestEval_MissingBinding(t *testing.T) {
	assert.Panics(t, func() { Var("a").Eval(Assignment{}) })

	_, err := Evaluate(And(Var("a"), Var("z")), Assignment{"a": true})
	var unknown *UnknownIdentifierError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "z", unknown.Name)
	assert.Equal(t, `unknown identifier "z"`, err.Error())

	res, err := Evaluate(Implies(Var("a"), Var("b")), Assignment{"a": true, "b": false})
	require.NoError(t, err)
	assert.False(t, res)
}

func TestString(t *testing.T) {
	f := And(Or(Var("a"), Not(Var("b"))), Not(Var("c")))
	const expected = "(a OR NOT b) AND NOT c"
	if f.String() != expected {
		t.Errorf("string representation of formula not as expected: wanted %q, got %q", expected, f.String())
	}
	assert.Equal(t, "NOT (a XOR b)", Eq(Var("a"), Var("b")).String())
	assert.Equal(t, "TRUE", True.String())
	assert.Equal(t, "NOT FALSE", Not(False).String())
	assert.Equal(t, "a OR (b OR c)", Or(Var("a"), Or(Var("b"), Var("c"))).String())
	assert.Equal(t, "(a OR b) XOR c", Xor(Or(Var("a"), Var("b")), Var("c")).String())
}

func TestAndOr_Empty(t *testing.T) {
	assert.Equal(t, True, And())
	assert.Equal(t, False, Or())
	assert.Equal(t, Var("a"), And(Var("a")))
}

func TestVars(t *testing.T) {
	f := Or(And(Var("c"), Var("a")), Xor(Var("c"), Not(Var("b"))))
	assert.Equal(t, []string{"c", "a", "b"}, Vars(f))
	assert.Empty(t, Vars(True))
}

func TestString_RoundTrip(t *testing.T) {
	vars := []string{"a", "b", "c", "d"}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		f := randFormula(r, vars, 5)
		parsed, err := Parse(f.String(), vars)
		require.NoError(t, err, "rendering %q", f.String())
		// The rendering keeps the tree shape, not only the boolean function.
		assert.Equal(t, f, parsed, "rendering %q", f.String())
	}
}

func ExampleEvaluate() {
	f, _ := Parse("a XOR b", []string{"a", "b"})
	for _, model := range assignments([]string{"a", "b"}) {
		res, err := Evaluate(f, model)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("a=%t b=%t: %t\n", model["a"], model["b"], res)
	}
	// Output:
	// a=false b=false: false
	// a=false b=true: true
	// a=true b=false: true
	// a=true b=true: false
}
