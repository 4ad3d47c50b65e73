package bf

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSameFunction(t *testing.T, vars []string, f1, f2 Formula) {
	t.Helper()
	for _, model := range assignments(vars) {
		if f1.Eval(model) != f2.Eval(model) {
			t.Errorf("%q and %q differ under %v", f1, f2, model)
			return
		}
	}
}

var nfExprs = []string{
	"a",
	"NOT a",
	"a AND b",
	"a OR b",
	"a XOR b",
	"NOT (a XOR b)",
	"a XOR b XOR c",
	"(a OR b) AND (c OR d)",
	"a AND b OR c AND d",
	"NOT (a AND (b OR NOT c)) XOR d",
	"a OR NOT a",
	"a AND NOT a",
	"TRUE",
	"FALSE AND a",
	"NOT TRUE OR b",
}

func TestNormalForms(t *testing.T) {
	vars := []string{"a", "b", "c", "d"}
	for _, expr := range nfExprs {
		f, err := Parse(expr, vars)
		require.NoError(t, err)
		t.Run(expr, func(t *testing.T) {
			cnf := ToCNF(f)
			dnf := ToDNF(f)
			assert.True(t, IsCNF(cnf), "%q is not a CNF", cnf)
			assert.True(t, IsDNF(dnf), "%q is not a DNF", dnf)
			assertSameFunction(t, vars, f, cnf)
			assertSameFunction(t, vars, f, dnf)
			assertSameFunction(t, vars, cnf, ToCNF(cnf))
			assertSameFunction(t, vars, dnf, ToDNF(dnf))
		})
	}
}

func TestNormalForms_Random(t *testing.T) {
	vars := []string{"a", "b", "c", "d"}
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		f := randFormula(r, vars, 4)
		cnf := ToCNF(f)
		dnf := ToDNF(f)
		require.True(t, IsCNF(cnf), "CNF of %q: %q", f, cnf)
		require.True(t, IsDNF(dnf), "DNF of %q: %q", f, dnf)
		assertSameFunction(t, vars, f, cnf)
		assertSameFunction(t, vars, f, dnf)
		assertSameFunction(t, vars, cnf, ToCNF(cnf))
		assert.True(t, Equivalent(f, cnf), "%q and its CNF %q", f, cnf)
		assert.True(t, Equivalent(f, dnf), "%q and its DNF %q", f, dnf)
	}
}

func TestNormalForms_XorDNF(t *testing.T) {
	f, err := Parse("a XOR b", []string{"a", "b"})
	require.NoError(t, err)
	dnf := ToDNF(f)
	assert.Equal(t, "a AND NOT b OR NOT a AND b", dnf.String())
	assertSameFunction(t, []string{"a", "b"}, f, dnf)
}

func TestNormalForms_Degenerate(t *testing.T) {
	vars := []string{"a", "b"}
	tautologies := []string{"a OR NOT a", "TRUE", "a AND b OR NOT a OR NOT b", "NOT (a AND NOT a)", "a XOR NOT a"}
	contradictions := []string{"a AND NOT a", "FALSE", "(a OR b) AND NOT a AND NOT b", "a XOR a"}
	for _, expr := range tautologies {
		f, err := Parse(expr, vars)
		require.NoError(t, err)
		assert.Equal(t, True, ToCNF(f), "CNF of %q", expr)
		assert.Equal(t, True, ToDNF(f), "DNF of %q", expr)
	}
	for _, expr := range contradictions {
		f, err := Parse(expr, vars)
		require.NoError(t, err)
		assert.Equal(t, False, ToCNF(f), "CNF of %q", expr)
		assert.Equal(t, False, ToDNF(f), "DNF of %q", expr)
	}
}

func TestNNF(t *testing.T) {
	f, err := Parse("NOT (a AND NOT (b OR c))", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "NOT a OR (b OR c)", NNF(f).String())
	assert.Equal(t, "b", NNF(And(True, Var("b"))).String())
}

func TestSolve(t *testing.T) {
	f := And(Or(Var("a"), Var("b")), Var("i"), Or(Var("g"), Var("h"), And(Var("c"), Or(Var("d"), Var("e")), Var("f"))))
	model := Solve(f)
	if model == nil {
		t.Fatalf("problem was declared UNSAT")
	}
	assert.True(t, f.Eval(model))
	assert.Len(t, model, 9)

	assert.Nil(t, Solve(And(Var("a"), Not(Var("a")))))
	taut := Or(Var("a"), Not(Var("a")))
	model = Solve(taut)
	require.Len(t, model, 1)
	assert.True(t, taut.Eval(model))
}

func TestEquivalent(t *testing.T) {
	assert.True(t, Equivalent(Not(And(Var("a"), Var("b"))), Or(Not(Var("a")), Not(Var("b")))))
	assert.True(t, Equivalent(Xor(Var("a"), Var("b")), Not(Eq(Var("a"), Var("b")))))
	assert.False(t, Equivalent(Var("a"), Var("b")))
}

func ExampleToCNF() {
	f, _ := Parse("a XOR b", []string{"a", "b"})
	fmt.Println(ToCNF(f))
	fmt.Println(ToDNF(f))
	// Output:
	// (a OR b) AND (NOT b OR NOT a)
	// a AND NOT b OR NOT a AND b
}

func ExampleToCNF_tautology() {
	f, _ := Parse("a OR NOT a", []string{"a"})
	fmt.Println(ToCNF(f))
	// Output: TRUE
}

func ExampleSolve() {
	f, _ := Parse("NOT a AND (b OR c) AND NOT b", []string{"a", "b", "c"})
	model := Solve(f)
	if model != nil {
		fmt.Printf("Problem is satisfiable: a=%t, b=%t, c=%t", model["a"], model["b"], model["c"])
	} else {
		fmt.Printf("Problem is unsatisfiable")
	}
	// Output: Problem is satisfiable: a=false, b=false, c=true
}

func ExampleDimacs() {
	f, _ := Parse("a XOR b", []string{"a", "b"})
	if err := Dimacs(f, os.Stdout); err != nil {
		fmt.Printf("Could not generate DIMACS file: %v", err)
	}
	// Output:
	// p cnf 2 2
	// c a=1
	// c b=2
	// 1 2 0
	// -2 -1 0
}

// parity returns x0 XOR x1 XOR ... XOR x(n-1), whose normal forms have 2^(n-1) clauses.
func parity(n int) Formula {
	f := Var("x0")
	for i := 1; i < n; i++ {
		f = Xor(f, Var(fmt.Sprintf("x%d", i)))
	}
	return f
}

func TestNormalFormsContext(t *testing.T) {
	f := parity(4)
	cnf, err := ToCNFContext(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, ToCNF(f), cnf)
	dnf, err := ToDNFContext(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, ToDNF(f), dnf)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ToCNFContext(canceled, Var("a"))
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	_, err = ToDNFContext(canceled, Var("a"))
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestNormalFormsContext_Deadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := ToCNFContext(ctx, parity(20))
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	_, err = ToDNFContext(ctx, parity(20))
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
