package truthtable

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/crillab/booltrainer/bf"
)

// hardMax is the largest number of variables whose rows can be counted with an int on every platform.
const hardMax = 30

// Config tunes a Generator. Zero fields take their default value.
type Config struct {
	MaxVariables      int `yaml:"max_variables"`      // Cap on the number of variables of a table
	CheckEvery        int `yaml:"check_every"`        // Rows enumerated between two context checks
	ParallelThreshold int `yaml:"parallel_threshold"` // Row count from which rows are filled concurrently
	Workers           int `yaml:"workers"`            // Number of concurrent fillers
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		MaxVariables:      16,
		CheckEvery:        1024,
		ParallelThreshold: 4096,
		Workers:           runtime.GOMAXPROCS(0),
	}
}

// A Generator builds truth tables. It holds no per-table state and is safe for concurrent use.
type Generator struct {
	cfg Config
}

// New returns a generator using cfg.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.MaxVariables <= 0 {
		cfg.MaxVariables = def.MaxVariables
	}
	if cfg.MaxVariables > hardMax {
		cfg.MaxVariables = hardMax
	}
	if cfg.CheckEvery <= 0 {
		cfg.CheckEvery = def.CheckEvery
	}
	if cfg.ParallelThreshold <= 0 {
		cfg.ParallelThreshold = def.ParallelThreshold
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	return &Generator{cfg: cfg}
}

// Config returns the effective configuration of g.
func (g *Generator) Config() Config { return g.cfg }

// Check validates the declared variables: they must be valid, distinct names,
// and no more than the configured maximum.
func (g *Generator) Check(variables []string) error {
	if err := bf.CheckVariables(variables); err != nil {
		return err
	}
	if len(variables) > g.cfg.MaxVariables {
		return &TooManyVariablesError{Count: len(variables), Max: g.cfg.MaxVariables}
	}
	return nil
}

// Generate returns the truth table of f over variables, with the single output column "result".
// Every variable of f must be declared. Declaring no variable is only allowed for a constant formula,
// whose table has a single row.
func (g *Generator) Generate(ctx context.Context, f bf.Formula, variables []string) (*Table, error) {
	if err := g.Check(variables); err != nil {
		return nil, err
	}
	refs := bf.Vars(f)
	if len(variables) == 0 && len(refs) > 0 {
		return nil, &EmptyVariableSetError{Referenced: refs}
	}
	declared := make(map[string]bool, len(variables))
	for _, v := range variables {
		declared[v] = true
	}
	for _, name := range refs {
		if !declared[name] {
			return nil, &bf.UnknownIdentifierError{Name: name, Offset: -1}
		}
	}
	return g.Fill(ctx, variables, []string{ResultColumn}, func(_ int, a bf.Assignment) ([]bool, error) {
		return []bool{f.Eval(a)}, nil
	})
}

// An EvalFunc computes the outputs of row i, whose assignment is a.
// It may be called concurrently from several goroutines and must not keep a.
type EvalFunc func(i int, a bf.Assignment) ([]bool, error)

// Fill enumerates the assignments of variables and stores the results of eval in a new table
// whose output columns are named after outputs.
// Rows are filled concurrently once the table is large enough. The first error stops the enumeration.
func (g *Generator) Fill(ctx context.Context, variables, outputs []string, eval EvalFunc) (*Table, error) {
	if err := g.Check(variables); err != nil {
		return nil, err
	}
	n := len(variables)
	t := &Table{
		Variables: append([]string(nil), variables...),
		Outputs:   append([]string(nil), outputs...),
		Rows:      make([]Row, 1<<uint(n)),
	}
	fill := func(ctx context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			if (i-lo)%g.cfg.CheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("enumerating row %d: %w", i, err)
				}
			}
			values := row(i, n)
			a := make(bf.Assignment, n)
			for j, v := range variables {
				a[v] = values[j]
			}
			res, err := eval(i, a)
			if err != nil {
				return err
			}
			t.Rows[i] = Row{Values: values, Results: res}
		}
		return nil
	}
	total := len(t.Rows)
	if total < g.cfg.ParallelThreshold || g.cfg.Workers < 2 {
		if err := fill(ctx, 0, total); err != nil {
			return nil, err
		}
		return t, nil
	}
	eg, egCtx := errgroup.WithContext(ctx)
	chunk := (total + g.cfg.Workers - 1) / g.cfg.Workers
	for lo := 0; lo < total; lo += chunk {
		lo, hi := lo, min(lo+chunk, total)
		eg.Go(func() error { return fill(egCtx, lo, hi) })
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

// Enumerate calls fn for each assignment of variables, in canonical order.
// It stops at the first error returned by fn, or when ctx is done.
func (g *Generator) Enumerate(ctx context.Context, variables []string, fn func(i int, a bf.Assignment) error) error {
	if err := g.Check(variables); err != nil {
		return err
	}
	n := len(variables)
	for i := 0; i < 1<<uint(n); i++ {
		if i%g.cfg.CheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("enumerating row %d: %w", i, err)
			}
		}
		values := row(i, n)
		a := make(bf.Assignment, n)
		for j, v := range variables {
			a[v] = values[j]
		}
		if err := fn(i, a); err != nil {
			return err
		}
	}
	return nil
}
