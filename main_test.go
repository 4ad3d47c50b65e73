package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/booltrainer/truthtable"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderTable(t *testing.T) {
	table := &truthtable.Table{
		Variables: []string{"a", "bb"},
		Outputs:   []string{"out"},
		Rows: []truthtable.Row{
			{Values: []bool{false, true}, Results: []bool{true}},
			{Values: []bool{true, false}, Results: []bool{false}},
		},
	}
	var buf bytes.Buffer
	renderTable(&buf, table, false)
	assert.Equal(t, "a bb | out\n0 1  | 1  \n1 0  | 0  \n", buf.String())

	buf.Reset()
	renderTable(&buf, table, true)
	assert.Contains(t, buf.String(), "\x1b[32m1")
	assert.Contains(t, buf.String(), "\x1b[31m0")
}

func TestTableCommand(t *testing.T) {
	out, err := run(t, "table", "a AND b", "--vars", "a,b")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "a AND b", lines[0])
	assert.Equal(t, "a b | result", lines[1])
	assert.Equal(t, "1 1 | 1", strings.TrimSpace(lines[5]))
	assert.Equal(t, "4 rows, 1 true, 3 false: contingent", lines[6])
}

func TestTableCommand_JSON(t *testing.T) {
	out, err := run(t, "table", "NOT a", "-v", "a", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, `"is_satisfiable": true`)
}

func TestTableCommand_Error(t *testing.T) {
	_, err := run(t, "table", "a AND c", "--vars", "a b")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "UnknownIdentifierError: "), err.Error())
}

func TestFormsCommand(t *testing.T) {
	out, err := run(t, "forms", "a ^ b", "--vars", "a,b")
	require.NoError(t, err)
	assert.Contains(t, out, "cnf:      (a OR b) AND (NOT b OR NOT a)\n")
	assert.Contains(t, out, "most compact: original\n")

	out, err = run(t, "forms", "a AND b", "--vars", "a,b", "--dimacs")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "p cnf 2 2\n"), out)
}

func TestSolveCommand(t *testing.T) {
	out, err := run(t, "solve", "a AND NOT b", "--vars", "a,b")
	require.NoError(t, err)
	assert.Equal(t, "SATISFIABLE\na: true\nb: false\n", out)

	out, err = run(t, "solve", "a AND NOT a", "--vars", "a")
	require.NoError(t, err)
	assert.Equal(t, "UNSATISFIABLE\n", out)
}

const notScheme = `
nodes:
  - id: x
    kind: INPUT
  - id: n
    kind: NOT
  - id: out
    kind: OUTPUT
wires:
  - {sourceNodeId: x, sourceSlot: 0, targetNodeId: n, targetSlot: 0}
  - {sourceNodeId: n, sourceSlot: 0, targetNodeId: out, targetSlot: 0}
`

func TestCircuitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.yaml")
	require.NoError(t, os.WriteFile(path, []byte(notScheme), 0o600))
	out, err := run(t, "circuit", path, "--vars", "x")
	require.NoError(t, err)
	assert.Equal(t, "out = NOT x\nx | out\n0 | 1  \n1 | 0  \n", out)
}

func TestCircuitCommand_Dangling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dangling.json")
	scheme := `{"nodes": [{"id": "x", "kind": "INPUT"}, {"id": "out", "kind": "OUTPUT"}]}`
	require.NoError(t, os.WriteFile(path, []byte(scheme), 0o600))
	for _, policy := range []string{"fatal", "float"} {
		_, err := run(t, "circuit", path, "--vars", "x", "--dangling", policy)
		require.Error(t, err, policy)
		assert.True(t, strings.HasPrefix(err.Error(), "DanglingInputError: "), err.Error())
	}

	_, err := run(t, "circuit", filepath.Join(t.TempDir(), "missing.json"), "--vars", "x")
	assert.Error(t, err)
}
