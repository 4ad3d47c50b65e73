// Package truthtable enumerates the assignments of a set of variables and tabulates
// the value of boolean functions under each of them.
//
// Rows are in canonical order: the first variable changes slowest, the last one fastest,
// false before true. Row i binds the k-th variable from the end to bit k of i.
package truthtable

import (
	"bytes"
	"encoding/json"

	"github.com/crillab/booltrainer/bf"
)

// ResultColumn is the name of the single output column of an expression table.
const ResultColumn = "result"

// A Row is one line of a truth table.
type Row struct {
	Values  []bool // Value of each variable, in declaration order
	Results []bool // Value of each output, in output order
}

// A Table is a truth table.
type Table struct {
	Variables []string
	Outputs   []string
	Rows      []Row
}

// Assignment returns the assignment of row i.
func (t *Table) Assignment(i int) bf.Assignment {
	a := make(bf.Assignment, len(t.Variables))
	for j, v := range t.Variables {
		a[v] = t.Rows[i].Values[j]
	}
	return a
}

// Column returns the values of the given output in row order, or nil if there is no such output.
func (t *Table) Column(output string) []bool {
	for k, name := range t.Outputs {
		if name == output {
			res := make([]bool, len(t.Rows))
			for i, row := range t.Rows {
				res[i] = row.Results[k]
			}
			return res
		}
	}
	return nil
}

// row computes the values of the variables of row i among n variables.
func row(i, n int) []bool {
	values := make([]bool, n)
	for j := range values {
		values[j] = (i>>(n-1-j))&1 == 1
	}
	return values
}

// MarshalJSON writes the table as an array of objects, one per row.
// Each object lists the variables in declaration order, then:
// the key "result" when there is exactly one output,
// and the key "outputs", mapping output names to values, unless the only output is the "result" column.
func (t *Table) MarshalJSON() ([]byte, error) {
	named := len(t.Outputs) > 0 && !(len(t.Outputs) == 1 && t.Outputs[0] == ResultColumn)
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		first := true
		field := func(key string, val []byte) error {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			k, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(val)
			return nil
		}
		for j, v := range t.Variables {
			if err := field(v, boolJSON(r.Values[j])); err != nil {
				return nil, err
			}
		}
		if len(t.Outputs) == 1 {
			if err := field(ResultColumn, boolJSON(r.Results[0])); err != nil {
				return nil, err
			}
		}
		if named {
			var outs bytes.Buffer
			outs.WriteByte('{')
			for k, name := range t.Outputs {
				if k > 0 {
					outs.WriteByte(',')
				}
				key, err := json.Marshal(name)
				if err != nil {
					return nil, err
				}
				outs.Write(key)
				outs.WriteByte(':')
				outs.Write(boolJSON(r.Results[k]))
			}
			outs.WriteByte('}')
			if err := field("outputs", outs.Bytes()); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func boolJSON(b bool) []byte {
	if b {
		return []byte("true")
	}
	return []byte("false")
}

// Analysis summarizes the first output column of a table.
type Analysis struct {
	TotalRows       int  `json:"total_rows"`
	TrueResults     int  `json:"true_results"`
	FalseResults    int  `json:"false_results"`
	IsTautology     bool `json:"is_tautology"`
	IsContradiction bool `json:"is_contradiction"`
	IsSatisfiable   bool `json:"is_satisfiable"`
}

// Analyze counts the true and false results of the first output of t.
// A table without output only reports its number of rows.
func (t *Table) Analyze() Analysis {
	res := Analysis{TotalRows: len(t.Rows)}
	if len(t.Outputs) == 0 {
		return res
	}
	for _, r := range t.Rows {
		if r.Results[0] {
			res.TrueResults++
		} else {
			res.FalseResults++
		}
	}
	res.IsTautology = res.TrueResults == res.TotalRows
	res.IsContradiction = res.FalseResults == res.TotalRows
	res.IsSatisfiable = res.TrueResults > 0
	return res
}
