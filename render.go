package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/crillab/booltrainer/truthtable"
)

// renderTable prints t as aligned columns, variables first, then outputs after a separator.
// True values are printed in green and false ones in red when colored is set.
func renderTable(w io.Writer, t *truthtable.Table, colored bool) {
	yes, no, bold := color.New(color.FgGreen), color.New(color.FgRed), color.New(color.Bold)
	for _, c := range []*color.Color{yes, no, bold} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	headers := append(append([]string{}, t.Variables...), t.Outputs...)
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	cell := func(i int, s string, c *color.Color) string {
		return c.Sprint(s) + strings.Repeat(" ", widths[i]-len(s))
	}
	line := func(cells []string) {
		nv := len(t.Variables)
		fmt.Fprintf(w, "%s | %s\n", strings.Join(cells[:nv], " "), strings.Join(cells[nv:], " "))
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = cell(i, h, bold)
	}
	line(cells)
	for _, row := range t.Rows {
		for i, v := range append(append([]bool{}, row.Values...), row.Results...) {
			if v {
				cells[i] = cell(i, "1", yes)
			} else {
				cells[i] = cell(i, "0", no)
			}
		}
		line(cells)
	}
}

func renderAnalysis(w io.Writer, a truthtable.Analysis) {
	var verdict string
	switch {
	case a.IsTautology:
		verdict = "tautology"
	case a.IsContradiction:
		verdict = "contradiction"
	default:
		verdict = "contingent"
	}
	fmt.Fprintf(w, "%d rows, %d true, %d false: %s\n", a.TotalRows, a.TrueResults, a.FalseResults, verdict)
}
