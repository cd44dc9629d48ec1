// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package planviz

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/olekukonko/tablewriter"
)

// WriteTable writes the plan rooted at n to w as a table with one row per
// node, in pre-order. The parent column holds the id of the node's parent.
func WriteTable(w io.Writer, n plan.Node, flags Flags) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"id", "parent", "kind", "outputs", "details"})

	rows := 0
	var walk func(n plan.Node, parent plan.NodeID)
	walk = func(n plan.Node, parent plan.NodeID) {
		props := properties(n, flags)
		details := make([]string, len(props))
		for i, p := range props {
			details[i] = fmt.Sprintf("%s: %s", p.name, p.value)
		}
		table.Append([]string{
			string(n.ID()), string(parent), n.Kind().String(), symbols(n.Outputs()),
			strings.Join(details, "; "),
		})
		rows++
		for _, c := range n.Children() {
			walk(c, n.ID())
		}
	}
	walk(n, "")
	table.Render()
	fmt.Fprintf(w, "(%d node%s)\n", rows, pluralize(rows))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
