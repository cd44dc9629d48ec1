// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package planviz

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/planir/pkg/sql/plan"
	"github.com/emicklei/dot"
)

// DOT renders the plan rooted at n as a Graphviz digraph. Each node is a box
// labeled with its kind, id and properties; edges point from a node to its
// inputs and are labeled with the input's outputs.
func DOT(n plan.Node, flags Flags) string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")
	addNode(g, n, flags)
	return g.String()
}

func addNode(g *dot.Graph, n plan.Node, flags Flags) dot.Node {
	lines := []string{fmt.Sprintf("%s %s", n.Kind(), n.ID())}
	for _, p := range properties(n, flags) {
		lines = append(lines, fmt.Sprintf("%s: %s", p.name, p.value))
	}
	gn := g.Node(string(n.ID())).
		Label(strings.Join(lines, "\n")).
		Attr("shape", "box")
	if n.Kind() == plan.ScanKind {
		gn.Attr("style", "filled").Attr("fillcolor", "lightgrey")
	}
	for _, c := range n.Children() {
		cn := addNode(g, c, flags)
		g.Edge(gn, cn).Label(symbols(c.Outputs()))
	}
	return gn
}
