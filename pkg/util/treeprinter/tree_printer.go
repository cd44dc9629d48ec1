// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package treeprinter

import (
	"fmt"
	"strings"
)

const (
	edgeLinkChr = " ├── "
	edgeLastChr = " └── "
	bulletChr   = " │   "
	spaceChr    = "     "
)

// Node is a handle associated with a specific depth in a tree. See below for
// sample usage.
type Node struct {
	tree *tree
	idx  int
}

type tree struct {
	nodes []treeNode
}

type treeNode struct {
	text     string
	children []int
}

// New creates a tree printer and returns a sentinel node reference which
// should be used to add the root. Sample usage:
//
//	tp := New()
//	root := tp.Child("root")
//	root.Child("child-1")
//	root.Child("child-2").Child("grandchild")
//	root.Child("child-3")
//
//	fmt.Print(tp.String())
//
// Output:
//
//	root
//	 ├── child-1
//	 ├── child-2
//	 │    └── grandchild
//	 └── child-3
//
// Note that the Child calls can't be rearranged arbitrarily; they have
// to be in the order they need to be displayed (depth-first pre-order).
func New() Node {
	t := &tree{nodes: []treeNode{{}}}
	return Node{tree: t, idx: 0}
}

// Child adds a node as a child of the given node.
func (n Node) Child(text string) Node {
	t := n.tree
	t.nodes = append(t.nodes, treeNode{text: text})
	idx := len(t.nodes) - 1
	t.nodes[n.idx].children = append(t.nodes[n.idx].children, idx)
	return Node{tree: t, idx: idx}
}

// Childf adds a node as a child of the given node.
func (n Node) Childf(format string, args ...interface{}) Node {
	return n.Child(fmt.Sprintf(format, args...))
}

// String returns the tree as a string, including a final newline. It can be
// called on any node of the tree, and it always renders the whole tree.
func (n Node) String() string {
	var buf strings.Builder
	for _, root := range n.tree.nodes[0].children {
		n.tree.format(&buf, root, "" /* prefix */)
	}
	return buf.String()
}

func (t *tree) format(buf *strings.Builder, idx int, prefix string) {
	nd := &t.nodes[idx]
	buf.WriteString(nd.text)
	buf.WriteByte('\n')
	for i, c := range nd.children {
		last := i == len(nd.children)-1
		buf.WriteString(prefix)
		childPrefix := prefix
		if last {
			buf.WriteString(edgeLastChr)
			childPrefix += spaceChr
		} else {
			buf.WriteString(edgeLinkChr)
			childPrefix += bulletChr
		}
		t.format(buf, c, childPrefix)
	}
}
