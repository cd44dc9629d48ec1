// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plan

// Walk calls fn for n and its descendants in pre-order. If fn returns false
// the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for i, c := 0, n.ChildCount(); i < c; i++ {
		Walk(n.Child(i), fn)
	}
}

// Rewrite rebuilds the tree rooted at n bottom-up. The children of every node
// are rewritten first; if any changed, the node is rebuilt with WithChildren.
// fn is then called on the (possibly rebuilt) node and its result replaces the
// node. Subtrees in which nothing changed are returned as is, so a rewrite
// that changes nothing returns n itself.
func Rewrite(n Node, fn func(Node) (Node, error)) (Node, error) {
	count := n.ChildCount()
	if count > 0 {
		var children []Node
		for i := 0; i < count; i++ {
			child := n.Child(i)
			r, err := Rewrite(child, fn)
			if err != nil {
				return nil, err
			}
			if r != child && children == nil {
				children = n.Children()
			}
			if children != nil {
				children[i] = r
			}
		}
		if children != nil {
			var err error
			if n, err = n.WithChildren(children...); err != nil {
				return nil, err
			}
		}
	}
	return fn(n)
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	count := 0
	Walk(n, func(Node) bool {
		count++
		return true
	})
	return count
}
