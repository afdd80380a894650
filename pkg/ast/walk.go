// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ast

// Visitor is called once per node during Walk, pre-order. Returning false
// skips the node's children (but siblings and the rest of the tree are
// still visited).
type Visitor func(n *Node) bool

// Walk visits n and every descendant, pre-order, depth-first.
func Walk(n *Node, visit Visitor) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, visit)
	}
}

// FindAll returns every descendant of n (n included) for which match
// returns true, in pre-order.
func FindAll(n *Node, match func(n *Node) bool) []*Node {
	var out []*Node
	Walk(n, func(n *Node) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FindAllOfKind returns every descendant of n (n included) whose Kind is
// kind, in pre-order.
func FindAllOfKind(n *Node, kind NodeKind) []*Node {
	return FindAll(n, func(n *Node) bool { return n.Kind() == kind })
}

// Ancestors returns n's ancestor chain, starting with n's immediate
// parent and ending at the root.
func Ancestors(n *Node) []*Node {
	var out []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		out = append(out, p)
	}
	return out
}

// EnclosingTemplate returns n itself if its Kind is KindTemplate,
// otherwise the nearest ancestor of n whose Kind is KindTemplate, or nil
// if there is none (e.g. n is a File or fileset root).
func EnclosingTemplate(n *Node) *Node {
	for p := n; p != nil; p = p.Parent() {
		if p.Kind() == KindTemplate {
			return p
		}
	}
	return nil
}
