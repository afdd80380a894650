// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

func buildSampleFile(gen *ids.Generator) (*Node, *Node, *Node) {
	file := NewFile(gen, diag.Location{}, "a.soy", "ns", FileSRC)
	tmpl := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})
	ref := NewExprVarRef(gen, diag.Location{}, "x")
	print := NewPrint(gen, diag.Location{}, ref)
	tmpl.AppendChild(print)
	file.AppendChild(tmpl)
	return file, tmpl, ref
}

func TestWalkVisitsPreOrder(t *testing.T) {
	gen := ids.NewGenerator()
	file, tmpl, ref := buildSampleFile(gen)

	var visited []*Node
	Walk(file, func(n *Node) bool {
		visited = append(visited, n)
		return true
	})

	require.Equal(t, file, visited[0])
	require.Equal(t, tmpl, visited[1])
	require.Contains(t, visited, ref)
}

func TestWalkSkipsChildrenWhenVisitorReturnsFalse(t *testing.T) {
	gen := ids.NewGenerator()
	file, tmpl, _ := buildSampleFile(gen)

	var visited []*Node
	Walk(file, func(n *Node) bool {
		visited = append(visited, n)
		return n.Kind() != KindTemplate
	})

	require.Contains(t, visited, tmpl)
	require.Len(t, visited, 2) // file, tmpl — tmpl's subtree skipped
}

func TestFindAllOfKind(t *testing.T) {
	gen := ids.NewGenerator()
	file, _, ref := buildSampleFile(gen)

	refs := FindAllOfKind(file, KindExprVarRef)

	require.Equal(t, []*Node{ref}, refs)
}

func TestEnclosingTemplate(t *testing.T) {
	gen := ids.NewGenerator()
	_, tmpl, ref := buildSampleFile(gen)

	require.Same(t, tmpl, EnclosingTemplate(ref))
	require.Nil(t, EnclosingTemplate(NewRawText(gen, diag.Location{}, "detached")))
}

func TestAncestors(t *testing.T) {
	gen := ids.NewGenerator()
	file, tmpl, ref := buildSampleFile(gen)
	print := tmpl.Children()[0]

	anc := Ancestors(ref)

	require.Equal(t, []*Node{print, tmpl, file}, anc)
}
