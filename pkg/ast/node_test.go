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

func TestAppendChildSetsParent(t *testing.T) {
	gen := ids.NewGenerator()
	file := NewFile(gen, diag.Location{}, "a.soy", "ns", FileSRC)
	tmpl := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})

	file.AppendChild(tmpl)

	require.Same(t, file, tmpl.Parent())
	require.Equal(t, []*Node{tmpl}, file.Children())
}

func TestRemoveChildAtReleasesParent(t *testing.T) {
	gen := ids.NewGenerator()
	tmpl := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})
	text := NewRawText(gen, diag.Location{}, "hi")
	tmpl.AppendChild(text)

	removed := tmpl.RemoveChildAt(0)

	require.Same(t, text, removed)
	require.Nil(t, removed.Parent())
	require.Empty(t, tmpl.Children())
}

func TestSetChildrenReleasesDroppedChildren(t *testing.T) {
	gen := ids.NewGenerator()
	tmpl := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})
	a := NewRawText(gen, diag.Location{}, "a")
	b := NewRawText(gen, diag.Location{}, "b")
	c := NewRawText(gen, diag.Location{}, "c")
	tmpl.SetChildren([]*Node{a, b})

	tmpl.SetChildren([]*Node{b, c})

	require.Nil(t, a.Parent(), "a was dropped, its parent must be cleared")
	require.Same(t, tmpl, b.Parent())
	require.Same(t, tmpl, c.Parent())
	require.Equal(t, []*Node{b, c}, tmpl.Children())
}

func TestInsertChildAt(t *testing.T) {
	gen := ids.NewGenerator()
	tmpl := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})
	a := NewRawText(gen, diag.Location{}, "a")
	c := NewRawText(gen, diag.Location{}, "c")
	tmpl.SetChildren([]*Node{a, c})

	b := NewRawText(gen, diag.Location{}, "b")
	tmpl.InsertChildAt(1, b)

	require.Equal(t, []*Node{a, b, c}, tmpl.Children())
	require.Same(t, tmpl, b.Parent())
}

func TestReplaceChild(t *testing.T) {
	gen := ids.NewGenerator()
	tmpl := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})
	old := NewExprGlobal(gen, diag.Location{}, "FOO")
	tmpl.AppendChild(old)

	replacement := NewExprStringLiteral(gen, diag.Location{}, "bar")
	ok := tmpl.ReplaceChild(old, replacement)

	require.True(t, ok)
	require.Nil(t, old.Parent())
	require.Same(t, tmpl, replacement.Parent())
	require.Equal(t, []*Node{replacement}, tmpl.Children())
}

func TestReplaceChildNotAChild(t *testing.T) {
	gen := ids.NewGenerator()
	tmpl := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})
	stray := NewRawText(gen, diag.Location{}, "stray")
	replacement := NewRawText(gen, diag.Location{}, "new")

	require.False(t, tmpl.ReplaceChild(stray, replacement))
}

func TestReplaceSelf(t *testing.T) {
	gen := ids.NewGenerator()
	file := NewFile(gen, diag.Location{}, "a.soy", "ns", FileSRC)
	tmpl := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})
	file.AppendChild(tmpl)

	replacement := NewTemplate(gen, diag.Location{}, &TemplateData{Name: "ns.foo"})
	ok := tmpl.ReplaceSelf(replacement)

	require.True(t, ok)
	require.Equal(t, []*Node{replacement}, file.Children())
}

func TestReplaceSelfNoParent(t *testing.T) {
	gen := ids.NewGenerator()
	root := NewFile(gen, diag.Location{}, "a.soy", "ns", FileSRC)
	other := NewFile(gen, diag.Location{}, "b.soy", "ns", FileSRC)

	require.False(t, root.ReplaceSelf(other))
}

func TestNodeIDsUniqueAcrossFileset(t *testing.T) {
	gen := ids.NewGenerator()
	seen := map[ids.ID]bool{}
	for i := 0; i < 50; i++ {
		n := NewRawText(gen, diag.Location{}, "x")
		require.False(t, seen[n.ID()])
		seen[n.ID()] = true
	}
}
