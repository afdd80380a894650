// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

func TestGlobalRewriteSubstitutesKnownGlobal(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	global := ast.NewExprGlobal(gen, diag.Location{}, "app.VERSION")
	print := ast.NewPrint(gen, diag.Location{}, global)
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(print)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	p := GlobalRewrite{Globals: map[string]GlobalValue{
		"app.VERSION": {Kind: ast.LiteralString, StringValue: "1.2.3"},
	}}
	p.RunFile(file, gen, sink)

	require.Equal(t, 0, sink.Len())
	require.Len(t, print.Children(), 1)
	lit, ok := print.Children()[0].Data.(*ast.ExprLiteralData)
	require.True(t, ok)
	require.Equal(t, "1.2.3", lit.StringValue)
}

func TestGlobalRewriteReportsUnknownGlobalByDefault(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	global := ast.NewExprGlobal(gen, diag.Location{}, "app.MYSTERY")
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(ast.NewPrint(gen, diag.Location{}, global))
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	GlobalRewrite{}.RunFile(file, gen, sink)

	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindUnknownGlobal, sink.All()[0].Kind)
}

func TestGlobalRewriteAllowsUnknownGlobalWhenConfigured(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	global := ast.NewExprGlobal(gen, diag.Location{}, "app.MYSTERY")
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(ast.NewPrint(gen, diag.Location{}, global))
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	GlobalRewrite{AllowUnknownGlobals: true}.RunFile(file, gen, sink)

	require.Equal(t, 0, sink.Len())
}
