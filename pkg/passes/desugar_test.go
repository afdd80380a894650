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

func TestHTMLRewriteThenDesugarRoundTrips(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo", ContentKind: ast.ContentHTML})
	tmpl.AppendChild(ast.NewRawText(gen, diag.Location{}, `<div class="a">hi</div><br>`))
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	HTMLRewrite{}.RunFile(file, gen, sink)
	require.Greater(t, len(tmpl.Children()), 1)

	DesugarHTML{}.RunFile(file, gen, sink)

	var text string
	for _, c := range tmpl.Children() {
		text += c.Data.(*ast.RawTextData).Text
	}
	require.Equal(t, `<div class="a">hi</div><br/>`, text)
}

func TestDesugarLeavesNonHTMLNodesAlone(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	ref := ast.NewExprVarRef(gen, diag.Location{}, "x")
	tmpl.AppendChild(ref)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	DesugarHTML{}.RunFile(file, gen, sink)

	require.Same(t, ref, tmpl.Children()[0])
}
