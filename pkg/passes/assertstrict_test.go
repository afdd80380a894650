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
	"github.com/kraklabs/tmplc/pkg/registry"
)

func TestAssertStrictAutoescapeAllowsStrictTemplate(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo", Autoescape: ast.AutoescapeStrict})
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	AssertStrictAutoescape{}.RunFileset([]*ast.Node{file}, gen, registry.New(), sink)

	require.Equal(t, 0, sink.Len())
}

func TestAssertStrictAutoescapeRejectsContextualTemplate(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo", Autoescape: ast.AutoescapeContextual})
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	AssertStrictAutoescape{}.RunFileset([]*ast.Node{file}, gen, registry.New(), sink)

	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindNotStrictlyAutoescaped, sink.All()[0].Kind)
}

func TestAssertStrictAutoescapeRejectsDisabledAutoescape(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo", Autoescape: ast.AutoescapeFalse})
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	AssertStrictAutoescape{}.RunFileset([]*ast.Node{file}, gen, registry.New(), sink)

	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindNotStrictlyAutoescaped, sink.All()[0].Kind)
}
