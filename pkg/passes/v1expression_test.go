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

func TestV1ExpressionCheckRejectsByDefault(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	v1 := ast.NewExprV1(gen, diag.Location{}, "legacyFn(x)")
	print := ast.NewPrint(gen, diag.Location{}, v1)
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(print)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	V1ExpressionCheck{}.RunFile(file, gen, sink)

	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindV1ExpressionDisallowed, sink.All()[0].Kind)
}

func TestV1ExpressionCheckAllowsWhenEnabled(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	v1 := ast.NewExprV1(gen, diag.Location{}, "legacyFn(x)")
	print := ast.NewPrint(gen, diag.Location{}, v1)
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(print)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	V1ExpressionCheck{Allow: true}.RunFile(file, gen, sink)

	require.Equal(t, 0, sink.Len())
}
