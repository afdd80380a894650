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
	"github.com/kraklabs/tmplc/pkg/typesig"
)

func TestResolveExpressionTypesAssignsLiteralType(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	lit := ast.NewExprIntLiteral(gen, diag.Location{}, 7)
	print := ast.NewPrint(gen, diag.Location{}, lit)
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(print)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	ResolveExpressionTypes{}.RunFile(file, gen, sink)

	ld := lit.Data.(*ast.ExprLiteralData)
	require.Equal(t, typesig.Type{Kind: typesig.KindNamed, Name: "int"}, ld.Type)
}

func TestResolveExpressionTypesResolvesParamType(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	paramType := typesig.ParseType("string")

	varRef := ast.NewExprVarRef(gen, diag.Location{}, "name")
	print := ast.NewPrint(gen, diag.Location{}, varRef)
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{
		Name:   "ns.foo",
		Params: []ast.ParamDecl{{Name: "name", Type: paramType}},
	})
	tmpl.AppendChild(print)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	vd := varRef.Data.(*ast.ExprVarRefData)
	vd.Resolved = tmpl

	ResolveExpressionTypes{}.RunFile(file, gen, sink)

	require.True(t, vd.Type.Equal(paramType))
}

func TestResolveExpressionTypesUnresolvedVarIsUnknown(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	varRef := ast.NewExprVarRef(gen, diag.Location{}, "mystery")
	print := ast.NewPrint(gen, diag.Location{}, varRef)
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(print)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	ResolveExpressionTypes{}.RunFile(file, gen, sink)

	vd := varRef.Data.(*ast.ExprVarRefData)
	require.Equal(t, typesig.Unknown, vd.Type)
	require.Equal(t, 0, sink.Len())
}

func TestResolveExpressionTypesBinOpMismatchIsUnknown(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	left := ast.NewExprIntLiteral(gen, diag.Location{}, 1)
	right := ast.NewExprStringLiteral(gen, diag.Location{}, "x")
	binOp := ast.NewNode(gen, ast.KindExprBinOp, diag.Location{}, &ast.ExprBinOpData{Op: "+"})
	binOp.AppendChild(left)
	binOp.AppendChild(right)
	print := ast.NewPrint(gen, diag.Location{}, binOp)
	tmpl := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.foo"})
	tmpl.AppendChild(print)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(tmpl)

	ResolveExpressionTypes{}.RunFile(file, gen, sink)

	bd := binOp.Data.(*ast.ExprBinOpData)
	require.Equal(t, typesig.Unknown, bd.Type)
}
