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
	"github.com/kraklabs/tmplc/pkg/typesig"
)

func buildCallerCallee(gen *ids.Generator, callerNS, calleeNS string, calleeVisibility ast.Visibility) ([]*ast.Node, *ast.Node) {
	callee := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{
		Name:       calleeNS + ".target",
		Visibility: calleeVisibility,
	})
	calleeFile := ast.NewFile(gen, diag.Location{}, "callee.soy", calleeNS, ast.FileSRC)
	calleeFile.AppendChild(callee)

	call := ast.NewCall(gen, diag.Location{}, calleeNS+".target", false)
	caller := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: callerNS + ".caller"})
	caller.AppendChild(call)
	callerFile := ast.NewFile(gen, diag.Location{}, "caller.soy", callerNS, ast.FileSRC)
	callerFile.AppendChild(caller)

	return []*ast.Node{calleeFile, callerFile}, call
}

func TestCrossTemplateChecksAllowsSameNamespacePrivateCall(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()
	files, _ := buildCallerCallee(gen, "ns", "ns", ast.VisibilityPrivate)

	reg := registry.New()
	reg.Build(files, sink)
	require.Equal(t, 0, sink.Len())

	CrossTemplateChecks{}.RunFileset(files, gen, reg, sink)
	require.Equal(t, 0, sink.Len())
}

func TestCrossTemplateChecksRejectsCrossNamespacePrivateCall(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()
	files, _ := buildCallerCallee(gen, "caller_ns", "callee_ns", ast.VisibilityPrivate)

	reg := registry.New()
	reg.Build(files, sink)
	require.Equal(t, 0, sink.Len())

	CrossTemplateChecks{}.RunFileset(files, gen, reg, sink)
	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindVisibilityViolation, sink.All()[0].Kind)
}

func TestCrossTemplateChecksStrictDepsRejectsUnresolvedCall(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	call := ast.NewCall(gen, diag.Location{}, "ns.missing", false)
	caller := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.caller"})
	caller.AppendChild(call)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(caller)

	reg := registry.New()
	reg.Build([]*ast.Node{file}, sink)

	CrossTemplateChecks{AllowExternalCalls: false}.RunFileset([]*ast.Node{file}, gen, reg, sink)
	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindStrictDepsViolation, sink.All()[0].Kind)
}

func TestCrossTemplateChecksRejectsTiedDelegateDefaults(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	implA := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{
		Name: "ns.implA", Kind: ast.TemplateDelegate, DelegateName: "widget", Priority: 0,
	})
	implB := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{
		Name: "ns.implB", Kind: ast.TemplateDelegate, DelegateName: "widget", Priority: 0,
	})
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(implA)
	file.AppendChild(implB)

	reg := registry.New()
	reg.Build([]*ast.Node{file}, sink)
	require.Equal(t, 0, sink.Len())

	CrossTemplateChecks{}.RunFileset([]*ast.Node{file}, gen, reg, sink)
	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindDelegateConflict, sink.All()[0].Kind)
}

func TestCrossTemplateChecksAllowsDelegateDefaultsAcrossVariants(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	implA := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{
		Name: "ns.implA", Kind: ast.TemplateDelegate, DelegateName: "widget", DelegateVariant: "a", Priority: 0,
	})
	implB := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{
		Name: "ns.implB", Kind: ast.TemplateDelegate, DelegateName: "widget", DelegateVariant: "b", Priority: 0,
	})
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(implA)
	file.AppendChild(implB)

	reg := registry.New()
	reg.Build([]*ast.Node{file}, sink)

	CrossTemplateChecks{}.RunFileset([]*ast.Node{file}, gen, reg, sink)
	require.Equal(t, 0, sink.Len())
}

func TestCrossTemplateChecksRejectsHeaderVarTypeMismatch(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	callee := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{
		Name:   "ns.target",
		Params: []ast.ParamDecl{{Name: "count", Type: typesig.ParseType("int"), Required: true}},
	})
	calleeFile := ast.NewFile(gen, diag.Location{}, "callee.soy", "ns", ast.FileSRC)
	calleeFile.AppendChild(callee)

	call := ast.NewCall(gen, diag.Location{}, "ns.target", false)
	call.AppendChild(ast.NewExprStringLiteral(gen, diag.Location{}, "not a number"))
	caller := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.caller"})
	caller.AppendChild(call)
	callerFile := ast.NewFile(gen, diag.Location{}, "caller.soy", "ns", ast.FileSRC)
	callerFile.AppendChild(caller)

	files := []*ast.Node{calleeFile, callerFile}
	reg := registry.New()
	reg.Build(files, sink)

	ResolveExpressionTypes{}.RunFile(callerFile, gen, sink)

	CrossTemplateChecks{CheckHeaderVarTypes: true}.RunFileset(files, gen, reg, sink)
	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindTypeMismatch, sink.All()[0].Kind)
}

func TestCrossTemplateChecksRejectsMissingRequiredArgument(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	callee := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{
		Name:   "ns.target",
		Params: []ast.ParamDecl{{Name: "count", Type: typesig.ParseType("int"), Required: true}},
	})
	calleeFile := ast.NewFile(gen, diag.Location{}, "callee.soy", "ns", ast.FileSRC)
	calleeFile.AppendChild(callee)

	call := ast.NewCall(gen, diag.Location{}, "ns.target", false)
	caller := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.caller"})
	caller.AppendChild(call)
	callerFile := ast.NewFile(gen, diag.Location{}, "caller.soy", "ns", ast.FileSRC)
	callerFile.AppendChild(caller)

	files := []*ast.Node{calleeFile, callerFile}
	reg := registry.New()
	reg.Build(files, sink)

	CrossTemplateChecks{CheckHeaderVarTypes: true}.RunFileset(files, gen, reg, sink)
	require.Equal(t, 1, sink.Len())
	require.Equal(t, diag.KindTypeMismatch, sink.All()[0].Kind)
}

func TestCrossTemplateChecksAllowExternalCallsSkipsUnresolvedCall(t *testing.T) {
	gen := ids.NewGenerator()
	sink := diag.NewSink()

	call := ast.NewCall(gen, diag.Location{}, "ns.missing", false)
	caller := ast.NewTemplate(gen, diag.Location{}, &ast.TemplateData{Name: "ns.caller"})
	caller.AppendChild(call)
	file := ast.NewFile(gen, diag.Location{}, "a.soy", "ns", ast.FileSRC)
	file.AppendChild(caller)

	reg := registry.New()
	reg.Build([]*ast.Node{file}, sink)

	CrossTemplateChecks{AllowExternalCalls: true}.RunFileset([]*ast.Node{file}, gen, reg, sink)
	require.Equal(t, 0, sink.Len())
}
