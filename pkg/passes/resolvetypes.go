// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
	"github.com/kraklabs/tmplc/pkg/typesig"
)

// ResolveExpressionTypesName is this pass's continuation-rule key.
const ResolveExpressionTypesName = "ResolveExpressionTypes"

// ResolveExpressionTypes propagates types bottom-up across expression
// subtrees, using the parameter declarations for header variables. A
// node whose children have errors receives typesig.Unknown and its
// parent silently short-circuits further checks rather than cascading
// (§4.5, §7 "degrade gracefully").
type ResolveExpressionTypes struct{}

func (ResolveExpressionTypes) Name() string { return ResolveExpressionTypesName }

func (p ResolveExpressionTypes) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	for _, tmpl := range file.Children() {
		if _, ok := tmpl.Data.(*ast.TemplateData); !ok {
			continue
		}
		postOrder(tmpl, func(n *ast.Node) { p.assign(n) })
	}
}

func postOrder(n *ast.Node, visit func(*ast.Node)) {
	for _, c := range n.Children() {
		postOrder(c, visit)
	}
	visit(n)
}

func (ResolveExpressionTypes) assign(n *ast.Node) {
	switch d := n.Data.(type) {
	case *ast.ExprLiteralData:
		d.Type = literalType(d.Kind)
	case *ast.ExprVarRefData:
		d.Type = resolvedVarType(d)
	case *ast.ExprBinOpData:
		d.Type = binOpType(n)
	case *ast.ExprGlobalData:
		d.Type = typesig.Unknown
	case *ast.ExprFieldAccessData:
		d.Type = typesig.Unknown
	}
}

func literalType(kind ast.LiteralKind) typesig.Type {
	switch kind {
	case ast.LiteralString:
		return typesig.Type{Kind: typesig.KindNamed, Name: "string"}
	case ast.LiteralInt:
		return typesig.Type{Kind: typesig.KindNamed, Name: "int"}
	case ast.LiteralFloat:
		return typesig.Type{Kind: typesig.KindNamed, Name: "float"}
	case ast.LiteralBool:
		return typesig.Type{Kind: typesig.KindNamed, Name: "bool"}
	default:
		return typesig.Type{Kind: typesig.KindNamed, Name: "null"}
	}
}

func resolvedVarType(d *ast.ExprVarRefData) typesig.Type {
	if d.Resolved == nil {
		return typesig.Unknown
	}
	switch rd := d.Resolved.Data.(type) {
	case *ast.TemplateData:
		for _, param := range append(append([]ast.ParamDecl{}, rd.Params...), rd.PropVars...) {
			if param.Name == d.Name {
				return param.Type
			}
		}
		return typesig.Unknown
	case *ast.LetData:
		if rd.HasValue && len(d.Resolved.Children()) == 1 {
			if vd, ok := exprTypeOf(d.Resolved.Children()[0]); ok {
				return vd
			}
		}
		return typesig.Unknown
	default:
		return typesig.Unknown
	}
}

func exprTypeOf(n *ast.Node) (typesig.Type, bool) {
	switch d := n.Data.(type) {
	case *ast.ExprLiteralData:
		return d.Type, true
	case *ast.ExprVarRefData:
		return d.Type, true
	case *ast.ExprBinOpData:
		return d.Type, true
	case *ast.ExprGlobalData:
		return d.Type, true
	case *ast.ExprFieldAccessData:
		return d.Type, true
	default:
		return typesig.Unknown, false
	}
}

func binOpType(n *ast.Node) typesig.Type {
	children := n.Children()
	if len(children) != 2 {
		return typesig.Unknown
	}
	left, lok := exprTypeOf(children[0])
	right, rok := exprTypeOf(children[1])
	if !lok || !rok || !left.Equal(right) {
		return typesig.Unknown
	}
	return left
}
