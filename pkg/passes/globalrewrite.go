// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// GlobalRewriteName is this pass's continuation-rule key.
const GlobalRewriteName = "GlobalRewrite"

// GlobalValue is one entry of the configured compile-time global mapping.
type GlobalValue struct {
	Kind        ast.LiteralKind
	StringValue string
	IntValue    int64
	FloatValue  float64
	BoolValue   bool
}

// GlobalRewrite substitutes references to compile-time globals with
// constant literals, guided by Globals. Must precede any pass that
// forbids unknown globals — that ordering is a contract enforced by the
// assembled pipeline, not by this pass itself. When AllowUnknownGlobals
// is false, a global absent from the mapping is reported (§6
// `allow_unknown_globals`).
type GlobalRewrite struct {
	Globals             map[string]GlobalValue
	AllowUnknownGlobals bool
}

func (GlobalRewrite) Name() string { return GlobalRewriteName }

func (p GlobalRewrite) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	ast.Walk(file, func(n *ast.Node) bool {
		for _, c := range n.Children() {
			gd, ok := c.Data.(*ast.ExprGlobalData)
			if !ok {
				continue
			}
			val, found := p.Globals[gd.Name]
			if !found {
				if !p.AllowUnknownGlobals {
					sink.ReportFrom(GlobalRewriteName, c.Location(), diag.KindUnknownGlobal, gd.Name)
				}
				continue
			}
			n.ReplaceChild(c, literalFromGlobal(gen, c, val))
		}
		return true
	})
}

func literalFromGlobal(gen *ids.Generator, old *ast.Node, v GlobalValue) *ast.Node {
	loc := old.Location()
	switch v.Kind {
	case ast.LiteralString:
		return ast.NewExprStringLiteral(gen, loc, v.StringValue)
	case ast.LiteralInt:
		return ast.NewExprIntLiteral(gen, loc, v.IntValue)
	case ast.LiteralBool:
		return ast.NewExprBoolLiteral(gen, loc, v.BoolValue)
	case ast.LiteralFloat:
		return ast.NewNode(gen, ast.KindExprLiteral, loc, &ast.ExprLiteralData{Kind: ast.LiteralFloat, FloatValue: v.FloatValue})
	default:
		return ast.NewExprNullLiteral(gen, loc)
	}
}
