// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// V1ExpressionCheckName is this pass's continuation-rule key.
const V1ExpressionCheckName = "V1ExpressionCheck"

// V1ExpressionCheck governs §6's allow_v1_expression option: by default
// a v1-syntax expression left over from a pre-migration template is
// rejected; when Allow is set, the compatibility pass lets it through
// untyped instead, since this layer does not parse v1 expressions
// further than carrying their raw source text.
type V1ExpressionCheck struct {
	Allow bool
}

func (V1ExpressionCheck) Name() string { return V1ExpressionCheckName }

func (p V1ExpressionCheck) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	if p.Allow {
		return
	}
	for _, n := range ast.FindAllOfKind(file, ast.KindExprV1) {
		d := n.Data.(*ast.ExprV1Data)
		sink.ReportFrom(V1ExpressionCheckName, n.Location(), diag.KindV1ExpressionDisallowed, d.Raw)
	}
}
