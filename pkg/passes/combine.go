// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// CombineRawTextName is this pass's continuation-rule key.
const CombineRawTextName = "CombineRawText"

// CombineRawText merges runs of raw-text siblings under the same parent
// into one node, preserving the first-to-last span of the run (§4.5,
// §9 Open Question — this implementation's chosen answer, recorded in
// DESIGN.md). Must run last in any phase that may have fragmented text.
// Idempotent: a second run over an already-combined tree is a no-op.
type CombineRawText struct{}

func (CombineRawText) Name() string { return CombineRawTextName }

func (p CombineRawText) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	ast.Walk(file, func(n *ast.Node) bool {
		p.combineChildren(n, gen)
		return true
	})
}

func (CombineRawText) combineChildren(n *ast.Node, gen *ids.Generator) {
	children := n.Children()
	if len(children) < 2 {
		return
	}

	var out []*ast.Node
	i := 0
	for i < len(children) {
		if children[i].Kind() != ast.KindRawText {
			out = append(out, children[i])
			i++
			continue
		}
		start := i
		text := ""
		for i < len(children) && children[i].Kind() == ast.KindRawText {
			text += children[i].Data.(*ast.RawTextData).Text
			i++
		}
		if i-start == 1 {
			out = append(out, children[start])
			continue
		}
		span := diag.Location{
			File:      children[start].Location().File,
			StartLine: children[start].Location().StartLine,
			StartCol:  children[start].Location().StartCol,
			EndLine:   children[i-1].Location().EndLine,
			EndCol:    children[i-1].Location().EndCol,
		}
		out = append(out, ast.NewRawText(gen, span, text))
	}
	n.SetChildren(out)
}
