// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"strings"

	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// DesugarHTMLName is this pass's continuation-rule key.
const DesugarHTMLName = "DesugarHTML"

// DesugarHTML is the inverse of HTMLRewrite: it collapses tag-open,
// tag-close, attribute and self-contained nodes back into literal raw
// text, for backends that cannot consume HTML-structured nodes (§4.5).
// Runs only when the target backend requests it.
type DesugarHTML struct{}

func (DesugarHTML) Name() string { return DesugarHTMLName }

func (p DesugarHTML) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	ast.Walk(file, func(n *ast.Node) bool {
		p.desugarChildren(n, gen)
		return true
	})
}

func (DesugarHTML) desugarChildren(n *ast.Node, gen *ids.Generator) {
	var out []*ast.Node
	for _, c := range n.Children() {
		switch c.Kind() {
		case ast.KindTagOpen, ast.KindTagClose, ast.KindSelfContained, ast.KindAttribute, ast.KindAttrValue:
			out = append(out, ast.NewRawText(gen, c.Location(), renderHTML(c)))
		default:
			out = append(out, c)
		}
	}
	n.SetChildren(out)
}

// renderHTML renders one HTML-family node back to its literal source
// text. Descendants of attribute/self-contained nodes are rendered
// recursively; any embedded non-text expression content is out of scope
// for this inverse transform and is dropped, matching desugar's role as
// a fallback for text-only backends.
func renderHTML(n *ast.Node) string {
	var b strings.Builder
	switch d := n.Data.(type) {
	case *ast.TagOpenData:
		b.WriteByte('<')
		b.WriteString(d.TagName)
		for _, a := range n.Children() {
			b.WriteByte(' ')
			b.WriteString(renderHTML(a))
		}
		b.WriteByte('>')
	case *ast.TagCloseData:
		b.WriteString("</")
		b.WriteString(d.TagName)
		b.WriteByte('>')
	case *ast.SelfContainedData:
		b.WriteByte('<')
		b.WriteString(d.TagName)
		for _, a := range n.Children() {
			b.WriteByte(' ')
			b.WriteString(renderHTML(a))
		}
		b.WriteString("/>")
	case *ast.AttributeData:
		b.WriteString(d.Name)
		if len(n.Children()) == 1 {
			b.WriteString(`="`)
			b.WriteString(renderHTML(n.Children()[0]))
			b.WriteByte('"')
		}
	case *ast.AttrValueData:
		for _, c := range n.Children() {
			if rt, ok := c.Data.(*ast.RawTextData); ok {
				b.WriteString(rt.Text)
			}
		}
	}
	return b.String()
}
