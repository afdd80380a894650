// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"regexp"
	"strings"

	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// HTMLRewriteName is this pass's continuation-rule key.
const HTMLRewriteName = "HTMLRewrite"

var (
	tagOpenRe   = regexp.MustCompile(`^<([a-zA-Z][a-zA-Z0-9-]*)((?:\s+[a-zA-Z_:][a-zA-Z0-9_:.-]*(?:="[^"]*")?)*)\s*(/?)>`)
	tagCloseRe  = regexp.MustCompile(`^</([a-zA-Z][a-zA-Z0-9-]*)\s*>`)
	attrPairRe  = regexp.MustCompile(`([a-zA-Z_:][a-zA-Z0-9_:.-]*)(?:="([^"]*)")?`)
	voidElement = map[string]bool{"br": true, "hr": true, "img": true, "input": true, "meta": true, "link": true}
)

// HTMLRewrite scans raw-text nodes within templates whose content kind is
// HTML and partitions them into tag-open/tag-close/attribute/text
// structural nodes (§4.5). It must run before any pass that depends on
// HTML structure (message placeholder insertion, autoescape).
type HTMLRewrite struct{}

func (HTMLRewrite) Name() string { return HTMLRewriteName }

func (p HTMLRewrite) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	for _, tmpl := range file.Children() {
		td, ok := tmpl.Data.(*ast.TemplateData)
		if !ok || td.ContentKind != ast.ContentHTML {
			continue
		}
		p.rewriteChildren(tmpl, gen)
	}
}

func (p HTMLRewrite) rewriteChildren(n *ast.Node, gen *ids.Generator) {
	var out []*ast.Node
	for _, c := range n.Children() {
		if c.Kind() != ast.KindRawText {
			p.rewriteChildren(c, gen)
			out = append(out, c)
			continue
		}
		out = append(out, p.tokenize(c, gen)...)
	}
	n.SetChildren(out)
}

// tokenize splits one raw-text node's literal text into a run of
// tag-open/tag-close/self-contained/raw-text nodes, preserving gen's
// monotonic id allocation.
func (p HTMLRewrite) tokenize(text *ast.Node, gen *ids.Generator) []*ast.Node {
	rt := text.Data.(*ast.RawTextData)
	s := rt.Text
	loc := text.Location()

	var out []*ast.Node
	for len(s) > 0 {
		if m := tagOpenRe.FindStringSubmatchIndex(s); m != nil && m[0] == 0 {
			tagName := s[m[2]:m[3]]
			attrsSrc := s[m[4]:m[5]]
			selfClose := m[7] > m[6] || voidElement[strings.ToLower(tagName)]

			attrs := parseAttrs(attrsSrc, gen, loc)
			if selfClose {
				n := ast.NewNode(gen, ast.KindSelfContained, loc, &ast.SelfContainedData{TagName: tagName})
				n.SetChildren(attrs)
				out = append(out, n)
			} else {
				n := ast.NewNode(gen, ast.KindTagOpen, loc, &ast.TagOpenData{TagName: tagName})
				n.SetChildren(attrs)
				out = append(out, n)
			}
			s = s[m[1]:]
			continue
		}
		if m := tagCloseRe.FindStringSubmatchIndex(s); m != nil && m[0] == 0 {
			tagName := s[m[2]:m[3]]
			out = append(out, ast.NewNode(gen, ast.KindTagClose, loc, &ast.TagCloseData{TagName: tagName}))
			s = s[m[1]:]
			continue
		}

		// Consume plain text up to the next '<'.
		next := strings.IndexByte(s, '<')
		var chunk string
		if next < 0 {
			chunk, s = s, ""
		} else if next == 0 {
			// Lone '<' that matched neither tag pattern: treat as literal text.
			chunk, s = s[:1], s[1:]
		} else {
			chunk, s = s[:next], s[next:]
		}
		if chunk != "" {
			out = append(out, ast.NewRawText(gen, loc, chunk))
		}
	}
	return out
}

func parseAttrs(src string, gen *ids.Generator, loc diag.Location) []*ast.Node {
	var attrs []*ast.Node
	for _, m := range attrPairRe.FindAllStringSubmatch(src, -1) {
		name, value := m[1], m[2]
		attr := ast.NewNode(gen, ast.KindAttribute, loc, &ast.AttributeData{Name: name})
		if m[0] != name { // had a ="value" part
			av := ast.NewNode(gen, ast.KindAttrValue, loc, &ast.AttrValueData{})
			av.AppendChild(ast.NewRawText(gen, loc, value))
			attr.AppendChild(av)
		}
		attrs = append(attrs, attr)
	}
	return attrs
}
