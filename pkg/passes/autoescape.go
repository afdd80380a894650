// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"fmt"

	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
	"github.com/kraklabs/tmplc/pkg/pass"
	"github.com/kraklabs/tmplc/pkg/registry"
)

// AutoescapeName is this pass's continuation-rule key.
const AutoescapeName = "Autoescape"

var directiveByContentKind = map[ast.ContentKind]string{
	ast.ContentHTML:       "escapeHtml",
	ast.ContentJS:         "escapeJsString",
	ast.ContentCSS:        "escapeCssString",
	ast.ContentURI:        "escapeUri",
	ast.ContentAttributes: "escapeHtmlAttribute",
	ast.ContentText:       "",
}

// Autoescape is a single opaque pass (§4.5). Input invariant: HTML
// rewrite has run; type resolution has run unless type-checking is
// disabled. Output: in every template whose autoescape mode is not false,
// each Print with an empty directive chain gets the escaping directive
// for the template's content kind (text content gets none); a Print that
// already carries directives is left unchanged.
// When a {call} crosses into a differently-escaped content kind,
// Autoescape synthesizes a re-escaped variant of the callee and rewrites
// the call site to target it, registering the variant through the
// registry's producer channel.
type Autoescape struct{}

func (Autoescape) Name() string { return AutoescapeName }

func (p Autoescape) RunFileset(files []*ast.Node, gen *ids.Generator, reg *registry.Registry, sink *diag.Sink) pass.Continuation {
	mutator := reg.AsProducer(AutoescapeName)
	synthesized := map[string]bool{}

	for _, file := range files {
		fd, ok := file.Data.(*ast.FileData)
		if !ok {
			continue
		}
		for _, tmpl := range file.Children() {
			td, ok := tmpl.Data.(*ast.TemplateData)
			if !ok || td.Autoescape == ast.AutoescapeFalse {
				continue
			}
			p.escapePrints(tmpl, td.ContentKind)
			p.retargetCrossKindCalls(gen, fd.Namespace, tmpl, td, reg, mutator, sink, synthesized)
		}
	}
	mutator.Reindex()
	return pass.Continue
}

func (Autoescape) escapePrints(tmpl *ast.Node, kind ast.ContentKind) {
	directive := directiveByContentKind[kind]
	if directive == "" {
		return
	}
	for _, print := range ast.FindAllOfKind(tmpl, ast.KindPrint) {
		pd := print.Data.(*ast.PrintData)
		if len(pd.Directives) == 0 {
			pd.Directives = append(pd.Directives, directive)
		}
	}
}

func (Autoescape) retargetCrossKindCalls(gen *ids.Generator, namespace string, tmpl *ast.Node, td *ast.TemplateData, reg *registry.Registry, mutator *registry.Mutator, sink *diag.Sink, synthesized map[string]bool) {
	for _, call := range ast.FindAllOfKind(tmpl, ast.KindCall) {
		cd := call.Data.(*ast.CallData)
		callee, found := reg.Lookup(cd.CalleeName)
		if !found {
			continue
		}
		calleeTD := callee.Node.Data.(*ast.TemplateData)
		if calleeTD.ContentKind == td.ContentKind {
			continue
		}

		variantName := fmt.Sprintf("%s__escaped_as_%s", cd.CalleeName, td.ContentKind.String())
		if !synthesized[variantName] {
			variant := ast.Clone(gen, callee.Node)
			vd := variant.Data.(*ast.TemplateData)
			vd.Name = variantName
			vd.ContentKind = td.ContentKind
			vd.Visibility = ast.VisibilityPrivate
			if err := mutator.AddSynthetic(namespace, variant, sink); err == nil {
				synthesized[variantName] = true
			}
		}
		cd.CalleeName = variantName
	}
}
