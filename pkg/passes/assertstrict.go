// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
	"github.com/kraklabs/tmplc/pkg/pass"
	"github.com/kraklabs/tmplc/pkg/registry"
)

// AssertStrictAutoescapeName is this pass's continuation-rule key.
const AssertStrictAutoescapeName = "AssertStrictAutoescape"

// AssertStrictAutoescape enforces §6's strict_autoescaping_required
// option: every template in the fileset must declare kind="strict"
// autoescaping (contextual and disabled autoescaping are both
// rejected). A phase-2 pass, ordered after Autoescape so its mutator
// channel has already synthesized any cross-kind call variants before
// the check runs. Pure inspector, no mutations.
type AssertStrictAutoescape struct{}

func (AssertStrictAutoescape) Name() string { return AssertStrictAutoescapeName }

func (p AssertStrictAutoescape) RunFileset(files []*ast.Node, gen *ids.Generator, reg *registry.Registry, sink *diag.Sink) pass.Continuation {
	for _, file := range files {
		for _, tmpl := range file.Children() {
			td, ok := tmpl.Data.(*ast.TemplateData)
			if !ok {
				continue
			}
			if td.Autoescape != ast.AutoescapeStrict {
				sink.ReportFrom(AssertStrictAutoescapeName, tmpl.Location(), diag.KindNotStrictlyAutoescaped, td.Name)
			}
		}
	}
	return pass.Continue
}
