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

// ConformanceName is this pass's continuation-rule key.
const ConformanceName = "Conformance"

// ConformanceVerdict is a rule's effect when its predicate matches.
type ConformanceVerdict int

const (
	ConformanceAllow ConformanceVerdict = iota
	ConformanceDeny
)

// ConformanceRule is one entry of a pre-validated policy: a predicate
// over AST node shape, a verdict, and the message reported on a Deny
// match.
type ConformanceRule struct {
	Match   func(n *ast.Node) bool
	Verdict ConformanceVerdict
	Kind    diag.Kind // diagnostic kind reported on a Deny match; defaults to KindConformanceViolation
	Message string
}

// Conformance reads a pre-validated policy (a set of allow/deny rules
// over AST shapes) and emits diagnostics for each violation. Pure
// inspector, no mutations (§4.5).
type Conformance struct {
	Rules []ConformanceRule
}

func (Conformance) Name() string { return ConformanceName }

func (p Conformance) RunFileset(files []*ast.Node, gen *ids.Generator, reg *registry.Registry, sink *diag.Sink) pass.Continuation {
	for _, file := range files {
		ast.Walk(file, func(n *ast.Node) bool {
			for _, r := range p.Rules {
				if r.Verdict != ConformanceDeny || !r.Match(n) {
					continue
				}
				kind := r.Kind
				if kind == "" {
					kind = diag.KindConformanceViolation
				}
				sink.ReportFrom(ConformanceName, n.Location(), kind, r.Message)
			}
			return true
		})
	}
	return pass.Continue
}

// BannedAttribute returns a ConformanceRule denying attribute name on any
// element, a common conformance policy entry (§7 "banned attribute on
// element").
func BannedAttribute(name, message string) ConformanceRule {
	return ConformanceRule{
		Verdict: ConformanceDeny,
		Kind:    diag.KindBannedAttribute,
		Message: message,
		Match: func(n *ast.Node) bool {
			ad, ok := n.Data.(*ast.AttributeData)
			return ok && ad.Name == name
		},
	}
}
