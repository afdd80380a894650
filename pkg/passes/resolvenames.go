// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// ResolveNamesName is this pass's continuation-rule key.
const ResolveNamesName = "ResolveNames"

// ResolveNames assigns every variable reference to its declaration.
// Scopes nest by command containment; a let/for binding shadows an outer
// binding of the same name within its subtree only (§4.5).
type ResolveNames struct{}

func (ResolveNames) Name() string { return ResolveNamesName }

// scope is one nested lookup frame: variable name → the node that
// introduced the binding (the enclosing Template for header params and
// prop-vars, or the Let/For node itself for block-scoped bindings).
type scope struct {
	bindings map[string]*ast.Node
	parent   *scope
}

func (s *scope) lookup(name string) *ast.Node {
	for cur := s; cur != nil; cur = cur.parent {
		if n, ok := cur.bindings[name]; ok {
			return n
		}
	}
	return nil
}

func newScope(parent *scope) *scope {
	return &scope{bindings: make(map[string]*ast.Node), parent: parent}
}

func (p ResolveNames) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	for _, tmpl := range file.Children() {
		td, ok := tmpl.Data.(*ast.TemplateData)
		if !ok {
			continue
		}
		p.checkDuplicateDeclarations(td, sink)
		root := newScope(nil)
		for _, param := range td.Params {
			root.bindings[param.Name] = tmpl
		}
		for _, prop := range td.PropVars {
			root.bindings[prop.Name] = tmpl
		}
		p.walk(tmpl, root, sink)
	}
}

// checkDuplicateDeclarations reports a single diagnostic when a @param
// and a @prop (or two of the same kind) declare the same name on one
// template's header (§8 Scenario 5). The diagnostic is attached to the
// @param's location when one of the pair is a @param, matching the
// scenario's literal expectation.
func (p ResolveNames) checkDuplicateDeclarations(td *ast.TemplateData, sink *diag.Sink) {
	type seenDecl struct {
		loc     diag.Location
		isParam bool
	}
	seen := make(map[string]seenDecl)
	reported := make(map[string]bool)

	record := func(name string, loc diag.Location, isParam bool) {
		prior, ok := seen[name]
		if !ok {
			seen[name] = seenDecl{loc: loc, isParam: isParam}
			return
		}
		if reported[name] {
			return
		}
		reported[name] = true
		reportLoc := prior.loc
		if isParam {
			reportLoc = loc
		}
		sink.ReportFrom(ResolveNamesName, reportLoc, diag.KindDuplicateDeclaration, "$"+name)
	}

	for _, param := range td.Params {
		record(param.Name, param.Loc, true)
	}
	for _, prop := range td.PropVars {
		record(prop.Name, prop.Loc, false)
	}
}

func (p ResolveNames) walk(n *ast.Node, sc *scope, sink *diag.Sink) {
	switch d := n.Data.(type) {
	case *ast.ExprVarRefData:
		if decl := sc.lookup(d.Name); decl != nil {
			d.Resolved = decl
		} else {
			sink.ReportFrom(ResolveNamesName, n.Location(), diag.KindUndefinedVariable, d.Name)
		}
		return
	case *ast.LetData:
		child := newScope(sc)
		child.bindings[d.VarName] = n
		for _, c := range n.Children() {
			p.walk(c, child, sink)
		}
		return
	case *ast.ForData:
		for _, c := range n.Children()[:1] {
			p.walk(c, sc, sink) // list expr resolves in the outer scope
		}
		child := newScope(sc)
		child.bindings[d.VarName] = n
		for _, c := range n.Children()[1:] {
			p.walk(c, child, sink)
		}
		return
	}

	for _, c := range n.Children() {
		p.walk(c, sc, sink)
	}
}
