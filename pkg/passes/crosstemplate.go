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
	"github.com/kraklabs/tmplc/pkg/typesig"
)

// CrossTemplateChecksName is this pass's continuation-rule key.
const CrossTemplateChecksName = "CrossTemplateChecks"

// CrossTemplateChecks validates the four checks §4.5 names: visibility
// (a private template may be called only from its namespace), that
// exactly one default exists per delegate group unless variants differ,
// header-var compatibility at call sites, and — when AllowExternalCalls
// is false — that every call resolves within the fileset (§6
// `allow_external_calls`).
type CrossTemplateChecks struct {
	AllowExternalCalls bool

	// CheckHeaderVarTypes enables the call-site argument/type check.
	// Left false when type-dependent passes are disabled upstream, since
	// argument expressions then carry no resolved type to compare.
	CheckHeaderVarTypes bool
}

func (CrossTemplateChecks) Name() string { return CrossTemplateChecksName }

func (p CrossTemplateChecks) RunFileset(files []*ast.Node, gen *ids.Generator, reg *registry.Registry, sink *diag.Sink) pass.Continuation {
	p.checkDelegateConflicts(reg, sink)

	for _, file := range files {
		fd, ok := file.Data.(*ast.FileData)
		if !ok {
			continue
		}
		for _, tmpl := range file.Children() {
			p.checkTemplate(fd.Namespace, tmpl, reg, sink)
		}
	}
	return pass.Continue
}

// checkDelegateConflicts reports a delegate group that declares more
// than one top-priority candidate for the same name and variant —
// render-time dispatch could not pick a default among them. Different
// variants of the same delegate name are distinct groups and never
// conflict with each other (§4.5, §4.6 "by delegate key + variant").
func (p CrossTemplateChecks) checkDelegateConflicts(reg *registry.Registry, sink *diag.Sink) {
	seen := map[string]bool{}
	for _, e := range reg.All() {
		if e.DelegateName == "" {
			continue
		}
		key := delegateGroupKey(e.DelegateName, e.DelegateVariant)
		if seen[key] {
			continue
		}
		seen[key] = true

		candidates := reg.LookupDelegate(e.DelegateName, e.DelegateVariant)
		if len(candidates) < 2 {
			continue
		}
		top := candidates[0].Priority
		ties := 0
		for _, c := range candidates {
			if c.Priority == top {
				ties++
			}
		}
		if ties > 1 {
			sink.ReportFrom(CrossTemplateChecksName, candidates[0].Node.Location(), diag.KindDelegateConflict, e.DelegateName)
		}
	}
}

func delegateGroupKey(name, variant string) string {
	return name + "#" + variant
}

func (p CrossTemplateChecks) checkTemplate(callerNamespace string, tmpl *ast.Node, reg *registry.Registry, sink *diag.Sink) {
	for _, call := range ast.FindAllOfKind(tmpl, ast.KindCall) {
		cd := call.Data.(*ast.CallData)
		if cd.IsDelegate {
			continue // delegate dispatch is resolved at render time, not compile time
		}

		entry, found := reg.Lookup(cd.CalleeName)
		if !found {
			if !p.AllowExternalCalls {
				sink.ReportFrom(CrossTemplateChecksName, call.Location(), diag.KindStrictDepsViolation, cd.CalleeName)
			}
			continue
		}

		td := entry.Node.Data.(*ast.TemplateData)
		if td.Visibility == ast.VisibilityPrivate && entry.Namespace != callerNamespace {
			sink.ReportFrom(CrossTemplateChecksName, call.Location(), diag.KindVisibilityViolation, cd.CalleeName)
		}

		if p.CheckHeaderVarTypes {
			p.checkHeaderVarCompatibility(call, td, sink)
		}
	}
}

// checkHeaderVarCompatibility compares a call's argument expressions,
// positionally, against the callee's declared @param types (§4.5
// header-var compatibility). Prop-vars are injected, never passed at a
// call site, so they are excluded. An argument whose type cannot be
// resolved is skipped rather than flagged, consistent with
// ResolveExpressionTypes degrading to Unknown instead of cascading
// errors (§7).
func (p CrossTemplateChecks) checkHeaderVarCompatibility(call *ast.Node, td *ast.TemplateData, sink *diag.Sink) {
	args := call.Children()
	required := 0
	for _, param := range td.Params {
		if param.Required {
			required++
		}
	}
	if len(args) < required {
		sink.ReportFrom(CrossTemplateChecksName, call.Location(), diag.KindTypeMismatch, "missing required parameters", td.Name)
		return
	}
	if len(args) > len(td.Params) {
		sink.ReportFrom(CrossTemplateChecksName, call.Location(), diag.KindTypeMismatch, "too many arguments", td.Name)
		return
	}

	for i, param := range td.Params {
		if i >= len(args) {
			break
		}
		argType, ok := exprTypeOf(args[i])
		if !ok || isUnspecifiedType(argType) || isUnspecifiedType(param.Type) {
			continue
		}
		if !argType.Equal(param.Type) {
			sink.ReportFrom(CrossTemplateChecksName, args[i].Location(), diag.KindTypeMismatch, argType.String(), param.Type.String())
		}
	}
}

// isUnspecifiedType treats both the Unknown sentinel and a never-set
// zero-value Type (KindNamed with an empty name, e.g. a ParamDecl built
// without going through typesig.ParseType) as "nothing to compare
// against" rather than a real empty-named type.
func isUnspecifiedType(t typesig.Type) bool {
	return t.Kind == typesig.KindUnknown || (t.Kind == typesig.KindNamed && t.Name == "")
}
