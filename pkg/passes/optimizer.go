// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package passes

import (
	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// OptimizerName is this pass's continuation-rule key.
const OptimizerName = "Optimizer"

// Optimizer performs constant folding over expression subtrees and
// dead-branch elimination for {if} and {switch} commands (§4.5). Pure
// tree simplification; idempotent by construction since a folded literal
// has no further foldable structure and a pruned branch cannot be pruned
// twice.
type Optimizer struct{}

func (Optimizer) Name() string { return OptimizerName }

func (p Optimizer) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	postOrder(file, func(n *ast.Node) { p.foldExprChildren(n, gen) })
	p.pruneChildren(file)
}

// pruneChildren recurses post-order so a nested {if}/{switch} collapses
// before its enclosing one is evaluated, then rebuilds n's own child
// list: any {if} or {switch} child that reduces to exactly one
// provably-taken branch is replaced by that branch's body, spliced
// directly into n's children, rather than left wrapping it. Node only
// exposes 1-for-1 ReplaceChild/ReplaceSelf, which cannot express
// "one node becomes N siblings", so the splice is done by rebuilding the
// slice and calling SetChildren once.
func (p Optimizer) pruneChildren(n *ast.Node) {
	for _, c := range n.Children() {
		p.pruneChildren(c)
	}

	children := n.Children()
	changed := false
	out := make([]*ast.Node, 0, len(children))
	for _, c := range children {
		switch c.Kind() {
		case ast.KindIf:
			if body, collapse := p.pruneIf(c); collapse {
				out = append(out, body...)
				changed = true
				continue
			}
		case ast.KindSwitch:
			if body, collapse := p.pruneSwitch(c); collapse {
				out = append(out, body...)
				changed = true
				continue
			}
		}
		out = append(out, c)
	}
	if changed {
		n.SetChildren(out)
	}
}

// foldExprChildren replaces any direct child expression that folds to a
// literal with that literal.
func (Optimizer) foldExprChildren(n *ast.Node, gen *ids.Generator) {
	for _, c := range n.Children() {
		if folded := foldExpr(c, gen); folded != nil && folded != c {
			n.ReplaceChild(c, folded)
		}
	}
}

// foldExpr attempts to constant-fold n itself, returning the replacement
// literal node or nil if n does not fold.
func foldExpr(n *ast.Node, gen *ids.Generator) *ast.Node {
	bin, ok := n.Data.(*ast.ExprBinOpData)
	if !ok || len(n.Children()) != 2 {
		return nil
	}
	left, leftOK := asBoolLiteral(n.Children()[0])
	right, rightOK := asBoolLiteral(n.Children()[1])
	if !leftOK || !rightOK {
		return nil
	}
	switch bin.Op {
	case "and":
		return ast.NewExprBoolLiteral(gen, n.Location(), left && right)
	case "or":
		return ast.NewExprBoolLiteral(gen, n.Location(), left || right)
	default:
		return nil
	}
}

func asBoolLiteral(n *ast.Node) (bool, bool) {
	lit, ok := n.Data.(*ast.ExprLiteralData)
	if !ok || lit.Kind != ast.LiteralBool {
		return false, false
	}
	return lit.BoolValue, true
}

// pruneIf drops provably-dead branches from n (an {if} node) in place and
// reports whether exactly one branch survived and was provably taken —
// "if true" keeps that branch, "if false" drops it and re-checks the
// next. A branch whose condition is not a bool literal cannot be proven
// either way, so it is kept but marks the result uncertain: collapsing
// the wrapper would silently discard a real runtime condition. When the
// result is certain, the caller replaces n with the returned nodes
// (the sole surviving branch's body, or nothing if every branch was
// provably false); otherwise n keeps its pruned-but-unresolved branches.
func (Optimizer) pruneIf(n *ast.Node) ([]*ast.Node, bool) {
	branches := n.Children()
	var kept []*ast.Node
	uncertain := false
	for _, b := range branches {
		ic := b.Data.(*ast.IfCondData)
		if ic.Cond == nil {
			kept = append(kept, b)
			break
		}
		lit, ok := ic.Cond.Data.(*ast.ExprLiteralData)
		if !ok || lit.Kind != ast.LiteralBool {
			kept = append(kept, b)
			uncertain = true
			continue
		}
		if lit.BoolValue {
			kept = append(kept, b)
			break
		}
		// constant-false branch: drop it, evaluate next candidate
	}
	n.SetChildren(kept)
	if uncertain || len(kept) > 1 {
		return nil, false
	}
	if len(kept) == 0 {
		return nil, true
	}
	return kept[0].Children(), true
}

// pruneSwitch drops {case} arms whose every value literal cannot match
// the subject when the subject is itself a literal; retains {default}
// and reports whether exactly one candidate (a proven match or the
// default) survived with no uncertain case left in play, the same
// certainty contract as pruneIf.
func (Optimizer) pruneSwitch(n *ast.Node) ([]*ast.Node, bool) {
	children := n.Children()
	if len(children) < 1 {
		return nil, false
	}
	subject := children[0]
	subjLit, ok := subject.Data.(*ast.ExprLiteralData)
	if !ok {
		return nil, false
	}

	out := []*ast.Node{subject}
	uncertain := false
	for _, c := range children[1:] {
		sc := c.Data.(*ast.SwitchCaseData)
		if len(sc.Values) == 0 {
			out = append(out, c) // default
			continue
		}
		matches, certain := caseMatchResult(sc, subjLit)
		if !certain {
			uncertain = true
		}
		if matches {
			out = append(out, c)
		}
	}
	n.SetChildren(out)
	if uncertain || len(out) > 2 {
		return nil, false
	}
	if len(out) == 1 {
		return nil, true
	}
	return out[1].Children(), true
}

// caseMatchResult reports whether sc's values can match subj, and
// whether that verdict is certain. A non-literal value cannot be
// evaluated at compile time, so it is reported as a possible match but
// uncertain rather than risking a false negative.
func caseMatchResult(sc *ast.SwitchCaseData, subj *ast.ExprLiteralData) (matches, certain bool) {
	for _, v := range sc.Values {
		lit, ok := v.Data.(*ast.ExprLiteralData)
		if !ok {
			return true, false
		}
		if literalsEqual(lit, subj) {
			return true, true
		}
	}
	return false, true
}

func literalsEqual(a, b *ast.ExprLiteralData) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ast.LiteralString:
		return a.StringValue == b.StringValue
	case ast.LiteralInt:
		return a.IntValue == b.IntValue
	case ast.LiteralFloat:
		return a.FloatValue == b.FloatValue
	case ast.LiteralBool:
		return a.BoolValue == b.BoolValue
	case ast.LiteralNull:
		return true
	default:
		return false
	}
}
