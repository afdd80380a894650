// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ast

import (
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// NewFile allocates a KindFile node. Templates are attached afterward via
// AppendChild.
func NewFile(gen *ids.Generator, loc diag.Location, path, namespace string, kind FileKind) *Node {
	return NewNode(gen, KindFile, loc, &FileData{Path: path, Namespace: namespace, FileKind: kind})
}

// NewTemplate allocates a KindTemplate node. Its FQN is namespace + "." +
// localName, assembled by the caller into TemplateData.Name.
func NewTemplate(gen *ids.Generator, loc diag.Location, data *TemplateData) *Node {
	return NewNode(gen, KindTemplate, loc, data)
}

// NewRawText allocates a leaf KindRawText node.
func NewRawText(gen *ids.Generator, loc diag.Location, text string) *Node {
	return NewNode(gen, KindRawText, loc, &RawTextData{Text: text})
}

// NewPlaceholder allocates a KindPlaceholder node wrapping wrapped as its
// sole child (§4.5 Message placeholder insertion).
func NewPlaceholder(gen *ids.Generator, loc diag.Location, name string, wrapped *Node) *Node {
	n := NewNode(gen, KindPlaceholder, loc, &PlaceholderData{Name: name})
	n.AppendChild(wrapped)
	return n
}

// NewExprVarRef allocates an unresolved KindExprVarRef node.
func NewExprVarRef(gen *ids.Generator, loc diag.Location, name string) *Node {
	return NewNode(gen, KindExprVarRef, loc, &ExprVarRefData{Name: name})
}

// NewExprGlobal allocates a KindExprGlobal node, pre global-rewrite.
func NewExprGlobal(gen *ids.Generator, loc diag.Location, name string) *Node {
	return NewNode(gen, KindExprGlobal, loc, &ExprGlobalData{Name: name})
}

// NewExprV1 allocates a KindExprV1 node wrapping raw, a v1-syntax
// expression left unparsed.
func NewExprV1(gen *ids.Generator, loc diag.Location, raw string) *Node {
	return NewNode(gen, KindExprV1, loc, &ExprV1Data{Raw: raw})
}

// NewExprStringLiteral allocates a KindExprLiteral string-valued node.
func NewExprStringLiteral(gen *ids.Generator, loc diag.Location, value string) *Node {
	return NewNode(gen, KindExprLiteral, loc, &ExprLiteralData{Kind: LiteralString, StringValue: value})
}

// NewExprIntLiteral allocates a KindExprLiteral int-valued node.
func NewExprIntLiteral(gen *ids.Generator, loc diag.Location, value int64) *Node {
	return NewNode(gen, KindExprLiteral, loc, &ExprLiteralData{Kind: LiteralInt, IntValue: value})
}

// NewExprBoolLiteral allocates a KindExprLiteral bool-valued node.
func NewExprBoolLiteral(gen *ids.Generator, loc diag.Location, value bool) *Node {
	return NewNode(gen, KindExprLiteral, loc, &ExprLiteralData{Kind: LiteralBool, BoolValue: value})
}

// NewExprNullLiteral allocates a KindExprLiteral null node.
func NewExprNullLiteral(gen *ids.Generator, loc diag.Location) *Node {
	return NewNode(gen, KindExprLiteral, loc, &ExprLiteralData{Kind: LiteralNull})
}

// NewCall allocates a KindCall node. Args are attached afterward via
// AppendChild.
func NewCall(gen *ids.Generator, loc diag.Location, calleeName string, isDelegate bool) *Node {
	return NewNode(gen, KindCall, loc, &CallData{CalleeName: calleeName, IsDelegate: isDelegate})
}

// NewFor allocates a KindFor node. list becomes Children()[0]; body nodes
// are appended afterward.
func NewFor(gen *ids.Generator, loc diag.Location, varName string, list *Node) *Node {
	n := NewNode(gen, KindFor, loc, &ForData{VarName: varName})
	n.AppendChild(list)
	return n
}

// NewIf allocates a KindIf node. Branches are attached afterward via
// AppendChild of NewIfCond results.
func NewIf(gen *ids.Generator, loc diag.Location) *Node {
	return NewNode(gen, KindIf, loc, &IfData{})
}

// NewIfCond allocates one if/elseif/else branch. cond is nil for an
// {else} branch. Body nodes are appended afterward.
func NewIfCond(gen *ids.Generator, loc diag.Location, cond *Node) *Node {
	return NewNode(gen, KindIfCond, loc, &IfCondData{Cond: cond})
}

// NewPrint allocates a KindPrint node wrapping expr as its sole child.
func NewPrint(gen *ids.Generator, loc diag.Location, expr *Node) *Node {
	n := NewNode(gen, KindPrint, loc, &PrintData{})
	n.AppendChild(expr)
	return n
}

// NewLetValue allocates a value-let node: its sole child is value.
func NewLetValue(gen *ids.Generator, loc diag.Location, varName string, value *Node) *Node {
	n := NewNode(gen, KindLet, loc, &LetData{VarName: varName, HasValue: true})
	n.AppendChild(value)
	return n
}

// NewLetBlock allocates a block-let node. Body nodes are appended
// afterward.
func NewLetBlock(gen *ids.Generator, loc diag.Location, varName string) *Node {
	return NewNode(gen, KindLet, loc, &LetData{VarName: varName, HasValue: false})
}
