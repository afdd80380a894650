// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ast is the mutable tree the pipeline rewrites (§3). Node kind is
// a closed tagged union: every Node carries a stable NodeKind and a Data
// payload whose concrete type is determined by that kind, so passes can
// exhaustively type-switch on Data instead of walking an inheritance
// hierarchy (§9 Design Notes).
package ast

import (
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// NodeKind is the closed tagged union discriminant for Node.Data.
type NodeKind int

const (
	KindFile NodeKind = iota
	KindTemplate
	KindRawText
	KindPlaceholder

	// Command family.
	KindMsg
	KindCall
	KindFor
	KindIf
	KindIfCond // one {if}/{elseif}/{else} branch, child of KindIf
	KindSwitch
	KindSwitchCase // one {case}/{default} branch, child of KindSwitch
	KindLet
	KindPrint

	// Html family.
	KindTagOpen
	KindTagClose
	KindAttribute
	KindAttrValue
	KindSelfContained

	// Expr family.
	KindExprVarRef
	KindExprLiteral
	KindExprBinOp
	KindExprGlobal
	KindExprFieldAccess
	KindExprV1 // legacy pre-migration expression syntax, carried opaquely (§6 allow_v1_expression)
)

func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindTemplate:
		return "Template"
	case KindRawText:
		return "RawText"
	case KindPlaceholder:
		return "Placeholder"
	case KindMsg:
		return "Msg"
	case KindCall:
		return "Call"
	case KindFor:
		return "For"
	case KindIf:
		return "If"
	case KindIfCond:
		return "IfCond"
	case KindSwitch:
		return "Switch"
	case KindSwitchCase:
		return "SwitchCase"
	case KindLet:
		return "Let"
	case KindPrint:
		return "Print"
	case KindTagOpen:
		return "TagOpen"
	case KindTagClose:
		return "TagClose"
	case KindAttribute:
		return "Attribute"
	case KindAttrValue:
		return "AttrValue"
	case KindSelfContained:
		return "SelfContained"
	case KindExprVarRef:
		return "ExprVarRef"
	case KindExprLiteral:
		return "ExprLiteral"
	case KindExprBinOp:
		return "ExprBinOp"
	case KindExprGlobal:
		return "ExprGlobal"
	case KindExprFieldAccess:
		return "ExprFieldAccess"
	case KindExprV1:
		return "ExprV1"
	default:
		return "Unknown"
	}
}

// NodeData is the per-kind payload. Each NodeKind has exactly one
// concrete NodeData implementation (see data.go); the unexported marker
// method closes the union so no outside package can add a new kind
// without also changing this package.
type NodeData interface {
	isNodeData()
}

// Node is the uniform tree element. Every node carries a stable id, a
// source location, a parent back-reference maintained by the parent
// (never shared ownership, §3/§9), and an ordered list of children it
// owns exclusively.
type Node struct {
	id       ids.ID
	kind     NodeKind
	loc      diag.Location
	parent   *Node
	children []*Node
	Data     NodeData
}

// NewNode allocates a node with a fresh id from gen. Callers set Data and
// attach children via AppendChild/SetChildren.
func NewNode(gen *ids.Generator, kind NodeKind, loc diag.Location, data NodeData) *Node {
	return &Node{
		id:   gen.Next(),
		kind: kind,
		loc:  loc,
		Data: data,
	}
}

// ID returns the node's fileset-unique id.
func (n *Node) ID() ids.ID { return n.id }

// Kind returns the node's closed-union discriminant.
func (n *Node) Kind() NodeKind { return n.kind }

// Location returns the node's source span.
func (n *Node) Location() diag.Location { return n.loc }

// SetLocation updates the node's source span, e.g. after combine-raw-text
// merges a span of sibling nodes into one (§9 Open Question: this
// implementation preserves the first-to-last span, see combine-raw-text
// pass doc).
func (n *Node) SetLocation(loc diag.Location) { n.loc = loc }

// Parent returns the node's weak back-reference, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's owned children in document order. The
// returned slice must not be mutated directly by callers; use
// AppendChild/InsertChildAt/RemoveChildAt/ReplaceChild.
func (n *Node) Children() []*Node {
	return n.children
}

// AppendChild adds child as the new last child of n, taking ownership and
// repairing child's parent back-reference.
func (n *Node) AppendChild(child *Node) {
	child.parent = n
	n.children = append(n.children, child)
}

// SetChildren replaces n's entire child list, taking ownership of every
// node in children and repairing each one's parent back-reference. Any
// previously owned children that are not in the new list are released
// (detached, their parent pointer cleared).
func (n *Node) SetChildren(children []*Node) {
	for _, old := range n.children {
		old.parent = nil
	}
	n.children = children
	for _, c := range n.children {
		c.parent = n
	}
}

// InsertChildAt inserts child at position idx, shifting subsequent
// children right.
func (n *Node) InsertChildAt(idx int, child *Node) {
	child.parent = n
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
}

// RemoveChildAt removes and returns the child at position idx, releasing
// it (clearing its parent back-reference) per §3 "deleted subtrees are
// released immediately".
func (n *Node) RemoveChildAt(idx int) *Node {
	child := n.children[idx]
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	child.parent = nil
	return child
}

// ReplaceChild swaps old for replacement in n's child list, in place, and
// repairs both nodes' parent back-references (§3 "a pass may ... replace
// a node with another of any kind; the parent updates its child slot").
// Reports false if old is not a direct child of n.
func (n *Node) ReplaceChild(old, replacement *Node) bool {
	for i, c := range n.children {
		if c == old {
			old.parent = nil
			replacement.parent = n
			n.children[i] = replacement
			return true
		}
	}
	return false
}

// ReplaceSelf replaces n with replacement in n's parent's child list. It
// is a no-op (returns false) if n has no parent, i.e. n is a fileset/file
// root.
func (n *Node) ReplaceSelf(replacement *Node) bool {
	if n.parent == nil {
		return false
	}
	return n.parent.ReplaceChild(n, replacement)
}
