// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ast

import "github.com/kraklabs/tmplc/pkg/ids"

// Clone deep-copies n and every descendant, allocating a fresh id from
// gen for every node in the clone (§4.2: "cloning a subtree allocates a
// fresh id for every node in the clone"). The clone is detached (no
// parent) until the caller attaches it.
func Clone(gen *ids.Generator, n *Node) *Node {
	if n == nil {
		return nil
	}
	clone := NewNode(gen, n.kind, n.loc, cloneData(n.Data))
	for _, c := range n.children {
		clone.AppendChild(Clone(gen, c))
	}
	return clone
}

// cloneData returns a shallow copy of data with a distinct pointer
// identity, so mutating the clone's Data never affects the original's.
func cloneData(data NodeData) NodeData {
	switch d := data.(type) {
	case *FileData:
		c := *d
		return &c
	case *TemplateData:
		c := *d
		c.Params = append([]ParamDecl{}, d.Params...)
		c.PropVars = append([]ParamDecl{}, d.PropVars...)
		c.RequiredCSS = append([]string{}, d.RequiredCSS...)
		return &c
	case *RawTextData:
		c := *d
		return &c
	case *PlaceholderData:
		c := *d
		return &c
	case *MsgData:
		c := *d
		return &c
	case *CallData:
		c := *d
		return &c
	case *ForData:
		c := *d
		return &c
	case *IfData:
		c := *d
		return &c
	case *IfCondData:
		c := *d
		return &c
	case *SwitchData:
		c := *d
		return &c
	case *SwitchCaseData:
		c := *d
		c.Values = append([]*Node{}, d.Values...)
		return &c
	case *LetData:
		c := *d
		return &c
	case *PrintData:
		c := *d
		c.Directives = append([]string{}, d.Directives...)
		return &c
	case *TagOpenData:
		c := *d
		return &c
	case *TagCloseData:
		c := *d
		return &c
	case *SelfContainedData:
		c := *d
		return &c
	case *AttributeData:
		c := *d
		return &c
	case *AttrValueData:
		c := *d
		return &c
	case *ExprVarRefData:
		c := *d
		return &c
	case *ExprLiteralData:
		c := *d
		return &c
	case *ExprBinOpData:
		c := *d
		return &c
	case *ExprGlobalData:
		c := *d
		return &c
	case *ExprFieldAccessData:
		c := *d
		return &c
	case *ExprV1Data:
		c := *d
		return &c
	default:
		return data
	}
}
