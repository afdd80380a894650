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

// Package passes hosts the representative passes described in §4.5: each
// implements either pass.FileLocal or pass.Fileset and is composed into a
// pipeline by pkg/config.
package passes

import (
	"fmt"
	"strings"

	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
)

// MessagePlaceholderInsertionName is this pass's continuation-rule key.
const MessagePlaceholderInsertionName = "MessagePlaceholderInsertion"

// MessagePlaceholderInsertion wraps every non-text child of a {msg}
// subtree in a Placeholder node with a stable, collision-free synthetic
// name derived from its structural position and content (§4.5).
type MessagePlaceholderInsertion struct{}

func (MessagePlaceholderInsertion) Name() string { return MessagePlaceholderInsertionName }

func (p MessagePlaceholderInsertion) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	for _, msg := range ast.FindAllOfKind(file, ast.KindMsg) {
		p.rewriteMsg(msg, gen)
	}
}

func (MessagePlaceholderInsertion) rewriteMsg(msg *ast.Node, gen *ids.Generator) {
	used := map[string]bool{}
	children := msg.Children()
	replacements := make([]*ast.Node, len(children))
	for i, c := range children {
		if c.Kind() == ast.KindRawText {
			replacements[i] = c
			continue
		}
		name := placeholderName(c, i, used)
		used[name] = true
		replacements[i] = ast.NewPlaceholder(gen, c.Location(), name, c)
	}
	msg.SetChildren(replacements)
}

// placeholderName derives a stable name from the node's kind and, where
// available, its most descriptive identifier (a var name, callee name,
// tag name); when that name is already taken within the enclosing msg,
// a numeric suffix (_2, _3, ...) is appended to keep it unique.
func placeholderName(n *ast.Node, idx int, used map[string]bool) string {
	base := "XXX"
	switch d := n.Data.(type) {
	case *ast.ExprVarRefData:
		base = strings.ToUpper(d.Name)
	case *ast.CallData:
		base = strings.ToUpper(lastComponent(d.CalleeName))
	case *ast.TagOpenData:
		base = strings.ToUpper(d.TagName)
	case *ast.SelfContainedData:
		base = strings.ToUpper(d.TagName)
	default:
		base = strings.ToUpper(n.Kind().String())
	}
	name := base
	suffix := 2
	for used[name] {
		name = fmt.Sprintf("%s_%d", base, suffix)
		suffix++
	}
	_ = idx
	return name
}

func lastComponent(fqn string) string {
	if i := strings.LastIndex(fqn, "."); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}
