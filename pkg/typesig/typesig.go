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

// Package typesig parses the type-expression and parameter-list surface
// syntax that appears in template headers ({@param}, {@prop}) and in
// expression type annotations. It is a dependency-free package used by
// pkg/ast (declared and resolved types), pkg/passes (resolve-types,
// header-var compatibility) and pkg/fixture (param and prop types).
package typesig

import "strings"

// Kind classifies a parsed Type.
type Kind int

const (
	// KindNamed is a simple named type: bool, string, int, ns.Proto.
	KindNamed Kind = iota
	// KindList is list<T>.
	KindList
	// KindMap is map<K, V>.
	KindMap
	// KindUnion is T1|T2|... (used for nullable types: T|null).
	KindUnion
	// KindUnknown marks a type that failed to parse or propagate (§4.5
	// resolve-expression-types: a node whose children have errors
	// receives this rather than cascading further diagnostics).
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindUnion:
		return "union"
	default:
		return "unknown"
	}
}

// Type is a parsed type expression.
type Type struct {
	Kind Kind
	Name string // set for KindNamed
	Args []Type // element type for KindList, [key, value] for KindMap, members for KindUnion
}

// Unknown is the sentinel assigned when a type cannot be determined.
var Unknown = Type{Kind: KindUnknown}

// ParamDecl is one parsed "name: type" declaration from a header
// (@param/@prop) parameter list.
type ParamDecl struct {
	Name string
	Type Type
}

// ParseParamList parses a comma-separated "name: type" list, the surface
// syntax of a template header's @param/@prop declarations, e.g.:
//
//	"s: bool, items: list<string>, meta: map<string, int>|null"
//
// Malformed entries (missing ':') are skipped; callers are expected to have
// already validated header syntax during parsing, so this is lenient by
// design rather than error-reporting.
func ParseParamList(s string) []ParamDecl {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var decls []ParamDecl
	for _, part := range splitAtTopLevelCommas(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colon := topLevelIndex(part, ':')
		if colon == -1 {
			continue
		}
		name := strings.TrimSpace(part[:colon])
		typeExpr := strings.TrimSpace(part[colon+1:])
		if name == "" || typeExpr == "" {
			continue
		}
		decls = append(decls, ParamDecl{Name: name, Type: ParseType(typeExpr)})
	}
	return decls
}

// ParseType parses a single type expression: a named type, list<T>,
// map<K, V>, or a '|'-separated union of any of those.
func ParseType(s string) Type {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}

	if members := splitAtTopLevelUnion(s); len(members) > 1 {
		args := make([]Type, 0, len(members))
		for _, m := range members {
			args = append(args, parseSingleType(strings.TrimSpace(m)))
		}
		return Type{Kind: KindUnion, Args: args}
	}
	return parseSingleType(s)
}

func parseSingleType(s string) Type {
	switch {
	case strings.HasPrefix(s, "list<") && strings.HasSuffix(s, ">"):
		inner := s[len("list<") : len(s)-1]
		return Type{Kind: KindList, Args: []Type{ParseType(inner)}}
	case strings.HasPrefix(s, "map<") && strings.HasSuffix(s, ">"):
		inner := s[len("map<") : len(s)-1]
		parts := splitAtTopLevelCommas(inner)
		if len(parts) != 2 {
			return Unknown
		}
		return Type{Kind: KindMap, Args: []Type{ParseType(parts[0]), ParseType(parts[1])}}
	default:
		if s == "" {
			return Unknown
		}
		return Type{Kind: KindNamed, Name: s}
	}
}

// String renders a Type back to its surface syntax, primarily for
// diagnostic messages.
func (t Type) String() string {
	switch t.Kind {
	case KindNamed:
		return t.Name
	case KindList:
		if len(t.Args) == 1 {
			return "list<" + t.Args[0].String() + ">"
		}
		return "list<unknown>"
	case KindMap:
		if len(t.Args) == 2 {
			return "map<" + t.Args[0].String() + ", " + t.Args[1].String() + ">"
		}
		return "map<unknown, unknown>"
	case KindUnion:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return strings.Join(parts, "|")
	default:
		return "unknown"
	}
}

// Equal compares two types structurally. KindUnknown never equals anything,
// including itself, matching the no-cascade rule in §4.5: an unknown type
// short-circuits further comparison-based diagnostics rather than
// participating in them.
func (t Type) Equal(other Type) bool {
	if t.Kind == KindUnknown || other.Kind == KindUnknown {
		return false
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindNamed:
		return t.Name == other.Name
	case KindList, KindMap, KindUnion:
		if len(t.Args) != len(other.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(other.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// splitAtTopLevelCommas splits on commas that are not nested inside <...>
// brackets, mirroring the Go-signature paren-depth splitter this package
// was adapted from.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// splitAtTopLevelUnion splits on '|' that is not nested inside <...>.
func splitAtTopLevelUnion(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case '|':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// topLevelIndex finds the first occurrence of b outside any <...> nesting.
func topLevelIndex(s string, b byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case b:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
