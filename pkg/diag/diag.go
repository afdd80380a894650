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

// Package diag implements the pipeline's Diagnostic Sink (§4.1): the
// accumulator passes report semantic and policy problems into instead of
// returning Go errors for user-facing template problems.
package diag

import "fmt"

// Location identifies a span of source text a diagnostic is attached to.
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Kind identifies the distinct template-problem message this diagnostic
// reports, matching §7's taxonomy (Semantic / Policy). Internal assertion
// failures never become a Kind — they go through the exploding sink and
// terminate the process instead.
type Kind string

// Message templates for each Kind, §7: "messages use positional parameters
// and are constructed from declared templates per error kind."
const (
	KindUndefinedVariable      Kind = "undefined-variable"
	KindTypeMismatch           Kind = "type-mismatch"
	KindUnknownGlobal          Kind = "unknown-global"
	KindDuplicateTemplate      Kind = "duplicate-template"
	KindDuplicateDeclaration   Kind = "duplicate-declaration"
	KindVisibilityViolation    Kind = "visibility-violation"
	KindBannedAttribute        Kind = "banned-attribute"
	KindDelegateConflict       Kind = "delegate-conflict"
	KindConformanceViolation   Kind = "conformance-violation"
	KindStrictDepsViolation    Kind = "strict-deps-violation"
	KindV1ExpressionDisallowed Kind = "v1-expression-disallowed"
	KindNotStrictlyAutoescaped Kind = "not-strictly-autoescaped"
)

var messageTemplates = map[Kind]string{
	KindUndefinedVariable:      "undefined variable $%s",
	KindTypeMismatch:           "cannot assign type %s to type %s",
	KindUnknownGlobal:          "unknown global %s",
	KindDuplicateTemplate:      "template %s is already defined",
	KindDuplicateDeclaration:   "%s is already declared",
	KindVisibilityViolation:    "template %s is private to namespace %s",
	KindBannedAttribute:        "attribute %s is not allowed on element %s",
	KindDelegateConflict:       "delegate group %s has more than one default variant",
	KindConformanceViolation:   "%s",
	KindStrictDepsViolation:    "call to %s is not allowed: %s is not a direct dependency",
	KindV1ExpressionDisallowed: "v1 expression syntax is not allowed: %s",
	KindNotStrictlyAutoescaped: "template %s is not strictly autoescaped",
}

// Diagnostic is a single reported problem, keyed by source location.
type Diagnostic struct {
	Location Location
	Kind     Kind
	Message  string
	Pass     string // name of the pass that reported it
}

// Marker is an opaque snapshot returned by Sink.Snapshot, used with
// Sink.ErrorsSince to test "has any error been reported since marker M"
// without aborting the whole run (§4.1).
type Marker int

// Sink accumulates diagnostics in insertion order (§4.1, §5 "Diagnostics
// are reported in insertion order within a pass, but diagnostics from
// different passes interleave in execution order").
type Sink struct {
	entries []Diagnostic
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Report records a diagnostic. Passes never throw for user errors; they
// call Report and continue (§4.1).
func (s *Sink) Report(loc Location, kind Kind, args ...any) {
	tmpl, ok := messageTemplates[kind]
	if !ok {
		tmpl = string(kind)
	}
	s.entries = append(s.entries, Diagnostic{
		Location: loc,
		Kind:     kind,
		Message:  fmt.Sprintf(tmpl, args...),
	})
}

// ReportFrom records a diagnostic tagged with the reporting pass's name,
// used by the Pass Manager to stamp Diagnostic.Pass without requiring
// every pass implementation to know its own name string twice.
func (s *Sink) ReportFrom(pass string, loc Location, kind Kind, args ...any) {
	s.Report(loc, kind, args...)
	s.entries[len(s.entries)-1].Pass = pass
}

// All returns every diagnostic reported so far, in insertion order. The
// returned slice is a copy; callers may not mutate the sink through it.
func (s *Sink) All() []Diagnostic {
	out := make([]Diagnostic, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the total number of diagnostics reported so far.
func (s *Sink) Len() int {
	return len(s.entries)
}

// Snapshot returns an opaque marker of the sink's current size.
func (s *Sink) Snapshot() Marker {
	return Marker(len(s.entries))
}

// ErrorsSince reports how many diagnostics have been added since marker m.
// A negative or out-of-range marker is treated as the start of the sink.
func (s *Sink) ErrorsSince(m Marker) int {
	from := int(m)
	if from < 0 || from > len(s.entries) {
		from = 0
	}
	return len(s.entries) - from
}

// HasErrorsSince is a convenience wrapper over ErrorsSince, for passes that
// only need a boolean ("has any error been reported since marker M").
func (s *Sink) HasErrorsSince(m Marker) bool {
	return s.ErrorsSince(m) > 0
}
