// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package diag

import "fmt"

// ExplodingSink is the fatal sink variant used inside other passes to
// assert the absence of errors during their own subroutines (§4.1). Any
// Report call hands a formatted message to its Panic func — or, if that
// is nil, panics with it — because reaching this sink means an internal
// pipeline invariant was broken (§7 "Internal assertion"), not a
// user-facing template problem.
type ExplodingSink struct {
	// Panic is called with a formatted message when a diagnostic is
	// reported. Tests substitute a func that records the call instead of
	// exiting the process; production code leaves it nil to get the
	// default panic behavior.
	Panic func(msg string)
}

// NewExplodingSink creates an ExplodingSink with the default (panicking)
// behavior.
func NewExplodingSink() *ExplodingSink {
	return &ExplodingSink{}
}

// Report panics with the formatted message when Panic is nil. When Panic
// is set, Report calls it with the message and then returns.
func (s *ExplodingSink) Report(loc Location, kind Kind, args ...any) {
	tmpl, ok := messageTemplates[kind]
	if !ok {
		tmpl = string(kind)
	}
	msg := fmt.Sprintf("internal assertion failed at %s: %s", loc, fmt.Sprintf(tmpl, args...))
	if s.Panic != nil {
		s.Panic(msg)
		return
	}
	panic(msg)
}
