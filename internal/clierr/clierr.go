// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clierr turns internal (Go) errors into a formatted, possibly
// fatal report for the CLI, mirroring the call-site shape of the
// teacher's (stripped from the retrieval pack) internal/errors package as
// used from cmd/cie/index.go — a UserError carrying a title, a detail
// line and an actionable suggestion, plus a FatalError entry point that
// prints and exits.
package clierr

import (
	"encoding/json"
	"fmt"
	"os"
)

// UserError is an internal error the CLI can explain to a human: what
// went wrong, why, and what to do about it. It wraps the underlying Go
// error without discarding it.
type UserError struct {
	Title      string
	Detail     string
	Suggestion string
	Cause      error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *UserError) Unwrap() error { return e.Cause }

// NewConfigError wraps a Configuration/continuation-rule construction
// failure (§7 "internal assertion ... reported via the fatal sink").
func NewConfigError(detail, suggestion string, cause error) *UserError {
	return &UserError{Title: "Invalid pipeline configuration", Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewFixtureError wraps a failure loading the input fileset fixture.
func NewFixtureError(detail, suggestion string, cause error) *UserError {
	return &UserError{Title: "Cannot load template fileset", Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewInternalError wraps an unexpected failure that indicates a bug
// rather than user misconfiguration.
func NewInternalError(detail string, cause error) *UserError {
	return &UserError{
		Title:      "Internal error",
		Detail:     detail,
		Suggestion: "This is unexpected. Please report this issue.",
		Cause:      cause,
	}
}

type jsonReport struct {
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	Suggestion string `json:"suggestion,omitempty"`
}

// FatalError prints err to stderr — as JSON when asJSON is set, otherwise
// as a human-readable report — and exits the process with status 1. It
// never returns.
func FatalError(err error, asJSON bool) {
	ue, ok := err.(*UserError)
	if !ok {
		ue = &UserError{Title: "Error", Detail: err.Error()}
	}

	if asJSON {
		report := jsonReport{Error: ue.Title, Detail: ue.Detail, Suggestion: ue.Suggestion}
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", ue.Title)
	if ue.Detail != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", ue.Detail)
	}
	if ue.Cause != nil {
		fmt.Fprintf(os.Stderr, "  cause: %v\n", ue.Cause)
	}
	if ue.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\n%s\n", ue.Suggestion)
	}
	os.Exit(1)
}
