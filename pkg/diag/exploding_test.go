// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExplodingSinkInvokesPanicFunc(t *testing.T) {
	var captured string
	s := &ExplodingSink{Panic: func(msg string) { captured = msg }}

	s.Report(Location{File: "a.soy", StartLine: 3}, KindUndefinedVariable, "name")

	require.Contains(t, captured, "internal assertion failed")
	require.Contains(t, captured, "name")
}

func TestExplodingSinkDefaultsToPanic(t *testing.T) {
	s := NewExplodingSink()
	require.Panics(t, func() {
		s.Report(Location{}, KindUndefinedVariable, "x")
	})
}
