// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cliui renders colorized CLI output the way the teacher's
// (stripped from the retrieval pack) internal/ui package is invoked from
// cmd/cie/index.go and cmd/cie/status.go — rebuilt here from that
// call-site shape (ui.Header, ui.SubHeader, ui.Label, ui.Green/Yellow/Dim
// printers, ui.CountText/DimText helpers) on top of fatih/color and
// mattn/go-isatty.
package cliui

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// SetNoColor forces color output on or off, overriding terminal
// detection — wired to the CLI's --no-color flag.
func SetNoColor(v bool) {
	color.NoColor = v
}

var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed)
	Dim    = color.New(color.Faint)
	Bold   = color.New(color.Bold)
)

// Header prints a bold section title.
func Header(title string) {
	_, _ = Bold.Println(title)
}

// SubHeader prints a dim subsection title.
func SubHeader(title string) {
	_, _ = Dim.Println(title)
}

// Label bolds a field label, e.g. for "Files: 12" style output.
func Label(s string) string {
	return Bold.Sprint(s)
}

// DimText renders s in the faint style without printing it.
func DimText(s string) string {
	return Dim.Sprint(s)
}

// CountText renders an integer count in bold.
func CountText(n int) string {
	return Bold.Sprint(strconv.Itoa(n))
}

// Diagnostic renders one diagnostic line, colored by severity: lines the
// caller marks as warnings print in yellow, everything else in red, matching the
// teacher's Yellow-for-warnings / plain-for-errors convention in
// printResult.
func Diagnostic(loc, kind, message string, isWarning bool) string {
	line := fmt.Sprintf("%s: %s: %s", loc, kind, message)
	if isWarning {
		return Yellow.Sprint(line)
	}
	return Red.Sprint(line)
}
