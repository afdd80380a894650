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

// Package main implements the tmplc CLI: a thin driver over
// pkg/config/pkg/pass that loads a fileset fixture, assembles the pass
// pipeline from recognized options (§6), and runs it to completion or to
// a configured stop point.
//
// Usage:
//
//	tmplc compile <fixture.yaml> [options]   Run the pipeline once
//	tmplc watch <fixture.yaml> [options]     Re-run on fixture changes
//	tmplc version                            Print build metadata
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/tmplc/internal/cliui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds the flags that apply to every subcommand.
type GlobalFlags struct {
	JSON    bool
	NoColor bool
	Verbose int
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "compile":
		runCompile(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "version":
		fmt.Printf("tmplc %s (commit %s, built %s)\n", version, commit, date)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "tmplc: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: tmplc <command> [options]

Commands:
  compile <fixture.yaml>   Run the pass pipeline once and report diagnostics
  watch <fixture.yaml>     Re-run the pipeline on fixture changes
  version                  Print build metadata

Run 'tmplc <command> --help' for command-specific options.
`)
}

func parseGlobals(fs *flag.FlagSet) *GlobalFlags {
	g := &GlobalFlags{}
	fs.BoolVar(&g.JSON, "json", false, "output diagnostics as JSON")
	fs.BoolVar(&g.NoColor, "no-color", false, "disable colorized output")
	fs.CountVarP(&g.Verbose, "verbose", "v", "increase log verbosity (-v, -vv)")
	return g
}

func applyGlobals(g *GlobalFlags) {
	if g.NoColor {
		cliui.SetNoColor(true)
	}
}
