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

// Package pass defines the uniform Pass shape (§4.3) and the Pass Manager
// that assembles passes into the two fixed phases described in §4.4.
package pass

import (
	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
	"github.com/kraklabs/tmplc/pkg/registry"
)

// Continuation is a fileset pass's verdict on whether the pipeline should
// keep going (§4.3).
type Continuation int

const (
	// Continue lets the manager proceed to the next pass.
	Continue Continuation = iota
	// Stop instructs the manager to terminate the pipeline after the
	// current pass.
	Stop
)

// FileLocal is a phase-1 pass: it rewrites, annotates, or reports
// diagnostics on one source file at a time, sharing the fileset's id
// generator (§4.4 phase 1).
type FileLocal interface {
	// Name is the pass's stable short identifier, used as the
	// continuation-rule key. It must be derived from the pass's declared
	// identity, never from where it happens to run.
	Name() string
	RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink)
}

// Fileset is a phase-2 pass: it runs once per build over every file, with
// the frozen template registry available (§4.4 phase 2).
type Fileset interface {
	Name() string
	RunFileset(files []*ast.Node, gen *ids.Generator, reg *registry.Registry, sink *diag.Sink) Continuation
}

// FileLocalFunc adapts a function to FileLocal.
type FileLocalFunc struct {
	PassName string
	Fn       func(file *ast.Node, gen *ids.Generator, sink *diag.Sink)
}

func (f FileLocalFunc) Name() string { return f.PassName }
func (f FileLocalFunc) RunFile(file *ast.Node, gen *ids.Generator, sink *diag.Sink) {
	f.Fn(file, gen, sink)
}

// FilesetFunc adapts a function to Fileset.
type FilesetFunc struct {
	PassName string
	Fn       func(files []*ast.Node, gen *ids.Generator, reg *registry.Registry, sink *diag.Sink) Continuation
}

func (f FilesetFunc) Name() string { return f.PassName }
func (f FilesetFunc) RunFileset(files []*ast.Node, gen *ids.Generator, reg *registry.Registry, sink *diag.Sink) Continuation {
	return f.Fn(files, gen, reg, sink)
}
