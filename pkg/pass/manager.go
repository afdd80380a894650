// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package pass

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
	"github.com/kraklabs/tmplc/pkg/registry"
)

// RuleKind is a continuation rule's verdict (§4.4).
type RuleKind int

const (
	RuleContinue RuleKind = iota
	RuleStopBefore
	RuleStopAfter
)

// Rule is one entry of the continuation registry, keyed by pass name and
// passed to New at construction time.
type Rule struct {
	PassName string
	Kind     RuleKind
}

// Result is what Manager.Run returns: the final registry (possibly built
// from a partial phase-1 run) and whether the pipeline stopped early.
type Result struct {
	Registry  *registry.Registry
	Stopped   bool
	StoppedAt string
}

// Manager holds an ordered pipeline of file-local and fileset passes, normalizes
// continuation rules at construction time, and runs the two fixed phases
// (§4.4).
type Manager struct {
	filePasses    []FileLocal
	filesetPasses []Fileset
	stopBefore    map[string]bool // pass name → stop-before-this-pass, post-normalization
	logger        *slog.Logger
	gen           *ids.Generator
	sink          *diag.Sink
	observer      Observer
}

// Observer receives one call per pass invocation, after it completes, for
// callers that want finer-grained instrumentation than the Info-level log
// line Run already emits (e.g. a Prometheus histogram keyed by pass name).
type Observer func(passName string, phase int, d time.Duration)

// SetObserver installs obs to be called after every pass invocation. Pass
// nil to disable.
func (m *Manager) SetObserver(obs Observer) {
	m.observer = obs
}

// New constructs a Manager from ordered file-local and fileset passes,
// normalizing rules against the assembled pass list. It returns an error
// if a rule names a pass absent from either list (§4.4 normalization:
// "the manager fails construction").
func New(filePasses []FileLocal, filesetPasses []Fileset, rules []Rule, gen *ids.Generator, sink *diag.Sink, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	order := make([]string, 0, len(filePasses)+len(filesetPasses))
	for _, p := range filePasses {
		order = append(order, p.Name())
	}
	for _, p := range filesetPasses {
		order = append(order, p.Name())
	}
	index := make(map[string]int, len(order))
	for i, name := range order {
		index[name] = i
	}

	stopBefore := make(map[string]bool)
	for _, r := range rules {
		switch r.Kind {
		case RuleContinue:
			continue // "CONTINUE rules are dropped entirely"
		case RuleStopBefore:
			if _, ok := index[r.PassName]; !ok {
				return nil, fmt.Errorf("pass: continuation rule names unknown pass %q", r.PassName)
			}
			stopBefore[r.PassName] = true
		case RuleStopAfter:
			i, ok := index[r.PassName]
			if !ok {
				return nil, fmt.Errorf("pass: continuation rule names unknown pass %q", r.PassName)
			}
			if i == len(order)-1 {
				continue // "targets the final pass, the rule is dropped"
			}
			stopBefore[order[i+1]] = true
		default:
			return nil, fmt.Errorf("pass: unknown rule kind %d for pass %q", r.Kind, r.PassName)
		}
	}

	return &Manager{
		filePasses:    filePasses,
		filesetPasses: filesetPasses,
		stopBefore:    stopBefore,
		logger:        logger,
		gen:           gen,
		sink:          sink,
	}, nil
}

// Run executes phase 1 (single-file passes over every source file) then,
// unless phase 1 stopped, phase 2 (whole-fileset passes), building the
// template registry between them (§4.4, §3 "two-phase registry").
func (m *Manager) Run(fileset []*ast.Node) Result {
	stopped, stoppedAt := m.runPhase1(fileset)

	reg := registry.New()
	reg.Build(fileset, m.sink)

	if stopped {
		m.logger.Info("pass.pipeline.stopped_phase1", "at", stoppedAt)
		return Result{Registry: reg, Stopped: true, StoppedAt: stoppedAt}
	}

	phase2Stopped, phase2StoppedAt := m.runPhase2(fileset, reg)
	if phase2Stopped {
		return Result{Registry: reg, Stopped: true, StoppedAt: phase2StoppedAt}
	}
	return Result{Registry: reg, Stopped: false}
}

func (m *Manager) runPhase1(fileset []*ast.Node) (stopped bool, stoppedAt string) {
	for _, p := range m.filePasses {
		if m.stopBefore[p.Name()] {
			return true, p.Name()
		}
		start := time.Now()
		for _, file := range fileset {
			fd, ok := file.Data.(*ast.FileData)
			if !ok || fd.FileKind != ast.FileSRC {
				continue // "a file whose kind is not source is skipped entirely"
			}
			p.RunFile(file, m.gen, m.sink)
		}
		dur := time.Since(start)
		m.logger.Info("pass.run", "phase", 1, "name", p.Name(), "duration_ms", dur.Milliseconds())
		if m.observer != nil {
			m.observer(p.Name(), 1, dur)
		}
	}
	return false, ""
}

func (m *Manager) runPhase2(fileset []*ast.Node, reg *registry.Registry) (stopped bool, stoppedAt string) {
	for _, p := range m.filesetPasses {
		if m.stopBefore[p.Name()] {
			return true, p.Name()
		}
		start := time.Now()
		verdict := p.RunFileset(fileset, m.gen, reg, m.sink)
		dur := time.Since(start)
		m.logger.Info("pass.run", "phase", 2, "name", p.Name(), "duration_ms", dur.Milliseconds())
		if m.observer != nil {
			m.observer(p.Name(), 2, dur)
		}
		if verdict == Stop {
			m.logger.Info("pass.requested_stop", "name", p.Name())
			return true, p.Name()
		}
	}
	return false, ""
}
