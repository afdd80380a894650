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

// Package registry implements the Template Registry (§3, §4.6): an index
// over every template in a fileset, built once between phase 1 and phase
// 2 of the pipeline and frozen thereafter except through the designated
// synthetic-template channel.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kraklabs/tmplc/pkg/ast"
	"github.com/kraklabs/tmplc/pkg/diag"
)

// Entry is the registry's metadata record for one template.
type Entry struct {
	FQN             string
	Node            *ast.Node
	Namespace       string
	DelegateName    string
	DelegateVariant string
	Priority        int
}

func delegateKey(name, variant string) string {
	return name + "#" + variant
}

// Registry indexes every template in a fileset. The zero value is not
// usable; construct with New.
type Registry struct {
	mu sync.RWMutex

	byFQN map[string]*Entry

	// delegates: delegateKey(name, variant) → candidates, sorted by
	// descending declared priority (§4.6: "ordered candidate list").
	delegates map[string][]*Entry

	// byNamespace: namespace → local name → FQN, for partial-name lookup
	// (§4.6: "partial name within a file → resolves through the file's
	// namespace").
	byNamespace map[string]map[string]string

	built bool
}

// New creates an empty Registry. Call Build once to populate it.
func New() *Registry {
	return &Registry{
		byFQN:       make(map[string]*Entry),
		delegates:   make(map[string][]*Entry),
		byNamespace: make(map[string]map[string]string),
	}
}

// Build walks every File child of fileset and records every Template
// (§4.6 Construction). Duplicate fully-qualified names are reported to
// sink and the first occurrence wins, tie-broken by file order then
// in-file order — the order files and their templates already appear in
// fileset.Children(). Build must be called exactly once, after all
// phase-1 passes and before any fileset pass observes the registry.
func (r *Registry) Build(fileset []*ast.Node, sink *diag.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, file := range fileset {
		fd, ok := file.Data.(*ast.FileData)
		if !ok {
			continue
		}
		for _, tmpl := range file.Children() {
			td, ok := tmpl.Data.(*ast.TemplateData)
			if !ok {
				continue
			}
			r.index(fd.Namespace, tmpl, td, sink)
		}
	}
	r.built = true
}

func (r *Registry) index(namespace string, node *ast.Node, td *ast.TemplateData, sink *diag.Sink) {
	if _, exists := r.byFQN[td.Name]; exists {
		sink.Report(node.Location(), diag.KindDuplicateTemplate, td.Name)
		return
	}

	entry := &Entry{
		FQN:             td.Name,
		Node:            node,
		Namespace:       namespace,
		DelegateName:    td.DelegateName,
		DelegateVariant: td.DelegateVariant,
		Priority:        td.Priority,
	}
	r.byFQN[td.Name] = entry

	if r.byNamespace[namespace] == nil {
		r.byNamespace[namespace] = make(map[string]string)
	}
	r.byNamespace[namespace][localName(namespace, td.Name)] = td.Name

	if td.Kind == ast.TemplateDelegate {
		key := delegateKey(td.DelegateName, td.DelegateVariant)
		r.delegates[key] = insertByPriority(r.delegates[key], entry)
	}
}

func localName(namespace, fqn string) string {
	prefix := namespace + "."
	if len(fqn) > len(prefix) && fqn[:len(prefix)] == prefix {
		return fqn[len(prefix):]
	}
	return fqn
}

func insertByPriority(candidates []*Entry, e *Entry) []*Entry {
	candidates = append(candidates, e)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	return candidates
}

// Lookup finds a template by its fully-qualified name. Reports ok=false
// if no such template was registered.
func (r *Registry) Lookup(fqn string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byFQN[fqn]
	return e, ok
}

// LookupPartial resolves a partial name within namespace to its
// fully-qualified entry.
func (r *Registry) LookupPartial(namespace, partial string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names, ok := r.byNamespace[namespace]
	if !ok {
		return nil, false
	}
	fqn, ok := names[partial]
	if !ok {
		return nil, false
	}
	e, ok := r.byFQN[fqn]
	return e, ok
}

// LookupDelegate returns the candidates registered for a delegate name
// and variant, ordered by descending declared priority. The returned
// slice is a copy; callers may read but not rely on mutating the
// registry's internal state through it.
func (r *Registry) LookupDelegate(name, variant string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	candidates := r.delegates[delegateKey(name, variant)]
	out := make([]*Entry, len(candidates))
	copy(out, candidates)
	return out
}

// All returns every registered entry. The returned slice is a fresh copy.
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, 0, len(r.byFQN))
	for _, e := range r.byFQN {
		out = append(out, e)
	}
	return out
}

// Mutator is the designated channel through which a fileset pass that
// declares itself a producer (e.g. autoescaping) adds synthesized
// templates to an otherwise-frozen registry (§4.6 Mutation after
// construction).
type Mutator struct {
	r    *Registry
	pass string
}

// AsProducer returns a Mutator scoped to passName, the only path by which
// passName may add templates created after Build.
func (r *Registry) AsProducer(passName string) *Mutator {
	return &Mutator{r: r, pass: passName}
}

// AddSynthetic registers a template node created by the producer pass.
// The caller must invoke Reindex before any subsequent pass observes the
// registry, per the §3/§4.6 contract ("must call a re-index operation
// before dependent passes observe the new templates").
func (m *Mutator) AddSynthetic(namespace string, node *ast.Node, sink *diag.Sink) error {
	td, ok := node.Data.(*ast.TemplateData)
	if !ok {
		return fmt.Errorf("registry: AddSynthetic from pass %q: node is not a Template", m.pass)
	}
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	if !m.r.built {
		return fmt.Errorf("registry: AddSynthetic from pass %q: registry not yet built", m.pass)
	}
	m.r.index(namespace, node, td, sink)
	return nil
}

// Reindex is a no-op marker call that documents the point at which a
// producer pass considers its synthesized templates visible to
// subsequent passes. Indexing in this implementation happens immediately
// in AddSynthetic under the registry's write lock, so Reindex exists
// purely to make the required call site explicit at producer call sites.
func (m *Mutator) Reindex() {}
