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

// Package config implements the pipeline's Configuration (§6): a fluent
// builder that selects enabled passes, supplies collaborator handles, and
// registers continuation rules, then assembles the concrete ordered pass
// list a pass.Manager is constructed from.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/ids"
	"github.com/kraklabs/tmplc/pkg/pass"
	"github.com/kraklabs/tmplc/pkg/passes"
)

// ContinuationKind mirrors pass.RuleKind in the vocabulary §6 uses for the
// `pass_continuation_rules` option: CONTINUE, STOP_BEFORE_PASS,
// STOP_AFTER_PASS.
type ContinuationKind string

const (
	Continue       ContinuationKind = "CONTINUE"
	StopBeforePass ContinuationKind = "STOP_BEFORE_PASS"
	StopAfterPass  ContinuationKind = "STOP_AFTER_PASS"
)

// ContinuationRule is one entry of `pass_continuation_rules` (§6), loadable
// from YAML the way the teacher's project.yaml loads indexing settings.
type ContinuationRule struct {
	Pass string           `yaml:"pass"`
	Kind ContinuationKind `yaml:"kind"`
}

// RulesFile is the on-disk shape of a continuation-rules payload file.
type RulesFile struct {
	Rules []ContinuationRule `yaml:"rules"`
}

// LoadContinuationRules reads a YAML file of the RulesFile shape, mirroring
// the teacher's cmd/cie/config.go yaml.Unmarshal use for project.yaml.
func LoadContinuationRules(path string) ([]ContinuationRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read continuation rules %s: %w", path, err)
	}
	var rf RulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("config: parse continuation rules %s: %w", path, err)
	}
	return rf.Rules, nil
}

// ExperimentalFeature names recognized by `experimental_features` (§6).
const (
	FeatureNewHTMLMatcher = "new_html_matcher"
)

// Configuration is the fluent builder over §6's recognized options.
// Construct it with New, which sets DesugarHTML, Optimize,
// AutoescaperEnabled and AddHTMLAttributesForDebugging to true; callers
// opt OUT with the matching With*(false) call. The
// add-HTML-attributes-for-debugging setting and the experimental feature
// set are stored but not read by Build: no pass depends on them.
type Configuration struct {
	disableAllTypeChecking      bool
	allowUnknownGlobals         bool
	allowV1Expression           bool
	desugarHTMLNodes            bool
	optimize                    bool
	autoescaperEnabled          bool
	addHTMLAttributesForDebug   bool
	strictAutoescapingRequired  bool
	allowExternalCalls          bool
	experimentalFeatures        map[string]bool
	conformanceRules            []passes.ConformanceRule
	globals                     map[string]passes.GlobalValue
	continuationRules           []ContinuationRule
	logger                      *slog.Logger
}

// New returns a Configuration with spec.md §6's documented defaults:
// desugar_html_nodes, optimize, autoescaper_enabled and
// add_html_attributes_for_debugging all default true; allow_external_calls
// defaults true (strict-deps is opt-in via WithAllowExternalCalls(false)).
func New() *Configuration {
	return &Configuration{
		desugarHTMLNodes:          true,
		optimize:                  true,
		autoescaperEnabled:        true,
		addHTMLAttributesForDebug: true,
		allowExternalCalls:        true,
		experimentalFeatures:      map[string]bool{},
		globals:                   map[string]passes.GlobalValue{},
	}
}

func (c *Configuration) WithDisableAllTypeChecking(v bool) *Configuration {
	c.disableAllTypeChecking = v
	return c
}

func (c *Configuration) WithAllowUnknownGlobals(v bool) *Configuration {
	c.allowUnknownGlobals = v
	return c
}

func (c *Configuration) WithAllowV1Expression(v bool) *Configuration {
	c.allowV1Expression = v
	return c
}

func (c *Configuration) WithDesugarHTMLNodes(v bool) *Configuration {
	c.desugarHTMLNodes = v
	return c
}

func (c *Configuration) WithOptimize(v bool) *Configuration {
	c.optimize = v
	return c
}

func (c *Configuration) WithAutoescaperEnabled(v bool) *Configuration {
	c.autoescaperEnabled = v
	return c
}

func (c *Configuration) WithAddHTMLAttributesForDebugging(v bool) *Configuration {
	c.addHTMLAttributesForDebug = v
	return c
}

func (c *Configuration) WithStrictAutoescapingRequired(v bool) *Configuration {
	c.strictAutoescapingRequired = v
	return c
}

func (c *Configuration) WithAllowExternalCalls(v bool) *Configuration {
	c.allowExternalCalls = v
	return c
}

func (c *Configuration) WithExperimentalFeature(name string) *Configuration {
	c.experimentalFeatures[name] = true
	return c
}

func (c *Configuration) WithConformanceConfig(rules []passes.ConformanceRule) *Configuration {
	c.conformanceRules = rules
	return c
}

func (c *Configuration) WithGlobals(globals map[string]passes.GlobalValue) *Configuration {
	c.globals = globals
	return c
}

func (c *Configuration) WithContinuationRules(rules []ContinuationRule) *Configuration {
	c.continuationRules = rules
	return c
}

func (c *Configuration) WithLogger(logger *slog.Logger) *Configuration {
	c.logger = logger
	return c
}

func (c *Configuration) hasFeature(name string) bool {
	return c.experimentalFeatures[name]
}

// Build assembles the concrete ordered pass list implied by the enabled
// options, in the fixed relative order §4.5's pass dependency notes
// require (HTML rewrite before anything HTML-shaped; combine-raw-text last
// in any phase that fragmented text; autoescape after HTML rewrite and
// type resolution), and constructs a pass.Manager from it (§6, SPEC_FULL
// "Configuration.Build").
func (c *Configuration) Build(gen *ids.Generator, sink *diag.Sink) (*pass.Manager, error) {
	filePasses := c.buildFilePasses()
	filesetPasses := c.buildFilesetPasses()

	rules := make([]pass.Rule, 0, len(c.continuationRules))
	for _, r := range c.continuationRules {
		var kind pass.RuleKind
		switch r.Kind {
		case Continue, "":
			kind = pass.RuleContinue
		case StopBeforePass:
			kind = pass.RuleStopBefore
		case StopAfterPass:
			kind = pass.RuleStopAfter
		default:
			return nil, fmt.Errorf("config: unknown continuation rule kind %q for pass %q", r.Kind, r.Pass)
		}
		rules = append(rules, pass.Rule{PassName: r.Pass, Kind: kind})
	}

	return pass.New(filePasses, filesetPasses, rules, gen, sink, c.logger)
}

func (c *Configuration) buildFilePasses() []pass.FileLocal {
	var out []pass.FileLocal

	// HTML rewrite must run before anything HTML-shaped: message
	// placeholders, desugar, and — in phase 2 — autoescape.
	out = append(out, passes.HTMLRewrite{})

	out = append(out, passes.MessagePlaceholderInsertion{})

	out = append(out, passes.V1ExpressionCheck{Allow: c.allowV1Expression})

	out = append(out, passes.GlobalRewrite{
		Globals:             c.globals,
		AllowUnknownGlobals: c.allowUnknownGlobals,
	})

	out = append(out, passes.ResolveNames{})

	if !c.disableAllTypeChecking {
		out = append(out, passes.ResolveExpressionTypes{})
	}

	if c.desugarHTMLNodes {
		out = append(out, passes.DesugarHTML{})
	}

	if c.optimize {
		out = append(out, passes.Optimizer{})
	}

	// Must be run last in any phase that may have fragmented text (§4.5).
	out = append(out, passes.CombineRawText{})

	return out
}

func (c *Configuration) buildFilesetPasses() []pass.Fileset {
	var out []pass.Fileset

	if len(c.conformanceRules) > 0 {
		out = append(out, passes.Conformance{Rules: c.conformanceRules})
	}

	if !c.disableAllTypeChecking {
		out = append(out, passes.CrossTemplateChecks{
			AllowExternalCalls:  c.allowExternalCalls,
			CheckHeaderVarTypes: true,
		})
	} else if !c.allowExternalCalls {
		out = append(out, passes.CrossTemplateChecks{AllowExternalCalls: c.allowExternalCalls})
	}

	// Autoescape input invariant: HTML rewrite has run (phase 1, always);
	// type resolution has run unless type-checking is disabled (§4.5).
	if c.autoescaperEnabled {
		out = append(out, passes.Autoescape{})
	}

	if c.strictAutoescapingRequired {
		out = append(out, passes.AssertStrictAutoescape{})
	}

	return out
}
