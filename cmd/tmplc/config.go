// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"log/slog"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/tmplc/internal/clierr"
	"github.com/kraklabs/tmplc/pkg/config"
)

// CompileFlags mirrors §6's recognized options as CLI flags.
type CompileFlags struct {
	DisableTypeChecking bool
	AllowUnknownGlobals bool
	AllowV1Expression   bool
	DesugarHTML         bool
	Optimize            bool
	Autoescape          bool
	StrictAutoescape    bool
	AllowExternalCalls  bool
	NewHTMLMatcher      bool
	RulesFile           string
	MetricsAddr         string
	Debug               bool
}

func registerCompileFlags(fs *flag.FlagSet) *CompileFlags {
	f := &CompileFlags{}
	fs.BoolVar(&f.DisableTypeChecking, "disable-all-type-checking", false, "omit every type-dependent pass")
	fs.BoolVar(&f.AllowUnknownGlobals, "allow-unknown-globals", false, "omit the unknown-globals check")
	fs.BoolVar(&f.AllowV1Expression, "allow-v1-expression", false, "enable the v1-expression compatibility pass")
	fs.BoolVar(&f.DesugarHTML, "desugar-html-nodes", true, "include the desugar pass")
	fs.BoolVar(&f.Optimize, "optimize", true, "include the optimizer")
	fs.BoolVar(&f.Autoescape, "autoescaper-enabled", true, "include autoescaper and its dependent checks")
	fs.BoolVar(&f.StrictAutoescape, "strict-autoescaping-required", false, "include the assert-strict pass")
	fs.BoolVar(&f.AllowExternalCalls, "allow-external-calls", true, "when disabled, include the strict-deps pass")
	fs.BoolVar(&f.NewHTMLMatcher, "new-html-matcher", false, "record the new_html_matcher experimental feature (no pass reads it)")
	fs.StringVar(&f.RulesFile, "continuation-rules", "", "path to a YAML pass_continuation_rules payload")
	fs.StringVar(&f.MetricsAddr, "metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	return f
}

func (f *CompileFlags) buildConfiguration(logger *slog.Logger) (*config.Configuration, error) {
	cfg := config.New().
		WithDisableAllTypeChecking(f.DisableTypeChecking).
		WithAllowUnknownGlobals(f.AllowUnknownGlobals).
		WithAllowV1Expression(f.AllowV1Expression).
		WithDesugarHTMLNodes(f.DesugarHTML).
		WithOptimize(f.Optimize).
		WithAutoescaperEnabled(f.Autoescape).
		WithStrictAutoescapingRequired(f.StrictAutoescape).
		WithAllowExternalCalls(f.AllowExternalCalls).
		WithLogger(logger)

	if f.NewHTMLMatcher {
		cfg.WithExperimentalFeature(config.FeatureNewHTMLMatcher)
	}

	if f.RulesFile != "" {
		rules, err := config.LoadContinuationRules(f.RulesFile)
		if err != nil {
			return nil, clierr.NewConfigError(
				"could not load --continuation-rules file",
				"check the file exists and is valid YAML with a top-level 'rules:' list",
				err,
			)
		}
		cfg.WithContinuationRules(rules)
	}

	return cfg, nil
}
