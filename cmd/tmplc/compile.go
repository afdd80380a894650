// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
	"github.com/schollz/progressbar/v3"

	"github.com/kraklabs/tmplc/internal/cliui"
	"github.com/kraklabs/tmplc/internal/clierr"
	"github.com/kraklabs/tmplc/pkg/diag"
	"github.com/kraklabs/tmplc/pkg/fixture"
	"github.com/kraklabs/tmplc/pkg/ids"
	"github.com/kraklabs/tmplc/pkg/metrics"
)

func runCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	globals := parseGlobals(fs)
	flags := registerCompileFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, `Usage: tmplc compile <fixture.yaml> [options]

Loads a YAML-described template fileset and runs the pass pipeline over
it once, reporting every diagnostic accumulated across both phases.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	applyGlobals(globals)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	fixturePath := fs.Arg(0)

	result, sink, m := compileFixture(fixturePath, flags, globals)
	reportResult(result, sink, globals)
	serveMetricsIfRequested(flags, m)
}

// compileFixture runs the pipeline once over fixturePath and returns the
// manager's result, the accumulated sink, and the metrics collectors used
// while running it.
func compileFixture(fixturePath string, flags *CompileFlags, globals *GlobalFlags) (pipelineResult, *diag.Sink, *metrics.Metrics) {
	logLevel := slog.LevelInfo
	if flags.Debug || globals.Verbose > 0 {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	gen := ids.NewGenerator()
	files, err := fixture.Load(fixturePath, gen)
	if err != nil {
		clierr.FatalError(clierr.NewFixtureError(
			fmt.Sprintf("could not load %s", fixturePath),
			"check the fixture is valid YAML matching pkg/fixture's File schema",
			err,
		), globals.JSON)
	}

	sink := diag.NewSink()
	cfg, err := flags.buildConfiguration(logger)
	if err != nil {
		clierr.FatalError(err, globals.JSON)
	}

	mgr, err := cfg.Build(gen, sink)
	if err != nil {
		clierr.FatalError(clierr.NewConfigError(
			"pass continuation rules could not be assembled into a pipeline",
			"check every pass name in --continuation-rules matches an enabled pass",
			err,
		), globals.JSON)
	}

	m := metrics.New()
	bar := progressbar.Default(-1, "compiling")
	mgr.SetObserver(func(passName string, phase int, d time.Duration) {
		m.ObservePass(passName, phaseLabel(phase), d)
		_ = bar.Add(1)
	})

	runResult := mgr.Run(files)
	_ = bar.Finish()
	m.ObserveRun(runResult.Stopped, runResult.StoppedAt)

	for _, diagEntry := range sink.All() {
		m.ObserveDiagnostic(diagEntry.Pass, string(diagEntry.Kind))
	}

	return pipelineResult{Stopped: runResult.Stopped, StoppedAt: runResult.StoppedAt, TemplateCount: len(runResult.Registry.All())}, sink, m
}

type pipelineResult struct {
	Stopped       bool
	StoppedAt     string
	TemplateCount int
}

func phaseLabel(phase int) string {
	if phase == 1 {
		return "file-local"
	}
	return "fileset"
}

func reportResult(result pipelineResult, sink *diag.Sink, globals *GlobalFlags) {
	entries := sink.All()

	if globals.JSON {
		printJSONReport(result, entries)
	} else {
		printHumanReport(result, entries)
	}

	if len(entries) > 0 {
		os.Exit(1)
	}
}

func printHumanReport(result pipelineResult, entries []diag.Diagnostic) {
	cliui.Header("Compile Result")
	fmt.Printf("%s %s\n", cliui.Label("Templates registered:"), cliui.CountText(result.TemplateCount))
	if result.Stopped {
		fmt.Printf("%s %s\n", cliui.Label("Stopped at:"), result.StoppedAt)
	}
	fmt.Println()

	if len(entries) == 0 {
		_, _ = cliui.Green.Println("No diagnostics reported.")
		return
	}

	cliui.SubHeader(fmt.Sprintf("%d diagnostic(s):", len(entries)))
	for _, d := range entries {
		fmt.Println(cliui.Diagnostic(d.Location.String(), string(d.Kind), d.Message, isWarningKind(d.Kind)))
	}
}

type jsonDiagnostic struct {
	Location string `json:"location"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Pass     string `json:"pass"`
}

type jsonCompileReport struct {
	TemplateCount int              `json:"template_count"`
	Stopped       bool             `json:"stopped"`
	StoppedAt     string           `json:"stopped_at,omitempty"`
	Diagnostics   []jsonDiagnostic `json:"diagnostics"`
}

func printJSONReport(result pipelineResult, entries []diag.Diagnostic) {
	report := jsonCompileReport{
		TemplateCount: result.TemplateCount,
		Stopped:       result.Stopped,
		StoppedAt:     result.StoppedAt,
	}
	for _, d := range entries {
		report.Diagnostics = append(report.Diagnostics, jsonDiagnostic{
			Location: d.Location.String(),
			Kind:     string(d.Kind),
			Message:  d.Message,
			Pass:     d.Pass,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
}

func isWarningKind(kind diag.Kind) bool {
	switch kind {
	case diag.KindConformanceViolation, diag.KindStrictDepsViolation:
		return true
	default:
		return false
	}
}

func serveMetricsIfRequested(flags *CompileFlags, m *metrics.Metrics) {
	if flags.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: flags.MetricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	fmt.Fprintf(os.Stderr, "metrics listening on %s/metrics\n", flags.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
	}
}
