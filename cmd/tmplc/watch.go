// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/tmplc/internal/cliui"
)

const watchDebounce = 500 * time.Millisecond

// runWatch re-runs the pipeline over a fixture file every time it changes
// on disk, debounced, until interrupted. Grounded on the teacher's
// cmd/cie/watch.go fsnotify-plus-debounce-timer shape, simplified here to
// a single watched file rather than a recursive directory walk since a
// fixture is one YAML file, not a source tree.
func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	globals := parseGlobals(fs)
	flags := registerCompileFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, `Usage: tmplc watch <fixture.yaml> [options]

Re-runs the pass pipeline every time the fixture file changes, until
interrupted with Ctrl-C.

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

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tmplc watch: fsnotify failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(fixturePath); err != nil {
		fmt.Fprintf(os.Stderr, "tmplc watch: cannot watch %s: %v\n", fixturePath, err)
		os.Exit(1)
	}

	cliui.Header(fmt.Sprintf("Watching %s (Ctrl-C to stop)", fixturePath))
	runOnce := func() {
		result, sink, _ := compileFixture(fixturePath, flags, globals)
		printHumanReport(result, sink.All())
		fmt.Println()
	}
	runOnce()

	var debounceTimer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(watchDebounce)
			timerCh = debounceTimer.C

		case _, ok := <-timerCh:
			if !ok {
				continue
			}
			timerCh = nil
			runOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "tmplc watch: %v\n", err)
		}
	}
}
