package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

func watch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	jsonOut := fs.Bool("json", false, "Output validation results as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: fsmlint watch <design.fsm> [options]

Run check once, then re-run it whenever the file changes. The document is
persisted only on clean runs. Stop with Ctrl-C.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		fmt.Fprintln(os.Stderr, "Error: design file required")
		return 2
	}
	path := fs.Arg(0)

	cfg, err := setup(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	defer st.Close()

	// Watch the parent directory rather than the file itself so that
	// editors doing write-rename cycles keep being observed.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := checkOptions{jsonOut: *jsonOut}
	runOnce := func() {
		if _, err := runCheck(ctx, cfg, st, path, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	runOnce()
	fmt.Printf("Watching %s (Ctrl-C to stop)\n", path)

	watchLoop(ctx, watcher.Events, watcher.Errors, path, watchDebounce, runOnce)
	fmt.Println("\nStopped.")
	return 0
}

// watchLoop coalesces bursts of events for path and invokes run after a quiet
// period. The debounce is delivered through a timer channel handled in the
// same select as the events, so run always executes on the loop goroutine and
// checks never overlap. Returns when ctx is done or the channels close.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, path string, debounce time.Duration, run func()) {
	target := filepath.Clean(path)

	var timer *time.Timer
	var pending <-chan time.Time
	rearm := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
		}
		pending = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pending:
			pending = nil
			run()
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				rearm()
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}
