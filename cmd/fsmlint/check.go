package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fsmlint/go-fsmlint/config"
	"github.com/fsmlint/go-fsmlint/dsl"
	"github.com/fsmlint/go-fsmlint/machine"
	"github.com/fsmlint/go-fsmlint/store"
	"github.com/fsmlint/go-fsmlint/validation"
)

type checkOptions struct {
	jsonOut    bool
	outputFile string
	noSave     bool
}

func check(args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	jsonOut := fs.Bool("json", false, "Output the validation result as JSON")
	outputFile := fs.String("output", "", "Write the JSON result to a file")
	noSave := fs.Bool("no-save", false, "Never persist the document, even when clean")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: fsmlint check <design.fsm> [options]

Parse a state machine DSL file into the stored document and critique the
result. When the critique list is empty the document is saved; otherwise
saving is withheld and the exit code is 1.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Checks performed:
  - Undefined states (transition targets never declared in STATE_LIST)
  - Potential deadlocks (reachable states with no outgoing transitions)
  - Comment hints (future-proofing and criticality markers)

Examples:
  fsmlint check door_lock.fsm
  fsmlint check door_lock.fsm -json
  fsmlint check door_lock.fsm -json -output report.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		fmt.Fprintln(os.Stderr, "Error: design file required")
		return 2
	}

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

	opts := checkOptions{jsonOut: *jsonOut, outputFile: *outputFile, noSave: *noSave}
	valid, err := runCheck(context.Background(), cfg, st, fs.Arg(0), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if !valid {
		return 1
	}
	return 0
}

// runCheck performs one parse → validate → report → maybe-save cycle on a
// freshly loaded document. It is shared with the watch command.
func runCheck(ctx context.Context, cfg *config.Config, st store.Store, path string, opts checkOptions) (bool, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("the file %q was not found", path)
	}

	m, err := st.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load stored document: %w", err)
	}

	dsl.NewParser(m, dsl.WithRedeclarePolicy(redeclarePolicy(cfg))).Parse(string(text))
	result := validation.NewValidator(m).Validate()

	if err := printResult(m, result, opts); err != nil {
		return false, err
	}

	if result.Valid && !opts.noSave {
		if err := st.Save(ctx, m); err != nil {
			return false, fmt.Errorf("save document: %w", err)
		}
		if !opts.jsonOut {
			fmt.Printf("Document saved (%s store).\n", cfg.Store.Backend)
		}
	}
	return result.Valid, nil
}

func printResult(m *machine.Machine, result *validation.Result, opts checkOptions) error {
	if opts.jsonOut || opts.outputFile != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		if opts.outputFile != "" {
			if err := os.WriteFile(opts.outputFile, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		if opts.jsonOut {
			fmt.Println(string(data))
		}
		return nil
	}

	if feature, ok := m.Header[machine.HeaderFeature]; ok {
		fmt.Printf("Feature: %s\n", feature)
	}

	if result.Valid {
		fmt.Println("The design looks solid. No errors or deadlocks found.")
		return nil
	}

	fmt.Printf("Found %d point(s) that need attention:\n", len(result.Critiques))
	for i, c := range result.Critiques {
		fmt.Printf("  %d. [%s] %s\n", i+1, c.Severity, c.Message)
	}
	fmt.Println("\nDocument not saved; address the critiques and re-run check.")
	return nil
}
