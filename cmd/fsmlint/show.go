package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/fsmlint/go-fsmlint/machine"
)

func show(args []string) int {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: fsmlint show [options]

Print a summary of the stored machine document.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
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

	m, err := st.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	printSummary(m)
	return 0
}

func printSummary(m *machine.Machine) {
	feature := m.Header[machine.HeaderFeature]
	if feature == "" {
		feature = "N/A"
	}
	intent := m.Header[machine.HeaderIntent]
	if intent == "" {
		intent = "N/A"
	}

	fmt.Printf("Feature: %s\n", feature)
	fmt.Printf("Intent: %s\n", intent)

	if len(m.Assumptions) > 0 {
		fmt.Printf("\nAssumptions (%d):\n", len(m.Assumptions))
		for _, a := range m.Assumptions {
			fmt.Printf("  - %s\n", a)
		}
	}

	fmt.Printf("\nGlobal transitions: %d\n", len(m.GlobalTransitions))
	for _, t := range m.GlobalTransitions {
		fmt.Printf("  on %s -> %s\n", t.Event, t.Target)
	}

	names := m.StateNames()
	fmt.Printf("\nStates: %d\n", len(names))
	for _, name := range names {
		s := m.State(name)
		fmt.Printf("  %s: %d transition(s)", name, len(s.Transitions))
		if len(s.Outputs) > 0 {
			keys := make([]string, 0, len(s.Outputs))
			for k := range s.Outputs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Print(", outputs")
			for _, k := range keys {
				fmt.Printf(" %s=%s", k, s.Outputs[k])
			}
		}
		fmt.Println()
	}
}
