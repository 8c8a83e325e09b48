package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fsmlint/go-fsmlint/parser"
)

func export(args []string) int {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	outputFile := fs.String("output", "", "Write the document to a file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: fsmlint export [options]

Print the stored machine document in the canonical JSON format.

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

	data, err := parser.ToJSON(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		return 0
	}
	fmt.Println(string(data))
	return 0
}
