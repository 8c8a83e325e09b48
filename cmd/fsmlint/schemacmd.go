package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fsmlint/go-fsmlint/schema"
)

func schemaCheck(args []string) int {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: fsmlint schema <document.json>

Validate a JSON file against the canonical machine document schema.
Exits 0 when the document conforms, 1 when it does not.
`)
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fs.Usage()
		fmt.Fprintln(os.Stderr, "Error: document file required")
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: the file %q was not found\n", fs.Arg(0))
		return 2
	}

	v, err := schema.NewValidator()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	errs := v.ValidateBytes(data)
	if len(errs) == 0 {
		fmt.Println("Document conforms to the machine schema.")
		return 0
	}

	fmt.Printf("Found %d schema violation(s):\n", len(errs))
	for i, e := range errs {
		fmt.Printf("  %d. %s\n", i+1, e.String())
	}
	return 1
}
