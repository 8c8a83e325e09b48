// Command fsmlint parses a state machine DSL file, critiques the resulting
// design, and persists the accepted document.
//
// Exit codes:
//
//	0  design accepted (no critiques)
//	1  design has critiques; the document was not saved
//	2  input or configuration error
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var code int
	switch command {
	case "check":
		code = check(args)
	case "show":
		code = show(args)
	case "export":
		code = export(args)
	case "watch":
		code = watch(args)
	case "schema":
		code = schemaCheck(args)
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("fsmlint version %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		code = 2
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Println(`fsmlint - state machine DSL linter

Usage:
  fsmlint <command> [options]

Commands:
  check <design.fsm>    Parse and critique a DSL file; save the document when clean
  watch <design.fsm>    Re-run check whenever the file changes
  show                  Print a summary of the stored document
  export                Print the stored document as canonical JSON
  schema <doc.json>     Validate a JSON file against the document schema
  version               Print version
  help                  Show this help

Run 'fsmlint <command> -h' for command options.`)
}
