// Command minjs runs, checks, formats and interactively evaluates minjs
// scripts.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/minjs-lang/minjs/pkg/diagnostics"
	"github.com/minjs-lang/minjs/pkg/evaluator"
	"github.com/minjs-lang/minjs/pkg/runtime"
)

const usage = `minjs - a minimal prototype-based scripting language

Usage:
  minjs run <file.minjs>     execute a script
  minjs check <file.minjs>   parse and validate without executing
  minjs fmt <file.minjs>     print the script in canonical form
  minjs repl                 start an interactive session
  minjs help                 show this message

Flags:
  -max-depth N   maximum call depth (default 10000, 0 for unlimited)
  -json          emit diagnostics as JSON
`

// Exit codes: 1 usage error, 2 lex/parse/validation diagnostics,
// 3 runtime failure.
const (
	exitUsage   = 1
	exitDiags   = 2
	exitRuntime = 3
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("minjs", flag.ContinueOnError)
	maxDepth := fs.Int("max-depth", runtime.DefaultMaxCallDepth, "maximum call depth (0 for unlimited)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return exitUsage
	}

	command := rest[0]
	switch command {
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return 0
	case "repl":
		return runREPL(*maxDepth, *jsonOut)
	case "run", "check", "fmt":
		if len(rest) != 2 {
			fmt.Fprintf(os.Stderr, "minjs %s: expected exactly one script file\n", command)
			return exitUsage
		}
		return runFile(command, rest[1], *maxDepth, *jsonOut)
	default:
		fmt.Fprintf(os.Stderr, "minjs: unknown command %q\n\n", command)
		fs.Usage()
		return exitUsage
	}
}

func runFile(command, path string, maxDepth int, jsonOut bool) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minjs: %v\n", err)
		return exitUsage
	}

	rt, err := runtime.New(runtime.WithMaxCallDepth(maxDepth))
	if err != nil {
		fmt.Fprintf(os.Stderr, "minjs: %v\n", err)
		return exitRuntime
	}

	switch command {
	case "run":
		if err := rt.Run(string(source), path); err != nil {
			return reportError(err, jsonOut)
		}
	case "check":
		if err := rt.Check(string(source), path); err != nil {
			return reportError(err, jsonOut)
		}
		fmt.Println("ok")
	case "fmt":
		out, err := rt.Format(string(source), path)
		if err != nil {
			return reportError(err, jsonOut)
		}
		fmt.Print(out)
	}
	return 0
}

// reportError prints an error and picks the exit code: parse and validation
// problems are diagnostics, evaluation problems are runtime failures.
func reportError(err error, jsonOut bool) int {
	var diagErr *runtime.DiagnosticError
	if errors.As(err, &diagErr) {
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostics(diagErr.Diags, !jsonOut))
		return exitDiags
	}

	var fail *evaluator.Failure
	if errors.As(err, &fail) {
		diag := diagnostics.MakeDiag(fail.Code, fail.Message, fail.Span, "")
		fmt.Fprintln(os.Stderr, diagnostics.FormatDiagnostic(diag, !jsonOut))
		return exitRuntime
	}

	fmt.Fprintf(os.Stderr, "minjs: %v\n", err)
	return exitRuntime
}
