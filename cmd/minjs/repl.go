package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/minjs-lang/minjs/pkg/evaluator"
	"github.com/minjs-lang/minjs/pkg/runtime"
)

const historyFile = ".minjs_history"

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

// runREPL starts an interactive session. Definitions persist for the whole
// session; errors are reported and the loop continues.
func runREPL(maxDepth int, jsonOut bool) int {
	rt, err := runtime.New(runtime.WithMaxCallDepth(maxDepth))
	if err != nil {
		fmt.Fprintf(os.Stderr, "minjs: %v\n", err)
		return exitRuntime
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("minjs repl (:quit to exit)")
	for n := 1; ; n++ {
		input, err := line.Prompt("minjs> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return 0
			}
			fmt.Fprintf(os.Stderr, "minjs: %v\n", err)
			return exitRuntime
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" || trimmed == ":q" {
			return 0
		}
		line.AppendHistory(input)

		// A bare expression still needs its terminator.
		src := trimmed
		if !strings.HasSuffix(src, ";") && !strings.HasSuffix(src, "}") {
			src += ";"
		}

		val, err := rt.RunInteractive(src, fmt.Sprintf("<repl-%d>", n))
		if err != nil {
			reportError(err, jsonOut)
			continue
		}
		if !evaluator.IsUndefined(val) {
			fmt.Println(evaluator.Stringify(val))
		}
	}
}
