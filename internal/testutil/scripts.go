// Package testutil provides helpers for golden-file script tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ScriptCase pairs a script file with its expected output.
type ScriptCase struct {
	Name   string
	Source string
	Want   string
}

// LoadScripts reads every *.minjs file under dir together with its matching
// .out golden file.
func LoadScripts(t *testing.T, dir string) []ScriptCase {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "*.minjs"))
	if err != nil {
		t.Fatalf("glob %s: %v", dir, err)
	}
	if len(matches) == 0 {
		t.Fatalf("no scripts found in %s", dir)
	}

	cases := make([]ScriptCase, 0, len(matches))
	for _, path := range matches {
		source, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		goldenPath := strings.TrimSuffix(path, ".minjs") + ".out"
		want, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("read golden %s: %v", goldenPath, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".minjs")
		cases = append(cases, ScriptCase{
			Name:   name,
			Source: string(source),
			Want:   string(want),
		})
	}
	return cases
}
