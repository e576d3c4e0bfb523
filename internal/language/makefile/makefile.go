// Package makefile implements the Makefile language analyzer: a 300-line
// textual scan for `include` directives, emitting each space-separated token
// that contains no unexpanded `$(...)` variable reference as a dependency
// and following it into a recursive scan with a cycle-breaking visited set.
package makefile

import (
	"path/filepath"
	"strings"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
	"github.com/monodeps/monodeps/internal/language/refs"
)

const lineCap = 300

// Analyzer implements language.Analyzer for Makefile `include` graphs.
type Analyzer struct{}

func (Analyzer) FileRelevant(basename string) bool {
	return basename == "Makefile" || basename == "makefile" || strings.HasSuffix(basename, ".mk")
}

func (Analyzer) Dependencies(files []string, serviceDir string, opts language.Options) ([]deppattern.Pattern, error) {
	var out []deppattern.Pattern
	for _, file := range files {
		if !underDir(file, serviceDir) {
			continue
		}
		visited := make(map[string]bool)
		out = append(out, processMakefile(file, visited)...)
	}
	return out, nil
}

func processMakefile(path string, visited map[string]bool) []deppattern.Pattern {
	canon, err := filepath.Abs(path)
	if err != nil {
		canon = path
	}
	if visited[canon] {
		return nil
	}
	visited[canon] = true

	lines, err := refs.ScanLines(path, lineCap)
	if err != nil {
		return nil // unreadable file: contributes nothing, and no warning is reported
	}

	dir := filepath.Dir(path)
	var out []deppattern.Pattern

	for _, tok := range includeTokens(lines) {
		if strings.Contains(tok, "$(") {
			continue // unexpanded variable reference, cannot resolve statically
		}
		resolved := filepath.Join(dir, tok)
		out = append(out, processMakefile(resolved, visited)...)
		if pat, err := deppattern.Compile(resolved, dir); err == nil {
			out = append(out, pat)
		}
	}

	return out
}

func includeTokens(lines []string) []string {
	var out []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		line = strings.TrimPrefix(line, "-") // `-include` tolerates a missing file
		switch {
		case strings.HasPrefix(line, "include "):
			line = strings.TrimPrefix(line, "include")
		case strings.HasPrefix(line, "sinclude "):
			line = strings.TrimPrefix(line, "sinclude")
		default:
			continue
		}
		for _, tok := range strings.Fields(line) {
			out = append(out, tok)
		}
	}
	return out
}

func underDir(file, dir string) bool {
	sep := "/"
	if !strings.HasSuffix(dir, sep) {
		dir += sep
	}
	return strings.HasPrefix(file, dir)
}
