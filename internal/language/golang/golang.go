// Package golang implements the Go language analyzer: a textual import
// scanner, not a compiler. It never invokes go/parser — the spec calls for
// a heuristic 300-line-capped scan, matching the teacher's own preference
// for plain bufio scanning (internal/impact's countFileLOC) over building a
// full AST for a job a line scanner already does well enough.
package golang

import (
	"strings"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
	"github.com/monodeps/monodeps/internal/language/refs"
)

const lineCap = 300

// Analyzer implements language.Analyzer for Go source.
type Analyzer struct{}

func (Analyzer) FileRelevant(basename string) bool {
	return strings.HasSuffix(basename, ".go")
}

func (Analyzer) Dependencies(files []string, serviceDir string, opts language.Options) ([]deppattern.Pattern, error) {
	if len(opts.GoPackagePrefixes) == 0 {
		return nil, nil
	}

	var out []deppattern.Pattern
	seen := make(map[string]bool)

	for _, file := range files {
		if !underDir(file, serviceDir) {
			continue
		}
		lines, err := refs.ScanLines(file, lineCap)
		if err != nil {
			continue // unreadable file: skipped, and no warning is reported
		}

		for _, imp := range extractImports(lines) {
			prefix := matchingPrefix(imp, opts.GoPackagePrefixes)
			if prefix == "" {
				continue
			}
			suffix := strings.Trim(strings.TrimPrefix(imp, prefix), "/")
			if seen[suffix] {
				continue
			}
			seen[suffix] = true

			pat, err := deppattern.Compile(suffix, opts.RepoRoot)
			if err != nil {
				continue
			}
			out = append(out, pat)
		}
	}

	return out, nil
}

func matchingPrefix(imp string, prefixes []string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(imp, p) {
			return p
		}
	}
	return ""
}

func underDir(file, dir string) bool {
	sep := "/"
	if !strings.HasSuffix(dir, sep) {
		dir += sep
	}
	return strings.HasPrefix(file, dir)
}

// extractImports walks the capped line window looking for a single-line
// `import "path"` form or a parenthesized `import ( ... )` block.
func extractImports(lines []string) []string {
	var out []string
	inBlock := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !inBlock {
			switch {
			case strings.HasPrefix(line, "import (") || line == "import(":
				inBlock = true
			case strings.HasPrefix(line, "import "):
				if lit, ok := quotedLiteral(line); ok {
					out = append(out, lit)
				}
			}
			continue
		}
		if line == ")" {
			inBlock = false
			continue
		}
		if lit, ok := quotedLiteral(line); ok {
			out = append(out, lit)
		}
	}
	return out
}

func quotedLiteral(s string) (string, bool) {
	i := strings.IndexByte(s, '"')
	if i < 0 {
		return "", false
	}
	j := strings.LastIndexByte(s, '"')
	if j <= i {
		return "", false
	}
	return s[i+1 : j], true
}
