// Package justfile implements the justfile language analyzer: a 300-line
// textual scan recognizing `import '<path>'`, `mod <name>`, and
// `mod <name> '<path>'`, following each into a recursive scan with a
// cycle-breaking visited set (a revisit is a silent no-op, not an error —
// unlike Kustomize's hard cycle failure).
package justfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
	"github.com/monodeps/monodeps/internal/language/refs"
)

const lineCap = 300

// Analyzer implements language.Analyzer for justfile/`.just` import graphs.
type Analyzer struct{}

func (Analyzer) FileRelevant(basename string) bool {
	return basename == "justfile" || strings.HasSuffix(basename, ".just")
}

func (Analyzer) Dependencies(files []string, serviceDir string, opts language.Options) ([]deppattern.Pattern, error) {
	var out []deppattern.Pattern
	for _, file := range files {
		if !underDir(file, serviceDir) {
			continue
		}
		visited := make(map[string]bool)
		out = append(out, processJustfile(file, visited)...)
	}
	return out, nil
}

func processJustfile(path string, visited map[string]bool) []deppattern.Pattern {
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

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(line, "import "):
			rest := unquote(strings.TrimSpace(strings.TrimPrefix(line, "import")))
			if rest == "" {
				continue
			}
			out = append(out, resolveAndRecurse(dir, rest, visited)...)

		case strings.HasPrefix(line, "mod "):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "mod"))
			name, explicit := splitModLine(rest)
			if name == "" {
				continue
			}
			if explicit != "" {
				out = append(out, resolveAndRecurse(dir, explicit, visited)...)
				continue
			}
			if probe := probeModule(dir, name); probe != "" {
				rel, err := filepath.Rel(dir, probe)
				if err != nil {
					rel = probe
				}
				out = append(out, resolveAndRecurse(dir, rel, visited)...)
			}
		}
	}

	return out
}

func resolveAndRecurse(dir, rel string, visited map[string]bool) []deppattern.Pattern {
	resolved := filepath.Join(dir, rel)
	var out []deppattern.Pattern
	out = append(out, processJustfile(resolved, visited)...)
	if pat, err := deppattern.Compile(resolved, dir); err == nil {
		out = append(out, pat)
	}
	return out
}

func probeModule(dir, name string) string {
	candidates := []string{
		filepath.Join(dir, name+".just"),
		filepath.Join(dir, name, "mod.just"),
		filepath.Join(dir, name, "justfile"),
		filepath.Join(dir, name, ".justfile"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// splitModLine splits "mod" statement's remainder into its module name and,
// if present, an explicit quoted path.
func splitModLine(rest string) (name, explicitPath string) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", ""
	}
	if i := strings.IndexAny(rest, "'\""); i >= 0 {
		name = strings.TrimSpace(rest[:i])
		explicitPath = unquote(strings.TrimSpace(rest[i:]))
		return name, explicitPath
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], ""
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func underDir(file, dir string) bool {
	sep := "/"
	if !strings.HasSuffix(dir, sep) {
		dir += sep
	}
	return strings.HasPrefix(file, dir)
}
