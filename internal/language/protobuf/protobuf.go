// Package protobuf implements the Protobuf language analyzer: a lazily
// built, process-wide index of every .proto file under the repository root,
// plus a 300-line-capped textual import scanner that resolves each import
// statement by suffix match against that index and follows transitive
// imports with a cycle-breaking visited set.
package protobuf

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
	"github.com/monodeps/monodeps/internal/language/refs"
)

const lineCap = 300

// Analyzer implements language.Analyzer for Protobuf import graphs.
type Analyzer struct{}

func (Analyzer) FileRelevant(basename string) bool {
	return strings.HasSuffix(basename, ".proto")
}

var (
	indexMu    sync.Mutex
	indexCache = map[string][]string{}
)

// protoIndex returns every .proto file under root, computed once per root
// and reused read-only thereafter (see design notes on lazy shared indices).
func protoIndex(root string) []string {
	indexMu.Lock()
	defer indexMu.Unlock()

	if idx, ok := indexCache[root]; ok {
		return idx
	}

	var idx []string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		base := filepath.Base(path)
		if info.IsDir() {
			if base != "." && (strings.HasPrefix(base, ".") || base == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(base, ".proto") {
			idx = append(idx, path)
		}
		return nil
	})

	indexCache[root] = idx
	return idx
}

func (Analyzer) Dependencies(files []string, serviceDir string, opts language.Options) ([]deppattern.Pattern, error) {
	idx := protoIndex(opts.RepoRoot)

	var out []deppattern.Pattern
	for _, file := range files {
		if !underDir(file, serviceDir) {
			continue
		}
		visited := make(map[string]bool)
		out = append(out, processProto(file, idx, visited)...)
	}
	return out, nil
}

func processProto(path string, idx []string, visited map[string]bool) []deppattern.Pattern {
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

	var out []deppattern.Pattern
	for _, imp := range extractImports(lines) {
		target, ok := resolveImport(imp, idx)
		if !ok {
			continue
		}
		out = append(out, processProto(target, idx, visited)...)
		if pat, err := deppattern.Compile(target, filepath.Dir(path)); err == nil {
			out = append(out, pat)
		}
	}
	return out
}

// resolveImport matches imp as a plain suffix of a known proto's canonical
// path (not anchored to a directory boundary).
func resolveImport(imp string, idx []string) (string, bool) {
	for _, p := range idx {
		if strings.HasSuffix(p, imp) {
			return p, true
		}
	}
	return "", false
}

func extractImports(lines []string) []string {
	var out []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "import") {
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

func underDir(file, dir string) bool {
	sep := "/"
	if !strings.HasSuffix(dir, sep) {
		dir += sep
	}
	return strings.HasPrefix(file, dir)
}
