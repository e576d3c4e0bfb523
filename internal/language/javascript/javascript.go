// Package javascript implements the JavaScript/TypeScript language analyzer:
// it builds a repo-wide workspace package-name-to-directory map once per
// process (the "lazy shared index" the design notes call for), then for
// each service's package.json resolves declared dependency names that are
// themselves workspace packages into directory dependencies.
package javascript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
)

// Analyzer implements language.Analyzer for JavaScript/TypeScript package
// graphs built from package.json.
type Analyzer struct{}

func (Analyzer) FileRelevant(basename string) bool {
	return basename == "package.json"
}

type packageJSON struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

var (
	indexMu    sync.Mutex
	indexCache = map[string]map[string]string{}
)

// workspaceIndex returns the repo-wide package-name -> directory map,
// computing it once per root and reusing it thereafter. The core is
// single-threaded, so a guarded map is sufficient (see design notes on lazy
// shared indices).
func workspaceIndex(root string) map[string]string {
	indexMu.Lock()
	defer indexMu.Unlock()

	if idx, ok := indexCache[root]; ok {
		return idx
	}

	idx := make(map[string]string)
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
		if base != "package.json" {
			return nil
		}
		pkg, err := readPackageJSON(path)
		if err != nil || pkg.Name == "" {
			return nil
		}
		idx[pkg.Name] = filepath.Dir(path)
		return nil
	})

	indexCache[root] = idx
	return idx
}

func readPackageJSON(path string) (packageJSON, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return packageJSON{}, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return packageJSON{}, err
	}
	return pkg, nil
}

func (Analyzer) Dependencies(files []string, serviceDir string, opts language.Options) ([]deppattern.Pattern, error) {
	idx := workspaceIndex(opts.RepoRoot)

	var out []deppattern.Pattern
	emitted := make(map[string]bool)

	for _, file := range files {
		if !underDir(file, serviceDir) {
			continue
		}

		pkg, err := readPackageJSON(file)
		if err != nil {
			continue // unreadable or malformed file: skipped, and no warning is reported
		}

		names := make([]string, 0, len(pkg.Dependencies)+len(pkg.DevDependencies))
		for name := range pkg.Dependencies {
			names = append(names, name)
		}
		for name := range pkg.DevDependencies {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			dir, ok := idx[name]
			if !ok || emitted[dir] {
				continue
			}
			emitted[dir] = true
			if pat, err := deppattern.Compile(dir, filepath.Dir(file)); err == nil {
				out = append(out, pat)
			}
		}
	}

	return out, nil
}

func underDir(file, dir string) bool {
	sep := "/"
	if !strings.HasSuffix(dir, sep) {
		dir += sep
	}
	return strings.HasPrefix(file, dir)
}
