// Package flutter implements the Flutter/Dart language analyzer: it reads
// pubspec.yaml's path dependencies, flutter asset/font declarations, and
// (for workspace-resolved packages) the root workspace pubspec.
package flutter

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
)

// Analyzer implements language.Analyzer for Dart/Flutter packages.
type Analyzer struct{}

func (Analyzer) FileRelevant(basename string) bool {
	return basename == "pubspec.yaml"
}

type fontEntry struct {
	Family string `yaml:"family"`
	Fonts  []struct {
		Asset string `yaml:"asset"`
	} `yaml:"fonts"`
}

type pubspecDoc struct {
	Dependencies    map[string]yaml.Node `yaml:"dependencies"`
	DevDependencies map[string]yaml.Node `yaml:"dev_dependencies"`
	Flutter         struct {
		Assets []string    `yaml:"assets"`
		Fonts  []fontEntry `yaml:"fonts"`
	} `yaml:"flutter"`
	Resolution string   `yaml:"resolution"`
	Workspace  []string `yaml:"workspace"`
}

func (Analyzer) Dependencies(files []string, serviceDir string, opts language.Options) ([]deppattern.Pattern, error) {
	var out []deppattern.Pattern

	for _, file := range files {
		if !underDir(file, serviceDir) {
			continue
		}

		doc, err := parsePubspec(file)
		if err != nil {
			continue // unreadable or malformed file: skipped, and no warning is reported
		}
		pubspecDir := filepath.Dir(file)

		for _, raw := range pathDependencies(doc.Dependencies) {
			if pat, err := deppattern.Compile(raw, pubspecDir); err == nil {
				out = append(out, pat)
			}
		}
		for _, raw := range pathDependencies(doc.DevDependencies) {
			if pat, err := deppattern.Compile(raw, pubspecDir); err == nil {
				out = append(out, pat)
			}
		}
		for _, asset := range doc.Flutter.Assets {
			if pat, err := deppattern.Compile(asset, pubspecDir); err == nil {
				out = append(out, pat)
			}
		}
		for _, font := range doc.Flutter.Fonts {
			for _, f := range font.Fonts {
				if f.Asset == "" {
					continue
				}
				if pat, err := deppattern.Compile(f.Asset, pubspecDir); err == nil {
					out = append(out, pat)
				}
			}
		}

		if strings.EqualFold(doc.Resolution, "workspace") {
			rootPubspec := filepath.Join(opts.RepoRoot, "pubspec.yaml")
			rootDoc, err := parsePubspec(rootPubspec)
			if err == nil && len(rootDoc.Workspace) > 0 {
				if pat, err := deppattern.Compile(rootPubspec, opts.RepoRoot); err == nil {
					out = append(out, pat)
				}
				rootLock := filepath.Join(opts.RepoRoot, "pubspec.lock")
				if pat, err := deppattern.Compile(rootLock, opts.RepoRoot); err == nil {
					out = append(out, pat)
				}
			}
		}
	}

	return out, nil
}

func parsePubspec(path string) (pubspecDoc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pubspecDoc{}, err
	}
	var doc pubspecDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return pubspecDoc{}, err
	}
	return doc, nil
}

// pathDependencies returns the "path:" value of every entry that uses the
// sub-tree form; plain version-string entries are ignored.
func pathDependencies(deps map[string]yaml.Node) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		node := deps[name]
		if node.Kind != yaml.MappingNode {
			continue
		}
		var sub struct {
			Path string `yaml:"path"`
		}
		if err := node.Decode(&sub); err != nil || sub.Path == "" {
			continue
		}
		out = append(out, sub.Path)
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
