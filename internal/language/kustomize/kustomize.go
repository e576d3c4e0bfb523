// Package kustomize implements the Kustomize language analyzer: it
// recursively resolves resources/bases/components/patches/configMapGenerator
// references in kustomization.yaml, recursing into directories and emitting
// file references as literal dependencies. A cycle is a hard error for that
// traversal: processKustomization returns it, and Dependencies drops the
// kustomization file it started from without reporting the error.
package kustomize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
)

// Analyzer implements language.Analyzer for Kustomize overlays.
type Analyzer struct{}

func (Analyzer) FileRelevant(basename string) bool {
	return basename == "kustomization.yaml" || basename == "kustomization.yml"
}

type patchEntry struct {
	Path string `yaml:"path"`
}

type configMapGeneratorEntry struct {
	Files []string `yaml:"files"`
}

type kustomizationDoc struct {
	Resources          []string                  `yaml:"resources"`
	Bases              []string                  `yaml:"bases"`
	Components         []string                  `yaml:"components"`
	Patches            []patchEntry              `yaml:"patches"`
	ConfigMapGenerator []configMapGeneratorEntry `yaml:"configMapGenerator"`
}

func (Analyzer) Dependencies(files []string, serviceDir string, opts language.Options) ([]deppattern.Pattern, error) {
	var out []deppattern.Pattern

	for _, file := range files {
		if !underDir(file, serviceDir) {
			continue
		}

		visited := make(map[string]bool)
		deps, err := processKustomization(file, visited)
		if err != nil {
			continue // cycle or parse failure: the file is skipped and the error is not reported
		}
		out = append(out, deps...)
	}

	return out, nil
}

func processKustomization(path string, visited map[string]bool) ([]deppattern.Pattern, error) {
	canon, err := filepath.Abs(path)
	if err != nil {
		canon = path
	}
	if visited[canon] {
		return nil, fmt.Errorf("kustomize cycle detected at %s", path)
	}
	visited[canon] = true
	defer delete(visited, canon)

	doc, err := parseKustomization(path)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	var refList []string
	refList = append(refList, doc.Resources...)
	refList = append(refList, doc.Bases...)
	refList = append(refList, doc.Components...)
	for _, p := range doc.Patches {
		if p.Path != "" {
			refList = append(refList, p.Path)
		}
	}
	for _, cm := range doc.ConfigMapGenerator {
		refList = append(refList, cm.Files...)
	}

	var out []deppattern.Pattern
	for _, ref := range refList {
		resolved := filepath.Join(dir, ref)
		info, statErr := os.Stat(resolved)
		if statErr != nil {
			continue
		}

		if info.IsDir() {
			kustFile := findKustomizationFile(resolved)
			if kustFile == "" {
				continue
			}
			childDeps, err := processKustomization(kustFile, visited)
			if err != nil {
				return nil, err
			}
			out = append(out, childDeps...)
			if pat, err := deppattern.Compile(kustFile, dir); err == nil {
				out = append(out, pat)
			}
			continue
		}

		if pat, err := deppattern.Compile(resolved, dir); err == nil {
			out = append(out, pat)
		}
	}

	return out, nil
}

func parseKustomization(path string) (kustomizationDoc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return kustomizationDoc{}, err
	}
	var doc kustomizationDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return kustomizationDoc{}, err
	}
	return doc, nil
}

func findKustomizationFile(dir string) string {
	for _, name := range []string{"kustomization.yaml", "kustomization.yml"} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
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
