package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
	"github.com/monodeps/monodeps/internal/language/registry"
	"github.com/monodeps/monodeps/internal/marker"
	"github.com/monodeps/monodeps/internal/pathinfo"
)

// DiscoverOptions carries the caller's opt-in marker kinds and the
// auto_discovery hints sourced from config, threaded down into each
// language Analyzer as language.Options.
type DiscoverOptions struct {
	EnableBuildfile bool
	EnableJustfile  bool
	EnableMakefile  bool

	GoPackagePrefixes []string
	DotnetNamespaces  []string
}

// Discover walks fs rooted at targetDir, classifying marker files into
// ServiceContexts, then resolves each into a Service: declared dependencies
// and languages loaded from its marker, auto-discovered dependencies from
// every inferred language's Analyzer. Warnings come from marker loading
// (unknown top-level keys, unknown languages, dependency patterns that fail
// to compile); analyzer failures produce none. err is non-nil for a walk
// failure or a fatal marker-load failure.
func Discover(fs afero.Fs, targetDir string, opts DiscoverOptions) ([]*Service, []string, error) {
	root := pathinfo.New(targetDir, ".")

	files, err := walkFiles(fs, targetDir)
	if err != nil {
		return nil, nil, err
	}

	dirKinds := classifyMarkers(files, opts)
	for d := range dirKinds {
		if pathinfo.New(d, ".").Equal(root) {
			delete(dirKinds, d)
		}
	}

	dirs := make([]string, 0, len(dirKinds))
	for d := range dirKinds {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	var services []*Service
	var warnings []string

	for _, dir := range dirs {
		kind := dirKinds[dir]
		markerPath := filepath.Join(dir, kind.Basename())

		depsfile, loadWarnings, err := marker.Load(kind, markerPath, dir)
		if err != nil {
			return nil, nil, fmt.Errorf("discover: %w", err)
		}
		warnings = append(warnings, loadWarnings...)

		svc := &Service{
			Dir:       pathinfo.New(dir, "."),
			Languages: depsfile.Languages,
			Declared:  depsfile.Dependencies,
		}

		if len(svc.Languages) == 0 {
			svc.Languages = inferLanguages(files, svc.Dir)
		}

		svc.Auto = autoDependencies(svc, files, root, opts)
		services = append(services, svc)
	}

	return services, warnings, nil
}

// walkFiles collects every non-directory file path under targetDir, skipping
// any directory or file whose basename begins with "." or equals
// "node_modules".
func walkFiles(fs afero.Fs, targetDir string) ([]string, error) {
	var files []string
	err := afero.Walk(fs, targetDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		base := info.Name()
		if base != "." && (strings.HasPrefix(base, ".") || base == "node_modules") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func markerKindFor(basename string, opts DiscoverOptions) (marker.Kind, bool) {
	switch basename {
	case "Depsfile":
		return marker.KindDepsfile, true
	case "Buildfile.yaml":
		return marker.KindBuildfile, opts.EnableBuildfile
	case "justfile":
		return marker.KindJustfile, opts.EnableJustfile
	case "Makefile":
		return marker.KindMakefile, opts.EnableMakefile
	default:
		return 0, false
	}
}

// classifyMarkers groups files by containing directory and resolves, per
// directory, the highest-precedence marker kind present (Depsfile outranks
// Buildfile outranks Justfile outranks Makefile).
func classifyMarkers(files []string, opts DiscoverOptions) map[string]marker.Kind {
	out := make(map[string]marker.Kind)
	for _, f := range files {
		kind, enabled := markerKindFor(filepath.Base(f), opts)
		if !enabled {
			continue
		}
		dir := filepath.Dir(f)
		existing, ok := out[dir]
		if !ok || kind < existing {
			out[dir] = kind
		}
	}
	return out
}

type langWeight struct {
	lang   language.Language
	weight int
}

var extensionWeights = map[string]langWeight{
	".cs":     {language.Dotnet, 1},
	".csproj": {language.Dotnet, 5},
	".go":     {language.Golang, 1},
	".dart":   {language.Flutter, 1},
	".proto":  {language.Protobuf, 3},
	".just":   {language.Justfile, 3},
	".js":     {language.JavaScript, 1},
	".jsx":    {language.JavaScript, 1},
	".ts":     {language.JavaScript, 1},
	".tsx":    {language.JavaScript, 1},
}

var filenameWeights = map[string]langWeight{
	"pubspec.yaml":       {language.Flutter, 5},
	"pubspec.lock":       {language.Flutter, 5},
	"go.mod":             {language.Golang, 5},
	"go.sum":             {language.Golang, 5},
	"kustomization.yaml": {language.Kustomize, 5},
	"kustomization.yml":  {language.Kustomize, 5},
	"package.json":       {language.JavaScript, 5},
	"justfile":           {language.Justfile, 5},
}

const voteThreshold = 3

// inferLanguages runs the weighted vote over every file nested under (or
// directly inside) dir, keeping every language whose summed score meets the
// threshold.
func inferLanguages(files []string, dir pathinfo.Info) []language.Language {
	scores := make(map[language.Language]int)
	for _, f := range files {
		if !pathinfo.New(f, ".").IsChildOf(dir) {
			continue
		}
		base := filepath.Base(f)
		if lw, ok := filenameWeights[base]; ok {
			scores[lw.lang] += lw.weight
		}
		if lw, ok := extensionWeights[filepath.Ext(base)]; ok {
			scores[lw.lang] += lw.weight
		}
	}

	var out []language.Language
	for _, lang := range registry.All() {
		if scores[lang] >= voteThreshold {
			out = append(out, lang)
		}
	}
	return out
}

// autoDependencies instantiates an Analyzer per one of svc's languages,
// collects its dependency patterns from the relevant files nested under
// svc's directory, then filters the aggregate to exclude patterns that are
// children of svc's own directory and deduplicates literal patterns by
// Hash(). root is the repository root, threaded into each Analyzer so
// repo-root-relative lookups (workspace pubspecs, cross-service proto
// indexes, ancestor MSBuild files) search outside svc's own directory.
func autoDependencies(svc *Service, files []string, root pathinfo.Info, opts DiscoverOptions) []deppattern.Pattern {
	langOpts := language.Options{
		GoPackagePrefixes: opts.GoPackagePrefixes,
		DotnetNamespaces:  opts.DotnetNamespaces,
		RepoRoot:          root.Canonical,
	}

	var relevant []string
	for _, f := range files {
		if pathinfo.New(f, ".").IsChildOf(svc.Dir) {
			relevant = append(relevant, f)
		}
	}

	var raw []deppattern.Pattern
	for _, lang := range svc.Languages {
		analyzer, ok := registry.ForLanguage(lang)
		if !ok {
			continue
		}
		var langFiles []string
		for _, f := range relevant {
			if analyzer.FileRelevant(filepath.Base(f)) {
				langFiles = append(langFiles, f)
			}
		}
		if len(langFiles) == 0 {
			continue
		}
		deps, err := analyzer.Dependencies(langFiles, svc.Dir.Canonical, langOpts)
		if err != nil {
			continue // analyzer error: that language is skipped without a warning
		}
		raw = append(raw, deps...)
	}

	seen := make(map[string]bool)
	var out []deppattern.Pattern
	for _, pat := range raw {
		if pat.IsChildOf(svc.Dir) {
			continue
		}
		if h, ok := pat.Hash(); ok {
			if seen[h] {
				continue
			}
			seen[h] = true
		}
		out = append(out, pat)
	}
	return out
}
