// Package dotnet implements the .NET language analyzer: it evaluates a
// literal XPath query over each .csproj's MSBuild XML using
// github.com/antchfx/xmlquery + github.com/antchfx/xpath, the pack's answer
// to "run an XPath query against XML" (konveyor-analyzer-lsp wires the same
// pair for its rule engine).
package dotnet

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
)

const projectReferenceXPath = "//ProjectReference[@Include]/@Include"

var ancestorFiles = []string{"Directory.Build.props", "Directory.Build.targets", "Directory.Packages.props"}

// Analyzer implements language.Analyzer for .NET/MSBuild projects.
type Analyzer struct{}

func (Analyzer) FileRelevant(basename string) bool {
	return strings.HasSuffix(basename, ".csproj")
}

func (Analyzer) Dependencies(files []string, serviceDir string, opts language.Options) ([]deppattern.Pattern, error) {
	var out []deppattern.Pattern
	emitted := make(map[string]bool)

	for _, file := range files {
		if !underDir(file, serviceDir) {
			continue
		}

		refs, err := projectReferences(file)
		if err != nil {
			continue // unreadable or malformed file: skipped, and no warning is reported
		}

		projDir := filepath.Dir(file)
		for _, include := range refs {
			normalized := filepath.FromSlash(strings.ReplaceAll(include, `\`, "/"))
			refPath := filepath.Join(projDir, normalized)
			refServiceDir := filepath.Dir(refPath)
			name := strings.TrimSuffix(filepath.Base(refPath), ".csproj")

			if len(opts.DotnetNamespaces) > 0 && !startsWithAny(name, opts.DotnetNamespaces) {
				continue
			}
			if emitted[refServiceDir] {
				continue
			}
			emitted[refServiceDir] = true

			pat, err := deppattern.Compile(refServiceDir, projDir)
			if err != nil {
				continue
			}
			out = append(out, pat)
		}

		for _, ancestorPattern := range closestAncestorFiles(projDir, opts.RepoRoot) {
			key := ancestorPattern.Raw()
			if emitted[key] {
				continue
			}
			emitted[key] = true
			out = append(out, ancestorPattern)
		}
	}

	return out, nil
}

func projectReferences(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	nodes, err := xmlquery.QueryAll(doc, projectReferenceXPath)
	if err != nil {
		return nil, err
	}

	var includes []string
	for _, n := range nodes {
		if v := strings.TrimSpace(n.InnerText()); v != "" {
			includes = append(includes, v)
		}
	}
	return includes, nil
}

func closestAncestorFiles(serviceDir, repoRoot string) []deppattern.Pattern {
	var out []deppattern.Pattern
	for _, name := range ancestorFiles {
		dir := serviceDir
		for {
			candidate := filepath.Join(dir, name)
			if fileExists(candidate) {
				pat, err := deppattern.Compile(candidate, dir)
				if err == nil {
					out = append(out, pat)
				}
				break
			}
			if dir == repoRoot {
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func startsWithAny(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func underDir(file, dir string) bool {
	sep := "/"
	if !strings.HasSuffix(dir, sep) {
		dir += sep
	}
	return strings.HasPrefix(file, dir)
}
