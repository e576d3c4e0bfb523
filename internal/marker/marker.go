// Package marker loads a service's declarative marker file (Depsfile,
// Buildfile.yaml, justfile, Makefile) into a Depsfile: the declared
// dependency list and declared language list for that service.
package marker

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/monodeps/monodeps/internal/deppattern"
	"github.com/monodeps/monodeps/internal/language"
)

// Kind is the total order used for precedence when several markers coexist
// in the same directory. Lower values take precedence.
type Kind int

const (
	KindDepsfile Kind = iota
	KindBuildfile
	KindJustfile
	KindMakefile
)

// Basename is the canonical filename associated with k, used both for
// classification during discovery and for error messages.
func (k Kind) Basename() string {
	switch k {
	case KindDepsfile:
		return "Depsfile"
	case KindBuildfile:
		return "Buildfile.yaml"
	case KindJustfile:
		return "justfile"
	case KindMakefile:
		return "Makefile"
	default:
		return "unknown"
	}
}

func (k Kind) String() string { return k.Basename() }

// ErrKind distinguishes the two fatal failure modes a Load call can report.
type ErrKind int

const (
	ErrNotFound ErrKind = iota
	ErrParse
)

// LoadError is a fatal marker-loading failure (missing file or malformed
// document); both conditions abort the whole run per the error-handling
// policy.
type LoadError struct {
	Kind ErrKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("marker file not found: %s", e.Path)
	default:
		return fmt.Sprintf("marker file malformed: %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// Depsfile is the parsed content of a marker, independent of which kind it
// came from.
type Depsfile struct {
	Dependencies []deppattern.Pattern
	Languages    []language.Language
}

var languageAliases = map[string]language.Language{
	"go":         language.Golang,
	"golang":     language.Golang,
	"dotnet":     language.Dotnet,
	"csharp":     language.Dotnet,
	"dart":       language.Flutter,
	"flutter":    language.Flutter,
	"kustomize":  language.Kustomize,
	"javascript": language.JavaScript,
	"js":         language.JavaScript,
	"typescript": language.JavaScript,
	"ts":         language.JavaScript,
	"proto":      language.Protobuf,
	"protobuf":   language.Protobuf,
	"justfile":   language.Justfile,
	"just":       language.Justfile,
	"makefile":   language.Makefile,
	"make":       language.Makefile,
}

// Load parses the marker file at path (of the given kind), resolving
// dependency patterns against root. Warnings describe dropped/unknown
// entries; err is non-nil only for the two fatal conditions (missing file,
// malformed document).
func Load(kind Kind, path, root string) (Depsfile, []string, error) {
	switch kind {
	case KindJustfile, KindMakefile:
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return Depsfile{}, nil, &LoadError{Kind: ErrNotFound, Path: path}
			}
			return Depsfile{}, nil, &LoadError{Kind: ErrNotFound, Path: path, Err: err}
		}
		return Depsfile{}, nil, nil
	case KindDepsfile:
		return loadDepsfile(path, root)
	case KindBuildfile:
		return loadBuildfile(path, root)
	default:
		return Depsfile{}, nil, fmt.Errorf("unknown marker kind %v", kind)
	}
}

type depsfileDoc struct {
	Dependencies []string `yaml:"dependencies"`
	Languages    []string `yaml:"languages"`
}

func loadDepsfile(path, root string) (Depsfile, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Depsfile{}, nil, &LoadError{Kind: ErrNotFound, Path: path}
		}
		return Depsfile{}, nil, &LoadError{Kind: ErrNotFound, Path: path, Err: err}
	}

	var doc map[string]yaml.Node
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return Depsfile{}, nil, &LoadError{Kind: ErrParse, Path: path, Err: err}
		}
	}

	var warnings []string
	known := map[string]bool{"dependencies": true, "languages": true}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !known[k] {
			warnings = append(warnings, fmt.Sprintf("%s: unknown top-level key %q", path, k))
		}
	}

	var typed depsfileDoc
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &typed); err != nil {
			return Depsfile{}, nil, &LoadError{Kind: ErrParse, Path: path, Err: err}
		}
	}

	depsfile := Depsfile{}
	for _, d := range typed.Dependencies {
		pat, err := deppattern.Compile(d, root)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: dependency pattern %q failed to compile: %v", path, d, err))
			continue
		}
		depsfile.Dependencies = append(depsfile.Dependencies, pat)
	}
	for _, l := range typed.Languages {
		lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(l))]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: unknown language %q", path, l))
			continue
		}
		depsfile.Languages = append(depsfile.Languages, lang)
	}

	return depsfile, warnings, nil
}

type buildfileDoc struct {
	Spec struct {
		DependsOn []string `yaml:"dependsOn"`
	} `yaml:"spec"`
	Metadata struct {
		Builder string `yaml:"builder"`
	} `yaml:"metadata"`
}

func loadBuildfile(path, root string) (Depsfile, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Depsfile{}, nil, &LoadError{Kind: ErrNotFound, Path: path}
		}
		return Depsfile{}, nil, &LoadError{Kind: ErrNotFound, Path: path, Err: err}
	}

	var doc buildfileDoc
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return Depsfile{}, nil, &LoadError{Kind: ErrParse, Path: path, Err: err}
		}
	}

	var warnings []string
	depsfile := Depsfile{}
	for _, d := range doc.Spec.DependsOn {
		pat, err := deppattern.Compile(d, root)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: dependency pattern %q failed to compile: %v", path, d, err))
			continue
		}
		depsfile.Dependencies = append(depsfile.Dependencies, pat)
	}
	if doc.Metadata.Builder != "" {
		lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(doc.Metadata.Builder))]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: unknown language %q", path, doc.Metadata.Builder))
		} else {
			depsfile.Languages = append(depsfile.Languages, lang)
		}
	}

	return depsfile, warnings, nil
}
