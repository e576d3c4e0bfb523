// Package language defines the Language tagged variant and the uniform
// analyzer capability every per-ecosystem package implements. The dispatch
// table from Language to Analyzer lives in internal/language/registry.
package language

import (
	"github.com/monodeps/monodeps/internal/deppattern"
)

// Language is a tagged variant identifying one supported ecosystem.
type Language int

const (
	Golang Language = iota
	Dotnet
	Flutter
	Kustomize
	JavaScript
	Protobuf
	Justfile
	Makefile
)

func (l Language) String() string {
	switch l {
	case Golang:
		return "go"
	case Dotnet:
		return "dotnet"
	case Flutter:
		return "flutter"
	case Kustomize:
		return "kustomize"
	case JavaScript:
		return "javascript"
	case Protobuf:
		return "protobuf"
	case Justfile:
		return "justfile"
	case Makefile:
		return "makefile"
	default:
		return "unknown"
	}
}

// Options carries the analyzer-specific hints sourced from Config's
// auto_discovery section.
type Options struct {
	GoPackagePrefixes    []string
	DotnetNamespaces     []string
	RepoRoot             string
	WorkspacePubspecPath string
}

// Analyzer is the uniform capability every language package implements.
// FileRelevant lets discovery pre-partition candidate files across
// analyzers with a single classification pass; Dependencies extracts the
// local build-graph edges for one service directory from its relevant
// files.
type Analyzer interface {
	FileRelevant(basename string) bool
	Dependencies(files []string, serviceDir string, opts Options) ([]deppattern.Pattern, error)
}
