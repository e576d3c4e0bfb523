// Package registry wires every per-ecosystem analyzer package into the
// Language-to-Analyzer dispatch table, mirroring the teacher's
// internal/analyzer.ForLang pattern: the table is the one place that knows
// about all ecosystems, so the individual language packages stay
// independent of each other.
package registry

import (
	"github.com/monodeps/monodeps/internal/language"
	"github.com/monodeps/monodeps/internal/language/dotnet"
	"github.com/monodeps/monodeps/internal/language/flutter"
	"github.com/monodeps/monodeps/internal/language/golang"
	"github.com/monodeps/monodeps/internal/language/javascript"
	"github.com/monodeps/monodeps/internal/language/justfile"
	"github.com/monodeps/monodeps/internal/language/kustomize"
	"github.com/monodeps/monodeps/internal/language/makefile"
	"github.com/monodeps/monodeps/internal/language/protobuf"
)

var table = map[language.Language]language.Analyzer{
	language.Golang:     golang.Analyzer{},
	language.Dotnet:     dotnet.Analyzer{},
	language.Flutter:    flutter.Analyzer{},
	language.Kustomize:  kustomize.Analyzer{},
	language.JavaScript: javascript.Analyzer{},
	language.Protobuf:   protobuf.Analyzer{},
	language.Justfile:   justfile.Analyzer{},
	language.Makefile:   makefile.Analyzer{},
}

// ForLanguage returns the Analyzer registered for lang, and false if lang is
// not one of the supported ecosystems.
func ForLanguage(lang language.Language) (language.Analyzer, bool) {
	a, ok := table[lang]
	return a, ok
}

// All returns every registered language, in a stable declaration order
// convenient for weighted-vote inference.
func All() []language.Language {
	return []language.Language{
		language.Golang,
		language.Dotnet,
		language.Flutter,
		language.Kustomize,
		language.JavaScript,
		language.Protobuf,
		language.Justfile,
		language.Makefile,
	}
}
