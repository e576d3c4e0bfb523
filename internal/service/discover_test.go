package service

import (
	"testing"

	"github.com/spf13/afero"
)

func TestDiscoverSingleDepsfile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/repo/svc/Depsfile", []byte("dependencies:\n  - ../shared\n"), 0o644)
	_ = afero.WriteFile(fs, "/repo/svc/main.go", []byte("package main\n"), 0o644)
	_ = afero.WriteFile(fs, "/repo/shared/util.go", []byte("package shared\n"), 0o644)

	services, _, err := Discover(fs, "/repo", DiscoverOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 1 {
		t.Fatalf("expected exactly one discovered service, got %d: %v", len(services), services)
	}
	if services[0].Dir.Canonical != "/repo/svc" {
		t.Fatalf("expected service rooted at /repo/svc, got %s", services[0].Dir.Canonical)
	}
	if len(services[0].Declared) != 1 {
		t.Fatalf("expected one declared dependency, got %d", len(services[0].Declared))
	}
}

func TestDiscoverDiscardsRepositoryRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/repo/Depsfile", []byte("dependencies: []\n"), 0o644)

	services, _, err := Discover(fs, "/repo", DiscoverOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 0 {
		t.Fatalf("expected the repository root's own marker to be discarded, got %v", services)
	}
}

func TestDiscoverPrecedenceDepsfileOverJustfile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/repo/svc/Depsfile", []byte("dependencies:\n  - ../shared\n"), 0o644)
	_ = afero.WriteFile(fs, "/repo/svc/justfile", []byte("import 'other.just'\n"), 0o644)

	services, _, err := Discover(fs, "/repo", DiscoverOptions{EnableJustfile: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 1 {
		t.Fatalf("expected a single merged service, got %d", len(services))
	}
	if len(services[0].Declared) != 1 {
		t.Fatalf("expected Depsfile's dependency to win over justfile, got %v", services[0].Declared)
	}
}

func TestDiscoverInfersLanguageByWeightedVote(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/repo/svc/Depsfile", []byte("dependencies: []\n"), 0o644)
	_ = afero.WriteFile(fs, "/repo/svc/go.mod", []byte("module svc\n"), 0o644)
	_ = afero.WriteFile(fs, "/repo/svc/main.go", []byte("package main\n"), 0o644)

	services, _, err := Discover(fs, "/repo", DiscoverOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 1 {
		t.Fatalf("expected one service, got %d", len(services))
	}
	found := false
	for _, l := range services[0].Languages {
		if l.String() == "go" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected go.mod (weight 5) to clear the vote threshold, got %v", services[0].Languages)
	}
}

func TestDiscoverJustfileAndMakefileRequireOptIn(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/repo/svc/justfile", []byte("build:\n\techo build\n"), 0o644)
	_ = afero.WriteFile(fs, "/repo/svc/Makefile", []byte("build:\n\techo build\n"), 0o644)

	services, _, err := Discover(fs, "/repo", DiscoverOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 0 {
		t.Fatalf("expected justfile/Makefile to be ignored without opt-in, got %v", services)
	}
}
