package kustomize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/monodeps/monodeps/internal/language"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirectoryResourceRecursesAndEmitsLeafFile(t *testing.T) {
	root := t.TempDir()
	svcD := filepath.Join(root, "svc-d")
	base := filepath.Join(root, "k8s", "base")

	writeFile(t, filepath.Join(svcD, "kustomization.yaml"), `
resources:
  - ../k8s/base
`)
	writeFile(t, filepath.Join(base, "kustomization.yaml"), `
resources:
  - patch.yaml
`)
	writeFile(t, filepath.Join(base, "patch.yaml"), "kind: Patch\n")

	a := Analyzer{}
	deps, err := a.Dependencies([]string{filepath.Join(svcD, "kustomization.yaml")}, svcD, language.Options{RepoRoot: root})
	if err != nil {
		t.Fatal(err)
	}

	matched := false
	for _, d := range deps {
		if d.Matches(filepath.Join(base, "patch.yaml")) {
			matched = true
		}
	}
	if !matched {
		t.Fatalf("expected patch.yaml to be reachable through recursion, got %v", deps)
	}
}

func TestCycleIsDetected(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	writeFile(t, filepath.Join(a, "kustomization.yaml"), "resources:\n  - ../b\n")
	writeFile(t, filepath.Join(b, "kustomization.yaml"), "resources:\n  - ../a\n")

	_, err := processKustomization(filepath.Join(a, "kustomization.yaml"), make(map[string]bool))
	if err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestConfigMapGeneratorFiles(t *testing.T) {
	root := t.TempDir()
	svc := filepath.Join(root, "svc")
	writeFile(t, filepath.Join(svc, "kustomization.yaml"), `
configMapGenerator:
  - files:
      - config/app.properties
`)
	writeFile(t, filepath.Join(svc, "config", "app.properties"), "k=v\n")

	a := Analyzer{}
	deps, err := a.Dependencies([]string{filepath.Join(svc, "kustomization.yaml")}, svc, language.Options{RepoRoot: root})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range deps {
		if d.Matches(filepath.Join(svc, "config", "app.properties")) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected configMapGenerator file to be emitted, got %v", deps)
	}
}
