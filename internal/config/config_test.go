package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesAllSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".monodeps.yaml")
	content := `
global_dependencies:
  - ci/
  - "**/*.lock"
auto_discovery:
  go:
    package_prefixes:
      - github.com/acme/
  dotnet:
    package_namespaces:
      - Acme.Shared
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.GlobalDependencies) != 2 {
		t.Fatalf("expected 2 global dependencies, got %v", cfg.GlobalDependencies)
	}
	if len(cfg.GoPackagePrefixes()) != 1 || cfg.GoPackagePrefixes()[0] != "github.com/acme/" {
		t.Fatalf("expected go package prefix hint, got %v", cfg.GoPackagePrefixes())
	}
	if len(cfg.DotnetNamespaces()) != 1 || cfg.DotnetNamespaces()[0] != "Acme.Shared" {
		t.Fatalf("expected dotnet namespace hint, got %v", cfg.DotnetNamespaces())
	}
}

func TestLoadMissingFileYieldsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.GlobalDependencies) != 0 {
		t.Fatalf("expected zero-value config, got %v", cfg)
	}
}
