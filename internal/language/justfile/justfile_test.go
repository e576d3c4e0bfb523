package justfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/monodeps/monodeps/internal/language"
)

func writeJustfile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestImportStatementEmitsAndRecurses(t *testing.T) {
	root := t.TempDir()
	svcDir := filepath.Join(root, "svc-h")
	main := filepath.Join(svcDir, "justfile")
	writeJustfile(t, main, "import 'build.just'\n\nbuild:\n\techo building\n")
	shared := filepath.Join(svcDir, "build.just")
	writeJustfile(t, shared, "default:\n\techo default\n")

	a := Analyzer{}
	deps, err := a.Dependencies([]string{main}, svcDir, language.Options{RepoRoot: root})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range deps {
		if d.Matches(shared) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected build.just emitted as a dependency, got %v", deps)
	}
}

func TestModStatementProbesCandidatesInOrder(t *testing.T) {
	root := t.TempDir()
	svcDir := filepath.Join(root, "svc-i")
	main := filepath.Join(svcDir, "justfile")
	writeJustfile(t, main, "mod deploy\n")
	// first candidate probed is ./deploy.just
	deployJust := filepath.Join(svcDir, "deploy.just")
	writeJustfile(t, deployJust, "push:\n\techo push\n")
	// a second, lower-priority candidate that should NOT be chosen
	modJust := filepath.Join(svcDir, "deploy", "mod.just")
	writeJustfile(t, modJust, "push:\n\techo other\n")

	a := Analyzer{}
	deps, err := a.Dependencies([]string{main}, svcDir, language.Options{RepoRoot: root})
	if err != nil {
		t.Fatal(err)
	}
	foundPreferred, foundOther := false, false
	for _, d := range deps {
		if d.Matches(deployJust) {
			foundPreferred = true
		}
		if d.Matches(modJust) {
			foundOther = true
		}
	}
	if !foundPreferred {
		t.Fatalf("expected deploy.just (first probe candidate) emitted, got %v", deps)
	}
	if foundOther {
		t.Fatalf("did not expect deploy/mod.just to be probed once deploy.just matched, got %v", deps)
	}
}

func TestModStatementWithExplicitPath(t *testing.T) {
	root := t.TempDir()
	svcDir := filepath.Join(root, "svc-j")
	main := filepath.Join(svcDir, "justfile")
	writeJustfile(t, main, "mod release './tools/release.just'\n")
	explicit := filepath.Join(svcDir, "tools", "release.just")
	writeJustfile(t, explicit, "cut:\n\techo cut\n")

	a := Analyzer{}
	deps, err := a.Dependencies([]string{main}, svcDir, language.Options{RepoRoot: root})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, d := range deps {
		if d.Matches(explicit) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected explicit mod path emitted, got %v", deps)
	}
}

func TestImportCycleIsSilentlyBroken(t *testing.T) {
	root := t.TempDir()
	svcDir := filepath.Join(root, "svc-k")
	a1 := filepath.Join(svcDir, "a.just")
	b1 := filepath.Join(svcDir, "b.just")
	writeJustfile(t, a1, "import 'b.just'\n")
	writeJustfile(t, b1, "import 'a.just'\n")

	an := Analyzer{}
	deps, err := an.Dependencies([]string{a1}, svcDir, language.Options{RepoRoot: root})
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) == 0 {
		t.Fatalf("expected at least b.just to be recorded before the cycle silently broke")
	}
}
