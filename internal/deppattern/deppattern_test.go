package deppattern

import (
	"testing"

	"github.com/monodeps/monodeps/internal/pathinfo"
)

func TestLiteralPrefixMatch(t *testing.T) {
	p, err := Compile("shared/", "/repo")
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsLiteral() {
		t.Fatalf("expected literal pattern")
	}
	if !p.Matches("/repo/shared/x.go") {
		t.Fatalf("expected prefix match")
	}
	if p.Matches("/repo/other/x.go") {
		t.Fatalf("unexpected match")
	}
}

func TestGlobDotIsLiteral(t *testing.T) {
	p, err := Compile("a.b", "/repo")
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsLiteral() {
		t.Fatalf("a.b contains no */? so it should compile to a literal prefix matcher, not a regex")
	}
	if !p.Matches("/repo/a.b") {
		t.Fatalf("expected match")
	}
}

func TestGlobStarDoesNotCrossSeparator(t *testing.T) {
	p, err := Compile("a/*/c", "/repo")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Matches("/repo/a/x/c") {
		t.Fatalf("expected match for single segment")
	}
	if p.Matches("/repo/a/x/y/c") {
		t.Fatalf("single * must not cross a path separator")
	}
}

func TestGlobDoubleStarCrossesSeparator(t *testing.T) {
	p, err := Compile("a/**/c", "/repo")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Matches("/repo/a/x/y/c") {
		t.Fatalf("** should match a multi-segment run")
	}
}

func TestGlobQuestionMarkSingleChar(t *testing.T) {
	p, err := Compile("fil?.go", "/repo")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Matches("/repo/file.go") {
		t.Fatalf("expected single-char wildcard match")
	}
	if p.Matches("/repo/fi.go") {
		t.Fatalf("? must consume exactly one character")
	}
}

func TestHashOnlyForLiteral(t *testing.T) {
	lit, _ := Compile("shared/", "/repo")
	if h, ok := lit.Hash(); !ok || h == "" {
		t.Fatalf("expected literal hash, got %q ok=%v", h, ok)
	}

	glob, _ := Compile("a/*/c", "/repo")
	if _, ok := glob.Hash(); ok {
		t.Fatalf("regex pattern should have no hash")
	}
}

func TestIsChildOfOnlyForLiteral(t *testing.T) {
	dir := pathinfo.New("svc", "/repo")
	lit, _ := Compile("svc/nested", "/repo")
	if !lit.IsChildOf(dir) {
		t.Fatalf("expected literal child relationship")
	}

	glob, _ := Compile("svc/*", "/repo")
	if glob.IsChildOf(dir) {
		t.Fatalf("regex pattern is never a child")
	}
}
