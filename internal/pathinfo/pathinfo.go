// Package pathinfo normalizes user-supplied path strings into a stable,
// comparable canonical form without touching the filesystem.
package pathinfo

import (
	"path/filepath"
	"strings"
)

// Info is a pair of the original, user-facing path string and its lexical
// absolute form. Two Infos are equal iff their Canonical fields match.
type Info struct {
	Display   string
	Canonical string
}

// New joins path onto root (absolutizing against the process working
// directory first when root itself is relative) and lexically cleans the
// result. It never touches the filesystem, so it works for glob patterns
// and paths that do not exist.
func New(path, root string) Info {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	var canonical string
	if filepath.IsAbs(path) {
		canonical = filepath.Clean(path)
	} else {
		canonical = filepath.Clean(filepath.Join(absRoot, path))
	}

	return Info{Display: path, Canonical: canonical}
}

// Equal reports whether two Infos share the same canonical identity.
func (i Info) Equal(other Info) bool {
	return i.Canonical == other.Canonical
}

// IsChildOf reports whether i's canonical path is nested under dir's
// canonical path (dir itself counts as not a child of itself).
func (i Info) IsChildOf(dir Info) bool {
	if i.Canonical == dir.Canonical {
		return false
	}
	prefix := dir.Canonical
	sep := string(filepath.Separator)
	if !strings.HasSuffix(prefix, sep) {
		prefix += sep
	}
	return strings.HasPrefix(i.Canonical, prefix)
}

// RelativeTo returns "./" + suffix when origin.Canonical is a path prefix of
// i.Canonical; otherwise it returns i.Canonical unchanged.
func (i Info) RelativeTo(origin Info) string {
	prefix := origin.Canonical
	sep := string(filepath.Separator)
	if !strings.HasSuffix(prefix, sep) {
		prefix += sep
	}
	if !strings.HasPrefix(i.Canonical, prefix) {
		return i.Canonical
	}
	return "./" + strings.TrimPrefix(i.Canonical, prefix)
}

// String returns the canonical form.
func (i Info) String() string {
	return i.Canonical
}
