// Package vaultpath implements the vault's logical path namespace: an
// ordered sequence of sanitised slices, independent of the filesystem
// separator or encoding the host OS happens to use.
package vaultpath

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const separator = "/"

// disallowed holds every rune a path slice may not contain.
const disallowed = `\/:*?"<>|`

// Path is the canonical logical path of a note, directory, or attachment
// inside a vault. Two Paths are equal iff their slice sequences are equal.
type Path struct {
	slices []string
}

// Root is the empty path, the vault's top-level directory.
func Root() Path {
	return Path{}
}

// FromString splits s on "/", drops empty components (so "//" behaves like
// "/"), and sanitises each remaining component.
func FromString(s string) Path {
	parts := strings.Split(s, separator)
	slices := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		slices = append(slices, sanitise(p))
	}
	return Path{slices: slices}
}

// sanitise replaces every disallowed character in a single slice with "_".
// It is idempotent: sanitise(sanitise(s)) == sanitise(s).
func sanitise(slice string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(disallowed, r) {
			return '_'
		}
		return r
	}, slice)
}

// FromFilesystemPath strips root as a prefix from full and maps the
// remaining path components through the same sanitisation as FromString.
// It fails if full does not live under root.
func FromFilesystemPath(root, full string) (Path, error) {
	rel, err := filepath.Rel(root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return Path{}, fmt.Errorf("vaultpath: %q is not under %q", full, root)
	}
	if rel == "." {
		return Root(), nil
	}
	parts := strings.Split(filepath.ToSlash(rel), separator)
	slices := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		slices = append(slices, sanitise(p))
	}
	return Path{slices: slices}, nil
}

// ToFilesystemPath joins workspaceRoot with every slice, in order, using the
// host's native path separator.
func (p Path) ToFilesystemPath(workspaceRoot string) string {
	parts := append([]string{workspaceRoot}, p.slices...)
	return filepath.Join(parts...)
}

// IsNote reports whether the path's last slice ends in ".md" (case
// sensitive).
func (p Path) IsNote() bool {
	if len(p.slices) == 0 {
		return false
	}
	return strings.HasSuffix(p.slices[len(p.slices)-1], ".md")
}

// Parent returns the path with its last slice removed, plus that last
// slice (empty string if p is already Root).
func (p Path) Parent() (Path, string) {
	if len(p.slices) == 0 {
		return Root(), ""
	}
	last := p.slices[len(p.slices)-1]
	prefix := make([]string, len(p.slices)-1)
	copy(prefix, p.slices[:len(p.slices)-1])
	return Path{slices: prefix}, last
}

// Name returns the path's last slice, or "" for Root.
func (p Path) Name() string {
	if len(p.slices) == 0 {
		return ""
	}
	return p.slices[len(p.slices)-1]
}

// Append returns a new path with other's slices appended after p's.
func (p Path) Append(other Path) Path {
	slices := make([]string, 0, len(p.slices)+len(other.slices))
	slices = append(slices, p.slices...)
	slices = append(slices, other.slices...)
	return Path{slices: slices}
}

// FileFrom appends ".md" to name if it lacks the suffix, sanitises it, and
// returns it as a single-slice Path appended to p. It fails if name ends in
// "/", which would make the resulting file a directory-looking path.
func (p Path) FileFrom(name string) (Path, error) {
	if strings.HasSuffix(name, separator) {
		return Path{}, fmt.Errorf("vaultpath: %q cannot name a file", name)
	}
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return p.Append(Path{slices: []string{sanitise(name)}}), nil
}

// NameOnConflict produces a fresh note name under p's parent directory by
// appending, then incrementing, a numeric suffix before ".md" until the
// result does not appear in existing.
func (p Path) NameOnConflict(existing map[string]bool) Path {
	if !existing[p.String()] {
		return p
	}
	parent, name := p.Parent()
	stem := strings.TrimSuffix(name, ".md")
	for i := 1; ; i++ {
		candidate := stem + "-" + strconv.Itoa(i) + ".md"
		next := parent.Append(Path{slices: []string{candidate}})
		if !existing[next.String()] {
			return next
		}
	}
}

// Slices returns a copy of the path's slice sequence.
func (p Path) Slices() []string {
	out := make([]string, len(p.slices))
	copy(out, p.slices)
	return out
}

// Equal reports whether two paths have identical slice sequences.
func (p Path) Equal(other Path) bool {
	if len(p.slices) != len(other.slices) {
		return false
	}
	for i := range p.slices {
		if p.slices[i] != other.slices[i] {
			return false
		}
	}
	return true
}

// String displays the path as "/" followed by its slices joined by "/".
// The root path displays as "/".
func (p Path) String() string {
	return separator + strings.Join(p.slices, separator)
}
