// Package vfs is the filesystem adapter: it reads and writes note bytes and
// collects stat information, translating between a workspace root and
// vaultpath.Path. It knows nothing about the index or about Markdown.
package vfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/weakphish/notevault/internal/vaultpath"
)

// ErrNotFound is returned by LoadNote/StatNote when the note does not exist.
var ErrNotFound = errors.New("vfs: note not found")

// ErrInvalidEncoding is returned by LoadNote when the file is not valid
// UTF-8.
var ErrInvalidEncoding = errors.New("vfs: file is not valid UTF-8")

// EntryData is a note's on-disk identity: its path, byte size, and
// last-modified time in whole seconds since the Unix epoch.
type EntryData struct {
	Path         vaultpath.Path
	Size         int64
	ModifiedSecs int64
}

// LoadNote reads path's bytes under root and decodes them as UTF-8.
func LoadNote(root string, path vaultpath.Path) (string, error) {
	full := path.ToFilesystemPath(root)
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("vfs: read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, path)
	}
	return string(data), nil
}

// SaveNote refuses to write anything that is not a note path, creates
// parent directories as needed, and writes text with truncate-create
// semantics via a temp-file-then-rename so a reader never observes a
// partially written file.
func SaveNote(root string, path vaultpath.Path, text string) (EntryData, error) {
	if !path.IsNote() {
		return EntryData{}, fmt.Errorf("vfs: %s is not a note path", path)
	}
	full := path.ToFilesystemPath(root)
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return EntryData{}, fmt.Errorf("vfs: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".notevault-tmp-*")
	if err != nil {
		return EntryData{}, fmt.Errorf("vfs: create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return EntryData{}, fmt.Errorf("vfs: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return EntryData{}, fmt.Errorf("vfs: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return EntryData{}, fmt.Errorf("vfs: rename into %s: %w", path, err)
	}

	return StatNote(root, path)
}

// StatNote returns path's size and mtime-in-seconds.
func StatNote(root string, path vaultpath.Path) (EntryData, error) {
	full := path.ToFilesystemPath(root)
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return EntryData{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return EntryData{}, fmt.Errorf("vfs: stat %s: %w", path, err)
	}
	return EntryData{
		Path:         path,
		Size:         info.Size(),
		ModifiedSecs: info.ModTime().UTC().Unix(),
	}, nil
}

// Kind classifies a directory entry observed by ListDir.
type Kind int

const (
	KindDirectory Kind = iota
	KindNote
	KindAttachment
)

// DirEntry is one immediate child of a directory listed by ListDir.
type DirEntry struct {
	Path vaultpath.Path
	Kind Kind
}

// ListDir lists the immediate children of subpath under root, honouring
// the hidden-file filter (names beginning with "." are skipped). Results
// are sorted by path for deterministic iteration order.
func ListDir(root string, subpath vaultpath.Path) ([]DirEntry, error) {
	full := subpath.ToFilesystemPath(root)
	children, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, subpath)
		}
		return nil, fmt.Errorf("vfs: readdir %s: %w", subpath, err)
	}

	entries := make([]DirEntry, 0, len(children))
	for _, child := range children {
		name := child.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		childPath := subpath.Append(vaultpath.FromString(name))
		var kind Kind
		switch {
		case child.IsDir():
			kind = KindDirectory
		case childPath.IsNote():
			kind = KindNote
		default:
			kind = KindAttachment
		}
		entries = append(entries, DirEntry{Path: childPath, Kind: kind})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path.String() < entries[j].Path.String()
	})
	return entries, nil
}

// Exists reports whether path exists under root, returning its EntryData
// when it does. A missing path is not an error.
func Exists(root string, path vaultpath.Path) (EntryData, bool) {
	data, err := StatNote(root, path)
	if err != nil {
		return EntryData{}, false
	}
	return data, true
}
