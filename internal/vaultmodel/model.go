// Package vaultmodel holds the data types shared by the index store, the
// walker, and the vault facade, so none of them has to import another's
// package just to pass a note around.
package vaultmodel

import "github.com/weakphish/notevault/internal/vaultpath"

// NoteEntryData is a note's identity on disk: its path, byte size, and
// last-modified time in whole seconds since the Unix epoch.
type NoteEntryData struct {
	Path         vaultpath.Path
	Size         int64
	ModifiedSecs int64
}

// NoteContentData is derived from a note's text: a 32-bit fingerprint and
// an optional title.
type NoteContentData struct {
	Fingerprint uint32
	Title       string
}

// NoteDetails pairs a note's path and derived content with its raw text.
// Text is lazy: absent ("", false) when materialised from the index alone,
// present once loaded from disk.
type NoteDetails struct {
	Path    vaultpath.Path
	Content NoteContentData
	text    string
	hasText bool
}

// NewNoteDetails builds a NoteDetails with no cached text.
func NewNoteDetails(path vaultpath.Path, content NoteContentData) NoteDetails {
	return NoteDetails{Path: path, Content: content}
}

// WithText returns a copy of d carrying cached text.
func (d NoteDetails) WithText(text string) NoteDetails {
	d.text = text
	d.hasText = true
	return d
}

// Text returns the cached text and whether it is present.
func (d NoteDetails) Text() (string, bool) {
	return d.text, d.hasText
}

// NoteWrite is one note's full payload for an index insert or update: its
// identity, derived content, and the text handed to the full-text table.
type NoteWrite struct {
	Entry             NoteEntryData
	Details           NoteDetails
	SearchableContent string
}

// DirectoryDetails is the path of a directory observed during traversal.
type DirectoryDetails struct {
	Path vaultpath.Path
}

// SearchResult is the sum type streamed to a browse_vault observer: exactly
// one of Note, Directory, or Attachment is non-nil-equivalent for any given
// value produced by the walker.
type SearchResult interface {
	isSearchResult()
}

// NoteResult wraps a note observed or retrieved during a walk or search,
// pairing its on-disk identity with its derived content.
type NoteResult struct {
	Entry   NoteEntryData
	Details NoteDetails
}

func (NoteResult) isSearchResult() {}

// DirectoryResult wraps a directory observed during a walk.
type DirectoryResult struct {
	Details DirectoryDetails
}

func (DirectoryResult) isSearchResult() {}

// AttachmentResult wraps a non-Markdown file observed during a walk.
type AttachmentResult struct {
	Path vaultpath.Path
}

func (AttachmentResult) isSearchResult() {}
