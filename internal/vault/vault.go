// Package vault is the collaborator-facing facade over a note vault: it
// owns the index store connection, drives the walker across the
// filesystem, and exposes the operations the CLI and daemon both call
// through. Nothing outside this package talks to internal/indexstore or
// internal/walker directly.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/weakphish/notevault/internal/indexstore"
	"github.com/weakphish/notevault/internal/logging"
	"github.com/weakphish/notevault/internal/vaultmodel"
	"github.com/weakphish/notevault/internal/vaultpath"
	"github.com/weakphish/notevault/internal/vfs"
	"github.com/weakphish/notevault/internal/walker"
)

// Vault is a single open vault: a workspace root on disk plus its index
// file connection.
type Vault struct {
	root  string
	store *indexstore.Store
}

// Open binds a Vault to workspace, which must already exist as a
// directory. The index file lives at workspace/note.sqlite; it is neither
// created nor validated here; call InitAndValidate for that.
func Open(workspace string) (*Vault, error) {
	info, err := os.Stat(workspace)
	if err != nil || !info.IsDir() {
		return nil, &Error{Kind: VaultPathNotFound, Path: workspace, Cause: err}
	}
	dbPath := filepath.Join(workspace, "note.sqlite")
	store, err := indexstore.Open(dbPath)
	if err != nil {
		return nil, &Error{Kind: DBIOError, Path: dbPath, Cause: err}
	}
	return &Vault{root: workspace, store: store}, nil
}

// Close releases the index connection.
func (v *Vault) Close() error {
	return v.store.Close()
}

// Status reports the index file's health as a string, without mutating it.
func (v *Vault) Status() (string, error) {
	status, err := v.store.Status()
	if err != nil {
		return "", &Error{Kind: DBIOError, Cause: err}
	}
	return status.String(), nil
}

// InitAndValidate brings the index up to a Ready state, recreating it from
// scratch whenever it is missing, structurally invalid, or built against
// an older schema version.
func (v *Vault) InitAndValidate() error {
	status, err := v.store.Status()
	if err != nil {
		return &Error{Kind: DBIOError, Cause: err}
	}
	switch status {
	case indexstore.StatusReady:
		return nil
	case indexstore.StatusFileNotFound, indexstore.StatusNotValid, indexstore.StatusOutdated:
		return v.RecreateIndex()
	default:
		return &Error{Kind: DBCorrupt, Cause: fmt.Errorf("unexpected index status %v", status)}
	}
}

// RecreateIndex drops and rebuilds the schema, then performs a full
// validation-mode index of the entire vault.
func (v *Vault) RecreateIndex() error {
	if err := v.store.Init(); err != nil {
		return &Error{Kind: DBSchemaMismatch, Cause: err}
	}
	return v.IndexNotes(walker.ModeFull)
}

// IndexNotes recursively reconciles the whole vault against disk under
// mode, committing one transaction per directory level.
func (v *Vault) IndexNotes(mode walker.Mode) error {
	start := time.Now()
	err := v.walkAndCommit(vaultpath.Root(), mode, nil)
	logging.Event(logging.LevelInfo).
		Str("op", "index_notes").
		Str("mode", modeName(mode)).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("vault index pass")
	return err
}

// reconcileLevel walks one directory level and commits its change set
// inside one transaction, returning the level so a caller can decide
// whether to recurse.
func (v *Vault) reconcileLevel(subpath vaultpath.Path, mode walker.Mode, observer walker.Observer) (walker.LevelResult, error) {
	snapshot, err := v.snapshotFor(subpath)
	if err != nil {
		return walker.LevelResult{}, err
	}

	level, err := walker.WalkLevel(v.root, subpath, mode, snapshot, observer)
	if err != nil {
		return walker.LevelResult{}, &Error{Kind: ReadFileError, Path: subpath.String(), Cause: err}
	}
	for _, skipErr := range level.SkippedErrors {
		logging.Warnf("walk %s: %v", subpath, skipErr)
	}

	err = v.store.WithTransaction(func(tx *indexstore.Tx) error {
		if len(level.ToAdd) > 0 {
			if err := tx.InsertNotes(level.ToAdd); err != nil {
				return err
			}
		}
		if len(level.ToModify) > 0 {
			if err := tx.UpdateNotes(level.ToModify); err != nil {
				return err
			}
		}
		if len(level.ToDelete) > 0 {
			if err := tx.DeleteNotes(level.ToDelete); err != nil {
				return err
			}
		}
		return tx.ReplaceDirectoriesUnder(subpath, level.DirectoriesFound)
	})
	if err != nil {
		return walker.LevelResult{}, &Error{Kind: DBIOError, Path: subpath.String(), Cause: err}
	}
	return level, nil
}

// walkAndCommit reconciles subpath's level and recurses into every child
// directory found, each recursion owning its own transaction.
func (v *Vault) walkAndCommit(subpath vaultpath.Path, mode walker.Mode, observer walker.Observer) error {
	level, err := v.reconcileLevel(subpath, mode, observer)
	if err != nil {
		return err
	}
	for _, dir := range level.DirectoriesFound {
		if err := v.walkAndCommit(dir.Path, mode, observer); err != nil {
			return err
		}
	}
	return nil
}

// snapshotFor loads the cached rows for subpath (non-recursive) as the
// walker's to_delete basis.
func (v *Vault) snapshotFor(subpath vaultpath.Path) (map[string]walker.SnapshotEntry, error) {
	entries, details, err := v.store.GetNotes(subpath, false)
	if err != nil {
		return nil, &Error{Kind: DBIOError, Path: subpath.String(), Cause: err}
	}
	snapshot := make(map[string]walker.SnapshotEntry, len(entries))
	for i, entry := range entries {
		snapshot[entry.Path.String()] = walker.SnapshotEntry{Entry: entry, Details: details[i]}
	}
	return snapshot, nil
}

// BrowseOptions configures BrowseVault.
type BrowseOptions struct {
	Subpath   vaultpath.Path
	Recursive bool
	Mode      walker.Mode
	Observer  walker.Observer
}

// BrowseOptionsBuilder builds a BrowseOptions fluently, mirroring the
// daemon's wire params where fields arrive one at a time.
type BrowseOptionsBuilder struct {
	opts BrowseOptions
}

// NewBrowseOptions starts a builder rooted at subpath.
func NewBrowseOptions(subpath vaultpath.Path) *BrowseOptionsBuilder {
	return &BrowseOptionsBuilder{opts: BrowseOptions{Subpath: subpath, Mode: walker.ModeFast}}
}

// Recursive toggles whether BrowseVault descends into child directories.
func (b *BrowseOptionsBuilder) Recursive(recursive bool) *BrowseOptionsBuilder {
	b.opts.Recursive = recursive
	return b
}

// WithMode sets the validation mode used while browsing.
func (b *BrowseOptionsBuilder) WithMode(mode walker.Mode) *BrowseOptionsBuilder {
	b.opts.Mode = mode
	return b
}

// WithObserver attaches a streaming observer channel.
func (b *BrowseOptionsBuilder) WithObserver(observer walker.Observer) *BrowseOptionsBuilder {
	b.opts.Observer = observer
	return b
}

// Build finalises the options.
func (b *BrowseOptionsBuilder) Build() BrowseOptions {
	return b.opts
}

// BrowseVault reconciles and streams one subtree of the vault, committing
// as it goes, and returns once every transaction involved has landed.
func (v *Vault) BrowseVault(opts BrowseOptions) error {
	if !opts.Recursive {
		_, err := v.reconcileLevel(opts.Subpath, opts.Mode, opts.Observer)
		return err
	}
	return v.walkAndCommit(opts.Subpath, opts.Mode, opts.Observer)
}

// SearchNotes issues a full-text query against the index.
func (v *Vault) SearchNotes(terms string, wildcard bool) ([]vaultmodel.SearchResult, error) {
	entries, details, err := v.store.SearchTerms(terms, wildcard)
	if err != nil {
		return nil, &Error{Kind: DBIOError, Cause: err}
	}
	results := make([]vaultmodel.SearchResult, 0, len(details))
	for i, d := range details {
		results = append(results, vaultmodel.NoteResult{Entry: entries[i], Details: d})
	}
	return results, nil
}

// GetNotes is a pure index read: every note under subpath, recursive or
// not.
func (v *Vault) GetNotes(subpath vaultpath.Path, recursive bool) ([]vaultmodel.NoteEntryData, []vaultmodel.NoteDetails, error) {
	entries, details, err := v.store.GetNotes(subpath, recursive)
	if err != nil {
		return nil, nil, &Error{Kind: DBIOError, Path: subpath.String(), Cause: err}
	}
	return entries, details, nil
}

// LoadNote reads a note's text straight from disk (the index never caches
// bodies).
func (v *Vault) LoadNote(path vaultpath.Path) (string, error) {
	text, err := vfs.LoadNote(v.root, path)
	if err != nil {
		return "", wrapVFSError(path, err)
	}
	return text, nil
}

// LoadOrCreateNote loads path's text, or creates it with defaultText if it
// does not yet exist.
func (v *Vault) LoadOrCreateNote(path vaultpath.Path, defaultText string) (string, error) {
	text, err := v.LoadNote(path)
	if err == nil {
		return text, nil
	}
	var vaultErr *Error
	if !asError(err, &vaultErr) || vaultErr.Kind != VaultPathNotFound {
		return "", err
	}
	if err := v.CreateNote(path, defaultText); err != nil {
		return "", err
	}
	return defaultText, nil
}

// CreateNote writes a brand-new note, failing with NoteExists if path is
// already present, then reconciles the index for that single note so it
// is searchable immediately.
func (v *Vault) CreateNote(path vaultpath.Path, text string) error {
	if !path.IsNote() {
		return &Error{Kind: InvalidPath, Path: path.String()}
	}
	if _, exists := vfs.Exists(v.root, path); exists {
		return &Error{Kind: NoteExists, Path: path.String()}
	}
	return v.writeAndIndex(path, text)
}

// SaveNote overwrites an existing (or new) note's text and reconciles the
// index for it.
func (v *Vault) SaveNote(path vaultpath.Path, text string) error {
	if !path.IsNote() {
		return &Error{Kind: InvalidPath, Path: path.String()}
	}
	return v.writeAndIndex(path, text)
}

func (v *Vault) writeAndIndex(path vaultpath.Path, text string) error {
	if err := v.indexSingleWrite(path, text); err != nil {
		return err
	}
	return nil
}

func (v *Vault) indexSingleWrite(path vaultpath.Path, text string) error {
	write, err := buildNoteWrite(v.root, path, text)
	if err != nil {
		return err
	}
	return v.store.WithTransaction(func(tx *indexstore.Tx) error {
		return tx.SaveNote(write)
	})
}

// JournalEntry returns the path and text of today's journal note, creating
// it with a "# <date>" heading body on first call of the day.
func (v *Vault) JournalEntry() (vaultpath.Path, string, error) {
	date := time.Now().UTC().Format("2006-01-02")
	path := vaultpath.FromString("/journal/" + date + ".md")
	body := "# " + date + "\n\n"
	text, err := v.LoadOrCreateNote(path, body)
	if err != nil {
		return vaultpath.Path{}, "", err
	}
	return path, text, nil
}

// Exists reports whether path is present on disk.
func (v *Vault) Exists(path vaultpath.Path) (vaultmodel.NoteEntryData, bool) {
	data, ok := vfs.Exists(v.root, path)
	if !ok {
		return vaultmodel.NoteEntryData{}, false
	}
	return vaultmodel.NoteEntryData{Path: data.Path, Size: data.Size, ModifiedSecs: data.ModifiedSecs}, true
}

func modeName(mode walker.Mode) string {
	switch mode {
	case walker.ModeNone:
		return "none"
	case walker.ModeFast:
		return "fast"
	case walker.ModeFull:
		return "full"
	default:
		return "unknown"
	}
}
