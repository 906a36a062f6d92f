package indexstore

import (
	"path/filepath"
	"testing"

	"github.com/weakphish/notevault/internal/vaultmodel"
	"github.com/weakphish/notevault/internal/vaultpath"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "note.sqlite")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStatusFileNotFound(t *testing.T) {
	store := openTestStore(t)
	status, err := store.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	// glebarez/sqlite creates the file lazily on first real query, so a
	// freshly opened connection with no Init() yet still reports missing
	// schema, either as FileNotFound or NotValid depending on driver
	// lazily touching the file; both mean "needs init".
	if status != StatusFileNotFound && status != StatusNotValid {
		t.Fatalf("got status %v, want FileNotFound or NotValid", status)
	}
}

func TestInitThenStatusReady(t *testing.T) {
	store := openTestStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	status, err := store.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != StatusReady {
		t.Fatalf("got status %v, want Ready", status)
	}
}

func writeNote(t *testing.T, store *Store, pathStr, title, content string, fingerprint uint32) {
	t.Helper()
	p := vaultpath.FromString(pathStr)
	write := vaultmodel.NoteWrite{
		Entry:             vaultmodel.NoteEntryData{Path: p, Size: int64(len(content)), ModifiedSecs: 1000},
		Details:           vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{Title: title, Fingerprint: fingerprint}),
		SearchableContent: content,
	}
	err := store.WithTransaction(func(tx *Tx) error {
		return tx.InsertNotes([]vaultmodel.NoteWrite{write})
	})
	if err != nil {
		t.Fatalf("insert %s: %v", pathStr, err)
	}
}

func TestInsertAndGetNotes(t *testing.T) {
	store := openTestStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeNote(t, store, "/a.md", "A", "alpha body", 1)
	writeNote(t, store, "/sub/b.md", "B", "beta body", 2)

	entries, details, err := store.GetNotes(vaultpath.Root(), false)
	if err != nil {
		t.Fatalf("GetNotes: %v", err)
	}
	if len(entries) != 1 || entries[0].Path.String() != "/a.md" {
		t.Fatalf("expected only /a.md at root non-recursive, got %+v", entries)
	}
	if details[0].Content.Title != "A" {
		t.Fatalf("got title %q", details[0].Content.Title)
	}

	entries, _, err = store.GetNotes(vaultpath.Root(), true)
	if err != nil {
		t.Fatalf("GetNotes recursive: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 notes recursively from root, got %d", len(entries))
	}
}

func TestGetNotesSubpathRecursive(t *testing.T) {
	store := openTestStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeNote(t, store, "/notes/a.md", "A", "a", 1)
	writeNote(t, store, "/notes/sub/b.md", "B", "b", 2)
	writeNote(t, store, "/other.md", "O", "o", 3)

	entries, _, err := store.GetNotes(vaultpath.FromString("/notes"), true)
	if err != nil {
		t.Fatalf("GetNotes: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 notes under /notes recursively, got %d: %+v", len(entries), entries)
	}
}

func TestSearchTermsMatchesContent(t *testing.T) {
	store := openTestStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeNote(t, store, "/a.md", "A", "the quick fox", 1)
	writeNote(t, store, "/b.md", "B", "a lazy dog", 2)

	entries, results, err := store.SearchTerms("quick", false)
	if err != nil {
		t.Fatalf("SearchTerms: %v", err)
	}
	if len(results) != 1 || results[0].Path.String() != "/a.md" {
		t.Fatalf("expected only /a.md to match 'quick', got %+v", results)
	}
	if len(entries) != 1 || entries[0].Size != int64(len("the quick fox")) {
		t.Fatalf("expected matching entry data alongside details, got %+v", entries)
	}

	_, none, err := store.SearchTerms("zebra", false)
	if err != nil {
		t.Fatalf("SearchTerms: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches for 'zebra', got %+v", none)
	}
}

func TestUpdateAndDeleteNotes(t *testing.T) {
	store := openTestStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeNote(t, store, "/a.md", "A", "original", 1)

	p := vaultpath.FromString("/a.md")
	updated := vaultmodel.NoteWrite{
		Entry:             vaultmodel.NoteEntryData{Path: p, Size: 7, ModifiedSecs: 2000},
		Details:           vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{Title: "A2", Fingerprint: 99}),
		SearchableContent: "updated",
	}
	err := store.WithTransaction(func(tx *Tx) error {
		return tx.UpdateNotes([]vaultmodel.NoteWrite{updated})
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	_, results, err := store.SearchTerms("updated", false)
	if err != nil || len(results) != 1 {
		t.Fatalf("expected updated content searchable, got %+v err=%v", results, err)
	}

	err = store.WithTransaction(func(tx *Tx) error {
		return tx.DeleteNotes([]vaultpath.Path{p})
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	entries, _, err := store.GetNotes(vaultpath.Root(), true)
	if err != nil {
		t.Fatalf("GetNotes: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no notes after delete, got %+v", entries)
	}
}

func TestSaveNoteUpsert(t *testing.T) {
	store := openTestStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	p := vaultpath.FromString("/a.md")
	write := vaultmodel.NoteWrite{
		Entry:             vaultmodel.NoteEntryData{Path: p, Size: 1, ModifiedSecs: 1},
		Details:           vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{Title: "first", Fingerprint: 1}),
		SearchableContent: "first",
	}
	if err := store.WithTransaction(func(tx *Tx) error { return tx.SaveNote(write) }); err != nil {
		t.Fatalf("save (insert): %v", err)
	}
	write.Details = vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{Title: "second", Fingerprint: 2})
	if err := store.WithTransaction(func(tx *Tx) error { return tx.SaveNote(write) }); err != nil {
		t.Fatalf("save (update): %v", err)
	}

	_, details, ok, err := store.GetNote(p)
	if err != nil || !ok {
		t.Fatalf("GetNote: ok=%v err=%v", ok, err)
	}
	if details.Content.Title != "second" {
		t.Fatalf("expected upsert to overwrite title, got %q", details.Content.Title)
	}
}
