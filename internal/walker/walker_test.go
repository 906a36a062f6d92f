package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/weakphish/notevault/internal/vaultmodel"
	"github.com/weakphish/notevault/internal/vaultpath"
	"github.com/weakphish/notevault/internal/vfs"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestWalkLevelFindsNewNotesAndDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "# Hello\n\nbody")
	writeFile(t, root, "attachment.png", "binary")
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}

	result, err := WalkLevel(root, vaultpath.Root(), ModeFull, nil, nil)
	if err != nil {
		t.Fatalf("WalkLevel: %v", err)
	}
	if len(result.ToAdd) != 1 {
		t.Fatalf("expected 1 new note, got %d", len(result.ToAdd))
	}
	if result.ToAdd[0].Details.Content.Title != "Hello" {
		t.Fatalf("got title %q", result.ToAdd[0].Details.Content.Title)
	}
	if len(result.DirectoriesFound) != 1 || result.DirectoriesFound[0].Path.Name() != "sub" {
		t.Fatalf("expected sub directory found, got %+v", result.DirectoriesFound)
	}
	if len(result.ToDelete) != 0 || len(result.ToModify) != 0 {
		t.Fatalf("expected no deletes/modifies on empty snapshot, got %+v", result)
	}
}

func TestWalkLevelHonoursHiddenFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".hidden.md", "secret")
	writeFile(t, root, "visible.md", "visible")

	result, err := WalkLevel(root, vaultpath.Root(), ModeFull, nil, nil)
	if err != nil {
		t.Fatalf("WalkLevel: %v", err)
	}
	if len(result.ToAdd) != 1 || result.ToAdd[0].Entry.Path.Name() != "visible.md" {
		t.Fatalf("expected only visible.md, got %+v", result.ToAdd)
	}
}

func TestWalkLevelModeNoneNeverReportsChange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "original")
	p := vaultpath.FromString("/a.md")
	stat, err := vfs.StatNote(root, p)
	if err != nil {
		t.Fatalf("StatNote: %v", err)
	}
	snapshot := map[string]SnapshotEntry{
		p.String(): {
			Entry:   vaultmodel.NoteEntryData{Path: p, Size: stat.Size, ModifiedSecs: stat.ModifiedSecs - 1000},
			Details: vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{Title: "cached", Fingerprint: 1}),
		},
	}

	result, err := WalkLevel(root, vaultpath.Root(), ModeNone, snapshot, nil)
	if err != nil {
		t.Fatalf("WalkLevel: %v", err)
	}
	if len(result.ToAdd) != 0 || len(result.ToModify) != 0 || len(result.ToDelete) != 0 {
		t.Fatalf("ModeNone must report no changes regardless of staleness, got %+v", result)
	}
}

func TestWalkLevelModeFastDetectsSizeChange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "a longer body than before")
	p := vaultpath.FromString("/a.md")

	snapshot := map[string]SnapshotEntry{
		p.String(): {
			Entry:   vaultmodel.NoteEntryData{Path: p, Size: 1, ModifiedSecs: 1},
			Details: vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{Title: "cached", Fingerprint: 1}),
		},
	}

	result, err := WalkLevel(root, vaultpath.Root(), ModeFast, snapshot, nil)
	if err != nil {
		t.Fatalf("WalkLevel: %v", err)
	}
	if len(result.ToModify) != 1 {
		t.Fatalf("expected size mismatch to register as modify, got %+v", result)
	}
	if len(result.ToAdd) != 0 || len(result.ToDelete) != 0 {
		t.Fatalf("unexpected add/delete, got %+v", result)
	}
}

func TestWalkLevelModeFullComparesFingerprint(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "same body text")
	p := vaultpath.FromString("/a.md")
	stat, err := vfs.StatNote(root, p)
	if err != nil {
		t.Fatalf("StatNote: %v", err)
	}

	fingerprint := uint32(0)
	{
		lvl, err := WalkLevel(root, vaultpath.Root(), ModeFull, nil, nil)
		if err != nil {
			t.Fatalf("priming walk: %v", err)
		}
		fingerprint = lvl.ToAdd[0].Details.Content.Fingerprint
	}

	snapshotSame := map[string]SnapshotEntry{
		p.String(): {
			Entry:   vaultmodel.NoteEntryData{Path: p, Size: stat.Size, ModifiedSecs: stat.ModifiedSecs},
			Details: vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{Title: "whatever", Fingerprint: fingerprint}),
		},
	}
	result, err := WalkLevel(root, vaultpath.Root(), ModeFull, snapshotSame, nil)
	if err != nil {
		t.Fatalf("WalkLevel: %v", err)
	}
	if len(result.ToModify) != 0 || len(result.ToAdd) != 0 {
		t.Fatalf("expected identical fingerprint to report no change, got %+v", result)
	}

	snapshotDiff := map[string]SnapshotEntry{
		p.String(): {
			Entry:   vaultmodel.NoteEntryData{Path: p, Size: stat.Size, ModifiedSecs: stat.ModifiedSecs},
			Details: vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{Title: "whatever", Fingerprint: fingerprint + 1}),
		},
	}
	result, err = WalkLevel(root, vaultpath.Root(), ModeFull, snapshotDiff, nil)
	if err != nil {
		t.Fatalf("WalkLevel: %v", err)
	}
	if len(result.ToModify) != 1 {
		t.Fatalf("expected differing fingerprint to register as modify, got %+v", result)
	}
}

func TestWalkLevelReportsDeletedNotes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "still-here.md", "present")
	p := vaultpath.FromString("/gone.md")

	snapshot := map[string]SnapshotEntry{
		p.String(): {
			Entry:   vaultmodel.NoteEntryData{Path: p, Size: 1, ModifiedSecs: 1},
			Details: vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{Title: "gone", Fingerprint: 1}),
		},
	}

	result, err := WalkLevel(root, vaultpath.Root(), ModeFast, snapshot, nil)
	if err != nil {
		t.Fatalf("WalkLevel: %v", err)
	}
	if len(result.ToDelete) != 1 || result.ToDelete[0].String() != "/gone.md" {
		t.Fatalf("expected /gone.md reported as deleted, got %+v", result.ToDelete)
	}
	if len(result.ToAdd) != 1 {
		t.Fatalf("expected still-here.md reported as new, got %+v", result.ToAdd)
	}
}

func TestWalkLevelStreamsObserverNonBlocking(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "note body")

	observer := make(chan vaultmodel.SearchResult)
	result, err := WalkLevel(root, vaultpath.Root(), ModeFull, nil, observer)
	if err != nil {
		t.Fatalf("WalkLevel: %v", err)
	}
	if len(result.ToAdd) != 1 {
		t.Fatalf("expected walk to complete despite no observer reader, got %+v", result)
	}
}
