package vault

import (
	"github.com/weakphish/notevault/internal/analyser"
	"github.com/weakphish/notevault/internal/vaultmodel"
	"github.com/weakphish/notevault/internal/vaultpath"
	"github.com/weakphish/notevault/internal/vfs"
)

// buildNoteWrite writes text to disk at path, then derives the index
// payload (title, fingerprint, searchable content) for the freshly
// written bytes.
func buildNoteWrite(root string, path vaultpath.Path, text string) (vaultmodel.NoteWrite, error) {
	stat, err := vfs.SaveNote(root, path, text)
	if err != nil {
		return vaultmodel.NoteWrite{}, wrapVFSError(path, err)
	}
	result := analyser.Analyse(text)
	details := vaultmodel.NewNoteDetails(path, vaultmodel.NoteContentData{
		Title:       result.Title,
		Fingerprint: result.Fingerprint,
	}).WithText(text)

	return vaultmodel.NoteWrite{
		Entry: vaultmodel.NoteEntryData{
			Path:         stat.Path,
			Size:         stat.Size,
			ModifiedSecs: stat.ModifiedSecs,
		},
		Details:           details,
		SearchableContent: result.SearchableText(),
	}, nil
}
