// Package walker drives a bounded parallel traversal of one directory
// level in a vault, classifies each entry against a cached index
// snapshot, and aggregates three disjoint change sets (add / modify /
// delete) plus the directories observed. One call is one level; recursive
// descent into child directories, and the transaction that commits each
// level's change set, are the caller's (internal/vault's) responsibility.
package walker

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/weakphish/notevault/internal/analyser"
	"github.com/weakphish/notevault/internal/vaultmodel"
	"github.com/weakphish/notevault/internal/vaultpath"
	"github.com/weakphish/notevault/internal/vfs"
)

// Mode is the validation policy used to decide whether a previously
// indexed note has changed.
type Mode int

const (
	ModeNone Mode = iota
	ModeFast
	ModeFull
)

// SnapshotEntry is one cached index row, loaded by the caller before a
// walk and handed in as the basis for change classification.
type SnapshotEntry struct {
	Entry   vaultmodel.NoteEntryData
	Details vaultmodel.NoteDetails
}

// maxWorkers bounds the errgroup's concurrent goroutines reading the same
// directory level.
const maxWorkers = 8

// LevelResult is the outcome of walking one directory's immediate
// children: the three disjoint note change sets, the directories found,
// and any per-entry errors that were logged and skipped rather than
// aborting the walk.
type LevelResult struct {
	ToAdd            []vaultmodel.NoteWrite
	ToModify         []vaultmodel.NoteWrite
	ToDelete         []vaultpath.Path
	DirectoriesFound []vaultmodel.DirectoryDetails
	SkippedErrors    []error
}

// Observer receives a best-effort stream of search results as the walk
// proceeds. Sends never block: a slow or absent consumer cannot stall or
// crash the walk.
type Observer chan<- vaultmodel.SearchResult

func emit(observer Observer, result vaultmodel.SearchResult) {
	if observer == nil {
		return
	}
	select {
	case observer <- result:
	default:
	}
}

// WalkLevel visits root/subpath's immediate children (honouring the
// hidden-file filter), classifies every note against snapshot per mode,
// and returns the resulting change sets. It does not touch the index; the
// caller commits LevelResult inside its own transaction.
func WalkLevel(root string, subpath vaultpath.Path, mode Mode, snapshot map[string]SnapshotEntry, observer Observer) (LevelResult, error) {
	entries, err := vfs.ListDir(root, subpath)
	if err != nil {
		return LevelResult{}, fmt.Errorf("walker: list %s: %w", subpath, err)
	}

	toDelete := make(map[string]bool, len(snapshot))
	for key := range snapshot {
		toDelete[key] = true
	}

	var mu sync.Mutex
	var toAdd, toModify []vaultmodel.NoteWrite
	var directories []vaultmodel.DirectoryDetails
	var skipped []error

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(maxWorkers)

	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			switch entry.Kind {
			case vfs.KindDirectory:
				mu.Lock()
				directories = append(directories, vaultmodel.DirectoryDetails{Path: entry.Path})
				mu.Unlock()
				emit(observer, vaultmodel.DirectoryResult{Details: vaultmodel.DirectoryDetails{Path: entry.Path}})
			case vfs.KindAttachment:
				emit(observer, vaultmodel.AttachmentResult{Path: entry.Path})
			case vfs.KindNote:
				key := entry.Path.String()

				mu.Lock()
				cached, hadCache := snapshot[key]
				delete(toDelete, key)
				mu.Unlock()

				fsStat, statErr := vfs.StatNote(root, entry.Path)
				if statErr != nil {
					mu.Lock()
					skipped = append(skipped, fmt.Errorf("walker: stat %s: %w", entry.Path, statErr))
					mu.Unlock()
					return nil
				}
				stat := vaultmodel.NoteEntryData{
					Path:         fsStat.Path,
					Size:         fsStat.Size,
					ModifiedSecs: fsStat.ModifiedSecs,
				}

				changed, needsRead := classify(mode, hadCache, cached.Entry, stat)
				if changed {
					// A detected change always needs fresh content, even
					// under Fast, which only compares stat metadata.
					needsRead = true
				}

				var details vaultmodel.NoteDetails
				var searchableContent string
				if needsRead {
					text, readErr := vfs.LoadNote(root, entry.Path)
					if readErr != nil {
						mu.Lock()
						skipped = append(skipped, fmt.Errorf("walker: read %s: %w", entry.Path, readErr))
						mu.Unlock()
						return nil
					}
					result := analyser.Analyse(text)
					details = vaultmodel.NewNoteDetails(entry.Path, vaultmodel.NoteContentData{
						Title:       result.Title,
						Fingerprint: result.Fingerprint,
					}).WithText(text)
					searchableContent = result.SearchableText()

					if mode == ModeFull && hadCache {
						changed = cached.Details.Content.Fingerprint != result.Fingerprint
					}
				} else {
					details = cached.Details
				}

				write := vaultmodel.NoteWrite{
					Entry:             stat,
					Details:           details,
					SearchableContent: searchableContent,
				}

				mu.Lock()
				switch {
				case !hadCache:
					toAdd = append(toAdd, write)
				case changed:
					toModify = append(toModify, write)
				}
				mu.Unlock()

				emit(observer, vaultmodel.NoteResult{Entry: stat, Details: details})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return LevelResult{}, err
	}

	deletedPaths := make([]vaultpath.Path, 0, len(toDelete))
	for key := range toDelete {
		deletedPaths = append(deletedPaths, vaultpath.FromString(key))
	}

	return LevelResult{
		ToAdd:            toAdd,
		ToModify:         toModify,
		ToDelete:         deletedPaths,
		DirectoriesFound: directories,
		SkippedErrors:    skipped,
	}, nil
}

// classify decides, per validation mode, whether a cached note should be
// treated as changed, and whether the file must be read to find out for
// certain. None never reports change and never reads. Fast compares stat
// only. Full always reads to compare fingerprints (the caller re-derives
// "changed" once the read completes).
func classify(mode Mode, hadCache bool, cached vaultmodel.NoteEntryData, fresh vaultmodel.NoteEntryData) (changed bool, needsRead bool) {
	if !hadCache {
		return true, true
	}
	switch mode {
	case ModeNone:
		return false, false
	case ModeFast:
		return cached.Size != fresh.Size || cached.ModifiedSecs != fresh.ModifiedSecs, false
	case ModeFull:
		return false, true
	default:
		return false, false
	}
}
