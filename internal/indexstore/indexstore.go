// Package indexstore is the persistent index behind a vault: schema,
// CRUD, versioning, corruption detection, and full-text query. Plain
// tables are managed through gorm; the FTS4 virtual table is outside what
// AutoMigrate can create, so its DDL and MATCH queries run as raw SQL
// against the *sql.DB gorm hands back.
package indexstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/weakphish/notevault/internal/vaultmodel"
	"github.com/weakphish/notevault/internal/vaultpath"
)

// schemaVersion is the single compatibility token stored in appData. Any
// change to schema semantics must bump this.
const schemaVersion = "1"

// Status classifies the health of an index file relative to the running
// code, per the state machine in the facade's init_and_validate.
type Status int

const (
	StatusFileNotFound Status = iota
	StatusNotValid
	StatusOutdated
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusFileNotFound:
		return "FileNotFound"
	case StatusNotValid:
		return "NotValid"
	case StatusOutdated:
		return "Outdated"
	case StatusReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// NoteRow is the gorm model backing the "notes" table. Column names are
// part of the wire contract, so they're pinned explicitly rather than left
// to gorm's default snake_case conversion.
type NoteRow struct {
	Path     string `gorm:"column:path;primaryKey"`
	Title    string `gorm:"column:title"`
	Size     int64  `gorm:"column:size"`
	Modified int64  `gorm:"column:modified"`
	Hash     int64  `gorm:"column:hash"`
	BasePath string `gorm:"column:basePath;index"`
	NoteName string `gorm:"column:noteName"`
}

func (NoteRow) TableName() string { return "notes" }

// DirectoryRow is the gorm model backing the "directories" table.
type DirectoryRow struct {
	Path     string `gorm:"column:path;primaryKey"`
	BasePath string `gorm:"column:basePath;index"`
}

func (DirectoryRow) TableName() string { return "directories" }

// AppDataRow is the gorm model backing the "appData" table.
type AppDataRow struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value string `gorm:"column:value"`
}

func (AppDataRow) TableName() string { return "appData" }

// Store owns the single connection to a vault's index file. All
// operations are serialised behind mu, matching the single-threaded index
// connection the facade dispatches to.
type Store struct {
	path  string
	mu    sync.Mutex
	db    *gorm.DB
	sqlDB *sql.DB
}

// Open opens (or creates) the SQLite file at path, using the pure-Go
// glebarez/sqlite driver so the binary stays CGO-free.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("indexstore: open %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("indexstore: underlying sql.DB: %w", err)
	}
	return &Store{path: path, db: db, sqlDB: sqlDB}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// requiredTables lists every table Status checks for before considering
// an index file structurally valid.
var requiredTables = []string{"appData", "notes", "directories", "notesContent"}

// Status reports the index file's health without mutating it.
func (s *Store) Status() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return StatusFileNotFound, nil
	}

	for _, table := range requiredTables {
		var name string
		row := s.sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type IN ('table','view') AND name = ?", table)
		if err := row.Scan(&name); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return StatusNotValid, nil
			}
			return StatusNotValid, nil
		}
	}

	var version string
	row := s.sqlDB.QueryRow(`SELECT value FROM appData WHERE name = 'version'`)
	if err := row.Scan(&version); err != nil {
		return StatusNotValid, nil
	}
	if version != schemaVersion {
		return StatusOutdated, nil
	}
	return StatusReady, nil
}

// Init drops every table the schema owns, vacuums the file, recreates the
// schema, and stamps the current version. It is destructive by design:
// callers reach it only via the FileNotFound/NotValid/Outdated transitions.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropStmts := []string{
		`DROP TABLE IF EXISTS notes_terms`,
		`DROP TABLE IF EXISTS notesContent`,
		`DROP TABLE IF EXISTS notes`,
		`DROP TABLE IF EXISTS directories`,
		`DROP TABLE IF EXISTS appData`,
	}
	for _, stmt := range dropStmts {
		if _, err := s.sqlDB.Exec(stmt); err != nil {
			return fmt.Errorf("indexstore: %s: %w", stmt, err)
		}
	}
	if _, err := s.sqlDB.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("indexstore: vacuum: %w", err)
	}

	if err := s.db.AutoMigrate(&AppDataRow{}, &NoteRow{}, &DirectoryRow{}); err != nil {
		return fmt.Errorf("indexstore: automigrate: %w", err)
	}
	if _, err := s.sqlDB.Exec(`CREATE VIRTUAL TABLE notesContent USING fts4(path, content)`); err != nil {
		return fmt.Errorf("indexstore: create notesContent: %w", err)
	}
	if _, err := s.sqlDB.Exec(`CREATE VIRTUAL TABLE notes_terms USING fts4aux(notesContent)`); err != nil {
		return fmt.Errorf("indexstore: create notes_terms: %w", err)
	}

	if err := s.db.Create(&AppDataRow{Name: "version", Value: schemaVersion}).Error; err != nil {
		return fmt.Errorf("indexstore: stamp version: %w", err)
	}
	return nil
}

// SearchTerms issues an FTS MATCH against notesContent, joining back to
// notes for metadata. No cached text is returned on a search result.
func (s *Store) SearchTerms(query string, wildcard bool) ([]vaultmodel.NoteEntryData, []vaultmodel.NoteDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target string
	if wildcard {
		target = "c MATCH ?"
	} else {
		target = "c.content MATCH ?"
	}
	sqlText := fmt.Sprintf(`
		SELECT n.path, n.title, n.size, n.modified, n.hash
		FROM notesContent c
		JOIN notes n ON n.path = c.path
		WHERE %s`, target)

	rows, err := s.sqlDB.Query(sqlText, query)
	if err != nil {
		return nil, nil, fmt.Errorf("indexstore: search %q: %w", query, err)
	}
	defer rows.Close()

	var entries []vaultmodel.NoteEntryData
	var details []vaultmodel.NoteDetails
	for rows.Next() {
		var path, title string
		var size, modified, hash int64
		if err := rows.Scan(&path, &title, &size, &modified, &hash); err != nil {
			return nil, nil, fmt.Errorf("indexstore: scan search row: %w", err)
		}
		p := vaultpath.FromString(path)
		entries = append(entries, vaultmodel.NoteEntryData{Path: p, Size: size, ModifiedSecs: modified})
		details = append(details, vaultmodel.NewNoteDetails(
			p,
			vaultmodel.NoteContentData{Title: title, Fingerprint: uint32(hash)},
		))
	}
	return entries, details, rows.Err()
}

// GetNotes is a pure read of the index: non-recursive returns rows whose
// basePath equals the displayed subpath; recursive also includes rows
// whose basePath begins with it.
func (s *Store) GetNotes(subpath vaultpath.Path, recursive bool) ([]vaultmodel.NoteEntryData, []vaultmodel.NoteDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subpathStr := subpath.String()
	query := s.db.Model(&NoteRow{})
	if recursive {
		likePrefix := likePrefixFor(subpathStr)
		query = query.Where(`"basePath" = ? OR "basePath" LIKE ?`, subpathStr, likePrefix)
	} else {
		query = query.Where(`"basePath" = ?`, subpathStr)
	}

	var rows []NoteRow
	if err := query.Order(`"path"`).Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("indexstore: get_notes %s: %w", subpathStr, err)
	}

	entries := make([]vaultmodel.NoteEntryData, 0, len(rows))
	details := make([]vaultmodel.NoteDetails, 0, len(rows))
	for _, r := range rows {
		p := vaultpath.FromString(r.Path)
		entries = append(entries, vaultmodel.NoteEntryData{Path: p, Size: r.Size, ModifiedSecs: r.Modified})
		details = append(details, vaultmodel.NewNoteDetails(p, vaultmodel.NoteContentData{
			Title:       r.Title,
			Fingerprint: uint32(r.Hash),
		}))
	}
	return entries, details, nil
}

func likePrefixFor(subpathStr string) string {
	if subpathStr == "/" {
		return "/%"
	}
	return subpathStr + "/%"
}

// GetNote returns a single note row by exact path, or ok=false if absent.
func (s *Store) GetNote(path vaultpath.Path) (vaultmodel.NoteEntryData, vaultmodel.NoteDetails, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var row NoteRow
	err := s.db.Where(`"path" = ?`, path.String()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vaultmodel.NoteEntryData{}, vaultmodel.NoteDetails{}, false, nil
	}
	if err != nil {
		return vaultmodel.NoteEntryData{}, vaultmodel.NoteDetails{}, false, fmt.Errorf("indexstore: get_note %s: %w", path, err)
	}
	entry := vaultmodel.NoteEntryData{Path: path, Size: row.Size, ModifiedSecs: row.Modified}
	details := vaultmodel.NewNoteDetails(path, vaultmodel.NoteContentData{Title: row.Title, Fingerprint: uint32(row.Hash)})
	return entry, details, true, nil
}

// Tx scopes a batch of mutations to one transaction. The caller (almost
// always the walker, once per directory level) controls the transaction
// boundary; Tx itself never commits or rolls back on its own.
type Tx struct {
	db *gorm.DB
}

// WithTransaction runs fn inside a single database transaction, committing
// on a nil return and rolling back otherwise.
func (s *Store) WithTransaction(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(gtx *gorm.DB) error {
		return fn(&Tx{db: gtx})
	})
}

func toNoteRow(w vaultmodel.NoteWrite) NoteRow {
	parent, name := w.Entry.Path.Parent()
	return NoteRow{
		Path:     w.Entry.Path.String(),
		Title:    w.Details.Content.Title,
		Size:     w.Entry.Size,
		Modified: w.Entry.ModifiedSecs,
		Hash:     int64(w.Details.Content.Fingerprint),
		BasePath: parent.String(),
		NoteName: name,
	}
}

// InsertNotes adds a batch of new notes to both notes and notesContent.
func (t *Tx) InsertNotes(writes []vaultmodel.NoteWrite) error {
	for _, w := range writes {
		row := toNoteRow(w)
		if err := t.db.Create(&row).Error; err != nil {
			return fmt.Errorf("indexstore: insert note %s: %w", row.Path, err)
		}
		if err := t.db.Exec(`INSERT INTO notesContent (path, content) VALUES (?, ?)`, row.Path, w.SearchableContent).Error; err != nil {
			return fmt.Errorf("indexstore: insert notesContent %s: %w", row.Path, err)
		}
	}
	return nil
}

// UpdateNotes overwrites a batch of existing notes in both notes and
// notesContent.
func (t *Tx) UpdateNotes(writes []vaultmodel.NoteWrite) error {
	for _, w := range writes {
		row := toNoteRow(w)
		if err := t.db.Save(&row).Error; err != nil {
			return fmt.Errorf("indexstore: update note %s: %w", row.Path, err)
		}
		if err := t.db.Exec(`UPDATE notesContent SET content = ? WHERE path = ?`, w.SearchableContent, row.Path).Error; err != nil {
			return fmt.Errorf("indexstore: update notesContent %s: %w", row.Path, err)
		}
	}
	return nil
}

// DeleteNotes removes a batch of notes from both notes and notesContent.
func (t *Tx) DeleteNotes(paths []vaultpath.Path) error {
	for _, p := range paths {
		pathStr := p.String()
		if err := t.db.Where(`"path" = ?`, pathStr).Delete(&NoteRow{}).Error; err != nil {
			return fmt.Errorf("indexstore: delete note %s: %w", pathStr, err)
		}
		if err := t.db.Exec(`DELETE FROM notesContent WHERE path = ?`, pathStr).Error; err != nil {
			return fmt.Errorf("indexstore: delete notesContent %s: %w", pathStr, err)
		}
	}
	return nil
}

// SaveNote upserts a single note: insert if absent, update otherwise.
func (t *Tx) SaveNote(w vaultmodel.NoteWrite) error {
	var existing int64
	if err := t.db.Model(&NoteRow{}).Where(`"path" = ?`, w.Entry.Path.String()).Count(&existing).Error; err != nil {
		return fmt.Errorf("indexstore: save_note lookup %s: %w", w.Entry.Path, err)
	}
	if existing > 0 {
		return t.UpdateNotes([]vaultmodel.NoteWrite{w})
	}
	return t.InsertNotes([]vaultmodel.NoteWrite{w})
}

// UpsertDirectories records every directory observed at a level.
func (t *Tx) UpsertDirectories(dirs []vaultmodel.DirectoryDetails) error {
	for _, d := range dirs {
		parent, _ := d.Path.Parent()
		row := DirectoryRow{Path: d.Path.String(), BasePath: parent.String()}
		if err := t.db.Save(&row).Error; err != nil {
			return fmt.Errorf("indexstore: upsert directory %s: %w", row.Path, err)
		}
	}
	return nil
}

// ReplaceDirectoriesUnder keeps only keep's directory rows whose basePath
// is parent, deleting any stale ones left over from a prior walk of the
// same level. This is the directory analogue of the notes to_delete
// reconciliation, kept intentionally simple since directory persistence is
// not load-bearing for any invariant.
func (t *Tx) ReplaceDirectoriesUnder(parent vaultpath.Path, keep []vaultmodel.DirectoryDetails) error {
	keepPaths := make([]string, len(keep))
	for i, d := range keep {
		keepPaths[i] = d.Path.String()
	}

	query := t.db.Where(`"basePath" = ?`, parent.String())
	if len(keepPaths) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keepPaths)), ",")
		args := make([]interface{}, len(keepPaths)+1)
		args[0] = parent.String()
		for i, p := range keepPaths {
			args[i+1] = p
		}
		sqlText := fmt.Sprintf(`"basePath" = ? AND "path" NOT IN (%s)`, placeholders)
		query = t.db.Where(sqlText, args...)
	}
	if err := query.Delete(&DirectoryRow{}).Error; err != nil {
		return fmt.Errorf("indexstore: reconcile directories under %s: %w", parent, err)
	}
	return t.UpsertDirectories(keep)
}
