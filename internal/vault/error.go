package vault

import (
	"errors"
	"fmt"

	"github.com/weakphish/notevault/internal/vfs"
)

// Kind classifies what went wrong, so a caller can branch on
// errors.As(err, &vault.Error{}) without parsing a message string.
type Kind int

const (
	VaultPathNotFound Kind = iota
	InvalidPath
	NoteExists
	ReadFileError
	InvalidEncoding
	DBCorrupt
	DBSchemaMismatch
	DBIOError
)

func (k Kind) String() string {
	switch k {
	case VaultPathNotFound:
		return "VaultPathNotFound"
	case InvalidPath:
		return "InvalidPath"
	case NoteExists:
		return "NoteExists"
	case ReadFileError:
		return "ReadFileError"
	case InvalidEncoding:
		return "InvalidEncoding"
	case DBCorrupt:
		return "DBCorrupt"
	case DBSchemaMismatch:
		return "DBSchemaMismatch"
	case DBIOError:
		return "DBIOError"
	default:
		return "Unknown"
	}
}

// Error is the single error type every vault operation returns, wrapping
// a Kind, the path or query involved, and an optional cause.
type Error struct {
	Kind  Kind
	Path  string
	Cause error
}

func (e *Error) Error() string {
	if e.Path == "" {
		if e.Cause != nil {
			return fmt.Sprintf("vault: %s: %v", e.Kind, e.Cause)
		}
		return fmt.Sprintf("vault: %s", e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("vault: %s %q: %v", e.Kind, e.Path, e.Cause)
	}
	return fmt.Sprintf("vault: %s %q", e.Kind, e.Path)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, &vault.Error{Kind: vault.NoteExists}).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// asError is errors.As with the *Error target spelled out once, kept
// private since every caller in this package wants the same assertion.
func asError(err error, target **Error) bool {
	return errors.As(err, target)
}

// wrapVFSError translates a vfs-layer error into the vault's own Kind
// taxonomy.
func wrapVFSError(path interface{ String() string }, err error) error {
	switch {
	case errors.Is(err, vfs.ErrNotFound):
		return &Error{Kind: VaultPathNotFound, Path: path.String(), Cause: err}
	case errors.Is(err, vfs.ErrInvalidEncoding):
		return &Error{Kind: InvalidEncoding, Path: path.String(), Cause: err}
	default:
		return &Error{Kind: ReadFileError, Path: path.String(), Cause: err}
	}
}
