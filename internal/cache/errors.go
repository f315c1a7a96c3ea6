package cache

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// AccessError represents a file access error with classification.
type AccessError struct {
	Err    error
	Path   string
	Reason string
}

func (e AccessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e AccessError) Unwrap() error {
	return e.Err
}

// Reason constants for error classification.
const (
	ReasonPermissionDenied = "permission denied"
	ReasonFileLocked       = "file locked"
	ReasonNotFound         = "not found"
	ReasonNotDirectory     = "not a directory"
	ReasonUnknown          = "access error"
)

// ClassifyError determines the reason for a file access error.
func ClassifyError(path string, err error) AccessError {
	if err == nil {
		return AccessError{Path: path, Reason: ReasonUnknown}
	}

	reason := ReasonUnknown

	switch {
	case errors.Is(err, os.ErrPermission):
		reason = ReasonPermissionDenied
	case errors.Is(err, os.ErrNotExist):
		reason = ReasonNotFound
	case errors.Is(err, syscall.ENOTDIR):
		reason = ReasonNotDirectory
	case errors.Is(err, syscall.EBUSY):
		reason = ReasonFileLocked
	case errors.Is(err, syscall.ETXTBSY):
		reason = ReasonFileLocked
	}

	return AccessError{
		Path:   path,
		Reason: reason,
		Err:    err,
	}
}

// Sentinels matched by ScanError and DeleteError through errors.Is.
var (
	ErrBaseNotFound     = errors.New("base directory not found")
	ErrInvalidCandidate = errors.New("invalid cache candidate")
	ErrOutsideBase      = errors.New("path outside base directory")
	ErrDeletionFailed   = errors.New("deletion failed")
	ErrTrashFailed      = errors.New("move to trash failed")
)

// ScanErrorKind enumerates the ways a scan can fail.
type ScanErrorKind int

const (
	// ScanBaseNotFound means the base directory is missing or cannot be listed.
	ScanBaseNotFound ScanErrorKind = iota + 1
	// ScanInvalidCandidate means a candidate failed the containment check.
	ScanInvalidCandidate
)

func (k ScanErrorKind) String() string {
	switch k {
	case ScanBaseNotFound:
		return "base_not_found"
	case ScanInvalidCandidate:
		return "invalid_candidate"
	default:
		return "unknown"
	}
}

// ScanError is returned by Scanner.Scan. Path is the base for ScanBaseNotFound
// and the offending candidate for ScanInvalidCandidate.
type ScanError struct {
	Err  error
	Path string
	Kind ScanErrorKind
}

func (e ScanError) Error() string {
	switch e.Kind {
	case ScanBaseNotFound:
		return fmt.Sprintf("base directory not found: %s", e.Path)
	case ScanInvalidCandidate:
		return fmt.Sprintf("invalid candidate outside base: %s", e.Path)
	default:
		return fmt.Sprintf("scan error: %s", e.Path)
	}
}

func (e ScanError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e ScanError) Is(target error) bool {
	switch e.Kind {
	case ScanBaseNotFound:
		return target == ErrBaseNotFound
	case ScanInvalidCandidate:
		return target == ErrInvalidCandidate
	}
	return false
}

// DeleteErrorKind enumerates the ways a delete batch can fail.
type DeleteErrorKind int

const (
	// DeleteOutsideBase means the path failed the containment check.
	DeleteOutsideBase DeleteErrorKind = iota + 1
	// DeleteFailed means permanent removal failed.
	DeleteFailed
	// TrashFailed means moving to the trash failed.
	TrashFailed
)

func (k DeleteErrorKind) String() string {
	switch k {
	case DeleteOutsideBase:
		return "outside_base_path"
	case DeleteFailed:
		return "deletion_failed"
	case TrashFailed:
		return "trash_failed"
	default:
		return "unknown"
	}
}

// DeleteError is returned by Deleter. Err holds the underlying cause.
type DeleteError struct {
	Err  error
	Path string
	Kind DeleteErrorKind
}

func (e DeleteError) Error() string {
	switch e.Kind {
	case DeleteOutsideBase:
		return fmt.Sprintf("path outside base directory: %s", e.Path)
	case DeleteFailed:
		return fmt.Sprintf("delete %s: %v", e.Path, e.Err)
	case TrashFailed:
		return fmt.Sprintf("move %s to trash: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("delete error: %s", e.Path)
	}
}

func (e DeleteError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e DeleteError) Is(target error) bool {
	switch e.Kind {
	case DeleteOutsideBase:
		return target == ErrOutsideBase
	case DeleteFailed:
		return target == ErrDeletionFailed
	case TrashFailed:
		return target == ErrTrashFailed
	}
	return false
}
