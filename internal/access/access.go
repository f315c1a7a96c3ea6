// Package access checks whether the mail storage directory can be read. On macOS a
// terminal without Full Disk Access sees ~/Library/Mail but cannot list it.
package access

import (
	"os"
	"path/filepath"

	"github.com/Automaat/mail-incinerator/internal/cache"
)

// Status is the outcome of probing a base directory.
type Status struct {
	Base         string `json:"base"`
	Reason       string `json:"reason,omitempty"`
	VersionRoots int    `json:"version_roots"`
	Readable     bool   `json:"readable"`
}

// NeedsFullDiskAccess reports whether the failure looks like a privacy restriction
// rather than a missing directory.
func (s Status) NeedsFullDiskAccess() bool {
	return !s.Readable && s.Reason == cache.ReasonPermissionDenied
}

// Probe lists base and counts its version roots. It never returns an error;
// failures are classified into Status.Reason.
func Probe(base string) Status {
	status := Status{Base: base}

	dirEntries, err := os.ReadDir(base)
	if err != nil {
		status.Reason = cache.ClassifyError(base, err).Reason
		return status
	}

	status.Readable = true
	for _, d := range dirEntries {
		if cache.IsVersionRoot(d.Name()) && cache.IsDir(filepath.Join(base, d.Name()), d) {
			status.VersionRoots++
		}
	}
	return status
}
