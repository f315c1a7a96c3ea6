package cache

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/Automaat/mail-incinerator/internal/security"
	"golang.org/x/sync/errgroup"
)

// Scanner finds cache folders inside the version roots of a mail storage directory.
type Scanner struct {
	log         *slog.Logger
	base        string
	concurrency int
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithConcurrency limits how many folders are sized at once. Zero or less means one per CPU.
func WithConcurrency(n int) ScannerOption {
	return func(s *Scanner) {
		s.concurrency = n
	}
}

// WithScanLogger sets the logger that receives access warnings.
func WithScanLogger(l *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// NewScanner creates a scanner for the given base directory.
func NewScanner(base string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		base: base,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Base returns the configured base directory.
func (s *Scanner) Base() string {
	return s.base
}

func (s *Scanner) workers() int {
	if s.concurrency > 0 {
		return s.concurrency
	}
	return runtime.NumCPU()
}

// Scan lists every cache folder under base/V<digits>/ except MailData and returns it
// with its recursive size. baseOverride replaces the configured base when non-empty.
//
// Folders are sized concurrently. A candidate that resolves outside the base aborts
// the whole scan with a ScanInvalidCandidate error; nothing partial is returned.
// Entries are sorted by path.
func (s *Scanner) Scan(ctx context.Context, baseOverride string) ([]Entry, error) {
	base := s.base
	if baseOverride != "" {
		base = baseOverride
	}

	roots, err := versionRoots(base)
	if err != nil {
		return nil, ScanError{Kind: ScanBaseNotFound, Path: base, Err: err}
	}

	guard := security.NewBaseGuard(base)

	groupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(groupCtx)
	g.SetLimit(s.workers())

	var (
		mu      sync.Mutex
		entries = make([]Entry, 0)
	)

	abort := func(err error) ([]Entry, error) {
		cancel()
		_ = g.Wait()
		return nil, err
	}

	for _, root := range roots {
		candidates, err := listCandidates(root)
		if err != nil {
			return abort(fmt.Errorf("list version root: %w", ClassifyError(root, err)))
		}

		for _, candidate := range candidates {
			candidate := candidate
			resolved, err := guard.Check(candidate)
			if err != nil {
				return abort(ScanError{Kind: ScanInvalidCandidate, Path: candidate, Err: err})
			}

			g.Go(func() error {
				res, err := DirSize(gctx, resolved)
				if err != nil {
					return err
				}
				for _, w := range res.Warnings {
					s.log.Debug("size warning", "path", w.Path, "reason", w.Reason)
				}

				mu.Lock()
				entries = append(entries, Entry{Path: candidate, Size: res.Size})
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", base, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", base, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries, nil
}

// versionRoots returns the paths of version root directories directly under base,
// ordered by version.
func versionRoots(base string) ([]string, error) {
	dirEntries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, d := range dirEntries {
		name := d.Name()
		if isHidden(name) || !IsVersionRoot(name) {
			continue
		}
		if !IsDir(filepath.Join(base, name), d) {
			continue
		}
		names = append(names, name)
	}

	sortVersionRoots(names)

	roots := make([]string, len(names))
	for i, name := range names {
		roots[i] = filepath.Join(base, name)
	}
	return roots, nil
}

// listCandidates returns the directories directly inside a version root, skipping
// hidden entries, MailData and anything that is not a directory.
func listCandidates(root string) ([]string, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, d := range dirEntries {
		name := d.Name()
		if isHidden(name) || name == reservedName {
			continue
		}
		path := filepath.Join(root, name)
		if !IsDir(path, d) {
			continue
		}
		candidates = append(candidates, path)
	}
	return candidates, nil
}

// IsDir reports whether d is a directory, following symlinks. The scanner and the
// access probe both use it to decide what counts as a version root.
func IsDir(path string, d fs.DirEntry) bool {
	if d.IsDir() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
