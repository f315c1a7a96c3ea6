package cache

import (
	"context"
	"os"

	"github.com/Automaat/mail-incinerator/internal/security"
	"github.com/Automaat/mail-incinerator/internal/trash"
)

// Deleter removes cache folders that lie inside a base directory.
// Paths are handled one at a time in the order given; the first failure stops the
// batch and earlier paths stay removed. The symlink-free path returned by the guard
// is the one removed.
type Deleter struct {
	guard   *security.BaseGuard
	trasher trash.Trasher
	remove  func(string) error
}

// DeleterOption configures a Deleter.
type DeleterOption func(*Deleter)

// WithTrasher replaces the platform trash.
func WithTrasher(t trash.Trasher) DeleterOption {
	return func(d *Deleter) {
		d.trasher = t
	}
}

// WithRemoveFunc replaces os.RemoveAll for permanent deletion.
func WithRemoveFunc(fn func(string) error) DeleterOption {
	return func(d *Deleter) {
		d.remove = fn
	}
}

// NewDeleter creates a deleter restricted to base.
func NewDeleter(base string, opts ...DeleterOption) *Deleter {
	d := &Deleter{
		guard:   security.NewBaseGuard(base),
		trasher: trash.New(),
		remove:  os.RemoveAll,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Base returns the base directory deletions are restricted to.
func (d *Deleter) Base() string {
	return d.guard.Base()
}

// DeletePermanently removes every path irrecoverably.
func (d *Deleter) DeletePermanently(ctx context.Context, paths []string) error {
	return d.each(ctx, paths, DeleteFailed, d.remove)
}

// MoveToTrash moves every path into the trash.
func (d *Deleter) MoveToTrash(ctx context.Context, paths []string) error {
	return d.each(ctx, paths, TrashFailed, func(path string) error {
		_, err := d.trasher.Put(path)
		return err
	})
}

func (d *Deleter) each(ctx context.Context, paths []string, failKind DeleteErrorKind, op func(string) error) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		resolved, err := d.guard.Check(path)
		if err != nil {
			return DeleteError{Kind: DeleteOutsideBase, Path: path, Err: err}
		}

		// act on what was checked, not on the caller's spelling of it
		if err := op(resolved); err != nil {
			return DeleteError{Kind: failKind, Path: path, Err: err}
		}
	}
	return nil
}
