package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// SizeResult contains size calculation results with access warnings.
type SizeResult struct {
	Warnings []AccessError
	Size     int64
}

// DirSize sums the sizes of regular files under root. Hidden files and directories
// are skipped and symlinks are not followed. Entries that cannot be read count as
// zero and are reported as warnings. The walk stops with ctx.Err() once ctx is done.
func DirSize(ctx context.Context, root string) (SizeResult, error) {
	var result SizeResult

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				result.Warnings = append(result.Warnings, ClassifyError(path, err))
			}
			return nil
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				result.Warnings = append(result.Warnings, ClassifyError(path, err))
			}
			return nil
		}
		result.Size += info.Size()
		return nil
	})
	if err != nil {
		return SizeResult{}, err
	}

	return result, nil
}
