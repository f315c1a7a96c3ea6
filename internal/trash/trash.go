// Package trash moves files and directories into the user's trash instead of deleting them.
//
//go:generate mockgen -destination=./mocks/trash.go . Trasher
package trash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrCrossDevice is returned when the trash lives on a different filesystem than the item.
var ErrCrossDevice = errors.New("trash is on a different filesystem")

// Trasher moves items into a recoverable holding area.
type Trasher interface {
	// Put moves path into the trash and returns its location there.
	Put(path string) (string, error)
}

// rename moves src to dst, reporting cross-filesystem moves as ErrCrossDevice.
func rename(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		return fmt.Errorf("%w: %s", ErrCrossDevice, src)
	}
	return err
}

// uniqueName returns the first of name, "stem 2.ext", "stem 3.ext" ... for which
// taken reports false.
func uniqueName(name string, taken func(candidate string) (bool, error)) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		stem, ext = name, ""
	}

	for i := 1; i < maxNameAttempts; i++ {
		candidate := name
		if i > 1 {
			candidate = stem + " " + strconv.Itoa(i) + ext
		}

		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no free trash name for %s", name)
}

const maxNameAttempts = 10000

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
