package trash

import (
	"fmt"
	"os"
	"path/filepath"
)

// MacTrash moves items into the macOS user trash (~/.Trash).
type MacTrash struct {
	// Dir overrides the trash directory, mostly for tests.
	Dir string
}

func (t *MacTrash) dir() (string, error) {
	if t.Dir != "" {
		return t.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".Trash"), nil
}

// Put implements Trasher.
func (t *MacTrash) Put(path string) (string, error) {
	dir, err := t.dir()
	if err != nil {
		return "", err
	}

	if _, err := os.Lstat(path); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create trash dir: %w", err)
	}

	name, err := uniqueName(filepath.Base(path), func(candidate string) (bool, error) {
		return exists(filepath.Join(dir, candidate))
	})
	if err != nil {
		return "", err
	}

	dst := filepath.Join(dir, name)
	if err := rename(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}
