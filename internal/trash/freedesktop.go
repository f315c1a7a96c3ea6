package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	trashInfoExt        = ".trashinfo"
	trashInfoTimeLayout = "2006-01-02T15:04:05"
)

// FreedesktopTrash implements the freedesktop.org trash layout used by Linux desktops:
// items live in <dir>/files and each has a <dir>/info/<name>.trashinfo record.
type FreedesktopTrash struct {
	// Dir overrides the trash root; default is $XDG_DATA_HOME/Trash.
	Dir string
	// Now is used for DeletionDate; nil means time.Now.
	Now func() time.Time
}

func (t *FreedesktopTrash) dir() (string, error) {
	if t.Dir != "" {
		return t.Dir, nil
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

func (t *FreedesktopTrash) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Put implements Trasher.
func (t *FreedesktopTrash) Put(path string) (string, error) {
	root, err := t.dir()
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(abs); err != nil {
		return "", err
	}

	filesDir := filepath.Join(root, "files")
	infoDir := filepath.Join(root, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", fmt.Errorf("create trash dir: %w", err)
		}
	}

	name, err := uniqueName(filepath.Base(abs), func(candidate string) (bool, error) {
		taken, err := exists(filepath.Join(filesDir, candidate))
		if err != nil || taken {
			return taken, err
		}
		return exists(filepath.Join(infoDir, candidate+trashInfoExt))
	})
	if err != nil {
		return "", err
	}

	infoPath := filepath.Join(infoDir, name+trashInfoExt)
	if err := t.writeInfo(infoPath, abs); err != nil {
		return "", err
	}

	dst := filepath.Join(filesDir, name)
	if err := rename(abs, dst); err != nil {
		_ = os.Remove(infoPath)
		return "", err
	}
	return dst, nil
}

// writeInfo creates the .trashinfo record exclusively so concurrent trashers never share a name.
func (t *FreedesktopTrash) writeInfo(infoPath, original string) error {
	f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create trash info: %w", err)
	}

	escaped := (&url.URL{Path: original}).EscapedPath()
	_, err = fmt.Fprintf(f, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escaped, t.now().Format(trashInfoTimeLayout))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(infoPath)
		return fmt.Errorf("write trash info: %w", err)
	}
	return nil
}
