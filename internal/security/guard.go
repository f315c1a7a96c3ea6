package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrOutsideBase is returned when a path does not resolve strictly below the base directory.
	ErrOutsideBase = errors.New("path is not inside base directory")

	// ErrParentReference is returned for paths with a ".." element; "link/.." means the
	// parent of the link target to the kernel but the link's own directory to filepath.Clean.
	ErrParentReference = errors.New("path contains a parent directory reference")
)

// BaseGuard checks that paths stay inside a base directory after symlink resolution.
// The scanner and the deleter share it so both apply the same containment rule.
type BaseGuard struct {
	base string
}

// NewBaseGuard creates a guard rooted at base.
func NewBaseGuard(base string) *BaseGuard {
	return &BaseGuard{base: base}
}

// Base returns the unresolved base directory.
func (g *BaseGuard) Base() string {
	return g.base
}

// Check resolves path and the base and returns the resolved path when it lies
// strictly below the resolved base. The base itself is rejected.
func (g *BaseGuard) Check(path string) (string, error) {
	base, err := Resolve(g.base)
	if err != nil {
		return "", fmt.Errorf("resolve base %s: %w", g.base, err)
	}

	resolved, err := Resolve(path)
	if errors.Is(err, ErrParentReference) {
		return "", fmt.Errorf("%w: %w", ErrOutsideBase, err)
	}
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	if !Within(base, resolved) {
		return "", fmt.Errorf("%w: %s resolves to %s (base %s)", ErrOutsideBase, path, resolved, base)
	}

	return resolved, nil
}

// Resolve returns the absolute, symlink-free form of path. Components that do not
// exist yet are appended to the resolved form of their nearest existing ancestor.
// Paths containing ".." are rejected with ErrParentReference.
func Resolve(path string) (string, error) {
	if hasParentRef(path) {
		return "", fmt.Errorf("%w: %s", ErrParentReference, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}

	resolvedParent, err := Resolve(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(abs)), nil
}

func hasParentRef(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// Within reports whether target is strictly below base, comparing whole path
// components. Both paths must already be absolute and clean.
func Within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// protectedBases are directories that can never serve as a base for deletion.
var protectedBases = []string{
	"/",
	"/bin",
	"/etc",
	"/usr",
	"/var",
	"/System",
	"/Library",
	"/Applications",
	"/Users",
	"/home",
}

// ValidateBase rejects base directories whose subtree is too broad to clean safely:
// relative paths, system directories and the home directory itself.
func ValidateBase(base string) error {
	if !filepath.IsAbs(base) {
		return fmt.Errorf("base directory must be absolute: %s", base)
	}

	clean := filepath.Clean(base)
	for _, protected := range protectedBases {
		if clean == protected {
			return fmt.Errorf("refusing to use protected directory as base: %s", clean)
		}
	}

	if home, err := os.UserHomeDir(); err == nil && clean == filepath.Clean(home) {
		return fmt.Errorf("refusing to use home directory as base: %s", clean)
	}

	return nil
}
