package cache

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
)

// Entry is a cache folder found directly inside a version root.
type Entry struct {
	Path string
	Size int64
}

// Name returns the folder name.
func (e Entry) Name() string {
	return filepath.Base(e.Path)
}

// Version returns the name of the version root holding the entry, e.g. "V10".
func (e Entry) Version() string {
	return filepath.Base(filepath.Dir(e.Path))
}

// TotalSize sums the sizes of entries.
func TotalSize(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total
}

// Paths returns entry paths in order.
func Paths(entries []Entry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

// versionRootPattern matches "V" followed by digits, three characters at least.
var versionRootPattern = regexp.MustCompile(`^V([0-9]{2,})$`)

// reservedName is the mailbox store inside each version root; it is never a candidate.
const reservedName = "MailData"

// IsVersionRoot reports whether name looks like a mail storage generation directory.
func IsVersionRoot(name string) bool {
	return versionRootPattern.MatchString(name)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// sortVersionRoots orders version root names by their numeric version, oldest first.
func sortVersionRoots(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return compareVersionRoots(names[i], names[j]) < 0
	})
}

func compareVersionRoots(a, b string) int {
	va, errA := version.NewVersion(strings.TrimPrefix(a, "V"))
	vb, errB := version.NewVersion(strings.TrimPrefix(b, "V"))
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	if c := va.Compare(vb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
