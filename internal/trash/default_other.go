//go:build !darwin

package trash

// New returns the trash for the current platform.
func New() Trasher {
	return &FreedesktopTrash{}
}
