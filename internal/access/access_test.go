package access

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Automaat/mail-incinerator/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe_Readable(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"V10", "V11", "Vaa", "MailData"} {
		require.NoError(t, os.Mkdir(filepath.Join(base, name), 0o750))
	}

	status := Probe(base)
	assert.True(t, status.Readable)
	assert.Equal(t, 2, status.VersionRoots)
	assert.Empty(t, status.Reason)
	assert.False(t, status.NeedsFullDiskAccess())
}

func TestProbe_Missing(t *testing.T) {
	status := Probe(filepath.Join(t.TempDir(), "Mail"))
	assert.False(t, status.Readable)
	assert.Equal(t, cache.ReasonNotFound, status.Reason)
	assert.False(t, status.NeedsFullDiskAccess())
}

func TestProbe_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	base := filepath.Join(t.TempDir(), "Mail")
	require.NoError(t, os.Mkdir(base, 0o000))
	t.Cleanup(func() { _ = os.Chmod(base, 0o750) })

	status := Probe(base)
	assert.False(t, status.Readable)
	assert.Equal(t, cache.ReasonPermissionDenied, status.Reason)
	assert.True(t, status.NeedsFullDiskAccess())
}

func TestProbe_CountsSymlinkedVersionRootsLikeScan(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "Mail")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "elsewhere", "V12", "Cache"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "V10"), 0o750))
	require.NoError(t, os.Symlink(filepath.Join(root, "elsewhere", "V12"), filepath.Join(base, "V12")))
	require.NoError(t, os.WriteFile(filepath.Join(base, "V13"), []byte("x"), 0o600))

	status := Probe(base)
	assert.True(t, status.Readable)
	assert.Equal(t, 2, status.VersionRoots)
}
