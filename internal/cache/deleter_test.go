package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	mock_trash "github.com/Automaat/mail-incinerator/internal/trash/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDeletePermanently(t *testing.T) {
	base := t.TempDir()
	createFile(t, base, "V10/A/f.bin", 10)
	createFile(t, base, "V10/B/f.bin", 10)
	createFile(t, base, "V10/MailData/keep.bin", 10)

	d := NewDeleter(base)
	err := d.DeletePermanently(context.Background(), []string{
		filepath.Join(base, "V10", "A"),
		filepath.Join(base, "V10", "B"),
	})
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(base, "V10", "A"))
	assert.NoDirExists(t, filepath.Join(base, "V10", "B"))
	assert.FileExists(t, filepath.Join(base, "V10", "MailData", "keep.bin"))
}

func TestDeletePermanently_OutsideBaseStopsBatch(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "Mail")
	createFile(t, base, "V10/A/f.bin", 10)
	createFile(t, base, "V10/B/f.bin", 10)
	createFile(t, root, "Mail2/V10/X/f.bin", 10)

	outside := filepath.Join(root, "Mail2", "V10", "X")
	err := NewDeleter(base).DeletePermanently(context.Background(), []string{
		filepath.Join(base, "V10", "A"),
		outside,
		filepath.Join(base, "V10", "B"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutsideBase)

	var delErr DeleteError
	require.True(t, errors.As(err, &delErr))
	assert.Equal(t, DeleteOutsideBase, delErr.Kind)
	assert.Equal(t, outside, delErr.Path)

	// not transactional: earlier paths are gone, later ones untouched
	assert.NoDirExists(t, filepath.Join(base, "V10", "A"))
	assert.DirExists(t, outside)
	assert.DirExists(t, filepath.Join(base, "V10", "B"))
}

func TestDeletePermanently_RejectsBaseItself(t *testing.T) {
	base := t.TempDir()
	createFile(t, base, "V10/A/f.bin", 10)

	err := NewDeleter(base).DeletePermanently(context.Background(), []string{base})
	assert.ErrorIs(t, err, ErrOutsideBase)
	assert.DirExists(t, filepath.Join(base, "V10", "A"))
}

func TestDeletePermanently_RejectsDotDotEscape(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "Mail")
	createDir(t, base, "V10")
	createFile(t, root, "victim/f.bin", 10)

	err := NewDeleter(base).DeletePermanently(context.Background(), []string{
		filepath.Join(base, "V10") + "/../../victim",
	})
	assert.ErrorIs(t, err, ErrOutsideBase)
	assert.DirExists(t, filepath.Join(root, "victim"))
}

func TestDeletePermanently_RejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "Mail")
	createDir(t, base, "V10")
	createFile(t, root, "victim/f.bin", 10)

	link := filepath.Join(base, "V10", "Link")
	require.NoError(t, os.Symlink(filepath.Join(root, "victim"), link))

	err := NewDeleter(base).DeletePermanently(context.Background(), []string{link})
	assert.ErrorIs(t, err, ErrOutsideBase)
	assert.FileExists(t, filepath.Join(root, "victim", "f.bin"))
}

func TestDeletePermanently_RejectsDotDotThroughSymlink(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "Mail")
	createDir(t, base, "V10")
	createDir(t, root, "outside/inner")
	createFile(t, root, "outside/secret/f.bin", 10)
	require.NoError(t, os.Symlink(filepath.Join(root, "outside", "inner"), filepath.Join(base, "V10", "link")))

	path := filepath.Join(base, "V10", "link") + "/../secret"
	err := NewDeleter(base).DeletePermanently(context.Background(), []string{path})
	assert.ErrorIs(t, err, ErrOutsideBase)
	assert.FileExists(t, filepath.Join(root, "outside", "secret", "f.bin"))
}

func TestMoveToTrash_DotDotThroughSymlinkNeverReachesTrash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	root := t.TempDir()
	base := filepath.Join(root, "Mail")
	createDir(t, base, "V10")
	createDir(t, root, "outside/inner")
	createDir(t, root, "outside/secret")
	require.NoError(t, os.Symlink(filepath.Join(root, "outside", "inner"), filepath.Join(base, "V10", "link")))

	tr := mock_trash.NewMockTrasher(ctrl)
	err := NewDeleter(base, WithTrasher(tr)).MoveToTrash(context.Background(), []string{
		filepath.Join(base, "V10", "link") + "/../secret",
	})
	assert.ErrorIs(t, err, ErrOutsideBase)
	assert.DirExists(t, filepath.Join(root, "outside", "secret"))
}

func TestDeletePermanently_RemovesResolvedPath(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "Mail")
	createFile(t, base, "V10/A/f.bin", 10)

	link := filepath.Join(root, "MailLink")
	require.NoError(t, os.Symlink(base, link))

	var calls []string
	d := NewDeleter(link, WithRemoveFunc(func(path string) error {
		calls = append(calls, path)
		return nil
	}))

	require.NoError(t, d.DeletePermanently(context.Background(), []string{filepath.Join(link, "V10", "A")}))
	assert.Equal(t, []string{resolvedPath(t, filepath.Join(base, "V10", "A"))}, calls)
}

func TestDeletePermanently_FailureWrapsCause(t *testing.T) {
	base := t.TempDir()
	createFile(t, base, "V10/A/f.bin", 10)
	createFile(t, base, "V10/B/f.bin", 10)

	cause := errors.New("device busy")
	var calls []string
	d := NewDeleter(base, WithRemoveFunc(func(path string) error {
		calls = append(calls, path)
		return cause
	}))

	err := d.DeletePermanently(context.Background(), []string{
		filepath.Join(base, "V10", "A"),
		filepath.Join(base, "V10", "B"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeletionFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{resolvedPath(t, filepath.Join(base, "V10", "A"))}, calls)
}

func TestDeletePermanently_Cancelled(t *testing.T) {
	base := t.TempDir()
	createFile(t, base, "V10/A/f.bin", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewDeleter(base).DeletePermanently(ctx, []string{filepath.Join(base, "V10", "A")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.DirExists(t, filepath.Join(base, "V10", "A"))
}

func TestMoveToTrash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := t.TempDir()
	createFile(t, base, "V10/A/f.bin", 10)
	createFile(t, base, "V11/B/f.bin", 10)

	a := filepath.Join(base, "V10", "A")
	b := filepath.Join(base, "V11", "B")

	tr := mock_trash.NewMockTrasher(ctrl)
	gomock.InOrder(
		tr.EXPECT().Put(resolvedPath(t, a)).Return("/trash/A", nil),
		tr.EXPECT().Put(resolvedPath(t, b)).Return("/trash/B", nil),
	)

	err := NewDeleter(base, WithTrasher(tr)).MoveToTrash(context.Background(), []string{a, b})
	require.NoError(t, err)
}

func TestMoveToTrash_FailureStopsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := t.TempDir()
	createFile(t, base, "V10/A/f.bin", 10)
	createFile(t, base, "V10/B/f.bin", 10)

	a := filepath.Join(base, "V10", "A")
	b := filepath.Join(base, "V10", "B")
	cause := errors.New("trash full")

	tr := mock_trash.NewMockTrasher(ctrl)
	tr.EXPECT().Put(resolvedPath(t, a)).Return("", cause).Times(1)

	err := NewDeleter(base, WithTrasher(tr)).MoveToTrash(context.Background(), []string{a, b})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTrashFailed)
	assert.ErrorIs(t, err, cause)

	var delErr DeleteError
	require.True(t, errors.As(err, &delErr))
	assert.Equal(t, a, delErr.Path)
}

func TestMoveToTrash_OutsideBaseNeverReachesTrash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := t.TempDir()
	tr := mock_trash.NewMockTrasher(ctrl)

	err := NewDeleter(base, WithTrasher(tr)).MoveToTrash(context.Background(), []string{"/etc/hosts"})
	assert.ErrorIs(t, err, ErrOutsideBase)
}

func TestScanThenDelete_ScannedEntriesAreAccepted(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "Mail")
	createFile(t, base, "V10/A/f.bin", 10)
	createFile(t, base, "V11/B/f.bin", 20)
	createFile(t, base, "V11/MailData/keep.bin", 30)

	link := filepath.Join(root, "MailLink")
	require.NoError(t, os.Symlink(base, link))

	entries, err := NewScanner(link).Scan(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, NewDeleter(link).DeletePermanently(context.Background(), Paths(entries)))

	again, err := NewScanner(link).Scan(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.FileExists(t, filepath.Join(base, "V11", "MailData", "keep.bin"))
}

func resolvedPath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}
