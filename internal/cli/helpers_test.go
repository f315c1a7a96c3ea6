package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Automaat/mail-incinerator/internal/config"
	"github.com/Automaat/mail-incinerator/internal/trash"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	// Read in goroutine to avoid pipe buffer deadlock
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, r)
		close(done)
	}()

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old
	<-done
	return buf.String()
}

// createMailDir lays out a base with two cache folders (1 KiB and 2 KiB) and a
// MailData folder that must survive every clean.
func createMailDir(t *testing.T) string {
	t.Helper()
	base := filepath.Join(t.TempDir(), "Mail")
	files := map[string]int{
		"V10/Cache1/a.bin":              1024,
		"V11/Cache2/sub/b.bin":          2048,
		"V10/MailData/Envelope Index":   4096,
		"V11/MailData/Signatures/x.bin": 10,
	}
	for rel, n := range files {
		path := filepath.Join(base, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, make([]byte, n), 0o600))
	}
	return base
}

var configKeys = []string{
	"version", "base_dir", "mode", "concurrency", "scan_timeout", "warn_size", "log_level", "mail_check_cmd",
}

// createTempConfig writes a permanent-mode config for base. overrides replaces
// individual keys with raw YAML values.
func createTempConfig(t *testing.T, base string, overrides map[string]string) *config.Loader {
	t.Helper()
	values := map[string]string{
		"version":        `"1"`,
		"base_dir":       base,
		"mode":           "permanent",
		"concurrency":    "2",
		"scan_timeout":   "1m",
		"warn_size":      "2K",
		"log_level":      "error",
		"mail_check_cmd": `""`,
	}
	for k, v := range overrides {
		values[k] = v
	}

	var b strings.Builder
	for _, key := range configKeys {
		b.WriteString(key + ": " + values[key] + "\n")
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(b.String()), 0o600))

	return config.NewLoaderAt(cfgPath)
}

func createStdinWithInput(t *testing.T, input string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// useTempTrash routes trash moves into a temporary directory.
func useTempTrash(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := newTrasher
	newTrasher = func() trash.Trasher { return &trash.MacTrash{Dir: dir} }
	t.Cleanup(func() { newTrasher = old })
	return dir
}

func withTerminal(t *testing.T, interactive bool) {
	t.Helper()
	old := isTerminal
	isTerminal = func(*os.File) bool { return interactive }
	t.Cleanup(func() { isTerminal = old })
}
