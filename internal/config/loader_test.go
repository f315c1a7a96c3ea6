package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadSaveCycle(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	loader := NewLoader()
	loader.SetConfigPath(configPath)

	cfg := DefaultConfig()
	cfg.BaseDir = filepath.Join(tmpDir, "Mail")
	cfg.Mode = ModePermanent
	cfg.Concurrency = 3
	cfg.WarnSize = "2G"
	cfg.MailCheckCmd = ""

	require.NoError(t, loader.Save(cfg))

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file not created")
	}

	loader2 := NewLoader()
	loader2.SetConfigPath(configPath)
	loaded, err := loader2.Load()
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestLoader_MissingKeysUseDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := "version: \"1\"\nbase_dir: " + tmpDir + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	loader := NewLoader()
	loader.SetConfigPath(configPath)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, tmpDir, cfg.BaseDir)
	assert.Equal(t, ModeTrash, cfg.Mode)
	assert.Equal(t, "pgrep -x Mail", cfg.MailCheckCmd)
	assert.Equal(t, "500M", cfg.WarnSize)
}

func TestLoader_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := "version: \"1\"\nbase_dir: " + tmpDir + "\nmode: trash\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	override := filepath.Join(tmpDir, "Other")
	t.Setenv("MAIL_INCINERATOR_BASE_DIR", override)
	t.Setenv("MAIL_INCINERATOR_MODE", "permanent")
	t.Setenv("MAIL_INCINERATOR_CONCURRENCY", "4")

	loader := NewLoader()
	loader.SetConfigPath(configPath)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, override, cfg.BaseDir)
	assert.Equal(t, ModePermanent, cfg.Mode)
	assert.Equal(t, 4, cfg.Concurrency)
}

func TestLoader_LoadInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := "version: \"1\"\nbase_dir: " + tmpDir + "\nmode: shred\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	loader := NewLoader()
	loader.SetConfigPath(configPath)
	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestLoader_LoadMissingFile(t *testing.T) {
	loader := NewLoader()
	loader.SetConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := loader.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoader_LoadOrCreate(t *testing.T) {
	t.Setenv("MAIL_INCINERATOR_BASE_DIR", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	loader := NewLoader()
	loader.SetConfigPath(configPath)

	cfg, created, err := loader.LoadOrCreate()
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, ModeTrash, cfg.Mode)
	assert.FileExists(t, configPath)

	_, created, err = NewLoaderAt(configPath).LoadOrCreate()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLoader_InitDefault(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	loader := NewLoader()
	loader.SetConfigPath(configPath)

	created, err := loader.InitDefault()
	require.NoError(t, err)
	assert.True(t, created)

	created, err = loader.InitDefault()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLoader_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	loader := NewLoader()
	loader.SetConfigPath(configPath)

	exists, err := loader.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	if err := os.WriteFile(configPath, []byte("version: 1\n"), 0o600); err != nil {
		t.Fatalf("create file: %v", err)
	}

	exists, err = loader.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if loader.v == nil {
		t.Fatal("NewLoader() viper instance is nil")
	}
}
