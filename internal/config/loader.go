package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override config keys,
// e.g. MAIL_INCINERATOR_BASE_DIR.
const EnvPrefix = "MAIL_INCINERATOR"

// Loader handles config file operations.
type Loader struct {
	v          *viper.Viper
	configPath string // override for testing, empty uses Path()
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// NewLoaderAt creates a loader bound to a specific config file.
func NewLoaderAt(path string) *Loader {
	l := NewLoader()
	l.SetConfigPath(path)
	return l
}

func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range values(cfg) {
		v.SetDefault(key, value)
	}
}

func values(cfg *Config) map[string]any {
	return map[string]any{
		"version":        cfg.Version,
		"base_dir":       cfg.BaseDir,
		"mode":           cfg.Mode,
		"concurrency":    cfg.Concurrency,
		"scan_timeout":   cfg.ScanTimeout,
		"warn_size":      cfg.WarnSize,
		"log_level":      cfg.LogLevel,
		"mail_check_cmd": cfg.MailCheckCmd,
	}
}

// SetConfigPath overrides config path (for testing).
func (l *Loader) SetConfigPath(path string) {
	l.configPath = path
}

// ConfigPath returns the file the loader reads and writes.
func (l *Loader) ConfigPath() (string, error) {
	if l.configPath != "" {
		return l.configPath, nil
	}
	return Path()
}

// Load reads and validates config from disk. Keys missing from the file fall back
// to defaults and environment variables override both.
func (l *Loader) Load() (*Config, error) {
	configPath, err := l.ConfigPath()
	if err != nil {
		return nil, err
	}

	l.v.SetConfigFile(configPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadOrCreate loads config or creates default. Returns (config, created, error).
func (l *Loader) LoadOrCreate() (*Config, bool, error) {
	exists, err := l.Exists()
	if err != nil {
		return nil, false, err
	}

	if exists {
		cfg, err := l.Load()
		return cfg, false, err
	}

	if err := l.Save(DefaultConfig()); err != nil {
		return nil, false, fmt.Errorf("create default config: %w", err)
	}

	cfg, err := l.Load()
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Save writes config to disk.
func (l *Loader) Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	configPath, err := l.ConfigPath()
	if err != nil {
		return err
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	// a separate instance keeps Set values from masking env overrides on later loads
	w := viper.New()
	w.SetConfigType("yaml")
	for key, value := range values(cfg) {
		w.Set(key, value)
	}

	return w.WriteConfigAs(configPath)
}

// InitDefault creates default config if missing. Returns true if created.
func (l *Loader) InitDefault() (bool, error) {
	exists, err := l.Exists()
	if err != nil {
		return false, err
	}

	if exists {
		return false, nil
	}

	if err := l.Save(DefaultConfig()); err != nil {
		return false, err
	}

	return true, nil
}

// Exists checks if config file exists.
func (l *Loader) Exists() (bool, error) {
	configPath, err := l.ConfigPath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(configPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
