package config

import (
	"fmt"
	"time"

	"github.com/Automaat/mail-incinerator/internal/security"
	"github.com/Automaat/mail-incinerator/pkg/size"
)

// Deletion modes.
const (
	ModeTrash     = "trash"
	ModePermanent = "permanent"
)

type Config struct {
	Version      string `mapstructure:"version" yaml:"version"`
	BaseDir      string `mapstructure:"base_dir" yaml:"base_dir"`
	Mode         string `mapstructure:"mode" yaml:"mode"`
	ScanTimeout  string `mapstructure:"scan_timeout" yaml:"scan_timeout"`
	WarnSize     string `mapstructure:"warn_size" yaml:"warn_size"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	MailCheckCmd string `mapstructure:"mail_check_cmd" yaml:"mail_check_cmd"`
	Concurrency  int    `mapstructure:"concurrency" yaml:"concurrency"`
}

func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}

	if c.BaseDir == "" {
		return fmt.Errorf("base_dir is required")
	}

	base, err := c.Base()
	if err != nil {
		return err
	}
	if err := security.ValidateBase(base); err != nil {
		return fmt.Errorf("base_dir: %w", err)
	}

	switch c.Mode {
	case ModeTrash, ModePermanent:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeTrash, ModePermanent, c.Mode)
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}

	if _, err := c.Timeout(); err != nil {
		return fmt.Errorf("scan_timeout: %w", err)
	}

	if _, err := c.WarnBytes(); err != nil {
		return fmt.Errorf("warn_size: %w", err)
	}

	return nil
}

// Base returns base_dir with the tilde expanded.
func (c *Config) Base() (string, error) {
	return ExpandTilde(c.BaseDir)
}

// Timeout returns the parsed scan timeout. Zero means no limit.
func (c *Config) Timeout() (time.Duration, error) {
	return ParseDuration(c.ScanTimeout)
}

// WarnBytes returns the size above which a folder is flagged. Zero disables the flag.
func (c *Config) WarnBytes() (int64, error) {
	if c.WarnSize == "" {
		return 0, nil
	}
	return size.ParseSize(c.WarnSize)
}

// Permanent reports whether deletions bypass the trash.
func (c *Config) Permanent() bool {
	return c.Mode == ModePermanent
}
