package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Automaat/mail-incinerator/internal/cache"
	"github.com/Automaat/mail-incinerator/internal/config"
	"github.com/Automaat/mail-incinerator/internal/logger"
	"github.com/Automaat/mail-incinerator/internal/security"
	"github.com/Automaat/mail-incinerator/internal/trash"
)

// LogLevel overrides the configured log level when non-empty. Bound to --log-level.
var LogLevel string

// newTrasher builds the trash used for non-permanent deletes; swapped in tests.
var newTrasher = trash.New

// session bundles what a command needs after config is loaded.
type session struct {
	cfg       *config.Config
	log       *slog.Logger
	scanner   *cache.Scanner
	deleter   *cache.Deleter
	base      string
	warnBytes int64
}

func newSession(loader *config.Loader, baseOverride string) (*session, error) {
	cfg, _, err := loader.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if LogLevel != "" {
		level = LogLevel
	}
	log := logger.Init(level)

	base, err := resolveBase(cfg, baseOverride)
	if err != nil {
		return nil, err
	}

	warnBytes, err := cfg.WarnBytes()
	if err != nil {
		return nil, fmt.Errorf("warn_size: %w", err)
	}

	return &session{
		cfg:       cfg,
		log:       log,
		base:      base,
		warnBytes: warnBytes,
		scanner: cache.NewScanner(base,
			cache.WithConcurrency(cfg.Concurrency),
			cache.WithScanLogger(log),
		),
		deleter: cache.NewDeleter(base, cache.WithTrasher(newTrasher())),
	}, nil
}

func resolveBase(cfg *config.Config, override string) (string, error) {
	if override == "" {
		return cfg.Base()
	}

	expanded, err := config.ExpandTilde(override)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve --base: %w", err)
	}
	if err := security.ValidateBase(abs); err != nil {
		return "", fmt.Errorf("--base: %w", err)
	}
	return abs, nil
}

// withTimeout applies scan_timeout to ctx. Zero means no limit.
func (s *session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout, err := s.cfg.Timeout()
	if err != nil || timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *session) scan(ctx context.Context) ([]cache.Entry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	entries, err := s.scanner.Scan(ctx, "")
	if err != nil {
		var scanErr cache.ScanError
		if errors.As(err, &scanErr) {
			s.log.Warn("scan failed", "kind", scanErr.Kind.String(), "path", scanErr.Path)
		} else {
			s.log.Warn("scan failed", "base", s.base, "error", err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("scan timed out after %s: %w", s.cfg.ScanTimeout, err)
		}
		return nil, err
	}

	s.log.Info("scan complete", "base", s.base, "entries", len(entries), "bytes", cache.TotalSize(entries))
	return entries, nil
}

func (s *session) remove(ctx context.Context, paths []string, permanent bool) error {
	var err error
	if permanent {
		err = s.deleter.DeletePermanently(ctx, paths)
	} else {
		err = s.deleter.MoveToTrash(ctx, paths)
	}
	if err != nil {
		var delErr cache.DeleteError
		if errors.As(err, &delErr) {
			s.log.Error("delete failed", "kind", delErr.Kind.String(), "path", delErr.Path, "cause", delErr.Err)
		}
		return err
	}
	return nil
}

func (s *session) large(e cache.Entry) bool {
	return s.warnBytes > 0 && e.Size >= s.warnBytes
}

func modeName(permanent bool) string {
	if permanent {
		return config.ModePermanent
	}
	return config.ModeTrash
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
