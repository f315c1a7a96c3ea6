// Package mailapp detects whether the Mail application is running. Deleting its
// caches while it is open can corrupt them, so the CLI refuses to clean when it is.
package mailapp

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Checker runs a probe command; exit status 0 means Mail is running.
type Checker struct {
	command string
}

// NewChecker creates a checker for the given shell-quoted command.
// An empty command disables the check.
func NewChecker(command string) *Checker {
	return &Checker{command: strings.TrimSpace(command)}
}

// Command returns the probe command.
func (c *Checker) Command() string {
	return c.command
}

// Running reports whether Mail is running. A probe that is missing from PATH or exits
// non-zero counts as not running.
func (c *Checker) Running(ctx context.Context) (bool, error) {
	if c.command == "" {
		return false, nil
	}

	parts, err := shellquote.Split(c.command)
	if err != nil {
		return false, fmt.Errorf("invalid command: %w", err)
	}
	if len(parts) == 0 {
		return false, nil
	}

	if _, err := exec.LookPath(parts[0]); err != nil {
		return false, nil
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("run %s: %w", parts[0], err)
}
