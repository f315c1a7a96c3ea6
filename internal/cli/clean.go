package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Automaat/mail-incinerator/internal/cache"
	"github.com/Automaat/mail-incinerator/internal/config"
	"github.com/Automaat/mail-incinerator/internal/mailapp"
	"github.com/Automaat/mail-incinerator/pkg/size"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

// ErrMailRunning is returned when a clean is attempted while Mail is open.
var ErrMailRunning = errors.New("mail app is running; quit Mail before cleaning")

// isTerminal reports whether f is interactive; swapped in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(f.Fd())
}

// CleanCmd deletes Mail cache folders to free disk space.
var CleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete Mail cache folders to free disk space",
	Long: `Scan the Mail storage directory and remove every cache folder found in its
version roots. MailData is never touched. Folders go to the trash unless
--permanent is given or mode is "permanent" in the config.`,
	RunE: runClean,
}

type cleanOptions struct {
	base      string
	permanent bool
	trash     bool
	dryRun    bool
	force     bool
	quiet     bool
}

func init() {
	CleanCmd.Flags().String("base", "", "Mail storage directory (overrides base_dir)")
	CleanCmd.Flags().Bool("permanent", false, "Delete irrecoverably instead of moving to trash")
	CleanCmd.Flags().Bool("trash", false, "Move to trash even if config says permanent")
	CleanCmd.Flags().Bool("dry-run", false, "Preview without deleting")
	CleanCmd.Flags().Bool("force", false, "Skip confirmation prompt")
	CleanCmd.Flags().Bool("quiet", false, "Minimal output")
	CleanCmd.MarkFlagsMutuallyExclusive("permanent", "trash")
}

func runClean(cmd *cobra.Command, _ []string) error {
	var opts cleanOptions
	opts.base, _ = cmd.Flags().GetString("base")
	opts.permanent, _ = cmd.Flags().GetBool("permanent")
	opts.trash, _ = cmd.Flags().GetBool("trash")
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.force, _ = cmd.Flags().GetBool("force")
	opts.quiet, _ = cmd.Flags().GetBool("quiet")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCleanWithLoader(ctx, config.NewLoader(), opts, os.Stdin)
}

func runCleanWithLoader(ctx context.Context, loader *config.Loader, opts cleanOptions, stdin *os.File) error {
	if opts.permanent && opts.trash {
		return fmt.Errorf("--permanent and --trash are mutually exclusive")
	}

	s, err := newSession(loader, opts.base)
	if err != nil {
		return err
	}

	permanent := s.cfg.Permanent()
	switch {
	case opts.permanent:
		permanent = true
	case opts.trash:
		permanent = false
	}

	if !opts.dryRun {
		running, err := mailapp.NewChecker(s.cfg.MailCheckCmd).Running(ctx)
		if err != nil {
			return fmt.Errorf("check Mail: %w", err)
		}
		if running {
			return ErrMailRunning
		}
	}

	entries, err := s.scan(ctx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		if !opts.quiet {
			fmt.Println("No cache folders found in " + s.base)
		}
		return nil
	}

	total := cache.TotalSize(entries)

	if !opts.quiet {
		printEntries(entries)
	}

	if opts.dryRun {
		if !opts.quiet {
			fmt.Printf("[dry-run] would %s %s · %s\n", verb(permanent), plural(len(entries), "folder"), size.FormatSize(total))
		}
		return nil
	}

	if !opts.force {
		if !isTerminal(stdin) {
			return fmt.Errorf("refusing to delete without confirmation; run in a terminal or pass --force")
		}
		if !confirmClean(len(entries), total, permanent, stdin) {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := s.remove(ctx, cache.Paths(entries), permanent); err != nil {
		if errors.Is(err, context.Canceled) {
			if !opts.quiet {
				fmt.Println("\nCancelled")
			}
			return nil
		}
		return fmt.Errorf("clean: %w", err)
	}

	s.log.Info("clean complete", "count", len(entries), "bytes", total, "mode", modeName(permanent))

	if opts.quiet {
		fmt.Println(size.FormatSize(total))
	} else {
		fmt.Printf("\n%s cleaned · %s freed\n", plural(len(entries), "folder"), size.FormatSize(total))
	}

	return nil
}

func printEntries(entries []cache.Entry) {
	for _, e := range entries {
		fmt.Printf("  %s/%-40s %10s\n", e.Version(), e.Name(), size.FormatSize(e.Size))
	}
	fmt.Println()
}

func verb(permanent bool) string {
	if permanent {
		return "permanently delete"
	}
	return "move to trash"
}

func confirmClean(count int, total int64, permanent bool, stdin *os.File) bool {
	fmt.Printf("%s %s (%s)? [y/N]: ", capitalize(verb(permanent)), plural(count, "folder"), size.FormatSize(total))

	reader := bufio.NewReader(stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))

	return response == "y" || response == "yes"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
