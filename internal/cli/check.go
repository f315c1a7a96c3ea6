package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Automaat/mail-incinerator/internal/access"
	"github.com/Automaat/mail-incinerator/internal/config"
	"github.com/Automaat/mail-incinerator/internal/logger"
	"github.com/Automaat/mail-incinerator/internal/mailapp"
	"github.com/spf13/cobra"
)

const fullDiskAccessHint = `Your terminal cannot read the Mail directory. Open System Settings >
Privacy & Security > Full Disk Access, enable your terminal app and restart it.`

// CheckOutput holds the check result for JSON serialization.
type CheckOutput struct {
	access.Status
	MailCheckError string `json:"mail_check_error,omitempty"`
	MailRunning    bool   `json:"mail_running"`
}

// CheckCmd verifies the Mail directory is readable and reports whether Mail is open.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check access to the Mail directory",
	RunE:  runCheck,
}

func init() {
	CheckCmd.Flags().String("base", "", "Mail storage directory (overrides base_dir)")
	CheckCmd.Flags().Bool("json", false, "Output in JSON format")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	base, _ := cmd.Flags().GetString("base")
	jsonFlag, _ := cmd.Flags().GetBool("json")
	return runCheckWithLoader(cmd.Context(), config.NewLoader(), base, jsonFlag)
}

func runCheckWithLoader(ctx context.Context, loader *config.Loader, baseOverride string, jsonOutput bool) error {
	s, err := newSession(loader, baseOverride)
	if err != nil {
		return err
	}

	out := CheckOutput{Status: access.Probe(s.base)}
	running, err := mailapp.NewChecker(s.cfg.MailCheckCmd).Running(ctx)
	if err != nil {
		logger.Warn("mail check failed", logger.Fields{"cmd": s.cfg.MailCheckCmd, "error": err})
		out.MailCheckError = err.Error()
	}
	out.MailRunning = running

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		printCheck(out)
	}

	if !out.Readable {
		logger.Error("base not readable", logger.Fields{"base": out.Base, "reason": out.Reason})
		return fmt.Errorf("cannot read %s: %s", out.Base, out.Reason)
	}
	return nil
}

func printCheck(out CheckOutput) {
	fmt.Printf("Base:         %s\n", out.Base)

	if out.Readable {
		fmt.Printf("Access:       %s (%d version roots)\n", okStyle.Render("ok"), out.VersionRoots)
	} else {
		fmt.Printf("Access:       %s\n", overStyle.Render(out.Reason))
	}

	switch {
	case out.MailCheckError != "":
		fmt.Printf("Mail running: %s\n", errorStyle.Render(out.MailCheckError))
	case out.MailRunning:
		fmt.Printf("Mail running: %s\n", errorStyle.Render("yes"))
	default:
		fmt.Printf("Mail running: %s\n", okStyle.Render("no"))
	}

	if out.NeedsFullDiskAccess() {
		fmt.Println()
		fmt.Println(dimStyle.Render(fullDiskAccessHint))
	}
}
