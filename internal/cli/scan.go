package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Automaat/mail-incinerator/internal/cache"
	"github.com/Automaat/mail-incinerator/internal/config"
	"github.com/Automaat/mail-incinerator/pkg/size"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// EntryStatus holds scan result for a single cache folder.
type EntryStatus struct {
	Version string `json:"version"`
	Folder  string `json:"folder"`
	Path    string `json:"path"`
	SizeFmt string `json:"size"`
	Size    int64  `json:"size_bytes"`
	Large   bool   `json:"large"`
}

// ScanOutput holds full scan output for JSON serialization.
type ScanOutput struct {
	Base       string        `json:"base"`
	Total      string        `json:"total"`
	Entries    []EntryStatus `json:"entries"`
	TotalBytes int64         `json:"total_bytes"`
}

// ScanCmd lists cache folders and their sizes without touching them.
var ScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List Mail cache folders and their sizes",
	RunE:  runScan,
}

func init() {
	ScanCmd.Flags().String("base", "", "Mail storage directory (overrides base_dir)")
	ScanCmd.Flags().Bool("json", false, "Output in JSON format")
}

func runScan(cmd *cobra.Command, _ []string) error {
	base, _ := cmd.Flags().GetString("base")
	jsonFlag, _ := cmd.Flags().GetBool("json")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScanWithLoader(ctx, config.NewLoader(), base, jsonFlag)
}

func runScanWithLoader(ctx context.Context, loader *config.Loader, baseOverride string, jsonOutput bool) error {
	s, err := newSession(loader, baseOverride)
	if err != nil {
		return err
	}

	entries, err := s.scan(ctx)
	if err != nil {
		return err
	}

	out := buildScanOutput(s, entries)
	if jsonOutput {
		return outputJSON(out)
	}
	return outputTable(out)
}

func buildScanOutput(s *session, entries []cache.Entry) ScanOutput {
	out := ScanOutput{
		Base:    s.base,
		Entries: make([]EntryStatus, 0, len(entries)),
	}

	for _, e := range entries {
		out.Entries = append(out.Entries, EntryStatus{
			Version: e.Version(),
			Folder:  e.Name(),
			Path:    e.Path,
			Size:    e.Size,
			SizeFmt: size.FormatSize(e.Size),
			Large:   s.large(e),
		})
		out.TotalBytes += e.Size
	}
	out.Total = size.FormatSize(out.TotalBytes)
	return out
}

func outputJSON(out ScanOutput) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputTable(out ScanOutput) error {
	if len(out.Entries) == 0 {
		fmt.Println(okStyle.Render("No cache folders found in " + out.Base))
		return nil
	}

	rows := make([][]string, 0, len(out.Entries))
	for _, e := range out.Entries {
		statusText := okStyle.Render("ok")
		if e.Large {
			statusText = overStyle.Render("LARGE")
		}
		rows = append(rows, []string{e.Version, e.Folder, e.SizeFmt, statusText})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("Version", "Folder", "Size", "Status").
		Rows(rows...)

	fmt.Println(t)
	fmt.Println()
	fmt.Println(totalStyle.Render(fmt.Sprintf("Total: %s in %s", out.Total, plural(len(out.Entries), "folder"))))

	return nil
}
