package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Automaat/mail-incinerator/internal/cache"
	"github.com/Automaat/mail-incinerator/internal/config"
	"github.com/Automaat/mail-incinerator/internal/mailapp"
	"github.com/Automaat/mail-incinerator/pkg/size"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

type state int

const (
	stateScanning state = iota
	stateSelection
	stateConfirmation
	stateCleaning
	stateDone
)

type entryItem struct {
	cleanErr error
	entry    cache.Entry
	sizeFmt  string
	large    bool
	cleaned  bool
}

type model struct {
	ctx        context.Context
	sess       *session
	scanErr    error
	blockErr   error
	selected   map[int]struct{}
	items      []entryItem
	spinner    spinner.Model
	progress   progress.Model
	totalFreed int64
	cursor     int
	cleanIdx   int
	cleanCount int
	width      int
	height     int
	state      state
	dryRun     bool
	permanent  bool
	quitting   bool
}

type scanDoneMsg struct {
	err     error
	entries []cache.Entry
}

type deleteResultMsg struct {
	err error
	idx int
}

type mailCheckMsg struct {
	err     error
	running bool
}

// InteractiveCmd launches interactive TUI mode.
var InteractiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Pick Mail cache folders to clean interactively",
	RunE:    runInteractive,
}

func init() {
	InteractiveCmd.Flags().String("base", "", "Mail storage directory (overrides base_dir)")
	InteractiveCmd.Flags().Bool("dry-run", false, "Preview without deleting")
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	base, _ := cmd.Flags().GetString("base")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return fmt.Errorf("interactive mode requires a terminal; use scan and clean instead")
	}

	return RunInteractiveWithLoader(cmd.Context(), config.NewLoader(), base, dryRun)
}

// RunInteractiveWithLoader launches interactive mode with specified loader.
func RunInteractiveWithLoader(parent context.Context, loader *config.Loader, baseOverride string, dryRun bool) error {
	s, err := newSession(loader, baseOverride)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := newModel(ctx, s, dryRun)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run interactive: %w", err)
	}

	return nil
}

func newModel(ctx context.Context, s *session, dryRun bool) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))

	prog := progress.New(progress.WithDefaultGradient())

	if ctx == nil {
		ctx = context.Background()
	}

	return model{
		state:     stateScanning,
		selected:  make(map[int]struct{}),
		spinner:   sp,
		progress:  prog,
		sess:      s,
		ctx:       ctx,
		dryRun:    dryRun,
		permanent: s.cfg.Permanent(),
		width:     80,
		height:    24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.scanCmd(), m.spinner.Tick)
}

func (m model) scanCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.sess.scan(m.ctx)
		return scanDoneMsg{entries: entries, err: err}
	}
}

func (m model) mailCheckCmd() tea.Cmd {
	return func() tea.Msg {
		running, err := mailapp.NewChecker(m.sess.cfg.MailCheckCmd).Running(m.ctx)
		return mailCheckMsg{running: running, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		progressWidth := msg.Width - 10
		if progressWidth < 1 {
			progressWidth = 1
		}
		m.progress.Width = progressWidth
		return m, nil

	case scanDoneMsg:
		m.scanErr = msg.err
		m.items = make([]entryItem, len(msg.entries))
		for i, e := range msg.entries {
			m.items[i] = entryItem{
				entry:   e,
				sizeFmt: size.FormatSize(e.Size),
				large:   m.sess.large(e),
			}
		}
		m.state = stateSelection
		return m, nil

	case mailCheckMsg:
		switch {
		case msg.err != nil:
			m.blockErr = fmt.Errorf("check Mail: %w", msg.err)
		case msg.running:
			m.blockErr = ErrMailRunning
		default:
			m.blockErr = nil
			m.state = stateCleaning
			m.cleanIdx = -1
			return m.cleanNext()
		}
		return m, nil

	case deleteResultMsg:
		item := &m.items[msg.idx]
		item.cleanErr = msg.err
		if msg.err != nil {
			m.state = stateDone
			return m, nil
		}
		item.cleaned = true
		m.cleanCount++
		m.totalFreed += item.entry.Size
		return m.cleanNext()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateScanning:
		if k := msg.String(); k == "q" || k == "esc" || k == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case stateSelection:
		return m.handleSelectionKey(msg)
	case stateConfirmation:
		return m.handleConfirmationKey(msg)
	case stateDone:
		return m.handleDoneKey(msg)
	}
	return m, nil
}

func (m model) handleSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case " ":
		if len(m.items) == 0 {
			break
		}
		if _, ok := m.selected[m.cursor]; ok {
			delete(m.selected, m.cursor)
		} else {
			m.selected[m.cursor] = struct{}{}
		}

	case "a":
		for i := range m.items {
			m.selected[i] = struct{}{}
		}

	case "n":
		m.selected = make(map[int]struct{})

	case "l":
		m.selected = make(map[int]struct{})
		for i, it := range m.items {
			if it.large {
				m.selected[i] = struct{}{}
			}
		}

	case "r":
		m.state = stateScanning
		m.selected = make(map[int]struct{})
		m.cursor = 0
		return m, m.scanCmd()

	case "enter":
		if len(m.selected) > 0 {
			m.blockErr = nil
			m.state = stateConfirmation
		}
	}

	return m, nil
}

func (m model) handleConfirmationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.dryRun {
			m.state = stateDone
			return m, nil
		}
		return m, m.mailCheckCmd()

	case "n", "N", "esc", "ctrl+c":
		m.state = stateSelection

	case "t", "T":
		m.permanent = false

	case "p", "P":
		m.permanent = true
	}

	return m, nil
}

func (m model) handleDoneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) cleanNext() (tea.Model, tea.Cmd) {
	for {
		m.cleanIdx++
		if m.cleanIdx >= len(m.items) {
			m.state = stateDone
			return m, nil
		}
		if _, ok := m.selected[m.cleanIdx]; ok {
			break
		}
	}

	return m, m.deleteCmd(m.cleanIdx)
}

func (m model) deleteCmd(idx int) tea.Cmd {
	path := m.items[idx].entry.Path
	permanent := m.permanent
	return func() tea.Msg {
		err := m.sess.remove(m.ctx, []string{path}, permanent)
		return deleteResultMsg{idx: idx, err: err}
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Mail Incinerator"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.sess.base))
	b.WriteString("\n\n")

	switch m.state {
	case stateScanning:
		b.WriteString(fmt.Sprintf("%s Scanning cache folders...", m.spinner.View()))
	case stateSelection:
		b.WriteString(m.viewSelection())
	case stateConfirmation:
		b.WriteString(m.viewConfirmation())
	case stateCleaning:
		b.WriteString(m.viewCleaning())
	case stateDone:
		b.WriteString(m.viewDone())
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("202")).
		Padding(1, 2).
		Width(m.width - 2)

	return boxStyle.Render(b.String())
}

func (m model) viewSelection() string {
	var b strings.Builder

	if m.scanErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Scan failed: %v", m.scanErr)))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("r=rescan  q=quit"))
		return b.String()
	}

	if len(m.items) == 0 {
		b.WriteString(okStyle.Render("No cache folders found."))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("r=rescan  q=quit"))
		return b.String()
	}

	b.WriteString("Select cache folders to clean:\n\n")

	contentWidth := m.width - 8 // box border + padding
	if contentWidth < 40 {
		contentWidth = 40
	}

	// Column widths: prefix(6) + name + size(12) + status(6)
	const fixedWidth = 6 + 12 + 6
	nameWidth := contentWidth - fixedWidth
	const maxNameWidth = 50
	if nameWidth > maxNameWidth {
		nameWidth = maxNameWidth
	}
	nameFmt := fmt.Sprintf("%%-%ds", nameWidth)

	var selectedBytes int64
	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		checkbox := "[ ]"
		if _, ok := m.selected[i]; ok {
			checkbox = "[x]"
			selectedBytes += it.entry.Size
		}

		status := okStyle.Render("ok")
		if it.large {
			status = overStyle.Render("LARGE")
		}

		name := truncate(it.entry.Version()+"/"+it.entry.Name(), nameWidth)
		line := cursor + checkbox + " " + fmt.Sprintf(nameFmt, name) + " " + fmt.Sprintf("%10s", it.sizeFmt) + " " + status

		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Selected: %s · %s", plural(len(m.selected), "folder"), size.FormatSize(selectedBytes)))
	b.WriteString("\n\n")

	hint := dimStyle.Render("space=toggle  a=all  n=none  l=large  r=rescan  enter=confirm  q=quit")
	b.WriteString(hint)

	return b.String()
}

func (m model) viewConfirmation() string {
	var b strings.Builder

	items := m.selectedItems()
	var total int64
	for _, it := range items {
		total += it.entry.Size
	}

	mode := modeName(m.permanent)
	if m.dryRun {
		mode += " (dry-run)"
	}

	b.WriteString(fmt.Sprintf("%s %s (%s) [%s]?\n\n", capitalize(verb(m.permanent)), plural(len(items), "folder"), size.FormatSize(total), mode))

	for _, it := range items {
		b.WriteString(fmt.Sprintf("  • %s/%s\n", it.entry.Version(), it.entry.Name()))
	}

	if m.blockErr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.blockErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hint := dimStyle.Render("y=confirm  n/esc=back  t=trash  p=permanent")
	b.WriteString(hint)

	return b.String()
}

func (m model) viewCleaning() string {
	var b strings.Builder

	if m.cleanIdx >= 0 && m.cleanIdx < len(m.items) {
		it := m.items[m.cleanIdx]
		b.WriteString(fmt.Sprintf("Cleaning %s/%s... %s\n\n", it.entry.Version(), it.entry.Name(), m.spinner.View()))
	}

	if selectedCount := len(m.selected); selectedCount > 0 && m.cleanCount > 0 {
		pct := float64(m.cleanCount) / float64(selectedCount)
		b.WriteString(m.progress.ViewAs(pct))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Freed so far: %s", size.FormatSize(m.totalFreed)))

	return b.String()
}

func (m model) viewDone() string {
	var b strings.Builder

	if m.dryRun {
		b.WriteString(totalStyle.Render(fmt.Sprintf("[dry-run] would %s %s", verb(m.permanent), plural(len(m.selected), "folder"))))
	} else {
		b.WriteString(totalStyle.Render(fmt.Sprintf("%s cleaned · %s freed", plural(m.cleanCount, "folder"), size.FormatSize(m.totalFreed))))
	}
	b.WriteString("\n\n")

	for _, it := range m.selectedItems() {
		name := it.entry.Version() + "/" + it.entry.Name()
		switch {
		case it.cleanErr != nil:
			b.WriteString(fmt.Sprintf("  %-40s %s\n", name, errorStyle.Render("✗")))
		case it.cleaned:
			b.WriteString(fmt.Sprintf("  %-40s %10s  %s\n", name, it.sizeFmt, okStyle.Render("✓")))
		}
	}

	for _, it := range m.selectedItems() {
		if it.cleanErr != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render("Stopped: " + it.cleanErr.Error()))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press enter to exit"))

	return b.String()
}

func (m model) selectedItems() []entryItem {
	var items []entryItem
	for i := range m.items {
		if _, ok := m.selected[i]; ok {
			items = append(items, m.items[i])
		}
	}
	return items
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
