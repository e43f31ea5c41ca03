package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/socpatch/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Runner is the work the model waits on.
type Runner func(ctx context.Context) (model.Summary, error)

// --- Messages ---

// ProgressMsg reports that a stage finished with one target.
type ProgressMsg struct {
	Stage   string
	Target  string
	Current int
	Total   int
}

type doneMsg struct {
	summary model.Summary
	err     error
}

// --- Model ---
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	run      Runner
	spinner  spinner.Model
	state    state
	progress ProgressMsg
	summary  model.Summary
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(ctx context.Context, run Runner) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	ctx, cancel := context.WithCancel(ctx)
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		run:     run,
		spinner: s,
		state:   stateProcessing,
	}
}

// Result returns what the run produced once the program has exited.
func (m Model) Result() (model.Summary, error) {
	return m.summary, m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// The running command is killed and the run finishes early.
			m.cancel()
		}

	case ProgressMsg:
		m.progress = msg
		return m, nil

	case doneMsg:
		m.cancel()
		m.summary = msg.summary
		m.err = msg.err
		m.state = stateSummary
		if msg.err != nil && msg.summary.Platform == "" {
			m.state = stateError
		}
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return m.renderProgress()
	case stateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m Model) renderProgress() string {
	if m.progress.Stage == "" {
		return fmt.Sprintf("%s Processing...", m.spinner.View())
	}
	return fmt.Sprintf("%s %s [%d/%d] %s",
		m.spinner.View(), m.progress.Stage, m.progress.Current, m.progress.Total,
		faintStyle.Render(m.progress.Target))
}

func (m Model) renderSummary() string {
	var b strings.Builder
	s := m.summary

	b.WriteString(headerStyle.Render(fmt.Sprintf("socpatch %s", s.Platform)))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	hasContent := false
	section := func(title string, style lipgloss.Style, items []string) {
		if len(items) == 0 {
			return
		}
		hasContent = true
		b.WriteString(style.Render(title))
		b.WriteString("\n")
		for _, item := range items {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(item)))
		}
	}

	var patched, cleaned, failed []string
	for _, r := range s.Repos {
		name := relative(s.Root, r.Repo)
		switch {
		case r.Failed():
			failed = append(failed, name)
		case r.Patch.Status == model.StatusSuccess:
			patched = append(patched, fmt.Sprintf("%s (%d)", name, len(r.Patches)))
		default:
			cleaned = append(cleaned, name)
		}
	}
	invalid := make([]string, len(s.Invalid))
	for i, p := range s.Invalid {
		invalid[i] = relative(s.Root, p)
	}

	section("Not git repositories:", errorStyle, invalid)
	section("Patched:", successStyle, patched)
	section("Cleaned:", successStyle, cleaned)
	section("Failed:", errorStyle, failed)
	section("Pushed:", successStyle, copies(s.Root, s.Pushed, model.StatusSuccess))
	section("Copied:", successStyle, copies(s.Root, s.Copied, model.StatusSuccess))
	section("Not copied:", errorStyle, append(
		copies(s.Root, s.Copied, model.StatusSkipped),
		copies(s.Root, s.Copied, model.StatusFailed)...))

	if !hasContent {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func copies(root string, results []model.CopyResult, status model.Status) []string {
	var items []string
	for _, c := range results {
		if c.Outcome.Status != status {
			continue
		}
		item := relative(root, c.Src)
		if c.Outcome.Reason != "" {
			item += ": " + c.Outcome.Reason
		}
		items = append(items, item)
	}
	return items
}

func relative(root, p string) string {
	if r, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return p
}

func (m Model) runApp() tea.Msg {
	summary, err := m.run(m.ctx)
	return doneMsg{summary: summary, err: err}
}
