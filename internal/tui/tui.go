package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/docpatch/internal/patcher"
	"github.com/sokinpui/docpatch/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Executor runs the patch and reports its outcome.
type Executor interface {
	Execute() (model.Summary, error)
}

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct {
	summary model.Summary
	err     error
}

// --- Model ---
type Model struct {
	executor Executor
	spinner  spinner.Model
	state    state
	summary  model.Summary
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(executor Executor) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		executor: executor,
		spinner:  s,
		state:    stateProcessing,
	}
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}

// Summary returns the outcome of a finished run.
func (m Model) Summary() model.Summary {
	return m.summary
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryMsg:
		m.state = stateSummary
		m.summary = msg.Summary
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.summary = msg.summary
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return fmt.Sprintf("%s Patching...", m.spinner.View())
	case stateError:
		return m.renderError()
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m Model) renderError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	b.WriteString("\n")
	for _, f := range m.summary.Failed {
		b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
	}
	if leftUntouched(m.err) {
		b.WriteString(faintStyle.Render("The file was not modified."))
		b.WriteString("\n")
	}
	return b.String()
}

// leftUntouched reports whether err comes from a check the patcher runs
// before it writes, or from a write that failed without replacing the file.
func leftUntouched(err error) bool {
	var (
		notFound *patcher.PatternNotFoundError
		mismatch *patcher.OccurrenceMismatchError
		access   *patcher.FileAccessError
	)
	return errors.As(err, &notFound) || errors.As(err, &mismatch) || errors.As(err, &access)
}

func (m Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	if len(m.summary.Patched) > 0 {
		if m.summary.DryRun {
			b.WriteString(warningStyle.Render("Would patch (dry run):"))
		} else {
			b.WriteString(successStyle.Render("Patched:"))
		}
		b.WriteString("\n")
		for _, f := range m.summary.Patched {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}

	if r := m.summary.Result; r != nil {
		b.WriteString(faintStyle.Render(fmt.Sprintf("sha256 %s -> %s", short(r.BeforeSHA256), short(r.AfterSHA256))))
		b.WriteString("\n")
	}

	if len(m.summary.Patched) == 0 && m.summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

func (m Model) run() tea.Msg {
	summary, err := m.executor.Execute()
	if err != nil {
		return errorMsg{summary: summary, err: err}
	}
	return summaryMsg{Summary: summary}
}
