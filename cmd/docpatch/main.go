package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/sokinpui/docpatch/cli"
	"github.com/sokinpui/docpatch/docpatch"
	"github.com/sokinpui/docpatch/internal/logging"
	"github.com/sokinpui/docpatch/internal/tui"
	"github.com/sokinpui/docpatch/internal/ui"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := cli.Parse(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return docpatch.ExitOK
		}
		ui.Error(stderr, "Error: %v", err)
		return docpatch.ExitError
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		ui.Error(stderr, "Error: %v", err)
		return docpatch.ExitError
	}
	defer logger.Sync() //nolint:errcheck

	app, err := docpatch.New(cfg, afero.NewOsFs(), logger)
	if err != nil {
		ui.Error(stderr, "Failed to initialize application: %v", err)
		return docpatch.ExitError
	}

	if cfg.NoAnimation || !isTerminal(stdout) {
		summary, err := app.Execute()
		if err != nil {
			reportError(stderr, err)
			return docpatch.ExitCode(err)
		}
		ui.PrintPatchSummary(stdout, summary)
		return docpatch.ExitOK
	}

	// Stdin may carry the patch request, so the program must not read it.
	p := tea.NewProgram(tui.New(app), tea.WithInput(nil), tea.WithOutput(stdout))
	final, err := p.Run()
	if err != nil {
		ui.Error(stderr, "Error running program: %v", err)
		return docpatch.ExitError
	}

	m, ok := final.(tui.Model)
	if !ok {
		return docpatch.ExitError
	}
	if err := m.Err(); err != nil {
		reportStack(stderr, err)
		return docpatch.ExitCode(err)
	}
	return docpatch.ExitOK
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func reportError(w io.Writer, err error) {
	ui.Error(w, "Error: %v", err)
	var notFound *docpatch.PatternNotFoundError
	if errors.As(err, &notFound) {
		ui.Warning(w, "The file was not modified. Check that it still matches the expected baseline.")
	}
	reportStack(w, err)
}

func reportStack(w io.Writer, err error) {
	var detailed *docpatch.DetailedError
	if errors.As(err, &detailed) {
		fmt.Fprintf(w, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
	}
}
