package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sokinpui/docpatch/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	FaintColor   = color.New(color.Faint)
)

func Warning(w io.Writer, format string, a ...interface{}) {
	WarningColor.Fprintf(w, format+"\n", a...)
}

func Error(w io.Writer, format string, a ...interface{}) {
	ErrorColor.Fprintf(w, format+"\n", a...)
}

// --- Summaries ---

// PrintPatchSummary writes the outcome of a patch run to w.
func PrintPatchSummary(w io.Writer, summary model.Summary) {
	HeaderColor.Fprintln(w, "--- Patch Summary ---")

	if summary.Message != "" {
		InfoColor.Fprintln(w, summary.Message)
	}

	if len(summary.Patched) > 0 {
		if summary.DryRun {
			WarningColor.Fprintf(w, "Would patch %d file(s) (dry run, nothing written):\n", len(summary.Patched))
		} else {
			SuccessColor.Fprintf(w, "Patched %d file(s):\n", len(summary.Patched))
		}
		for _, f := range summary.Patched {
			PathColor.Fprintf(w, "  - %s\n", f)
		}
	}
	if len(summary.Failed) > 0 {
		ErrorColor.Fprintf(w, "Failed to patch %d file(s):\n", len(summary.Failed))
		for _, f := range summary.Failed {
			PathColor.Fprintf(w, "  - %s\n", f)
		}
	}

	if r := summary.Result; r != nil {
		FaintColor.Fprintf(w, "sha256 before: %s\n", r.BeforeSHA256)
		FaintColor.Fprintf(w, "sha256 after:  %s\n", r.AfterSHA256)
	}

	if len(summary.Patched) == 0 && len(summary.Failed) == 0 && summary.Message == "" {
		fmt.Fprintln(w, "No files were patched.")
	}
}
