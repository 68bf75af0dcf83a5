package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Mode says where the patch operation comes from.
type Mode int

const (
	// ModeRequest reads a markdown patch request from stdin or the clipboard.
	ModeRequest Mode = iota
	// ModeFlags takes the operation from --file/--old/--new.
	ModeFlags
	// ModePatchFile loads the operation from a YAML patch file.
	ModePatchFile
)

func (m Mode) String() string {
	switch m {
	case ModeFlags:
		return "flags"
	case ModePatchFile:
		return "patch-file"
	default:
		return "request"
	}
}

// Config holds all the command-line flag values.
type Config struct {
	File        string
	Old         string
	New         string
	OldFrom     string
	NewFrom     string
	PatchFile   string
	Count       int
	DryRun      bool
	NoAnimation bool
	Debug       bool
	LookupDirs  []string

	// OldSet and NewSet record whether the text flags were given at all,
	// so that an explicit empty --new is told apart from a missing one.
	OldSet bool
	NewSet bool
}

// Mode derives the operation source from the parsed flags.
func (c *Config) Mode() Mode {
	switch {
	case c.PatchFile != "":
		return ModePatchFile
	case c.OldSet || c.OldFrom != "":
		return ModeFlags
	default:
		return ModeRequest
	}
}

// Parse defines and parses command-line flags using pflag.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("docpatch", pflag.ContinueOnError)

	flags.StringVarP(&cfg.File, "file", "f", "", "File to patch. Overrides the path named in a markdown request.")
	flags.StringVar(&cfg.Old, "old", "", "Exact text expected in the file. Taken literally, escapes are not interpreted.")
	flags.StringVar(&cfg.New, "new", "", "Replacement text. May be empty to delete the old text.")
	flags.StringVar(&cfg.OldFrom, "old-from", "", "Read the expected text from this file.")
	flags.StringVar(&cfg.NewFrom, "new-from", "", "Read the replacement text from this file.")
	flags.StringVarP(&cfg.PatchFile, "patch-file", "p", "", "YAML file describing the patch (file, old, new, count).")
	flags.IntVarP(&cfg.Count, "count", "c", 0, "Require exactly this many occurrences of the old text (0 = any).")
	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Check the patch applies without writing the file.")
	flags.StringSliceVarP(&cfg.LookupDirs, "lookup-dir", "l", []string{}, "Directories to resolve relative paths against (default: current directory).")
	flags.BoolVar(&cfg.NoAnimation, "no-animation", false, "Print a plain summary instead of the interactive spinner.")
	flags.BoolVar(&cfg.Debug, "debug", false, "Show debug logs.")

	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: docpatch [flags]")
		fmt.Fprintln(os.Stderr, "\nReplace an exact piece of text in a documentation file. The file is left")
		fmt.Fprintln(os.Stderr, "untouched unless the old text is found.")
		fmt.Fprintln(os.Stderr, "\nExamples:")
		fmt.Fprintln(os.Stderr, "  docpatch -f docs/flujo.md --old-from old.txt --new-from new.txt")
		fmt.Fprintln(os.Stderr, "  docpatch -p patches/bodas.yml")
		fmt.Fprintln(os.Stderr, "  pbpaste | docpatch")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	cfg.OldSet = flags.Changed("old")
	cfg.NewSet = flags.Changed("new")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	hasOld := c.OldSet || c.OldFrom != ""
	hasNew := c.NewSet || c.NewFrom != ""

	switch {
	case c.OldSet && c.OldFrom != "":
		return fmt.Errorf("--old and --old-from are mutually exclusive")
	case c.NewSet && c.NewFrom != "":
		return fmt.Errorf("--new and --new-from are mutually exclusive")
	case c.Count < 0:
		return fmt.Errorf("--count cannot be negative")
	case c.PatchFile != "" && (hasOld || hasNew || c.File != ""):
		return fmt.Errorf("--patch-file cannot be combined with --file, --old, --new, --old-from or --new-from")
	case hasOld && !hasNew:
		return fmt.Errorf("--new or --new-from is required with --old")
	case hasNew && !hasOld:
		return fmt.Errorf("--old or --old-from is required with --new")
	case hasOld && c.File == "":
		return fmt.Errorf("--file is required with --old")
	}
	return nil
}
