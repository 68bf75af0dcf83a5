package model

// Operation is a single exact-match patch: replace Old with New in the file at Path.
type Operation struct {
	Path string
	Old  string
	New  string
	// Count, when positive, is the exact number of occurrences Old must have.
	Count int
}

// Result describes what applying an Operation did to its file.
type Result struct {
	Path         string
	Replacements int
	BeforeSHA256 string
	AfterSHA256  string
	// Written is false for dry runs.
	Written bool
}

// Summary holds the results of an operation for display.
type Summary struct {
	Patched []string
	Failed  []string
	Message string
	DryRun  bool
	Result  *Result
}
