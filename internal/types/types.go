// Package types defines every cross-package data structure used by the gimtex CLI.
package types

const (
	// ModeWalk selects full recursive discovery from the scan root.
	ModeWalk = "walk"
	// ModeGitDiff selects discovery restricted to files changed relative to the last commit.
	ModeGitDiff = "git-diff"

	// FormatMarkdown assembles the payload as markdown blocks.
	FormatMarkdown = "markdown"
	// FormatXML assembles the payload as structured markup elements.
	FormatXML = "xml"
)

// ScanConfig captures every selection made for one scan. It is immutable for
// the duration of the scan.
type ScanConfig struct {
	Root        string
	Mode        string
	FilterGlob  string
	Format      string
	LineNumbers bool
	// MaxFileSize bounds per-file work in bytes; zero disables the bound.
	MaxFileSize int64
}

// FileEntry is a retained regular file. RelativePath is root-relative in
// forward-slash form and unique per scan.
type FileEntry struct {
	AbsolutePath string
	RelativePath string
	SizeBytes    int64
}

// ProcessedFile owns the transformed text content of one file and its token
// count. It is produced exactly once per retained entry and never mutated.
type ProcessedFile struct {
	Path    string
	Content string
	Tokens  int
}

// Payload is the fully assembled output string plus its aggregate metrics.
// TokenCount is computed over the entire text, structural markup included.
type Payload struct {
	Text       string
	TokenCount int
	CharCount  int
}
