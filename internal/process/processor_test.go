package process_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/gimtex/internal/process"
	"github.com/temirov/gimtex/internal/secrets"
	"github.com/temirov/gimtex/internal/types"
)

// lengthCounter counts one token per byte; it keeps processing tests hermetic.
type lengthCounter struct{}

func (lengthCounter) Name() string { return "length" }

func (lengthCounter) CountString(input string) (int, error) { return len(input), nil }

// writeEntry creates a file under rootDirectory and returns its discovery entry.
func writeEntry(testingHandle *testing.T, rootDirectory string, relativePath string, content []byte) types.FileEntry {
	testingHandle.Helper()
	absolutePath := filepath.Join(rootDirectory, relativePath)
	if makeDirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create directory for %s: %v", relativePath, makeDirError)
	}
	if writeError := os.WriteFile(absolutePath, content, 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", relativePath, writeError)
	}
	return types.FileEntry{
		AbsolutePath: absolutePath,
		RelativePath: relativePath,
		SizeBytes:    int64(len(content)),
	}
}

// TestNumberLines verifies fixed-width numbering and trailing-newline handling.
func TestNumberLines(testingHandle *testing.T) {
	testCases := []struct {
		name            string
		content         string
		expectedContent string
	}{
		{
			name:            "EmptyContent",
			content:         "",
			expectedContent: "",
		},
		{
			name:            "TrailingNewline",
			content:         "alpha\nbeta\n",
			expectedContent: "   1 | alpha\n   2 | beta\n",
		},
		{
			name:            "NoTrailingNewline",
			content:         "alpha\nbeta",
			expectedContent: "   1 | alpha\n   2 | beta\n",
		},
		{
			name:            "BlankInteriorLine",
			content:         "alpha\n\nbeta\n",
			expectedContent: "   1 | alpha\n   2 | \n   3 | beta\n",
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			numbered := process.NumberLines(testCase.content)
			if numbered != testCase.expectedContent {
				testingHandle.Fatalf("expected %q, got %q", testCase.expectedContent, numbered)
			}
		})
	}
}

// TestFilesSkipsBinaryAndUndecodable verifies binary and non-UTF-8 files are
// skipped with a warning while text files pass through.
func TestFilesSkipsBinaryAndUndecodable(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	entries := []types.FileEntry{
		writeEntry(testingHandle, rootDirectory, "text.txt", []byte("hello world\n")),
		writeEntry(testingHandle, rootDirectory, "binary.bin", []byte{0x7f, 0x45, 0x00, 0x46}),
		writeEntry(testingHandle, rootDirectory, "broken.txt", []byte{0xff, 0xfe, 0xfd}),
	}

	var warnings []string
	results := process.Files(entries, process.Options{
		Counter: lengthCounter{},
		Warn: func(message string) {
			warnings = append(warnings, message)
		},
	})

	if len(results) != len(entries) {
		testingHandle.Fatalf("expected %d result slots, got %d", len(entries), len(results))
	}
	if results[0] == nil || results[0].Path != "text.txt" {
		testingHandle.Fatalf("expected text.txt in slot 0, got %+v", results[0])
	}
	if results[0].Tokens != len("hello world\n") {
		testingHandle.Fatalf("unexpected token count: %d", results[0].Tokens)
	}
	if results[1] != nil {
		testingHandle.Fatalf("binary file should be skipped, got %+v", results[1])
	}
	if results[2] != nil {
		testingHandle.Fatalf("undecodable file should be skipped, got %+v", results[2])
	}

	joinedWarnings := strings.Join(warnings, "\n")
	if !strings.Contains(joinedWarnings, "Skipping binary file: binary.bin") {
		testingHandle.Fatalf("missing binary warning in %q", joinedWarnings)
	}
	if !strings.Contains(joinedWarnings, "Skipping undecodable file: broken.txt") {
		testingHandle.Fatalf("missing undecodable warning in %q", joinedWarnings)
	}
}

// TestFilesPreservesInputOrder verifies result slots line up with input order
// regardless of worker completion order.
func TestFilesPreservesInputOrder(testingHandle *testing.T) {
	const fileCount = 40
	rootDirectory := testingHandle.TempDir()

	entries := make([]types.FileEntry, 0, fileCount)
	for fileIndex := 0; fileIndex < fileCount; fileIndex++ {
		relativePath := filepath.Join("nested", strings.Repeat("x", fileIndex%7+1)+".txt")
		relativePath = filepath.ToSlash(filepath.Join("d", string(rune('a'+fileIndex%26)), relativePath))
		entries = append(entries, writeEntry(testingHandle, rootDirectory, relativePath, []byte(strings.Repeat("line\n", fileIndex+1))))
	}

	results := process.Files(entries, process.Options{
		Counter: lengthCounter{},
		Workers: 8,
	})
	for entryIndex, entry := range entries {
		if results[entryIndex] == nil {
			testingHandle.Fatalf("slot %d unexpectedly skipped", entryIndex)
		}
		if results[entryIndex].Path != entry.RelativePath {
			testingHandle.Fatalf("slot %d holds %q, expected %q", entryIndex, results[entryIndex].Path, entry.RelativePath)
		}
	}
}

// TestFilesSerializesWarnCallback verifies warn invocations are serialized
// across workers: an unsynchronized collector must observe every warning, one
// per skipped file. Run with the race detector enabled this also proves the
// callback needs no locking of its own.
func TestFilesSerializesWarnCallback(testingHandle *testing.T) {
	const binaryFileCount = 200
	rootDirectory := testingHandle.TempDir()

	entries := make([]types.FileEntry, 0, binaryFileCount)
	for fileIndex := 0; fileIndex < binaryFileCount; fileIndex++ {
		relativePath := fmt.Sprintf("blob-%03d.bin", fileIndex)
		entries = append(entries, writeEntry(testingHandle, rootDirectory, relativePath, []byte{0x00, byte(fileIndex)}))
	}

	var warnings []string
	process.Files(entries, process.Options{
		Counter: lengthCounter{},
		Workers: 8,
		Warn: func(message string) {
			warnings = append(warnings, message)
		},
	})

	if len(warnings) != binaryFileCount {
		testingHandle.Fatalf("expected %d warnings, got %d", binaryFileCount, len(warnings))
	}
	for _, warning := range warnings {
		if !strings.HasPrefix(warning, "Skipping binary file: blob-") {
			testingHandle.Fatalf("unexpected warning %q", warning)
		}
	}
}

// TestFilesRedactsSecretsAndNumbersLines verifies redaction runs before line
// numbering and the numbered content carries the redaction label.
func TestFilesRedactsSecretsAndNumbersLines(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	entries := []types.FileEntry{
		writeEntry(testingHandle, rootDirectory, "settings.env", []byte("password = \"abcdef12\"\nplain line\n")),
	}

	var warnings []string
	results := process.Files(entries, process.Options{
		LineNumbers: true,
		Scanner: secrets.NewScanner(secrets.DefaultDetectors(), func(message string) {
			warnings = append(warnings, message)
		}),
		Counter: lengthCounter{},
	})

	if results[0] == nil {
		testingHandle.Fatalf("expected processed result")
	}
	if !strings.Contains(results[0].Content, "   1 | password = \""+secrets.GenericRedactionLabel+"\"") {
		testingHandle.Fatalf("expected numbered redacted line, got %q", results[0].Content)
	}
	if strings.Contains(results[0].Content, "abcdef12") {
		testingHandle.Fatalf("secret value survived: %q", results[0].Content)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "settings.env") {
		testingHandle.Fatalf("expected one security warning naming the file, got %v", warnings)
	}
}
