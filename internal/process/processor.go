// Package process executes per-file content processing concurrently while
// preserving the order of the input list.
package process

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/gimtex/internal/secrets"
	"github.com/temirov/gimtex/internal/tokenizer"
	"github.com/temirov/gimtex/internal/types"
	"github.com/temirov/gimtex/internal/utils"
)

// Options configures per-file processing. Scanner and Counter are the only
// shared objects and are read-only for the duration of the run; the Scanner's
// own warn callback may fire from any worker and must be safe for concurrent
// use.
type Options struct {
	LineNumbers bool
	Scanner     *secrets.Scanner
	Counter     tokenizer.Counter
	Workers     int
	// Warn receives skip and failure diagnostics. Invocations are serialized,
	// so the callback needs no locking of its own.
	Warn func(string)
}

// Files processes every entry independently on a fixed-size worker pool. The
// returned slice is indexed by the entry's position in the input list, never
// by completion order; a nil element marks a skipped file.
func Files(entries []types.FileEntry, options Options) []*types.ProcessedFile {
	callerWarn := options.Warn
	if callerWarn == nil {
		callerWarn = func(string) {}
	}
	var warnMutex sync.Mutex
	warn := func(message string) {
		warnMutex.Lock()
		defer warnMutex.Unlock()
		callerWarn(message)
	}
	workerCount := options.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	results := make([]*types.ProcessedFile, len(entries))

	var group errgroup.Group
	group.SetLimit(workerCount)
	for entryIndex, entry := range entries {
		group.Go(func() error {
			results[entryIndex] = processOne(entry, options, warn)
			return nil
		})
	}
	// Workers only write their own slot and never fail the group.
	_ = group.Wait()

	return results
}

// processOne performs the read-then-transform pipeline for a single file:
// binary probe, full read, secret redaction, optional line numbering, token
// count. A nil result means the file was skipped.
func processOne(entry types.FileEntry, options Options, warn func(string)) *types.ProcessedFile {
	probe, probeError := utils.ReadProbe(entry.AbsolutePath)
	if probeError != nil {
		warn(fmt.Sprintf("Skipping %s: %v", entry.RelativePath, probeError))
		return nil
	}
	if utils.IsBinaryProbe(probe) {
		warn(fmt.Sprintf("Skipping binary file: %s", entry.RelativePath))
		return nil
	}

	contentBytes, readError := os.ReadFile(entry.AbsolutePath)
	if readError != nil {
		warn(fmt.Sprintf("Skipping %s: %v", entry.RelativePath, readError))
		return nil
	}
	if !utf8.Valid(contentBytes) {
		warn(fmt.Sprintf("Skipping undecodable file: %s", entry.RelativePath))
		return nil
	}
	content := string(contentBytes)

	if options.Scanner != nil {
		content = options.Scanner.Redact(content, entry.RelativePath)
	}

	if options.LineNumbers {
		content = NumberLines(content)
	}

	tokenCount := 0
	if options.Counter != nil {
		counted, countError := options.Counter.CountString(content)
		if countError != nil {
			warn(fmt.Sprintf("Failed to count tokens for %s: %v", entry.RelativePath, countError))
		} else {
			tokenCount = counted
		}
	}

	return &types.ProcessedFile{
		Path:    entry.RelativePath,
		Content: content,
		Tokens:  tokenCount,
	}
}

// NumberLines rebuilds content with every line prefixed by a fixed-width,
// right-aligned 1-based line number and a separator.
func NumberLines(content string) string {
	if content == "" {
		return content
	}
	trimmed := strings.TrimSuffix(content, "\n")
	var builder strings.Builder
	for lineIndex, line := range strings.Split(trimmed, "\n") {
		builder.WriteString(fmt.Sprintf("%4d | %s\n", lineIndex+1, line))
	}
	return builder.String()
}
