package scan

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/gimtex/internal/compose"
	"github.com/temirov/gimtex/internal/manifest"
	"github.com/temirov/gimtex/internal/process"
	"github.com/temirov/gimtex/internal/secrets"
	"github.com/temirov/gimtex/internal/tokenizer"
	"github.com/temirov/gimtex/internal/tree"
	"github.com/temirov/gimtex/internal/types"
)

// Runner executes one scan: discover, filter, sort, inspect manifests, render
// the tree, process files in parallel, and assemble the payload.
type Runner struct {
	Config  types.ScanConfig
	Scanner *secrets.Scanner
	Counter tokenizer.Counter
	Logger  *zap.Logger
	Prune   map[string]struct{}
	Workers int
}

// Run performs the scan described by the Runner configuration and returns the
// assembled payload with its aggregate metrics.
func (runner Runner) Run() (types.Payload, error) {
	filter, filterError := NewFilter(runner.Config.FilterGlob, runner.Config.MaxFileSize, runner.Logger)
	if filterError != nil {
		return types.Payload{}, filterError
	}

	pruneSet := runner.Prune
	if pruneSet == nil {
		pruneSet = DefaultPruneSet()
	}

	var discovered []types.FileEntry
	switch runner.Config.Mode {
	case types.ModeGitDiff:
		gitEntries, gitError := GitDiffFiles(runner.Config.Root)
		if gitError != nil {
			return types.Payload{}, gitError
		}
		discovered = gitEntries
	default:
		discovered = WalkFiles(runner.Config.Root, pruneSet, runner.Logger)
	}

	retained := filter.Apply(discovered)

	// Determinism: the retained list is sorted before any tree or
	// processing step.
	sort.Slice(retained, func(left, right int) bool {
		return retained[left].RelativePath < retained[right].RelativePath
	})

	projectContext := manifest.Inspect(runner.Config.Root)

	relativePaths := make([]string, len(retained))
	for entryIndex, entry := range retained {
		relativePaths[entryIndex] = entry.RelativePath
	}
	treeView := tree.Render(runner.Config.Root, relativePaths)

	processed := process.Files(retained, process.Options{
		LineNumbers: runner.Config.LineNumbers,
		Scanner:     runner.Scanner,
		Counter:     runner.Counter,
		Workers:     runner.Workers,
		Warn: func(message string) {
			runner.Logger.Warn(message)
		},
	})

	payload, assembleError := compose.Assemble(projectContext, treeView, processed, runner.Config.Format, runner.Counter)
	if assembleError != nil {
		return types.Payload{}, fmt.Errorf("assemble payload: %w", assembleError)
	}
	return payload, nil
}
