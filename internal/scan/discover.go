// Package scan discovers, filters, and orchestrates processing of the files
// under a scan root.
package scan

import (
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/gimtex/internal/types"
	"github.com/temirov/gimtex/internal/utils"
)

// DefaultPruneSet returns the well-known bulk directory names skipped during
// traversal before their contents are visited.
func DefaultPruneSet() map[string]struct{} {
	return map[string]struct{}{
		"node_modules": {},
		".git":         {},
		"target":       {},
		"dist":         {},
		"build":        {},
		"vendor":       {},
		".next":        {},
	}
}

// PruneSetFromNames builds a prune set from configured directory names,
// ignoring empty entries.
func PruneSetFromNames(names []string) map[string]struct{} {
	pruneSet := make(map[string]struct{}, len(names))
	for _, name := range utils.DeduplicateStrings(names) {
		if name == "" {
			continue
		}
		pruneSet[name] = struct{}{}
	}
	return pruneSet
}

// WalkFiles enumerates every regular file under rootPath, pruning directories
// named in pruneSet at traversal time. Traversal errors are logged as
// warnings and the offending entry is skipped; discovery as a whole never
// aborts on a single bad entry.
func WalkFiles(rootPath string, pruneSet map[string]struct{}, logger *zap.Logger) []types.FileEntry {
	var entries []types.FileEntry

	walkFunction := func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			logger.Sugar().Warnf("Access denied: %s: %v", walkedPath, accessError)
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			if _, pruned := pruneSet[directoryEntry.Name()]; pruned && walkedPath != rootPath {
				return filepath.SkipDir
			}
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}

		fileInformation, informationError := directoryEntry.Info()
		if informationError != nil {
			logger.Sugar().Warnf("Skipping %s: %v", walkedPath, informationError)
			return nil
		}
		entries = append(entries, types.FileEntry{
			AbsolutePath: walkedPath,
			RelativePath: utils.RelativePathOrSelf(walkedPath, rootPath),
			SizeBytes:    fileInformation.Size(),
		})
		return nil
	}

	if walkError := filepath.WalkDir(rootPath, walkFunction); walkError != nil {
		logger.Sugar().Warnf("Walk aborted for %s: %v", rootPath, walkError)
	}
	return entries
}
