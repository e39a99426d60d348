package scan

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/gimtex/internal/types"
	"github.com/temirov/gimtex/internal/utils"
)

// ErrInvalidPattern marks a glob pattern that fails to compile. It is a fatal
// configuration error raised before discovery output is consumed.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// Filter applies at most one glob pattern and an optional maximum-size bound
// to discovered entries.
type Filter struct {
	pattern     string
	maxFileSize int64
	logger      *zap.Logger
}

// NewFilter validates globPattern and returns a Filter. An empty pattern
// retains every entry; maxFileSize of zero disables the size bound.
func NewFilter(globPattern string, maxFileSize int64, logger *zap.Logger) (*Filter, error) {
	if globPattern != "" {
		if _, matchError := path.Match(globPattern, "probe"); matchError != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, globPattern)
		}
	}
	return &Filter{pattern: globPattern, maxFileSize: maxFileSize, logger: logger}, nil
}

// Apply returns the entries retained by the glob pattern and size bound.
// Oversized files are skipped with a warning before any read occurs.
func (filter *Filter) Apply(entries []types.FileEntry) []types.FileEntry {
	retained := make([]types.FileEntry, 0, len(entries))
	for _, entry := range entries {
		if !filter.matches(entry) {
			continue
		}
		if filter.maxFileSize > 0 && entry.SizeBytes > filter.maxFileSize {
			filter.logger.Sugar().Warnf(
				"Skipping %s: size %s exceeds the %s bound",
				entry.RelativePath,
				utils.FormatFileSize(entry.SizeBytes),
				utils.FormatFileSize(filter.maxFileSize),
			)
			continue
		}
		retained = append(retained, entry)
	}
	return retained
}

// matches tests the pattern against the base name and the root-relative path;
// either may match.
func (filter *Filter) matches(entry types.FileEntry) bool {
	if filter.pattern == "" {
		return true
	}
	if matched, _ := path.Match(filter.pattern, filepath.Base(entry.RelativePath)); matched {
		return true
	}
	matched, _ := path.Match(filter.pattern, entry.RelativePath)
	return matched
}
