package scan

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/temirov/gimtex/internal/types"
	"github.com/temirov/gimtex/internal/utils"
)

// GitError reports a failed git query. It aborts the whole scan.
type GitError struct {
	Output string
	Err    error
}

// Error describes the failed query including any captured git output.
func (gitError *GitError) Error() string {
	trimmedOutput := strings.TrimSpace(gitError.Output)
	if trimmedOutput == "" {
		return fmt.Sprintf("git diff query failed: %v", gitError.Err)
	}
	return fmt.Sprintf("git diff query failed: %v: %s", gitError.Err, trimmedOutput)
}

// Unwrap exposes the underlying command error.
func (gitError *GitError) Unwrap() error {
	return gitError.Err
}

// GitDiffFiles queries the working tree for files changed relative to the
// last commit. Paths that no longer exist as regular files are silently
// dropped. A failing query returns a *GitError.
func GitDiffFiles(rootPath string) ([]types.FileEntry, error) {
	diffCommand := exec.Command("git", "diff", "--name-only", "HEAD")
	diffCommand.Dir = rootPath
	diffOutput, commandError := diffCommand.CombinedOutput()
	if commandError != nil {
		return nil, &GitError{Output: string(diffOutput), Err: commandError}
	}

	var entries []types.FileEntry
	for _, line := range strings.Split(string(diffOutput), "\n") {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" {
			continue
		}
		absolutePath := filepath.Join(rootPath, filepath.FromSlash(trimmedLine))
		fileInformation, statError := os.Stat(absolutePath)
		if statError != nil || !fileInformation.Mode().IsRegular() {
			continue
		}
		entries = append(entries, types.FileEntry{
			AbsolutePath: absolutePath,
			RelativePath: utils.RelativePathOrSelf(absolutePath, rootPath),
			SizeBytes:    fileInformation.Size(),
		})
	}
	return entries, nil
}
