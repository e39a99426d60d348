package manifest_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/gimtex/internal/manifest"
)

const (
	cargoManifestFileName = "Cargo.toml"
	nodeManifestFileName  = "package.json"
	goManifestFileName    = "go.mod"

	cargoManifestContent = `[package]
name = "demo"

[dependencies]
serde = "1.0"
tokio = { version = "1.38", features = ["full"] }
`
	nodeManifestContent = `{"name":"webapp","dependencies":{"react":"^18.2.0","zod":"^3.23.0"}}`
	goManifestContent   = `module example.com/demo

go 1.22

require (
	github.com/spf13/cobra v1.8.0
	golang.org/x/sync v0.7.0 // indirect
)
`
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestInspectCargoManifest verifies the Rust section lists the project name and
// both plain and inline-table dependency versions.
func TestInspectCargoManifest(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, cargoManifestFileName), cargoManifestContent)

	contextBlock := manifest.Inspect(rootDirectory)
	expectedFragments := []string{
		"PROJECT CONTEXT:",
		"[+] Project: demo (Rust)",
		"    - serde: 1.0",
		"    - tokio: 1.38",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(contextBlock, fragment) {
			testingHandle.Fatalf("missing fragment %q in:\n%s", fragment, contextBlock)
		}
	}
}

// TestInspectNodeManifest verifies the Node.js section lists the project name
// and its dependency versions.
func TestInspectNodeManifest(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, nodeManifestFileName), nodeManifestContent)

	contextBlock := manifest.Inspect(rootDirectory)
	expectedFragments := []string{
		"[+] Project: webapp (Node.js)",
		"    - react: ^18.2.0",
		"    - zod: ^3.23.0",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(contextBlock, fragment) {
			testingHandle.Fatalf("missing fragment %q in:\n%s", fragment, contextBlock)
		}
	}
}

// TestInspectGoManifest verifies the Go section lists the module path and only
// direct requirements.
func TestInspectGoManifest(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, goManifestFileName), goManifestContent)

	contextBlock := manifest.Inspect(rootDirectory)
	if !strings.Contains(contextBlock, "[+] Project: example.com/demo (Go)") {
		testingHandle.Fatalf("missing Go project line in:\n%s", contextBlock)
	}
	if !strings.Contains(contextBlock, "    - github.com/spf13/cobra: v1.8.0") {
		testingHandle.Fatalf("missing direct requirement in:\n%s", contextBlock)
	}
	if strings.Contains(contextBlock, "golang.org/x/sync") {
		testingHandle.Fatalf("indirect requirement leaked into:\n%s", contextBlock)
	}
}

// TestInspectDependencyCap verifies the dependency listing is sorted and
// bounded.
func TestInspectDependencyCap(testingHandle *testing.T) {
	const manifestDependencyCount = 20
	const displayedDependencyCount = 15

	dependencyEntries := make([]string, 0, manifestDependencyCount)
	for dependencyIndex := 0; dependencyIndex < manifestDependencyCount; dependencyIndex++ {
		dependencyEntries = append(dependencyEntries, fmt.Sprintf("%q:%q", fmt.Sprintf("pkg-%02d", dependencyIndex), "1.0.0"))
	}
	manifestContent := `{"name":"big","dependencies":{` + strings.Join(dependencyEntries, ",") + `}}`

	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, nodeManifestFileName), manifestContent)

	contextBlock := manifest.Inspect(rootDirectory)
	listedCount := strings.Count(contextBlock, "    - ")
	if listedCount != displayedDependencyCount {
		testingHandle.Fatalf("expected %d listed dependencies, got %d:\n%s", displayedDependencyCount, listedCount, contextBlock)
	}
	if !strings.Contains(contextBlock, "    - pkg-00: 1.0.0") {
		testingHandle.Fatalf("sorted listing should start from pkg-00:\n%s", contextBlock)
	}
	if strings.Contains(contextBlock, "pkg-15") {
		testingHandle.Fatalf("dependencies past the cap leaked into:\n%s", contextBlock)
	}
}

// TestInspectAbsentAndMalformedManifests verifies absence and parse failures
// both yield an empty context block.
func TestInspectAbsentAndMalformedManifests(testingHandle *testing.T) {
	emptyDirectory := testingHandle.TempDir()
	if contextBlock := manifest.Inspect(emptyDirectory); contextBlock != "" {
		testingHandle.Fatalf("expected empty context for empty directory, got %q", contextBlock)
	}

	malformedDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(malformedDirectory, cargoManifestFileName), "not [valid toml")
	if contextBlock := manifest.Inspect(malformedDirectory); contextBlock != "" {
		testingHandle.Fatalf("expected empty context for malformed manifest, got %q", contextBlock)
	}
}
