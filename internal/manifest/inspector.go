// Package manifest extracts a best-effort project identity and dependency
// summary from root-level manifest files. Read or parse failures are silently
// ignored; absence of a project-context block is never an error.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
)

const (
	// dependencyDisplayCap bounds the dependency pairs listed per manifest.
	dependencyDisplayCap = 15

	cargoManifestName = "Cargo.toml"
	nodeManifestName  = "package.json"
	goManifestName    = "go.mod"

	unknownProjectName = "Unknown"
	wildcardVersion    = "*"

	contextHeader = "PROJECT CONTEXT:\n================\n"
)

type cargoManifest struct {
	Package      *cargoPackage  `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
}

type cargoPackage struct {
	Name string `toml:"name"`
}

type nodeManifest struct {
	Name         string            `json:"name"`
	Dependencies map[string]string `json:"dependencies"`
}

type dependencyPair struct {
	name    string
	version string
}

// Inspect reads the known root manifests and returns a project-context block,
// or the empty string when no manifest parses.
func Inspect(rootPath string) string {
	var summary strings.Builder

	if section := inspectCargo(rootPath); section != "" {
		summary.WriteString(section)
	}
	if section := inspectNode(rootPath); section != "" {
		summary.WriteString(section)
	}
	if section := inspectGoModule(rootPath); section != "" {
		summary.WriteString(section)
	}

	if summary.Len() == 0 {
		return ""
	}
	return contextHeader + summary.String()
}

// inspectCargo summarizes a Rust Cargo.toml manifest.
func inspectCargo(rootPath string) string {
	manifestBytes, readError := os.ReadFile(filepath.Join(rootPath, cargoManifestName))
	if readError != nil {
		return ""
	}
	var manifest cargoManifest
	if decodeError := toml.Unmarshal(manifestBytes, &manifest); decodeError != nil {
		return ""
	}

	projectName := unknownProjectName
	if manifest.Package != nil && manifest.Package.Name != "" {
		projectName = manifest.Package.Name
	}

	pairs := make([]dependencyPair, 0, len(manifest.Dependencies))
	for dependencyName, rawValue := range manifest.Dependencies {
		pairs = append(pairs, dependencyPair{name: dependencyName, version: cargoDependencyVersion(rawValue)})
	}
	return formatSection(projectName, "Rust", pairs)
}

// cargoDependencyVersion extracts a version string from a Cargo dependency
// value, which is either a plain string or an inline table with a version key.
func cargoDependencyVersion(rawValue any) string {
	switch value := rawValue.(type) {
	case string:
		return value
	case map[string]any:
		if version, ok := value["version"].(string); ok {
			return version
		}
	}
	return wildcardVersion
}

// inspectNode summarizes a Node.js package.json manifest.
func inspectNode(rootPath string) string {
	manifestBytes, readError := os.ReadFile(filepath.Join(rootPath, nodeManifestName))
	if readError != nil {
		return ""
	}
	var manifest nodeManifest
	if decodeError := json.Unmarshal(manifestBytes, &manifest); decodeError != nil {
		return ""
	}

	projectName := manifest.Name
	if projectName == "" {
		projectName = unknownProjectName
	}

	pairs := make([]dependencyPair, 0, len(manifest.Dependencies))
	for dependencyName, version := range manifest.Dependencies {
		if version == "" {
			version = wildcardVersion
		}
		pairs = append(pairs, dependencyPair{name: dependencyName, version: version})
	}
	return formatSection(projectName, "Node.js", pairs)
}

// inspectGoModule summarizes a go.mod manifest using its direct requirements.
func inspectGoModule(rootPath string) string {
	manifestBytes, readError := os.ReadFile(filepath.Join(rootPath, goManifestName))
	if readError != nil {
		return ""
	}
	parsedFile, parseError := modfile.Parse(goManifestName, manifestBytes, nil)
	if parseError != nil || parsedFile == nil {
		return ""
	}

	projectName := unknownProjectName
	if parsedFile.Module != nil && parsedFile.Module.Mod.Path != "" {
		projectName = parsedFile.Module.Mod.Path
	}

	var pairs []dependencyPair
	for _, requirement := range parsedFile.Require {
		if requirement == nil || requirement.Indirect || requirement.Mod.Path == "" {
			continue
		}
		pairs = append(pairs, dependencyPair{name: requirement.Mod.Path, version: requirement.Mod.Version})
	}
	return formatSection(projectName, "Go", pairs)
}

// formatSection renders one manifest summary: project line, then up to
// dependencyDisplayCap name/version pairs in sorted order.
func formatSection(projectName string, ecosystemLabel string, pairs []dependencyPair) string {
	var section strings.Builder
	section.WriteString(fmt.Sprintf("[+] Project: %s (%s)\n", projectName, ecosystemLabel))

	if len(pairs) == 0 {
		return section.String()
	}
	sort.Slice(pairs, func(left, right int) bool {
		return pairs[left].name < pairs[right].name
	})
	if len(pairs) > dependencyDisplayCap {
		pairs = pairs[:dependencyDisplayCap]
	}

	section.WriteString("[+] Dependencies:\n")
	for _, pair := range pairs {
		section.WriteString(fmt.Sprintf("    - %s: %s\n", pair.name, pair.version))
	}
	return section.String()
}
