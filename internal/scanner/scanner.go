// Package scanner discovers packable project files and PowerShell manifests
// in a repository tree and extracts their declared versions.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

var (
	csprojVersionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`<Version>\s*([0-9]+(?:\.[0-9]+)+)\s*</Version>`),
		regexp.MustCompile(`<VersionPrefix>\s*([0-9]+(?:\.[0-9]+)+)\s*</VersionPrefix>`),
		regexp.MustCompile(`<PackageVersion>\s*([0-9]+(?:\.[0-9]+)+)\s*</PackageVersion>`),
	}

	moduleVersionPattern = regexp.MustCompile(`ModuleVersion\s*=\s*['"]([^'"]+)['"]`)

	// buildScriptMarkers identify .ps1 files that drive a module build.
	buildScriptMarkers = regexp.MustCompile(
		`ModuleVersion\s*=|Invoke-ModuleBuild|Build-Module`,
	)

	notPackablePattern = regexp.MustCompile(`<IsPackable>\s*false\s*</IsPackable>`)

	projectReferencePattern = regexp.MustCompile(`<ProjectReference\s+Include\s*=\s*"([^"]+)"`)
)

// Discover walks the tree rooted at root and returns every project file,
// classified by kind and carrying its currently-declared version when one
// could be extracted. Directories whose name matches an entry of excludeDirs
// (case-insensitive) are pruned entirely. The output is stably sorted by
// path so repeated passes over an unchanged tree are deterministic.
func Discover(root string, excludeDirs []string) ([]entities.DiscoveredFile, error) {
	var files []entities.DiscoveredFile

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && isExcludedDir(d.Name(), excludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}

		kind, ok := classify(path)
		if !ok {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read %q: %w", path, readErr)
		}
		text := string(content)

		if kind == entities.SourceKindBuildScript && !buildScriptMarkers.MatchString(text) {
			return nil
		}

		files = append(files, entities.DiscoveredFile{
			Path:           path,
			Kind:           kind,
			CurrentVersion: ExtractVersion(text, kind),
			Packable:       kind == entities.SourceKindCsproj && !notPackablePattern.MatchString(text),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("discovery failed under %q: %w", root, walkErr)
	}

	sort.SliceStable(files, func(i, j int) bool {
		a, b := strings.ToLower(files[i].Path), strings.ToLower(files[j].Path)
		if a != b {
			return a < b
		}
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// ExtractVersion pulls the currently-declared version out of file content
// using the format-appropriate pattern. An empty result means no version was
// detectable; callers decide whether that is fatal.
func ExtractVersion(content string, kind entities.SourceKind) string {
	switch kind {
	case entities.SourceKindCsproj:
		// First match wins, in element priority order.
		for _, pattern := range csprojVersionPatterns {
			if m := pattern.FindStringSubmatch(content); m != nil {
				return m[1]
			}
		}
	case entities.SourceKindPowerShellModule, entities.SourceKindBuildScript:
		if m := moduleVersionPattern.FindStringSubmatch(content); m != nil {
			return m[1]
		}
	}
	return ""
}

// ProjectReferences returns the paths of projects referenced by a csproj,
// resolved relative to its directory. Used for the dependency reachability
// scan; this is not a build-graph toposort.
func ProjectReferences(path, content string) []string {
	dir := filepath.Dir(path)

	var refs []string
	for _, m := range projectReferencePattern.FindAllStringSubmatch(content, -1) {
		ref := filepath.FromSlash(strings.ReplaceAll(m[1], `\`, "/"))
		refs = append(refs, filepath.Clean(filepath.Join(dir, ref)))
	}
	return refs
}

func classify(path string) (entities.SourceKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csproj":
		return entities.SourceKindCsproj, true
	case ".psd1":
		return entities.SourceKindPowerShellModule, true
	case ".ps1":
		return entities.SourceKindBuildScript, true
	default:
		return "", false
	}
}

func isExcludedDir(name string, excludeDirs []string) bool {
	for _, excluded := range excludeDirs {
		if strings.EqualFold(name, excluded) {
			return true
		}
	}
	return false
}
