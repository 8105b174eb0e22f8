package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// csprojVersionElements are substituted independently; an element absent from
// the file is never inserted.
var csprojVersionElements = []string{
	"Version",
	"VersionPrefix",
	"PackageVersion",
	"AssemblyVersion",
	"FileVersion",
	"InformationalVersion",
}

var csprojElementPatterns = buildElementPatterns()

func buildElementPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(csprojVersionElements))
	for _, element := range csprojVersionElements {
		// Only elements whose body is a pure dotted-numeric string are touched.
		patterns[element] = regexp.MustCompile(
			`(<` + element + `>)\s*[0-9]+(?:\.[0-9]+)*\s*(</` + element + `>)`,
		)
	}
	return patterns
}

var moduleVersionAssignment = regexp.MustCompile(
	`(?m)^(\s*)ModuleVersion\s*=\s*['"][^'"]*['"]`,
)

// ApplyVersion substitutes the target version into project file content.
// It is a pure text transform; the second return value reports whether the
// output differs from the input (a byte-identical result means NoChange and
// the caller must not rewrite the file).
func ApplyVersion(content string, kind entities.SourceKind, version string) (string, bool) {
	var updated string

	switch kind {
	case entities.SourceKindCsproj:
		updated = content
		for _, element := range csprojVersionElements {
			updated = csprojElementPatterns[element].ReplaceAllString(
				updated, "${1}"+version+"${2}",
			)
		}
	case entities.SourceKindPowerShellModule, entities.SourceKindBuildScript:
		// Output always single-quotes the value at the manifest's
		// conventional column alignment.
		updated = moduleVersionAssignment.ReplaceAllString(
			content, "${1}ModuleVersion        = '"+version+"'",
		)
	default:
		return content, false
	}

	return updated, updated != content
}

// WriteFileAtomic overwrites path with content as an all-or-nothing
// operation: the content is written to a temporary file in the same
// directory and atomically renamed over the target, so partial writes cannot
// be observed.
func WriteFileAtomic(path, content string) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %q: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, writeErr := tmp.WriteString(content); writeErr != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %q: %w", path, writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush %q: %w", path, closeErr)
	}

	if info, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tmpPath, info.Mode())
	}

	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %q: %w", path, renameErr)
	}
	return nil
}
