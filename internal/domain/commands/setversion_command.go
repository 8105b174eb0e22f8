package commands

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/domain/repositories"
	"github.com/rios0rios0/releasekit/internal/scanner"
)

// ConfirmFunc gates one on-disk write. Returning false skips the file without
// writing any bytes; this applies per file, not per run.
type ConfirmFunc func(path, oldVersion, newVersion string) bool

// SetVersion is the interface for the version-bump command.
type SetVersion interface {
	Execute(
		ctx context.Context,
		spec *entities.ReleaseSpec,
		confirm ConfirmFunc,
	) ([]entities.VersionUpdateResult, error)
}

// SetVersionCommand applies resolved target versions into every discovered
// project file, manifest, and build script under the root path.
type SetVersionCommand struct {
	registry repositories.RegistryRepository
}

// NewSetVersionCommand creates a new SetVersionCommand.
func NewSetVersionCommand(registry repositories.RegistryRepository) *SetVersionCommand {
	return &SetVersionCommand{registry: registry}
}

// Execute runs one version-write pass. Validation failures abort the run
// before any I/O; per-file failures are recorded in the corresponding result
// and sibling files are still processed.
func (it *SetVersionCommand) Execute(
	ctx context.Context,
	spec *entities.ReleaseSpec,
	confirm ConfirmFunc,
) ([]entities.VersionUpdateResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	files, err := scanner.Discover(spec.RootPath, spec.ExcludeDirectories)
	if err != nil {
		return nil, err
	}

	resolver := NewVersionResolver(it.registry)
	results := make([]entities.VersionUpdateResult, 0, len(files))

	for _, file := range files {
		name := file.ProjectName()
		if !spec.ProjectIncluded(name) {
			continue
		}

		target, included, resolveErr := resolver.Resolve(ctx, name, spec)
		if resolveErr != nil {
			results = append(results, errorResult(file, "", resolveErr.Error()))
			continue
		}
		if !included {
			continue
		}
		if target == "" {
			// No mapping entry outside include mode: keep the current version.
			continue
		}

		results = append(results, it.applyToFile(file, target, spec.DryRun, confirm))
	}

	return results, nil
}

func (it *SetVersionCommand) applyToFile(
	file entities.DiscoveredFile,
	target string,
	dryRun bool,
	confirm ConfirmFunc,
) entities.VersionUpdateResult {
	content, readErr := os.ReadFile(file.Path)
	if readErr != nil {
		return errorResult(file, target, readErr.Error())
	}

	updated, changed := scanner.ApplyVersion(string(content), file.Kind, target)
	if !changed {
		return entities.VersionUpdateResult{
			Path:       file.Path,
			Kind:       file.Kind,
			OldVersion: file.CurrentVersion,
			NewVersion: target,
			Status:     entities.UpdateStatusNoChange,
		}
	}

	if dryRun || (confirm != nil && !confirm(file.Path, file.CurrentVersion, target)) {
		logger.Infof("[version] skipping %s (%s -> %s)", file.Path, file.CurrentVersion, target)
		return entities.VersionUpdateResult{
			Path:       file.Path,
			Kind:       file.Kind,
			OldVersion: file.CurrentVersion,
			NewVersion: target,
			Status:     entities.UpdateStatusSkipped,
		}
	}

	if writeErr := scanner.WriteFileAtomic(file.Path, updated); writeErr != nil {
		return errorResult(file, target, writeErr.Error())
	}

	logger.Infof("[version] %s: %s -> %s", file.Path, file.CurrentVersion, target)
	return entities.VersionUpdateResult{
		Path:       file.Path,
		Kind:       file.Kind,
		OldVersion: file.CurrentVersion,
		NewVersion: target,
		Status:     entities.UpdateStatusUpdated,
	}
}

func errorResult(
	file entities.DiscoveredFile,
	target, detail string,
) entities.VersionUpdateResult {
	return entities.VersionUpdateResult{
		Path:        file.Path,
		Kind:        file.Kind,
		OldVersion:  file.CurrentVersion,
		NewVersion:  target,
		Status:      entities.UpdateStatusError,
		ErrorDetail: detail,
	}
}
