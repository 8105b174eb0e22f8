package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/releasekit/internal/infrastructure/repositories"
	"github.com/rios0rios0/releasekit/internal/scanner"
)

// Release is the interface for the repository-wide release orchestration.
type Release interface {
	Execute(ctx context.Context, spec *entities.ReleaseSpec) (*entities.RepositoryReleaseResult, error)
}

// ReleaseCommand orchestrates one repository release run: discover projects,
// resolve target versions, write them into the project files, pack, sign,
// push, and optionally publish a tagged release with the produced packages.
//
// Plan mode (DryRun) performs every resolution step but suppresses all side
// effects, returning the same result shape as a full execution. Per-project
// failures are isolated: the run as a whole always completes and every
// attempted project carries its own outcome.
type ReleaseCommand struct {
	registry  repositories.RegistryRepository
	builder   repositories.BuilderRepository
	signers   *infraRepos.SignerRegistry
	publisher Publish
	gitMeta   repositories.GitMetadataRepository
}

// NewReleaseCommand creates a new ReleaseCommand.
func NewReleaseCommand(
	registry repositories.RegistryRepository,
	builder repositories.BuilderRepository,
	signers *infraRepos.SignerRegistry,
	publisher Publish,
	gitMeta repositories.GitMetadataRepository,
) *ReleaseCommand {
	return &ReleaseCommand{
		registry:  registry,
		builder:   builder,
		signers:   signers,
		publisher: publisher,
		gitMeta:   gitMeta,
	}
}

// Execute runs one orchestration pass. Validation failures abort before any
// I/O; everything after that is captured into the result.
func (it *ReleaseCommand) Execute(
	ctx context.Context,
	spec *entities.ReleaseSpec,
) (*entities.RepositoryReleaseResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	files, err := scanner.Discover(spec.RootPath, spec.ExcludeDirectories)
	if err != nil {
		return nil, err
	}

	resolver := NewVersionResolver(it.registry)
	result := &entities.RepositoryReleaseResult{
		PublishedPackages: make(map[string]bool),
	}

	for _, file := range files {
		if file.Kind != entities.SourceKindCsproj {
			continue
		}
		if !spec.ProjectIncluded(file.ProjectName()) {
			continue
		}

		outcome, pushed, publishFailed := it.releaseProject(ctx, resolver, file, files, spec)
		if outcome == nil {
			continue // excluded by the version map in include mode
		}

		result.Outcomes = append(result.Outcomes, *outcome)
		for _, pkg := range pushed {
			result.PublishedPackages[filepath.Base(pkg)] = true
		}
		if spec.ExpectedVersion != "" && result.ResolvedVersion == "" {
			result.ResolvedVersion = outcome.NewVersion
		}

		if publishFailed && spec.PublishFailFast {
			logger.Errorf("[release] publish failed for %s, aborting remaining projects", outcome.Project)
			break
		}
	}

	if spec.GitHub != nil && !spec.DryRun {
		it.publishRelease(ctx, spec, result)
	}

	result.Succeeded = overallSuccess(result)
	return result, nil
}

// releaseProject runs the per-project pipeline. A nil outcome means the
// project is excluded from the release entirely.
func (it *ReleaseCommand) releaseProject(
	ctx context.Context,
	resolver *VersionResolver,
	project entities.DiscoveredFile,
	all []entities.DiscoveredFile,
	spec *entities.ReleaseSpec,
) (outcome *entities.ProjectReleaseOutcome, pushed []string, publishFailed bool) {
	name := project.ProjectName()
	outcome = &entities.ProjectReleaseOutcome{
		Project:    name,
		Packable:   project.Packable,
		OldVersion: project.CurrentVersion,
	}

	version, included, err := resolver.Resolve(ctx, name, spec)
	if err != nil {
		return failOutcome(outcome, err), nil, false
	}
	if !included {
		return nil, nil, false
	}
	if version == "" {
		version = project.CurrentVersion
	}
	if version == "" {
		return failOutcome(outcome, fmt.Errorf(
			"no target version and no current version detectable in %s", project.Path,
		)), nil, false
	}
	outcome.NewVersion = version

	content, readErr := os.ReadFile(project.Path)
	if readErr != nil {
		return failOutcome(outcome, readErr), nil, false
	}

	if spec.PackDependencies {
		outcome.Dependencies = dependencyProjects(project.Path, string(content), all)
	}

	if spec.DryRun {
		outcome.Status = entities.OutcomePlanned
		if project.Packable && !spec.SkipPack {
			outcome.Packages = []string{plannedPackagePath(spec, name, version)}
		}
		return outcome, nil, false
	}

	updated, changed := scanner.ApplyVersion(string(content), project.Kind, version)
	if changed {
		if writeErr := scanner.WriteFileAtomic(project.Path, updated); writeErr != nil {
			return failOutcome(outcome, writeErr), nil, false
		}
		logger.Infof("[release] %s: version %s -> %s", name, project.CurrentVersion, version)
	}

	if !project.Packable || spec.SkipPack {
		outcome.Status = entities.OutcomeSuccess
		return outcome, nil, false
	}

	packages, packErr := it.builder.Pack(ctx, project.Path, spec, version)
	if packErr != nil {
		return failOutcome(outcome, packErr), nil, false
	}
	outcome.Packages = packages

	if signErr := it.signPackages(ctx, spec, packages); signErr != nil {
		return failOutcome(outcome, signErr), nil, false
	}

	if spec.Publish && spec.PublishTarget != nil {
		for _, pkg := range packages {
			if pushErr := it.builder.Push(ctx, pkg, *spec.PublishTarget, spec.SkipDuplicate); pushErr != nil {
				return failOutcome(outcome, pushErr), pushed, true
			}
			pushed = append(pushed, pkg)
		}
	}

	outcome.Status = entities.OutcomeSuccess
	return outcome, pushed, false
}

// signPackages signs via the first available mechanism. An unavailable
// signing tool is a recorded warning, not an error.
func (it *ReleaseCommand) signPackages(
	ctx context.Context,
	spec *entities.ReleaseSpec,
	packages []string,
) error {
	if spec.Signing == nil || len(packages) == 0 {
		return nil
	}

	signer := it.signers.First(spec.Signing)
	if signer == nil {
		logger.Warnf("[release] no signing tool available, skipping signing")
		return nil
	}

	if err := signer.Sign(ctx, packages, spec.Signing); err != nil {
		return fmt.Errorf("signing with %s failed: %w", signer.Name(), err)
	}
	return nil
}

// publishRelease creates the tagged release and uploads every produced
// package (and detached signatures, when present) as assets.
func (it *ReleaseCommand) publishRelease(
	ctx context.Context,
	spec *entities.ReleaseSpec,
	result *entities.RepositoryReleaseResult,
) {
	version := result.ResolvedVersion
	if version == "" {
		for _, outcome := range result.Outcomes {
			if outcome.Status == entities.OutcomeSuccess && outcome.NewVersion != "" {
				version = outcome.NewVersion
				break
			}
		}
	}
	if version == "" {
		logger.Warnf("[release] no released version, skipping release publication")
		return
	}

	target := *spec.GitHub
	if target.Owner == "" || target.Repo == "" || target.Commitish == "" {
		if meta, err := it.gitMeta.Detect(spec.RootPath); err == nil {
			if target.Owner == "" {
				target.Owner = meta.Owner
			}
			if target.Repo == "" {
				target.Repo = meta.Repo
			}
			if target.Commitish == "" {
				target.Commitish = meta.Commit
			}
		} else if target.Owner == "" || target.Repo == "" {
			logger.Errorf("[release] cannot determine release repository: %v", err)
			result.GitHubRelease = &entities.PublishResult{}
			return
		}
	}

	token := target.Token.Resolve()
	if token == "" {
		logger.Errorf("[release] no auth token configured for release publication")
		result.GitHubRelease = &entities.PublishResult{}
		return
	}

	prefix := target.TagPrefix
	if prefix == "" {
		prefix = "v"
	}
	tag := prefix + version

	releaseName := target.ReleaseName
	if releaseName == "" {
		releaseName = tag
	}

	var assets []string
	for _, outcome := range result.Outcomes {
		for _, pkg := range outcome.Packages {
			assets = append(assets, pkg)
			if _, err := os.Stat(pkg + ".asc"); err == nil {
				assets = append(assets, pkg+".asc")
			}
		}
	}

	publishResult, err := it.publisher.Execute(ctx, entities.ReleaseInput{
		Owner:         target.Owner,
		Repo:          target.Repo,
		Tag:           tag,
		Name:          releaseName,
		Body:          target.Notes,
		Draft:         target.Draft,
		Prerelease:    target.Prerelease,
		GenerateNotes: target.GenerateNotes,
		Commitish:     target.Commitish,
	}, token, assets)
	if err != nil {
		logger.Errorf("[release] release publication failed: %v", err)
	}
	result.GitHubRelease = publishResult
}

func dependencyProjects(
	path, content string,
	all []entities.DiscoveredFile,
) []string {
	known := make(map[string]string, len(all))
	for _, file := range all {
		if file.Kind == entities.SourceKindCsproj {
			known[filepath.Clean(file.Path)] = file.ProjectName()
		}
	}

	var deps []string
	for _, ref := range scanner.ProjectReferences(path, content) {
		if name, ok := known[ref]; ok {
			deps = append(deps, name)
		}
	}
	return deps
}

func plannedPackagePath(spec *entities.ReleaseSpec, name, version string) string {
	outDir := spec.OutputDirectory
	if outDir == "" {
		outDir = filepath.Join(spec.RootPath, "artifacts")
	}
	return filepath.Join(outDir, fmt.Sprintf("%s.%s.nupkg", name, version))
}

func failOutcome(
	outcome *entities.ProjectReleaseOutcome,
	err error,
) *entities.ProjectReleaseOutcome {
	logger.Errorf("[release] %s: %v", outcome.Project, err)
	outcome.Status = entities.OutcomeError
	outcome.Error = err.Error()
	return outcome
}

func overallSuccess(result *entities.RepositoryReleaseResult) bool {
	for _, outcome := range result.Outcomes {
		if outcome.Status == entities.OutcomeError {
			return false
		}
	}
	if result.GitHubRelease != nil && !result.GitHubRelease.Succeeded {
		return false
	}
	return true
}
