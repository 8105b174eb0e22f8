//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/releasekit/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ReleaseSpecBuilder helps create test release specs with a fluent interface.
type ReleaseSpecBuilder struct {
	*testkit.BaseBuilder
	rootPath        string
	expectedVersion string
	versionMap      *entities.ProjectVersionMap
	sources         []string
	includeProjects []string
	excludeProjects []string
	excludeDirs     []string
	publishTarget   *entities.PublishTarget
	github          *entities.GitHubTarget
	signing         *entities.SigningSpec
	outputDirectory string
	skipPack        bool
	publishFailFast bool
	includePre      bool
	packDeps        bool
	dryRun          bool
}

// NewReleaseSpecBuilder creates a new release spec builder with sensible defaults.
func NewReleaseSpecBuilder() *ReleaseSpecBuilder {
	return &ReleaseSpecBuilder{
		BaseBuilder:     testkit.NewBaseBuilder(),
		rootPath:        ".",
		expectedVersion: "1.2.3",
		sources:         []string{"https://example.com/v3/index.json"},
	}
}

// WithRootPath sets the repository root.
func (b *ReleaseSpecBuilder) WithRootPath(path string) *ReleaseSpecBuilder {
	b.rootPath = path
	return b
}

// WithExpectedVersion sets the repository-wide version spec.
func (b *ReleaseSpecBuilder) WithExpectedVersion(version string) *ReleaseSpecBuilder {
	b.expectedVersion = version
	return b
}

// WithVersionMap sets the per-project version map and clears the
// repository-wide version.
func (b *ReleaseSpecBuilder) WithVersionMap(m *entities.ProjectVersionMap) *ReleaseSpecBuilder {
	b.versionMap = m
	b.expectedVersion = ""
	return b
}

// WithSources sets the version sources.
func (b *ReleaseSpecBuilder) WithSources(sources ...string) *ReleaseSpecBuilder {
	b.sources = sources
	return b
}

// WithIncludeProjects sets the project include list.
func (b *ReleaseSpecBuilder) WithIncludeProjects(names ...string) *ReleaseSpecBuilder {
	b.includeProjects = names
	return b
}

// WithExcludeProjects sets the project exclude list.
func (b *ReleaseSpecBuilder) WithExcludeProjects(names ...string) *ReleaseSpecBuilder {
	b.excludeProjects = names
	return b
}

// WithExcludeDirectories sets the directory prune list.
func (b *ReleaseSpecBuilder) WithExcludeDirectories(dirs ...string) *ReleaseSpecBuilder {
	b.excludeDirs = dirs
	return b
}

// WithPublishTarget enables feed publishing against the given target.
func (b *ReleaseSpecBuilder) WithPublishTarget(target *entities.PublishTarget) *ReleaseSpecBuilder {
	b.publishTarget = target
	return b
}

// WithGitHub sets the release hosting target.
func (b *ReleaseSpecBuilder) WithGitHub(target *entities.GitHubTarget) *ReleaseSpecBuilder {
	b.github = target
	return b
}

// WithSigning sets the signing spec.
func (b *ReleaseSpecBuilder) WithSigning(signing *entities.SigningSpec) *ReleaseSpecBuilder {
	b.signing = signing
	return b
}

// WithOutputDirectory sets the package output directory.
func (b *ReleaseSpecBuilder) WithOutputDirectory(dir string) *ReleaseSpecBuilder {
	b.outputDirectory = dir
	return b
}

// WithSkipPack disables packing.
func (b *ReleaseSpecBuilder) WithSkipPack() *ReleaseSpecBuilder {
	b.skipPack = true
	return b
}

// WithPublishFailFast stops the run at the first publish failure.
func (b *ReleaseSpecBuilder) WithPublishFailFast() *ReleaseSpecBuilder {
	b.publishFailFast = true
	return b
}

// WithIncludePrerelease lets prerelease versions feed X resolution.
func (b *ReleaseSpecBuilder) WithIncludePrerelease() *ReleaseSpecBuilder {
	b.includePre = true
	return b
}

// WithPackDependencies enables dependency packing.
func (b *ReleaseSpecBuilder) WithPackDependencies() *ReleaseSpecBuilder {
	b.packDeps = true
	return b
}

// WithDryRun enables dry-run mode.
func (b *ReleaseSpecBuilder) WithDryRun() *ReleaseSpecBuilder {
	b.dryRun = true
	return b
}

// Build creates the release spec (satisfies testkit.Builder interface).
func (b *ReleaseSpecBuilder) Build() interface{} {
	return b.BuildReleaseSpec()
}

// BuildReleaseSpec creates the release spec with a concrete return type.
func (b *ReleaseSpecBuilder) BuildReleaseSpec() *entities.ReleaseSpec {
	return &entities.ReleaseSpec{
		RootPath:           b.rootPath,
		ExpectedVersion:    b.expectedVersion,
		ExpectedVersionMap: b.versionMap,
		IncludeProjects:    b.includeProjects,
		ExcludeProjects:    b.excludeProjects,
		ExcludeDirectories: b.excludeDirs,
		Sources:            b.sources,
		Configuration:      entities.ConfigurationRelease,
		OutputDirectory:    b.outputDirectory,
		Signing:            b.signing,
		GitHub:             b.github,
		Publish:            b.publishTarget != nil,
		PublishTarget:      b.publishTarget,
		SkipPack:           b.skipPack,
		PublishFailFast:    b.publishFailFast,
		IncludePrerelease:  b.includePre,
		PackDependencies:   b.packDeps,
		DryRun:             b.dryRun,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ReleaseSpecBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.rootPath = "."
	b.expectedVersion = "1.2.3"
	b.versionMap = nil
	b.sources = []string{"https://example.com/v3/index.json"}
	b.includeProjects = nil
	b.excludeProjects = nil
	b.excludeDirs = nil
	b.publishTarget = nil
	b.github = nil
	b.signing = nil
	b.outputDirectory = ""
	b.skipPack = false
	b.publishFailFast = false
	b.includePre = false
	b.packDeps = false
	b.dryRun = false
	return b
}

// Clone creates a deep copy of the ReleaseSpecBuilder.
func (b *ReleaseSpecBuilder) Clone() testkit.Builder {
	clone := *b
	clone.BaseBuilder = b.BaseBuilder.Clone().(*testkit.BaseBuilder)
	return &clone
}
