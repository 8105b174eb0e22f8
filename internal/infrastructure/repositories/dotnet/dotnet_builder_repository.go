package dotnet

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	domainRepos "github.com/rios0rios0/releasekit/internal/domain/repositories"
)

// CommandRunner executes one external command and returns its combined
// output. Exit code zero means success; anything else is the step's error.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) (string, error)

// DefaultRunner runs commands through the real toolchain.
func DefaultRunner(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf(
			"%s %s failed: %w\n%s", name, strings.Join(args, " "), err, output,
		)
	}
	return string(output), nil
}

var createdPackagePattern = regexp.MustCompile(`Successfully created package '([^']+)'`)

// BuilderRepository implements repositories.BuilderRepository over the
// external dotnet CLI.
type BuilderRepository struct {
	run CommandRunner
}

// NewBuilderRepository creates a builder invoking the real dotnet CLI.
func NewBuilderRepository() domainRepos.BuilderRepository {
	return NewBuilderRepositoryWithRunner(DefaultRunner)
}

// NewBuilderRepositoryWithRunner creates a builder with an injected runner
// (tests substitute a stub).
func NewBuilderRepositoryWithRunner(run CommandRunner) *BuilderRepository {
	return &BuilderRepository{run: run}
}

// Pack builds and packs one project at the given version.
func (b *BuilderRepository) Pack(
	ctx context.Context,
	projectPath string,
	spec *entities.ReleaseSpec,
	version string,
) ([]string, error) {
	outDir := spec.OutputDirectory
	if outDir == "" {
		outDir = filepath.Join(spec.RootPath, "artifacts")
	}

	configuration := string(spec.Configuration)
	if configuration == "" {
		configuration = string(entities.ConfigurationRelease)
	}

	args := []string{
		"pack", projectPath,
		"--configuration", configuration,
		"--output", outDir,
		"/p:Version=" + version,
		"/p:PackageVersion=" + version,
	}

	logger.Debugf("[dotnet] pack %s (%s, %s)", projectPath, configuration, version)
	output, err := b.run(ctx, filepath.Dir(projectPath), "dotnet", args...)
	if err != nil {
		return nil, err
	}

	packages := parseCreatedPackages(output)
	if len(packages) == 0 {
		// Older SDKs do not always echo the created-package line.
		name := strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
		expected := filepath.Join(outDir, fmt.Sprintf("%s.%s.nupkg", name, version))
		if _, statErr := os.Stat(expected); statErr == nil {
			packages = []string{expected}
		}
	}

	if len(packages) == 0 {
		return nil, fmt.Errorf("dotnet pack produced no package for %q", projectPath)
	}
	return packages, nil
}

// Push publishes one package to a feed.
func (b *BuilderRepository) Push(
	ctx context.Context,
	packagePath string,
	target entities.PublishTarget,
	skipDuplicate bool,
) error {
	args := []string{
		"nuget", "push", packagePath,
		"--source", target.FeedURL,
	}
	if key := target.APIKey.Resolve(); key != "" {
		args = append(args, "--api-key", key)
	}
	if skipDuplicate {
		args = append(args, "--skip-duplicate")
	}

	logger.Debugf("[dotnet] push %s -> %s", packagePath, target.FeedURL)
	_, err := b.run(ctx, filepath.Dir(packagePath), "dotnet", args...)
	return err
}

func parseCreatedPackages(output string) []string {
	var packages []string
	for _, m := range createdPackagePattern.FindAllStringSubmatch(output, -1) {
		packages = append(packages, m[1])
	}
	return packages
}
