package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releasekit/internal/domain/commands"
	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// ReleaseController handles the "release" subcommand (full pipeline).
type ReleaseController struct {
	command commands.Release
}

// NewReleaseController creates a new ReleaseController.
func NewReleaseController(command commands.Release) *ReleaseController {
	return &ReleaseController{command: command}
}

// GetBind returns the Cobra command metadata for the release controller.
func (it *ReleaseController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "release [path]",
		Short: "Version, pack, sign and publish every project in the repository",
		Long: `Run the full release pipeline against a repository.

Discovers every project under the root path, resolves each target
version, rewrites project files, packs NuGet packages, signs the
artifacts, pushes them to the configured feed and publishes a tagged
release with the packages attached.

A failure in one project never aborts the others unless
publish_fail_fast is set.`,
	}
}

// Execute runs the release pipeline.
func (it *ReleaseController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	spec, err := loadReleaseSpec(cmd, args)
	if err != nil {
		logger.Errorf("failed to load release settings: %v", err)
		return
	}

	logger.Info("Starting release run...")

	result, err := it.command.Execute(ctx, spec)
	if err != nil {
		logger.Errorf("Release failed: %v", err)
		return
	}

	reportOutcomes(result)
	if !result.Succeeded {
		logger.Error("Release finished with failures")
	}
}

// AddFlags adds the release-specific flags to the given Cobra command.
func (it *ReleaseController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("version", "",
		"Target version for every project (overrides the settings file)")
}

func reportOutcomes(result *entities.RepositoryReleaseResult) {
	for _, outcome := range result.Outcomes {
		switch outcome.Status {
		case entities.OutcomeError:
			logger.Errorf("[release] %s: %s", outcome.Project, outcome.Error)
		case entities.OutcomePlanned:
			logger.Infof("[release] %s: would release %s -> %s",
				outcome.Project, outcome.OldVersion, outcome.NewVersion)
		case entities.OutcomeSuccess:
			logger.Infof("[release] %s: %s -> %s (%d package(s))",
				outcome.Project, outcome.OldVersion, outcome.NewVersion, len(outcome.Packages))
		}
	}

	if release := result.GitHubRelease; release != nil && release.Release != nil {
		logger.Infof("[release] published %s: %s",
			release.Release.Tag, release.Release.HTMLURL)
	}
}
