package controllers

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releasekit/internal/domain/commands"
	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// PublishController handles the "publish" subcommand (standalone release
// publishing with pre-built assets).
type PublishController struct {
	command commands.Publish
}

// NewPublishController creates a new PublishController.
func NewPublishController(command commands.Publish) *PublishController {
	return &PublishController{command: command}
}

// GetBind returns the Cobra command metadata for the publish controller.
func (it *PublishController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "publish [assets...]",
		Short: "Publish a tagged release with the given assets",
		Long: `Create a tagged release on the hosting service and upload the
given files as release assets. Reuses the release when the tag already
exists and skips assets that were already uploaded, so an interrupted
run can simply be repeated.`,
	}
}

// Execute publishes one release.
func (it *PublishController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	input, token, ok := it.buildInput(cmd)
	if !ok {
		return
	}

	result, err := it.command.Execute(ctx, input, token, args)
	if err != nil {
		logger.Errorf("Publish failed: %v", err)
		return
	}

	for _, asset := range result.Assets {
		logger.Infof("[publish] %-14s %s", asset.Status, asset.Name)
	}
	if result.Release != nil {
		logger.Infof("[publish] release %s: %s", result.Release.Tag, result.Release.HTMLURL)
	}
	if !result.Succeeded {
		logger.Error("Publish finished with failures")
	}
}

// AddFlags adds the publish-specific flags to the given Cobra command.
func (it *PublishController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner", "", "Repository owner")
	cmd.Flags().String("repo", "", "Repository name")
	cmd.Flags().String("tag", "", "Release tag (required)")
	cmd.Flags().String("name", "", "Release title (defaults to the tag)")
	cmd.Flags().String("notes", "", "Release notes body")
	cmd.Flags().String("commitish", "", "Commit or branch the tag should point at")
	cmd.Flags().Bool("draft", false, "Create the release as a draft")
	cmd.Flags().Bool("prerelease", false, "Mark the release as a prerelease")
	cmd.Flags().Bool("generate-notes", false, "Let the hosting service generate the notes")
}

func (it *PublishController) buildInput(cmd *cobra.Command) (entities.ReleaseInput, string, bool) {
	var input entities.ReleaseInput
	input.Owner, _ = cmd.Flags().GetString("owner")
	input.Repo, _ = cmd.Flags().GetString("repo")
	input.Tag, _ = cmd.Flags().GetString("tag")
	input.Name, _ = cmd.Flags().GetString("name")
	input.Body, _ = cmd.Flags().GetString("notes")
	input.Commitish, _ = cmd.Flags().GetString("commitish")
	input.Draft, _ = cmd.Flags().GetBool("draft")
	input.Prerelease, _ = cmd.Flags().GetBool("prerelease")
	input.GenerateNotes, _ = cmd.Flags().GetBool("generate-notes")

	if input.Tag == "" {
		logger.Error("--tag is required")
		return input, "", false
	}
	if input.Owner == "" || input.Repo == "" {
		logger.Error("--owner and --repo are required")
		return input, "", false
	}
	if input.Name == "" {
		input.Name = input.Tag
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		logger.Error("no token supplied: use --token or set GITHUB_TOKEN")
		return input, "", false
	}

	return input, token, true
}
