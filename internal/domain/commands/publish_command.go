package commands

import (
	"context"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/domain/repositories"
)

// Publish is the interface for the release-publishing command.
type Publish interface {
	Execute(
		ctx context.Context,
		input entities.ReleaseInput,
		token string,
		assets []string,
	) (*entities.PublishResult, error)
}

// PublishCommand creates (or idempotently reuses) a tagged release on the
// hosting service and uploads binary assets against it.
type PublishCommand struct {
	factory repositories.ReleaseRepositoryFactory
}

// NewPublishCommand creates a new PublishCommand.
func NewPublishCommand(factory repositories.ReleaseRepositoryFactory) *PublishCommand {
	return &PublishCommand{factory: factory}
}

// Execute publishes one release. Asset paths are validated before any network
// call; a doomed upload never creates a release. Uploads happen strictly in
// the caller-supplied order, sequentially.
func (it *PublishCommand) Execute(
	ctx context.Context,
	input entities.ReleaseInput,
	token string,
	assets []string,
) (*entities.PublishResult, error) {
	for _, asset := range assets {
		if _, err := os.Stat(asset); err != nil {
			return nil, fmt.Errorf("asset %q is not accessible: %w", asset, err)
		}
	}

	host := it.factory(token)

	release, err := host.CreateOrReuse(ctx, input)
	if err != nil {
		return &entities.PublishResult{}, err
	}
	if release.Reused {
		logger.Warnf("[publish] release %q already exists, reusing %s", input.Tag, release.HTMLURL)
	} else {
		logger.Infof("[publish] created release %q at %s", input.Tag, release.HTMLURL)
	}

	result := &entities.PublishResult{
		ReleaseCreated: true,
		Release:        release,
	}

	if len(assets) == 0 {
		result.Succeeded = true
		return result, nil
	}

	allUploaded := true
	for _, asset := range assets {
		uploadResult, uploadErr := host.UploadAsset(ctx, release, asset)
		if uploadErr != nil {
			allUploaded = false
			logger.Errorf("[publish] failed to upload %q: %v", asset, uploadErr)
		} else if uploadResult.Status == entities.AssetAlreadyExists {
			logger.Warnf("[publish] asset %q already uploaded, skipping", uploadResult.Name)
		} else {
			logger.Infof("[publish] uploaded asset %q", uploadResult.Name)
		}
		result.Assets = append(result.Assets, uploadResult)
	}

	result.AssetsUploaded = &allUploaded
	result.Succeeded = allUploaded
	return result, nil
}
