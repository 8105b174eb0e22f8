package github

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	domainRepos "github.com/rios0rios0/releasekit/internal/domain/repositories"
)

const (
	conflictCode = "already_exists"
	// Error bodies are truncated before being surfaced for diagnosis.
	maxErrorBody = 4000

	assetContentType = "application/octet-stream"
)

// ReleaseRepository implements repositories.ReleaseRepository against the
// GitHub REST API.
type ReleaseRepository struct {
	client *gh.Client
	// reuseExisting absorbs tag conflicts by fetching the existing release;
	// prior interrupted runs then look like successes on retry.
	reuseExisting bool
}

// NewReleaseRepository creates a GitHub release publisher with the given token.
func NewReleaseRepository(token string) domainRepos.ReleaseRepository {
	return NewReleaseRepositoryWithClient(gh.NewClient(nil).WithAuthToken(token))
}

// NewReleaseRepositoryWithClient creates a publisher over a preconfigured
// client (tests point it at a local server).
func NewReleaseRepositoryWithClient(client *gh.Client) *ReleaseRepository {
	return &ReleaseRepository{client: client, reuseExisting: true}
}

// CreateOrReuse creates a tagged release. A 422 conflict reporting
// already_exists for tag_name is not a failure: the existing release is
// fetched by tag and reused.
func (p *ReleaseRepository) CreateOrReuse(
	ctx context.Context,
	input entities.ReleaseInput,
) (*entities.ReleaseInfo, error) {
	release := &gh.RepositoryRelease{
		TagName:              gh.String(input.Tag),
		Name:                 gh.String(input.Name),
		Body:                 gh.String(input.Body),
		Draft:                gh.Bool(input.Draft),
		Prerelease:           gh.Bool(input.Prerelease),
		GenerateReleaseNotes: gh.Bool(input.GenerateNotes),
	}
	if input.Commitish != "" {
		release.TargetCommitish = gh.String(input.Commitish)
	}

	created, _, err := p.client.Repositories.CreateRelease(ctx, input.Owner, input.Repo, release)
	if err == nil {
		return toReleaseInfo(input, created, false), nil
	}

	if p.reuseExisting && isAlreadyExists(err, "tag_name") {
		logger.Warnf("[github] tag %q already released, fetching existing release", input.Tag)
		existing, _, getErr := p.client.Repositories.GetReleaseByTag(
			ctx, input.Owner, input.Repo, input.Tag,
		)
		if getErr == nil {
			return toReleaseInfo(input, existing, true), nil
		}
		err = getErr
	}

	return nil, fmt.Errorf(
		"%w: %s", entities.ErrReleaseCreationFailed, truncate(err.Error(), maxErrorBody),
	)
}

// UploadAsset uploads one asset against the release. A duplicate-name
// conflict means a prior run already uploaded it; the asset is skipped, which
// keeps repeated runs against a partially-uploaded release idempotent without
// querying existing assets first.
func (p *ReleaseRepository) UploadAsset(
	ctx context.Context,
	release *entities.ReleaseInfo,
	path string,
) (entities.AssetUploadResult, error) {
	name := filepath.Base(path)
	result := entities.AssetUploadResult{Path: path, Name: name}

	file, err := os.Open(path)
	if err != nil {
		result.Status = entities.AssetFailed
		result.Error = err.Error()
		return result, fmt.Errorf("failed to open asset %q: %w", path, err)
	}
	defer file.Close()

	opts := &gh.UploadOptions{Name: name, MediaType: assetContentType}
	_, _, err = p.client.Repositories.UploadReleaseAsset(
		ctx, release.Owner, release.Repo, release.ID, opts, file,
	)
	if err == nil {
		result.Status = entities.AssetUploaded
		return result, nil
	}

	if isAlreadyExists(err, "name") {
		result.Status = entities.AssetAlreadyExists
		return result, nil
	}

	result.Status = entities.AssetFailed
	result.Error = truncate(err.Error(), maxErrorBody)
	return result, fmt.Errorf("failed to upload asset %q: %s", name, result.Error)
}

// isAlreadyExists inspects a structured API error for an already_exists
// conflict on the given field.
func isAlreadyExists(err error, field string) bool {
	var response *gh.ErrorResponse
	if !errors.As(err, &response) {
		return false
	}
	for _, detail := range response.Errors {
		if detail.Code == conflictCode && detail.Field == field {
			return true
		}
	}
	return false
}

func toReleaseInfo(
	input entities.ReleaseInput,
	release *gh.RepositoryRelease,
	reused bool,
) *entities.ReleaseInfo {
	uploadURL := release.GetUploadURL()
	// The API returns a URI template; strip the {?name,label} suffix.
	if i := strings.Index(uploadURL, "{"); i >= 0 {
		uploadURL = uploadURL[:i]
	}

	return &entities.ReleaseInfo{
		ID:        release.GetID(),
		Owner:     input.Owner,
		Repo:      input.Repo,
		Tag:       release.GetTagName(),
		HTMLURL:   release.GetHTMLURL(),
		UploadURL: uploadURL,
		Reused:    reused,
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
