//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"path/filepath"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/domain/repositories"
)

// SpyReleaseRepository implements repositories.ReleaseRepository as a
// configurable spy.
type SpyReleaseRepository struct {
	// --- CreateOrReuse ---
	Release   *entities.ReleaseInfo
	CreateErr error
	// spy: inputs received
	CreateInputs []entities.ReleaseInput

	// --- UploadAsset ---
	// UploadStatuses is keyed by asset base name; assets without an entry
	// upload successfully.
	UploadStatuses map[string]entities.AssetUploadStatus
	UploadErrs     map[string]error
	// spy: asset paths received, in order
	UploadedPaths []string
}

var _ repositories.ReleaseRepository = (*SpyReleaseRepository)(nil)

func (r *SpyReleaseRepository) CreateOrReuse(
	_ context.Context,
	input entities.ReleaseInput,
) (*entities.ReleaseInfo, error) {
	r.CreateInputs = append(r.CreateInputs, input)
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	if r.Release != nil {
		return r.Release, nil
	}
	return &entities.ReleaseInfo{
		ID:      1,
		Owner:   input.Owner,
		Repo:    input.Repo,
		Tag:     input.Tag,
		HTMLURL: "https://example.com/releases/" + input.Tag,
	}, nil
}

func (r *SpyReleaseRepository) UploadAsset(
	_ context.Context,
	_ *entities.ReleaseInfo,
	path string,
) (entities.AssetUploadResult, error) {
	r.UploadedPaths = append(r.UploadedPaths, path)

	name := filepath.Base(path)
	result := entities.AssetUploadResult{Path: path, Name: name, Status: entities.AssetUploaded}

	if r.UploadErrs != nil {
		if err, ok := r.UploadErrs[name]; ok {
			result.Status = entities.AssetFailed
			result.Error = err.Error()
			return result, err
		}
	}
	if r.UploadStatuses != nil {
		if status, ok := r.UploadStatuses[name]; ok {
			result.Status = status
		}
	}
	return result, nil
}
