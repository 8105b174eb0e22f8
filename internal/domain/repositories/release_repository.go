package repositories

import (
	"context"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// ReleaseRepository abstracts a release hosting service (GitHub).
type ReleaseRepository interface {
	// CreateOrReuse creates a tagged release. An "already exists" conflict on
	// the tag is absorbed by fetching the existing release instead of
	// failing, making repeated runs idempotent.
	CreateOrReuse(ctx context.Context, input entities.ReleaseInput) (*entities.ReleaseInfo, error)

	// UploadAsset uploads one binary asset against the release. A duplicate
	// name conflict is reported as AssetAlreadyExists, not as an error.
	UploadAsset(
		ctx context.Context,
		release *entities.ReleaseInfo,
		path string,
	) (entities.AssetUploadResult, error)
}

// ReleaseRepositoryFactory builds a ReleaseRepository for an auth token.
type ReleaseRepositoryFactory func(token string) ReleaseRepository
