package repositories

import (
	"context"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// RegistryRepository abstracts a package registry queried for the versions
// already published for a package. A source may be an HTTP feed URL or a
// local filesystem directory.
type RegistryRepository interface {
	// Name returns the registry identifier (e.g. "nuget").
	Name() string

	// ListVersions returns every published version string for a package at
	// one source. A reachable source with no published versions returns an
	// empty slice and no error; an unreachable source returns an error.
	ListVersions(
		ctx context.Context,
		source, packageID string,
		credential entities.FeedCredential,
	) ([]string, error)
}
