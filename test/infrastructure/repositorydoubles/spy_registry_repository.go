//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations — no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/domain/repositories"
)

// RegistryRequest records a single invocation of ListVersions.
type RegistryRequest struct {
	Source     string
	PackageID  string
	Credential entities.FeedCredential
}

// SpyRegistryRepository implements repositories.RegistryRepository as a
// configurable spy. Versions are keyed by source URL; a source with no entry
// and no error behaves as a reachable feed that does not carry the package.
type SpyRegistryRepository struct {
	// --- identity ---
	RegistryName string

	// --- ListVersions ---
	Versions map[string][]string // source -> versions
	// VersionsByPackage wins over Versions when the package has an entry.
	VersionsByPackage map[string][]string // packageID -> versions
	ErrBySource       map[string]error
	// spy: requests received
	Requests []RegistryRequest
}

var _ repositories.RegistryRepository = (*SpyRegistryRepository)(nil)

func (r *SpyRegistryRepository) Name() string {
	if r.RegistryName == "" {
		return "spy"
	}
	return r.RegistryName
}

func (r *SpyRegistryRepository) ListVersions(
	_ context.Context,
	source, packageID string,
	credential entities.FeedCredential,
) ([]string, error) {
	r.Requests = append(r.Requests, RegistryRequest{
		Source:     source,
		PackageID:  packageID,
		Credential: credential,
	})
	if r.ErrBySource != nil {
		if err, ok := r.ErrBySource[source]; ok {
			return nil, err
		}
	}
	if r.VersionsByPackage != nil {
		if versions, ok := r.VersionsByPackage[packageID]; ok {
			return versions, nil
		}
	}
	if r.Versions != nil {
		return r.Versions[source], nil
	}
	return nil, nil
}
