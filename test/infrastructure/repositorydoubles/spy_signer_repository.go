//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/domain/repositories"
)

// SpySignerRepository implements repositories.SignerRepository as a
// configurable spy.
type SpySignerRepository struct {
	// --- identity ---
	SignerName string

	// --- Available ---
	AvailableResult bool

	// --- Sign ---
	SignErr error
	// spy: path batches received
	SignedBatches [][]string
}

var _ repositories.SignerRepository = (*SpySignerRepository)(nil)

func (s *SpySignerRepository) Name() string {
	if s.SignerName == "" {
		return "spy"
	}
	return s.SignerName
}

func (s *SpySignerRepository) Available(_ *entities.SigningSpec) bool {
	return s.AvailableResult
}

func (s *SpySignerRepository) Sign(
	_ context.Context,
	paths []string,
	_ *entities.SigningSpec,
) error {
	s.SignedBatches = append(s.SignedBatches, paths)
	return s.SignErr
}

// StubGitMetadataRepository is a canned implementation of
// repositories.GitMetadataRepository.
type StubGitMetadataRepository struct {
	Meta *entities.GitMetadata
	Err  error
}

var _ repositories.GitMetadataRepository = (*StubGitMetadataRepository)(nil)

func (g *StubGitMetadataRepository) Detect(_ string) (*entities.GitMetadata, error) {
	return g.Meta, g.Err
}
