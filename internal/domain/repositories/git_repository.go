package repositories

import (
	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// GitMetadataRepository detects repository identity from a local clone, used
// to default the release owner/repo/commitish when not configured.
type GitMetadataRepository interface {
	Detect(path string) (*entities.GitMetadata, error)
}
