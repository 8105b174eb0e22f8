package git

import (
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	domainRepos "github.com/rios0rios0/releasekit/internal/domain/repositories"
)

// MetadataRepository implements repositories.GitMetadataRepository over a
// local clone, defaulting the release owner/repo/commitish from the origin
// remote and HEAD.
type MetadataRepository struct{}

// NewMetadataRepository creates a new MetadataRepository.
func NewMetadataRepository() domainRepos.GitMetadataRepository {
	return &MetadataRepository{}
}

// Detect reads the origin remote URL and HEAD commit of the repository
// containing path.
func (r *MetadataRepository) Detect(path string) (*entities.GitMetadata, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("no git repository at %q: %w", path, err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, fmt.Errorf("no origin remote in %q: %w", path, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, fmt.Errorf("origin remote of %q has no URL", path)
	}

	owner, name, err := parseRemoteURL(urls[0])
	if err != nil {
		return nil, err
	}

	meta := &entities.GitMetadata{Owner: owner, Repo: name}
	if head, headErr := repo.Head(); headErr == nil {
		meta.Commit = head.Hash().String()
	}
	return meta, nil
}

// parseRemoteURL extracts owner and repository name from an HTTPS or SSH
// remote URL.
func parseRemoteURL(rawURL string) (string, string, error) {
	trimmed := strings.TrimSuffix(rawURL, ".git")

	if strings.HasPrefix(trimmed, "git@") {
		// git@host:owner/repo
		if _, rest, found := strings.Cut(trimmed, ":"); found {
			trimmed = rest
		}
	} else if i := strings.Index(trimmed, "://"); i >= 0 {
		// scheme://host/owner/repo
		trimmed = trimmed[i+len("://"):]
		if _, rest, found := strings.Cut(trimmed, "/"); found {
			trimmed = rest
		}
	}

	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("cannot parse owner/repo from remote %q", rawURL)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
