package nuget

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	domainRepos "github.com/rios0rios0/releasekit/internal/domain/repositories"
)

const (
	registryName = "nuget"
	retryMax     = 3
	// Network calls have no per-request override; 100s mirrors the HttpClient
	// default of the dotnet toolchain.
	requestTimeout = 100 * time.Second

	flatContainerResource = "PackageBaseAddress/3.0.0"
)

// RegistryRepository implements repositories.RegistryRepository for NuGet
// feeds. A source may be a V3 service index URL, a flat-container base URL,
// or a local directory of .nupkg files.
type RegistryRepository struct {
	client *retryablehttp.Client
}

// NewRegistryRepository creates a NuGet registry client with sane retry and
// timeout defaults.
func NewRegistryRepository() domainRepos.RegistryRepository {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.Logger = nil
	client.HTTPClient.Timeout = requestTimeout
	return &RegistryRepository{client: client}
}

func (r *RegistryRepository) Name() string { return registryName }

// ListVersions returns every published version of a package at one source,
// sorted descending. A reachable source that has never seen the package
// yields an empty list, not an error.
func (r *RegistryRepository) ListVersions(
	ctx context.Context,
	source, packageID string,
	credential entities.FeedCredential,
) ([]string, error) {
	if info, err := os.Stat(source); err == nil && info.IsDir() {
		return listLocalVersions(source, packageID)
	}
	return r.listRemoteVersions(ctx, source, packageID, credential)
}

// listLocalVersions treats the source as a local package folder.
func listLocalVersions(source, packageID string) ([]string, error) {
	pattern := filepath.Join(source, "*.nupkg")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan local source %q: %w", source, err)
	}

	prefix := strings.ToLower(packageID) + "."
	var versions []string
	for _, match := range matches {
		base := strings.TrimSuffix(filepath.Base(match), ".nupkg")
		if !strings.HasPrefix(strings.ToLower(base), prefix) {
			continue
		}
		versions = append(versions, base[len(prefix):])
	}

	sortVersionsDescending(versions)
	return versions, nil
}

func (r *RegistryRepository) listRemoteVersions(
	ctx context.Context,
	source, packageID string,
	credential entities.FeedCredential,
) ([]string, error) {
	base, err := r.flatContainerBase(ctx, source, credential)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/index.json", base, strings.ToLower(packageID))
	resp, err := r.get(ctx, url, credential)
	if err != nil {
		return nil, fmt.Errorf("source %q unreachable: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []string{}, nil // reachable, package never published
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source %q returned status %d", source, resp.StatusCode)
	}

	var payload struct {
		Versions []string `json:"versions"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode version list from %q: %w", source, decodeErr)
	}

	sortVersionsDescending(payload.Versions)
	return payload.Versions, nil
}

// flatContainerBase resolves the package base address. A source ending in
// index.json is treated as a V3 service index and queried for the
// flat-container resource; anything else is used as the base directly.
func (r *RegistryRepository) flatContainerBase(
	ctx context.Context,
	source string,
	credential entities.FeedCredential,
) (string, error) {
	trimmed := strings.TrimSuffix(source, "/")
	if !strings.HasSuffix(strings.ToLower(trimmed), "index.json") {
		return trimmed, nil
	}

	resp, err := r.get(ctx, trimmed, credential)
	if err != nil {
		return "", fmt.Errorf("service index %q unreachable: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("service index %q returned status %d", source, resp.StatusCode)
	}

	var index struct {
		Resources []struct {
			ID   string `json:"@id"`
			Type string `json:"@type"`
		} `json:"resources"`
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(&index); decodeErr != nil {
		return "", fmt.Errorf("failed to decode service index %q: %w", source, decodeErr)
	}

	for _, resource := range index.Resources {
		if strings.HasPrefix(resource.Type, flatContainerResource) {
			return strings.TrimSuffix(resource.ID, "/"), nil
		}
	}
	return "", fmt.Errorf("service index %q has no %s resource", source, flatContainerResource)
}

func (r *RegistryRepository) get(
	ctx context.Context,
	url string,
	credential entities.FeedCredential,
) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if credential.Username != "" {
		req.SetBasicAuth(credential.Username, credential.Secret.Resolve())
	}
	return r.client.Do(req)
}

// sortVersionsDescending orders semver-parseable versions newest first and
// keeps the order deterministic for anything else.
func sortVersionsDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, b := canonical(versions[i]), canonical(versions[j])
		if semver.IsValid(a) && semver.IsValid(b) {
			return semver.Compare(a, b) > 0
		}
		return versions[i] > versions[j]
	})
}

func canonical(version string) string {
	return "v" + strings.TrimPrefix(version, "v")
}
