package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/domain/repositories"
)

// repoWideCacheKey memoizes a repository-wide X-pattern resolution so the
// computation happens once and is reused for every project in the run.
const repoWideCacheKey = "\x00repository"

// VersionResolver computes the concrete target version for a project from
// the run's version spec. One resolver instance covers one orchestration run;
// X-pattern resolutions are memoized per scope.
type VersionResolver struct {
	registry repositories.RegistryRepository
	cache    map[string]string
}

// NewVersionResolver creates a resolver backed by the given package registry.
func NewVersionResolver(registry repositories.RegistryRepository) *VersionResolver {
	return &VersionResolver{
		registry: registry,
		cache:    make(map[string]string),
	}
}

// Resolve returns the target version for a project. The second return value
// is false when the version map operates in include mode and the project has
// no matching key, which excludes it from the release entirely. An empty
// version with included=true means the project keeps its current version.
func (it *VersionResolver) Resolve(
	ctx context.Context,
	project string,
	spec *entities.ReleaseSpec,
) (string, bool, error) {
	raw := spec.ExpectedVersion
	if spec.ExpectedVersionMap != nil {
		mapped, found := spec.ExpectedVersionMap.Lookup(project)
		if !found {
			if spec.ExpectedVersionMap.AsInclude {
				return "", false, nil
			}
			return "", true, nil
		}
		raw = mapped
	}

	parsed, err := entities.ParseVersionSpec(raw)
	if err != nil {
		return "", true, err
	}

	if parsed.IsExact() {
		return parsed.Raw, true, nil
	}

	cacheKey := project
	if spec.ExpectedVersionMap == nil {
		cacheKey = repoWideCacheKey
	}
	if resolved, ok := it.cache[cacheKey]; ok {
		return resolved, true, nil
	}

	resolved, err := it.resolvePattern(ctx, project, parsed, spec)
	if err != nil {
		return "", true, err
	}

	it.cache[cacheKey] = resolved
	logger.Debugf("[resolve] %s: %q resolved to %s", project, raw, resolved)
	return resolved, true, nil
}

// resolvePattern computes the X segment as one greater than the highest
// published value at that position across all reachable sources.
func (it *VersionResolver) resolvePattern(
	ctx context.Context,
	project string,
	parsed *entities.VersionSpec,
	spec *entities.ReleaseSpec,
) (string, error) {
	reachable := false
	highest := -1

	for _, source := range spec.Sources {
		versions, err := it.registry.ListVersions(ctx, source, project, spec.SourceCredential)
		if err != nil {
			logger.Warnf("[resolve] source %q unreachable: %v", source, err)
			continue
		}
		reachable = true

		for _, published := range versions {
			if isPrerelease(published) && !spec.IncludePrerelease {
				continue
			}
			value, ok := segmentAt(published, parsed)
			if !ok {
				continue
			}
			if value > highest {
				highest = value
			}
		}
	}

	if !reachable {
		return "", fmt.Errorf(
			"%w: cannot resolve %q for %s",
			entities.ErrVersionSourceUnavailable, parsed.Raw, project,
		)
	}

	return parsed.WithResolved(highest + 1), nil
}

// segmentAt extracts the integer at the X position of a published version,
// provided its fixed-prefix segments match the spec.
func segmentAt(published string, parsed *entities.VersionSpec) (int, bool) {
	core := published
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}

	segments := strings.Split(core, ".")
	if len(segments) <= parsed.XIndex {
		return 0, false
	}

	for i, fixed := range parsed.FixedPrefix() {
		want, err := strconv.Atoi(fixed)
		if err != nil {
			return 0, false
		}
		got, err := strconv.Atoi(segments[i])
		if err != nil || got != want {
			return 0, false
		}
	}

	value, err := strconv.Atoi(segments[parsed.XIndex])
	if err != nil {
		return 0, false
	}
	return value, true
}

func isPrerelease(version string) bool {
	return strings.Contains(version, "-")
}
