package entities

import (
	"fmt"
	"path"
	"strings"
)

// VersionMapEntry is one project-name-to-version-spec pair. Declaration order
// matters when wildcard keys are enabled: the first matching key wins.
type VersionMapEntry struct {
	Key  string
	Spec string
}

// ProjectVersionMap maps project display names (case-insensitive) to version
// spec strings. With AsInclude set, projects without a matching key are
// excluded from the release entirely. With UseWildcards set, keys may contain
// glob patterns ("*", "?").
type ProjectVersionMap struct {
	Entries      []VersionMapEntry
	AsInclude    bool
	UseWildcards bool
}

// NewProjectVersionMap validates the entries eagerly, before any file or
// network I/O happens downstream.
func NewProjectVersionMap(
	entries []VersionMapEntry,
	asInclude, useWildcards bool,
) (*ProjectVersionMap, error) {
	for i, entry := range entries {
		if strings.TrimSpace(entry.Key) == "" {
			return nil, fmt.Errorf(
				"%w: entry %d has an empty project key", ErrInvalidVersionMapEntry, i,
			)
		}
		if strings.TrimSpace(entry.Spec) == "" {
			return nil, fmt.Errorf(
				"%w: entry %q has an empty version value",
				ErrInvalidVersionMapEntry, entry.Key,
			)
		}
	}
	return &ProjectVersionMap{
		Entries:      entries,
		AsInclude:    asInclude,
		UseWildcards: useWildcards,
	}, nil
}

// Lookup finds the version spec for a project name. Exact keys are compared
// case-insensitively; wildcard keys are matched in declaration order.
func (m *ProjectVersionMap) Lookup(project string) (string, bool) {
	for _, entry := range m.Entries {
		if strings.EqualFold(entry.Key, project) {
			return entry.Spec, true
		}
	}

	if !m.UseWildcards {
		return "", false
	}

	lowered := strings.ToLower(project)
	for _, entry := range m.Entries {
		matched, err := path.Match(strings.ToLower(entry.Key), lowered)
		if err != nil {
			continue
		}
		if matched {
			return entry.Spec, true
		}
	}

	return "", false
}
