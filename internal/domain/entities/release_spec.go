package entities

import (
	"fmt"
	"strings"
)

// BuildConfiguration names a dotnet build configuration.
type BuildConfiguration string

const (
	ConfigurationRelease BuildConfiguration = "Release"
	ConfigurationDebug   BuildConfiguration = "Debug"
)

// SigningSpec configures artifact signing. Thumbprint and PFX reference a
// platform code-signing certificate; PGPKeyPath enables the in-process
// detached-signature fallback when no platform tool is available.
type SigningSpec struct {
	Thumbprint    string     `yaml:"thumbprint"`
	PFXPath       string     `yaml:"pfx_path"`
	PFXBase64     string     `yaml:"pfx_base64"`
	Password      Credential `yaml:"password"`
	TimestampURL  string     `yaml:"timestamp_url"`
	PGPKeyPath    string     `yaml:"pgp_key_path"`
	PGPPassphrase Credential `yaml:"pgp_passphrase"`
}

// PublishTarget is a package feed to push packages to.
type PublishTarget struct {
	FeedURL string     `yaml:"feed_url"`
	APIKey  Credential `yaml:"api_key"`
}

// GitHubTarget configures the GitHub release created after a successful run.
// Owner/Repo/Commitish left empty are detected from the local clone.
type GitHubTarget struct {
	Owner         string     `yaml:"owner"`
	Repo          string     `yaml:"repo"`
	Token         Credential `yaml:"token"`
	TagPrefix     string     `yaml:"tag_prefix"`
	ReleaseName   string     `yaml:"release_name"`
	Notes         string     `yaml:"notes"`
	Draft         bool       `yaml:"draft"`
	Prerelease    bool       `yaml:"prerelease"`
	GenerateNotes bool       `yaml:"generate_notes"`
	Commitish     string     `yaml:"commitish"`
}

// ReleaseSpec is the full configuration for one repository release run.
// Created once per invocation; only DryRun is toggled between the planning
// and executing sub-invocations.
type ReleaseSpec struct {
	RootPath string

	// ExpectedVersion is an exact or X-pattern spec applied repository-wide.
	// Mutually exclusive with ExpectedVersionMap.
	ExpectedVersion    string
	ExpectedVersionMap *ProjectVersionMap

	IncludeProjects    []string
	ExcludeProjects    []string
	ExcludeDirectories []string

	// Sources are package registry URLs or local directories queried during
	// X-pattern resolution and used as push fallbacks.
	Sources          []string
	SourceCredential FeedCredential

	Configuration   BuildConfiguration
	OutputDirectory string

	Signing *SigningSpec
	GitHub  *GitHubTarget

	Publish       bool
	PublishTarget *PublishTarget

	SkipPack          bool
	SkipDuplicate     bool
	PublishFailFast   bool
	IncludePrerelease bool
	PackDependencies  bool

	DryRun bool
}

// Validate performs fail-fast checks before any file or network I/O.
func (s *ReleaseSpec) Validate() error {
	if strings.TrimSpace(s.RootPath) == "" {
		return fmt.Errorf("%w: root path is mandatory", ErrInvalidVersionSpec)
	}
	if s.ExpectedVersion == "" && s.ExpectedVersionMap == nil {
		return fmt.Errorf("%w: an expected version or version map is mandatory", ErrInvalidVersionSpec)
	}
	if s.ExpectedVersion != "" && s.ExpectedVersionMap != nil {
		return fmt.Errorf("%w: expected version and version map are mutually exclusive", ErrInvalidVersionSpec)
	}
	if s.ExpectedVersion != "" {
		if _, err := ParseVersionSpec(s.ExpectedVersion); err != nil {
			return err
		}
	}
	if s.ExpectedVersionMap != nil {
		for _, entry := range s.ExpectedVersionMap.Entries {
			if _, err := ParseVersionSpec(entry.Spec); err != nil {
				return fmt.Errorf("map entry %q: %w", entry.Key, err)
			}
		}
	}
	if s.Publish && s.PublishTarget == nil && len(s.Sources) == 0 {
		return fmt.Errorf("%w: publish requested without a publish target or source", ErrInvalidVersionSpec)
	}
	return nil
}

// ProjectIncluded applies the include/exclude name filters. The version map in
// include mode is applied separately during resolution.
func (s *ReleaseSpec) ProjectIncluded(name string) bool {
	for _, excluded := range s.ExcludeProjects {
		if strings.EqualFold(excluded, name) {
			return false
		}
	}
	if len(s.IncludeProjects) == 0 {
		return true
	}
	for _, included := range s.IncludeProjects {
		if strings.EqualFold(included, name) {
			return true
		}
	}
	return false
}
