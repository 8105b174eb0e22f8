package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Settings is the YAML release configuration file. CLI flags override the
// values loaded here.
type Settings struct {
	RootPath string `yaml:"root_path"`

	ExpectedVersion    string            `yaml:"expected_version"`
	ExpectedVersionMap VersionMapEntries `yaml:"expected_version_map"`
	MapAsInclude       bool              `yaml:"map_as_include"`
	MapUseWildcards    bool              `yaml:"map_use_wildcards"`

	IncludeProjects    []string `yaml:"include_projects"`
	ExcludeProjects    []string `yaml:"exclude_projects"`
	ExcludeDirectories []string `yaml:"exclude_directories"`

	Sources          []string       `yaml:"sources"`
	SourceCredential FeedCredential `yaml:"source_credential"`

	Configuration   string `yaml:"configuration"`
	OutputDirectory string `yaml:"output_directory"`

	Signing *SigningSpec   `yaml:"signing"`
	GitHub  *GitHubTarget  `yaml:"github"`
	Publish *PublishTarget `yaml:"publish"`

	SkipPack          bool `yaml:"skip_pack"`
	SkipDuplicate     bool `yaml:"skip_duplicate"`
	PublishFailFast   bool `yaml:"publish_fail_fast"`
	IncludePrerelease bool `yaml:"include_prerelease"`
	PackDependencies  bool `yaml:"pack_dependencies"`
}

// VersionMapEntries decodes a YAML mapping while preserving declaration
// order, which drives wildcard precedence (first declared pattern wins).
type VersionMapEntries []VersionMapEntry

// UnmarshalYAML implements yaml.Unmarshaler over the raw mapping node.
func (e *VersionMapEntries) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected_version_map must be a mapping, got %s", node.Tag)
	}
	entries := make(VersionMapEntries, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		entries = append(entries, VersionMapEntry{
			Key:  node.Content[i].Value,
			Spec: node.Content[i+1].Value,
		})
	}
	*e = entries
	return nil
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a settings file, expanding environment
// variable placeholders in string values.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	expanded := envVarPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	var settings Settings
	if unmarshalErr := yaml.Unmarshal([]byte(expanded), &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", unmarshalErr)
	}

	return &settings, nil
}

// FindSettingsFile searches for a settings file in standard locations and
// returns the first one found.
func FindSettingsFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".releasekit.yaml",
		".releasekit.yml",
		"releasekit.yaml",
		"releasekit.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("settings file not found in default locations")
}

// ToReleaseSpec converts the file representation into a validated ReleaseSpec.
func (s *Settings) ToReleaseSpec() (*ReleaseSpec, error) {
	spec := &ReleaseSpec{
		RootPath:           s.RootPath,
		ExpectedVersion:    strings.TrimSpace(s.ExpectedVersion),
		IncludeProjects:    s.IncludeProjects,
		ExcludeProjects:    s.ExcludeProjects,
		ExcludeDirectories: s.ExcludeDirectories,
		Sources:            s.Sources,
		SourceCredential:   s.SourceCredential,
		Configuration:      BuildConfiguration(s.Configuration),
		OutputDirectory:    s.OutputDirectory,
		Signing:            s.Signing,
		GitHub:             s.GitHub,
		Publish:            s.Publish != nil,
		PublishTarget:      s.Publish,
		SkipPack:           s.SkipPack,
		SkipDuplicate:      s.SkipDuplicate,
		PublishFailFast:    s.PublishFailFast,
		IncludePrerelease:  s.IncludePrerelease,
		PackDependencies:   s.PackDependencies,
	}

	if spec.Configuration == "" {
		spec.Configuration = ConfigurationRelease
	}

	if len(s.ExpectedVersionMap) > 0 {
		versionMap, err := NewProjectVersionMap(
			s.ExpectedVersionMap, s.MapAsInclude, s.MapUseWildcards,
		)
		if err != nil {
			return nil, err
		}
		spec.ExpectedVersionMap = versionMap
	}

	return spec, nil
}
