package entities

import (
	"os"
	"strings"
)

// Credential is a secret accepted from three interchangeable sources. The
// precedence is file path, then environment variable, then inline value; the
// first source yielding a non-empty string wins, and every source is trimmed
// of surrounding whitespace.
type Credential struct {
	Inline   string `yaml:"inline"`
	FilePath string `yaml:"file"`
	EnvVar   string `yaml:"env"`
}

// Resolve returns the secret value, or an empty string when no source yields
// one.
func (c Credential) Resolve() string {
	if c.FilePath != "" {
		if data, err := os.ReadFile(c.FilePath); err == nil {
			if value := strings.TrimSpace(string(data)); value != "" {
				return value
			}
		}
	}
	if c.EnvVar != "" {
		if value := strings.TrimSpace(os.Getenv(c.EnvVar)); value != "" {
			return value
		}
	}
	return strings.TrimSpace(c.Inline)
}

// IsZero reports whether no source is configured at all.
func (c Credential) IsZero() bool {
	return c.Inline == "" && c.FilePath == "" && c.EnvVar == ""
}

// FeedCredential is a username/secret pair for authenticating against a
// package feed.
type FeedCredential struct {
	Username string     `yaml:"username"`
	Secret   Credential `yaml:"secret"`
}
