package entities

import (
	"path/filepath"
	"strings"
)

// SourceKind classifies a discovered project file.
type SourceKind string

const (
	SourceKindCsproj           SourceKind = "csproj"
	SourceKindPowerShellModule SourceKind = "psd1"
	SourceKindBuildScript      SourceKind = "buildscript"
)

// DiscoveredFile is one project file found by a discovery pass. Instances are
// created fresh on every pass and never mutated.
type DiscoveredFile struct {
	Path           string
	Kind           SourceKind
	CurrentVersion string // empty when no version could be extracted
	Packable       bool   // csproj only: false when <IsPackable>false</IsPackable>
}

// ProjectName returns the display name of the project: the file name without
// its extension.
func (f DiscoveredFile) ProjectName() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
