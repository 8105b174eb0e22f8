//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/domain/repositories"
)

// PackCall records a single invocation of Pack.
type PackCall struct {
	ProjectPath string
	Version     string
}

// SpyBuilderRepository implements repositories.BuilderRepository as a
// configurable spy. Keys are project names (file base without extension for
// Pack, package base name for Push).
type SpyBuilderRepository struct {
	// --- Pack ---
	// PackagesByProject overrides the default synthesized package path.
	PackagesByProject map[string][]string
	PackErrProjects   map[string]error
	// spy: calls received
	PackCalls []PackCall

	// --- Push ---
	PushErrPackages map[string]error
	// spy: package paths received, in order
	PushedPackages []string
}

var _ repositories.BuilderRepository = (*SpyBuilderRepository)(nil)

func (b *SpyBuilderRepository) Pack(
	_ context.Context,
	projectPath string,
	spec *entities.ReleaseSpec,
	version string,
) ([]string, error) {
	b.PackCalls = append(b.PackCalls, PackCall{ProjectPath: projectPath, Version: version})

	name := strings.TrimSuffix(filepath.Base(projectPath), filepath.Ext(projectPath))
	if b.PackErrProjects != nil {
		if err, ok := b.PackErrProjects[name]; ok {
			return nil, err
		}
	}
	if b.PackagesByProject != nil {
		if packages, ok := b.PackagesByProject[name]; ok {
			return packages, nil
		}
	}

	outDir := spec.OutputDirectory
	if outDir == "" {
		outDir = filepath.Join(spec.RootPath, "artifacts")
	}
	return []string{filepath.Join(outDir, fmt.Sprintf("%s.%s.nupkg", name, version))}, nil
}

func (b *SpyBuilderRepository) Push(
	_ context.Context,
	packagePath string,
	_ entities.PublishTarget,
	_ bool,
) error {
	b.PushedPackages = append(b.PushedPackages, packagePath)
	if b.PushErrPackages != nil {
		if err, ok := b.PushErrPackages[filepath.Base(packagePath)]; ok {
			return err
		}
	}
	return nil
}
