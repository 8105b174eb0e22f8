package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/scanner"
)

// Scan is the interface for the discovery-report command.
type Scan interface {
	Execute(ctx context.Context, root string, excludeDirs []string) ([]entities.DiscoveredFile, error)
}

// ScanCommand walks a repository tree and reports every project file with
// its kind and currently-declared version.
type ScanCommand struct{}

// NewScanCommand creates a new ScanCommand.
func NewScanCommand() *ScanCommand {
	return &ScanCommand{}
}

// Execute runs one discovery pass and logs a line per file.
func (it *ScanCommand) Execute(
	_ context.Context,
	root string,
	excludeDirs []string,
) ([]entities.DiscoveredFile, error) {
	files, err := scanner.Discover(root, excludeDirs)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		version := file.CurrentVersion
		if version == "" {
			version = "(none)"
		}
		logger.Infof("[scan] %-10s %-9s %s", file.Kind, version, file.Path)
	}
	logger.Infof("[scan] %d project file(s) under %s", len(files), root)

	return files, nil
}
