package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releasekit/internal/domain/commands"
	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// ScanController handles the "scan" subcommand (read-only discovery).
type ScanController struct {
	command commands.Scan
}

// NewScanController creates a new ScanController.
func NewScanController(command commands.Scan) *ScanController {
	return &ScanController{command: command}
}

// GetBind returns the Cobra command metadata for the scan controller.
func (it *ScanController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "scan [path]",
		Short: "List every versionable file under a repository",
		Long: `Walk a repository and list every project file, module manifest
and build script carrying a version, together with the version each
one currently declares. Makes no changes.`,
	}
}

// Execute runs the scan.
func (it *ScanController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	root := "."
	var excludeDirs []string

	// Settings are optional here; a scan works on any directory.
	if spec, err := loadReleaseSpec(cmd, args); err == nil {
		root = spec.RootPath
		excludeDirs = spec.ExcludeDirectories
	} else if len(args) > 0 {
		root = args[0]
	}

	if _, err := it.command.Execute(ctx, root, excludeDirs); err != nil {
		logger.Errorf("Scan failed: %v", err)
	}
}
