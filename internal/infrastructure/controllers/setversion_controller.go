package controllers

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releasekit/internal/domain/commands"
	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// SetVersionController handles the "set-version" subcommand (write versions
// without building anything).
type SetVersionController struct {
	command commands.SetVersion
}

// NewSetVersionController creates a new SetVersionController.
func NewSetVersionController(command commands.SetVersion) *SetVersionController {
	return &SetVersionController{command: command}
}

// GetBind returns the Cobra command metadata for the set-version controller.
func (it *SetVersionController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "set-version [path]",
		Short: "Write resolved versions into every discovered file",
		Long: `Resolve the target version for every project under the root path
and rewrite the version declarations in place: project files, module
manifests and build scripts. No packing, signing or publishing.`,
	}
}

// Execute runs one version-write pass.
func (it *SetVersionController) Execute(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	spec, err := loadReleaseSpec(cmd, args)
	if err != nil {
		logger.Errorf("failed to load release settings: %v", err)
		return
	}

	var confirm commands.ConfirmFunc
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		confirm = promptConfirm(bufio.NewReader(os.Stdin))
	}

	results, err := it.command.Execute(ctx, spec, confirm)
	if err != nil {
		logger.Errorf("Version write failed: %v", err)
		return
	}

	failed := 0
	for _, result := range results {
		if result.Status == entities.UpdateStatusError {
			failed++
			logger.Errorf("[set-version] %s: %s", result.Path, result.ErrorDetail)
			continue
		}
		logger.Infof("[set-version] %-9s %s (%s -> %s)",
			result.Status, result.Path, result.OldVersion, result.NewVersion)
	}
	if failed > 0 {
		logger.Errorf("%d file(s) failed to update", failed)
	}
}

// AddFlags adds the set-version-specific flags to the given Cobra command.
func (it *SetVersionController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("version", "",
		"Target version for every project (overrides the settings file)")
	cmd.Flags().BoolP("interactive", "i", false,
		"Ask before rewriting each file")
}

// promptConfirm asks on stdin before each write; anything but y/yes declines.
func promptConfirm(reader *bufio.Reader) commands.ConfirmFunc {
	return func(path, oldVersion, newVersion string) bool {
		fmt.Printf("Update %s from %s to %s? [y/N] ", path, oldVersion, newVersion)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}
