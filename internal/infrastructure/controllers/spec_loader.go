package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// loadReleaseSpec builds a ReleaseSpec from the settings file plus the
// persistent flags. Flags win over file values.
func loadReleaseSpec(cmd *cobra.Command, args []string) (*entities.ReleaseSpec, error) {
	configPath, _ := cmd.Flags().GetString("config")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	token, _ := cmd.Flags().GetString("token")

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	if configPath == "" {
		var err error
		configPath, err = entities.FindSettingsFile()
		if err != nil {
			return nil, fmt.Errorf(
				"no settings file found: %w\nSpecify one with --config or create .releasekit.yaml",
				err,
			)
		}
	}

	logger.Infof("Using settings file: %s", configPath)

	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, err
	}

	spec, err := settings.ToReleaseSpec()
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		spec.RootPath = args[0]
	}
	if spec.RootPath == "" {
		spec.RootPath = "."
	}

	spec.DryRun = dryRun
	if token != "" && spec.GitHub != nil {
		spec.GitHub.Token = entities.Credential{Inline: token}
	}

	if version, _ := cmd.Flags().GetString("version"); version != "" {
		spec.ExpectedVersion = version
		spec.ExpectedVersionMap = nil
	}

	return spec, nil
}
