package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releasekit/internal"
	"github.com/rios0rios0/releasekit/internal/infrastructure/controllers"
)

// flagBinder is implemented by controllers carrying subcommand-specific flags.
type flagBinder interface {
	AddFlags(cmd *cobra.Command)
}

func buildRootCommand(releaseController *controllers.ReleaseController) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "releasekit [path]",
		Short: "Release pipeline for .NET repositories",
		Long: `Version, pack, sign and publish every project in a repository.

Discovers project files, module manifests and build scripts, resolves
target versions against the configured package feeds, rewrites version
declarations, packs and signs NuGet packages, pushes them to a feed
and publishes a tagged release with the packages attached.

Usage modes:
  releasekit .              Release the current repository
  releasekit /path/to/repo  Release a specific repository
  releasekit scan .         List versionable files without changing anything
  releasekit set-version .  Write versions without building`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			if len(args) == 0 {
				return command.Help()
			}
			releaseController.Execute(command, args)
			return nil
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to settings file (default: auto-detect)")
	cmd.PersistentFlags().String("token", "",
		"Auth token for the hosting service (overrides the settings file)")
	cmd.PersistentFlags().Bool("dry-run", false,
		"Show what would be done without making changes")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	releaseController.AddFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Run: func(command *cobra.Command, arguments []string) {
				ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if binder, ok := ctrl.(flagBinder); ok {
			binder.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	releaseController := injectReleaseController()
	cobraRoot := buildRootCommand(releaseController)

	// Add all subcommands
	appContext := injectAppContext()
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'releasekit': %s", err)
	}
}
