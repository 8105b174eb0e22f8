package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/releasekit/internal/domain/repositories"
	"github.com/rios0rios0/releasekit/internal/infrastructure/repositories/dotnet"
	gitRepo "github.com/rios0rios0/releasekit/internal/infrastructure/repositories/git"
	ghRepo "github.com/rios0rios0/releasekit/internal/infrastructure/repositories/github"
	"github.com/rios0rios0/releasekit/internal/infrastructure/repositories/nuget"
	"github.com/rios0rios0/releasekit/internal/infrastructure/repositories/signing"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(nuget.NewRegistryRepository); err != nil {
		return err
	}

	if err := container.Provide(dotnet.NewBuilderRepository); err != nil {
		return err
	}

	if err := container.Provide(gitRepo.NewMetadataRepository); err != nil {
		return err
	}

	// Register signer registry with all signing implementations; order is
	// selection priority.
	if err := container.Provide(func() *SignerRegistry {
		reg := NewSignerRegistry()
		reg.Register(signing.NewAuthenticodeSigner())
		reg.Register(signing.NewPGPSigner())
		return reg
	}); err != nil {
		return err
	}

	// The release repository needs a token only known at execution time, so a
	// factory is injected instead of an instance.
	return container.Provide(func() domainRepos.ReleaseRepositoryFactory {
		return ghRepo.NewReleaseRepository
	})
}
