package repositories

import (
	"context"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// BuilderRepository abstracts the external dotnet toolchain. The contract is
// the subprocess contract: exit code zero means success, anything else is
// surfaced as the step's error.
type BuilderRepository interface {
	// Pack builds and packs one project at the given version, returning the
	// produced package paths in creation order.
	Pack(
		ctx context.Context,
		projectPath string,
		spec *entities.ReleaseSpec,
		version string,
	) ([]string, error)

	// Push publishes one package to a feed.
	Push(
		ctx context.Context,
		packagePath string,
		target entities.PublishTarget,
		skipDuplicate bool,
	) error
}

// SignerRepository abstracts one artifact signing mechanism.
type SignerRepository interface {
	// Name returns the signer identifier (e.g. "authenticode", "pgp").
	Name() string

	// Available reports whether this signer can run with the given spec on
	// the current platform.
	Available(signing *entities.SigningSpec) bool

	// Sign signs the given artifact paths in place (or alongside, for
	// detached signatures).
	Sign(ctx context.Context, paths []string, signing *entities.SigningSpec) error
}
