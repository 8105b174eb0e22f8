package repositories

import (
	domainRepos "github.com/rios0rios0/releasekit/internal/domain/repositories"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// SignerRegistry manages the registered signing mechanisms. Registration
// order is the selection order: the first signer available for a spec on the
// current platform wins.
type SignerRegistry struct {
	signers []domainRepos.SignerRepository
}

// NewSignerRegistry creates an empty signer registry.
func NewSignerRegistry() *SignerRegistry {
	return &SignerRegistry{}
}

// Register adds a signer implementation.
func (r *SignerRegistry) Register(signer domainRepos.SignerRepository) {
	r.signers = append(r.signers, signer)
}

// First returns the first signer available for the given spec, or nil when
// none can run; callers treat nil as "skip signing with a warning".
func (r *SignerRegistry) First(signing *entities.SigningSpec) domainRepos.SignerRepository {
	if signing == nil {
		return nil
	}
	for _, signer := range r.signers {
		if signer.Available(signing) {
			return signer
		}
	}
	return nil
}

// Names returns the registered signer names.
func (r *SignerRegistry) Names() []string {
	names := make([]string, 0, len(r.signers))
	for _, signer := range r.signers {
		names = append(names, signer.Name())
	}
	return names
}
