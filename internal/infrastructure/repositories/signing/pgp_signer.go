package signing

import (
	"context"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	domainRepos "github.com/rios0rios0/releasekit/internal/domain/repositories"
)

// PGPSigner produces armored detached signatures (.asc) next to each
// artifact. It runs fully in process and needs no platform tool, which makes
// it the portable fallback when no code-signing toolchain is installed.
type PGPSigner struct{}

// NewPGPSigner creates a new PGPSigner.
func NewPGPSigner() domainRepos.SignerRepository {
	return &PGPSigner{}
}

func (s *PGPSigner) Name() string { return "pgp" }

// Available requires a readable key file.
func (s *PGPSigner) Available(signing *entities.SigningSpec) bool {
	if signing == nil || signing.PGPKeyPath == "" {
		return false
	}
	_, err := os.Stat(signing.PGPKeyPath)
	return err == nil
}

// Sign writes one <artifact>.asc per path.
func (s *PGPSigner) Sign(
	ctx context.Context,
	paths []string,
	signing *entities.SigningSpec,
) error {
	signer, err := loadSigningEntity(signing)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err = signDetached(signer, path); err != nil {
			return err
		}
		logger.Debugf("[signing] pgp: wrote %s.asc", path)
	}
	return nil
}

func loadSigningEntity(signing *entities.SigningSpec) (*openpgp.Entity, error) {
	file, err := os.Open(signing.PGPKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PGP key %q: %w", signing.PGPKeyPath, err)
	}
	defer file.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(file)
	if err != nil {
		if _, seekErr := file.Seek(0, 0); seekErr != nil {
			return nil, fmt.Errorf("failed to reset key file: %w", seekErr)
		}
		keyring, err = openpgp.ReadKeyRing(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read PGP key %q: %w", signing.PGPKeyPath, err)
		}
	}

	for _, entity := range keyring {
		if entity.PrivateKey == nil {
			continue
		}
		if entity.PrivateKey.Encrypted {
			passphrase := signing.PGPPassphrase.Resolve()
			if passphrase == "" {
				return nil, fmt.Errorf("PGP key %q is encrypted and no passphrase was supplied", signing.PGPKeyPath)
			}
			if decryptErr := entity.PrivateKey.Decrypt([]byte(passphrase)); decryptErr != nil {
				return nil, fmt.Errorf("failed to decrypt PGP key: %w", decryptErr)
			}
		}
		return entity, nil
	}

	return nil, fmt.Errorf("no private key found in %q", signing.PGPKeyPath)
}

func signDetached(signer *openpgp.Entity, path string) error {
	message, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open artifact %q: %w", path, err)
	}
	defer message.Close()

	signature, err := os.Create(path + ".asc")
	if err != nil {
		return fmt.Errorf("failed to create signature for %q: %w", path, err)
	}
	defer signature.Close()

	if err = openpgp.ArmoredDetachSign(signature, signer, message, nil); err != nil {
		os.Remove(path + ".asc")
		return fmt.Errorf("failed to sign %q: %w", path, err)
	}
	return nil
}
