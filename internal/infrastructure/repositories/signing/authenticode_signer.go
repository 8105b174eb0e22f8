// Package signing provides the artifact signing mechanisms: platform code
// signing through external tools and an in-process PGP fallback.
package signing

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	domainRepos "github.com/rios0rios0/releasekit/internal/domain/repositories"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\n%s", name, err, output)
	}
	return nil
}

// AuthenticodeSigner signs artifacts through the platform code-signing tool:
// signtool on Windows, osslsigncode elsewhere.
type AuthenticodeSigner struct {
	goos     string
	lookPath func(string) (string, error)
	run      commandRunner
}

// NewAuthenticodeSigner creates a signer bound to the current platform.
func NewAuthenticodeSigner() domainRepos.SignerRepository {
	return &AuthenticodeSigner{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run:      defaultCommandRunner,
	}
}

func (s *AuthenticodeSigner) Name() string { return "authenticode" }

// Available requires a certificate reference and the platform tool on PATH.
// Thumbprint lookup only exists in the Windows certificate store, so other
// platforms require a PFX.
func (s *AuthenticodeSigner) Available(signing *entities.SigningSpec) bool {
	if signing == nil {
		return false
	}

	if s.goos == "windows" {
		if signing.Thumbprint == "" && signing.PFXPath == "" && signing.PFXBase64 == "" {
			return false
		}
		_, err := s.lookPath("signtool")
		return err == nil
	}

	if signing.PFXPath == "" && signing.PFXBase64 == "" {
		return false
	}
	_, err := s.lookPath("osslsigncode")
	return err == nil
}

// Sign signs each artifact in place.
func (s *AuthenticodeSigner) Sign(
	ctx context.Context,
	paths []string,
	signing *entities.SigningSpec,
) error {
	pfxPath, cleanup, err := materializePFX(signing)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, path := range paths {
		logger.Debugf("[signing] %s: %s", s.Name(), path)
		if s.goos == "windows" {
			err = s.signWithSigntool(ctx, path, pfxPath, signing)
		} else {
			err = s.signWithOsslsigncode(ctx, path, pfxPath, signing)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *AuthenticodeSigner) signWithSigntool(
	ctx context.Context,
	path, pfxPath string,
	signing *entities.SigningSpec,
) error {
	args := []string{"sign", "/fd", "SHA256"}
	if signing.Thumbprint != "" {
		args = append(args, "/sha1", signing.Thumbprint)
	} else {
		args = append(args, "/f", pfxPath)
		if password := signing.Password.Resolve(); password != "" {
			args = append(args, "/p", password)
		}
	}
	if signing.TimestampURL != "" {
		args = append(args, "/tr", signing.TimestampURL, "/td", "SHA256")
	}
	args = append(args, path)

	return s.run(ctx, "signtool", args...)
}

func (s *AuthenticodeSigner) signWithOsslsigncode(
	ctx context.Context,
	path, pfxPath string,
	signing *entities.SigningSpec,
) error {
	signed := path + ".signed"
	args := []string{"sign", "-pkcs12", pfxPath}
	if password := signing.Password.Resolve(); password != "" {
		args = append(args, "-pass", password)
	}
	if signing.TimestampURL != "" {
		args = append(args, "-ts", signing.TimestampURL)
	}
	args = append(args, "-in", path, "-out", signed)

	if err := s.run(ctx, "osslsigncode", args...); err != nil {
		return err
	}
	return os.Rename(signed, path)
}

// materializePFX resolves the certificate file, decoding an inline Base64
// certificate to a temporary file when needed.
func materializePFX(signing *entities.SigningSpec) (string, func(), error) {
	if signing.PFXPath != "" || signing.PFXBase64 == "" {
		return signing.PFXPath, func() {}, nil
	}

	data, err := base64.StdEncoding.DecodeString(signing.PFXBase64)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode inline certificate: %w", err)
	}

	tmp, err := os.CreateTemp("", "releasekit-*.pfx")
	if err != nil {
		return "", nil, fmt.Errorf("failed to stage certificate: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("failed to stage certificate: %w", err)
	}
	tmp.Close()

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}
