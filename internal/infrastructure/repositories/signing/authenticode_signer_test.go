//go:build unit

package signing_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/infrastructure/repositories/signing"
)

func onPath(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, candidate := range names {
			if candidate == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

type signerCall struct {
	name string
	args []string
}

func recordingRunner(calls *[]signerCall) signing.CommandRunnerForTest {
	return func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, signerCall{name: name, args: args})
		// osslsigncode writes its output file; emulate that for the rename.
		for i := 0; i+1 < len(args); i++ {
			if args[i] == "-out" {
				return os.WriteFile(args[i+1], []byte("signed"), 0o644)
			}
		}
		return nil
	}
}

func TestAuthenticodeSigner_Available(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		goos     string
		tools    []string
		signing  *entities.SigningSpec
		expected bool
	}{
		{
			name:     "windows with thumbprint and signtool",
			goos:     "windows",
			tools:    []string{"signtool"},
			signing:  &entities.SigningSpec{Thumbprint: "AB12"},
			expected: true,
		},
		{
			name:     "windows without signtool",
			goos:     "windows",
			tools:    nil,
			signing:  &entities.SigningSpec{Thumbprint: "AB12"},
			expected: false,
		},
		{
			name:     "windows without any certificate",
			goos:     "windows",
			tools:    []string{"signtool"},
			signing:  &entities.SigningSpec{},
			expected: false,
		},
		{
			name:     "linux with pfx and osslsigncode",
			goos:     "linux",
			tools:    []string{"osslsigncode"},
			signing:  &entities.SigningSpec{PFXPath: "cert.pfx"},
			expected: true,
		},
		{
			name:     "linux with only a thumbprint",
			goos:     "linux",
			tools:    []string{"osslsigncode"},
			signing:  &entities.SigningSpec{Thumbprint: "AB12"},
			expected: false,
		},
		{
			name:     "nil spec",
			goos:     "linux",
			tools:    []string{"osslsigncode"},
			signing:  nil,
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run("should handle "+test.name, func(t *testing.T) {
			t.Parallel()

			// given
			signer := signing.NewAuthenticodeSignerForTest(
				test.goos, onPath(test.tools...), nil,
			)

			// when // then
			assert.Equal(t, test.expected, signer.Available(test.signing))
		})
	}
}

func TestAuthenticodeSigner_Sign(t *testing.T) {
	t.Parallel()

	t.Run("should sign with signtool using the thumbprint", func(t *testing.T) {
		t.Parallel()

		// given
		var calls []signerCall
		signer := signing.NewAuthenticodeSignerForTest(
			"windows", onPath("signtool"), recordingRunner(&calls),
		)
		spec := &entities.SigningSpec{
			Thumbprint:   "AB12",
			TimestampURL: "https://ts.example.com",
		}

		// when
		err := signer.Sign(context.Background(), []string{"App.dll"}, spec)

		// then
		require.NoError(t, err)
		require.Len(t, calls, 1)
		assert.Equal(t, "signtool", calls[0].name)
		assert.Equal(t, []string{
			"sign", "/fd", "SHA256",
			"/sha1", "AB12",
			"/tr", "https://ts.example.com", "/td", "SHA256",
			"App.dll",
		}, calls[0].args)
	})

	t.Run("should sign in place with osslsigncode", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		artifact := filepath.Join(dir, "App.nupkg")
		require.NoError(t, os.WriteFile(artifact, []byte("zip"), 0o644))
		var calls []signerCall
		signer := signing.NewAuthenticodeSignerForTest(
			"linux", onPath("osslsigncode"), recordingRunner(&calls),
		)
		spec := &entities.SigningSpec{
			PFXPath:  "cert.pfx",
			Password: entities.Credential{Inline: "pfx-pass"},
		}

		// when
		err := signer.Sign(context.Background(), []string{artifact}, spec)

		// then
		require.NoError(t, err)
		require.Len(t, calls, 1)
		assert.Equal(t, "osslsigncode", calls[0].name)
		assert.Contains(t, calls[0].args, "-pkcs12")
		assert.Contains(t, calls[0].args, "pfx-pass")

		content, readErr := os.ReadFile(artifact)
		require.NoError(t, readErr)
		assert.Equal(t, "signed", string(content))
		_, statErr := os.Stat(artifact + ".signed")
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should decode an inline certificate to a temporary file", func(t *testing.T) {
		t.Parallel()

		// given
		var calls []signerCall
		signer := signing.NewAuthenticodeSignerForTest(
			"windows", onPath("signtool"), recordingRunner(&calls),
		)
		spec := &entities.SigningSpec{PFXBase64: "Y2VydC1ieXRlcw=="} // "cert-bytes"

		// when
		err := signer.Sign(context.Background(), []string{"App.dll"}, spec)

		// then
		require.NoError(t, err)
		require.Len(t, calls, 1)
		args := calls[0].args
		require.Contains(t, args, "/f")
		pfxPath := args[indexOf(args, "/f")+1]
		// The staged certificate is removed once signing finishes.
		_, statErr := os.Stat(pfxPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should fail on an undecodable inline certificate", func(t *testing.T) {
		t.Parallel()

		// given
		signer := signing.NewAuthenticodeSignerForTest(
			"windows", onPath("signtool"), recordingRunner(&[]signerCall{}),
		)
		spec := &entities.SigningSpec{PFXBase64: "%%%not-base64%%%"}

		// when
		err := signer.Sign(context.Background(), []string{"App.dll"}, spec)

		// then
		require.Error(t, err)
	})
}

func indexOf(values []string, target string) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}
