//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

func TestCredential_Resolve(t *testing.T) {
	// No t.Parallel(): subtests mutate process environment variables.

	t.Run("should return the trimmed inline value", func(t *testing.T) {
		// given
		credential := entities.Credential{Inline: "  secret-token \n"}

		// when
		value := credential.Resolve()

		// then
		assert.Equal(t, "secret-token", value)
	})

	t.Run("should prefer the environment variable over the inline value", func(t *testing.T) {
		// given
		t.Setenv("RELEASEKIT_TEST_SECRET", " from-env ")
		credential := entities.Credential{
			Inline: "from-inline",
			EnvVar: "RELEASEKIT_TEST_SECRET",
		}

		// when
		value := credential.Resolve()

		// then
		assert.Equal(t, "from-env", value)
	})

	t.Run("should prefer the file over the environment variable", func(t *testing.T) {
		// given
		t.Setenv("RELEASEKIT_TEST_SECRET", "from-env")
		path := filepath.Join(t.TempDir(), "secret")
		require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))
		credential := entities.Credential{
			Inline:   "from-inline",
			EnvVar:   "RELEASEKIT_TEST_SECRET",
			FilePath: path,
		}

		// when
		value := credential.Resolve()

		// then
		assert.Equal(t, "from-file", value)
	})

	t.Run("should fall through an unreadable file", func(t *testing.T) {
		// given
		t.Setenv("RELEASEKIT_TEST_SECRET", "from-env")
		credential := entities.Credential{
			FilePath: filepath.Join(t.TempDir(), "does-not-exist"),
			EnvVar:   "RELEASEKIT_TEST_SECRET",
		}

		// when
		value := credential.Resolve()

		// then
		assert.Equal(t, "from-env", value)
	})

	t.Run("should fall through a file holding only whitespace", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "secret")
		require.NoError(t, os.WriteFile(path, []byte("   \n"), 0o600))
		credential := entities.Credential{FilePath: path, Inline: "from-inline"}

		// when
		value := credential.Resolve()

		// then
		assert.Equal(t, "from-inline", value)
	})

	t.Run("should return empty when no source yields a value", func(t *testing.T) {
		// given
		credential := entities.Credential{}

		// when
		value := credential.Resolve()

		// then
		assert.Empty(t, value)
		assert.True(t, credential.IsZero())
	})
}
