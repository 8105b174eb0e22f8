//go:build unit

package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releasekit/internal/domain/commands"
	"github.com/rios0rios0/releasekit/internal/domain/entities"
	"github.com/rios0rios0/releasekit/internal/domain/repositories"
	"github.com/rios0rios0/releasekit/test/infrastructure/repositorydoubles"
)

func writeAsset(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("package-bytes"), 0o644))
	return path
}

func publishCommandWith(
	spy *repositorydoubles.SpyReleaseRepository,
) (*commands.PublishCommand, *[]string) {
	var tokens []string
	factory := func(token string) repositories.ReleaseRepository {
		tokens = append(tokens, token)
		return spy
	}
	return commands.NewPublishCommand(factory), &tokens
}

func TestPublishCommand_Execute(t *testing.T) {
	t.Parallel()

	input := entities.ReleaseInput{
		Owner: "contoso",
		Repo:  "toolkit",
		Tag:   "v1.2.3",
		Name:  "v1.2.3",
	}

	t.Run("should validate every asset before any network call", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		existing := writeAsset(t, dir, "a.nupkg")
		missing := filepath.Join(dir, "missing.nupkg")
		spy := &repositorydoubles.SpyReleaseRepository{}
		command, _ := publishCommandWith(spy)

		// when
		result, err := command.Execute(
			context.Background(), input, "token", []string{existing, missing},
		)

		// then
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Empty(t, spy.CreateInputs)
	})

	t.Run("should succeed with no assets and leave the upload flag unset", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &repositorydoubles.SpyReleaseRepository{}
		command, tokens := publishCommandWith(spy)

		// when
		result, err := command.Execute(context.Background(), input, "token", nil)

		// then
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		assert.True(t, result.ReleaseCreated)
		assert.Nil(t, result.AssetsUploaded)
		assert.Equal(t, []string{"token"}, *tokens)
	})

	t.Run("should upload assets in the given order", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		first := writeAsset(t, dir, "a.nupkg")
		second := writeAsset(t, dir, "a.nupkg.asc")
		spy := &repositorydoubles.SpyReleaseRepository{}
		command, _ := publishCommandWith(spy)

		// when
		result, err := command.Execute(
			context.Background(), input, "token", []string{first, second},
		)

		// then
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		require.NotNil(t, result.AssetsUploaded)
		assert.True(t, *result.AssetsUploaded)
		assert.Equal(t, []string{first, second}, spy.UploadedPaths)
	})

	t.Run("should treat an already uploaded asset as success", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		asset := writeAsset(t, dir, "a.nupkg")
		spy := &repositorydoubles.SpyReleaseRepository{
			UploadStatuses: map[string]entities.AssetUploadStatus{
				"a.nupkg": entities.AssetAlreadyExists,
			},
		}
		command, _ := publishCommandWith(spy)

		// when
		result, err := command.Execute(context.Background(), input, "token", []string{asset})

		// then
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		require.Len(t, result.Assets, 1)
		assert.Equal(t, entities.AssetAlreadyExists, result.Assets[0].Status)
	})

	t.Run("should keep uploading after a failed asset and report failure", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		bad := writeAsset(t, dir, "bad.nupkg")
		good := writeAsset(t, dir, "good.nupkg")
		spy := &repositorydoubles.SpyReleaseRepository{
			UploadErrs: map[string]error{
				"bad.nupkg": errors.New("boom"),
			},
		}
		command, _ := publishCommandWith(spy)

		// when
		result, err := command.Execute(
			context.Background(), input, "token", []string{bad, good},
		)

		// then
		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		require.NotNil(t, result.AssetsUploaded)
		assert.False(t, *result.AssetsUploaded)
		assert.Equal(t, []string{bad, good}, spy.UploadedPaths)
	})

	t.Run("should surface a release creation failure", func(t *testing.T) {
		t.Parallel()

		// given
		spy := &repositorydoubles.SpyReleaseRepository{
			CreateErr: entities.ErrReleaseCreationFailed,
		}
		command, _ := publishCommandWith(spy)

		// when
		result, err := command.Execute(context.Background(), input, "token", nil)

		// then
		require.ErrorIs(t, err, entities.ErrReleaseCreationFailed)
		require.NotNil(t, result)
		assert.False(t, result.ReleaseCreated)
	})
}
