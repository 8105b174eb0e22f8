//go:build unit

package commands_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releasekit/internal/domain/commands"
	"github.com/rios0rios0/releasekit/internal/domain/entities"
	infraRepos "github.com/rios0rios0/releasekit/internal/infrastructure/repositories"
	"github.com/rios0rios0/releasekit/test/domain/commanddoubles"
	"github.com/rios0rios0/releasekit/test/domain/entitybuilders"
	"github.com/rios0rios0/releasekit/test/infrastructure/repositorydoubles"
)

type releaseFixture struct {
	registry  *repositorydoubles.SpyRegistryRepository
	builder   *repositorydoubles.SpyBuilderRepository
	signer    *repositorydoubles.SpySignerRepository
	publisher *commanddoubles.StubPublishCommand
	gitMeta   *repositorydoubles.StubGitMetadataRepository
	command   *commands.ReleaseCommand
}

func newReleaseFixture() *releaseFixture {
	fixture := &releaseFixture{
		registry:  &repositorydoubles.SpyRegistryRepository{},
		builder:   &repositorydoubles.SpyBuilderRepository{},
		signer:    &repositorydoubles.SpySignerRepository{AvailableResult: true},
		publisher: &commanddoubles.StubPublishCommand{},
		gitMeta: &repositorydoubles.StubGitMetadataRepository{
			Meta: &entities.GitMetadata{Owner: "contoso", Repo: "toolkit", Commit: "abc123"},
		},
	}

	signers := infraRepos.NewSignerRegistry()
	signers.Register(fixture.signer)

	fixture.command = commands.NewReleaseCommand(
		fixture.registry,
		fixture.builder,
		signers,
		fixture.publisher,
		fixture.gitMeta,
	)
	return fixture
}

func TestReleaseCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should release every packable project", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "src/Core/Core.csproj", "<Version>1.0.0</Version>")
		writeProject(t, root, "src/Web/Web.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		require.Len(t, result.Outcomes, 2)
		for _, outcome := range result.Outcomes {
			assert.Equal(t, entities.OutcomeSuccess, outcome.Status)
			assert.Equal(t, "2.0.0", outcome.NewVersion)
			assert.Len(t, outcome.Packages, 1)
		}
		assert.Len(t, fixture.builder.PackCalls, 2)
	})

	t.Run("should write the resolved version into the project file", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		path := writeProject(t, root, "Core.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			BuildReleaseSpec()

		// when
		_, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		content, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), "<Version>2.0.0</Version>")
	})

	t.Run("should isolate a failing project from its siblings", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "Bad.csproj", "<Version>1.0.0</Version>")
		writeProject(t, root, "Good.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		fixture.builder.PackErrProjects = map[string]error{"Bad": errors.New("msbuild exploded")}
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		require.Len(t, result.Outcomes, 2)
		assert.Equal(t, entities.OutcomeError, result.Outcomes[0].Status)
		assert.Contains(t, result.Outcomes[0].Error, "msbuild exploded")
		assert.Equal(t, entities.OutcomeSuccess, result.Outcomes[1].Status)
	})

	t.Run("should continue pushing after a publish failure by default", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "A.csproj", "<Version>1.0.0</Version>")
		writeProject(t, root, "B.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		fixture.builder.PushErrPackages = map[string]error{
			"A.2.0.0.nupkg": errors.New("feed rejected"),
		}
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithPublishTarget(&entities.PublishTarget{FeedURL: "https://feed.example.com"}).
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		require.Len(t, result.Outcomes, 2)
		assert.Equal(t, entities.OutcomeError, result.Outcomes[0].Status)
		assert.Equal(t, entities.OutcomeSuccess, result.Outcomes[1].Status)
		assert.True(t, result.PublishedPackages["B.2.0.0.nupkg"])
		assert.False(t, result.PublishedPackages["A.2.0.0.nupkg"])
	})

	t.Run("should stop at the first publish failure when failing fast", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "A.csproj", "<Version>1.0.0</Version>")
		writeProject(t, root, "B.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		fixture.builder.PushErrPackages = map[string]error{
			"A.2.0.0.nupkg": errors.New("feed rejected"),
		}
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithPublishTarget(&entities.PublishTarget{FeedURL: "https://feed.example.com"}).
			WithPublishFailFast().
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		require.Len(t, result.Outcomes, 1)
		assert.Equal(t, entities.OutcomeError, result.Outcomes[0].Status)
		assert.Len(t, fixture.builder.PackCalls, 1)
	})

	t.Run("should plan without side effects in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		path := writeProject(t, root, "Core.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithGitHub(&entities.GitHubTarget{Token: entities.Credential{Inline: "tok"}}).
			WithDryRun().
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		require.Len(t, result.Outcomes, 1)
		assert.Equal(t, entities.OutcomePlanned, result.Outcomes[0].Status)
		assert.Len(t, result.Outcomes[0].Packages, 1)
		assert.Empty(t, fixture.builder.PackCalls)
		assert.Empty(t, fixture.publisher.Calls)
		assert.Nil(t, result.GitHubRelease)

		content, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), "<Version>1.0.0</Version>")
	})

	t.Run("should plan the same projects a full run would release", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "Core.csproj", "<Version>1.0.0</Version>")
		writeProject(t, root, "Web.csproj", "<Version>1.0.0</Version>")
		dry := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithDryRun().
			BuildReleaseSpec()
		full := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			BuildReleaseSpec()

		// when
		planned, err := newReleaseFixture().command.Execute(context.Background(), dry)
		require.NoError(t, err)
		executed, err := newReleaseFixture().command.Execute(context.Background(), full)
		require.NoError(t, err)

		// then
		require.Len(t, planned.Outcomes, len(executed.Outcomes))
		for i := range planned.Outcomes {
			assert.Equal(t, executed.Outcomes[i].Project, planned.Outcomes[i].Project)
			assert.Equal(t, executed.Outcomes[i].NewVersion, planned.Outcomes[i].NewVersion)
			assert.Equal(t, executed.Outcomes[i].Packages, planned.Outcomes[i].Packages)
		}
	})

	t.Run("should sign produced packages when signing is configured", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "Core.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithSigning(&entities.SigningSpec{PFXPath: "cert.pfx"}).
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		require.Len(t, fixture.signer.SignedBatches, 1)
	})

	t.Run("should not fail when no signing tool is available", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "Core.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		fixture.signer.AvailableResult = false
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithSigning(&entities.SigningSpec{PFXPath: "cert.pfx"}).
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		assert.Empty(t, fixture.signer.SignedBatches)
	})

	t.Run("should publish a tagged release with the produced packages", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "Core.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithGitHub(&entities.GitHubTarget{
				Token: entities.Credential{Inline: "tok"},
			}).
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		require.Len(t, fixture.publisher.Calls, 1)
		call := fixture.publisher.Calls[0]
		assert.Equal(t, "v2.0.0", call.Input.Tag)
		assert.Equal(t, "contoso", call.Input.Owner)
		assert.Equal(t, "toolkit", call.Input.Repo)
		assert.Equal(t, "abc123", call.Input.Commitish)
		assert.Equal(t, "tok", call.Token)
		require.Len(t, call.Assets, 1)
		assert.Contains(t, call.Assets[0], "Core.2.0.0.nupkg")
		require.NotNil(t, result.GitHubRelease)
	})

	t.Run("should honor a custom tag prefix", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "Core.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithGitHub(&entities.GitHubTarget{
				Owner:     "fabrikam",
				Repo:      "suite",
				TagPrefix: "release-",
				Token:     entities.Credential{Inline: "tok"},
			}).
			BuildReleaseSpec()

		// when
		_, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		require.Len(t, fixture.publisher.Calls, 1)
		assert.Equal(t, "release-2.0.0", fixture.publisher.Calls[0].Input.Tag)
	})

	t.Run("should mark the run failed without a token for publication", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "Core.csproj", "<Version>1.0.0</Version>")
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithGitHub(&entities.GitHubTarget{Owner: "contoso", Repo: "toolkit"}).
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		assert.False(t, result.Succeeded)
		assert.Empty(t, fixture.publisher.Calls)
	})

	t.Run("should skip non-packable projects without failing", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "Tests.csproj",
			"<PropertyGroup><IsPackable>false</IsPackable><Version>1.0.0</Version></PropertyGroup>")
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
		require.Len(t, result.Outcomes, 1)
		assert.Equal(t, entities.OutcomeSuccess, result.Outcomes[0].Status)
		assert.Empty(t, result.Outcomes[0].Packages)
		assert.Empty(t, fixture.builder.PackCalls)
	})

	t.Run("should record project references as dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "src/Core/Core.csproj", "<Version>1.0.0</Version>")
		writeProject(t, root, "src/App/App.csproj",
			`<Version>1.0.0</Version><ProjectReference Include="..\Core\Core.csproj" />`)
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithExpectedVersion("2.0.0").
			WithPackDependencies().
			BuildReleaseSpec()

		// when
		result, err := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, err)
		require.Len(t, result.Outcomes, 2)
		assert.Equal(t, []string{"Core"}, result.Outcomes[0].Dependencies)
		assert.Empty(t, result.Outcomes[1].Dependencies)
	})

	t.Run("should exclude projects outside an include-mode map", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeProject(t, root, "Core.csproj", "<Version>1.0.0</Version>")
		writeProject(t, root, "Web.csproj", "<Version>1.0.0</Version>")
		m, err := entities.NewProjectVersionMap([]entities.VersionMapEntry{
			{Key: "Core", Spec: "3.0.0"},
		}, true, false)
		require.NoError(t, err)
		fixture := newReleaseFixture()
		spec := entitybuilders.NewReleaseSpecBuilder().
			WithRootPath(root).
			WithVersionMap(m).
			BuildReleaseSpec()

		// when
		result, execErr := fixture.command.Execute(context.Background(), spec)

		// then
		require.NoError(t, execErr)
		require.Len(t, result.Outcomes, 1)
		assert.Equal(t, "Core", result.Outcomes[0].Project)
		assert.Equal(t, "3.0.0", result.Outcomes[0].NewVersion)
	})
}
