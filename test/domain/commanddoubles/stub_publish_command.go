//go:build integration || unit || test

// Package commanddoubles provides test doubles for domain command interfaces.
package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/releasekit/internal/domain/commands"
	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// PublishCall records a single invocation of Execute.
type PublishCall struct {
	Input  entities.ReleaseInput
	Token  string
	Assets []string
}

// StubPublishCommand is a stub implementation of commands.Publish.
type StubPublishCommand struct {
	Result     *entities.PublishResult
	ExecuteErr error
	Calls      []PublishCall
}

var _ commands.Publish = (*StubPublishCommand)(nil)

func (s *StubPublishCommand) Execute(
	_ context.Context,
	input entities.ReleaseInput,
	token string,
	assets []string,
) (*entities.PublishResult, error) {
	s.Calls = append(s.Calls, PublishCall{Input: input, Token: token, Assets: assets})
	if s.ExecuteErr != nil {
		return s.Result, s.ExecuteErr
	}
	if s.Result != nil {
		return s.Result, nil
	}
	uploaded := true
	return &entities.PublishResult{
		ReleaseCreated: true,
		Release: &entities.ReleaseInfo{
			ID:    1,
			Owner: input.Owner,
			Repo:  input.Repo,
			Tag:   input.Tag,
		},
		AssetsUploaded: &uploaded,
		Succeeded:      true,
	}, nil
}
