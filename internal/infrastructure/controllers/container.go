package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(NewScanController); err != nil {
		return err
	}
	if err := container.Provide(NewSetVersionController); err != nil {
		return err
	}
	if err := container.Provide(NewReleaseController); err != nil {
		return err
	}
	if err := container.Provide(NewPublishController); err != nil {
		return err
	}

	return container.Provide(NewControllers)
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	scanController *ScanController,
	setVersionController *SetVersionController,
	releaseController *ReleaseController,
	publishController *PublishController,
) *[]entities.Controller {
	return &[]entities.Controller{
		scanController,
		setVersionController,
		releaseController,
		publishController,
	}
}
