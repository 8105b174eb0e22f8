package internal

import (
	"github.com/rios0rios0/releasekit/internal/domain/entities"
)

// AppInternal is the application context holding every wired controller.
type AppInternal struct {
	controllers *[]entities.Controller
}

// NewAppInternal creates a new AppInternal.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: controllers}
}

// GetControllers returns the controllers registered in the container.
func (it *AppInternal) GetControllers() []entities.Controller {
	return *it.controllers
}
