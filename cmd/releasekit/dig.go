package main

import (
	"github.com/rios0rios0/releasekit/internal"
	"github.com/rios0rios0/releasekit/internal/infrastructure/controllers"
	"go.uber.org/dig"
)

func injectAppContext() *internal.AppInternal {
	container := dig.New()

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get AppInternal
	var appInternal *internal.AppInternal
	if err := container.Invoke(func(ai *internal.AppInternal) {
		appInternal = ai
	}); err != nil {
		panic(err)
	}

	return appInternal
}

func injectReleaseController() *controllers.ReleaseController {
	container := dig.New()

	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var releaseController *controllers.ReleaseController
	if err := container.Invoke(func(rc *controllers.ReleaseController) {
		releaseController = rc
	}); err != nil {
		panic(err)
	}

	return releaseController
}
