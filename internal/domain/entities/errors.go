package entities

import "errors"

var (
	// ErrInvalidVersionSpec reports a version string that is neither an exact
	// dotted-numeric version nor a valid X-pattern.
	ErrInvalidVersionSpec = errors.New("invalid version spec")

	// ErrInvalidVersionMapEntry reports a version map entry with an empty
	// project key or an empty version value. Detected before any I/O.
	ErrInvalidVersionMapEntry = errors.New("invalid version map entry")

	// ErrVersionSourceUnavailable reports that no configured package source
	// could be reached while resolving an X-pattern version.
	ErrVersionSourceUnavailable = errors.New("no version source reachable")

	// ErrReleaseCreationFailed reports a non-conflict failure while creating
	// a release on the hosting service.
	ErrReleaseCreationFailed = errors.New("release creation failed")
)
