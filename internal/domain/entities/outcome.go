package entities

// UpdateStatus classifies the outcome of one version-write attempt.
type UpdateStatus string

const (
	UpdateStatusUpdated  UpdateStatus = "updated"
	UpdateStatusNoChange UpdateStatus = "nochange"
	UpdateStatusSkipped  UpdateStatus = "skipped"
	UpdateStatusError    UpdateStatus = "error"
)

// VersionUpdateResult records the outcome of a version-write pass for one
// file. Immutable after construction.
type VersionUpdateResult struct {
	Path        string
	Kind        SourceKind
	OldVersion  string
	NewVersion  string
	Status      UpdateStatus
	ErrorDetail string
}

// OutcomeStatus classifies a per-project release outcome.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomePlanned OutcomeStatus = "planned"
	OutcomeError   OutcomeStatus = "error"
)

// ProjectReleaseOutcome is the result of releasing a single project.
type ProjectReleaseOutcome struct {
	Project      string
	Packable     bool
	OldVersion   string
	NewVersion   string
	Packages     []string
	Dependencies []string
	Status       OutcomeStatus
	Error        string
}

// RepositoryReleaseResult is the root aggregate of one orchestration run: an
// immutable snapshot enumerating every attempted project so a caller can tell
// which subset needs attention without re-running the whole release.
type RepositoryReleaseResult struct {
	Outcomes          []ProjectReleaseOutcome
	ResolvedVersion   string // empty unless a repository-wide spec was resolved
	PublishedPackages map[string]bool
	GitHubRelease     *PublishResult // nil when no release host was configured
	Succeeded         bool
}
