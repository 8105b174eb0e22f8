package entities

// ReleaseInput is the request to create (or idempotently reuse) a tagged
// release on the hosting service.
type ReleaseInput struct {
	Owner         string
	Repo          string
	Tag           string
	Name          string
	Body          string
	Draft         bool
	Prerelease    bool
	GenerateNotes bool
	Commitish     string
}

// ReleaseInfo identifies a created or reused release.
type ReleaseInfo struct {
	ID        int64
	Owner     string
	Repo      string
	Tag       string
	HTMLURL   string
	UploadURL string // template suffix ({?name,label}) already stripped
	Reused    bool
}

// AssetUploadStatus classifies the outcome of one asset upload.
type AssetUploadStatus string

const (
	AssetUploaded      AssetUploadStatus = "uploaded"
	AssetAlreadyExists AssetUploadStatus = "already-exists"
	AssetFailed        AssetUploadStatus = "failed"
)

// AssetUploadResult records the outcome of uploading one asset.
type AssetUploadResult struct {
	Path   string
	Name   string
	Status AssetUploadStatus
	Error  string
}

// PublishResult aggregates one publish run. AssetsUploaded is nil when zero
// assets were requested, so callers can tell "no assets needed" apart from
// "assets failed".
type PublishResult struct {
	ReleaseCreated bool
	Release        *ReleaseInfo
	Assets         []AssetUploadResult
	AssetsUploaded *bool
	Succeeded      bool
}

// GitMetadata is repository identity detected from a local clone.
type GitMetadata struct {
	Owner  string
	Repo   string
	Commit string
}
