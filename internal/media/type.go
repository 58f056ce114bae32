package media

// Rendition names the derived variants of an asset.
type Rendition string

const (
	RenditionThumbnail Rendition = "thumbnail"
	RenditionPreview   Rendition = "preview"
	RenditionWeb       Rendition = "web"
)

// ProcessInput identifies the source asset and the renditions to derive.
type ProcessInput struct {
	AssetID    string      `json:"asset_id"`
	UserID     string      `json:"user_id"`
	Bucket     string      `json:"bucket"`
	Object     string      `json:"object"`
	Renditions []Rendition `json:"renditions"`
}

// RenditionOutcome is the isolated result for one rendition.
type RenditionOutcome struct {
	Rendition Rendition `json:"rendition"`
	Success   bool      `json:"success"`
	Object    string    `json:"object,omitempty"`
	Size      int64     `json:"size,omitempty"`
	Err       error     `json:"-"`
}

// ProcessOutput summarizes one asset's processing run.
type ProcessOutput struct {
	AssetID    string
	SourceSize int64
	Outcomes   []RenditionOutcome
	Succeeded  int
	Failed     int
}
