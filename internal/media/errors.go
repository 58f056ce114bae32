package media

import "errors"

var (
	ErrNoRenditions        = errors.New("asset has no requested renditions")
	ErrAllRenditionsFailed = errors.New("every rendition failed")
)
