package publish

import "errors"

var (
	ErrNoPlatforms        = errors.New("post has no target platforms")
	ErrAllPlatformsFailed = errors.New("post failed on every platform")
)
