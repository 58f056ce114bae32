package sentiment

import "errors"

var (
	ErrNotFound    = errors.New("record not found")
	ErrNoTrendData = errors.New("no trend rows for workspace")
)
