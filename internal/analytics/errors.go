package analytics

import "errors"

var (
	ErrNoAccounts       = errors.New("collection has no accounts")
	ErrUnknownFrequency = errors.New("unknown collection frequency")
)
