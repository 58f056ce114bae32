package notification

import "errors"

var (
	ErrNoRecipient       = errors.New("notification has no recipient")
	ErrAllChannelsFailed = errors.New("all delivery channels failed")
)
