package webhook

import "context"

// Sender posts JSON payloads to HTTP webhook endpoints with retry.
type Sender interface {
	// Send posts a plain text payload to the given URL.
	Send(ctx context.Context, url string, content string) error
	// SendEmbed posts a rich embed payload to the given URL.
	SendEmbed(ctx context.Context, url string, options MessageOptions) error
	// Close releases idle connections.
	Close() error
}
