package media

import "context"

// UseCase derives renditions for uploaded assets.
type UseCase interface {
	// Process fetches the source asset, produces every requested rendition
	// and writes the results back to object storage. Rendition failures are
	// isolated; the job succeeds when at least one rendition landed.
	Process(ctx context.Context, input ProcessInput) (ProcessOutput, error)
}
