package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"jobs-srv/internal/job"
	"jobs-srv/internal/media"
	"jobs-srv/pkg/minio"
)

// Process downloads the source once, then derives and stores each rendition
// independently.
func (uc *implUseCase) Process(ctx context.Context, input media.ProcessInput) (media.ProcessOutput, error) {
	if len(input.Renditions) == 0 {
		return media.ProcessOutput{}, job.NewJobError("no_renditions",
			fmt.Sprintf("asset %s requested no renditions", input.AssetID), media.ErrNoRenditions)
	}

	reader, info, err := uc.storage.Download(ctx, input.Bucket, input.Object)
	if err != nil {
		return media.ProcessOutput{}, job.NewJobError("source_unavailable",
			fmt.Sprintf("asset %s: source object %s/%s", input.AssetID, input.Bucket, input.Object), err)
	}
	src, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return media.ProcessOutput{}, job.NewJobError("source_read_failed",
			fmt.Sprintf("asset %s: read source", input.AssetID), err)
	}

	out := media.ProcessOutput{
		AssetID:    input.AssetID,
		SourceSize: info.Size,
		Outcomes:   make([]media.RenditionOutcome, 0, len(input.Renditions)),
	}

	for _, rendition := range input.Renditions {
		outcome := uc.processRendition(ctx, input, rendition, src, info.ContentType)
		if outcome.Success {
			out.Succeeded++
		} else {
			out.Failed++
			uc.l.Warnf(ctx, "internal.media.process: asset %s rendition %s failed: %v", input.AssetID, rendition, outcome.Err)
		}
		out.Outcomes = append(out.Outcomes, outcome)
	}

	if out.Succeeded == 0 {
		return out, job.NewJobError("all_renditions_failed",
			fmt.Sprintf("asset %s: no rendition produced", input.AssetID), media.ErrAllRenditionsFailed)
	}
	return out, nil
}

func (uc *implUseCase) processRendition(ctx context.Context, input media.ProcessInput, rendition media.Rendition, src []byte, contentType string) media.RenditionOutcome {
	outcome := media.RenditionOutcome{Rendition: rendition}

	derived, err := uc.transformer.Transform(ctx, rendition, src, contentType)
	if err != nil {
		outcome.Err = job.NewTargetError("transform_failed",
			fmt.Sprintf("derive %s", rendition), err)
		return outcome
	}

	object := renditionObject(input.Object, rendition)
	stored, err := uc.storage.Upload(ctx, minio.UploadRequest{
		Bucket:      input.Bucket,
		Object:      object,
		Reader:      bytes.NewReader(derived),
		Size:        int64(len(derived)),
		ContentType: contentType,
		Metadata: map[string]string{
			"asset-id":  input.AssetID,
			"rendition": string(rendition),
		},
	})
	if err != nil {
		outcome.Err = job.NewTargetError("store_failed",
			fmt.Sprintf("store %s", rendition), err)
		return outcome
	}

	outcome.Success = true
	outcome.Object = stored.Object
	outcome.Size = stored.Size
	return outcome
}

// renditionObject places derived objects next to the source under a
// rendition-named prefix: a/b/img.png -> a/b/thumbnail/img.png.
func renditionObject(source string, rendition media.Rendition) string {
	dir, file := path.Split(source)
	return path.Join(dir, string(rendition), file)
}
