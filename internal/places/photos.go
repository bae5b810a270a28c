package places

import (
	"context"

	"github.com/alexivanou/placenotes-api/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PhotoBatch is the joined outcome of one group of photo fetches
type PhotoBatch struct {
	Photos []model.PhotoDetail
	Failed int
}

// FetchPhotos resolves names concurrently. Results keep input order; failed
// fetches are logged and left out.
func FetchPhotos(ctx context.Context, p Provider, names []string, maxHeightPx, concurrency int, logger *zap.Logger) PhotoBatch {
	return FetchPhotoGroups(ctx, p, [][]string{names}, maxHeightPx, concurrency, logger)[0]
}

// FetchPhotoGroups resolves every name of every group in a single fan-out and
// joins the results back per group, in input order.
func FetchPhotoGroups(ctx context.Context, p Provider, groups [][]string, maxHeightPx, concurrency int, logger *zap.Logger) []PhotoBatch {
	if logger == nil {
		logger = zap.NewNop()
	}

	type outcome struct {
		detail model.PhotoDetail
		err    error
	}
	outcomes := make([][]outcome, len(groups))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for gi, names := range groups {
		outcomes[gi] = make([]outcome, len(names))
		for i, name := range names {
			g.Go(func() error {
				detail, err := p.FetchPhotoMedia(ctx, name, maxHeightPx)
				outcomes[gi][i] = outcome{detail: detail, err: err}
				return nil
			})
		}
	}
	_ = g.Wait()

	batches := make([]PhotoBatch, len(groups))
	for gi, group := range outcomes {
		batch := PhotoBatch{Photos: make([]model.PhotoDetail, 0, len(group))}
		for i, o := range group {
			if o.err != nil {
				batch.Failed++
				logger.Warn("Photo fetch failed",
					zap.String("provider", p.Name()),
					zap.String("photo", groups[gi][i]),
					zap.Error(o.err),
				)
				continue
			}
			batch.Photos = append(batch.Photos, o.detail)
		}
		batches[gi] = batch
	}
	return batches
}
