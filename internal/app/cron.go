package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quicky-ai/quicky-core/internal/modules/storage/extractcache"
	"github.com/quicky-ai/quicky-core/internal/modules/storage/upload"
	pkgcron "github.com/quicky-ai/quicky-core/internal/pkg/cron"
)

const staleUploadAge = time.Hour

// registerCronJobs registers the maintenance jobs. cache is nil when the
// extraction cache is disabled.
func registerCronJobs(sched *pkgcron.Scheduler, cache *extractcache.Store, uploadDir string, logger *zap.Logger) {
	if cache != nil {
		sched.Register(pkgcron.Job{
			Name:        "prune_extraction_cache",
			Description: "Delete expired cached extractions",
			Interval:    time.Hour,
			Fn: func(ctx context.Context) error {
				n, err := cache.Prune(ctx)
				if err != nil {
					return err
				}
				if n > 0 {
					logger.Info("extraction cache pruned", zap.Int64("deleted", n))
				}
				return nil
			},
		})
	}

	sched.Register(pkgcron.Job{
		Name:        "sweep_uploads",
		Description: "Remove uploads left behind by interrupted requests",
		Interval:    30 * time.Minute,
		Fn: func(ctx context.Context) error {
			n, err := upload.Sweep(uploadDir, staleUploadAge, time.Now())
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("stale uploads removed", zap.Int("deleted", n))
			}
			return nil
		},
	})
}
