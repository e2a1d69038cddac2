package services

import (
	"context"

	"go.uber.org/zap"
)

// compensation records objects uploaded during a write so they can be removed
// if the surrounding database transaction does not commit.
type compensation struct {
	store ObjectStore
	log   *zap.Logger
	keys  []string
}

func newCompensation(store ObjectStore, log *zap.Logger) *compensation {
	return &compensation{store: store, log: log}
}

// track must be called only after the upload succeeded.
func (c *compensation) track(key string) {
	c.keys = append(c.keys, key)
}

// run deletes every tracked object. Failures are logged and swallowed.
func (c *compensation) run(ctx context.Context) {
	if len(c.keys) == 0 {
		return
	}
	c.log.Info("removing objects uploaded by failed write", zap.Int("count", len(c.keys)))
	deleteObjects(ctx, c.store, c.log, c.keys)
	c.keys = nil
}

// deleteObjects removes keys best-effort, skipping empty and repeated keys.
// It outlives request cancellation so cleanup still runs for dropped clients.
func deleteObjects(ctx context.Context, store ObjectStore, log *zap.Logger, keys []string) {
	ctx = context.WithoutCancel(ctx)
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if err := store.Delete(ctx, key); err != nil {
			log.Warn("best-effort object delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}
