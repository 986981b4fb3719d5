package services

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

const snapshotKey = "snapshot"

// dashboardSource is the uncached snapshot builder.
type dashboardSource interface {
	GetDashboard(ctx context.Context) (dto.DashboardSnapshot, error)
}

// snapshotCache deduplicates fetch cycles. Concurrent callers share one
// in-flight cycle, and a snapshot finished less than window ago is served
// again. Failures are never stored.
type snapshotCache struct {
	next  dashboardSource
	cache *gocache.Cache
	group singleflight.Group
}

// NewSnapshotCache wraps next. A window <= 0 disables reuse of finished
// snapshots but keeps in-flight sharing.
func NewSnapshotCache(next dashboardSource, window time.Duration) *snapshotCache {
	c := &snapshotCache{next: next}
	if window > 0 {
		c.cache = gocache.New(window, 2*window)
	}
	return c
}

// GetDashboard returns the snapshot and whether it was served from the window cache.
func (c *snapshotCache) GetDashboard(ctx context.Context) (dto.DashboardSnapshot, bool, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(snapshotKey); ok {
			logger.FromContext(ctx).Debug("snapshot served from cache")
			return v.(dto.DashboardSnapshot), true, nil
		}
	}

	v, err, shared := c.group.Do(snapshotKey, func() (any, error) {
		// one caller going away must not cancel the cycle others are waiting on
		snap, err := c.next.GetDashboard(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.SetDefault(snapshotKey, snap)
		}
		return snap, nil
	})
	if err != nil {
		return dto.DashboardSnapshot{}, false, err
	}
	if shared {
		logger.FromContext(ctx).Debug("snapshot shared with in-flight cycle")
	}
	return v.(dto.DashboardSnapshot), false, nil
}
