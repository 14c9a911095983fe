package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/slotwise/scheduler-api/internal/domain/schedule"
)

const opTimeout = 500 * time.Millisecond

// AvailabilityCache keeps computed slot lists hot for the polling UI.
// Entries are keyed by a per-(staff, date) version; booking mutations
// bump the version so stale entries are never served. Any cache failure
// falls through to the store.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *AvailabilityCache) versionKey(staffID uint, date string) string {
	return fmt.Sprintf("avail:ver:%d:%s", staffID, date)
}

func (c *AvailabilityCache) dataKey(staffID uint, date string, durationMin int, ver int64) string {
	return fmt.Sprintf("avail:%d:%s:%d:v%d", staffID, date, durationMin, ver)
}

func (c *AvailabilityCache) version(ctx context.Context, staffID uint, date string) int64 {
	ver, err := c.rdb.Get(ctx, c.versionKey(staffID, date)).Int64()
	if err != nil && err != redis.Nil {
		c.log.Debug("availability cache version read failed", zap.Error(err))
		return -1
	}
	return ver
}

func (c *AvailabilityCache) Get(
	ctx context.Context,
	staffID uint,
	date string,
	durationMin int,
) ([]schedule.TimeSlot, bool) {

	if c == nil || c.rdb == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ver := c.version(ctx, staffID, date)
	if ver < 0 {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.dataKey(staffID, date, durationMin, ver)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("availability cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var slots []schedule.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) Set(
	ctx context.Context,
	staffID uint,
	date string,
	durationMin int,
	slots []schedule.TimeSlot,
) {

	if c == nil || c.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	ver := c.version(ctx, staffID, date)
	if ver < 0 {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, c.dataKey(staffID, date, durationMin, ver), raw, c.ttl).Err(); err != nil {
		c.log.Debug("availability cache write failed", zap.Error(err))
	}
}

// Invalidate bumps the version for one staff member and date. Old data
// keys age out via TTL.
func (c *AvailabilityCache) Invalidate(ctx context.Context, staffID uint, date string) {
	if c == nil || c.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.rdb.Incr(ctx, c.versionKey(staffID, date)).Err(); err != nil {
		c.log.Debug("availability cache invalidate failed", zap.Error(err))
	}
}
