package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/slotwise/scheduler-api/internal/domain/schedule"
)

// Without a reachable client every operation must degrade to a miss or a
// no-op; the availability path never depends on the cache being up.
func TestCacheFailsOpenWithoutClient(t *testing.T) {
	ctx := context.Background()

	var nilCache *AvailabilityCache
	slots, ok := nilCache.Get(ctx, 7, "2026-03-03", 60)
	assert.False(t, ok)
	assert.Nil(t, slots)
	nilCache.Set(ctx, 7, "2026-03-03", 60, nil)
	nilCache.Invalidate(ctx, 7, "2026-03-03")

	c := NewAvailabilityCache(nil, 30*time.Second, zap.NewNop())
	slots, ok = c.Get(ctx, 7, "2026-03-03", 60)
	assert.False(t, ok)
	assert.Nil(t, slots)
	c.Set(ctx, 7, "2026-03-03", 60, []schedule.TimeSlot{{Start: "09:00", End: "10:00"}})
	c.Invalidate(ctx, 7, "2026-03-03")
}

func TestCacheKeysEncodeVersionAndDuration(t *testing.T) {
	c := NewAvailabilityCache(nil, 30*time.Second, zap.NewNop())

	assert.Equal(t, "avail:ver:7:2026-03-03", c.versionKey(7, "2026-03-03"))
	assert.Equal(t, "avail:7:2026-03-03:60:v3", c.dataKey(7, "2026-03-03", 60, 3))
	// Different durations never share an entry.
	assert.NotEqual(t,
		c.dataKey(7, "2026-03-03", 60, 3),
		c.dataKey(7, "2026-03-03", 90, 3),
	)
}
