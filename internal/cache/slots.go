package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/config"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

// SlotCache keeps public available-slot listings in redis. Keys embed a
// per-doctor version counter, so invalidation is a single INCR instead
// of a key scan. A nil client disables caching entirely.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSlotCache(cfg *config.Config) *SlotCache {
	if cfg.RedisAddr == "" {
		return &SlotCache{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	return &SlotCache{
		rdb: rdb,
		ttl: 5 * time.Minute,
	}
}

func (c *SlotCache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *SlotCache) version(ctx context.Context, doctorID uint) int64 {
	v, err := c.rdb.Get(ctx, fmt.Sprintf("slots:ver:%d", doctorID)).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *SlotCache) key(ctx context.Context, doctorID uint, from, to time.Time) string {
	return fmt.Sprintf(
		"slots:%d:%d:%s:%s",
		doctorID,
		c.version(ctx, doctorID),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	)
}

func (c *SlotCache) GetAvailable(ctx context.Context, doctorID uint, from, to time.Time) ([]models.TimeSlot, bool) {
	if !c.enabled() {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.key(ctx, doctorID, from, to)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []models.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) SetAvailable(ctx context.Context, doctorID uint, from, to time.Time, slots []models.TimeSlot) {
	if !c.enabled() {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(ctx, doctorID, from, to), raw, c.ttl)
}

// Invalidate bumps the doctor's version; stale entries expire via TTL.
func (c *SlotCache) Invalidate(ctx context.Context, doctorID uint) {
	if !c.enabled() {
		return
	}
	c.rdb.Incr(ctx, fmt.Sprintf("slots:ver:%d", doctorID))
}
