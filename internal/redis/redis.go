// Package redis caches per-device display payloads and last-seen stamps so
// the hot /api/display path can skip the database when nothing changed.
// The cache is optional: with no Redis configured every helper is a no-op
// and lookups just miss.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress, redisUsername, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// SetDisplayCache stores the serialized display response for a device.
func SetDisplayCache(ctx context.Context, mac string, payload []byte, expiration time.Duration) {
	if Rdb == nil {
		return
	}
	if err := Rdb.Set(ctx, "display:"+mac, payload, expiration).Err(); err != nil {
		log.Warn().Err(err).Str("mac", mac).Msg("failed to cache display response")
	}
}

// GetDisplayCache returns the cached display response, or nil on a miss.
func GetDisplayCache(ctx context.Context, mac string) []byte {
	if Rdb == nil {
		return nil
	}
	payload, err := Rdb.Get(ctx, "display:"+mac).Bytes()
	if err != nil {
		return nil
	}
	return payload
}

// InvalidateDisplayCache drops the cached response after a screen update.
func InvalidateDisplayCache(ctx context.Context, mac string) {
	if Rdb == nil {
		return
	}
	if err := Rdb.Del(ctx, "display:"+mac).Err(); err != nil {
		log.Warn().Err(err).Str("mac", mac).Msg("failed to invalidate display cache")
	}
}

// TouchLastSeen records the moment a device last polled.
func TouchLastSeen(ctx context.Context, mac string) {
	if Rdb == nil {
		return
	}
	if err := Rdb.Set(ctx, "lastseen:"+mac, time.Now().UTC().Format(time.RFC3339), 0).Err(); err != nil {
		log.Warn().Err(err).Str("mac", mac).Msg("failed to record last seen")
	}
}
