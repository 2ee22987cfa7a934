package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chargeslot/internal/models"
)

// StationCache keeps station snapshots in redis for read endpoints. The ledger
// in postgres stays authoritative; cached entries carry a short TTL and are
// invalidated on every admit/release.
type StationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStationCache returns redis-backed cache.
func NewStationCache(client *redis.Client, ttl time.Duration) *StationCache {
	return &StationCache{client: client, ttl: ttl}
}

func (c *StationCache) key(stationID string) string {
	return fmt.Sprintf("stations:snapshot:%s", stationID)
}

// Save caches a station snapshot.
func (c *StationCache) Save(ctx context.Context, station *models.Station) error {
	data, err := json.Marshal(station)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(station.ID), data, c.ttl).Err()
}

// Get returns a cached snapshot, redis.Nil error on miss.
func (c *StationCache) Get(ctx context.Context, stationID string) (*models.Station, error) {
	result, err := c.client.Get(ctx, c.key(stationID)).Result()
	if err != nil {
		return nil, err
	}
	var station models.Station
	if err := json.Unmarshal([]byte(result), &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// Invalidate drops the cached snapshot after a capacity change.
func (c *StationCache) Invalidate(ctx context.Context, stationID string) error {
	return c.client.Del(ctx, c.key(stationID)).Err()
}
