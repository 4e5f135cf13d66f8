package facility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "facility:"

// CachedRepository is a read-through Redis cache over another Repository.
// Entries expire after ttl and are dropped whenever the facility is updated.
// Redis failures degrade to the underlying repository.
type CachedRepository struct {
	Repository
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedRepository(next Repository, rdb redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) *CachedRepository {
	return &CachedRepository{
		Repository: next,
		rdb:        rdb,
		ttl:        ttl,
		logger:     logger,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix, id)
}

func (r *CachedRepository) GetByID(ctx context.Context, id int64) (*Facility, error) {
	raw, err := r.rdb.Get(ctx, cacheKey(id)).Bytes()
	switch {
	case err == nil:
		var f Facility
		if jsonErr := json.Unmarshal(raw, &f); jsonErr == nil {
			return &f, nil
		}
		r.logger.Warn().Int64("facility_id", id).Msg("discarding undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		r.logger.Warn().Err(err).Int64("facility_id", id).Msg("facility cache read failed")
	}

	f, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(f); err == nil {
		if err := r.rdb.Set(ctx, cacheKey(id), payload, r.ttl).Err(); err != nil {
			r.logger.Warn().Err(err).Int64("facility_id", id).Msg("facility cache write failed")
		}
	}
	return f, nil
}

func (r *CachedRepository) Update(ctx context.Context, f *Facility) error {
	if err := r.Repository.Update(ctx, f); err != nil {
		return err
	}
	r.Invalidate(ctx, f.ID)
	return nil
}

// Invalidate drops the cached entry for id.
func (r *CachedRepository) Invalidate(ctx context.Context, id int64) {
	if err := r.rdb.Del(ctx, cacheKey(id)).Err(); err != nil {
		r.logger.Error().Err(err).Int64("facility_id", id).Msg("facility cache invalidation failed")
	}
}
