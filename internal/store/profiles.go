package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rozgar-workers/internal/common/logger"
	"rozgar-workers/internal/models"
)

const profileCacheKeyPrefix = "worker:profile:"

// Profiles reads and writes worker profile documents. Reads go through a
// Redis cache; every write to the recommendation cache fields drops the
// cached copy so the staleness checks always see current data.
type Profiles struct {
	db    *sql.DB
	redis *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

func NewProfiles(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *Profiles {
	return &Profiles{db: db, redis: rdb, ttl: ttl, log: log}
}

// FindByID returns the worker profile, or nil when none exists.
func (s *Profiles) FindByID(ctx context.Context, id string) (*models.WorkerProfile, error) {
	cacheKey := profileCacheKeyPrefix + id
	if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var profile models.WorkerProfile
		if err := json.Unmarshal([]byte(val), &profile); err == nil {
			return &profile, nil
		}
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, age, address, shift_time, experience_years, job_title,
		       salary_expectation, cached_recommendations,
		       recommendations_last_updated, profile_hash
		FROM worker_profiles
		WHERE id = $1`, id)

	var (
		profile     models.WorkerProfile
		experience  sql.NullInt64
		expectation sql.NullInt64
		cachedIDs   []byte
		lastUpdated sql.NullTime
		hash        sql.NullString
	)
	err := row.Scan(
		&profile.ID, &profile.Name, &profile.Age, &profile.Address,
		&profile.ShiftTime, &experience, &profile.JobTitle, &expectation,
		&cachedIDs, &lastUpdated, &hash,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query worker profile: %w", err)
	}

	if experience.Valid {
		v := int(experience.Int64)
		profile.ExperienceYears = &v
	}
	if expectation.Valid {
		v := int(expectation.Int64)
		profile.SalaryExpectation = &v
	}
	if len(cachedIDs) > 0 {
		if err := json.Unmarshal(cachedIDs, &profile.CachedRecommendations); err != nil {
			profile.CachedRecommendations = nil
		}
	}
	if lastUpdated.Valid {
		t := lastUpdated.Time
		profile.RecommendationsLastUpdated = &t
	}
	if hash.Valid {
		profile.ProfileHash = hash.String
	}

	if data, err := json.Marshal(&profile); err == nil {
		if err := s.redis.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
			s.log.Warn("profile cache write failed", map[string]interface{}{
				"workerId": id,
				"error":    err.Error(),
			})
		}
	}

	return &profile, nil
}

// SaveRecommendationCache persists all three recommendation cache fields in
// a single update.
func (s *Profiles) SaveRecommendationCache(ctx context.Context, id string, jobIDs []string, updatedAt time.Time, hash string) error {
	ids, err := json.Marshal(jobIDs)
	if err != nil {
		return fmt.Errorf("marshal cached recommendations: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE worker_profiles
		SET cached_recommendations = $2,
		    recommendations_last_updated = $3,
		    profile_hash = $4
		WHERE id = $1`, id, ids, updatedAt, hash)
	if err != nil {
		return fmt.Errorf("save recommendation cache: %w", err)
	}

	s.dropCached(ctx, id)
	return nil
}

// ClearRecommendationCache resets all three cache fields as a unit.
func (s *Profiles) ClearRecommendationCache(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE worker_profiles
		SET cached_recommendations = NULL,
		    recommendations_last_updated = NULL,
		    profile_hash = NULL
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clear recommendation cache: %w", err)
	}

	s.dropCached(ctx, id)
	return nil
}

func (s *Profiles) dropCached(ctx context.Context, id string) {
	if err := s.redis.Del(ctx, profileCacheKeyPrefix+id).Err(); err != nil {
		s.log.Warn("profile cache drop failed", map[string]interface{}{
			"workerId": id,
			"error":    err.Error(),
		})
	}
}
