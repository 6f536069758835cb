package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bountylab/scoring-api/internal/domain/model"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
)

// screenerCacheKey holds the cached registry snapshot in Redis.
const screenerCacheKey = "scoring:screeners"

// DefaultScreenerCacheTTL bounds how stale the cached registry may get.
const DefaultScreenerCacheTTL = 30 * time.Second

// ScreenerRepoConfig holds construction options for ScreenerRepo.
type ScreenerRepoConfig struct {
	// Cache is optional; without it every List hits the database.
	Cache    redis.UniversalClient
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// ScreenerRepo implements core.ScreenerRegistry over the screeners table with
// a short-lived Redis cache in front. The registry is read-only here; worker
// lifecycle is managed externally.
type ScreenerRepo struct {
	DB     *sql.DB
	cache  redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewScreenerRepo creates a new ScreenerRepo.
func NewScreenerRepo(db *sql.DB, cfg ScreenerRepoConfig) *ScreenerRepo {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultScreenerCacheTTL
	}
	return &ScreenerRepo{DB: db, cache: cfg.Cache, ttl: ttl, logger: cfg.Logger}
}

// List returns every registered screener, highest priority first. Cache
// failures fall through to the database.
func (r *ScreenerRepo) List(ctx context.Context) ([]*model.Screener, error) {
	if cached := r.fromCache(ctx); cached != nil {
		return cached, nil
	}

	screeners, err := r.listFromDB(ctx)
	if err != nil {
		return nil, err
	}

	r.store(ctx, screeners)
	return screeners, nil
}

func (r *ScreenerRepo) listFromDB(ctx context.Context) ([]*model.Screener, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, hotkey, priority, current_jobs, max_concurrent, is_active
		FROM screeners
		ORDER BY priority DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list screeners: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var screeners []*model.Screener
	byID := make(map[string]*model.Screener)
	for rows.Next() {
		s := &model.Screener{}
		if scanErr := rows.Scan(
			&s.ID, &s.Name, &s.Hotkey, &s.Priority,
			&s.CurrentJobs, &s.MaxConcurrent, &s.IsActive,
		); scanErr != nil {
			return nil, fmt.Errorf("scan screener: %w", scanErr)
		}
		screeners = append(screeners, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate screeners: %w", err)
	}

	if err := r.loadBindings(ctx, byID); err != nil {
		return nil, err
	}
	return screeners, nil
}

func (r *ScreenerRepo) loadBindings(ctx context.Context, byID map[string]*model.Screener) error {
	if len(byID) == 0 {
		return nil
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT screener_id, COALESCE(bounty_id, ''), COALESCE(category, '')
		FROM screener_bindings
	`)
	if err != nil {
		return fmt.Errorf("list screener bindings: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var screenerID string
		var binding model.ScreenerBinding
		if scanErr := rows.Scan(&screenerID, &binding.BountyID, &binding.Category); scanErr != nil {
			return fmt.Errorf("scan screener binding: %w", scanErr)
		}
		if s, ok := byID[screenerID]; ok {
			s.Bindings = append(s.Bindings, binding)
		}
	}
	return rows.Err()
}

func (r *ScreenerRepo) fromCache(ctx context.Context) []*model.Screener {
	if r.cache == nil {
		return nil
	}

	raw, err := r.cache.Get(ctx, screenerCacheKey).Bytes()
	if err != nil {
		if r.logger != nil && !errors.Is(err, redis.Nil) {
			r.logger.WarnContext(ctx, "screener cache read failed", "error", err)
		}
		return nil
	}

	var screeners []*model.Screener
	if err := json.Unmarshal(raw, &screeners); err != nil {
		if r.logger != nil {
			r.logger.WarnContext(ctx, "screener cache decode failed", "error", err)
		}
		return nil
	}
	return screeners
}

func (r *ScreenerRepo) store(ctx context.Context, screeners []*model.Screener) {
	if r.cache == nil {
		return
	}

	raw, err := json.Marshal(screeners)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, screenerCacheKey, raw, r.ttl).Err(); err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "screener cache write failed", "error", err)
	}
}
