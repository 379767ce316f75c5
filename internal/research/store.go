// internal/research/store.go
package research

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fantasy-research/internal/common/logger"
	"fantasy-research/internal/common/metrics"
	"fantasy-research/internal/models"
)

const (
	DefaultInsightLimit = 10
	MaxInsightLimit     = 100

	currentWeekCacheKey = "research:current_week"
	defaultCurrentWeek  = 1
)

const (
	insertInsightSQL = `INSERT INTO ai_insights
		(id, query_type, query_text, response, confidence_score, week, is_actionable, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectInsightsSQL = `SELECT id, query_type, query_text, response, confidence_score, week, is_actionable, created_at
		FROM ai_insights`

	currentWeekSQL = `SELECT current_week FROM leagues LIMIT 1`
)

// Store persists research answers as append-only insights.
type Store interface {
	// SaveInsight writes one row for result. A nil result is a no-op and
	// returns (nil, nil).
	SaveInsight(ctx context.Context, category models.Category, queryText string, result *Result) (*Insight, error)
	// RecentInsights returns insights newest first. An empty category matches all.
	RecentInsights(ctx context.Context, category models.Category, limit int) ([]Insight, error)
	// CurrentWeek returns the league week, defaulting to 1 when unknown.
	CurrentWeek(ctx context.Context) int
}

// NormalizeLimit applies the listing bounds: non-positive becomes the
// default, anything above the cap is clamped.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultInsightLimit
	}
	if limit > MaxInsightLimit {
		return MaxInsightLimit
	}
	return limit
}

// PostgresStore keeps insights in Postgres and caches the current week in Redis.
type PostgresStore struct {
	db       *sql.DB
	cache    redis.Cmdable
	cacheTTL time.Duration
	logger   logger.Logger
	now      func() time.Time
	newID    func() string
}

// NewPostgresStore builds a store. cache may be nil, in which case every
// CurrentWeek call reads the database.
func NewPostgresStore(db *sql.DB, cache redis.Cmdable, cacheTTL time.Duration, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.ForComponent(log, "insight-store"),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

func (s *PostgresStore) SaveInsight(ctx context.Context, category models.Category, queryText string, result *Result) (*Insight, error) {
	if result == nil {
		return nil, nil
	}

	response, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal result: %v", ErrPersistence, err)
	}

	insight := &Insight{
		ID:           s.newID(),
		QueryType:    category,
		QueryText:    queryText,
		ResponseJSON: string(response),
		Confidence:   result.Confidence,
		Week:         s.CurrentWeek(ctx),
		IsActionable: IsActionable(result.Confidence),
		CreatedAt:    s.now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, insertInsightSQL,
		insight.ID,
		string(insight.QueryType),
		insight.QueryText,
		insight.ResponseJSON,
		insight.Confidence,
		insight.Week,
		insight.IsActionable,
		insight.CreatedAt,
	)
	if err != nil {
		metrics.InsightsPersisted.WithLabelValues(string(category), "failed").Inc()
		return nil, fmt.Errorf("%w: insert insight: %v", ErrPersistence, err)
	}

	metrics.InsightsPersisted.WithLabelValues(string(category), "saved").Inc()
	s.logger.Info("insight saved", map[string]interface{}{
		"insightId":    insight.ID,
		"category":     string(category),
		"week":         insight.Week,
		"isActionable": insight.IsActionable,
	})
	return insight, nil
}

func (s *PostgresStore) RecentInsights(ctx context.Context, category models.Category, limit int) ([]Insight, error) {
	limit = NormalizeLimit(limit)

	query := selectInsightsSQL
	args := make([]interface{}, 0, 2)
	if category != "" {
		query += " WHERE query_type = $1"
		args = append(args, string(category))
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query insights: %v", ErrPersistence, err)
	}
	defer rows.Close()

	insights := make([]Insight, 0, limit)
	for rows.Next() {
		var (
			in        Insight
			queryType string
		)
		if err := rows.Scan(&in.ID, &queryType, &in.QueryText, &in.ResponseJSON,
			&in.Confidence, &in.Week, &in.IsActionable, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan insight: %v", ErrPersistence, err)
		}
		in.QueryType = models.Category(queryType)
		insights = append(insights, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate insights: %v", ErrPersistence, err)
	}
	return insights, nil
}

func (s *PostgresStore) CurrentWeek(ctx context.Context) int {
	if week, ok := s.cachedWeek(ctx); ok {
		return week
	}

	var week sql.NullInt64
	err := s.db.QueryRowContext(ctx, currentWeekSQL).Scan(&week)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return defaultCurrentWeek
	case err != nil:
		s.logger.Warn("current week lookup failed, using default", map[string]interface{}{
			"error": err.Error(),
		})
		return defaultCurrentWeek
	case !week.Valid || week.Int64 < 1:
		return defaultCurrentWeek
	}

	s.cacheWeek(ctx, int(week.Int64))
	return int(week.Int64)
}

func (s *PostgresStore) cachedWeek(ctx context.Context) (int, bool) {
	if s.cache == nil {
		return 0, false
	}
	val, err := s.cache.Get(ctx, currentWeekCacheKey).Result()
	if errors.Is(err, redis.Nil) {
		metrics.CurrentWeekCache.WithLabelValues("miss").Inc()
		return 0, false
	}
	if err != nil {
		metrics.CurrentWeekCache.WithLabelValues("error").Inc()
		s.logger.Warn("current week cache read failed", map[string]interface{}{"error": err.Error()})
		return 0, false
	}
	week, err := strconv.Atoi(val)
	if err != nil || week < 1 {
		metrics.CurrentWeekCache.WithLabelValues("error").Inc()
		return 0, false
	}
	metrics.CurrentWeekCache.WithLabelValues("hit").Inc()
	return week, true
}

func (s *PostgresStore) cacheWeek(ctx context.Context, week int) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, currentWeekCacheKey, strconv.Itoa(week), s.cacheTTL).Err(); err != nil {
		s.logger.Warn("current week cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
