package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	dashboardKeyPrefix = "reports:dashboard:"
	dashboardCacheTTL  = 60 * time.Second
)

func GetDashboardKey(orgID string) string {
	return dashboardKeyPrefix + orgID
}

type DashboardResponse struct {
	TotalGuards       int64            `json:"total_guards"`
	ActiveGuards      int64            `json:"active_guards"`
	OpenSessions      int64            `json:"open_sessions"`
	SessionsToday     int64            `json:"sessions_today"`
	AutoClosuresToday int64            `json:"auto_closures_today"`
	UnresolvedAlerts  int64            `json:"unresolved_alerts"`
	CriticalAlerts    int64            `json:"critical_alerts"`
	ClosuresByMethod  map[string]int64 `json:"closures_by_method"`
	GeneratedAt       string           `json:"generated_at"`
}

type Service interface {
	Dashboard(ctx context.Context, orgID string) (DashboardResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
		now:    time.Now,
	}
}

// Dashboard is the hot path behind the ops landing screen: a short
// redis TTL absorbs refresh storms and singleflight collapses the
// rebuild when the cache expires.
func (s *service) Dashboard(ctx context.Context, orgID string) (DashboardResponse, error) {
	cacheKey := GetDashboardKey(orgID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp DashboardResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		now := s.now().UTC()
		since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		counts, err := s.repo.DashboardCounts(ctx, orgID, since)
		if err != nil {
			return nil, err
		}
		byMethod, err := s.repo.ClosuresByMethod(ctx, orgID, since)
		if err != nil {
			return nil, err
		}

		resp := DashboardResponse{
			TotalGuards:       counts.TotalGuards,
			ActiveGuards:      counts.ActiveGuards,
			OpenSessions:      counts.OpenSessions,
			SessionsToday:     counts.SessionsToday,
			AutoClosuresToday: counts.AutoClosuresToday,
			UnresolvedAlerts:  counts.UnresolvedAlerts,
			CriticalAlerts:    counts.CriticalAlerts,
			ClosuresByMethod:  byMethod,
			GeneratedAt:       now.Format(time.RFC3339),
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, dashboardCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		s.logger.Error("build dashboard failed", zap.String("org_id", orgID), zap.Error(err))
		return DashboardResponse{}, err
	}

	return v.(DashboardResponse), nil
}
