package report_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fieldwatch/internal/report"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	counts    report.DashboardCounts
	byMethod  map[string]int64
	calls     int
}

func (f *fakeRepo) DashboardCounts(ctx context.Context, orgID string, since time.Time) (report.DashboardCounts, error) {
	f.calls++
	return f.counts, nil
}

func (f *fakeRepo) ClosuresByMethod(ctx context.Context, orgID string, since time.Time) (map[string]int64, error) {
	return f.byMethod, nil
}

func TestService_Dashboard(t *testing.T) {
	ctx := context.Background()
	orgID := "5f6e9a40-0000-0000-0000-000000000001"

	repo := &fakeRepo{
		counts: report.DashboardCounts{
			TotalGuards:       12,
			ActiveGuards:      10,
			OpenSessions:      7,
			AutoClosuresToday: 3,
			UnresolvedAlerts:  2,
		},
		byMethod: map[string]int64{"manual": 4, "auto_shift_end": 2, "auto_geofence": 1},
	}

	t.Run("builds from store without redis", func(t *testing.T) {
		service := report.NewService(repo, nil)
		resp, err := service.Dashboard(ctx, orgID)

		assert.NoError(t, err)
		assert.Equal(t, int64(12), resp.TotalGuards)
		assert.Equal(t, int64(7), resp.OpenSessions)
		assert.Equal(t, int64(2), resp.ClosuresByMethod["auto_shift_end"])
	})

	t.Run("serves cached payload without touching the store", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		cached := report.DashboardResponse{TotalGuards: 99}
		payload, _ := json.Marshal(cached)
		mock.ExpectGet(report.GetDashboardKey(orgID)).SetVal(string(payload))

		before := repo.calls
		service := report.NewService(repo, rdb)
		resp, err := service.Dashboard(ctx, orgID)

		assert.NoError(t, err)
		assert.Equal(t, int64(99), resp.TotalGuards)
		assert.Equal(t, before, repo.calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
