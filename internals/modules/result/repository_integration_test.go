//go:build integration

package result

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"uptime-monitor/internals/modules/executor"
	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/db"
	"uptime-monitor/pkg/logger"

	"github.com/guregu/null/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, logger.Nop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func seedSite(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	ctx := context.Background()
	q := db.New(pool)

	userID, err := q.CreateUser(ctx, db.CreateUserParams{
		Name:         "it",
		Email:        "it-" + time.Now().Format("150405.000000000") + "@example.com",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	s, err := q.CreateSite(ctx, db.CreateSiteParams{
		UserID:         userID,
		Url:            "https://example.com",
		HttpMethod:     "GET",
		ExpectedStatus: 200,
		TimeoutSec:     5,
	})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM users WHERE id = $1", userID)
	})
	return s.ID
}

func historyCount(t *testing.T, pool *pgxpool.Pool, siteID int64) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), "SELECT count(*) FROM site_history WHERE site_id = $1", siteID).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func lastChecked(t *testing.T, pool *pgxpool.Pool, siteID int64) pgtype.Timestamptz {
	t.Helper()
	var ts pgtype.Timestamptz
	if err := pool.QueryRow(context.Background(), "SELECT last_checked_at FROM sites WHERE id = $1", siteID).Scan(&ts); err != nil {
		t.Fatalf("last_checked_at: %v", err)
	}
	return ts
}

func event(siteID int64) executor.ResultEvent {
	return executor.ResultEvent{
		SiteID:       siteID,
		ResultCode:   executor.Pass,
		ResponseText: null.StringFrom("ok"),
		ResponseTime: 0.1,
	}
}

func TestRecordCommitsBothWrites(t *testing.T) {
	pool := testPool(t)
	siteID := seedSite(t, pool)
	repo := NewRepository(pool, logger.Nop())

	rec, err := repo.Record(context.Background(), event(siteID))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if historyCount(t, pool, siteID) != 1 {
		t.Fatalf("history row missing")
	}
	ts := lastChecked(t, pool, siteID)
	if !ts.Valid || !ts.Time.Equal(rec.CreatedAt) {
		t.Fatalf("last_checked_at = %v, want %v", ts.Time, rec.CreatedAt)
	}
}

func TestRecordRollsBackOnMidwayFailure(t *testing.T) {
	pool := testPool(t)
	siteID := seedSite(t, pool)
	repo := NewRepository(pool, logger.Nop())
	repo.beforeSiteUpdate = func(context.Context) error { return errors.New("injected") }

	_, err := repo.Record(context.Background(), event(siteID))
	if !apperror.IsKind(err, apperror.TransactionFailed) {
		t.Fatalf("expected transaction failed, got %v", err)
	}
	if n := historyCount(t, pool, siteID); n != 0 {
		t.Fatalf("history rows = %d after rollback", n)
	}
	if lastChecked(t, pool, siteID).Valid {
		t.Fatalf("last_checked_at set after rollback")
	}
}

func TestRecordLastCheckedIsMonotonic(t *testing.T) {
	pool := testPool(t)
	siteID := seedSite(t, pool)
	repo := NewRepository(pool, logger.Nop())
	ctx := context.Background()

	first, err := repo.Record(ctx, event(siteID))
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	// an out-of-order commit carrying an older time must not move it back
	q := db.New(pool)
	if _, err := q.TouchSiteLastChecked(ctx, db.TouchSiteLastCheckedParams{
		ID:            siteID,
		LastCheckedAt: pgtype.Timestamptz{Time: first.CreatedAt.Add(-time.Hour), Valid: true},
	}); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if ts := lastChecked(t, pool, siteID); !ts.Time.Equal(first.CreatedAt) {
		t.Fatalf("last_checked_at moved back to %v", ts.Time)
	}
}

func TestRecordForDeletedSite(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool, logger.Nop())

	_, err := repo.Record(context.Background(), event(1<<40))
	if !apperror.IsKind(err, apperror.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordBinaryTextCommits(t *testing.T) {
	pool := testPool(t)
	siteID := seedSite(t, pool)
	rec := NewRecorder(NewRepository(pool, logger.Nop()), newFakeCache(), logger.Nop())

	ev := event(siteID)
	ev.ResponseText = null.StringFrom("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	if err := rec.Record(context.Background(), "bin-1", ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if historyCount(t, pool, siteID) != 1 {
		t.Fatalf("history row missing")
	}
	if !lastChecked(t, pool, siteID).Valid {
		t.Fatalf("last_checked_at not advanced")
	}
}
