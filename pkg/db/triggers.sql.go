package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const triggerColumns = `id, schedule_id, site_id, cron_expr, interval_every, interval_unit, updated_at`

func scanTrigger(row interface{ Scan(...any) error }) (ScheduleTrigger, error) {
	var i ScheduleTrigger
	err := row.Scan(
		&i.ID,
		&i.ScheduleID,
		&i.SiteID,
		&i.CronExpr,
		&i.IntervalEvery,
		&i.IntervalUnit,
		&i.UpdatedAt,
	)
	return i, err
}

// On conflict the existing id is kept, so an update never changes the
// identity of the trigger.
const upsertTrigger = `
INSERT INTO schedule_triggers (id, schedule_id, site_id, cron_expr, interval_every, interval_unit)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (schedule_id) DO UPDATE
SET site_id = EXCLUDED.site_id,
    cron_expr = EXCLUDED.cron_expr,
    interval_every = EXCLUDED.interval_every,
    interval_unit = EXCLUDED.interval_unit,
    updated_at = now()
RETURNING ` + triggerColumns

type UpsertTriggerParams struct {
	ID            pgtype.UUID
	ScheduleID    int64
	SiteID        int64
	CronExpr      pgtype.Text
	IntervalEvery pgtype.Int4
	IntervalUnit  pgtype.Text
}

func (q *Queries) UpsertTrigger(ctx context.Context, arg UpsertTriggerParams) (ScheduleTrigger, error) {
	row := q.db.QueryRow(ctx, upsertTrigger,
		arg.ID,
		arg.ScheduleID,
		arg.SiteID,
		arg.CronExpr,
		arg.IntervalEvery,
		arg.IntervalUnit,
	)
	return scanTrigger(row)
}

const deleteTriggerBySchedule = `DELETE FROM schedule_triggers WHERE schedule_id = $1`

func (q *Queries) DeleteTriggerBySchedule(ctx context.Context, scheduleID int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteTriggerBySchedule, scheduleID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteTriggersBySite = `DELETE FROM schedule_triggers WHERE site_id = $1`

func (q *Queries) DeleteTriggersBySite(ctx context.Context, siteID int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteTriggersBySite, siteID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listTriggers = `SELECT ` + triggerColumns + ` FROM schedule_triggers ORDER BY schedule_id`

func (q *Queries) ListTriggers(ctx context.Context) ([]ScheduleTrigger, error) {
	rows, err := q.db.Query(ctx, listTriggers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ScheduleTrigger
	for rows.Next() {
		i, err := scanTrigger(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
