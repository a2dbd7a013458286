package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const scheduleColumns = `s.id, s.name, s.site_id, s.cron_expr, s.interval_every, s.interval_unit, s.created_at, s.updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (Schedule, error) {
	var i Schedule
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.SiteID,
		&i.CronExpr,
		&i.IntervalEvery,
		&i.IntervalUnit,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createSchedule = `
INSERT INTO schedules AS s (name, site_id, cron_expr, interval_every, interval_unit)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + scheduleColumns

type CreateScheduleParams struct {
	Name          string
	SiteID        int64
	CronExpr      pgtype.Text
	IntervalEvery pgtype.Int4
	IntervalUnit  pgtype.Text
}

func (q *Queries) CreateSchedule(ctx context.Context, arg CreateScheduleParams) (Schedule, error) {
	row := q.db.QueryRow(ctx, createSchedule,
		arg.Name,
		arg.SiteID,
		arg.CronExpr,
		arg.IntervalEvery,
		arg.IntervalUnit,
	)
	return scanSchedule(row)
}

const getScheduleForUser = `
SELECT ` + scheduleColumns + `
FROM schedules s
JOIN sites ON sites.id = s.site_id
WHERE s.id = $1 AND sites.user_id = $2
`

type GetScheduleForUserParams struct {
	ID     int64
	UserID pgtype.UUID
}

func (q *Queries) GetScheduleForUser(ctx context.Context, arg GetScheduleForUserParams) (Schedule, error) {
	return scanSchedule(q.db.QueryRow(ctx, getScheduleForUser, arg.ID, arg.UserID))
}

const getScheduleByName = `SELECT ` + scheduleColumns + ` FROM schedules s WHERE s.name = $1`

func (q *Queries) GetScheduleByName(ctx context.Context, name string) (Schedule, error) {
	return scanSchedule(q.db.QueryRow(ctx, getScheduleByName, name))
}

const listSchedulesByUser = `
SELECT ` + scheduleColumns + `
FROM schedules s
JOIN sites ON sites.id = s.site_id
WHERE sites.user_id = $1
ORDER BY s.id
LIMIT $2 OFFSET $3
`

type ListSchedulesByUserParams struct {
	UserID pgtype.UUID
	Limit  int32
	Offset int32
}

func (q *Queries) ListSchedulesByUser(ctx context.Context, arg ListSchedulesByUserParams) ([]Schedule, error) {
	rows, err := q.db.Query(ctx, listSchedulesByUser, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Schedule
	for rows.Next() {
		i, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateSchedule = `
UPDATE schedules AS s
SET name = $2,
    site_id = $3,
    cron_expr = $4,
    interval_every = $5,
    interval_unit = $6,
    updated_at = now()
WHERE s.id = $1
RETURNING ` + scheduleColumns

type UpdateScheduleParams struct {
	ID            int64
	Name          string
	SiteID        int64
	CronExpr      pgtype.Text
	IntervalEvery pgtype.Int4
	IntervalUnit  pgtype.Text
}

func (q *Queries) UpdateSchedule(ctx context.Context, arg UpdateScheduleParams) (Schedule, error) {
	row := q.db.QueryRow(ctx, updateSchedule,
		arg.ID,
		arg.Name,
		arg.SiteID,
		arg.CronExpr,
		arg.IntervalEvery,
		arg.IntervalUnit,
	)
	return scanSchedule(row)
}

const deleteSchedule = `DELETE FROM schedules WHERE id = $1`

func (q *Queries) DeleteSchedule(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteSchedule, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
