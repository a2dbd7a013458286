package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const siteColumns = `id, user_id, url, http_method, expected_status, expected_text, hosted_at, timeout_sec, last_checked_at, created_at`

func scanSite(row interface{ Scan(...any) error }) (Site, error) {
	var i Site
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Url,
		&i.HttpMethod,
		&i.ExpectedStatus,
		&i.ExpectedText,
		&i.HostedAt,
		&i.TimeoutSec,
		&i.LastCheckedAt,
		&i.CreatedAt,
	)
	return i, err
}

const createSite = `
INSERT INTO sites (user_id, url, http_method, expected_status, expected_text, hosted_at, timeout_sec)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + siteColumns

type CreateSiteParams struct {
	UserID         pgtype.UUID
	Url            string
	HttpMethod     string
	ExpectedStatus int32
	ExpectedText   pgtype.Text
	HostedAt       pgtype.Text
	TimeoutSec     int32
}

func (q *Queries) CreateSite(ctx context.Context, arg CreateSiteParams) (Site, error) {
	row := q.db.QueryRow(ctx, createSite,
		arg.UserID,
		arg.Url,
		arg.HttpMethod,
		arg.ExpectedStatus,
		arg.ExpectedText,
		arg.HostedAt,
		arg.TimeoutSec,
	)
	return scanSite(row)
}

const getSiteByID = `SELECT ` + siteColumns + ` FROM sites WHERE id = $1`

func (q *Queries) GetSiteByID(ctx context.Context, id int64) (Site, error) {
	return scanSite(q.db.QueryRow(ctx, getSiteByID, id))
}

const getSite = `SELECT ` + siteColumns + ` FROM sites WHERE id = $1 AND user_id = $2`

type GetSiteParams struct {
	ID     int64
	UserID pgtype.UUID
}

func (q *Queries) GetSite(ctx context.Context, arg GetSiteParams) (Site, error) {
	return scanSite(q.db.QueryRow(ctx, getSite, arg.ID, arg.UserID))
}

const listSitesByUser = `
SELECT ` + siteColumns + `
FROM sites
WHERE user_id = $1
ORDER BY id
LIMIT $2 OFFSET $3
`

type ListSitesByUserParams struct {
	UserID pgtype.UUID
	Limit  int32
	Offset int32
}

func (q *Queries) ListSitesByUser(ctx context.Context, arg ListSitesByUserParams) ([]Site, error) {
	rows, err := q.db.Query(ctx, listSitesByUser, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Site
	for rows.Next() {
		i, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// last_checked_at is deliberately absent: only the result transaction writes it.
const updateSite = `
UPDATE sites
SET url = $3,
    http_method = $4,
    expected_status = $5,
    expected_text = $6,
    hosted_at = $7,
    timeout_sec = $8
WHERE id = $1 AND user_id = $2
RETURNING ` + siteColumns

type UpdateSiteParams struct {
	ID             int64
	UserID         pgtype.UUID
	Url            string
	HttpMethod     string
	ExpectedStatus int32
	ExpectedText   pgtype.Text
	HostedAt       pgtype.Text
	TimeoutSec     int32
}

func (q *Queries) UpdateSite(ctx context.Context, arg UpdateSiteParams) (Site, error) {
	row := q.db.QueryRow(ctx, updateSite,
		arg.ID,
		arg.UserID,
		arg.Url,
		arg.HttpMethod,
		arg.ExpectedStatus,
		arg.ExpectedText,
		arg.HostedAt,
		arg.TimeoutSec,
	)
	return scanSite(row)
}

const deleteSite = `DELETE FROM sites WHERE id = $1 AND user_id = $2`

type DeleteSiteParams struct {
	ID     int64
	UserID pgtype.UUID
}

func (q *Queries) DeleteSite(ctx context.Context, arg DeleteSiteParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteSite, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GREATEST keeps last_checked_at monotonic when two transactions for the
// same site commit out of order.
const touchSiteLastChecked = `
UPDATE sites
SET last_checked_at = GREATEST(COALESCE(last_checked_at, $2), $2)
WHERE id = $1
`

type TouchSiteLastCheckedParams struct {
	ID            int64
	LastCheckedAt pgtype.Timestamptz
}

func (q *Queries) TouchSiteLastChecked(ctx context.Context, arg TouchSiteLastCheckedParams) (int64, error) {
	tag, err := q.db.Exec(ctx, touchSiteLastChecked, arg.ID, arg.LastCheckedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
