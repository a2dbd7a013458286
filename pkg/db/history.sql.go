package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createHistory = `
INSERT INTO site_history (site_id, response_code, response_text, response_time, response_headers)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, site_id, response_code, response_text, response_time, response_headers, created_at
`

type CreateHistoryParams struct {
	SiteID          int64
	ResponseCode    string
	ResponseText    pgtype.Text
	ResponseTime    float64
	ResponseHeaders pgtype.Text
}

func (q *Queries) CreateHistory(ctx context.Context, arg CreateHistoryParams) (SiteHistory, error) {
	row := q.db.QueryRow(ctx, createHistory,
		arg.SiteID,
		arg.ResponseCode,
		arg.ResponseText,
		arg.ResponseTime,
		arg.ResponseHeaders,
	)
	var i SiteHistory
	err := row.Scan(
		&i.ID,
		&i.SiteID,
		&i.ResponseCode,
		&i.ResponseText,
		&i.ResponseTime,
		&i.ResponseHeaders,
		&i.CreatedAt,
	)
	return i, err
}

// Projection for API readers: no headers, site identified by url.
const listHistoryByUser = `
SELECT h.id, h.created_at, h.response_time, h.response_text, h.response_code, sites.url
FROM site_history h
JOIN sites ON sites.id = h.site_id
WHERE sites.user_id = $1
  AND ($2::bigint IS NULL OR h.site_id = $2)
ORDER BY h.created_at DESC, h.id DESC
LIMIT $3 OFFSET $4
`

type ListHistoryByUserParams struct {
	UserID pgtype.UUID
	SiteID pgtype.Int8
	Limit  int32
	Offset int32
}

type ListHistoryByUserRow struct {
	ID           int64
	CreatedAt    pgtype.Timestamptz
	ResponseTime float64
	ResponseText pgtype.Text
	ResponseCode string
	SiteUrl      string
}

func (q *Queries) ListHistoryByUser(ctx context.Context, arg ListHistoryByUserParams) ([]ListHistoryByUserRow, error) {
	rows, err := q.db.Query(ctx, listHistoryByUser, arg.UserID, arg.SiteID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListHistoryByUserRow
	for rows.Next() {
		var i ListHistoryByUserRow
		if err := rows.Scan(
			&i.ID,
			&i.CreatedAt,
			&i.ResponseTime,
			&i.ResponseText,
			&i.ResponseCode,
			&i.SiteUrl,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
