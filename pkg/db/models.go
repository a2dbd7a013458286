package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID           pgtype.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
}

type Site struct {
	ID             int64
	UserID         pgtype.UUID
	Url            string
	HttpMethod     string
	ExpectedStatus int32
	ExpectedText   pgtype.Text
	HostedAt       pgtype.Text
	TimeoutSec     int32
	LastCheckedAt  pgtype.Timestamptz
	CreatedAt      pgtype.Timestamptz
}

type Schedule struct {
	ID            int64
	Name          string
	SiteID        int64
	CronExpr      pgtype.Text
	IntervalEvery pgtype.Int4
	IntervalUnit  pgtype.Text
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type ScheduleTrigger struct {
	ID            pgtype.UUID
	ScheduleID    int64
	SiteID        int64
	CronExpr      pgtype.Text
	IntervalEvery pgtype.Int4
	IntervalUnit  pgtype.Text
	UpdatedAt     pgtype.Timestamptz
}

type SiteHistory struct {
	ID              int64
	SiteID          int64
	ResponseCode    string
	ResponseText    pgtype.Text
	ResponseTime    float64
	ResponseHeaders pgtype.Text
	CreatedAt       pgtype.Timestamptz
}
