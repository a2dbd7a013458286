package utils

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func ToPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func FromPgUUID(u pgtype.UUID) uuid.UUID {
	if !u.Valid {
		return uuid.Nil
	}
	return uuid.UUID(u.Bytes)
}

func ToPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func FromPgText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

func NullToPgText(s null.String) pgtype.Text {
	return pgtype.Text{String: s.String, Valid: s.Valid}
}

func PgTextToNull(t pgtype.Text) null.String {
	return null.NewString(t.String, t.Valid)
}

func ToPgInt4(i int32, valid bool) pgtype.Int4 {
	return pgtype.Int4{Int32: i, Valid: valid}
}

func FromPgInt32(i pgtype.Int4) int32 {
	if !i.Valid {
		return 0
	}
	return i.Int32
}

func ToPgInt8(i int64, valid bool) pgtype.Int8 {
	return pgtype.Int8{Int64: i, Valid: valid}
}

func FromPgBool(b pgtype.Bool) bool {
	if !b.Valid {
		return false
	}
	return b.Bool
}

func ToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func FromPgTimestamptz(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	if ts.InfinityModifier != pgtype.Finite {
		return time.Time{}
	}
	return ts.Time
}

func PgTimestamptzToNull(ts pgtype.Timestamptz) null.Time {
	t := FromPgTimestamptz(ts)
	return null.NewTime(t, !t.IsZero())
}
