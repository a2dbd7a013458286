package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"uptime-monitor/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

func TestWrapRepoError(t *testing.T) {
	log := zerolog.Nop()

	cases := []struct {
		name     string
		err      error
		notFound bool
		want     apperror.Kind
	}{
		{"deadline", context.DeadlineExceeded, false, apperror.RequestTimeout},
		{"no rows allowed", pgx.ErrNoRows, true, apperror.NotFound},
		{"no rows not allowed", pgx.ErrNoRows, false, apperror.Internal},
		{"unique", &pgconn.PgError{Code: "23505"}, false, apperror.AlreadyExists},
		{"foreign key", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), false, apperror.NotFound},
		{"other pg", &pgconn.PgError{Code: "40001"}, false, apperror.DatabaseErr},
		{"other", errors.New("boom"), false, apperror.Internal},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WrapRepoError("repo.test.op", c.err, c.notFound, &log)
			if !apperror.IsKind(got, c.want) {
				t.Fatalf("want %s, got %v", c.want, got)
			}
			if !errors.Is(got, c.err) {
				t.Fatalf("wrapped error lost cause: %v", got)
			}
		})
	}
}
