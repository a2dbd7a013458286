package utils

import (
	"net/http"
	"strconv"

	"uptime-monitor/pkg/apperror"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination reads ?limit=&offset= from r. Missing values fall back to
// DefaultLimit and 0; limit is capped at MaxLimit.
func Pagination(r *http.Request) (limit int32, offset int32, err error) {
	const op string = "handler.pagination"

	limit, offset = DefaultLimit, 0
	q := r.URL.Query()

	if s := q.Get("limit"); s != "" {
		v, perr := strconv.ParseInt(s, 10, 32)
		if perr != nil || v < 1 {
			return 0, 0, apperror.New(apperror.InvalidInput, op, perr).
				WithMessage("invalid limit").
				WithFields(map[string]string{"limit": "must be a positive integer"})
		}
		limit = int32(min(v, MaxLimit))
	}

	if s := q.Get("offset"); s != "" {
		v, perr := strconv.ParseInt(s, 10, 32)
		if perr != nil || v < 0 {
			return 0, 0, apperror.New(apperror.InvalidInput, op, perr).
				WithMessage("invalid offset").
				WithFields(map[string]string{"offset": "must be a non-negative integer"})
		}
		offset = int32(v)
	}

	return limit, offset, nil
}

// PathID parses a positive int64 path parameter.
func PathID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.New(apperror.InvalidInput, "handler.path_id", err).
			WithMessage("invalid " + name).
			WithFields(map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}
