package result

import (
	"context"
	"errors"

	"uptime-monitor/internals/modules/executor"
	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/db"
	"uptime-monitor/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Pool interface {
	db.DBTX
	db.TxBeginner
}

type repository struct {
	pool    Pool
	querier *db.Queries
	logger  *zerolog.Logger

	// beforeSiteUpdate runs between the two writes of Record; tests use it
	// to fail the transaction halfway.
	beforeSiteUpdate func(ctx context.Context) error
}

func NewRepository(pool Pool, logger *zerolog.Logger) *repository {
	return &repository{
		pool:    pool,
		querier: db.New(pool),
		logger:  logger,
	}
}

var errSiteGone = errors.New("site no longer exists")

// Record inserts the history row and advances sites.last_checked_at in one
// transaction. Either both writes are visible or neither is.
func (r *repository) Record(ctx context.Context, ev executor.ResultEvent) (Recorded, error) {
	const op string = "repo.result.record"

	var rec Recorded
	err := db.InTx(ctx, r.pool, func(q *db.Queries) error {
		h, err := q.CreateHistory(ctx, db.CreateHistoryParams{
			SiteID:          ev.SiteID,
			ResponseCode:    string(ev.ResultCode),
			ResponseText:    utils.NullToPgText(ev.ResponseText),
			ResponseTime:    ev.ResponseTime,
			ResponseHeaders: utils.NullToPgText(ev.ResponseHeaders),
		})
		if err != nil {
			return err
		}
		rec = Recorded{HistoryID: h.ID, CreatedAt: utils.FromPgTimestamptz(h.CreatedAt)}

		if r.beforeSiteUpdate != nil {
			if err := r.beforeSiteUpdate(ctx); err != nil {
				return err
			}
		}

		n, err := q.TouchSiteLastChecked(ctx, db.TouchSiteLastCheckedParams{
			ID:            ev.SiteID,
			LastCheckedAt: h.CreatedAt,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return errSiteGone
		}
		return nil
	})
	if err == nil {
		return rec, nil
	}

	if errors.Is(err, errSiteGone) {
		return Recorded{}, apperror.New(apperror.NotFound, op, err).WithMessage("site not found")
	}
	wrapped := utils.WrapRepoError(op, err, false, r.logger)
	if apperror.IsKind(wrapped, apperror.NotFound) {
		return Recorded{}, wrapped
	}
	return Recorded{}, apperror.New(apperror.TransactionFailed, op, err).WithMessage("failed to record result")
}

func (r *repository) ListHistory(ctx context.Context, userID uuid.UUID, q HistoryQuery) ([]HistoryEntry, error) {
	const op string = "repo.result.list_history"

	rows, err := r.querier.ListHistoryByUser(ctx, db.ListHistoryByUserParams{
		UserID: utils.ToPgUUID(userID),
		SiteID: utils.ToPgInt8(q.SiteID.Int64, q.SiteID.Valid),
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	out := make([]HistoryEntry, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		out = append(out, HistoryEntry{
			ID:           row.ID,
			CreatedAt:    utils.FromPgTimestamptz(row.CreatedAt),
			ResponseTime: row.ResponseTime,
			ResponseText: utils.PgTextToNull(row.ResponseText),
			ResponseCode: row.ResponseCode,
			SiteURL:      row.SiteUrl,
		})
	}
	return out, nil
}
