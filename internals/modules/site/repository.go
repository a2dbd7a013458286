package site

import (
	"context"
	"time"

	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/db"
	"uptime-monitor/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type repository struct {
	querier *db.Queries
	logger  *zerolog.Logger
}

func NewRepository(dbExecutor db.DBTX, logger *zerolog.Logger) *repository {
	return &repository{
		querier: db.New(dbExecutor),
		logger:  logger,
	}
}

func (r *repository) Create(ctx context.Context, cmd SiteCmd) (Site, error) {
	const op string = "repo.site.create"

	s, err := r.querier.CreateSite(ctx, db.CreateSiteParams{
		UserID:         utils.ToPgUUID(cmd.UserID),
		Url:            cmd.URL,
		HttpMethod:     string(cmd.Method),
		ExpectedStatus: int32(cmd.ExpectedStatus),
		ExpectedText:   utils.NullToPgText(cmd.ExpectedText),
		HostedAt:       utils.NullToPgText(cmd.HostedAt),
		TimeoutSec:     int32(cmd.Timeout / time.Second),
	})
	if err != nil {
		return Site{}, utils.WrapRepoError(op, err, false, r.logger)
	}
	return toSite(s), nil
}

func (r *repository) GetByID(ctx context.Context, siteID int64) (Site, error) {
	const op string = "repo.site.get_by_id"

	s, err := r.querier.GetSiteByID(ctx, siteID)
	if err != nil {
		return Site{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return toSite(s), nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Site, error) {
	const op string = "repo.site.list"

	rows, err := r.querier.ListSitesByUser(ctx, db.ListSitesByUserParams{
		UserID: utils.ToPgUUID(userID),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	sites := make([]Site, 0, len(rows))
	for i := range rows {
		sites = append(sites, toSite(rows[i]))
	}
	return sites, nil
}

func (r *repository) Update(ctx context.Context, siteID int64, cmd SiteCmd) (Site, error) {
	const op string = "repo.site.update"

	s, err := r.querier.UpdateSite(ctx, db.UpdateSiteParams{
		ID:             siteID,
		UserID:         utils.ToPgUUID(cmd.UserID),
		Url:            cmd.URL,
		HttpMethod:     string(cmd.Method),
		ExpectedStatus: int32(cmd.ExpectedStatus),
		ExpectedText:   utils.NullToPgText(cmd.ExpectedText),
		HostedAt:       utils.NullToPgText(cmd.HostedAt),
		TimeoutSec:     int32(cmd.Timeout / time.Second),
	})
	if err != nil {
		return Site{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return toSite(s), nil
}

func (r *repository) Delete(ctx context.Context, userID uuid.UUID, siteID int64) error {
	const op string = "repo.site.delete"

	rows, err := r.querier.DeleteSite(ctx, db.DeleteSiteParams{
		ID:     siteID,
		UserID: utils.ToPgUUID(userID),
	})
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if rows == 0 {
		return &apperror.Error{
			Kind:    apperror.NotFound,
			Op:      op,
			Message: "site not found",
		}
	}
	return nil
}

func toSite(s db.Site) Site {
	return Site{
		ID:             s.ID,
		UserID:         utils.FromPgUUID(s.UserID),
		URL:            s.Url,
		Method:         Method(s.HttpMethod),
		ExpectedStatus: int(s.ExpectedStatus),
		ExpectedText:   utils.PgTextToNull(s.ExpectedText),
		HostedAt:       utils.PgTextToNull(s.HostedAt),
		Timeout:        time.Duration(s.TimeoutSec) * time.Second,
		LastCheckedAt:  utils.PgTimestamptzToNull(s.LastCheckedAt),
		CreatedAt:      utils.FromPgTimestamptz(s.CreatedAt),
	}
}
