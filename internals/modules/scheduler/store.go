package scheduler

import (
	"context"

	"uptime-monitor/internals/modules/schedule"
	"uptime-monitor/pkg/db"
	"uptime-monitor/pkg/utils"

	"github.com/rs/zerolog"
)

type triggerStore struct {
	querier *db.Queries
	logger  *zerolog.Logger
}

func NewTriggerStore(dbExecutor db.DBTX, logger *zerolog.Logger) *triggerStore {
	return &triggerStore{
		querier: db.New(dbExecutor),
		logger:  logger,
	}
}

func (s *triggerStore) Upsert(ctx context.Context, t schedule.Trigger) (schedule.Trigger, error) {
	const op string = "repo.trigger.upsert"

	cronExpr, every, unit := schedule.RuleColumns(t.Rule)
	row, err := s.querier.UpsertTrigger(ctx, db.UpsertTriggerParams{
		ID:            utils.ToPgUUID(t.ID),
		ScheduleID:    t.ScheduleID,
		SiteID:        t.SiteID,
		CronExpr:      cronExpr,
		IntervalEvery: every,
		IntervalUnit:  unit,
	})
	if err != nil {
		return schedule.Trigger{}, utils.WrapRepoError(op, err, false, s.logger)
	}
	return toTrigger(row), nil
}

func (s *triggerStore) DeleteBySchedule(ctx context.Context, scheduleID int64) error {
	const op string = "repo.trigger.delete_by_schedule"

	if _, err := s.querier.DeleteTriggerBySchedule(ctx, scheduleID); err != nil {
		return utils.WrapRepoError(op, err, false, s.logger)
	}
	return nil
}

func (s *triggerStore) DeleteBySite(ctx context.Context, siteID int64) error {
	const op string = "repo.trigger.delete_by_site"

	if _, err := s.querier.DeleteTriggersBySite(ctx, siteID); err != nil {
		return utils.WrapRepoError(op, err, false, s.logger)
	}
	return nil
}

func (s *triggerStore) List(ctx context.Context) ([]schedule.Trigger, error) {
	const op string = "repo.trigger.list"

	rows, err := s.querier.ListTriggers(ctx)
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, s.logger)
	}

	out := make([]schedule.Trigger, 0, len(rows))
	for i := range rows {
		out = append(out, toTrigger(rows[i]))
	}
	return out, nil
}

func toTrigger(row db.ScheduleTrigger) schedule.Trigger {
	return schedule.Trigger{
		ID:         utils.FromPgUUID(row.ID),
		ScheduleID: row.ScheduleID,
		SiteID:     row.SiteID,
		Rule:       schedule.RuleFromColumns(row.CronExpr, row.IntervalEvery, row.IntervalUnit),
		UpdatedAt:  utils.FromPgTimestamptz(row.UpdatedAt),
	}
}
