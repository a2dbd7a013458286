package schedule

import (
	"context"

	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/db"
	"uptime-monitor/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
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

func (r *repository) Create(ctx context.Context, cmd ScheduleCmd) (Schedule, error) {
	const op string = "repo.schedule.create"

	cronExpr, every, unit := RuleColumns(cmd.Rule)
	s, err := r.querier.CreateSchedule(ctx, db.CreateScheduleParams{
		Name:          cmd.Name,
		SiteID:        cmd.SiteID,
		CronExpr:      cronExpr,
		IntervalEvery: every,
		IntervalUnit:  unit,
	})
	if err != nil {
		return Schedule{}, utils.WrapRepoError(op, err, false, r.logger)
	}
	return toSchedule(s), nil
}

func (r *repository) GetForUser(ctx context.Context, userID uuid.UUID, scheduleID int64) (Schedule, error) {
	const op string = "repo.schedule.get_for_user"

	s, err := r.querier.GetScheduleForUser(ctx, db.GetScheduleForUserParams{
		ID:     scheduleID,
		UserID: utils.ToPgUUID(userID),
	})
	if err != nil {
		return Schedule{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return toSchedule(s), nil
}

func (r *repository) GetByName(ctx context.Context, name string) (Schedule, error) {
	const op string = "repo.schedule.get_by_name"

	s, err := r.querier.GetScheduleByName(ctx, name)
	if err != nil {
		return Schedule{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return toSchedule(s), nil
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Schedule, error) {
	const op string = "repo.schedule.list"

	rows, err := r.querier.ListSchedulesByUser(ctx, db.ListSchedulesByUserParams{
		UserID: utils.ToPgUUID(userID),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	out := make([]Schedule, 0, len(rows))
	for i := range rows {
		out = append(out, toSchedule(rows[i]))
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, scheduleID int64, cmd ScheduleCmd) (Schedule, error) {
	const op string = "repo.schedule.update"

	cronExpr, every, unit := RuleColumns(cmd.Rule)
	s, err := r.querier.UpdateSchedule(ctx, db.UpdateScheduleParams{
		ID:            scheduleID,
		Name:          cmd.Name,
		SiteID:        cmd.SiteID,
		CronExpr:      cronExpr,
		IntervalEvery: every,
		IntervalUnit:  unit,
	})
	if err != nil {
		return Schedule{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return toSchedule(s), nil
}

func (r *repository) Delete(ctx context.Context, scheduleID int64) error {
	const op string = "repo.schedule.delete"

	rows, err := r.querier.DeleteSchedule(ctx, scheduleID)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	if rows == 0 {
		return &apperror.Error{
			Kind:    apperror.NotFound,
			Op:      op,
			Message: "schedule not found",
		}
	}
	return nil
}

// RuleColumns splits a rule into its nullable storage columns.
func RuleColumns(rule Recurrence) (pgtype.Text, pgtype.Int4, pgtype.Text) {
	if rule.IsCron() {
		return utils.ToPgText(rule.Cron), pgtype.Int4{}, pgtype.Text{}
	}
	return pgtype.Text{},
		utils.ToPgInt4(int32(rule.Interval.Every), true),
		utils.ToPgText(string(rule.Interval.Unit))
}

func RuleFromColumns(cronExpr pgtype.Text, every pgtype.Int4, unit pgtype.Text) Recurrence {
	if every.Valid {
		return IntervalRule(int(every.Int32), IntervalUnit(unit.String))
	}
	return CronRule(cronExpr.String)
}

func toSchedule(s db.Schedule) Schedule {
	return Schedule{
		ID:        s.ID,
		Name:      s.Name,
		SiteID:    s.SiteID,
		Rule:      RuleFromColumns(s.CronExpr, s.IntervalEvery, s.IntervalUnit),
		CreatedAt: utils.FromPgTimestamptz(s.CreatedAt),
		UpdatedAt: utils.FromPgTimestamptz(s.UpdatedAt),
	}
}
