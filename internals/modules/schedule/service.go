package schedule

import (
	"context"

	"uptime-monitor/internals/modules/site"
	"uptime-monitor/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Repository interface {
	Create(ctx context.Context, cmd ScheduleCmd) (Schedule, error)
	GetForUser(ctx context.Context, userID uuid.UUID, scheduleID int64) (Schedule, error)
	GetByName(ctx context.Context, name string) (Schedule, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Schedule, error)
	Update(ctx context.Context, scheduleID int64, cmd ScheduleCmd) (Schedule, error)
	Delete(ctx context.Context, scheduleID int64) error
}

// SiteAuthorizer returns the site if userID owns it.
type SiteAuthorizer interface {
	GetSite(ctx context.Context, userID uuid.UUID, siteID int64) (site.Site, error)
}

// TriggerInstaller keeps the recurring job of a schedule in step with the
// stored row. It is the only path that creates or drops triggers.
type TriggerInstaller interface {
	InstallOrUpdate(ctx context.Context, s Schedule) (Trigger, error)
	Remove(ctx context.Context, scheduleID int64) error
}

type Service struct {
	repo     Repository
	sites    SiteAuthorizer
	triggers TriggerInstaller
	logger   *zerolog.Logger
}

func NewService(repo Repository, sites SiteAuthorizer, triggers TriggerInstaller, logger *zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		sites:    sites,
		triggers: triggers,
		logger:   logger,
	}
}

// CreateSchedule validates the rule before anything is written, stores the
// schedule and installs its trigger. A failed install removes the row again.
func (s *Service) CreateSchedule(ctx context.Context, cmd ScheduleCmd) (Schedule, Trigger, error) {
	if err := cmd.Rule.Validate(); err != nil {
		return Schedule{}, Trigger{}, err
	}
	if _, err := s.sites.GetSite(ctx, cmd.UserID, cmd.SiteID); err != nil {
		return Schedule{}, Trigger{}, err
	}

	sc, err := s.repo.Create(ctx, cmd)
	if err != nil {
		return Schedule{}, Trigger{}, err
	}

	trig, err := s.triggers.InstallOrUpdate(ctx, sc)
	if err != nil {
		if derr := s.repo.Delete(context.WithoutCancel(ctx), sc.ID); derr != nil {
			s.logger.Error().Err(derr).Int64("schedule_id", sc.ID).Msg("failed to roll back schedule after trigger install failure")
		}
		return Schedule{}, Trigger{}, err
	}

	s.logger.Info().
		Int64("schedule_id", sc.ID).
		Int64("site_id", sc.SiteID).
		Str("trigger_id", trig.ID.String()).
		Str("rule", sc.Rule.String()).
		Msg("schedule created")

	return sc, trig, nil
}

func (s *Service) GetSchedule(ctx context.Context, userID uuid.UUID, scheduleID int64) (Schedule, error) {
	return s.repo.GetForUser(ctx, userID, scheduleID)
}

func (s *Service) ListSchedules(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Schedule, error) {
	return s.repo.List(ctx, userID, limit, offset)
}

// UpdateSchedule replaces name, site and rule. The trigger keeps its id. A
// failed install restores the previous row.
func (s *Service) UpdateSchedule(ctx context.Context, scheduleID int64, cmd ScheduleCmd) (Schedule, Trigger, error) {
	if err := cmd.Rule.Validate(); err != nil {
		return Schedule{}, Trigger{}, err
	}

	current, err := s.repo.GetForUser(ctx, cmd.UserID, scheduleID)
	if err != nil {
		return Schedule{}, Trigger{}, err
	}
	if current.SiteID != cmd.SiteID {
		if _, err := s.sites.GetSite(ctx, cmd.UserID, cmd.SiteID); err != nil {
			return Schedule{}, Trigger{}, err
		}
	}

	sc, err := s.repo.Update(ctx, scheduleID, cmd)
	if err != nil {
		return Schedule{}, Trigger{}, err
	}

	trig, err := s.triggers.InstallOrUpdate(ctx, sc)
	if err != nil {
		// the running job still has the old cadence, so the row goes back to it
		prev := ScheduleCmd{UserID: cmd.UserID, Name: current.Name, SiteID: current.SiteID, Rule: current.Rule}
		if _, rerr := s.repo.Update(context.WithoutCancel(ctx), scheduleID, prev); rerr != nil {
			s.logger.Error().
				Err(rerr).
				Int64("schedule_id", scheduleID).
				Str("stored_rule", sc.Rule.String()).
				Str("running_rule", current.Rule.String()).
				Msg("schedule row and trigger diverged, restart reconciles")
		}
		return Schedule{}, Trigger{}, err
	}

	return sc, trig, nil
}

func (s *Service) DeleteSchedule(ctx context.Context, userID uuid.UUID, scheduleID int64) error {
	if _, err := s.repo.GetForUser(ctx, userID, scheduleID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, scheduleID); err != nil {
		return err
	}
	return s.triggers.Remove(ctx, scheduleID)
}

// ApplyByName creates the named schedule or updates it when it exists.
// Used by the seed importer.
func (s *Service) ApplyByName(ctx context.Context, cmd ScheduleCmd) (Schedule, Trigger, error) {
	const op string = "service.schedule.apply_by_name"

	existing, err := s.repo.GetByName(ctx, cmd.Name)
	switch {
	case err == nil:
		if _, err := s.repo.GetForUser(ctx, cmd.UserID, existing.ID); err != nil {
			if apperror.IsKind(err, apperror.NotFound) {
				return Schedule{}, Trigger{}, &apperror.Error{
					Kind:    apperror.Forbidden,
					Op:      op,
					Message: "schedule name is taken by another user",
				}
			}
			return Schedule{}, Trigger{}, err
		}
		return s.UpdateSchedule(ctx, existing.ID, cmd)
	case apperror.IsKind(err, apperror.NotFound):
		return s.CreateSchedule(ctx, cmd)
	default:
		return Schedule{}, Trigger{}, err
	}
}
