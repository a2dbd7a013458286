package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"uptime-monitor/config"
	"uptime-monitor/internals/modules/executor"
	"uptime-monitor/internals/modules/schedule"
	"uptime-monitor/pkg/apperror"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TriggerStore is the durable trigger table. Upsert keeps the stored id when
// a trigger for the schedule already exists.
type TriggerStore interface {
	Upsert(ctx context.Context, t schedule.Trigger) (schedule.Trigger, error)
	DeleteBySchedule(ctx context.Context, scheduleID int64) error
	DeleteBySite(ctx context.Context, siteID int64) error
	List(ctx context.Context) ([]schedule.Trigger, error)
}

type ProbeDispatcher interface {
	DispatchProbe(ctx context.Context, req executor.ProbeRequest) error
}

// Scheduler owns one gocron job per trigger. Mutations are serialized;
// firing is not.
type Scheduler struct {
	mu              sync.Mutex
	cron            gocron.Scheduler
	store           TriggerStore
	dispatcher      ProbeDispatcher
	dispatchTimeout time.Duration
	logger          *zerolog.Logger
}

func NewScheduler(store TriggerStore, dispatcher ProbeDispatcher, cfg *config.SchedulerConfig, logger *zerolog.Logger) (*Scheduler, error) {
	l := logger.With().Str("component", "scheduler").Logger()

	cron, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(newCronLogger(&l)),
		gocron.WithStopTimeout(cfg.StopTimeout),
	)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron:            cron,
		store:           store,
		dispatcher:      dispatcher,
		dispatchTimeout: cfg.DispatchTimeout,
		logger:          &l,
	}, nil
}

func scheduleTag(id int64) string { return fmt.Sprintf("schedule:%d", id) }
func siteTag(id int64) string     { return fmt.Sprintf("site:%d", id) }

// InstallOrUpdate validates the rule, records the trigger and creates or
// reschedules its job. The job id equals the trigger id and is stable
// across updates.
func (s *Scheduler) InstallOrUpdate(ctx context.Context, sc schedule.Schedule) (schedule.Trigger, error) {
	const op string = "scheduler.install_or_update"

	if err := sc.Rule.Validate(); err != nil {
		return schedule.Trigger{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trig, err := s.store.Upsert(ctx, schedule.Trigger{
		ID:         uuid.New(),
		ScheduleID: sc.ID,
		SiteID:     sc.SiteID,
		Rule:       sc.Rule,
	})
	if err != nil {
		return schedule.Trigger{}, err
	}

	if err := s.apply(trig); err != nil {
		return schedule.Trigger{}, apperror.New(apperror.Internal, op, err).WithMessage("failed to install trigger")
	}

	s.logger.Info().
		Int64("schedule_id", trig.ScheduleID).
		Int64("site_id", trig.SiteID).
		Str("trigger_id", trig.ID.String()).
		Str("rule", trig.Rule.String()).
		Msg("trigger installed")

	return trig, nil
}

// Remove drops the trigger of a schedule. Removing a missing trigger is not
// an error.
func (s *Scheduler) Remove(ctx context.Context, scheduleID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteBySchedule(ctx, scheduleID); err != nil {
		return err
	}
	n, err := s.removeTagged(scheduleTag(scheduleID))
	if err != nil {
		return apperror.New(apperror.Internal, "scheduler.remove", err)
	}

	s.logger.Info().Int64("schedule_id", scheduleID).Int("jobs", n).Msg("trigger removed")
	return nil
}

// RemoveSite drops every trigger of a site.
func (s *Scheduler) RemoveSite(ctx context.Context, siteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteBySite(ctx, siteID); err != nil {
		return err
	}
	n, err := s.removeTagged(siteTag(siteID))
	if err != nil {
		return apperror.New(apperror.Internal, "scheduler.remove_site", err)
	}

	s.logger.Info().Int64("site_id", siteID).Int("jobs", n).Msg("site triggers removed")
	return nil
}

// Reconcile makes the job set equal to the trigger table.
func (s *Scheduler) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	triggers, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	want := make(map[uuid.UUID]struct{}, len(triggers))
	for _, t := range triggers {
		if err := t.Rule.Validate(); err != nil {
			s.logger.Error().Err(err).Int64("schedule_id", t.ScheduleID).Msg("stored trigger has an invalid rule, skipping")
			continue
		}
		if err := s.apply(t); err != nil {
			s.logger.Error().Err(err).Int64("schedule_id", t.ScheduleID).Msg("failed to install stored trigger")
			continue
		}
		want[t.ID] = struct{}{}
	}

	dropped := 0
	for _, j := range s.cron.Jobs() {
		if _, ok := want[j.ID()]; ok {
			continue
		}
		if err := s.cron.RemoveJob(j.ID()); err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
			return err
		}
		dropped++
	}

	s.logger.Info().Int("installed", len(want)).Int("dropped", dropped).Msg("triggers reconciled")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.cron.Shutdown()
}

// apply must be called with mu held.
func (s *Scheduler) apply(t schedule.Trigger) error {
	def := definition(t.Rule)
	task := gocron.NewTask(s.fire, t)
	opts := []gocron.JobOption{
		gocron.WithName(fmt.Sprintf("schedule-%d", t.ScheduleID)),
		gocron.WithTags(scheduleTag(t.ScheduleID), siteTag(t.SiteID)),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithError(func(jobID uuid.UUID, jobName string, err error) {
				s.logger.Error().Err(err).Str("job", jobName).Str("trigger_id", jobID.String()).Msg("trigger dispatch failed")
			}),
		),
	}

	if s.hasJob(t.ID) {
		_, err := s.cron.Update(t.ID, def, task, opts...)
		return err
	}

	opts = append(opts, gocron.WithIdentifier(t.ID))
	_, err := s.cron.NewJob(def, task, opts...)
	return err
}

func (s *Scheduler) hasJob(id uuid.UUID) bool {
	for _, j := range s.cron.Jobs() {
		if j.ID() == id {
			return true
		}
	}
	return false
}

func (s *Scheduler) removeTagged(tag string) (int, error) {
	n := 0
	for _, j := range s.cron.Jobs() {
		if !slices.Contains(j.Tags(), tag) {
			continue
		}
		if err := s.cron.RemoveJob(j.ID()); err != nil && !errors.Is(err, gocron.ErrJobNotFound) {
			return n, err
		}
		n++
	}
	return n, nil
}

// fire runs on the gocron goroutine and only publishes.
func (s *Scheduler) fire(t schedule.Trigger) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
	defer cancel()

	return s.dispatcher.DispatchProbe(ctx, executor.ProbeRequest{
		SiteID:     t.SiteID,
		ScheduleID: t.ScheduleID,
		TriggerID:  t.ID,
		FiredAt:    time.Now().UTC(),
	})
}

func definition(rule schedule.Recurrence) gocron.JobDefinition {
	if rule.IsCron() {
		return gocron.CronJob(rule.Cron, false)
	}
	return gocron.DurationJob(rule.Interval.Duration())
}
