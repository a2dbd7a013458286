package site

import (
	"context"

	"uptime-monitor/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Repository interface {
	Create(ctx context.Context, cmd SiteCmd) (Site, error)
	GetByID(ctx context.Context, siteID int64) (Site, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Site, error)
	Update(ctx context.Context, siteID int64, cmd SiteCmd) (Site, error)
	Delete(ctx context.Context, userID uuid.UUID, siteID int64) error
}

type Service struct {
	repo     Repository
	cache    StatusCache
	triggers TriggerRemover
	logger   *zerolog.Logger
}

func NewService(repo Repository, cache StatusCache, triggers TriggerRemover, logger *zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		triggers: triggers,
		logger:   logger,
	}
}

func (s *Service) CreateSite(ctx context.Context, cmd SiteCmd) (Site, error) {
	return s.repo.Create(ctx, cmd.withDefaults())
}

// GetSite returns the site if userID owns it.
func (s *Service) GetSite(ctx context.Context, userID uuid.UUID, siteID int64) (Site, error) {
	const op string = "service.site.get_site"

	st, err := s.repo.GetByID(ctx, siteID)
	if err != nil {
		return Site{}, err
	}
	if st.UserID != userID {
		return Site{}, &apperror.Error{
			Kind:    apperror.Forbidden,
			Op:      op,
			Message: "site belongs to another user",
		}
	}
	return st, nil
}

// LoadSite reads the site fresh from the store, without an owner check.
// Used by the prober on every run.
func (s *Service) LoadSite(ctx context.Context, siteID int64) (Site, error) {
	return s.repo.GetByID(ctx, siteID)
}

func (s *Service) ListSites(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Site, error) {
	return s.repo.List(ctx, userID, limit, offset)
}

func (s *Service) UpdateSite(ctx context.Context, siteID int64, cmd SiteCmd) (Site, error) {
	if _, err := s.GetSite(ctx, cmd.UserID, siteID); err != nil {
		return Site{}, err
	}
	return s.repo.Update(ctx, siteID, cmd.withDefaults())
}

// DeleteSite removes the site; schedules, triggers and history cascade in the
// store and the in-memory jobs are dropped afterwards.
func (s *Service) DeleteSite(ctx context.Context, userID uuid.UUID, siteID int64) error {
	if _, err := s.GetSite(ctx, userID, siteID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, siteID); err != nil {
		return err
	}

	if err := s.triggers.RemoveSite(ctx, siteID); err != nil {
		s.logger.Error().Err(err).Int64("site_id", siteID).Msg("failed to remove site triggers")
		return err
	}
	if err := s.cache.DelStatus(ctx, siteID); err != nil {
		s.logger.Warn().Err(err).Int64("site_id", siteID).Msg("failed to clear site status")
	}
	return nil
}

func (s *Service) GetStatus(ctx context.Context, userID uuid.UUID, siteID int64) (SiteStatusResponse, error) {
	const op string = "service.site.get_status"

	if _, err := s.GetSite(ctx, userID, siteID); err != nil {
		return SiteStatusResponse{}, err
	}

	st, err := s.cache.GetStatus(ctx, siteID)
	if err != nil {
		return SiteStatusResponse{}, apperror.New(apperror.Dependency, op, err).WithMessage("status unavailable")
	}
	if st == nil {
		return SiteStatusResponse{}, &apperror.Error{
			Kind:    apperror.NotFound,
			Op:      op,
			Message: "site has not been checked yet",
		}
	}

	return SiteStatusResponse{
		SiteID:       siteID,
		ResultCode:   st.ResultCode,
		ResponseTime: st.ResponseTime,
		CheckedAt:    st.CheckedAt,
	}, nil
}
