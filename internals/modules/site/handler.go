package site

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	middle "uptime-monitor/internals/middleware"
	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

type SiteService interface {
	CreateSite(ctx context.Context, cmd SiteCmd) (Site, error)
	GetSite(ctx context.Context, userID uuid.UUID, siteID int64) (Site, error)
	ListSites(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Site, error)
	UpdateSite(ctx context.Context, siteID int64, cmd SiteCmd) (Site, error)
	DeleteSite(ctx context.Context, userID uuid.UUID, siteID int64) error
	GetStatus(ctx context.Context, userID uuid.UUID, siteID int64) (SiteStatusResponse, error)
}

type Handler struct {
	service   SiteService
	validator *validator.Validate
}

func NewHandler(service SiteService, validator *validator.Validate) *Handler {
	return &Handler{
		service:   service,
		validator: validator,
	}
}

func (h *Handler) CreateSite(w http.ResponseWriter, r *http.Request) {
	const op string = "handler.site.create_site"
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	userID, ok := middle.UserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}

	cmd, err := h.decode(r, op, userID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	s, err := h.service.CreateSite(ctx, cmd)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, reqID, "site created", toResponse(s))
}

func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	userID, ok := middle.UserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}
	siteID, err := utils.PathID(chi.URLParam(r, "siteID"), "site_id")
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	s, err := h.service.GetSite(ctx, userID, siteID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "site retrieved", toResponse(s))
}

// /sites?offset=3&limit=10
func (h *Handler) GetAllSites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	userID, ok := middle.UserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}
	limit, offset, err := utils.Pagination(r)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	sites, err := h.service.ListSites(ctx, userID, limit, offset)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	resp := GetAllSitesResponse{
		Limit:  limit,
		Offset: offset,
		Sites:  make([]GetSiteResponse, 0, len(sites)),
	}
	for i := range sites {
		resp.Sites = append(resp.Sites, toResponse(sites[i]))
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "", resp)
}

func (h *Handler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	const op string = "handler.site.update_site"
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	userID, ok := middle.UserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}
	siteID, err := utils.PathID(chi.URLParam(r, "siteID"), "site_id")
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	cmd, err := h.decode(r, op, userID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	s, err := h.service.UpdateSite(ctx, siteID, cmd)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "site updated", toResponse(s))
}

func (h *Handler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	userID, ok := middle.UserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}
	siteID, err := utils.PathID(chi.URLParam(r, "siteID"), "site_id")
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	if err := h.service.DeleteSite(ctx, userID, siteID); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON[any](w, http.StatusOK, reqID, "site deleted", nil)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	userID, ok := middle.UserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}
	siteID, err := utils.PathID(chi.URLParam(r, "siteID"), "site_id")
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	st, err := h.service.GetStatus(ctx, userID, siteID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "", st)
}

func (h *Handler) decode(r *http.Request, op string, userID uuid.UUID) (SiteCmd, error) {
	var req SiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return SiteCmd{}, apperror.New(apperror.InvalidInput, op, err).WithMessage("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return SiteCmd{}, utils.ValidationError(op, err)
	}

	return SiteCmd{
		UserID:         userID,
		URL:            req.URL,
		Method:         Method(req.Method),
		ExpectedStatus: req.ExpectedStatus,
		ExpectedText:   null.NewString(req.ExpectedText, req.ExpectedText != ""),
		HostedAt:       null.NewString(req.HostedAt, req.HostedAt != ""),
		Timeout:        time.Duration(req.TimeoutSec) * time.Second,
	}, nil
}
