package schedule

import (
	"context"
	"encoding/json"
	"net/http"

	middle "uptime-monitor/internals/middleware"
	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, cmd ScheduleCmd) (Schedule, Trigger, error)
	GetSchedule(ctx context.Context, userID uuid.UUID, scheduleID int64) (Schedule, error)
	ListSchedules(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]Schedule, error)
	UpdateSchedule(ctx context.Context, scheduleID int64, cmd ScheduleCmd) (Schedule, Trigger, error)
	DeleteSchedule(ctx context.Context, userID uuid.UUID, scheduleID int64) error
}

type Handler struct {
	service   ScheduleService
	validator *validator.Validate
}

func NewHandler(service ScheduleService, validator *validator.Validate) *Handler {
	return &Handler{
		service:   service,
		validator: validator,
	}
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	const op string = "handler.schedule.create_schedule"
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

	sc, trig, err := h.service.CreateSchedule(ctx, cmd)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	resp := toResponse(sc)
	resp.TriggerID = trig.ID.String()
	utils.WriteJSON(w, http.StatusCreated, reqID, "schedule created", resp)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	userID, ok := middle.UserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}
	scheduleID, err := utils.PathID(chi.URLParam(r, "scheduleID"), "schedule_id")
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	sc, err := h.service.GetSchedule(ctx, userID, scheduleID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "schedule retrieved", toResponse(sc))
}

func (h *Handler) GetAllSchedules(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.service.ListSchedules(ctx, userID, limit, offset)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	resp := GetAllSchedulesResponse{
		Limit:     limit,
		Offset:    offset,
		Schedules: make([]GetScheduleResponse, 0, len(items)),
	}
	for i := range items {
		resp.Schedules = append(resp.Schedules, toResponse(items[i]))
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "", resp)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	const op string = "handler.schedule.update_schedule"
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	userID, ok := middle.UserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}
	scheduleID, err := utils.PathID(chi.URLParam(r, "scheduleID"), "schedule_id")
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	cmd, err := h.decode(r, op, userID)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	sc, trig, err := h.service.UpdateSchedule(ctx, scheduleID, cmd)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	resp := toResponse(sc)
	resp.TriggerID = trig.ID.String()
	utils.WriteJSON(w, http.StatusOK, reqID, "schedule updated", resp)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	userID, ok := middle.UserIDFromContext(ctx)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "")
		return
	}
	scheduleID, err := utils.PathID(chi.URLParam(r, "scheduleID"), "schedule_id")
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	if err := h.service.DeleteSchedule(ctx, userID, scheduleID); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON[any](w, http.StatusOK, reqID, "schedule deleted", nil)
}

func (h *Handler) decode(r *http.Request, op string, userID uuid.UUID) (ScheduleCmd, error) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ScheduleCmd{}, apperror.New(apperror.InvalidInput, op, err).WithMessage("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return ScheduleCmd{}, utils.ValidationError(op, err)
	}

	return ScheduleCmd{
		UserID: userID,
		Name:   req.Name,
		SiteID: req.SiteID,
		Rule:   req.rule(),
	}, nil
}
