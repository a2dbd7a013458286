package result

import (
	"context"
	"net/http"

	middle "uptime-monitor/internals/middleware"
	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

type HistoryReader interface {
	ListHistory(ctx context.Context, userID uuid.UUID, q HistoryQuery) ([]HistoryEntry, error)
}

type Handler struct {
	history HistoryReader
}

func NewHandler(history HistoryReader) *Handler {
	return &Handler{history: history}
}

// /sites-history?limit=20&offset=0&site_id=3, newest first
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
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

	q := HistoryQuery{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("site_id"); raw != "" {
		id, err := utils.PathID(raw, "site_id")
		if err != nil {
			utils.FromAppError(w, reqID, err)
			return
		}
		q.SiteID = null.IntFrom(id)
	}

	entries, err := h.history.ListHistory(ctx, userID, q)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	resp := GetHistoryResponse{
		Limit:   limit,
		Offset:  offset,
		History: make([]HistoryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.History = append(resp.History, HistoryResponse{
			ID:           e.ID,
			CreatedAt:    e.CreatedAt,
			ResponseTime: e.ResponseTime,
			ResponseText: e.ResponseText,
			ResponseCode: e.ResponseCode,
			SiteURL:      e.SiteURL,
		})
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "", resp)
}
