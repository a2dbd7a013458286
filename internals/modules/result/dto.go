package result

import (
	"time"

	"github.com/guregu/null/v5"
)

type HistoryResponse struct {
	ID           int64       `json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	ResponseTime float64     `json:"response_time"`
	ResponseText null.String `json:"response_text"`
	ResponseCode string      `json:"response_code"`
	SiteURL      string      `json:"site_url"`
}

type GetHistoryResponse struct {
	Limit   int32             `json:"limit"`
	Offset  int32             `json:"offset"`
	History []HistoryResponse `json:"history"`
}
