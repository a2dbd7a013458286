package site

import (
	"time"

	"github.com/guregu/null/v5"
)

type SiteRequest struct {
	URL            string `json:"url" validate:"required,http_url,max=200"`
	Method         string `json:"method" validate:"omitempty,oneof=GET HEAD POST PUT PATCH DELETE OPTIONS"`
	ExpectedStatus int    `json:"expected_status" validate:"omitempty,gte=100,lte=599"`
	ExpectedText   string `json:"expected_text" validate:"max=128"`
	HostedAt       string `json:"hosted_at" validate:"max=128"`
	TimeoutSec     int    `json:"timeout_sec" validate:"omitempty,gte=1,lte=60"`
}

type GetSiteResponse struct {
	ID             int64       `json:"id"`
	URL            string      `json:"url"`
	Method         string      `json:"method"`
	ExpectedStatus int         `json:"expected_status"`
	ExpectedText   null.String `json:"expected_text"`
	HostedAt       null.String `json:"hosted_at"`
	TimeoutSec     int         `json:"timeout_sec"`
	LastCheckedAt  null.Time   `json:"last_checked_at"`
	CreatedAt      time.Time   `json:"created_at"`
}

type GetAllSitesResponse struct {
	Limit  int32             `json:"limit"`
	Offset int32             `json:"offset"`
	Sites  []GetSiteResponse `json:"sites"`
}

type SiteStatusResponse struct {
	SiteID       int64     `json:"site_id"`
	ResultCode   string    `json:"result_code"`
	ResponseTime float64   `json:"response_time"`
	CheckedAt    time.Time `json:"checked_at"`
}

func toResponse(s Site) GetSiteResponse {
	return GetSiteResponse{
		ID:             s.ID,
		URL:            s.URL,
		Method:         string(s.Method),
		ExpectedStatus: s.ExpectedStatus,
		ExpectedText:   s.ExpectedText,
		HostedAt:       s.HostedAt,
		TimeoutSec:     int(s.Timeout / time.Second),
		LastCheckedAt:  s.LastCheckedAt,
		CreatedAt:      s.CreatedAt,
	}
}
