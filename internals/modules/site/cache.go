package site

import (
	"context"

	"uptime-monitor/pkg/redisstore"
)

type StatusCache interface {
	GetStatus(ctx context.Context, siteID int64) (*redisstore.SiteStatus, error)
	DelStatus(ctx context.Context, siteID int64) error
}

// TriggerRemover drops every recurring trigger of a site.
type TriggerRemover interface {
	RemoveSite(ctx context.Context, siteID int64) error
}
