package schedule

import "time"

type IntervalRequest struct {
	Every int    `json:"every" validate:"required,gte=1,lte=999"`
	Unit  string `json:"unit" validate:"required,oneof=seconds minutes hours days weeks"`
}

type ScheduleRequest struct {
	Name     string           `json:"name" validate:"required,max=64"`
	SiteID   int64            `json:"site_id" validate:"required,gt=0"`
	Cron     string           `json:"cron" validate:"max=64"`
	Interval *IntervalRequest `json:"interval" validate:"omitempty"`
}

func (r ScheduleRequest) rule() Recurrence {
	if r.Interval != nil {
		return Recurrence{
			Cron:     r.Cron,
			Interval: &Interval{Every: r.Interval.Every, Unit: IntervalUnit(r.Interval.Unit)},
		}
	}
	return Recurrence{Cron: r.Cron}
}

type IntervalResponse struct {
	Every int    `json:"every"`
	Unit  string `json:"unit"`
}

type GetScheduleResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	SiteID    int64             `json:"site_id"`
	Cron      string            `json:"cron,omitempty"`
	Interval  *IntervalResponse `json:"interval,omitempty"`
	TriggerID string            `json:"trigger_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type GetAllSchedulesResponse struct {
	Limit     int32                 `json:"limit"`
	Offset    int32                 `json:"offset"`
	Schedules []GetScheduleResponse `json:"schedules"`
}

func toResponse(s Schedule) GetScheduleResponse {
	resp := GetScheduleResponse{
		ID:        s.ID,
		Name:      s.Name,
		SiteID:    s.SiteID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Rule.IsCron() {
		resp.Cron = s.Rule.Cron
	} else {
		resp.Interval = &IntervalResponse{Every: s.Rule.Interval.Every, Unit: string(s.Rule.Interval.Unit)}
	}
	return resp
}
