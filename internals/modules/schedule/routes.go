package schedule

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateSchedule)
	r.Get("/", h.GetAllSchedules)
	r.Get("/{scheduleID}", h.GetSchedule)
	r.Put("/{scheduleID}", h.UpdateSchedule)
	r.Delete("/{scheduleID}", h.DeleteSchedule)

	return r
}

/*
- POST: /schedule-items -> create schedule and install its trigger
	body : ScheduleRequest (cron or interval)
	resp : GetScheduleResponse
	403 when the site belongs to another user

- GET: /schedule-items?offset={}&limit={}
	resp : GetAllSchedulesResponse

- GET: /schedule-items/{scheduleID}
- PUT: /schedule-items/{scheduleID} -> replace rule, trigger id kept
- DELETE: /schedule-items/{scheduleID} -> delete schedule and its trigger
*/
