package site

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateSite)
	r.Get("/", h.GetAllSites)
	r.Get("/{siteID}", h.GetSite)
	r.Put("/{siteID}", h.UpdateSite)
	r.Delete("/{siteID}", h.DeleteSite)
	r.Get("/{siteID}/status", h.GetStatus)

	return r
}

/*
- POST: /sites  -> create site
	req auth : true
	body : SiteRequest
	resp : GetSiteResponse

- GET: /sites?offset={}&limit={}   -> list the caller's sites
	resp : GetAllSitesResponse

- GET: /sites/{siteID} -> site details
	resp : GetSiteResponse

- PUT: /sites/{siteID} -> replace site settings
	body : SiteRequest
	resp : GetSiteResponse

- DELETE: /sites/{siteID} -> delete site, its schedules and history

- GET: /sites/{siteID}/status -> latest recorded outcome
	resp : SiteStatusResponse
*/
