package result

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetHistory)

	return r
}

/*
- GET: /sites-history?offset={}&limit={}&site_id={}  -> probe results, newest first
	req auth : true
	resp : GetHistoryResponse (no headers, sites identified by url)
*/
