package result

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	middle "uptime-monitor/internals/middleware"
	"uptime-monitor/internals/security"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

type fakeHistory struct {
	got     HistoryQuery
	entries []HistoryEntry
}

func (f *fakeHistory) ListHistory(_ context.Context, _ uuid.UUID, q HistoryQuery) ([]HistoryEntry, error) {
	f.got = q
	return f.entries, nil
}

func TestGetHistoryProjection(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	hist := &fakeHistory{entries: []HistoryEntry{{
		ID: 11, CreatedAt: created, ResponseTime: 0.25,
		ResponseText: null.StringFrom("ok"), ResponseCode: "PASS", SiteURL: "https://example.com",
	}}}

	req := httptest.NewRequest(http.MethodGet, "/?limit=5&site_id=3", nil)
	req = req.WithContext(middle.WithClaims(req.Context(), &security.RequestClaims{UserID: uuid.NewString(), Email: "a@b.c"}))
	rec := httptest.NewRecorder()

	Routes(NewHandler(hist)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if hist.got.Limit != 5 || !hist.got.SiteID.Valid || hist.got.SiteID.Int64 != 3 {
		t.Fatalf("query = %+v", hist.got)
	}

	var body struct {
		Data struct {
			History []map[string]any `json:"history"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.History) != 1 {
		t.Fatalf("history len = %d", len(body.Data.History))
	}

	entry := body.Data.History[0]
	for _, k := range []string{"id", "created_at", "response_time", "response_text", "response_code", "site_url"} {
		if _, ok := entry[k]; !ok {
			t.Errorf("missing %q", k)
		}
	}
	for _, k := range []string{"response_headers", "site_id"} {
		if _, ok := entry[k]; ok {
			t.Errorf("%q must not be exposed", k)
		}
	}
}

func TestGetHistoryRejectsBadSiteFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?site_id=abc", nil)
	req = req.WithContext(middle.WithClaims(req.Context(), &security.RequestClaims{UserID: uuid.NewString(), Email: "a@b.c"}))
	rec := httptest.NewRecorder()

	Routes(NewHandler(&fakeHistory{})).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
