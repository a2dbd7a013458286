package executor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"uptime-monitor/internals/modules/site"
	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/httpclient"
	"uptime-monitor/pkg/logger"

	"github.com/guregu/null/v5"
	"github.com/rabbitmq/amqp091-go"
)

type fakeSites map[int64]site.Site

func (f fakeSites) LoadSite(_ context.Context, id int64) (site.Site, error) {
	s, ok := f[id]
	if !ok {
		return site.Site{}, &apperror.Error{Kind: apperror.NotFound, Message: "site not found"}
	}
	return s, nil
}

type recordingPublisher struct {
	events []ResultEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, body []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	var ev ResultEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", err
	}
	p.events = append(p.events, ev)
	return "msg", nil
}

func newSite(id int64, url string) site.Site {
	return site.Site{
		ID:             id,
		URL:            url,
		Method:         site.MethodGet,
		ExpectedStatus: 200,
		Timeout:        2 * time.Second,
	}
}

func newTestExecutor(sites fakeSites, pub *recordingPublisher) *Executor {
	return NewExecutor(sites, pub, httpclient.NewHttpClient(httpclient.Options{}), 1<<20, logger.Nop())
}

func TestProbePass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Probe", "yes")
		io.WriteString(w, "Welcome to the site")
	}))
	defer srv.Close()

	s := newSite(1, srv.URL)
	s.ExpectedText = null.StringFrom("welcome")
	pub := &recordingPublisher{}

	ev, err := newTestExecutor(fakeSites{1: s}, pub).Probe(context.Background(), 1)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if ev.ResultCode != Pass {
		t.Fatalf("code = %s, want PASS", ev.ResultCode)
	}
	if !strings.Contains(ev.ResponseHeaders.String, "X-Probe: yes") {
		t.Fatalf("headers not in wire format: %q", ev.ResponseHeaders.String)
	}
	if len(pub.events) != 1 || pub.events[0].SiteID != 1 {
		t.Fatalf("published %d events, want exactly 1", len(pub.events))
	}
}

func TestProbeFailAndMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "maintenance")
	}))
	defer srv.Close()

	fail := newSite(1, srv.URL)
	mismatch := newSite(2, srv.URL)
	mismatch.ExpectedText = null.StringFrom("welcome")

	ex := newTestExecutor(fakeSites{1: fail, 2: mismatch}, &recordingPublisher{})

	ev, _ := ex.Probe(context.Background(), 1)
	if ev.ResultCode != Fail || ev.ResponseText.String != "maintenance" {
		t.Fatalf("got %s %q, want FAIL", ev.ResultCode, ev.ResponseText.String)
	}

	ev, _ = ex.Probe(context.Background(), 2)
	if ev.ResultCode != Mismatch {
		t.Fatalf("got %s, want MISMATCH", ev.ResultCode)
	}
}

func TestProbeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	s := newSite(1, srv.URL)
	s.Timeout = 200 * time.Millisecond

	ev, err := newTestExecutor(fakeSites{1: s}, &recordingPublisher{}).Probe(context.Background(), 1)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if ev.ResultCode != Timeout {
		t.Fatalf("code = %s, want TIMEOUT", ev.ResultCode)
	}
	if ev.ResponseTime < s.Timeout.Seconds() {
		t.Fatalf("response_time %.3f below timeout %.3f", ev.ResponseTime, s.Timeout.Seconds())
	}
	if ev.ResponseText.String == "" {
		t.Fatalf("timeout detail missing")
	}
}

func TestProbeConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ev, err := newTestExecutor(fakeSites{1: newSite(1, url)}, &recordingPublisher{}).Probe(context.Background(), 1)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if ev.ResultCode != Error {
		t.Fatalf("code = %s, want ERROR", ev.ResultCode)
	}
}

func TestProbeDoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/landing", http.StatusFound)
			return
		}
		io.WriteString(w, "landing")
	}))
	defer srv.Close()

	ev, _ := newTestExecutor(fakeSites{1: newSite(1, srv.URL)}, &recordingPublisher{}).Probe(context.Background(), 1)
	if ev.ResultCode != Fail {
		t.Fatalf("code = %s, want FAIL on 302", ev.ResultCode)
	}
}

func TestProbeBoundsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, strings.Repeat("a", 4096)+"needle")
	}))
	defer srv.Close()

	s := newSite(1, srv.URL)
	s.ExpectedText = null.StringFrom("needle")

	ex := NewExecutor(fakeSites{1: s}, &recordingPublisher{}, httpclient.NewHttpClient(httpclient.Options{}), 1024, logger.Nop())
	ev, _ := ex.Probe(context.Background(), 1)
	if ev.ResultCode != Mismatch {
		t.Fatalf("code = %s, want MISMATCH past the body limit", ev.ResultCode)
	}
}

func TestProbeMethodTable(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Method
	}))
	defer srv.Close()

	for _, m := range site.Methods {
		s := newSite(1, srv.URL)
		s.Method = m
		ev, _ := newTestExecutor(fakeSites{1: s}, &recordingPublisher{}).Probe(context.Background(), 1)
		if ev.ResultCode != Pass || got != string(m) {
			t.Fatalf("%s: code=%s server saw %q", m, ev.ResultCode, got)
		}
	}

	s := newSite(1, srv.URL)
	s.Method = "TRACE"
	got = ""
	ev, _ := newTestExecutor(fakeSites{1: s}, &recordingPublisher{}).Probe(context.Background(), 1)
	if ev.ResultCode != Error || got != "" {
		t.Fatalf("unknown method: code=%s, server saw %q", ev.ResultCode, got)
	}
}

func TestProbeSiteNotFound(t *testing.T) {
	pub := &recordingPublisher{}
	_, err := newTestExecutor(fakeSites{}, pub).Probe(context.Background(), 42)
	if !apperror.IsKind(err, apperror.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("event published for a missing site")
	}
}

func TestHandle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	body, _ := json.Marshal(ProbeRequest{SiteID: 1})

	// publish failure is absorbed so the request is acked
	pub := &recordingPublisher{err: errors.New("broker down")}
	ex := newTestExecutor(fakeSites{1: newSite(1, srv.URL)}, pub)
	if err := ex.Handle(context.Background(), amqp091.Delivery{Body: body}); err != nil {
		t.Fatalf("handle with publish failure: %v", err)
	}

	// missing site is reported so the delivery is dropped
	missing, _ := json.Marshal(ProbeRequest{SiteID: 9})
	if err := ex.Handle(context.Background(), amqp091.Delivery{Body: missing}); !apperror.IsKind(err, apperror.NotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := ex.Handle(context.Background(), amqp091.Delivery{Body: []byte("{")}); !apperror.IsKind(err, apperror.InvalidEvent) {
		t.Fatalf("expected invalid event, got %v", err)
	}
}

func TestBinaryBodyIsStorable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		io.WriteString(w, "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	}))
	defer srv.Close()

	pub := &recordingPublisher{}
	ev, err := newTestExecutor(fakeSites{1: newSite(1, srv.URL)}, pub).Probe(context.Background(), 1)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if ev.ResultCode != Pass {
		t.Fatalf("code = %s, want PASS", ev.ResultCode)
	}

	text := pub.events[0].ResponseText.String
	if strings.ContainsRune(text, 0) || !utf8.ValidString(text) {
		t.Fatalf("published text not storable: %q", text)
	}
	if !strings.Contains(text, "IHDR") {
		t.Fatalf("text lost printable content: %q", text)
	}
}

func TestBodyReadTimeoutDropsHeaders(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Probe", "yes")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	s := newSite(1, srv.URL)
	s.Timeout = 200 * time.Millisecond

	ev, err := newTestExecutor(fakeSites{1: s}, &recordingPublisher{}).Probe(context.Background(), 1)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if ev.ResultCode != Timeout {
		t.Fatalf("code = %s, want TIMEOUT", ev.ResultCode)
	}
	if ev.ResponseHeaders.Valid {
		t.Fatalf("headers present on a timeout: %q", ev.ResponseHeaders.String)
	}
	if ev.ResponseTime < s.Timeout.Seconds() {
		t.Fatalf("response_time %.3f below timeout %.3f", ev.ResponseTime, s.Timeout.Seconds())
	}
}
