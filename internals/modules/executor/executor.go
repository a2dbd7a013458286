package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"uptime-monitor/internals/modules/site"
	"uptime-monitor/pkg/apperror"

	"github.com/guregu/null/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type SiteLoader interface {
	LoadSite(ctx context.Context, siteID int64) (site.Site, error)
}

type Publisher interface {
	Publish(ctx context.Context, body []byte) (string, error)
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const defaultMaxBodyBytes = 1 << 20

const maxHeaderLength = 16 << 10

// Executor probes sites and publishes one ResultEvent per probe.
type Executor struct {
	sites        SiteLoader
	publisher    Publisher
	httpClient   HTTPDoer
	maxBodyBytes int64
	logger       *zerolog.Logger
}

func NewExecutor(sites SiteLoader, publisher Publisher, httpClient HTTPDoer, maxBodyBytes int64, logger *zerolog.Logger) *Executor {
	l := logger.With().Str("component", "executor").Logger()
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Executor{
		sites:        sites,
		publisher:    publisher,
		httpClient:   httpClient,
		maxBodyBytes: maxBodyBytes,
		logger:       &l,
	}
}

// Handle consumes one ProbeRequest delivery.
func (e *Executor) Handle(ctx context.Context, msg amqp091.Delivery) error {
	const op string = "executor.handle"

	var req ProbeRequest
	if err := json.Unmarshal(msg.Body, &req); err != nil || req.SiteID <= 0 {
		e.logger.Error().Err(err).Bytes("payload", msg.Body).Msg("malformed probe request")
		return apperror.New(apperror.InvalidEvent, op, err).WithMessage("malformed probe request")
	}

	_, err := e.Probe(ctx, req.SiteID)
	if apperror.IsKind(err, apperror.PublishFailed) {
		// degraded: the result is lost, the request is still done
		return nil
	}
	return err
}

// Probe loads the site fresh, checks it and publishes the outcome.
func (e *Executor) Probe(ctx context.Context, siteID int64) (ResultEvent, error) {
	const op string = "executor.probe"

	st, err := e.sites.LoadSite(ctx, siteID)
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			e.logger.Warn().Int64("site_id", siteID).Msg("site not found, probe skipped")
			return ResultEvent{}, apperror.New(apperror.NotFound, op, err).WithMessage("site not found")
		}
		e.logger.Error().Err(err).Int64("site_id", siteID).Msg("failed to load site")
		return ResultEvent{}, err
	}

	ev := e.check(ctx, st)

	body, err := json.Marshal(ev)
	if err != nil {
		return ev, apperror.New(apperror.Internal, op, err)
	}

	msgID, err := e.publisher.Publish(ctx, body)
	if err != nil {
		e.logger.Error().
			Err(err).
			Int64("site_id", ev.SiteID).
			Str("result_code", string(ev.ResultCode)).
			Float64("response_time", ev.ResponseTime).
			RawJSON("event", body).
			Msg("failed to publish result event")
		return ev, apperror.New(apperror.PublishFailed, op, err).WithMessage("failed to publish result event")
	}

	e.logger.Debug().
		Int64("site_id", ev.SiteID).
		Str("result_code", string(ev.ResultCode)).
		Float64("response_time", ev.ResponseTime).
		Str("message_id", msgID).
		Msg("probe completed")

	return ev, nil
}

// check never fails: transport problems become TIMEOUT or ERROR results.
func (e *Executor) check(ctx context.Context, st site.Site) ResultEvent {
	ev := ResultEvent{SiteID: st.ID}
	start := time.Now()

	build, ok := builderFor(st.Method)
	if !ok {
		ev.ResultCode = Error
		ev.ResponseText = null.StringFrom(fmt.Sprintf("unsupported http method %q", st.Method))
		ev.ResponseTime = time.Since(start).Seconds()
		return ev
	}

	timeout := st.Timeout
	if timeout <= 0 {
		timeout = site.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := build(ctx, st.URL)
	if err != nil {
		return e.failed(ev, start, err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return e.failed(ev, start, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes))
	if err != nil {
		return e.failed(ev, start, err)
	}
	ev.ResponseTime = time.Since(start).Seconds()

	// headers only accompany an evaluated response
	var headers strings.Builder
	_ = resp.Header.Write(&headers)
	ev.ResponseHeaders = null.NewString(Truncate(headers.String(), maxHeaderLength), headers.Len() > 0)

	code, detail := Evaluate(Response{StatusCode: resp.StatusCode, Body: string(raw)}, st.ExpectedStatus, st.ExpectedText.String)
	ev.ResultCode = code
	ev.ResponseText = null.StringFrom(detail)

	if code != Pass {
		e.logger.Warn().
			Int64("site_id", st.ID).
			Str("url", st.URL).
			Str("result_code", string(code)).
			Int("status", resp.StatusCode).
			Int("expected_status", st.ExpectedStatus).
			Msg("site check did not pass")
	}
	return ev
}

func (e *Executor) failed(ev ResultEvent, start time.Time, err error) ResultEvent {
	ev.ResponseHeaders = null.String{}
	ev.ResponseTime = time.Since(start).Seconds()
	ev.ResultCode = classify(err)
	ev.ResponseText = null.StringFrom(Truncate(err.Error(), MaxDetailLength))
	return ev
}

func classify(err error) ResultCode {
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Timeout
	}
	return Error
}
