package httpclient

import (
	"net"
	"net/http"
	"time"
)

// Options tune the shared probe client.
type Options struct {
	UserAgent           string
	MaxIdleConnsPerHost int
}

// NewHttpClient returns the shared probe client. It has no overall timeout:
// each probe is bounded by its site's own deadline. Redirects are returned
// as-is so the site's own response is what gets evaluated.
func NewHttpClient(opts Options) *http.Client {
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = 8
	}

	// dial and handshake are bounded only by the caller's context, so a
	// probe's deadline is exactly its site's timeout
	dialer := &net.Dialer{
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: time.Second,
		MaxIdleConnsPerHost:   opts.MaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		// the body is read through a limiter, compression would hide its size
		DisableCompression: true,
	}

	var rt http.RoundTripper = transport
	if opts.UserAgent != "" {
		rt = userAgent{next: transport, value: opts.UserAgent}
	}

	return &http.Client{
		Transport: rt,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// userAgent sets the header on requests that have none.
type userAgent struct {
	next  http.RoundTripper
	value string
}

func (u userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", u.value)
	return u.next.RoundTrip(r)
}
