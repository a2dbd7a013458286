package executor

import (
	"context"
	"net/http"

	"uptime-monitor/internals/modules/site"
)

type requestBuilder func(ctx context.Context, url string) (*http.Request, error)

func bodiless(method string) requestBuilder {
	return func(ctx context.Context, url string) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, method, url, http.NoBody)
	}
}

// methodTable is the only way a site's method becomes a request.
var methodTable = map[site.Method]requestBuilder{
	site.MethodGet:     bodiless(http.MethodGet),
	site.MethodHead:    bodiless(http.MethodHead),
	site.MethodPost:    bodiless(http.MethodPost),
	site.MethodPut:     bodiless(http.MethodPut),
	site.MethodPatch:   bodiless(http.MethodPatch),
	site.MethodDelete:  bodiless(http.MethodDelete),
	site.MethodOptions: bodiless(http.MethodOptions),
}

func builderFor(m site.Method) (requestBuilder, bool) {
	b, ok := methodTable[m]
	return b, ok
}
