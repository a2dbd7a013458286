package middle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerLevels(t *testing.T) {
	cases := []struct {
		path   string
		status int
		level  string
	}{
		{"/api/v1/sites", http.StatusOK, "info"},
		{"/api/v1/sites", http.StatusNotFound, "warn"},
		{"/api/v1/sites", http.StatusBadGateway, "error"},
		{"/healthz", http.StatusOK, "debug"},
	}

	for _, c := range cases {
		var buf bytes.Buffer
		log := zerolog.New(&buf).Level(zerolog.DebugLevel)

		h := Logger(&log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, c.path, nil))

		var line map[string]any
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("%s %d: bad log line %q", c.path, c.status, buf.String())
		}
		if line["level"] != c.level || line["status"] != float64(c.status) {
			t.Errorf("%s %d: got level=%v status=%v", c.path, c.status, line["level"], line["status"])
		}
	}
}
