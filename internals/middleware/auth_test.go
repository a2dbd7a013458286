package middle

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"uptime-monitor/internals/security"
	"uptime-monitor/pkg/apperror"

	"github.com/google/uuid"
)

type fakeValidator struct {
	claims *security.RequestClaims
	err    error
}

func (f fakeValidator) ValidateAccessToken(string) (*security.RequestClaims, error) {
	return f.claims, f.err
}

func TestAuthMiddleware(t *testing.T) {
	uid := uuid.New()

	cases := []struct {
		name   string
		header string
		v      fakeValidator
		want   int
	}{
		{"missing header", "", fakeValidator{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fakeValidator{}, http.StatusUnauthorized},
		{"invalid token", "Bearer abc", fakeValidator{err: &apperror.Error{Kind: apperror.Unauthorised}}, http.StatusUnauthorized},
		{"valid", "Bearer abc", fakeValidator{claims: &security.RequestClaims{UserID: uid.String(), Email: "a@b.c"}}, http.StatusOK},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var gotID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rec := httptest.NewRecorder()

			NewAuthMiddleware(c.v).Handle(next).ServeHTTP(rec, req)

			if rec.Code != c.want {
				t.Fatalf("status = %d, want %d", rec.Code, c.want)
			}
			if c.want == http.StatusOK && gotID != uid {
				t.Fatalf("user id = %v, want %v", gotID, uid)
			}
		})
	}
}
