package middle

/**
- Work of this file -> Auth package:
	- Validates token
	- Creates claims
	- Stores claims in context
	- Exposes helpers to retrieve claims
**/

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"uptime-monitor/internals/security"
	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type userCtxKeyType struct{}

var userCtxKey = userCtxKeyType{}

type TokenValidator interface {
	ValidateAccessToken(accessToken string) (*security.RequestClaims, error)
}

type AuthMiddleware struct {
	tokenSvc TokenValidator
}

func NewAuthMiddleware(tokenSvc TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: tokenSvc,
	}
}

func (a *AuthMiddleware) Handle(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())

		token, err := a.extractBearerToken(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, err.Error())
			return
		}

		claims, err := a.tokenSvc.ValidateAccessToken(token)
		if err != nil {
			utils.FromAppError(w, reqID, err)
			return
		}

		if claims.UserID == "" || claims.Email == "" {
			utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, "user is unauthorised")
			return
		}

		ctx := WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

func (*AuthMiddleware) extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")

	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid Authorization header")
	}

	return parts[1], nil
}

// WithClaims stores claims on ctx the way Handle does.
func WithClaims(ctx context.Context, claims *security.RequestClaims) context.Context {
	return context.WithValue(ctx, userCtxKey, claims)
}

func UserFromContext(ctx context.Context) (*security.RequestClaims, bool) {
	claims, ok := ctx.Value(userCtxKey).(*security.RequestClaims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user's id.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := UserFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := claims.UserUUID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
