package security

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RequestClaims is the access token payload. UserID travels as "sub".
type RequestClaims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func NewRequestClaims(userID uuid.UUID, email string) RequestClaims {
	return RequestClaims{UserID: userID.String(), Email: email}
}

// UserUUID parses the subject as a user id.
func (c *RequestClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}
