package site

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
)

// Methods is the closed set of probe methods a site may use.
var Methods = []Method{
	MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions,
}

func (m Method) Valid() bool {
	for _, v := range Methods {
		if v == m {
			return true
		}
	}
	return false
}

const (
	DefaultExpectedStatus = 200
	DefaultTimeout        = 5 * time.Second
	MaxTimeout            = 60 * time.Second
)

type Site struct {
	ID             int64
	UserID         uuid.UUID
	URL            string
	Method         Method
	ExpectedStatus int
	ExpectedText   null.String // empty means no body check
	HostedAt       null.String
	Timeout        time.Duration
	LastCheckedAt  null.Time
	CreatedAt      time.Time
}

type SiteCmd struct {
	UserID         uuid.UUID
	URL            string
	Method         Method
	ExpectedStatus int
	ExpectedText   null.String
	HostedAt       null.String
	Timeout        time.Duration
}

// withDefaults fills the unset optional fields.
func (c SiteCmd) withDefaults() SiteCmd {
	if c.Method == "" {
		c.Method = MethodGet
	}
	if c.ExpectedStatus == 0 {
		c.ExpectedStatus = DefaultExpectedStatus
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ExpectedText.String == "" {
		c.ExpectedText = null.String{}
	}
	if c.HostedAt.String == "" {
		c.HostedAt = null.String{}
	}
	return c
}
