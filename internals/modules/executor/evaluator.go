package executor

import (
	"strings"
	"unicode/utf8"
)

// MaxDetailLength bounds the stored response text, in runes.
const MaxDetailLength = 256

type Response struct {
	StatusCode int
	Body       string
}

// Evaluate classifies a response. A body missing the expected text is a
// MISMATCH even when the status also differs. An empty expectedText skips
// the body check.
func Evaluate(resp Response, expectedStatus int, expectedText string) (ResultCode, string) {
	detail := Truncate(resp.Body, MaxDetailLength)

	if expectedText != "" && !strings.Contains(strings.ToLower(resp.Body), strings.ToLower(expectedText)) {
		return Mismatch, detail
	}
	if resp.StatusCode != expectedStatus {
		return Fail, detail
	}
	return Pass, detail
}

// Truncate makes s storable as text and cuts it to at most n runes.
// Invalid UTF-8 becomes U+FFFD and NUL bytes are dropped; Postgres text
// columns accept neither.
func Truncate(s string, n int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.ReplaceAll(s, "\x00", "")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
