package web

import (
	"net/http"
	"strings"
)

// DefaultUserHeader carries the authenticated user id set by the fronting auth proxy.
const DefaultUserHeader = "X-User-ID"

// UserResolver returns the authenticated user for a request, or "" for anonymous.
type UserResolver interface {
	UserID(r *http.Request) string
}

// HeaderUserResolver trusts a request header populated upstream.
type HeaderUserResolver struct {
	Header string
}

func (h HeaderUserResolver) UserID(r *http.Request) string {
	header := h.Header
	if header == "" {
		header = DefaultUserHeader
	}
	return strings.TrimSpace(r.Header.Get(header))
}
