// Package auth implements optional token gating for the device-facing
// endpoints. The device API is public by default; when a shared secret is
// configured, devices must append ?token=<secret> to their server URL.
package auth

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenAuth carries the token query parameter of one request, if any.
type TokenAuth struct {
	Token *string
}

// NewTokenAuth wraps an already-extracted token value.
func NewTokenAuth(token string) TokenAuth {
	return TokenAuth{Token: &token}
}

// FromQuery extracts the raw token parameter from a query string.
func FromQuery(rawQuery string) TokenAuth {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return TokenAuth{}
	}
	if _, ok := values["token"]; !ok {
		return TokenAuth{}
	}
	token := values.Get("token")
	return TokenAuth{Token: &token}
}

// FromRequest extracts and cleans the token from a request. Some firmware
// builds, when given a base URL that already carries ?token=x, append the
// endpoint path to the parameter value and send token=x/api/display; the
// path suffix is stripped here so such devices still authenticate.
func FromRequest(r *http.Request) TokenAuth {
	t := FromQuery(r.URL.RawQuery)
	if t.Token != nil {
		cleaned := StripPathSuffix(*t.Token)
		t.Token = &cleaned
	}
	return t
}

// StripPathSuffix removes a trailing "/api/..." fragment from a token value.
func StripPathSuffix(token string) string {
	if idx := strings.Index(token, "/api/"); idx >= 0 {
		return token[:idx]
	}
	return token
}

// HasToken reports whether a token was supplied at all.
func (t TokenAuth) HasToken() bool { return t.Token != nil }

// Validate checks the token against an expected value.
func (t TokenAuth) Validate(expected string) error {
	switch {
	case t.Token == nil:
		return ErrMissingToken
	case *t.Token != expected:
		return ErrInvalidToken
	default:
		return nil
	}
}

// ValidateEnv checks the token against the named environment variable. An
// unset variable means auth is not configured and every request passes;
// this is the switch that keeps token gating optional.
func (t TokenAuth) ValidateEnv(envVar string) error {
	expected := os.Getenv(envVar)
	if expected == "" {
		return nil
	}
	return t.Validate(expected)
}

// Middleware gates a route group on the token configured in envVar. With
// the variable unset the middleware is a pass-through.
func Middleware(envVar string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := FromRequest(c.Request).ValidateEnv(envVar); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
