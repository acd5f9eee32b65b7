package backend

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	console "github.com/goliatone/go-console/components/console"
)

// StaticCredentials holds a fixed token, typically issued at login and
// cleared on the first authentication failure.
type StaticCredentials struct {
	mu    sync.RWMutex
	token string
}

// NewStaticCredentials wraps a bearer token.
func NewStaticCredentials(token string) *StaticCredentials {
	return &StaticCredentials{token: token}
}

// Token returns the stored token.
func (c *StaticCredentials) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return "", console.ErrUnauthorized
	}
	return c.token, nil
}

// Set replaces the stored token after a login.
func (c *StaticCredentials) Set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Clear drops the stored token.
func (c *StaticCredentials) Clear() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// ScreenedCredentials rejects JWTs that are already expired before any
// request goes out, so a stale session fails fast instead of bouncing off
// the server.
type ScreenedCredentials struct {
	inner  CredentialProvider
	leeway time.Duration
}

// NewScreenedCredentials wraps a provider with local expiry screening.
func NewScreenedCredentials(inner CredentialProvider) *ScreenedCredentials {
	return &ScreenedCredentials{inner: inner, leeway: 30 * time.Second}
}

// Token screens the inner token's exp claim before returning it.
func (c *ScreenedCredentials) Token(ctx context.Context) (string, error) {
	token, err := c.inner.Token(ctx)
	if err != nil {
		return "", err
	}
	if tokenExpired(token, c.leeway) {
		c.inner.Clear()
		return "", console.ErrUnauthorized
	}
	return token, nil
}

// Clear delegates to the inner provider.
func (c *ScreenedCredentials) Clear() { c.inner.Clear() }

// tokenExpired checks the exp claim without verifying the signature; the
// server remains the authority, this only short-circuits obvious rejects.
// Opaque (non-JWT) tokens pass through untouched.
func tokenExpired(token string, leeway time.Duration) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().Add(-leeway).After(exp.Time)
}
