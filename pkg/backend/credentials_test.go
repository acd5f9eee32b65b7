package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	console "github.com/goliatone/go-console/components/console"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "admin-1", "exp": exp.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestStaticCredentialsLifecycle(t *testing.T) {
	creds := NewStaticCredentials("")
	if _, err := creds.Token(context.Background()); !errors.Is(err, console.ErrUnauthorized) {
		t.Fatalf("empty token must be unauthorized, got %v", err)
	}

	creds.Set("session-token")
	token, err := creds.Token(context.Background())
	if err != nil || token != "session-token" {
		t.Fatalf("expected stored token, got %q err=%v", token, err)
	}

	creds.Clear()
	if _, err := creds.Token(context.Background()); !errors.Is(err, console.ErrUnauthorized) {
		t.Fatalf("cleared token must be unauthorized, got %v", err)
	}
}

func TestScreenedCredentialsRejectsExpiredJWT(t *testing.T) {
	inner := NewStaticCredentials(signedToken(t, time.Now().Add(-5*time.Minute)))
	screened := NewScreenedCredentials(inner)

	if _, err := screened.Token(context.Background()); !errors.Is(err, console.ErrUnauthorized) {
		t.Fatalf("expired token must be rejected locally, got %v", err)
	}
	if _, err := inner.Token(context.Background()); !errors.Is(err, console.ErrUnauthorized) {
		t.Fatalf("rejection must clear the inner provider")
	}
}

func TestScreenedCredentialsAllowsValidJWT(t *testing.T) {
	valid := signedToken(t, time.Now().Add(time.Hour))
	screened := NewScreenedCredentials(NewStaticCredentials(valid))

	token, err := screened.Token(context.Background())
	if err != nil || token != valid {
		t.Fatalf("valid token should pass, got %q err=%v", token, err)
	}
}

func TestScreenedCredentialsLeeway(t *testing.T) {
	// Expired ten seconds ago stays inside the thirty second leeway.
	recent := signedToken(t, time.Now().Add(-10*time.Second))
	screened := NewScreenedCredentials(NewStaticCredentials(recent))

	if _, err := screened.Token(context.Background()); err != nil {
		t.Fatalf("token inside leeway should pass, got %v", err)
	}
}

func TestScreenedCredentialsPassesOpaqueTokens(t *testing.T) {
	screened := NewScreenedCredentials(NewStaticCredentials("opaque-session-key"))

	token, err := screened.Token(context.Background())
	if err != nil || token != "opaque-session-key" {
		t.Fatalf("opaque token should pass untouched, got %q err=%v", token, err)
	}
}

func TestScreenedCredentialsClearDelegates(t *testing.T) {
	inner := NewStaticCredentials("session-token")
	NewScreenedCredentials(inner).Clear()

	if _, err := inner.Token(context.Background()); !errors.Is(err, console.ErrUnauthorized) {
		t.Fatalf("clear must reach the inner provider")
	}
}
