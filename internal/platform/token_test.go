package platform

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewTokenSource_RequiresCredentials(t *testing.T) {
	if _, err := NewTokenSource("", "secret", time.Minute); err == nil {
		t.Fatalf("expected error for missing key")
	}
	if _, err := NewTokenSource("key", "", time.Minute); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

func TestTokenSource_TokenCarriesGrants(t *testing.T) {
	ts, err := NewTokenSource("api-key", "api-secret", 5*time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	ts.clock = func() time.Time { return time.Unix(1700000000, 0) }

	raw, err := ts.Token()
	if err != nil {
		t.Fatalf("expected token, got %v", err)
	}

	var claims accessClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return time.Unix(1700000000, 0) }),
	)
	_, err = parser.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return []byte("api-secret"), nil
	})
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}

	if claims.Issuer != "api-key" {
		t.Fatalf("expected issuer api-key, got %q", claims.Issuer)
	}
	if claims.Video == nil || !claims.Video.RoomCreate {
		t.Fatalf("expected roomCreate grant")
	}
	if claims.SIP == nil || !claims.SIP.Call {
		t.Fatalf("expected sip call grant")
	}

	exp := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if exp != 5*time.Minute {
		t.Fatalf("expected 5m lifetime, got %v", exp)
	}
}

func TestTokenSource_RejectsWrongSecret(t *testing.T) {
	ts, _ := NewTokenSource("api-key", "api-secret", time.Minute)
	raw, err := ts.Token()
	if err != nil {
		t.Fatalf("expected token, got %v", err)
	}

	var claims accessClaims
	_, err = jwt.NewParser().ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return []byte("other-secret"), nil
	})
	if err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}
