package platform

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The platform authenticates API requests with short-lived HS256 tokens
// signed by the API secret. Grants scope what the token may do; the dial-out
// service only ever needs room management and SIP administration.

type videoGrant struct {
	RoomCreate bool `json:"roomCreate,omitempty"`
	RoomList   bool `json:"roomList,omitempty"`
	RoomAdmin  bool `json:"roomAdmin,omitempty"`
}

type sipGrant struct {
	Admin bool `json:"admin,omitempty"`
	Call  bool `json:"call,omitempty"`
}

type accessClaims struct {
	jwt.RegisteredClaims
	Video *videoGrant `json:"video,omitempty"`
	SIP   *sipGrant   `json:"sip,omitempty"`
}

// TokenSource mints per-request access tokens from static API credentials.
// The secret never leaves this type.
type TokenSource struct {
	apiKey string
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

func NewTokenSource(apiKey, apiSecret string, ttl time.Duration) (*TokenSource, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("platform: api key and secret are required")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TokenSource{
		apiKey: apiKey,
		secret: []byte(apiSecret),
		ttl:    ttl,
		clock:  time.Now,
	}, nil
}

// Token returns a signed access token carrying room and SIP grants.
func (ts *TokenSource) Token() (string, error) {
	now := ts.clock().UTC()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.apiKey,
			Subject:   "dialout-service",
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
		Video: &videoGrant{RoomCreate: true, RoomList: true, RoomAdmin: true},
		SIP:   &sipGrant{Admin: true, Call: true},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
}
