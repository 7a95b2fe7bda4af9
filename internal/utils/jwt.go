package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ticketSubject marks tokens that are capture tickets, so no other HS256
// token signed with the same secret is accepted in their place.
const ticketSubject = "location-capture"

// ErrInvalidTicket is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidTicket = errors.New("invalid capture ticket")

// CaptureTicket is a signed, short-lived JWT issued with each page render.
// The page presents it once when it reports the visitor location; the random
// ID lets the server refuse a second capture for the same page load.
type CaptureTicket struct {
	Token string    // the serialized JWT string
	ID    string    // jti claim
	Exp   time.Time // UTC expiration time
}

// NewCaptureTicket builds and signs an HS256 ticket valid for ttl.
func NewCaptureTicket(secret string, ttl time.Duration) (CaptureTicket, error) {
	id, err := randomHex(16)
	if err != nil {
		return CaptureTicket{}, err
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		ID:        id,
		Subject:   ticketSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return CaptureTicket{}, err
	}
	return CaptureTicket{Token: signed, ID: id, Exp: exp}, nil
}

// ParseCaptureTicket verifies raw and returns the ticket ID and expiry.
func ParseCaptureTicket(secret, raw string) (CaptureTicket, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(ticketSubject),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid || claims.ID == "" {
		return CaptureTicket{}, ErrInvalidTicket
	}
	return CaptureTicket{Token: raw, ID: claims.ID, Exp: claims.ExpiresAt.Time}, nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
