// Package token issues and verifies HMAC-SHA256 signed bearer tokens
// (JWT compact serialization, HS256 only).
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Claims is the token payload. Temporal claims are Unix timestamps.
type Claims struct {
	Subject   string `json:"sub"`
	UserID    int64  `json:"user_id"`
	IsAdmin   bool   `json:"is_admin"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Service signs and verifies tokens with a shared secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Generate issues a token for the given principal, valid for the
// configured TTL.
func (s *Service) Generate(subject string, userID int64, isAdmin bool) (string, error) {
	now := time.Now()
	claims := Claims{
		Subject:   subject,
		UserID:    userID,
		IsAdmin:   isAdmin,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}

	headerJSON, err := json.Marshal(header{Type: "JWT", Algorithm: "HS256"})
	if err != nil {
		return "", err
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signing := encode(headerJSON) + "." + encode(claimsJSON)
	return signing + "." + s.sign(signing), nil
}

// Parse verifies the signature and expiry and returns the claims.
func (s *Service) Parse(tokenString string) (Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	signing := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(s.sign(signing)), []byte(parts[2])) {
		return Claims{}, ErrInvalidToken
	}

	headerJSON, err := decode(parts[0])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil || h.Algorithm != "HS256" {
		return Claims{}, ErrInvalidToken
	}

	claimsJSON, err := decode(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}

	if claims.ExpiresAt > 0 && time.Now().Unix() >= claims.ExpiresAt {
		return Claims{}, ErrExpiredToken
	}

	return claims, nil
}

func (s *Service) sign(signing string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(signing))
	return encode(mac.Sum(nil))
}

func encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
