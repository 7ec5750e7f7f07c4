// Package auth issues and verifies the signed session tokens that give each
// browser its own client id.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the lifetime of a session token. History is keyed by the
// client id inside the token, so it outlives idle controllers.
const DefaultTokenTTL = 365 * 24 * time.Hour

const issuer = "shortify"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims identifies one browser.
type Claims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

// JWTService signs session tokens with HS256.
type JWTService struct {
	secretKey []byte
	ttl       time.Duration
}

// NewJWTService creates a JWTService. A non-positive ttl selects DefaultTokenTTL.
func NewJWTService(secretKey string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
	}
}

// TTL returns the token lifetime.
func (j *JWTService) TTL() time.Duration {
	return j.ttl
}

// GenerateToken signs a token for clientID valid for the service TTL.
func (j *JWTService) GenerateToken(clientID string) (string, error) {
	now := time.Now()
	claims := Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken verifies tokenString and returns its claims.
func (j *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.ClientID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// NewClientID returns a fresh random client id.
func (j *JWTService) NewClientID() string {
	return uuid.NewString()
}
