package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "dj-agency-backend"

// Claims carried in staff access tokens. SystemAdmin is embedded so the
// admin-only endpoints (hold expiry trigger, cleanup) can authorize from the
// token alone, without a user lookup per request.
type Claims struct {
	UserID      string `json:"sub"`
	Email       string `json:"email"`
	SystemAdmin bool   `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates staff access tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateAccessToken issues a signed token for a staff member. The admin
// flag is snapshotted at login; revoking admin takes effect when the token
// expires.
func (m *JWTManager) GenerateAccessToken(userID, email string, systemAdmin bool) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		UserID:      userID,
		Email:       email,
		SystemAdmin: systemAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ParseAndValidate checks the signature, expiry and issuer and returns the
// parsed claims.
func (m *JWTManager) ParseAndValidate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}
