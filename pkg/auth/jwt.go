package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// FarmClaims are the claims carried by a farm-scoped access token.
// The API layer only needs the farm identity; user-level auth lives in
// a separate service.
type FarmClaims struct {
	FarmID string `json:"farm_id"`
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{secret: []byte(secret), expiry: expiry}
}

// GenerateToken issues a farm-scoped access token, used by tests and tooling
func (s *JWTService) GenerateToken(farmID, userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := FarmClaims{
		FarmID: farmID.String(),
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a token, returning its farm claims
func (s *JWTService) ValidateToken(tokenString string) (*FarmClaims, error) {
	claims := &FarmClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.FarmID == "" {
		return nil, fmt.Errorf("token missing farm scope")
	}
	return claims, nil
}
