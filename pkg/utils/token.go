package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"salon-backend/internal/policy"
)

var ErrInvalidToken = errors.New("invalid token")

// GenerateToken signs an HS256 JWT carrying the user id and role.
func GenerateToken(secret string, ttl time.Duration, userID uint64, role policy.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role.String(),
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken verifies the signature and expiry and returns the caller it names.
func ValidateToken(secret, encodedToken string) (policy.Actor, error) {
	token, err := jwt.Parse(encodedToken, func(token *jwt.Token) (interface{}, error) {
		// HMAC only
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return policy.Actor{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return policy.Actor{}, ErrInvalidToken
	}
	// JSON numbers decode as float64
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return policy.Actor{}, ErrInvalidToken
	}
	roleName, _ := claims["role"].(string)
	role, err := policy.ParseRole(roleName)
	if err != nil {
		return policy.Actor{}, ErrInvalidToken
	}
	return policy.Actor{UserID: uint64(id), Role: role}, nil
}
