// Package auth provides functionality for generating and parsing JSON Web Tokens (JWT)
// for user authentication. It defines custom claims carrying the principal's
// identity and role, token generation, and validation logic.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"item_vault/internal/config"
	"item_vault/internal/models"
)

// TOKENEXP defines the token expiration duration.
const TOKENEXP = time.Hour * 24

// Claims represents the custom JWT claims that include the principal's
// identity and role alongside the standard registered claims.
type Claims struct {
	UserID   int32  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT token for the given principal.
// It sets the expiration time based on TOKENEXP and embeds the principal's
// id, username, and role in the claims.
func GenerateToken(principal models.Principal) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TOKENEXP)),
		},
		UserID:   principal.ID,
		Username: principal.Username,
		Role:     principal.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// ParseToken validates the provided JWT token string and parses its claims.
// It returns the Claims if the token is valid, or an error otherwise.
func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
