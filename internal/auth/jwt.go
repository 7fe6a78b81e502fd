package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleCustomer and RoleAdmin are the only roles a token can carry. The admin
// console is gated on RoleAdmin; everything else gets RoleCustomer.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// The signing key is injected from configuration at startup; there is no
// hardcoded fallback.
var jwtSecretKey []byte

// Init sets the signing key. Must be called before any token is issued.
func Init(secret string) {
	jwtSecretKey = []byte(secret)
}

// GenerateToken creates a new JWT for a given user ID and role.
func GenerateToken(userID int64, role string) (string, error) {
	if len(jwtSecretKey) == 0 {
		return "", errors.New("auth: signing key not initialized")
	}

	claims := jwt.MapClaims{
		"sub":  userID,                                // "sub" (Subject) is the standard claim for User ID
		"role": role,                                  //
		"exp":  time.Now().Add(time.Hour * 72).Unix(), // Expires in 3 days
		"iat":  time.Now().Unix(),                     // "iat" (Issued At)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecretKey)
}

// ValidateToken parses and validates a JWT token string.
// It returns the user ID (subject) and role if the token is valid.
func ValidateToken(tokenString string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecretKey, nil
	})
	if err != nil {
		return 0, "", err // Token parsing failed (e.g., expired, malformed)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	// JSON numbers arrive as float64
	userIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", errors.New("invalid subject claim")
	}

	role, ok := claims["role"].(string)
	if !ok {
		role = RoleCustomer
	}

	return int64(userIDFloat), role, nil
}
