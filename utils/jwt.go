package utils

import (
	"errors"
	"os"
	"time"

	"courtbook/config"
	"courtbook/models"

	"github.com/golang-jwt/jwt"
)

const devSecret = "courtbook-dev-secret"

// secretKey prefers the configured secret, then the environment.
func secretKey() []byte {
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte(devSecret)
}

// GenerateToken creates a signed JWT for the given user. The staff claim grants
// administrative access to reservations and facility configuration.
func GenerateToken(subject string, staff bool, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"staff": staff,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractActorFromToken validates the token and returns the identity it carries.
func ExtractActorFromToken(tokenString string) (models.Actor, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Actor{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Actor{}, errors.New("token does not contain a valid 'sub' claim")
	}
	staff, _ := claims["staff"].(bool)

	return models.Actor{UserID: sub, Staff: staff}, nil
}
