package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

const (
	defaultTestSecret = "test_secret_key_minimum_32_characters_long_for_testing_only"
	minSecretLen      = 32

	// AccessTokenTTL is how long an admin session token stays valid.
	AccessTokenTTL = 24 * time.Hour
)

// Claims is the payload of an admin session token. The user id travels in
// the subject.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

var (
	keyOnce sync.Once
	key     []byte
)

// signingKey reads JWT_SECRET the first time a token is signed or checked.
// Without one the test secret is used, which ValidateJWTSecret refuses at boot.
func signingKey() []byte {
	keyOnce.Do(func() {
		_ = godotenv.Load()
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			secret = defaultTestSecret
		}
		key = []byte(secret)
	})
	return key
}

func ValidateJWTSecret() error {
	switch secret := os.Getenv("JWT_SECRET"); {
	case secret == "":
		return errors.New("JWT_SECRET is not set")
	case secret == defaultTestSecret:
		return errors.New("JWT_SECRET is the built-in test value")
	case len(secret) < minSecretLen:
		return fmt.Errorf("JWT_SECRET has %d characters, need at least %d", len(secret), minSecretLen)
	}
	return nil
}

// GenerateJWT signs a session token for the given admin.
func GenerateJWT(userID uint, username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey())
}

// ParseClaims verifies the signature and expiry of a session token.
func ParseClaims(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return signingKey(), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseJWT returns the user id carried by a valid session token.
func ParseJWT(tokenStr string) (uint, error) {
	claims, err := ParseClaims(tokenStr)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("token subject %q: %w", claims.Subject, err)
	}
	return uint(id), nil
}
