// Package jwthelper issues and verifies the bearer tokens shared with the account service.
package jwthelper

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	AccountID uint   `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Admin     bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs claims with HS256. The account service mints tokens the same way;
// the lottery itself uses it for tooling and tests.
func GenerateToken(key []byte, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.Subject = strconv.FormatUint(uint64(claims.AccountID), 10)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

func ParseToken(key []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.AccountID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
