package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwtCustomClaims struct {
	CustomerID   uint   `json:"customer_id"`
	MobileNumber string `json:"mobile_number"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the provided customer.
func GenerateToken(secret string, customerID uint, mobileNumber string, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		CustomerID:   customerID,
		MobileNumber: mobileNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(customerID), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the embedded customer ID.
func ParseToken(secret, tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(*jwtCustomClaims); ok && token.Valid {
		return claims.CustomerID, nil
	}

	return 0, fmt.Errorf("invalid token claims")
}
