package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

// Claims is the JWT payload shared by access and refresh tokens. Both carry
// the full principal snapshot; only the signing secret and lifetime differ.
type Claims struct {
	CustomerID uint64 `json:"customer_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Role       bool   `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts the claims back into the snapshot they were built from.
func (c *Claims) Principal() model.Principal {
	return model.Principal{
		ID:       c.CustomerID,
		FullName: c.FullName,
		Email:    c.Email,
		Admin:    c.Role,
	}
}

// signer builds and verifies HS256 tokens for one secret/lifetime pair.
type signer struct {
	secret []byte
	ttl    time.Duration
}

// sign returns the serialized token and its expiry. Every token gets a random
// jti so two tokens minted in the same second for the same principal differ.
func (s signer) sign(p model.Principal, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.ttl)
	claims := Claims{
		CustomerID: p.ID,
		FullName:   p.FullName,
		Email:      p.Email,
		Role:       p.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(p.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// parse verifies signature and expiry against now. An expired but otherwise
// well-formed token yields errExpired; every other failure is ErrInvalidToken.
func (s signer) parse(raw string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid || claims.CustomerID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
