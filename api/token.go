package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ratehub/authcore/identity"
)

// TokenIssuer mints and verifies the HS256 bearer tokens handed to HTTP
// clients. The claims mirror the persisted session record: the identity
// snapshot without secret material.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	if expiry == 0 {
		expiry = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), expiry: expiry}
}

// Claims carries the identity snapshot inside the token.
type Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Role    string `json:"role"`
	StoreID string `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}

func (t *TokenIssuer) Issue(ident *identity.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:    ident.Name,
		Email:   ident.Email,
		Address: ident.Address,
		Role:    ident.Role.String(),
		StoreID: ident.StoreID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenIssuer) Parse(tokenString string) (*identity.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	role, err := identity.ParseRole(claims.Role)
	if err != nil {
		return nil, err
	}

	return &identity.Identity{
		ID:      claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Address: claims.Address,
		Role:    role,
		StoreID: claims.StoreID,
	}, nil
}
