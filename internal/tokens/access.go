package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func NewAccessToken(username, role string, secret []byte, exp time.Time) (string, error) {
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// AccessClaimsFromToken parses the access token and verifies its signature.
// When the only problem is expiry the claims are returned alongside
// jwt.ErrTokenExpired, since the refresh path still needs the subject.
func AccessClaimsFromToken(tokenStr string, secret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, hs256KeyFunc(secret))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return &claims, err
		}
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &claims, nil
}

// ValidateAccess reports whether the token is well formed, correctly
// signed and not yet expired.
func ValidateAccess(tokenStr string, secret []byte) bool {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, hs256KeyFunc(secret))
	return err == nil && tkn.Valid
}
