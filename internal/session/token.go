package session

import (
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/zucitech/portal-client/internal/entity"
)

// DecodeToken extracts the payload of a stored bearer token without
// verifying the signature. Verification belongs to the backend; here
// the token is only a fallback source for rebuilding an Identity when
// no snapshot survived.
func DecodeToken(token string) (*entity.TokenClaims, error) {
	claims := &entity.TokenClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	return claims, nil
}
