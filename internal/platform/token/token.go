// Package token validates the portal's bearer tokens. The portal does not
// mint tokens itself; the identity provider in front of it does. Validation
// is HMAC with a shared signing key.
package token

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/middleware"
	dErrors "github.com/citiesense/ginkgo-stakeholder-portal/pkg/domain-errors"
)

// PortalClaims are the JWT claims carried by portal access tokens.
type PortalClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service validates portal access tokens.
type Service struct {
	signingKey []byte
}

func NewService(signingKey string) *Service {
	return &Service{signingKey: []byte(signingKey)}
}

// ValidateToken parses and verifies a token, returning the middleware claims
// used by the access gate.
func (s *Service) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &PortalClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*PortalClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Email == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token missing email claim")
	}

	return &middleware.TokenClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
	}, nil
}
