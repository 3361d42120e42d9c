package auth

import (
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/hotel-it/helpdesk/internal/config"
	"github.com/hotel-it/helpdesk/internal/domain"
)

// Claims describes the access token payload issued by the identity provider.
type Claims struct {
	Email       string      `json:"email"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

// AppMetadata holds provider-managed attributes the user cannot edit.
type AppMetadata struct {
	Role domain.Role `json:"role"`
}

// TokenVerifier validates HS256 access tokens from the identity provider.
type TokenVerifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

// NewTokenVerifier builds a verifier from auth configuration.
func NewTokenVerifier(cfg config.AuthConfig) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &TokenVerifier{secret: []byte(cfg.JWTSecret), opts: opts}
}

// Verify parses the token and returns the principal it asserts.
func (v *TokenVerifier) Verify(tokenStr string) (*domain.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	role := claims.AppMetadata.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return &domain.Principal{UserID: claims.Subject, Email: claims.Email, Role: role}, nil
}
