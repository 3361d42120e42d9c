package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotel-it/helpdesk/internal/config"
	"github.com/hotel-it/helpdesk/internal/domain"
	apperrors "github.com/hotel-it/helpdesk/pkg/util/errorutil"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(role domain.Role) Claims {
	return Claims{
		Email:       "agente@hotel.test",
		AppMetadata: AppMetadata{Role: role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newVerifier() *TokenVerifier {
	return NewTokenVerifier(config.AuthConfig{JWTSecret: testSecret, Audience: "authenticated"})
}

func TestVerify(t *testing.T) {
	v := newVerifier()

	principal, err := v.Verify(signToken(t, testSecret, validClaims(domain.RoleSupport)))
	require.NoError(t, err)
	assert.Equal(t, &domain.Principal{UserID: "user-123", Email: "agente@hotel.test", Role: domain.RoleSupport}, principal)

	principal, err = v.Verify(signToken(t, testSecret, validClaims("")))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, principal.Role)
}

func TestVerifyRejects(t *testing.T) {
	v := newVerifier()

	expired := validClaims(domain.RoleUser)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongAudience := validClaims(domain.RoleUser)
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}

	noSubject := validClaims(domain.RoleUser)
	noSubject.Subject = ""

	tests := map[string]string{
		"bad signature":  signToken(t, "other-secret", validClaims(domain.RoleUser)),
		"expired":        signToken(t, testSecret, expired),
		"wrong audience": signToken(t, testSecret, wrongAudience),
		"no subject":     signToken(t, testSecret, noSubject),
		"unknown role":   signToken(t, testSecret, validClaims("admin")),
		"garbage":        "not-a-jwt",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.Error(t, err)
		})
	}
}

func TestMiddlewareAndRoles(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	mw := NewAuthMiddleware(newVerifier())
	app.Get("/staff", mw.Handle, RequireStaff(), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.UserID)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"malformed header", "Token abc", fiber.StatusUnauthorized},
		{"user role forbidden", "Bearer " + signToken(t, testSecret, validClaims(domain.RoleUser)), fiber.StatusForbidden},
		{"support allowed", "Bearer " + signToken(t, testSecret, validClaims(domain.RoleSupport)), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/staff", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
