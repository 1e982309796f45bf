package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lab-manager-api/internal/middleware"
)

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTProtectedExposesIdentity(t *testing.T) {
	app := fiber.New()
	app.Get("/me", middleware.JWTProtected("secret"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user":    c.Locals(middleware.LocalUserID),
			"role":    c.Locals(middleware.LocalUserRole),
			"profile": c.Locals(middleware.LocalProfileID),
		})
	})

	token := signed(t, "secret", jwt.MapClaims{
		"sub": "user-1", "role": "STUDENT", "profile_id": "student-1", "exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTProtectedRejectsBadTokens(t *testing.T) {
	app := fiber.New()
	app.Get("/me", middleware.JWTProtected("secret"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	cases := map[string]string{
		"missing":      "",
		"scheme":       "Token abc",
		"wrong secret": "Bearer " + signed(t, "other", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()}),
		"expired":      "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no expiry":    "Bearer " + signed(t, "secret", jwt.MapClaims{"sub": "u"}),
		"no subject":   "Bearer " + signed(t, "secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err, name)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, name)
	}
}
