package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims models.UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func claimsFor(role string, permissions []string, expiresIn time.Duration) models.UserClaims {
	return models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:      42,
		Role:        role,
		Permissions: permissions,
	}
}

func setupApp() *fiber.App {
	auth := NewAuthMiddleware(testSecret)
	app := fiber.New()
	app.Get("/admin", auth.Handler, AdminOnly, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAuth(t *testing.T) {
	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", fiber.StatusUnauthorized},
		{
			"wrong secret",
			"Bearer " + signToken(t, "other", jwt.SigningMethodHS256, claimsFor(models.RoleAdmin, nil, time.Hour)),
			fiber.StatusUnauthorized,
		},
		{
			"expired",
			"Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, claimsFor(models.RoleAdmin, nil, -time.Hour)),
			fiber.StatusUnauthorized,
		},
		{
			"customer",
			"Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, claimsFor(models.RoleCustomer, nil, time.Hour)),
			fiber.StatusForbidden,
		},
		{
			"admin",
			"Bearer " + signToken(t, testSecret, jwt.SigningMethodHS256, claimsFor(models.RoleAdmin, nil, time.Hour)),
			fiber.StatusOK,
		},
		{
			"read permission",
			"Bearer " + signToken(t, testSecret, jwt.SigningMethodHS512, claimsFor("merchant", []string{models.PermissionReadAdmin}, time.Hour)),
			fiber.StatusOK,
		},
	}

	app := setupApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestAdminOnly_WithoutClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", AdminOnly, func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
