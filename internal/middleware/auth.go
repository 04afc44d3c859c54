// Package middleware provides HTTP middleware for the fiber server.
package middleware

import (
	"errors"
	"strings"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/models"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

// AuthMiddleware validates bearer tokens issued by the back office login
// and stores their claims in the request context.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Handler checks for a Bearer token with a valid HS256 signature and an
// unexpired lifetime.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	claims, err := m.parse(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		log.WithError(err).WithField("path", c.Path()).Warn("Token validation failed")
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

func (m *AuthMiddleware) parse(tokenString string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// AdminOnly lets through admins and holders of the admin read permission.
func AdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}
	if claims.Role == models.RoleAdmin || claims.HasPermission(models.PermissionReadAdmin) {
		return c.Next()
	}

	log.WithFields(log.Fields{"user_id": claims.UserID, "role": claims.Role}).Warn("Admin access denied")
	return response.Error(c, fiber.StatusForbidden, "Insufficient permissions")
}
