package models

import "github.com/golang-jwt/jwt/v5"

// Application roles and permissions
const (
	RoleAdmin = "admin"

	PermissionReadAdmin = "admin:read"
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID      uint     `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
