package middleware

import (
	"github.com/bankops/ledgercore/internal/utils"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated subject in the Gin context.
const userIDKey = contextKey("userID")

// userRoleKey is the key used to store the authenticated role in the Gin context.
const userRoleKey = contextKey("userRole")

// GetUserIDFromContext retrieves the authenticated subject (account number or
// staff ID) from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetUserRoleFromContext retrieves the authenticated role from the Gin context.
func GetUserRoleFromContext(c *gin.Context) (utils.UserRole, bool) {
	roleVal, exists := c.Get(string(userRoleKey))
	if !exists {
		return "", false
	}

	role, ok := roleVal.(utils.UserRole)
	if !ok {
		return "", false
	}
	return role, true
}
