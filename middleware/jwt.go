package middleware

import (
	"net/http"
	"strings"

	"brims-http-service/config"
	"brims-http-service/services"

	"github.com/gin-gonic/gin"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware initializes the auth middleware
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken strips the "Bearer " prefix from an authorization header
func extractToken(authHeader string) string {
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// authenticate validates the token and stores the account identity on
// the context. allowed lists the roles the route accepts.
func authenticate(c *gin.Context, allowed ...string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthorized(c, "Authorization header is required")
		return
	}

	tokenString := extractToken(authHeader)
	claims, err := jwtService.ExtractClaims(tokenString)
	if err != nil {
		abortUnauthorized(c, "Invalid token: "+err.Error())
		return
	}

	roleOK := false
	for _, role := range allowed {
		if claims.Role == role {
			roleOK = true
			break
		}
	}
	if !roleOK {
		c.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "Insufficient permissions",
			"data":    nil,
		})
		c.Abort()
		return
	}

	c.Set("user_id", claims.UserID)
	c.Set("user_role", claims.Role)
	c.Set("username", claims.Username)
	c.Next()
}

// AuthenticateAdmin restricts a route to admin accounts
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, services.RoleAdmin)
	}
}

// AuthenticateStaff restricts a route to staff accounts. Admins may
// also use staff routes.
func AuthenticateStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, services.RoleStaff, services.RoleAdmin)
	}
}
