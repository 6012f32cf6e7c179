package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"oskar-api/configs"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware checks the bearer token and, when roles are given, enforces
// them.
func AuthMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			c.Abort()
			return
		}

		userUUID, role, ok := parseToken(strings.TrimPrefix(h, "Bearer "))
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("userUuid", userUUID)
		c.Set("role", role)

		if len(requiredRoles) > 0 {
			allowed := false
			for _, r := range requiredRoles {
				if role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// OwnerMiddleware resolves the cart owner: a bearer token when present,
// otherwise the X-Session-Id header for anonymous visitors. A request with
// neither cannot own a cart.
func OwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			userUUID, role, ok := parseToken(strings.TrimPrefix(h, "Bearer "))
			if !ok {
				c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
				c.Abort()
				return
			}
			c.Set("userUuid", userUUID)
			c.Set("role", role)
			c.Next()
			return
		}

		if sid := c.GetHeader("X-Session-Id"); sid != "" {
			c.Set("sessionId", sid)
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing token or session id"})
		c.Abort()
	}
}

func parseToken(tokenStr string) (userUUID, role string, ok bool) {
	cfg := configs.LoadConfig()
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", false
	}

	claims, okc := token.Claims.(jwt.MapClaims)
	if !okc {
		return "", "", false
	}
	if v, okc := claims["userUuid"].(string); okc {
		userUUID = v
	}
	if v, okc := claims["role"].(string); okc {
		role = v
	}
	return userUUID, role, userUUID != ""
}
