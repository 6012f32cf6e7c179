package utils

import "github.com/gin-gonic/gin"

func CurrentUserUUID(c *gin.Context) string {
	if v, ok := c.Get("userUuid"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func CurrentSessionID(c *gin.Context) string {
	if v, ok := c.Get("sessionId"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func CurrentRole(c *gin.Context) string {
	if v, ok := c.Get("role"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
