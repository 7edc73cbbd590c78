package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/damoang/angple-revisions/pkg/jwt"
	"github.com/damoang/angple-revisions/pkg/logger"
	"github.com/gin-gonic/gin"
)

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Missing authorization header", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired", nil)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", nil)
			}
			c.Abort()
			return
		}

		c.Set("editorID", claims.UserID)
		c.Set("nickname", claims.Nickname)
		c.Set("level", claims.Level)

		l := logger.WithEditorID(claims.UserID)
		l.Debug().
			Str("path", c.Request.URL.Path).
			Msg("authenticated")

		c.Next()
	}
}

// GetEditor extracts the authenticated editor from context
func GetEditor(c *gin.Context) domain.Editor {
	editor := domain.Editor{}
	if id, ok := c.Get("editorID"); ok {
		if v, ok := id.(uint64); ok {
			editor.ID = v
		}
	}
	if nickname, ok := c.Get("nickname"); ok {
		if v, ok := nickname.(string); ok {
			editor.Nickname = v
		}
	}
	if level, ok := c.Get("level"); ok {
		if v, ok := level.(int); ok {
			editor.Level = v
		}
	}
	return editor
}
