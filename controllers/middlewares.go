package controllers

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/session"
)

// SessionMiddleware resolves the session and user named by the token claims.
func SessionMiddleware(sessions *session.Store, directory *session.Directory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRaw := c.Get("user")
			if userRaw == nil {
				return echo.ErrUnauthorized
			}
			token := userRaw.(*jwt.Token)
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.ErrUnauthorized
			}
			username, _ := claims["sub"].(string)
			sessionID, _ := claims["sid"].(string)
			if username == "" || sessionID == "" {
				logger.Warn("Token without session claims")
				return echo.ErrUnauthorized
			}

			s, err := sessions.Get(sessionID)
			if err != nil || s.Username != username {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Your session has ended, please sign in again"})
			}
			user, err := directory.Get(username)
			if err != nil {
				return echo.ErrUnauthorized
			}
			c.Set("currentUser", user)
			c.Set("session", s)
			return next(c)
		}
	}
}

func AdminOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := c.Get("currentUser").(models.User)
		if !user.Role.IsAdmin() {
			return c.JSON(http.StatusForbidden, echo.Map{"message": "Only admins can change settings"})
		}
		return next(c)
	}
}
