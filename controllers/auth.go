package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/session"
)

type AuthController struct {
	Directory *session.Directory
	Sessions  *session.Store
	Secret    string
	Expiry    time.Duration
	Now       func() time.Time
}

func (controller *AuthController) AuthRoutes(g *echo.Group, protected ...echo.MiddlewareFunc) {
	g.POST("/login", controller.Login)
	g.DELETE("/session", controller.Logout, protected...)
}

// GenerateSessionToken signs an access token bound to one session.
func GenerateSessionToken(secret, username, sessionID string, issuedAt time.Time, ttl time.Duration) (string, int64, error) {
	expiresAt := issuedAt.Add(ttl).Unix()
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = username
	claims["sid"] = sessionID
	claims["iat"] = issuedAt.Unix()
	claims["exp"] = expiresAt
	t, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}
	return t, expiresAt, nil
}

func (controller *AuthController) Login(c echo.Context) error {
	var req models.LoginIn
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := controller.Directory.Authenticate(req.Username, req.Password)
	if errors.Is(err, session.ErrInvalidLogin) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": session.MsgInvalidLogin})
	}
	if err != nil {
		return errorResponse(c, err)
	}

	s := controller.Sessions.Create(user)
	token, expiresAt, err := GenerateSessionToken(controller.Secret, user.Username, s.ID, controller.Now(), controller.Expiry)
	if err != nil {
		controller.Sessions.Delete(s.ID)
		return errorResponse(c, err)
	}
	logger.Info("User signed in", logger.Fields{"username": user.Username, "session_id": s.ID})

	return c.JSON(http.StatusOK, models.LoginOut{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user.Info(),
	})
}

func (controller *AuthController) Logout(c echo.Context) error {
	s := currentSession(c)
	if err := controller.Sessions.Delete(s.ID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		return errorResponse(c, err)
	}
	logger.Info("User signed out", logger.Fields{"username": s.Username, "session_id": s.ID})
	return c.NoContent(http.StatusNoContent)
}
