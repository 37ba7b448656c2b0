package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"sareeapi/models"
	"sareeapi/pkg/logger"
	"sareeapi/session"
)

// SettingsController manages the session credentials and vendors and the user directory.
type SettingsController struct {
	Directory *session.Directory
}

func (controller *SettingsController) SettingsRoutes(g *echo.Group) {
	g.GET("/credentials", func(c echo.Context) error {
		return c.JSON(http.StatusOK, currentSession(c).Credentials.List())
	})

	g.POST("/credentials", func(c echo.Context) error {
		var req models.CredentialIn
		if err := bind(c, &req); err != nil {
			return err
		}
		credentials := currentSession(c).Credentials
		if err := credentials.Add(req.Key); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, credentials.List())
	})

	g.DELETE("/credentials/:index", func(c echo.Context) error {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid credential index"})
		}
		credentials := currentSession(c).Credentials
		if err := credentials.Remove(index); err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, credentials.List())
	})

	g.GET("/vendors", func(c echo.Context) error {
		return c.JSON(http.StatusOK, currentSession(c).Vendors.List())
	})

	g.POST("/vendors", func(c echo.Context) error {
		var req models.VendorIn
		if err := bind(c, &req); err != nil {
			return err
		}
		vendor, err := currentSession(c).Vendors.Add(req)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, vendor)
	})

	g.DELETE("/vendors/:id", func(c echo.Context) error {
		if err := currentSession(c).Vendors.Delete(c.Param("id")); err != nil {
			return errorResponse(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	})

	g.GET("/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, controller.Directory.List())
	})

	g.POST("/users/:username/reset-password", func(c echo.Context) error {
		username := c.Param("username")
		if err := controller.Directory.ResetPassword(username); err != nil {
			return errorResponse(c, err)
		}
		logger.Info("Password reset", logger.Fields{"username": username, "by": currentUser(c).Username})
		return c.JSON(http.StatusOK, echo.Map{"message": "Password reset to " + session.ResetPassword})
	})
}
