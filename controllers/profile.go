package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sareeapi/models"
	"sareeapi/session"
)

type ProfileController struct {
	Directory *session.Directory
}

func (controller *ProfileController) ProfileRoutes(g *echo.Group) {
	g.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, currentUser(c).Info())
	})

	g.PATCH("", func(c echo.Context) error {
		var req models.ProfileIn
		if err := bind(c, &req); err != nil {
			return err
		}
		user, err := controller.Directory.UpdateProfile(currentUser(c).Username, req)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, user.Info())
	})
}
