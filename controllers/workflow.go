package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"sareeapi/models"
	"sareeapi/workflow"
)

type WorkflowController struct {
}

type snapshotOut struct {
	Products   []models.Product    `json:"products"`
	Scene      models.SceneContext `json:"scene"`
	ActiveRuns int                 `json:"active_runs"`
}

func snapshot(w *workflow.Workflow) snapshotOut {
	return snapshotOut{Products: w.Snapshot(), Scene: w.Scene(), ActiveRuns: w.ActiveRuns()}
}

func stageParam(c echo.Context) (models.Stage, bool) {
	return models.ParseStage(c.Param("stage"))
}

func (controller *WorkflowController) WorkflowRoutes(g *echo.Group) {
	g.POST("", controller.Start)
	g.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, snapshot(currentSession(c).Workflow))
	})
	g.DELETE("", func(c echo.Context) error {
		currentSession(c).Workflow.Reset()
		return c.NoContent(http.StatusNoContent)
	})
	g.POST("/cancel", func(c echo.Context) error {
		cancelled := currentSession(c).Workflow.CancelRuns()
		return c.JSON(http.StatusOK, echo.Map{"cancelled": cancelled})
	})

	g.GET("/products/:id", func(c echo.Context) error {
		p, err := currentSession(c).Workflow.Product(c.Param("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})
	g.GET("/products/:id/source", func(c echo.Context) error {
		p, err := currentSession(c).Workflow.Product(c.Param("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return imageBlob(c, p.Source, true)
	})
	g.GET("/products/:id/tryon", func(c echo.Context) error {
		p, err := currentSession(c).Workflow.Product(c.Param("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		img, ok := p.TryOn()
		return imageBlob(c, img, ok)
	})
	g.GET("/products/:id/shots/:shot/image", func(c echo.Context) error {
		shot, err := currentSession(c).Workflow.Shot(c.Param("id"), c.Param("shot"))
		if err != nil {
			return errorResponse(c, err)
		}
		img, ok := shot.Image()
		return imageBlob(c, img, ok)
	})

	// stage 2
	g.POST("/visualize", func(c echo.Context) error {
		queued, err := currentSession(c).Workflow.StartVisualize()
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusAccepted, echo.Map{"queued": queued})
	})
	g.POST("/products/:id/tryon", func(c echo.Context) error {
		p, err := currentSession(c).Workflow.RegenerateTryOn(c.Request().Context(), c.Param("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})

	// stage 3
	g.POST("/photography", func(c echo.Context) error {
		queued, err := currentSession(c).Workflow.StartPhotography()
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusAccepted, echo.Map{"queued": queued})
	})
	g.POST("/products/:id/shots/:shot/regenerate", func(c echo.Context) error {
		shot, err := currentSession(c).Workflow.RegenerateShot(c.Request().Context(), c.Param("id"), c.Param("shot"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, shot)
	})
	g.POST("/products/:id/shots/:shot/toggle", func(c echo.Context) error {
		shot, err := currentSession(c).Workflow.ToggleShotSelection(c.Param("id"), c.Param("shot"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, shot)
	})
	g.POST("/products/:id/shots/:shot/refining", func(c echo.Context) error {
		shot, err := currentSession(c).Workflow.ToggleShotRefining(c.Param("id"), c.Param("shot"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, shot)
	})
	g.PUT("/products/:id/shots/:shot/feedback", func(c echo.Context) error {
		var req models.FeedbackIn
		if err := bind(c, &req); err != nil {
			return err
		}
		shot, err := currentSession(c).Workflow.UpdateShotFeedback(c.Param("id"), c.Param("shot"), req.Feedback)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, shot)
	})

	// selection, any stage
	g.POST("/stages/:stage/products/:id/toggle", func(c echo.Context) error {
		stage, ok := stageParam(c)
		if !ok {
			return errorResponse(c, workflow.ErrUnknownStage)
		}
		p, err := currentSession(c).Workflow.ToggleSelection(stage, c.Param("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})
	g.POST("/stages/:stage/select-all", func(c echo.Context) error {
		stage, ok := stageParam(c)
		if !ok {
			return errorResponse(c, workflow.ErrUnknownStage)
		}
		var req models.SelectAllIn
		if err := bind(c, &req); err != nil {
			return err
		}
		changed, err := currentSession(c).Workflow.SelectAll(stage, req.Selected)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"changed": changed})
	})

	// stage 4
	g.POST("/details", func(c echo.Context) error {
		products, err := currentSession(c).Workflow.ProceedToDetails()
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, products)
	})
	g.PATCH("/products/:id/details", func(c echo.Context) error {
		var req models.DetailsPatch
		if err := bind(c, &req); err != nil {
			return err
		}
		p, err := currentSession(c).Workflow.UpdateDetails(c.Param("id"), req)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})
	g.POST("/products/:id/details/toggle", func(c echo.Context) error {
		var req models.ToggleDetailIn
		if err := bind(c, &req); err != nil {
			return err
		}
		p, err := currentSession(c).Workflow.ToggleDetailItem(c.Param("id"), req.Field, req.Item)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})
	g.POST("/products/:id/details/copy", func(c echo.Context) error {
		var req models.CopyDetailsIn
		if err := bind(c, &req); err != nil {
			return err
		}
		p, err := currentSession(c).Workflow.CopyDetails(c.Param("id"), req.Position)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})
	g.POST("/products/:id/seo", func(c echo.Context) error {
		p, err := currentSession(c).Workflow.GenerateSEO(c.Request().Context(), c.Param("id"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, p)
	})
}

// Start reads the multipart upload and begins a new workflow, replacing the current one.
func (controller *WorkflowController) Start(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Expected a multipart form"})
	}

	files := form.File["product_images[]"]
	if len(files) == 0 {
		files = form.File["product_images"]
	}
	if len(files) > models.MaxProductImages {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": workflow.MsgTooManyImages})
	}

	var in models.SareeForm
	for _, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			return errorResponse(c, err)
		}
		in.ProductImages = append(in.ProductImages, img)
	}
	if faces := form.File["model_face"]; len(faces) > 0 {
		face, err := readImage(faces[0])
		if err != nil {
			return errorResponse(c, err)
		}
		in.ModelFace = &face
	}
	in.Scene = models.SceneContext{
		FigureDesc:     strings.TrimSpace(c.FormValue("figure_desc")),
		BackgroundDesc: strings.TrimSpace(c.FormValue("background_desc")),
		AttireDesc:     strings.TrimSpace(c.FormValue("attire_desc")),
	}

	w := currentSession(c).Workflow
	products, err := w.Start(in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, snapshotOut{Products: products, Scene: w.Scene()})
}
