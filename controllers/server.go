package controllers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator"
	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sareeapi/models"
	"sareeapi/services"
	"sareeapi/session"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("role", models.ValidateRole)
	v.RegisterValidation("producttype", models.ValidateProductType)
	return &CustomValidator{validator: v}
}

// TaskEnqueuer is the part of the asynq client the API uses.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ServerOptions struct {
	Directory *session.Directory
	Sessions  *session.Store
	Hub       *ProgressHub

	// publishing is disabled while AWSService is nil
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
	Queue      TaskEnqueuer
	Bucket     string

	JWTSecret string
	JWTExpiry time.Duration
	Now       func() time.Time
}

func SetupServer(opts ServerOptions) *echo.Echo {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.JWTExpiry <= 0 {
		opts.JWTExpiry = 12 * time.Hour
	}

	e := echo.New()
	e.Validator = NewValidator()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(opts.JWTSecret),
		// browsers cannot set headers on websocket upgrades
		TokenLookup: "header:Authorization:Bearer ,query:token",
	})
	sessionMiddleware := SessionMiddleware(opts.Sessions, opts.Directory)

	authController := AuthController{Directory: opts.Directory, Sessions: opts.Sessions, Secret: opts.JWTSecret, Expiry: opts.JWTExpiry, Now: opts.Now}
	authGroup := e.Group("/auth")
	authController.AuthRoutes(authGroup, jwtMiddleware, sessionMiddleware)

	profileController := ProfileController{Directory: opts.Directory}
	profileController.ProfileRoutes(e.Group("/profile", jwtMiddleware, sessionMiddleware))

	settingsController := SettingsController{Directory: opts.Directory}
	settingsController.SettingsRoutes(e.Group("/settings", jwtMiddleware, sessionMiddleware, AdminOnlyMiddleware))

	workflowController := WorkflowController{}
	workflowGroup := e.Group("/workflow", jwtMiddleware, sessionMiddleware)
	workflowController.WorkflowRoutes(workflowGroup)

	exportController := ExportController{
		AWSService: opts.AWSService,
		URLCache:   opts.URLCache,
		Queue:      opts.Queue,
		Bucket:     opts.Bucket,
		Now:        opts.Now,
	}
	exportController.ExportRoutes(workflowGroup.Group("/export"))

	progressController := ProgressController{Hub: opts.Hub}
	progressController.ProgressRoutes(e.Group("/ws", jwtMiddleware, sessionMiddleware))

	return e
}
