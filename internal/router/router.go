package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"farecard/internal/config"
	"farecard/internal/handler"
)

// Register wires routes and middleware. Route names keep the original
// Spanish wire contract the validator firmware speaks.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	validationHandler *handler.ValidationHandler,
	rechargeHandler *handler.RechargeHandler,
	historyHandler *handler.HistoryHandler,
	cardHandler *handler.CardHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes used by validators and the rider app
	api.POST("/validar", validationHandler.ValidateRide)
	api.POST("/recargar", rechargeHandler.Recharge)
	api.GET("/historial/:uid", historyHandler.History)
	api.GET("/tarjetas/:uid/saldo", cardHandler.GetBalance)

	// Back-office routes (require an operator JWT)
	admin := api.Group("/admin", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	admin.POST("/tarjetas", cardHandler.Register)
	admin.POST("/tarjetas/:uid/desactivar", cardHandler.Deactivate)

	admin.GET("/validadores", adminHandler.ListValidators)
	admin.POST("/validadores", adminHandler.RegisterValidator)
	admin.PATCH("/validadores/:id/estado", adminHandler.SetValidatorState)

	admin.GET("/reportes/diario", adminHandler.DailyReport)
	admin.GET("/reportes/recientes", adminHandler.RecentReport)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
