package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "farecard/internal/errors"
	"farecard/internal/model"
	"farecard/internal/service"
)

// ValidationHandler handles ride tap endpoints.
type ValidationHandler struct {
	validationService service.ValidationService
}

// NewValidationHandler creates a new validation handler.
func NewValidationHandler(validationService service.ValidationService) *ValidationHandler {
	return &ValidationHandler{validationService: validationService}
}

// ValidateRequest represents a ride tap request from a validator.
type ValidateRequest struct {
	UID         string `json:"uid" validate:"required"`
	ValidatorID string `json:"validatorId" validate:"required"`
}

// RiderInfo is the rider block of a successful validation response.
type RiderInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ValidateResponse represents a successful ride tap.
type ValidateResponse struct {
	PriorBalance string             `json:"priorBalance"`
	NewBalance   string             `json:"newBalance"`
	Fare         string             `json:"fare"`
	Rider        RiderInfo          `json:"rider"`
	Transaction  *model.Transaction `json:"transaction"`
}

// InsufficientFundsResponse extends the error payload with the data the
// validator screen shows the rider.
type InsufficientFundsResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Balance string `json:"balance"`
	Fare    string `json:"fare"`
}

// ValidateRide godoc
// @Summary Validate a ride tap and charge the fare
// @Tags validation
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Tap data"
// @Success 200 {object} ValidateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /validar [post]
func (h *ValidationHandler) ValidateRide(c echo.Context) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: apperrors.ErrMissingFields.Error(),
			Code:  "MISSING_FIELDS",
		})
	}

	result, err := h.validationService.ValidateRide(c.Request().Context(), req.UID, req.ValidatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) && result != nil {
			return echo.NewHTTPError(http.StatusBadRequest, InsufficientFundsResponse{
				Error:   apperrors.ErrInsufficientFunds.Error(),
				Code:    "INSUFFICIENT_FUNDS",
				Balance: result.PriorBalance.StringFixed(2),
				Fare:    result.Fare.StringFixed(2),
			})
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ValidateResponse{
		PriorBalance: result.PriorBalance.StringFixed(2),
		NewBalance:   result.NewBalance.StringFixed(2),
		Fare:         result.Fare.StringFixed(2),
		Rider: RiderInfo{
			Name: result.Rider.Name,
			Type: string(result.Rider.Category),
		},
		Transaction: result.Entry,
	})
}
