package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "farecard/internal/errors"
	"farecard/internal/model"
	"farecard/internal/service"
)

// AdminHandler handles the validator registry and reporting endpoints.
type AdminHandler struct {
	registryService service.RegistryService
	ledgerService   service.LedgerService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(registryService service.RegistryService, ledgerService service.LedgerService) *AdminHandler {
	return &AdminHandler{
		registryService: registryService,
		ledgerService:   ledgerService,
	}
}

// RegisterValidatorRequest represents a validator registration request.
type RegisterValidatorRequest struct {
	ID       string `json:"id" validate:"required"`
	BusID    string `json:"busId"`
	Location string `json:"location"`
	Operator string `json:"operator"`
	State    string `json:"state,omitempty" validate:"omitempty,oneof=active inactive maintenance"`
}

// SetValidatorStateRequest represents a validator state transition.
type SetValidatorStateRequest struct {
	State string `json:"state" validate:"required,oneof=active inactive maintenance"`
}

// ValidatorListResponse represents the registered validator directory.
type ValidatorListResponse struct {
	Validators []model.Validator `json:"validators"`
}

// ListValidators godoc
// @Summary List registered validators
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ValidatorListResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/validadores [get]
func (h *AdminHandler) ListValidators(c echo.Context) error {
	validators, err := h.registryService.List(c.Request().Context())
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if validators == nil {
		validators = []model.Validator{}
	}
	return c.JSON(http.StatusOK, ValidatorListResponse{Validators: validators})
}

// RegisterValidator godoc
// @Summary Register a validator device
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterValidatorRequest true "Validator data"
// @Success 201 {object} model.Validator
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/validadores [post]
func (h *AdminHandler) RegisterValidator(c echo.Context) error {
	var req RegisterValidatorRequest
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

	validator := &model.Validator{
		ID:       req.ID,
		BusID:    req.BusID,
		Location: req.Location,
		Operator: req.Operator,
		State:    model.ValidatorState(req.State),
	}
	if err := h.registryService.Register(c.Request().Context(), validator); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, validator)
}

// SetValidatorState godoc
// @Summary Transition a validator's activation state
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Validator ID"
// @Param request body SetValidatorStateRequest true "Target state"
// @Success 200 {object} model.Validator
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/validadores/{id}/estado [patch]
func (h *AdminHandler) SetValidatorState(c echo.Context) error {
	var req SetValidatorStateRequest
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

	validator, err := h.registryService.SetState(
		c.Request().Context(), c.Param("id"), model.ValidatorState(req.State))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, validator)
}

// DailyReport godoc
// @Summary Daily aggregate of successful ledger entries
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param fecha query string false "Day (YYYY-MM-DD, default today)"
// @Success 200 {object} repository.DailyAggregate
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/reportes/diario [get]
func (h *AdminHandler) DailyReport(c echo.Context) error {
	aggregate, err := h.ledgerService.DailyAggregate(c.Request().Context(), c.QueryParam("fecha"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid date",
			Code:  "INVALID_DATE",
		})
	}
	return c.JSON(http.StatusOK, aggregate)
}

// RecentReport godoc
// @Summary Ledger entries of the last N hours
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param horas query int false "Window in hours (default 24, max 168)"
// @Success 200 {object} HistoryResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/reportes/recientes [get]
func (h *AdminHandler) RecentReport(c echo.Context) error {
	hours, _ := strconv.Atoi(c.QueryParam("horas"))

	entries, err := h.ledgerService.RecentWindow(c.Request().Context(), hours)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if entries == nil {
		entries = []model.Transaction{}
	}
	return c.JSON(http.StatusOK, HistoryResponse{Entries: entries})
}
