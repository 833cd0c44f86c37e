package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "farecard/internal/errors"
	"farecard/internal/service"
)

// CardHandler handles card lifecycle endpoints.
type CardHandler struct {
	cardService service.CardService
}

// NewCardHandler creates a new card handler.
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// RegisterCardRequest represents a card registration request.
type RegisterCardRequest struct {
	UID            string `json:"uid" validate:"required"`
	OwnerID        string `json:"ownerId" validate:"required"`
	InitialBalance string `json:"initialBalance,omitempty"`
}

// BalanceResponse represents a card balance snapshot.
type BalanceResponse struct {
	UID     string `json:"uid"`
	Balance string `json:"balance"`
	Active  bool   `json:"active"`
}

// GetBalance godoc
// @Summary Get a card's balance snapshot
// @Tags cards
// @Produce json
// @Param uid path string true "Card UID"
// @Success 200 {object} BalanceResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tarjetas/{uid}/saldo [get]
func (h *CardHandler) GetBalance(c echo.Context) error {
	card, err := h.cardService.GetByUID(c.Request().Context(), c.Param("uid"))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, BalanceResponse{
		UID:     card.UID,
		Balance: card.Balance.StringFixed(2),
		Active:  card.Active,
	})
}

// Register godoc
// @Summary Register a new fare card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterCardRequest true "Card data"
// @Success 201 {object} model.Card
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/tarjetas [post]
func (h *CardHandler) Register(c echo.Context) error {
	var req RegisterCardRequest
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

	balance := decimal.Zero
	if req.InitialBalance != "" {
		parsed, err := decimal.NewFromString(req.InitialBalance)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
				Error: apperrors.ErrInvalidAmount.Error(),
				Code:  "INVALID_AMOUNT",
			})
		}
		balance = parsed
	}

	card, err := h.cardService.Register(c.Request().Context(), req.UID, req.OwnerID, balance)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, card)
}

// Deactivate godoc
// @Summary Deactivate a fare card (soft flag, never deleted)
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Card UID"
// @Success 200 {object} model.Card
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/tarjetas/{uid}/desactivar [post]
func (h *CardHandler) Deactivate(c echo.Context) error {
	card, err := h.cardService.Deactivate(c.Request().Context(), c.Param("uid"))
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, card)
}
