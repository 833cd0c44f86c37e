package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "farecard/internal/errors"
	"farecard/internal/model"
	"farecard/internal/service"
)

// HistoryHandler handles ledger read endpoints.
type HistoryHandler struct {
	ledgerService service.LedgerService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(ledgerService service.LedgerService) *HistoryHandler {
	return &HistoryHandler{ledgerService: ledgerService}
}

// HistoryResponse represents a page of a card's ledger, newest first.
type HistoryResponse struct {
	Entries []model.Transaction `json:"entries"`
}

// History godoc
// @Summary List a card's ledger entries, newest first
// @Tags history
// @Produce json
// @Param uid path string true "Card UID"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} HistoryResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /historial/{uid} [get]
func (h *HistoryHandler) History(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: apperrors.ErrMissingFields.Error(),
			Code:  "MISSING_FIELDS",
		})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	entries, err := h.ledgerService.History(c.Request().Context(), uid, limit, offset)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if entries == nil {
		entries = []model.Transaction{}
	}
	return c.JSON(http.StatusOK, HistoryResponse{Entries: entries})
}
