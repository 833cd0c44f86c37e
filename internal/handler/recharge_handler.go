package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "farecard/internal/errors"
	"farecard/internal/model"
	"farecard/internal/payment"
	"farecard/internal/service"
)

// RechargeHandler handles top-up endpoints.
type RechargeHandler struct {
	rechargeService service.RechargeService
}

// NewRechargeHandler creates a new recharge handler.
func NewRechargeHandler(rechargeService service.RechargeService) *RechargeHandler {
	return &RechargeHandler{rechargeService: rechargeService}
}

// RechargeRequest represents a top-up request. Method-specific fields are
// flattened; each provider reads only its own.
type RechargeRequest struct {
	UID              string `json:"uid" validate:"required"`
	Amount           string `json:"amount" validate:"required"`
	PaymentMethod    string `json:"paymentMethod" validate:"required,oneof=cash qr wallet"`
	ConfirmationCode string `json:"confirmationCode,omitempty"`
	BankReference    string `json:"bankReference,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Reference        string `json:"reference,omitempty"`
}

// RechargeResponse represents a successful top-up.
type RechargeResponse struct {
	NewBalance  string             `json:"newBalance"`
	Transaction *model.Transaction `json:"transaction"`
}

// PaymentFailedResponse carries the provider's decline reason.
type PaymentFailedResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

// Recharge godoc
// @Summary Top up a card balance through a payment provider
// @Tags recharge
// @Accept json
// @Produce json
// @Param request body RechargeRequest true "Recharge data"
// @Success 200 {object} RechargeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /recargar [post]
func (h *RechargeHandler) Recharge(c echo.Context) error {
	var req RechargeRequest
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

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: apperrors.ErrMissingFields.Error(),
			Code:  "MISSING_FIELDS",
		})
	}

	result, err := h.rechargeService.Recharge(c.Request().Context(), service.RechargeInput{
		CardUID: req.UID,
		Amount:  amount,
		Method:  payment.Method(req.PaymentMethod),
		Params: payment.Params{
			ConfirmationCode: req.ConfirmationCode,
			BankReference:    req.BankReference,
			Phone:            req.Phone,
			Reference:        req.Reference,
		},
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrPaymentFailed) && result != nil {
			return echo.NewHTTPError(http.StatusBadRequest, PaymentFailedResponse{
				Error:  apperrors.ErrPaymentFailed.Error(),
				Code:   "PAYMENT_FAILED",
				Reason: result.DeclineReason,
			})
		}
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, RechargeResponse{
		NewBalance:  result.NewBalance.StringFixed(2),
		Transaction: result.Entry,
	})
}
