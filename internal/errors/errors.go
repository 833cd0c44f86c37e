package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrCardNotFound is returned when a card is absent or deactivated.
	ErrCardNotFound = errors.New("card_not_found")
	// ErrValidatorUnavailable is returned when a validator is absent or not active.
	ErrValidatorUnavailable = errors.New("validator_unavailable")
	// ErrInsufficientFunds is returned when a card balance cannot cover the fare.
	ErrInsufficientFunds = errors.New("insufficient_funds")
	// ErrPaymentFailed is returned when the payment provider declines a recharge.
	ErrPaymentFailed = errors.New("payment_failed")
	// ErrBelowMinimum is returned when a recharge amount is under the configured floor.
	ErrBelowMinimum = errors.New("below_minimum")
	// ErrMissingFields is returned when a request omits required fields.
	ErrMissingFields = errors.New("missing_fields")
	// ErrDuplicateEntry is returned on a ledger key collision.
	ErrDuplicateEntry = errors.New("duplicate_transaction")
	// ErrInvalidBalance is returned when a write would leave a negative balance.
	ErrInvalidBalance = errors.New("invalid_balance")
	// ErrInvalidAmount is returned when an amount fails to parse or is not positive.
	ErrInvalidAmount = errors.New("invalid_amount")
	// ErrValidatorExists is returned when registering a validator id already taken.
	ErrValidatorExists = errors.New("validator_exists")
	// ErrCardExists is returned when registering a card uid already taken.
	ErrCardExists = errors.New("card_exists")
)

// ErrorResponse represents a standardized error response. Error carries the
// wire contract string consumed by the validator firmware and the app.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrCardNotFound):
		return NewHTTPError(http.StatusNotFound, ErrCardNotFound.Error(), "CARD_NOT_FOUND")
	case errors.Is(err, ErrValidatorUnavailable):
		return NewHTTPError(http.StatusBadRequest, ErrValidatorUnavailable.Error(), "VALIDATOR_UNAVAILABLE")
	case errors.Is(err, ErrInsufficientFunds):
		return NewHTTPError(http.StatusBadRequest, ErrInsufficientFunds.Error(), "INSUFFICIENT_FUNDS")
	case errors.Is(err, ErrPaymentFailed):
		return NewHTTPError(http.StatusBadRequest, ErrPaymentFailed.Error(), "PAYMENT_FAILED")
	case errors.Is(err, ErrBelowMinimum):
		return NewHTTPError(http.StatusBadRequest, ErrBelowMinimum.Error(), "BELOW_MINIMUM")
	case errors.Is(err, ErrMissingFields):
		return NewHTTPError(http.StatusBadRequest, ErrMissingFields.Error(), "MISSING_FIELDS")
	case errors.Is(err, ErrDuplicateEntry):
		return NewHTTPError(http.StatusBadRequest, ErrDuplicateEntry.Error(), "DUPLICATE_TRANSACTION")
	case errors.Is(err, ErrInvalidBalance):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidBalance.Error(), "INVALID_BALANCE")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidAmount.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrValidatorExists):
		return NewHTTPError(http.StatusConflict, ErrValidatorExists.Error(), "VALIDATOR_EXISTS")
	case errors.Is(err, ErrCardExists):
		return NewHTTPError(http.StatusConflict, ErrCardExists.Error(), "CARD_EXISTS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
