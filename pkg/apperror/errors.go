package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation returns a user-correctable bad-input error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusUnprocessableEntity)
}

func ErrInvalidAmount(min, max int64) *AppError {
	return New("VAL_002", fmt.Sprintf("Amount must be between %d and %d", min, max), http.StatusUnprocessableEntity)
}

func ErrInvalidPaymentMethod() *AppError {
	return New("VAL_003", "Unsupported payment method", http.StatusUnprocessableEntity)
}

// ---- Top-up business logic (TOP) ----

func ErrNotFound(entity string) *AppError {
	return New("TOP_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrDuplicateLedgerEntry() *AppError {
	return New("TOP_002", "Ledger entry already exists for this order", http.StatusConflict)
}

// ErrReconciliation wraps a transaction-boundary failure. State is left
// exactly as before the call; the whole reconcile may be retried.
func ErrReconciliation(err error) *AppError {
	return Wrap("TOP_003", "Reconciliation failed", http.StatusInternalServerError, err)
}

// ---- Security (SEC) ----

func ErrInvalidSignature() *AppError {
	return New("SEC_001", "Invalid signature", http.StatusUnauthorized)
}

// ---- Gateway (GW) ----

func ErrGateway(err error) *AppError {
	return Wrap("GW_001", "Payment gateway error", http.StatusBadGateway, err)
}

func ErrGatewayTimeout(err error) *AppError {
	return Wrap("GW_002", "Payment gateway timeout", http.StatusBadGateway, err)
}

// ---- Rate limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
