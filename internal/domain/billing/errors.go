// internal/domain/billing/errors.go
package billing

import (
	"fmt"
	"net/http"
)

// ErrorKind is a machine-checkable classification of checkout failures.
type ErrorKind string

// Checkout error taxonomy
const (
	ErrEmptyCart          ErrorKind = "EMPTY_CART"
	ErrInvalidRequest     ErrorKind = "INVALID_REQUEST"
	ErrInvalidLineItem    ErrorKind = "INVALID_LINE_ITEM"
	ErrProductNotFound    ErrorKind = "PRODUCT_NOT_FOUND"
	ErrInsufficientStock  ErrorKind = "INSUFFICIENT_STOCK"
	ErrPaymentMismatch    ErrorKind = "PAYMENT_MISMATCH"
	ErrInvoiceNotFound    ErrorKind = "INVOICE_NOT_FOUND"
	ErrPersistenceFailure ErrorKind = "PERSISTENCE_FAILURE"
)

// CheckoutError carries a kind for clients and a human-readable message.
// Internal causes are wrapped for logs but never leak into responses.
type CheckoutError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause
func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status code
func (e *CheckoutError) HTTPStatus() int {
	switch e.Kind {
	case ErrEmptyCart, ErrInvalidRequest, ErrInvalidLineItem, ErrPaymentMismatch:
		return http.StatusBadRequest
	case ErrProductNotFound, ErrInvoiceNotFound:
		return http.StatusNotFound
	case ErrInsufficientStock:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind ErrorKind, format string, args ...interface{}) *CheckoutError {
	return &CheckoutError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, format string, args ...interface{}) *CheckoutError {
	return &CheckoutError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
