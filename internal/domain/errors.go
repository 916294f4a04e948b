package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrDuplicatePayment   = errors.New("duplicate payment reference")
	ErrSignatureMismatch  = errors.New("invalid payment signature")
	ErrPaymentNotCaptured = errors.New("payment not captured")
	ErrGatewayAuth        = errors.New("gateway authentication failed")
)

// ValidationError marks malformed or missing caller input. Handlers map it to
// a 400 response carrying the message verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
