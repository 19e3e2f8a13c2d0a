package errors

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrInvalidIdentityNumber = errors.New("invalid identity number")
	ErrProductNotFound       = errors.New("product not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrGateway               = errors.New("payment gateway rejected request")
)

// GatewayError carries the provider's message and raw response back to the caller.
type GatewayError struct {
	Message string
	Details map[string]any
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return ErrGateway.Error()
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error { return ErrGateway }
