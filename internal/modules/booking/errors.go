package booking

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceInactive = errors.New("service inactive")
	ErrNotFound        = errors.New("booking not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidState    = errors.New("invalid booking state")
	ErrSlotUnavailable = errors.New("slot unavailable")
	ErrGateway         = errors.New("payment gateway error")
)
