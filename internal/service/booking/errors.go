package booking

import "errors"

var (
	ErrGymNotFound         = errors.New("gym not found")
	ErrGymInactive         = errors.New("gym is inactive")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrNotACustomer        = errors.New("principal is not a customer")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrAccessCodeExhausted = errors.New("access code generation retries exhausted")
)
